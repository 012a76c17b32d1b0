package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// JSON writes summary to w as indented JSON, the machine-readable report
// counterpart to HTML.
func JSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

var tmplFuncs = template.FuncMap{
	"pct": func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
	"f2":  func(f float64) string { return fmt.Sprintf("%.2f", f) },
}

// htmlTmpl follows the summary-table-then-sections layout of the teacher
// pack's own fastqc_mimic/html.go, simplified to the fields Summary carries
// and rendered through html/template instead of fmt.Sprintf so that
// adapter/comment text pulled from read headers is escaped automatically
// rather than trusted verbatim.
var htmlTmpl = template.Must(template.New("report").Funcs(tmplFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
h1 { font-size: 1.4em; }
h2 { font-size: 1.1em; margin-top: 1.5em; border-bottom: 1px solid #ccc; }
table { border-collapse: collapse; margin-bottom: 1em; }
td, th { padding: 3px 10px; text-align: left; border-bottom: 1px solid #eee; }
.pass { color: #2a8; }
.fail { color: #a33; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<h2>Filtering Result</h2>
<table>
<tr><th>Total pairs</th><td>{{.Summary.TotalPairs}}</td></tr>
<tr><th>Pairs passed filtering</th><td>{{.Summary.PassedPairs}}</td></tr>
<tr><th>Pairs merged</th><td>{{.Summary.MergedPairs}}</td></tr>
{{range .Summary.Verdicts}}<tr><th>{{.Verdict}}</th><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Before Filtering</h2>
<table>
<tr><th></th><th>read1</th><th>read2</th></tr>
<tr><th>reads</th><td>{{.Summary.Read1Before.Reads}}</td><td>{{.Summary.Read2Before.Reads}}</td></tr>
<tr><th>bases</th><td>{{.Summary.Read1Before.Bases}}</td><td>{{.Summary.Read2Before.Bases}}</td></tr>
<tr><th>GC content</th><td>{{pct .Summary.Read1Before.GCContent}}</td><td>{{pct .Summary.Read2Before.GCContent}}</td></tr>
<tr><th>N content</th><td>{{pct .Summary.Read1Before.NContent}}</td><td>{{pct .Summary.Read2Before.NContent}}</td></tr>
<tr><th>Q20 rate</th><td>{{pct .Summary.Read1Before.Q20Rate}}</td><td>{{pct .Summary.Read2Before.Q20Rate}}</td></tr>
<tr><th>Q30 rate</th><td>{{pct .Summary.Read1Before.Q30Rate}}</td><td>{{pct .Summary.Read2Before.Q30Rate}}</td></tr>
<tr><th>mean quality</th><td>{{f2 .Summary.Read1Before.MeanQuality}}</td><td>{{f2 .Summary.Read2Before.MeanQuality}}</td></tr>
</table>

<h2>After Filtering</h2>
<table>
<tr><th></th><th>read1</th><th>read2</th></tr>
<tr><th>reads</th><td>{{.Summary.Read1After.Reads}}</td><td>{{.Summary.Read2After.Reads}}</td></tr>
<tr><th>bases</th><td>{{.Summary.Read1After.Bases}}</td><td>{{.Summary.Read2After.Bases}}</td></tr>
<tr><th>GC content</th><td>{{pct .Summary.Read1After.GCContent}}</td><td>{{pct .Summary.Read2After.GCContent}}</td></tr>
<tr><th>N content</th><td>{{pct .Summary.Read1After.NContent}}</td><td>{{pct .Summary.Read2After.NContent}}</td></tr>
<tr><th>Q20 rate</th><td>{{pct .Summary.Read1After.Q20Rate}}</td><td>{{pct .Summary.Read2After.Q20Rate}}</td></tr>
<tr><th>Q30 rate</th><td>{{pct .Summary.Read1After.Q30Rate}}</td><td>{{pct .Summary.Read2After.Q30Rate}}</td></tr>
<tr><th>mean quality</th><td>{{f2 .Summary.Read1After.MeanQuality}}</td><td>{{f2 .Summary.Read2After.MeanQuality}}</td></tr>
</table>

<h2>Adapter Trimming</h2>
<table>
<tr><th>Reads with adapter trimmed</th><td>{{.Summary.Adapter.TrimmedReads}}</td></tr>
<tr><th>Bases trimmed</th><td>{{.Summary.Adapter.TrimmedBases}}</td></tr>
</table>
{{if .Summary.Adapter.TopSeqsR1}}<p>Top adapters (read1):</p><ul>{{range .Summary.Adapter.TopSeqsR1}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Summary.Adapter.TopSeqsR2}}<p>Top adapters (read2):</p><ul>{{range .Summary.Adapter.TopSeqsR2}}<li>{{.}}</li>{{end}}</ul>{{end}}

<h2>Base Correction</h2>
<table>
<tr><th>Reads corrected</th><td>{{.Summary.Correction.CorrectedReads}}</td></tr>
<tr><th>Bases corrected</th><td>{{.Summary.Correction.CorrectedBases}}</td></tr>
</table>

<h2>Duplication</h2>
<table>
<tr><th>Duplication rate</th><td>{{pct .Summary.DuplicationRate}}</td></tr>
</table>

<h2>Insert Size</h2>
<table>
<tr><th>Peak</th><td>{{.Summary.InsertSizePeak}} bp</td></tr>
</table>

</body>
</html>
`))

// HTML renders summary as a self-contained HTML report titled title.
func HTML(w io.Writer, summary Summary, title string) error {
	data := struct {
		Title   string
		Summary Summary
	}{Title: title, Summary: summary}
	return htmlTmpl.Execute(w, data)
}
