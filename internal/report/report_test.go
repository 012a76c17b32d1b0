package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastqpp/fastqpp/internal/dedup"
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/pipeline"
	"github.com/fastqpp/fastqpp/internal/stats"
	"github.com/fastqpp/fastqpp/internal/trim"
)

func newRead(seq string) *fastqio.Read {
	return &fastqio.Read{
		Name:     "r",
		Sequence: seq,
		Quality:  strings.Repeat("I", len(seq)),
	}
}

func buildTestResult() *pipeline.Result {
	preR1, preR2 := stats.New(0), stats.New(0)
	postR1, postR2 := stats.New(0), stats.New(0)

	r1, r2 := newRead("ACGTACGTAC"), newRead("TGCATGCATG")
	preR1.AddRead(r1)
	preR2.AddRead(r2)
	postR1.AddRead(r1)

	filter := pipeline.NewFilterResult()
	filter.Adapter.TrimmedReads = 3
	filter.Adapter.TrimmedBases = 30
	filter.Adapter.SeqCount1["AGATCGGAAGAGC"] = 5
	filter.Correction.CorrectedReads = 1
	filter.Correction.CorrectedBases = 2

	dedupEst := dedup.New(4, 8)
	dedupEst.Add(r1, r2)
	dedupEst.Add(r1, r2)

	res := &pipeline.Result{
		PreR1:  preR1,
		PreR2:  preR2,
		PostR1: postR1,
		PostR2: postR2,
		Filter: filter,
		Dedup:  dedupEst,
	}
	// Directly tally verdicts the way ProcessPack would, since
	// FilterResult's fields are exported counters.
	res.Filter.Verdicts[trim.Pass] = 7
	res.Filter.Verdicts[trim.TooShort] = 3
	res.Filter.MergedPairs = 1
	res.Filter.InsertSizes = []int64{180, 180, 200, 180}
	res.TotalPairs = res.Filter.TotalPairs()

	return res
}

func TestBuildSummaryComputesDerivedFields(t *testing.T) {
	o := options.New()
	o.Command = "fastqpp --in1 a.fq --in2 b.fq"
	o.Version = "0.1.0"
	o.Adapter.ReportThreshold = 0.01

	res := buildTestResult()
	s := BuildSummary(o, res)

	assert.Equal(t, "fastqpp --in1 a.fq --in2 b.fq", s.Command)
	assert.Equal(t, "0.1.0", s.Version)
	assert.Equal(t, int64(10), s.TotalPairs)
	assert.Equal(t, int64(7), s.PassedPairs)
	assert.Equal(t, int64(1), s.MergedPairs)

	// InsertSizes {180, 180, 200, 180} -> mode is 180.
	assert.Equal(t, 180, s.InsertSizePeak)

	// Two identical Add(r1, r2) calls into one bucket -> 1 distinct
	// fingerprint over 2 pairs -> rate = 1 - 1/2 = 0.5 -> 50%.
	assert.InDelta(t, 50.0, s.DuplicationRate, 0.0001)

	assert.Equal(t, 3, s.Adapter.TrimmedReads)
	assert.Equal(t, 30, s.Adapter.TrimmedBases)
	assert.Equal(t, 1, s.Correction.CorrectedReads)
	assert.Equal(t, 2, s.Correction.CorrectedBases)

	var passCount, tooShortCount int64
	for _, v := range s.Verdicts {
		switch v.Verdict {
		case trim.Pass.String():
			passCount = v.Count
		case trim.TooShort.String():
			tooShortCount = v.Count
		}
	}
	assert.Equal(t, int64(7), passCount)
	assert.Equal(t, int64(3), tooShortCount)

	assert.Equal(t, int64(1), s.Read1Before.Reads)
	assert.Equal(t, int64(1), s.Read1After.Reads)
	assert.Equal(t, int64(0), s.Read2After.Reads)
}

func TestJSONRoundTrips(t *testing.T) {
	o := options.New()
	res := buildTestResult()
	s := BuildSummary(o, res)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, s))

	var back Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))

	assert.Equal(t, s.TotalPairs, back.TotalPairs)
	assert.Equal(t, s.InsertSizePeak, back.InsertSizePeak)
	assert.Equal(t, s.Adapter.TrimmedReads, back.Adapter.TrimmedReads)
	assert.Equal(t, len(s.Verdicts), len(back.Verdicts))
}

func TestHTMLContainsExpectedContent(t *testing.T) {
	o := options.New()
	res := buildTestResult()
	s := BuildSummary(o, res)

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, s, "fastqpp report"))

	out := buf.String()
	assert.True(t, strings.Contains(out, "<title>fastqpp report</title>"))
	assert.True(t, strings.Contains(out, "<h1>fastqpp report</h1>"))
	assert.True(t, strings.Contains(out, "50.00%")) // duplication rate
	assert.True(t, strings.Contains(out, "180 bp")) // insert size peak
	assert.True(t, strings.Contains(out, trim.Pass.String()))
}
