// Package report builds a run's Summary from a pipeline.Result and renders
// it as JSON or HTML, giving the otherwise-external report collaborator a
// minimal, real implementation.
package report

import (
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/pipeline"
	"github.com/fastqpp/fastqpp/internal/stats"
	"github.com/fastqpp/fastqpp/internal/trim"
)

// ReadSetStats is the subset of stats.Stats surfaced in a report.
type ReadSetStats struct {
	Reads       int64
	Bases       int64
	GCContent   float64
	NContent    float64
	Q20Rate     float64
	Q30Rate     float64
	MeanQuality float64
}

// VerdictCount pairs a filter verdict's name with how many pairs received
// it, kept as an ordered slice (rather than a map) so JSON/HTML output is
// stable across runs.
type VerdictCount struct {
	Verdict string
	Count   int64
}

// AdapterSummary reports adapter-trimming activity for both mates.
type AdapterSummary struct {
	TrimmedReads int
	TrimmedBases int
	TopSeqsR1    []string
	TopSeqsR2    []string
}

// CorrectionSummary reports overlap-based base-correction activity.
type CorrectionSummary struct {
	CorrectedReads int
	CorrectedBases int
}

// Summary is everything a run's JSON/HTML report needs.
type Summary struct {
	Command string
	Version string

	TotalPairs  int64
	PassedPairs int64
	MergedPairs int64
	Verdicts    []VerdictCount

	Read1Before, Read2Before ReadSetStats
	Read1After, Read2After   ReadSetStats

	DuplicationRate float64
	DuplicationHist []float64

	InsertSizePeak int

	Adapter    AdapterSummary
	Correction CorrectionSummary
}

// BuildSummary assembles a Summary from a completed run's options and
// merged pipeline result.
func BuildSummary(o *options.Options, res *pipeline.Result) Summary {
	s := Summary{
		Command:     o.Command,
		Version:     o.Version,
		TotalPairs:  res.TotalPairs,
		PassedPairs: res.Filter.PassedPairs(),
		MergedPairs: res.Filter.MergedPairs,
		Read1Before: fromStats(res.PreR1),
		Read2Before: fromStats(res.PreR2),
		Read1After:  fromStats(res.PostR1),
		Read2After:  fromStats(res.PostR2),
	}

	for v := trim.Pass; int(v) < len(res.Filter.Verdicts); v++ {
		s.Verdicts = append(s.Verdicts, VerdictCount{Verdict: v.String(), Count: res.Filter.Verdicts[v]})
	}

	if res.Dedup != nil {
		s.DuplicationRate = res.Dedup.DuplicationRate() * 100
		s.DuplicationHist = res.Dedup.Histogram()
	}

	s.InsertSizePeak = insertSizePeak(res.Filter.InsertSizes)

	if res.Filter.Adapter != nil {
		s.Adapter = AdapterSummary{
			TrimmedReads: res.Filter.Adapter.TrimmedReads,
			TrimmedBases: res.Filter.Adapter.TrimmedBases,
			TopSeqsR1:    trim.TrimmedSeqSummary(res.Filter.Adapter.SeqCount1, int(res.TotalPairs), o.Adapter.ReportThreshold),
			TopSeqsR2:    trim.TrimmedSeqSummary(res.Filter.Adapter.SeqCount2, int(res.TotalPairs), o.Adapter.ReportThreshold),
		}
	}

	s.Correction = CorrectionSummary{
		CorrectedReads: res.Filter.Correction.CorrectedReads,
		CorrectedBases: res.Filter.Correction.CorrectedBases,
	}

	return s
}

func fromStats(s *stats.Stats) ReadSetStats {
	if s == nil {
		return ReadSetStats{}
	}
	return ReadSetStats{
		Reads:       s.Reads,
		Bases:       s.Bases,
		GCContent:   s.GCContent(),
		NContent:    s.NContent(),
		Q20Rate:     s.Q20Rate(),
		Q30Rate:     s.Q30Rate(),
		MeanQuality: s.MeanQuality(),
	}
}

// insertSizePeak returns the most frequently observed insert size, the
// mode of every worker's sampled InsertSizes.
func insertSizePeak(sizes []int64) int {
	if len(sizes) == 0 {
		return 0
	}
	counts := map[int64]int{}
	var best int64
	bestCount := 0
	for _, size := range sizes {
		counts[size]++
		if counts[size] > bestCount {
			best, bestCount = size, counts[size]
		}
	}
	return int(best)
}
