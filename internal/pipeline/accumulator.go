package pipeline

import "github.com/fastqpp/fastqpp/internal/trim"

// verdictKinds is the number of distinct trim.Verdict values; used to size
// FilterResult.Verdicts. It relies on trim.IndexMatch being the last
// Verdict value.
const verdictKinds = int(trim.IndexMatch) + 1

// FilterResult tallies one worker's share of a run: how many pairs received
// each trim.Verdict, how many pairs were merged by overlap, the sampled
// insert-size distribution, and the accumulated correction/adapter
// statistics. Every field is a plain additive counter or a map/slice of
// them, so merging every worker's FilterResult pairwise reproduces exactly
// what a single-worker run over the same input would have tallied.
type FilterResult struct {
	Verdicts [verdictKinds]int64

	MergedPairs int64

	InsertSizes []int64

	Correction trim.CorrectionStats
	Adapter    *trim.AdapterStats
}

// NewFilterResult returns an empty, ready-to-use FilterResult.
func NewFilterResult() *FilterResult {
	return &FilterResult{Adapter: trim.NewAdapterStats()}
}

func (f *FilterResult) recordVerdict(v trim.Verdict) {
	f.Verdicts[v]++
}

func (f *FilterResult) recordInsertSize(size int) {
	f.InsertSizes = append(f.InsertSizes, int64(size))
}

// TotalPairs sums every verdict bucket, the number of pairs this result has
// seen.
func (f *FilterResult) TotalPairs() int64 {
	var total int64
	for _, c := range f.Verdicts {
		total += c
	}
	return total
}

// PassedPairs reports how many pairs received a Pass verdict. Merged pairs
// whose merged read passes PassFilter are already recorded under Pass, so
// MergedPairs is a subset of this count, not an addition to it.
func (f *FilterResult) PassedPairs() int64 {
	return f.Verdicts[trim.Pass]
}

// Merge folds other's counters into f.
func (f *FilterResult) Merge(other *FilterResult) {
	if other == nil {
		return
	}
	for i, c := range other.Verdicts {
		f.Verdicts[i] += c
	}
	f.MergedPairs += other.MergedPairs
	f.InsertSizes = append(f.InsertSizes, other.InsertSizes...)

	f.Correction.CorrectedReads += other.Correction.CorrectedReads
	f.Correction.CorrectedBases += other.Correction.CorrectedBases
	for i, c := range other.Correction.Matrix {
		f.Correction.Matrix[i] += c
	}

	mergeAdapterStats(f.Adapter, other.Adapter)
}

func mergeAdapterStats(dst, src *trim.AdapterStats) {
	if dst == nil || src == nil {
		return
	}
	dst.TrimmedReads += src.TrimmedReads
	dst.TrimmedBases += src.TrimmedBases
	for seq, count := range src.SeqCount1 {
		dst.SeqCount1[seq] += count
	}
	for seq, count := range src.SeqCount2 {
		dst.SeqCount2[seq] += count
	}
}
