package trim

import (
	"sort"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/overlap"
)

// AdapterStats tallies reads/bases trimmed as adapter contamination,
// merged across workers the same way the per-cycle stats are.
type AdapterStats struct {
	TrimmedReads int
	TrimmedBases int
	SeqCount1    map[string]int
	SeqCount2    map[string]int
}

// NewAdapterStats returns a ready-to-use AdapterStats.
func NewAdapterStats() *AdapterStats {
	return &AdapterStats{SeqCount1: map[string]int{}, SeqCount2: map[string]int{}}
}

// TrimByOverlap detects adapter read-through using ov, the overlap result
// already computed for the pair: a negative offset means the true
// fragment is shorter than either read, so both reads ran past the
// insert and into adapter sequence. It trims both reads down to the
// insert boundary and reports whether anything was trimmed.
func TrimByOverlap(r1, r2 *fastqio.Read, ov overlap.Result, stats *AdapterStats) bool {
	if !ov.Overlapped || ov.Offset >= 0 {
		return false
	}
	lo2 := -ov.Offset
	trimmed := false

	if r1.Length() > ov.OverlapLen {
		cutBases := r1.Length() - ov.OverlapLen
		recordAdapterTrim(stats, r1, cutBases, stats.SeqCount1)
		r1.Sequence = r1.Sequence[:ov.OverlapLen]
		r1.Quality = r1.Quality[:ov.OverlapLen]
		trimmed = true
	}
	keep2 := r2.Length() - lo2
	if keep2 < r2.Length() {
		cutBases := r2.Length() - keep2
		recordAdapterTrim(stats, r2, cutBases, stats.SeqCount2)
		r2.Sequence = r2.Sequence[:keep2]
		r2.Quality = r2.Quality[:keep2]
		trimmed = true
	}
	return trimmed
}

func recordAdapterTrim(stats *AdapterStats, r *fastqio.Read, cutBases int, seqCount map[string]int) {
	if stats == nil || cutBases <= 0 {
		return
	}
	stats.TrimmedReads++
	stats.TrimmedBases += cutBases
	adapterSeq := r.Sequence[r.Length()-cutBases:]
	seqCount[adapterSeq]++
}

// TrimBySequence searches for adapterSeq anchored at the 3' end of r,
// allowing up to compareLen/8 + 1 mismatches (one per full 8 bases
// compared, plus one), and trims everything
// from the first qualifying match onward. isRead2 only affects which
// stats bucket receives the match.
func TrimBySequence(r *fastqio.Read, adapterSeq string, stats *AdapterStats, isRead2 bool) bool {
	if r == nil || adapterSeq == "" || r.Length() == 0 {
		return false
	}
	n := r.Length()
	best := -1
	for start := 0; start < n; start++ {
		compareLen := n - start
		if compareLen > len(adapterSeq) {
			compareLen = len(adapterSeq)
		}
		if compareLen < 4 {
			continue
		}
		allowed := compareLen/8 + 1
		mismatches := 0
		for i := 0; i < compareLen; i++ {
			if r.Sequence[start+i] != adapterSeq[i] {
				mismatches++
				if mismatches > allowed {
					break
				}
			}
		}
		if mismatches <= allowed {
			best = start
			break
		}
	}
	if best < 0 {
		return false
	}
	cutBases := n - best
	seqCount := stats.SeqCount1
	if isRead2 {
		seqCount = stats.SeqCount2
	}
	recordAdapterTrim(stats, r, cutBases, seqCount)
	r.Sequence = r.Sequence[:best]
	r.Quality = r.Quality[:best]
	return true
}

// TrimmedSeqSummary returns the adapter sequences trimmed in at least
// reportThreshold of totalReads, sorted by count descending — the
// over-threshold adapter list surfaced in the report.
func TrimmedSeqSummary(seqCount map[string]int, totalReads int, reportThreshold float64) []string {
	var out []string
	for seq, count := range seqCount {
		if totalReads > 0 && float64(count)/float64(totalReads) >= reportThreshold {
			out = append(out, seq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return seqCount[out[i]] > seqCount[out[j]] })
	return out
}
