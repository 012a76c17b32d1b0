package trim

import (
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/overlap"
)

// CorrectionStats tallies the bases and reads touched by
// CorrectByOverlap, merged across a run's workers the same way the
// per-cycle stats are.
type CorrectionStats struct {
	CorrectedReads int
	CorrectedBases int
	// Matrix is a 4x4 from-base/to-base accumulation, indexed
	// fromBaseIndex*4+toBaseIndex using A=0,T=1,C=2,G=3.
	Matrix [16]int
}

func baseMatrixIndex(b byte) int {
	switch b {
	case 'A':
		return 0
	case 'T':
		return 1
	case 'C':
		return 2
	case 'G':
		return 3
	default:
		return -1
	}
}

// CorrectByOverlap walks the overlapped region of r1/r2 and, wherever the
// two reads disagree, replaces the lower-quality base with the
// higher-quality one's complement-consistent call, provided the quality
// gap is decisive (at least a full phred point and both bases unambiguous
// nucleotides). Stats accumulates counts for the reporter.
func CorrectByOverlap(r1, r2 *fastqio.Read, ov overlap.Result, stats *CorrectionStats) {
	if !ov.Overlapped {
		return
	}
	lo1 := ov.Offset
	if lo1 < 0 {
		lo1 = 0
	}
	len2 := r2.Length()
	lo2 := -ov.Offset
	if lo2 < 0 {
		lo2 = 0
	}

	corrected := false
	for i := 0; i < ov.OverlapLen; i++ {
		i1 := lo1 + i
		j2 := len2 - 1 - (lo2 + i)
		b1, q1 := r1.Sequence[i1], int(r1.Quality[i1])
		rawB2, q2 := r2.Sequence[j2], int(r2.Quality[j2])
		b2 := complementBase(rawB2)

		if b1 == b2 {
			continue
		}
		fi, ti := baseMatrixIndex(b1), baseMatrixIndex(b2)
		if fi < 0 || ti < 0 {
			continue
		}
		if q1 > q2 {
			stats.Matrix[ti*4+fi]++
			r2seq := []byte(r2.Sequence)
			r2seq[j2] = complementBase(b1)
			r2.Sequence = string(r2seq)
			corrected = true
			stats.CorrectedBases++
		} else if q2 > q1 {
			stats.Matrix[fi*4+ti]++
			r1seq := []byte(r1.Sequence)
			r1seq[i1] = b2
			r1.Sequence = string(r1seq)
			corrected = true
			stats.CorrectedBases++
		}
	}
	if corrected {
		stats.CorrectedReads++
	}
}

func complementBase(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return b
	}
}
