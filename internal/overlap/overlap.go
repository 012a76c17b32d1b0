// Package overlap implements the forward/reverse-complement overlap
// detection between a read pair's two ends, used for insert-size
// estimation, base correction, adapter trimming, and paired-end merging.
package overlap

import "github.com/fastqpp/fastqpp/internal/fastqio"

// Result is the outcome of an overlap search between R1 and
// reverse-complement-aligned R2.
type Result struct {
	Overlapped bool
	Offset     int
	OverlapLen int
	Diff       int
}

func complement(b byte) byte {
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

func complementEqual(a, b byte) bool {
	return a == complement(b)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Analyze searches for the highest-identity overlap of at least
// overlapRequire bases between r1 and the reverse complement of r2, with at
// most overlapDiffLimit mismatches. offset is the position in r1's
// coordinate frame where the reverse-complemented r2 begins: offset>=0
// means r2(rc) starts at or after r1's first base; offset<0 means it
// starts before r1's first base. The sign is always frame-relative to
// whichever read is passed as r1; swapping r1 and r2 negates the offset
// only when the pair is symmetric (equal length, zero net overhang on
// one side) — for reads of differing length the two directions still
// agree on overlapped/overlapLen but the offset is not guaranteed to
// negate.
func Analyze(r1, r2 *fastqio.Read, overlapDiffLimit, overlapRequire int) Result {
	s1 := r1.Sequence
	s2 := r2.Sequence
	len1, len2 := len(s1), len(s2)

	lo := -(len2 - overlapRequire)
	hi := len1 - overlapRequire
	var best Result
	found := false

	for o := lo; o <= hi; o++ {
		overlapLen := min(len1, o+len2) - max(0, o)
		if overlapLen < overlapRequire {
			continue
		}
		start1 := max(0, o)
		skip2 := max(0, -o)
		diff := 0
		for i := 0; i < overlapLen; i++ {
			i1 := start1 + i
			i2 := len2 - 1 - (skip2 + i)
			if !complementEqual(s1[i1], s2[i2]) {
				diff++
				if diff > overlapDiffLimit {
					break
				}
			}
		}
		if diff <= overlapDiffLimit {
			if !found || overlapLen > best.OverlapLen {
				best = Result{Overlapped: true, Offset: o, OverlapLen: overlapLen, Diff: diff}
				found = true
			}
		}
	}
	return best
}

// InsertSize derives the estimated fragment length from an overlap result,
// clamped to insertSizeMax.
func InsertSize(r1, r2 *fastqio.Read, ov Result, insertSizeMax int) int {
	isize := insertSizeMax
	if ov.Overlapped {
		if ov.Offset > 0 {
			isize = r1.Length() + r2.Length() - ov.OverlapLen
		} else {
			isize = ov.OverlapLen
		}
	}
	if isize > insertSizeMax {
		isize = insertSizeMax
	}
	return isize
}

// rcBaseQual returns the reverse-complement base of r2 at rc-coordinate j
// (0 <= j < len(r2.Sequence)), along with the corresponding quality byte.
func rcBaseQual(r2 *fastqio.Read, j int) (byte, byte) {
	n := len(r2.Sequence)
	raw := r2.Sequence[n-1-j]
	return complement(raw), r2.Quality[n-1-j]
}

// Merge concatenates r1's non-overlap prefix, a quality-weighted consensus
// of the overlapped region, and the reverse complement of r2's non-overlap
// suffix, producing the merged read for a successfully overlapped pair.
func Merge(r1, r2 *fastqio.Read, ov Result) *fastqio.Read {
	len1, len2 := r1.Length(), r2.Length()
	lo1 := max(0, ov.Offset)
	lo2 := max(0, -ov.Offset)

	var seq, qual []byte
	seq = append(seq, r1.Sequence[:lo1]...)
	qual = append(qual, r1.Quality[:lo1]...)

	for i := 0; i < ov.OverlapLen; i++ {
		b1, q1 := r1.Sequence[lo1+i], r1.Quality[lo1+i]
		b2, q2 := rcBaseQual(r2, lo2+i)
		if b1 == b2 {
			seq = append(seq, b1)
			if q1 >= q2 {
				qual = append(qual, q1)
			} else {
				qual = append(qual, q2)
			}
			continue
		}
		if q2 > q1 {
			seq = append(seq, b2)
			qual = append(qual, q2)
		} else {
			seq = append(seq, b1)
			qual = append(qual, q1)
		}
	}

	if lo1+ov.OverlapLen < len1 {
		seq = append(seq, r1.Sequence[lo1+ov.OverlapLen:]...)
		qual = append(qual, r1.Quality[lo1+ov.OverlapLen:]...)
	}
	if lo2+ov.OverlapLen < len2 {
		rc := fastqio.ReverseComplement(r2.Sequence[:len2-lo2-ov.OverlapLen])
		rcQual := reverseBytes(r2.Quality[:len2-lo2-ov.OverlapLen])
		seq = append(seq, rc...)
		qual = append(qual, rcQual...)
	}

	return &fastqio.Read{Name: r1.Name, Sequence: string(seq), Quality: string(qual)}
}

func reverseBytes(s string) []byte {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[len(s)-1-i] = s[i]
	}
	return out
}
