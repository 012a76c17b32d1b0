package trim

import "github.com/fastqpp/fastqpp/internal/fastqio"

// scanPolyXTail finds the longest trailing run consisting of a single
// target base (scanning from the 3' end backward, tolerating isolated
// mismatches), returning the number of bases to cut from the tail. A run
// qualifies if its cumulative mismatch count stays below maxMismatch and
// never exceeds one mismatch per allowedOneMismatchForEach bases scanned;
// candidates shorter than minLen never qualify for a cut.
func scanPolyXTail(seq string, target byte, minLen, maxMismatch, allowedOneMismatchForEach int) int {
	n := len(seq)
	mismatches := 0
	bestCut := 0
	for scanned := 1; scanned <= n; scanned++ {
		if seq[n-scanned] != target {
			mismatches++
		}
		if mismatches >= maxMismatch {
			break
		}
		if mismatches > scanned/allowedOneMismatchForEach {
			break
		}
		if scanned >= minLen {
			bestCut = scanned
		}
	}
	return bestCut
}

func trimTailRun(r *fastqio.Read, target byte, minLen, maxMismatch, allowedOneMismatchForEach int) {
	if r == nil || r.Length() == 0 {
		return
	}
	cut := scanPolyXTail(r.Sequence, target, minLen, maxMismatch, allowedOneMismatchForEach)
	if cut == 0 {
		return
	}
	keep := r.Length() - cut
	r.Sequence = r.Sequence[:keep]
	r.Quality = r.Quality[:keep]
}

// TrimPolyG removes a trailing poly-G run from each of r1 and r2
// independently, the common artifact left by two-color Illumina
// instruments when a cycle reads no signal.
func TrimPolyG(r1, r2 *fastqio.Read, minLen, maxMismatch, allowedOneMismatchForEach int) {
	trimTailRun(r1, 'G', minLen, maxMismatch, allowedOneMismatchForEach)
	trimTailRun(r2, 'G', minLen, maxMismatch, allowedOneMismatchForEach)
}

// TrimPolyX removes a trailing run of whichever single base ends r1/r2,
// provided that base is one of trimChars, from each read independently.
func TrimPolyX(r1, r2 *fastqio.Read, trimChars string, minLen, maxMismatch, allowedOneMismatchForEach int) {
	trimPolyXOne(r1, trimChars, minLen, maxMismatch, allowedOneMismatchForEach)
	trimPolyXOne(r2, trimChars, minLen, maxMismatch, allowedOneMismatchForEach)
}

func trimPolyXOne(r *fastqio.Read, trimChars string, minLen, maxMismatch, allowedOneMismatchForEach int) {
	if r == nil || r.Length() == 0 {
		return
	}
	target := r.Sequence[r.Length()-1]
	for i := 0; i < len(trimChars); i++ {
		if trimChars[i] == target {
			trimTailRun(r, target, minLen, maxMismatch, allowedOneMismatchForEach)
			return
		}
	}
}
