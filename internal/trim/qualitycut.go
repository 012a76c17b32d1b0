package trim

import "github.com/fastqpp/fastqpp/internal/fastqio"

func windowQualitySum(qual string, start, size int) int {
	sum := 0
	for i := start; i < start+size; i++ {
		sum += int(qual[i]) - 33
	}
	return sum
}

// QualityCutFront slides a window from the 5' end inward while its average
// quality stays below minQuality, then cuts the bases before the first
// window that reaches the threshold (the whole read if none does). It
// leaves r unmodified if r is too short for a single window or already
// clears the threshold at the first window.
func QualityCutFront(r *fastqio.Read, windowSize, minQuality int) {
	if r == nil || r.Length() < windowSize {
		return
	}
	threshold := windowSize * minQuality
	sum := windowQualitySum(r.Quality, 0, windowSize)
	cut := 0
	for sum < threshold {
		cut++
		if cut+windowSize > r.Length() {
			cut = r.Length()
			break
		}
		sum += int(r.Quality[cut+windowSize-1]) - 33 - (int(r.Quality[cut-1]) - 33)
	}
	if cut > 0 {
		r.Sequence = r.Sequence[cut:]
		r.Quality = r.Quality[cut:]
	}
}

// QualityCutTail mirrors QualityCutFront from the 3' end: it slides a
// window inward from the tail while its average quality stays below
// minQuality, cutting the trailing low-quality region.
func QualityCutTail(r *fastqio.Read, windowSize, minQuality int) {
	if r == nil || r.Length() < windowSize {
		return
	}
	threshold := windowSize * minQuality
	n := r.Length()
	sum := windowQualitySum(r.Quality, n-windowSize, windowSize)
	keep := n
	for sum < threshold {
		keep--
		if keep < windowSize {
			keep = 0
			break
		}
		sum += int(r.Quality[keep-windowSize]) - 33 - (int(r.Quality[keep]) - 33)
	}
	if keep < n {
		r.Sequence = r.Sequence[:keep]
		r.Quality = r.Quality[:keep]
	}
}

// QualityCutRight scans from the 5' end and truncates the read at the
// first window whose average quality drops below minQuality, detecting a
// sharp quality dropoff rather than trimming an already-degraded tail.
func QualityCutRight(r *fastqio.Read, windowSize, minQuality int) {
	if r == nil || r.Length() < windowSize {
		return
	}
	threshold := windowSize * minQuality
	n := r.Length()
	sum := windowQualitySum(r.Quality, 0, windowSize)
	cutAt := -1
	for start := 0; start+windowSize <= n; start++ {
		if start > 0 {
			sum += int(r.Quality[start+windowSize-1]) - 33 - (int(r.Quality[start-1]) - 33)
		}
		if sum < threshold {
			cutAt = start
			break
		}
	}
	if cutAt >= 0 {
		r.Sequence = r.Sequence[:cutAt]
		r.Quality = r.Quality[:cutAt]
	}
}
