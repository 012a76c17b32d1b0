// Package trim implements the per-read and per-pair transforms applied
// between sampling and the final filter verdict: force trimming, poly-X
// trimming, quality-window cutting, UMI extraction, overlap-based base
// correction, adapter trimming, and the filter verdict itself.
package trim

import "github.com/fastqpp/fastqpp/internal/fastqio"

// ForceTrim removes front bases from the head and tail bases from the end
// of r, returning nil if nothing would remain. r is mutated in place and
// also returned for convenience, matching the teacher's pattern of
// returning the same pointer threaded through a filter chain.
func ForceTrim(r *fastqio.Read, front, tail int) *fastqio.Read {
	if r == nil {
		return nil
	}
	n := r.Length()
	keep := n - front - tail
	if keep <= 0 {
		return nil
	}
	r.Sequence = r.Sequence[front : front+keep]
	r.Quality = r.Quality[front : front+keep]
	return r
}

// ClampLength truncates r to maxLen bases if maxLen is positive and
// shorter than r's current length.
func ClampLength(r *fastqio.Read, maxLen int) {
	if r == nil || maxLen <= 0 {
		return
	}
	if r.Length() > maxLen {
		r.Resize(maxLen)
	}
}
