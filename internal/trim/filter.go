package trim

import (
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
)

// Verdict is the outcome of passing a read through the length/quality/N/
// complexity/index gauntlet. Higher values take precedence when combining
// the verdicts of the two reads of a pair: the pair's verdict is the max
// of its two reads' verdicts, so any single failure fails the pair.
type Verdict int

const (
	Pass Verdict = iota
	LowQuality
	TooShort
	TooLong
	TooManyN
	LowComplexity
	IndexMatch
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "PASS"
	case LowQuality:
		return "LOW_QUALITY"
	case TooShort:
		return "TOO_SHORT"
	case TooLong:
		return "TOO_LONG"
	case TooManyN:
		return "TOO_MANY_N"
	case LowComplexity:
		return "LOW_COMPLEXITY"
	case IndexMatch:
		return "INDEX_MATCH"
	default:
		return "UNKNOWN"
	}
}

// PassFilter evaluates r (nil meaning the read was discarded upstream,
// e.g. fully force-trimmed away) against the length, N-base, average- and
// low-quality-ratio, and complexity thresholds, returning the first
// failure reached, or Pass. Checks run in this order: length (TooShort,
// TooLong), N count (TooManyN), quality (LowQuality), then complexity
// (LowComplexity); this is not the Verdict precedence order, so a read
// failing several checks reports the earliest one in this sequence.
func PassFilter(r *fastqio.Read, o *options.Options) Verdict {
	if r == nil {
		return TooShort
	}
	n := r.Length()

	if o.LengthFilter.Enabled {
		if n < o.LengthFilter.MinLen {
			return TooShort
		}
		if o.LengthFilter.MaxLen > 0 && n > o.LengthFilter.MaxLen {
			return TooLong
		}
	}

	if o.QualFilter.Enabled {
		lowQualCount := 0
		nCount := 0
		qualSum := 0
		for i := 0; i < n; i++ {
			q := int(r.Quality[i]) - 33
			qualSum += q
			if q < o.QualFilter.LowQualityLimit {
				lowQualCount++
			}
			if r.Sequence[i] == 'N' {
				nCount++
			}
		}
		if nCount > o.QualFilter.NBaseLimit {
			return TooManyN
		}
		if lowQualCount > o.QualFilter.LowQualityBaseLimit {
			return LowQuality
		}
		if n > 0 && float64(lowQualCount)/float64(n) > o.QualFilter.LowQualityRatio {
			return LowQuality
		}
		if o.QualFilter.AverageQualityLimit > 0 && n > 0 && float64(qualSum)/float64(n) < o.QualFilter.AverageQualityLimit {
			return LowQuality
		}
	}

	if o.Complexity.Enabled && n > 1 {
		transitions := 0
		for i := 1; i < n; i++ {
			if r.Sequence[i] != r.Sequence[i-1] {
				transitions++
			}
		}
		if float64(transitions)/float64(n-1) < o.Complexity.Threshold {
			return LowComplexity
		}
	}

	return Pass
}

// PairVerdict combines the verdicts of a pair's two reads: the more
// severe of the two, per Verdict's precedence ordering.
func PairVerdict(a, b Verdict) Verdict {
	if b > a {
		return b
	}
	return a
}
