package trim

import (
	"fmt"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
)

// ExtractUMI reads the unique molecular identifier out of r1/r2 per loc,
// appends it (optionally prefixed) to both reads' names as
// "origname:UMI_<seq>", then trims the UMI bases (and skip trailing
// bases) from whichever read carried it, unless notTrimRead is set.
func ExtractUMI(r1, r2 *fastqio.Read, u *options.UMI) {
	if u == nil || !u.Enabled || u.Location == options.UMINone {
		return
	}

	var umi string
	switch u.Location {
	case options.UMIIndex1:
		umi = umiFromComment(r1.Comment)
	case options.UMIIndex2:
		umi = umiFromComment(r2.Comment)
	case options.UMIRead1:
		umi = takeUMI(r1, u)
	case options.UMIRead2:
		umi = takeUMI(r2, u)
	case options.UMIPerIndex:
		umi = umiFromComment(r1.Comment) + umiFromComment(r2.Comment)
	case options.UMIPerRead:
		umi = takeUMI(r1, u) + takeUMI(r2, u)
	default:
		return
	}
	if umi == "" {
		return
	}

	tag := umi
	if u.Prefix != "" {
		tag = u.Prefix + "_" + umi
	}
	if u.DropOtherComment {
		r1.Comment = ""
		r2.Comment = ""
	}
	appendUMITag(r1, tag)
	appendUMITag(r2, tag)
}

func umiFromComment(comment string) string {
	return indexFromComment(comment)
}

// takeUMI removes the first u.Length bases (plus u.Skip bases immediately
// after) from the front of r, returning the removed UMI sequence, unless
// u.NotTrimRead is set in which case r is left untouched and the UMI
// substring is still returned.
func takeUMI(r *fastqio.Read, u *options.UMI) string {
	if r == nil || r.Length() < u.Length {
		return ""
	}
	umi := r.Sequence[:u.Length]
	if u.NotTrimRead {
		return umi
	}
	cut := u.Length + u.Skip
	if cut > r.Length() {
		cut = r.Length()
	}
	r.Sequence = r.Sequence[cut:]
	r.Quality = r.Quality[cut:]
	return umi
}

func appendUMITag(r *fastqio.Read, umi string) {
	if r == nil {
		return
	}
	r.Name = fmt.Sprintf("%s:UMI_%s", r.Name, umi)
}
