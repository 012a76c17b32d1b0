package overlap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastqpp/fastqpp/internal/fastqio"
)

func qual(n int, c byte) string {
	return strings.Repeat(string(c), n)
}

// TestMergeScenario reproduces spec.md scenario S5: R1=AAAACCCCGGGG,
// R2 = reverse-complement-of "CCGGGGTTTT", overlapRequire=6, diffLimit=1,
// expecting merged read AAAACCCCGGGGTTTT.
func TestMergeScenario(t *testing.T) {
	r1 := &fastqio.Read{Name: "@r", Sequence: "AAAACCCCGGGG", Quality: qual(12, 'I')}
	r2 := &fastqio.Read{Name: "@r", Sequence: fastqio.ReverseComplement("CCGGGGTTTT"), Quality: qual(10, 'I')}

	ov := Analyze(r1, r2, 1, 6)
	assert.True(t, ov.Overlapped)
	assert.Equal(t, 6, ov.OverlapLen)
	assert.Equal(t, 6, ov.Offset)

	merged := Merge(r1, r2, ov)
	assert.Equal(t, "AAAACCCCGGGGTTTT", merged.Sequence)
	assert.Equal(t, len(merged.Sequence), len(merged.Quality))
}

// TestOverlapSymmetry checks invariant 5 for a pair that is its own
// reverse-complement match end to end (r2 is exactly the reverse
// complement of r1): analyze(r1,r2) and analyze(r2,r1) must agree on
// overlapped/overlapLen and report a zero offset each way, i.e. the
// offset negates trivially (0 == -0).
func TestOverlapSymmetry(t *testing.T) {
	r1 := &fastqio.Read{Name: "@r", Sequence: "GATTACAGGTCAGCTT", Quality: qual(16, 'I')}
	r2 := &fastqio.Read{Name: "@r", Sequence: fastqio.ReverseComplement(r1.Sequence), Quality: qual(16, 'I')}

	fwd := Analyze(r1, r2, 1, 6)
	rev := Analyze(r2, r1, 1, 6)

	assert.True(t, fwd.Overlapped)
	assert.Equal(t, fwd.Overlapped, rev.Overlapped)
	assert.Equal(t, 16, fwd.OverlapLen)
	assert.Equal(t, fwd.OverlapLen, rev.OverlapLen)
	assert.Equal(t, 0, fwd.Offset)
	assert.Equal(t, fwd.Offset, -rev.Offset)
}

// TestOverlapUnequalLengthAgreement checks that for reads of differing
// length (the S5 scenario), the two analysis directions still agree on
// whether an overlap was found and on its length; the offset's sign
// convention is frame-relative and is not asserted to negate when the
// read lengths differ (see Analyze's doc comment).
func TestOverlapUnequalLengthAgreement(t *testing.T) {
	r1 := &fastqio.Read{Name: "@r", Sequence: "AAAACCCCGGGG", Quality: qual(12, 'I')}
	r2 := &fastqio.Read{Name: "@r", Sequence: fastqio.ReverseComplement("CCGGGGTTTT"), Quality: qual(10, 'I')}

	fwd := Analyze(r1, r2, 1, 6)
	rev := Analyze(r2, r1, 1, 6)

	assert.Equal(t, fwd.Overlapped, rev.Overlapped)
	assert.Equal(t, fwd.OverlapLen, rev.OverlapLen)
}

func TestInsertSizeClamp(t *testing.T) {
	r1 := &fastqio.Read{Sequence: strings.Repeat("A", 150)}
	r2 := &fastqio.Read{Sequence: strings.Repeat("T", 150)}
	ov := Result{Overlapped: false}
	assert.Equal(t, 400, InsertSize(r1, r2, ov, 400))
}
