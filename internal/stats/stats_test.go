package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastqpp/fastqpp/internal/fastqio"
)

func read(seq, qual string) *fastqio.Read {
	return &fastqio.Read{Name: "@r", Sequence: seq, Quality: qual}
}

func TestAddReadAccumulatesCycleStats(t *testing.T) {
	s := New(0)
	s.AddRead(read("ACGT", "IIII")) // quality 'I' = 73-33 = 40
	s.AddRead(read("AGGT", "!!!!")) // quality '!' = 33-33 = 0

	require.Equal(t, int64(2), s.Reads)
	require.Equal(t, int64(8), s.Bases)
	require.Equal(t, 4, s.CycleCount())

	assert.Equal(t, int64(2), s.Cycles[0].ACount)
	assert.Equal(t, int64(1), s.Cycles[1].CCount)
	assert.Equal(t, int64(1), s.Cycles[1].GCount)
	assert.Equal(t, int64(2), s.Cycles[2].GCount)
	assert.Equal(t, int64(2), s.Cycles[3].TCount)

	assert.Equal(t, 20.0, s.MeanQualityAtCycle(0))
	assert.Equal(t, 50.0, s.GCContent())
	assert.Equal(t, 0.0, s.NContent())
}

func TestAddReadHandlesVaryingLength(t *testing.T) {
	s := New(0)
	s.AddRead(read("ACGTAA", "IIIIII"))
	s.AddRead(read("AC", "II"))

	assert.Equal(t, 6, s.CycleCount())
	assert.Equal(t, int64(2), s.Cycles[0].total())
	assert.Equal(t, int64(2), s.Cycles[1].total())
	assert.Equal(t, int64(1), s.Cycles[2].total())
	assert.Equal(t, int64(1), s.Cycles[5].total())
}

func TestNContentAndQualityRates(t *testing.T) {
	s := New(0)
	// phred '5' = 53-33 = 20 (Q20 but not Q30); phred '?' = 63-33 = 30 (Q30)
	s.AddRead(read("ANNT", "5555"))
	s.AddRead(read("ACGT", "????"))

	assert.InDelta(t, 25.0, s.NContent(), 1e-9)
	assert.InDelta(t, 100.0, s.Q20Rate(), 1e-9)
	assert.InDelta(t, 50.0, s.Q30Rate(), 1e-9)
}

func TestKmerCountingWhenEnabled(t *testing.T) {
	s := New(2)
	s.AddRead(read("ACAC", "IIII"))
	// 2-mers at pos 0,1,2: "AC","CA","AC" -> AC appears twice, CA once
	var ac, ca int
	for key, count := range s.KmerCounts {
		seq := decode2(key)
		switch seq {
		case "AC":
			ac = int(count)
		case "CA":
			ca = int(count)
		}
	}
	assert.Equal(t, 2, ac)
	assert.Equal(t, 1, ca)
}

func decode2(key int) string {
	bases := [4]byte{'A', 'T', 'C', 'G'}
	out := make([]byte, 2)
	out[1] = bases[key&0x03]
	out[0] = bases[(key>>2)&0x03]
	return string(out)
}

func TestMergeMatchesSingleShardProcessing(t *testing.T) {
	reads := []*fastqio.Read{
		read("ACGT", "IIII"),
		read("AGGT", "!!!!"),
		read("TTTT", "5555"),
		read("CCCC", "????"),
	}

	whole := New(0)
	for _, r := range reads {
		whole.AddRead(r)
	}

	shardA := New(0)
	shardA.AddRead(reads[0])
	shardA.AddRead(reads[1])
	shardB := New(0)
	shardB.AddRead(reads[2])
	shardB.AddRead(reads[3])
	shardA.Merge(shardB)

	assert.Equal(t, whole.Reads, shardA.Reads)
	assert.Equal(t, whole.Bases, shardA.Bases)
	assert.Equal(t, whole.Cycles, shardA.Cycles)
	assert.Equal(t, whole.LengthHist, shardA.LengthHist)
	assert.InDelta(t, whole.GCContent(), shardA.GCContent(), 1e-9)
	assert.InDelta(t, whole.MeanQuality(), shardA.MeanQuality(), 1e-9)
}

func TestMergeGrowsShorterCycleSlice(t *testing.T) {
	a := New(0)
	a.AddRead(read("AC", "II"))
	b := New(0)
	b.AddRead(read("ACGTAA", "IIIIII"))

	a.Merge(b)
	assert.Equal(t, 6, a.CycleCount())
	assert.Equal(t, int64(2), a.Cycles[0].total())
	assert.Equal(t, int64(1), a.Cycles[5].total())
}
