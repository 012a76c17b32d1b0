package evaluator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastqpp/fastqpp/internal/kmer"
	"github.com/fastqpp/fastqpp/internal/options"
)

func writeFastq(t *testing.T, name string, records [][4]string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r[0] + "\n")
		b.WriteString(r[1] + "\n")
		b.WriteString(r[2] + "\n")
		b.WriteString(r[3] + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func rec(name, seq string) [4]string {
	return [4]string{name, seq, "+", strings.Repeat("I", len(seq))}
}

func TestEvaluateReadLen(t *testing.T) {
	in1 := writeFastq(t, "r1.fastq", [][4]string{
		rec("@r1", "ACGTACGTAC"),
		rec("@r2", "ACGTACGTACGTACG"),
		rec("@r3", "ACGTACGT"),
	})
	in2 := writeFastq(t, "r2.fastq", [][4]string{
		rec("@r1", "ACGTAC"),
		rec("@r2", "ACGTACGTACGTACGTACGT"),
	})

	o := options.New()
	o.In1 = in1
	o.In2 = in2
	require.NoError(t, EvaluateReadLen(o))
	assert.Equal(t, 15, o.Estimate.SeqLen1)
	assert.Equal(t, 20, o.Estimate.SeqLen2)
}

func TestEvaluateTwoColorSystemDetectsNextSeq(t *testing.T) {
	in1 := writeFastq(t, "r1.fastq", [][4]string{rec("@NS500128:1:H5:1:1101", "ACGT")})
	o := options.New()
	o.In1 = in1
	require.NoError(t, EvaluateTwoColorSystem(o))
	assert.True(t, o.Estimate.TwoColorSystem)
}

func TestEvaluateTwoColorSystemRejectsOtherPlatform(t *testing.T) {
	in1 := writeFastq(t, "r1.fastq", [][4]string{rec("@M00146:1:000000", "ACGT")})
	o := options.New()
	o.In1 = in1
	require.NoError(t, EvaluateTwoColorSystem(o))
	assert.False(t, o.Estimate.TwoColorSystem)
}

func TestEvaluateReadNumExactWithinLimit(t *testing.T) {
	var records [][4]string
	for i := 0; i < 5; i++ {
		records = append(records, rec("@r", "ACGTACGTAC"))
	}
	in1 := writeFastq(t, "r1.fastq", records)
	o := options.New()
	o.In1 = in1
	require.NoError(t, EvaluateReadNum(o))
	assert.Equal(t, 5, o.Estimate.ReadsNum)
}

func TestEvaluateOverRepSeqsFindsRepeatedTenMer(t *testing.T) {
	var records [][4]string
	for i := 0; i < 501; i++ {
		records = append(records, rec("@r", "AAAAAAAAAAGG"))
	}
	in1 := writeFastq(t, "r1.fastq", records)
	o := options.New()
	o.In1 = in1
	require.NoError(t, EvaluateOverRepSeqs(o))
	require.Len(t, o.OverrepAnalysis.R1, 3)
	assert.Equal(t, 501, o.OverrepAnalysis.R1["AAAAAAAAAA"])
	assert.Equal(t, 501, o.OverrepAnalysis.R1["AAAAAAAAAG"])
	assert.Equal(t, 501, o.OverrepAnalysis.R1["AAAAAAAAGG"])
}

func TestEvaluateAdapterSeqTooFewReadsLeavesDetectedEmpty(t *testing.T) {
	in1 := writeFastq(t, "r1.fastq", [][4]string{
		rec("@r1", strings.Repeat("ACGT", 10)),
		rec("@r2", strings.Repeat("ACGT", 10)),
	})
	o := options.New()
	o.In1 = in1
	require.NoError(t, EvaluateAdapterSeq(o, false))
	assert.Equal(t, "", o.Adapter.DetectedSeqR1)
}

func TestIsLowComplexitySeedDetectsPolyG(t *testing.T) {
	key := kmer.Seq2Int(strings.Repeat("G", 10), 0, 10, -1)
	assert.True(t, isLowComplexitySeed(key))
}

func TestIsLowComplexitySeedAllowsDiverseSeed(t *testing.T) {
	key := kmer.Seq2Int("ATCGATCGAT", 0, 10, -1)
	assert.False(t, isLowComplexitySeed(key))
}

func TestIsLowComplexitySeedRejectsHighGC(t *testing.T) {
	key := kmer.Seq2Int("GCGCGCGCGC", 0, 10, -1)
	assert.True(t, isLowComplexitySeed(key))
}

func TestTransitionCount(t *testing.T) {
	assert.Equal(t, 0, transitionCount("AAAAA"))
	assert.Equal(t, 5, transitionCount("ATATAT"))
	assert.Equal(t, 2, transitionCount("AAGGCC"))
}

func TestMatchKnownAdapterExactPrefix(t *testing.T) {
	assert.Equal(t, "AGATCGGAAGAGC", matchKnownAdapter("AGATCGGAAGAGCAAAAAAAA"))
	assert.Equal(t, "", matchKnownAdapter("ACGTACGTACGTACGTACGT"))
}
