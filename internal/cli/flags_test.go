package cli

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastqpp/fastqpp/internal/options"
)

func viperFromArgs(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	cmd := NewRootCmd("test")
	require.NoError(t, cmd.ParseFlags(args))
	v := viper.New()
	require.NoError(t, v.BindPFlags(cmd.Flags()))
	return v
}

func TestBuildOptionsAppliesForceTrimFlags(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--trim_front1=5", "--trim_tail1=3")
	o, err := buildOptions(v, "test", "fastqpp")
	require.NoError(t, err)
	assert.Equal(t, "r1.fq", o.In1)
	assert.Equal(t, "o1.fq", o.Out1)
	assert.Equal(t, 5, o.Trim.Front1)
	assert.Equal(t, 3, o.Trim.Tail1)
}

func TestBuildOptionsClampsMaxLenAndSplitDigits(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--max_len1=5000", "--split_prefix_digits=20")
	o, err := buildOptions(v, "test", "fastqpp")
	require.NoError(t, err)
	assert.Equal(t, 1000, o.Trim.MaxLen1)
	assert.Equal(t, 10, o.Split.Digits)
}

func TestBuildOptionsUMIRequiresLengthForInReadLocation(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--enable_umi_processing", "--umi_loc=3")
	_, err := buildOptions(v, "test", "fastqpp")
	assert.Error(t, err)

	v2 := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--enable_umi_processing", "--umi_loc=3", "--umi_len=8")
	o, err := buildOptions(v2, "test", "fastqpp")
	require.NoError(t, err)
	assert.Equal(t, options.UMIRead1, o.UMI.Location)
	assert.Equal(t, 8, o.UMI.Length)
}

func TestBuildOptionsMergeRequiresMergedOut(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--merge")
	_, err := buildOptions(v, "test", "fastqpp")
	assert.Error(t, err)
}

func TestBuildOptionsAdapterDetectDisabledWhenSeqProvided(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--adapter_seqr1=AGATCGGAAGAGC")
	o, err := buildOptions(v, "test", "fastqpp")
	require.NoError(t, err)
	assert.True(t, o.Adapter.SeqR1Provided)
	assert.False(t, o.Adapter.EnableDetectForPE)
}

func TestBuildOptionsCutWindowOverridesFallBackToShared(t *testing.T) {
	v := viperFromArgs(t, "--in1=r1.fq", "--out1=o1.fq", "--cut_front", "--cut_window_size=6", "--cut_mean_quality=25")
	o, err := buildOptions(v, "test", "fastqpp")
	require.NoError(t, err)
	assert.True(t, o.QualityCut.EnableFront)
	assert.Equal(t, 6, o.QualityCut.WindowSizeFront)
	assert.Equal(t, 25, o.QualityCut.QualityFront)
}
