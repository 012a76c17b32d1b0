package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastqpp/fastqpp/internal/dedup"
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/trim"
)

func newRead(seq string) *fastqio.Read {
	return &fastqio.Read{Name: "@r", Sequence: seq, Quality: strings.Repeat("I", len(seq))}
}

func writeFastq(t *testing.T, dir, name string, records [][2]string) string {
	t.Helper()
	var b strings.Builder
	for i, rec := range records {
		seq, comment := rec[0], rec[1]
		header := "@read" + strconv.Itoa(i)
		if comment != "" {
			header += " " + comment
		}
		b.WriteString(header)
		b.WriteByte('\n')
		b.WriteString(seq)
		b.WriteString("\n+\n")
		b.WriteString(strings.Repeat("I", len(seq)))
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestProcessPairPassesCleanReadPairThrough(t *testing.T) {
	o := options.New()
	o.Adapter.EnableTrimming = false
	cfg := NewPerThreadConfig(0)
	shared := &sharedState{opts: o, dedup: dedup.New(0, 0)}

	r1 := newRead("ACGTACGTACGTACGTACGT")
	r2 := newRead("TGCATGCATGCATGCATGCA")
	out := processPair(cfg, shared, &fastqio.ReadPair{Left: r1, Right: r2})

	assert.NotEmpty(t, out.out1)
	assert.NotEmpty(t, out.out2)
	assert.Empty(t, out.failed)
	assert.Equal(t, int64(1), cfg.Result.Verdicts[trim.Pass])
	assert.Equal(t, int64(1), cfg.PostR1.Reads)
	assert.Equal(t, int64(1), cfg.PostR2.Reads)
}

func TestProcessPairIndexBlacklistDropsPair(t *testing.T) {
	o := options.New()
	o.IndexFilter.Enabled = true
	o.IndexFilter.Threshold = 0
	o.IndexFilter.Blacklist1 = []string{"ATCACG"}
	o.FailedOut = "failed.fastq"
	cfg := NewPerThreadConfig(0)
	shared := &sharedState{opts: o, dedup: dedup.New(0, 0)}

	r1 := newRead("ACGTACGTACGTACGTACGT")
	r1.Comment = "1:N:0:ATCACG"
	r2 := newRead("TGCATGCATGCATGCATGCA")
	r2.Comment = "2:N:0:TTTTTT"

	out := processPair(cfg, shared, &fastqio.ReadPair{Left: r1, Right: r2})

	assert.Equal(t, int64(1), cfg.Result.Verdicts[trim.IndexMatch])
	assert.Empty(t, out.out1)
	assert.NotEmpty(t, out.failed)
}

func TestProcessPairTooShortAfterForceTrimIsFiltered(t *testing.T) {
	o := options.New()
	o.Trim.Front1 = 25
	o.FailedOut = "failed.fastq"
	cfg := NewPerThreadConfig(0)
	shared := &sharedState{opts: o, dedup: dedup.New(0, 0)}

	r1 := newRead("ACGTACGTACGTACGTACGT")
	r2 := newRead("TGCATGCATGCATGCATGCA")

	out := processPair(cfg, shared, &fastqio.ReadPair{Left: r1, Right: r2})

	assert.Equal(t, int64(1), cfg.Result.Verdicts[trim.TooShort])
	assert.Empty(t, out.out1)
}

func TestProcessPairTooShortByLengthFilterKeepsSurvivingMate(t *testing.T) {
	o := options.New()
	cfg := NewPerThreadConfig(0)
	shared := &sharedState{opts: o, dedup: dedup.New(0, 0)}

	r1 := newRead("ACGTACGTAC")
	r2 := newRead("TGCATGCATGCATGCATGCA")

	out := processPair(cfg, shared, &fastqio.ReadPair{Left: r1, Right: r2})

	assert.Equal(t, int64(1), cfg.Result.Verdicts[trim.TooShort])
	assert.Empty(t, out.out1)
	assert.Empty(t, out.out2)
	assert.NotEmpty(t, out.unpaired2)
}

func TestProducePacksInOrderRespectingBackpressure(t *testing.T) {
	dir := t.TempDir()
	path1 := writeFastq(t, dir, "r1.fastq", [][2]string{
		{"ACGTACGTACGTACGTACGT", ""},
		{"TTTTAAAACCCCGGGGTTAA", ""},
		{"GGGGCCCCAAAATTTTACGT", ""},
	})
	path2 := writeFastq(t, dir, "r2.fastq", [][2]string{
		{"TGCATGCATGCATGCATGCA", ""},
		{"AACCGGTTAACCGGTTAACC", ""},
		{"CATGCATGCATGCATGCATG", ""},
	})
	reader, err := fastqio.OpenPair(path1, path2, false, false)
	require.NoError(t, err)
	defer reader.Close()

	packs := make(chan *Pack, 1)
	var received []int64
	done := make(chan struct{})
	go func() {
		for p := range packs {
			received = append(received, p.Index)
		}
		close(done)
	}()

	require.NoError(t, produce(reader, 1, packs))
	<-done

	assert.Equal(t, []int64{0, 1, 2}, received)
}

func TestRunEndToEndPairConservation(t *testing.T) {
	dir := t.TempDir()
	in1 := writeFastq(t, dir, "in1.fastq", [][2]string{
		{"ACGTACGTACGTACGTACGT", ""},
		{"AC", ""},
	})
	in2 := writeFastq(t, dir, "in2.fastq", [][2]string{
		{"TGCATGCATGCATGCATGCA", ""},
		{"TGCATGCATGCATGCATGCA", ""},
	})

	o := options.New()
	o.In1, o.In2 = in1, in2
	o.Out1 = filepath.Join(dir, "out1.fastq")
	o.Out2 = filepath.Join(dir, "out2.fastq")
	o.Unpaired2 = filepath.Join(dir, "unpaired2.fastq")
	o.FailedOut = filepath.Join(dir, "failed.fastq")
	o.Thread = 2
	o.BufferSize.MaxReadsInPack = 1
	o.BufferSize.MaxPacksInFlight = 1

	res, err := Run(o)
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.TotalPairs)
	assert.Equal(t, int64(1), res.Filter.Verdicts[trim.Pass])
	assert.Equal(t, int64(1), res.Filter.Verdicts[trim.TooShort])
	assert.NotNil(t, res.Dedup)
	assert.Equal(t, int64(2), res.PreR1.Reads)
	assert.Equal(t, int64(1), res.PostR1.Reads)
	assert.Equal(t, int64(2), res.PostR2.Reads)

	out1, err := os.ReadFile(o.Out1)
	require.NoError(t, err)
	assert.Contains(t, string(out1), "ACGTACGTACGTACGTACGT")

	unpaired2, err := os.ReadFile(o.Unpaired2)
	require.NoError(t, err)
	assert.Contains(t, string(unpaired2), "TGCATGCATGCATGCATGCA")

	failed, err := os.ReadFile(o.FailedOut)
	require.NoError(t, err)
	assert.Contains(t, string(failed), "failed:TOO_SHORT")
}
