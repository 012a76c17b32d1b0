// Package options defines the configuration surface for a fastqpp run: one
// struct per concern, each carrying its own defaults, mirroring the way the
// pipeline's stages are organized.
package options

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// UMILocation selects where the unique molecular identifier lives in a
// read pair.
type UMILocation int

const (
	UMINone UMILocation = iota
	UMIIndex1
	UMIIndex2
	UMIRead1
	UMIRead2
	UMIPerIndex
	UMIPerRead
)

// BufferSize bounds the producer/consumer ring buffer's memory footprint.
type BufferSize struct {
	MaxPacksInRepo  int
	MaxReadsInPack  int
	MaxPacksInFlight int
}

func defaultBufferSize() BufferSize {
	return BufferSize{MaxPacksInRepo: 1000, MaxReadsInPack: 100000, MaxPacksInFlight: 5}
}

// MergePE controls paired-end overlap merging into a single fragment read.
type MergePE struct {
	Enabled         bool
	DiscardUnmerged bool
	Out             string
}

// PolyX controls trailing homopolymer-run trimming (poly-G tails are the
// common Illumina two-color-system artifact; PolyX generalizes it to any
// single repeated base).
type PolyX struct {
	Enabled                bool
	TrimChars              string
	MinLen                 int
	MaxMismatch            int
	AllowedOneMismatchEach int
}

func defaultPolyG() PolyX {
	return PolyX{TrimChars: "G", MinLen: 10, MaxMismatch: 1, AllowedOneMismatchEach: 10}
}

func defaultPolyX() PolyX {
	return PolyX{TrimChars: "ATCGN", MinLen: 10, MaxMismatch: 1, AllowedOneMismatchEach: 10}
}

// UMI controls unique molecular identifier extraction.
type UMI struct {
	Enabled          bool
	Location         UMILocation
	Length           int
	Skip             int
	Prefix           string
	DropOtherComment bool
	NotTrimRead      bool
}

// Duplication controls the fingerprint-based duplicate-rate estimator.
type Duplication struct {
	Enabled bool
	KeyLen  int
	HistLen int
}

func defaultDuplication() Duplication {
	return Duplication{Enabled: true, KeyLen: 12, HistLen: 32}
}

// QualityCut controls the three independent sliding-window trims: from the
// front, from the tail, and a front-anchored scan that stops at the first
// low-quality window (the "right" cut).
type QualityCut struct {
	EnableFront, EnableTail, EnableRight      bool
	QualityFront, QualityTail, QualityRight   int
	WindowSizeFront, WindowSizeTail, WindowSizeRight int
}

func defaultQualityCut() QualityCut {
	return QualityCut{
		QualityFront: 20, QualityTail: 20, QualityRight: 20,
		WindowSizeFront: 4, WindowSizeTail: 4, WindowSizeRight: 4,
	}
}

// IndexFilter drops pairs whose barcode index matches an external
// blacklist within a mismatch threshold.
type IndexFilter struct {
	Enabled    bool
	Threshold  int
	Blacklist1 []string
	Blacklist2 []string
}

// LoadBlacklist populates Blacklist1/Blacklist2 from newline-delimited
// files, skipping blank lines.
func (f *IndexFilter) LoadBlacklist(file1, file2 string) error {
	var err error
	if file1 != "" {
		if f.Blacklist1, err = readLines(file1); err != nil {
			return errors.Wrap(err, "loading index1 blacklist")
		}
	}
	if file2 != "" {
		if f.Blacklist2, err = readLines(file2); err != nil {
			return errors.Wrap(err, "loading index2 blacklist")
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// OverrepAnalysis controls the overrepresented-sequence probe run during the
// initial input evaluation pass and holds its results. Sampling is stored
// but not applied: the probe scans every read up to its base limit.
type OverrepAnalysis struct {
	Enabled  bool
	Sampling int
	R1       map[string]int
	R2       map[string]int
}

func defaultOverrepAnalysis() OverrepAnalysis {
	return OverrepAnalysis{Sampling: 20}
}

// Correction controls overlap-based base correction of mismatching bases
// within the overlapped region of a pair.
type Correction struct {
	Enabled bool
}

// LowComplexity drops reads whose base-to-base transition complexity is
// below Threshold.
type LowComplexity struct {
	Enabled   bool
	Threshold float64
}

func defaultLowComplexity() LowComplexity {
	return LowComplexity{Threshold: 0.3}
}

// ReadLengthFilter drops reads outside [MinLen, MaxLen]; MaxLen == 0 means
// unbounded.
type ReadLengthFilter struct {
	Enabled bool
	MinLen  int
	MaxLen  int
}

func defaultReadLengthFilter() ReadLengthFilter {
	return ReadLengthFilter{Enabled: true, MinLen: 15}
}

// QualityFilter drops reads that accumulate too many low-quality or N
// bases.
type QualityFilter struct {
	Enabled             bool
	LowQualityLimit     int
	LowQualityBaseLimit int
	NBaseLimit          int
	LowQualityRatio     float64
	AverageQualityLimit float64
}

func defaultQualityFilter() QualityFilter {
	return QualityFilter{
		Enabled: true, LowQualityLimit: 20, LowQualityBaseLimit: 40,
		NBaseLimit: 5, LowQualityRatio: 0.15,
	}
}

// Adapter controls adapter-sequence trimming, both by overlap analysis and
// by a provided or auto-detected literal sequence.
type Adapter struct {
	Cutable               bool
	EnableTrimming         bool
	EnableDetectForPE      bool
	SeqR1Provided          bool
	SeqR2Provided          bool
	InputSeqR1             string
	InputSeqR2             string
	DetectedSeqR1          string
	DetectedSeqR2          string
	ReportThreshold        float64
}

func defaultAdapter() Adapter {
	return Adapter{EnableTrimming: true, EnableDetectForPE: true, ReportThreshold: 0.01}
}

// ForceTrim removes a fixed number of cycles from the front/tail of each
// read regardless of quality, and optionally clamps the resulting length.
type ForceTrim struct {
	Front1, Tail1, MaxLen1 int
	Front2, Tail2, MaxLen2 int
}

// Split controls whether output is sharded across multiple files, either
// by a fixed file count or a fixed line count per shard.
type Split struct {
	Enabled       bool
	Number        int
	LinesPerFile  int
	Digits        int
	ByFileNumber  bool
	ByFileLines   bool
}

func defaultSplit() Split {
	return Split{Digits: 4}
}

// Kmer controls the optional k-mer frequency statistic collected alongside
// per-cycle base stats.
type Kmer struct {
	Enabled bool
	Length  int
}

// Estimate holds the outcome of the initial input-sampling pass: estimated
// read lengths, record count, platform, and inferred adapters. It is
// populated by the evaluator package and consumed by the pipeline.
type Estimate struct {
	SeqLen1         int
	SeqLen2         int
	ReadsNum        int
	TwoColorSystem  bool
	Adapter         string
	IlluminaAdapter bool
	Estimated       bool
}

func defaultEstimate() Estimate {
	return Estimate{SeqLen1: 151, SeqLen2: 151}
}

// Options aggregates every submodule's options plus the top-level I/O and
// concurrency knobs for a single run.
type Options struct {
	Version string

	In1, In2               string
	Out1, Out2             string
	Unpaired1, Unpaired2   string
	FailedOut              string
	JSONFile, HTMLFile     string
	ReportTitle            string

	Digits           int
	Compression      int
	Phred64          bool
	InputFromSTDIN   bool
	OutputToSTDOUT   bool
	InterleavedInput bool
	Thread           int
	InsertSizeMax    int
	OverlapRequire   int
	OverlapDiffLimit int

	Trim            ForceTrim
	QualFilter      QualityFilter
	QualityCut      QualityCut
	LengthFilter    ReadLengthFilter
	Adapter         Adapter
	Correction      Correction
	OverrepAnalysis OverrepAnalysis
	Complexity      LowComplexity
	IndexFilter     IndexFilter
	Split           Split
	Kmer            Kmer
	Estimate        Estimate
	Duplication     Duplication
	UMI             UMI
	PolyG           PolyX
	PolyX           PolyX
	MergePE         MergePE
	BufferSize      BufferSize

	Command string
}

// New returns an Options populated with built-in defaults, before CLI flags
// are applied. The CLI's own flag defaults override these and differ for
// some fields (e.g. the qualified-quality phred and the report title).
func New() *Options {
	return &Options{
		Digits:           4,
		Compression:      4,
		Thread:           4,
		InsertSizeMax:    400,
		OverlapRequire:   30,
		OverlapDiffLimit: 5,
		QualFilter:       defaultQualityFilter(),
		QualityCut:       defaultQualityCut(),
		LengthFilter:     defaultReadLengthFilter(),
		Adapter:          defaultAdapter(),
		OverrepAnalysis:  defaultOverrepAnalysis(),
		Complexity:       defaultLowComplexity(),
		Split:            defaultSplit(),
		Estimate:         defaultEstimate(),
		Duplication:      defaultDuplication(),
		PolyG:            defaultPolyG(),
		PolyX:            defaultPolyX(),
		BufferSize:       defaultBufferSize(),
	}
}

// IsPaired reports whether this run has a second input stream, either as a
// distinct file or as an interleaved single file.
func (o *Options) IsPaired() bool {
	return o.In2 != "" || o.InterleavedInput
}

// Validate checks the option set for internally inconsistent combinations
// and required-but-missing fields.
func (o *Options) Validate() error {
	if o.In1 == "" && !o.InputFromSTDIN {
		return errors.New("input read1 file is required")
	}
	if o.IsPaired() && o.Out1 != "" && o.Out2 == "" && !o.MergePE.Enabled {
		return errors.New("paired input requires an output2 path unless merging is enabled")
	}
	if o.Thread < 1 || o.Thread > 16 {
		return errors.New("thread count must be between 1 and 16")
	}
	if o.OverlapRequire < 1 {
		return errors.New("overlap-require must be at least 1")
	}
	if o.Compression < 1 || o.Compression > 9 {
		return errors.New("compression level must be between 1 and 9")
	}
	return nil
}
