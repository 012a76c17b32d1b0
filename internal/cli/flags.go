package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastqpp/fastqpp/internal/options"
)

// registerFlags declares the full CLI surface from spec.md section 6 on
// cmd's flag set, using pflag's typed constructors directly (cobra embeds
// a *pflag.FlagSet) rather than cobra's own thinner helpers, matching
// scttfrdmn-cicada's style of reaching for pflag features (shorthand
// flags, int/float typed flags) where cobra's wrapper would do.
func registerFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	// I/O.
	f.String("in1", "", "read1 input file (required)")
	f.String("in2", "", "read2 input file (enables paired-end mode)")
	f.String("out1", "", "read1 output file (required)")
	f.String("out2", "", "read2 output file")
	f.String("unpaired1", "", "output for read1 of a pair that fails as a pair but survives alone")
	f.String("unpaired2", "", "output for read2 of a pair that fails as a pair but survives alone")
	f.String("failed_out", "", "output for pairs that fail filtering entirely")
	f.Bool("inverleaved_in", false, "treat in1 as a single interleaved paired-end stream")
	f.Bool("phred64", false, "input qualities are phred+64, normalized internally to phred+33")
	f.Int("compress_level", 4, "gzip compression level for .gz outputs (1-9)")
	f.Bool("notoverwrite", false, "accepted but not applied: existing output files are overwritten")
	f.Bool("verbose", false, "accepted but not applied: progress lines are always logged")

	// Merge.
	f.Bool("merge", false, "merge overlapping pairs into a single fragment read")
	f.Bool("discard_unmerged", false, "drop pairs that --merge could not merge, rather than emitting them unmerged")
	f.String("merged_out", "", "output file for merged reads")

	// Adapter.
	f.Bool("enable_adapter_trimming", true, "enable adapter trimming")
	f.String("adapter_seqr1", "", "literal adapter sequence for read1 (skips auto-detection)")
	f.String("adapter_seqr2", "", "literal adapter sequence for read2")
	f.Bool("detect_pe_adapter", true, "auto-detect the adapter sequence from a sampled prefix when none is given")

	// Force trim.
	f.Int("trim_front1", 0, "bases to unconditionally trim from read1's 5' end")
	f.Int("trim_tail1", 0, "bases to unconditionally trim from read1's 3' end")
	f.Int("trim_front2", 0, "bases to unconditionally trim from read2's 5' end")
	f.Int("trim_tail2", 0, "bases to unconditionally trim from read2's 3' end")
	f.Int("max_len1", 0, "clamp read1 to at most this many bases after trimming (0 = unbounded, max 1000)")
	f.Int("max_len2", 0, "clamp read2 to at most this many bases after trimming (0 = unbounded, max 1000)")

	// Poly-G / poly-X.
	f.BoolP("trim_poly_g", "g", false, "trim poly-G tails (forced on automatically for two-color platforms)")
	f.Int("polyg_min_len", 10, "minimum poly-G run length to trim")
	f.BoolP("trim_poly_x", "x", false, "trim poly-X (any single repeated base) tails")
	f.Int("polyx_min_len", 10, "minimum poly-X run length to trim")

	// Quality-window cut.
	f.Bool("cut_front", false, "sliding-window quality trim from the 5' end")
	f.Bool("cut_tail", false, "sliding-window quality trim from the 3' end")
	f.Bool("cut_right", false, "sliding-window quality trim from the 5' end, truncating at the first low-quality window")
	f.Int("cut_window_size", 4, "shared sliding-window size for cut_front/cut_tail/cut_right")
	f.Int("cut_mean_quality", 20, "shared sliding-window mean-quality threshold")
	f.Int("cut_front_window_size", 0, "overrides cut_window_size for cut_front")
	f.Int("cut_front_mean_quality", 0, "overrides cut_mean_quality for cut_front")
	f.Int("cut_tail_window_size", 0, "overrides cut_window_size for cut_tail")
	f.Int("cut_tail_mean_quality", 0, "overrides cut_mean_quality for cut_tail")
	f.Int("cut_right_window_size", 0, "overrides cut_window_size for cut_right")
	f.Int("cut_right_mean_quality", 0, "overrides cut_mean_quality for cut_right")

	// Quality filter.
	f.Bool("enable_quality_filtering", true, "enable the per-read quality/N-content filter")
	f.Int("qualified_quality_phred", 15, "phred score at or above which a base counts as qualified")
	f.Int("unqualified_base_limit", 40, "maximum unqualified bases tolerated before a read fails")
	f.Int("n_base_limit", 5, "maximum N bases tolerated before a read fails")

	// Length filter.
	f.Bool("enable_length_filter", true, "enable the read-length filter")
	f.Int("minimum_length", 15, "minimum read length after trimming")
	f.Int("maximum_length", 0, "maximum read length after trimming (0 = unbounded)")

	// Complexity filter.
	f.Bool("enabel_lowcomplexity_filter", false, "enable the low-complexity filter")
	f.Float64("minimum_complexity", 0.3, "minimum base-transition complexity ratio")

	// Index filter.
	f.Bool("filter_by_index", false, "drop pairs whose barcode index matches a blacklist")
	f.String("filter_index1", "", "newline-delimited index1 blacklist file")
	f.String("filter_index2", "", "newline-delimited index2 blacklist file")
	f.Int("filter_index_threshold", 0, "maximum Hamming distance still counted as an index match")

	// Correction.
	f.Bool("enable_base_correction", false, "correct mismatching bases in the overlapped region of a pair")
	f.Int("overlap_len_required", 30, "minimum overlap length to attempt correction/merge")
	f.Int("overlap_diff_limit", 5, "maximum mismatches tolerated within the required overlap")

	// UMI.
	f.Bool("enable_umi_processing", false, "extract a unique molecular identifier into the read name")
	f.Int("umi_loc", 0, "UMI location: 1=index1 2=index2 3=read1 4=read2 5=per_index 6=per_read")
	f.Int("umi_len", 0, "UMI length, required when umi_loc is in-read (3/4/6)")
	f.String("umi_prefix", "", "prefix attached to the UMI tag appended to read names")
	f.Int("umi_skip", 0, "extra bases skipped after the UMI before the trimmed read body")

	// Overrepresentation.
	f.Bool("enable_overrepana", false, "enable the overrepresented-sequence probe during evaluation")
	f.Int("overrepana_sampling", 20, "stored but not applied: the overrepresentation probe scans every read up to its base limit")

	// Reports.
	f.String("json", "", "JSON report output path")
	f.String("html", "", "HTML report output path")
	f.String("title", "fastqpp report", "report title")

	// Concurrency.
	f.Int("thread", 4, "worker thread count (1-16)")

	// Split.
	f.Bool("split_by_file_number", false, "enables splitting, but outputs are split only by line count (file_lines); file_number is not applied")
	f.Int("file_number", 0, "number of split output files")
	f.Bool("split_by_lines", false, "split output every file_lines FASTQ lines")
	f.Int64("file_lines", 0, "FASTQ lines per split output shard")
	f.Int("split_prefix_digits", 4, "zero-padded digit width of the split file suffix (1-10)")

	// Duplication / k-mer stats, not named in spec.md section 6 but part
	// of options.Options; exposed for completeness since nothing disables
	// them by default.
	f.Bool("enable_duplication_calc", true, "enable the duplication-rate estimator")
	f.Bool("enable_kmer_calc", false, "enable the optional per-cycle k-mer frequency table")
	f.Int("kmer_len", 5, "k-mer length for the optional k-mer frequency table")
}

// buildOptions reads every flag (already overlaid with config-file and
// default values through viper) into an options.Options, then loads the
// index blacklist files.
func buildOptions(v *viper.Viper, version, command string) (*options.Options, error) {
	o := options.New()
	o.Version = version
	o.Command = strings.Join(os.Args, " ")

	o.In1 = v.GetString("in1")
	o.In2 = v.GetString("in2")
	o.Out1 = v.GetString("out1")
	o.Out2 = v.GetString("out2")
	o.Unpaired1 = v.GetString("unpaired1")
	o.Unpaired2 = v.GetString("unpaired2")
	o.FailedOut = v.GetString("failed_out")
	o.InterleavedInput = v.GetBool("inverleaved_in")
	o.Phred64 = v.GetBool("phred64")
	o.Compression = v.GetInt("compress_level")
	o.Thread = v.GetInt("thread")
	o.OverlapRequire = v.GetInt("overlap_len_required")
	o.OverlapDiffLimit = v.GetInt("overlap_diff_limit")

	o.MergePE.Enabled = v.GetBool("merge")
	o.MergePE.DiscardUnmerged = v.GetBool("discard_unmerged")
	o.MergePE.Out = v.GetString("merged_out")
	if o.MergePE.Enabled && o.MergePE.Out == "" {
		return nil, errors.New("--merge requires --merged_out")
	}

	o.Adapter.EnableTrimming = v.GetBool("enable_adapter_trimming")
	o.Adapter.InputSeqR1 = v.GetString("adapter_seqr1")
	o.Adapter.InputSeqR2 = v.GetString("adapter_seqr2")
	o.Adapter.SeqR1Provided = o.Adapter.InputSeqR1 != ""
	o.Adapter.SeqR2Provided = o.Adapter.InputSeqR2 != ""
	o.Adapter.EnableDetectForPE = o.Adapter.EnableTrimming && v.GetBool("detect_pe_adapter") && !o.Adapter.SeqR1Provided

	o.Trim.Front1 = v.GetInt("trim_front1")
	o.Trim.Tail1 = v.GetInt("trim_tail1")
	o.Trim.Front2 = v.GetInt("trim_front2")
	o.Trim.Tail2 = v.GetInt("trim_tail2")
	o.Trim.MaxLen1 = clampRange(v.GetInt("max_len1"), 0, 1000)
	o.Trim.MaxLen2 = clampRange(v.GetInt("max_len2"), 0, 1000)

	o.PolyG.Enabled = v.GetBool("trim_poly_g")
	o.PolyG.MinLen = v.GetInt("polyg_min_len")
	o.PolyX.Enabled = v.GetBool("trim_poly_x")
	o.PolyX.MinLen = v.GetInt("polyx_min_len")

	windowSize := v.GetInt("cut_window_size")
	meanQuality := v.GetInt("cut_mean_quality")
	o.QualityCut.EnableFront = v.GetBool("cut_front")
	o.QualityCut.EnableTail = v.GetBool("cut_tail")
	o.QualityCut.EnableRight = v.GetBool("cut_right")
	o.QualityCut.WindowSizeFront = orDefault(v.GetInt("cut_front_window_size"), windowSize)
	o.QualityCut.QualityFront = orDefault(v.GetInt("cut_front_mean_quality"), meanQuality)
	o.QualityCut.WindowSizeTail = orDefault(v.GetInt("cut_tail_window_size"), windowSize)
	o.QualityCut.QualityTail = orDefault(v.GetInt("cut_tail_mean_quality"), meanQuality)
	o.QualityCut.WindowSizeRight = orDefault(v.GetInt("cut_right_window_size"), windowSize)
	o.QualityCut.QualityRight = orDefault(v.GetInt("cut_right_mean_quality"), meanQuality)

	o.QualFilter.Enabled = v.GetBool("enable_quality_filtering")
	o.QualFilter.LowQualityLimit = v.GetInt("qualified_quality_phred")
	o.QualFilter.LowQualityBaseLimit = v.GetInt("unqualified_base_limit")
	o.QualFilter.NBaseLimit = v.GetInt("n_base_limit")

	o.LengthFilter.Enabled = v.GetBool("enable_length_filter")
	o.LengthFilter.MinLen = v.GetInt("minimum_length")
	o.LengthFilter.MaxLen = v.GetInt("maximum_length")

	o.Complexity.Enabled = v.GetBool("enabel_lowcomplexity_filter")
	o.Complexity.Threshold = v.GetFloat64("minimum_complexity")

	o.IndexFilter.Enabled = v.GetBool("filter_by_index")
	o.IndexFilter.Threshold = v.GetInt("filter_index_threshold")
	if o.IndexFilter.Enabled {
		if err := o.IndexFilter.LoadBlacklist(v.GetString("filter_index1"), v.GetString("filter_index2")); err != nil {
			return nil, err
		}
	}

	o.Correction.Enabled = v.GetBool("enable_base_correction")

	o.UMI.Enabled = v.GetBool("enable_umi_processing")
	o.UMI.Location = options.UMILocation(v.GetInt("umi_loc"))
	o.UMI.Length = v.GetInt("umi_len")
	o.UMI.Prefix = v.GetString("umi_prefix")
	o.UMI.Skip = v.GetInt("umi_skip")
	if o.UMI.Enabled {
		switch o.UMI.Location {
		case options.UMIRead1, options.UMIRead2, options.UMIPerRead:
			if o.UMI.Length <= 0 {
				return nil, errors.New("--umi_len must be positive when --umi_loc selects an in-read location")
			}
		}
	}

	o.OverrepAnalysis.Enabled = v.GetBool("enable_overrepana")
	o.OverrepAnalysis.Sampling = v.GetInt("overrepana_sampling")

	o.JSONFile = v.GetString("json")
	o.HTMLFile = v.GetString("html")
	o.ReportTitle = v.GetString("title")

	o.Split.ByFileNumber = v.GetBool("split_by_file_number")
	o.Split.Number = v.GetInt("file_number")
	o.Split.ByFileLines = v.GetBool("split_by_lines")
	o.Split.LinesPerFile = int(v.GetInt64("file_lines"))
	o.Split.Enabled = o.Split.ByFileNumber || o.Split.ByFileLines
	o.Split.Digits = clampRange(v.GetInt("split_prefix_digits"), 1, 10)

	o.Duplication.Enabled = v.GetBool("enable_duplication_calc")
	o.Kmer.Enabled = v.GetBool("enable_kmer_calc")
	o.Kmer.Length = v.GetInt("kmer_len")

	return o, nil
}

func clampRange(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func orDefault(override, fallback int) int {
	if override > 0 {
		return override
	}
	return fallback
}
