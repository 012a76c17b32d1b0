package pipeline

import (
	"sync"

	"github.com/fastqpp/fastqpp/internal/dedup"
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/overlap"
	"github.com/fastqpp/fastqpp/internal/stats"
	"github.com/fastqpp/fastqpp/internal/trim"
)

// PerThreadConfig is one worker's private state: its own before/after
// statistics collectors for each mate and its own FilterResult. Keeping
// these per-worker rather than shared means no per-pair lock contention;
// the orchestrator merges every worker's PerThreadConfig once the run ends.
type PerThreadConfig struct {
	PreR1, PreR2   *stats.Stats
	PostR1, PostR2 *stats.Stats
	Result         *FilterResult
}

// NewPerThreadConfig returns an empty PerThreadConfig. kmerLen <= 0 disables
// the optional k-mer table in every collector.
func NewPerThreadConfig(kmerLen int) *PerThreadConfig {
	return &PerThreadConfig{
		PreR1:  stats.New(kmerLen),
		PreR2:  stats.New(kmerLen),
		PostR1: stats.New(kmerLen),
		PostR2: stats.New(kmerLen),
		Result: NewFilterResult(),
	}
}

// sharedState is the handful of resources every worker touches concurrently
// and must therefore guard with a lock: the duplication estimator (a single
// fingerprint table needs every pair, not one per worker) and the
// insert-size-bearing options fields that are read-only once a run starts.
type sharedState struct {
	opts   *options.Options
	dedup  *dedup.Estimator
	dedupM sync.Mutex
}

// pairOutput carries the rendered FASTQ text this pair produced for each
// output stream it was routed to; empty strings mean "nothing written to
// that stream for this pair".
type pairOutput struct {
	out1, out2           string
	unpaired1, unpaired2 string
	merged               string
	failed               string
}

// processPair runs one read pair through the full transform-and-filter
// chain and reports what it produced for the worker's stats/FilterResult
// plus the per-stream text to write.
func processPair(cfg *PerThreadConfig, shared *sharedState, pair *fastqio.ReadPair) pairOutput {
	o := shared.opts
	r1, r2 := pair.Left, pair.Right

	cfg.PreR1.AddRead(r1)
	cfg.PreR2.AddRead(r2)

	if o.Duplication.Enabled {
		shared.dedupM.Lock()
		shared.dedup.Add(r1, r2)
		shared.dedupM.Unlock()
	}

	if trim.MatchesIndexBlacklist(r1.Comment, r2.Comment, &o.IndexFilter) {
		cfg.Result.recordVerdict(trim.IndexMatch)
		return failedOutput(r1, r2, trim.IndexMatch, o)
	}

	trim.ExtractUMI(r1, r2, &o.UMI)

	if trim.ForceTrim(r1, o.Trim.Front1, o.Trim.Tail1) == nil ||
		trim.ForceTrim(r2, o.Trim.Front2, o.Trim.Tail2) == nil {
		cfg.Result.recordVerdict(trim.TooShort)
		return failedOutput(r1, r2, trim.TooShort, o)
	}

	if o.PolyG.Enabled {
		trim.TrimPolyG(r1, r2, o.PolyG.MinLen, o.PolyG.MaxMismatch, o.PolyG.AllowedOneMismatchEach)
	}

	applyQualityCuts(r1, &o.QualityCut)
	applyQualityCuts(r2, &o.QualityCut)

	ov := overlap.Analyze(r1, r2, o.OverlapDiffLimit, o.OverlapRequire)

	if o.Correction.Enabled {
		trim.CorrectByOverlap(r1, r2, ov, &cfg.Result.Correction)
	}

	cfg.Result.recordInsertSize(overlap.InsertSize(r1, r2, ov, o.InsertSizeMax))

	if o.Adapter.EnableTrimming {
		if ov.Overlapped {
			trim.TrimByOverlap(r1, r2, ov, cfg.Result.Adapter)
		}
		if seq := adapterSeqFor(o, false); seq != "" {
			trim.TrimBySequence(r1, seq, cfg.Result.Adapter, false)
		}
		if seq := adapterSeqFor(o, true); seq != "" {
			trim.TrimBySequence(r2, seq, cfg.Result.Adapter, true)
		}
	}

	if o.PolyX.Enabled {
		trim.TrimPolyX(r1, r2, o.PolyX.TrimChars, o.PolyX.MinLen, o.PolyX.MaxMismatch, o.PolyX.AllowedOneMismatchEach)
	}

	trim.ClampLength(r1, o.Trim.MaxLen1)
	trim.ClampLength(r2, o.Trim.MaxLen2)

	if o.MergePE.Enabled {
		if ov.Overlapped {
			merged := overlap.Merge(r1, r2, ov)
			if trim.PassFilter(merged, o) == trim.Pass {
				cfg.Result.recordVerdict(trim.Pass)
				cfg.Result.MergedPairs++
				return pairOutput{merged: merged.String()}
			}
		}
		if o.MergePE.DiscardUnmerged {
			cfg.Result.recordVerdict(trim.TooShort)
			return failedOutput(r1, r2, trim.TooShort, o)
		}
	}

	v1 := trim.PassFilter(r1, o)
	v2 := trim.PassFilter(r2, o)
	verdict := trim.PairVerdict(v1, v2)
	cfg.Result.recordVerdict(verdict)

	if verdict == trim.Pass {
		cfg.PostR1.AddRead(r1)
		cfg.PostR2.AddRead(r2)
		return pairOutput{out1: r1.String(), out2: r2.String()}
	}

	out := failedOutput(r1, r2, verdict, o)
	if v1 == trim.Pass && v2 != trim.Pass {
		cfg.PostR1.AddRead(r1)
		out.unpaired1 = r1.String()
	} else if v2 == trim.Pass && v1 != trim.Pass {
		cfg.PostR2.AddRead(r2)
		out.unpaired2 = r2.String()
	}
	return out
}

func failedOutput(r1, r2 *fastqio.Read, verdict trim.Verdict, o *options.Options) pairOutput {
	if o.FailedOut == "" {
		return pairOutput{}
	}
	return pairOutput{failed: r1.StringWithTag(verdict.String()) + r2.StringWithTag(verdict.String())}
}

func applyQualityCuts(r *fastqio.Read, c *options.QualityCut) {
	if c.EnableFront {
		trim.QualityCutFront(r, c.WindowSizeFront, c.QualityFront)
	}
	if c.EnableTail {
		trim.QualityCutTail(r, c.WindowSizeTail, c.QualityTail)
	}
	if c.EnableRight {
		trim.QualityCutRight(r, c.WindowSizeRight, c.QualityRight)
	}
}

// adapterSeqFor returns the literal adapter sequence to search for in R2
// (isR2) or R1, preferring a user-provided sequence over the one inferred
// by the initial sampling pass.
func adapterSeqFor(o *options.Options, isR2 bool) string {
	if isR2 {
		if o.Adapter.SeqR2Provided {
			return o.Adapter.InputSeqR2
		}
		return o.Adapter.DetectedSeqR2
	}
	if o.Adapter.SeqR1Provided {
		return o.Adapter.InputSeqR1
	}
	return o.Adapter.DetectedSeqR1
}

// ProcessPack runs every pair in pack through processPair, accumulating into
// cfg and returning the rendered per-stream text keyed by stream name.
func ProcessPack(cfg *PerThreadConfig, shared *sharedState, pack *Pack) map[string]string {
	var out1, out2, unpaired1, unpaired2, merged, failed []string
	for _, pair := range pack.Pairs {
		res := processPair(cfg, shared, pair)
		if res.out1 != "" {
			out1 = append(out1, res.out1)
		}
		if res.out2 != "" {
			out2 = append(out2, res.out2)
		}
		if res.unpaired1 != "" {
			unpaired1 = append(unpaired1, res.unpaired1)
		}
		if res.unpaired2 != "" {
			unpaired2 = append(unpaired2, res.unpaired2)
		}
		if res.merged != "" {
			merged = append(merged, res.merged)
		}
		if res.failed != "" {
			failed = append(failed, res.failed)
		}
	}
	texts := map[string]string{}
	putJoined(texts, "out1", out1)
	putJoined(texts, "out2", out2)
	putJoined(texts, "unpaired1", unpaired1)
	putJoined(texts, "unpaired2", unpaired2)
	putJoined(texts, "merged", merged)
	putJoined(texts, "failed", failed)
	return texts
}

func putJoined(texts map[string]string, stream string, parts []string) {
	if len(parts) == 0 {
		return
	}
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	texts[stream] = string(buf)
}
