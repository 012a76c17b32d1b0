package evaluator

import (
	"io"
	"sort"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/kmer"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/trie"
)

const (
	adapterKeylen         = 10
	adapterSeedScanStart  = 20
	adapterReadLimit      = 256 * 1024
	adapterBaseLimit      = 151 * adapterReadLimit
	adapterMinRecords     = 10000
	adapterTopN           = 10
	adapterFoldThreshold  = 20
	adapterMaxLen         = 60
	adapterLowComplexBase = adapterKeylen - 4
	adapterHighGCBase     = adapterKeylen - 2
)

// EvaluateAdapterSeq samples in1 (or in2 if isR2) and attempts to infer
// the adapter sequence contaminating read 3' ends, by counting the most
// frequent non-trivial 10-mers away from the read edges and extending
// each candidate into a consensus via a forward/backward nucleotide trie.
func EvaluateAdapterSeq(o *options.Options, isR2 bool) error {
	filename := o.In1
	shiftTail := o.Trim.Tail1
	if isR2 {
		filename = o.In2
	}
	if shiftTail < 1 {
		shiftTail = 1
	}

	reads, err := sampleReads(filename, o.Phred64, adapterReadLimit, adapterBaseLimit)
	if err != nil {
		return err
	}
	if len(reads) < adapterMinRecords {
		setDetected(o, isR2, "")
		return nil
	}

	counts := make([]int, 1<<uint(2*adapterKeylen))
	for _, r := range reads {
		key := -1
		for pos := adapterSeedScanStart; pos <= r.Length()-adapterKeylen-shiftTail; pos++ {
			key = kmer.Seq2Int(r.Sequence, pos, adapterKeylen, key)
			if key >= 0 {
				counts[key]++
			}
		}
	}
	counts[0] = 0 // ignore the all-A seed, uninformative

	type candidate struct {
		key   int
		count int
	}
	var candidates []candidate
	var total int
	for k, c := range counts {
		if isLowComplexitySeed(k) {
			continue
		}
		total += c
		candidates = append(candidates, candidate{key: k, count: c})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].count > candidates[j].count })
	if len(candidates) > adapterTopN {
		candidates = candidates[:adapterTopN]
	}

	for _, cand := range candidates {
		if cand.count < 10 || cand.count*len(counts) < total*adapterFoldThreshold {
			break
		}
		seq := kmer.Int2Seq(uint64(cand.key), adapterKeylen)
		if transitionCount(seq) < 3 {
			continue
		}
		adapter, matchedKnown := getAdapterWithSeed(cand.key, reads, adapterKeylen, shiftTail)
		if adapter != "" {
			if matchedKnown {
				o.Estimate.IlluminaAdapter = true
			}
			setDetected(o, isR2, adapter)
			return nil
		}
	}

	setDetected(o, isR2, "")
	return nil
}

func setDetected(o *options.Options, isR2 bool, adapter string) {
	if isR2 {
		o.Adapter.DetectedSeqR2 = adapter
	} else {
		o.Adapter.DetectedSeqR1 = adapter
	}
}

func sampleReads(path string, phred64 bool, readLimit, baseLimit int) ([]*fastqio.Read, error) {
	r, err := fastqio.Open(path, phred64)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var reads []*fastqio.Read
	bases := 0
	for len(reads) < readLimit && bases < baseLimit {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		bases += rec.Length()
		reads = append(reads, rec)
	}
	return reads, nil
}

// isLowComplexitySeed reports whether the keylen-mer encoded by k is
// unsuitable as an adapter seed: dominated by a single base, too
// GC-rich, or starting with a poly-G run (the two-color no-signal
// artifact, not an adapter).
func isLowComplexitySeed(k int) bool {
	var atcg [4]int
	for i := 0; i < adapterKeylen; i++ {
		atcg[(k>>uint(i*2))&0x03]++
	}
	for _, c := range atcg {
		if c >= adapterLowComplexBase {
			return true
		}
	}
	if atcg[2]+atcg[3] >= adapterHighGCBase {
		return true
	}
	if k>>12 == 0xff {
		return true
	}
	return false
}

func transitionCount(seq string) int {
	diff := 0
	for i := 0; i+1 < len(seq); i++ {
		if seq[i] != seq[i+1] {
			diff++
		}
	}
	return diff
}

// getAdapterWithSeed extends seed into a full adapter sequence by
// collecting every read's flanking context around each occurrence of
// seed into a forward trie (bases after the seed) and a backward trie
// (bases before the seed, reversed), then concatenating their dominant
// paths around the seed itself. It reports whether the result matches a
// known adapter.
func getAdapterWithSeed(seed int, reads []*fastqio.Read, keylen, shiftTail int) (string, bool) {
	forward := trie.New()
	backward := trie.New()

	for _, r := range reads {
		key := -1
		for pos := adapterSeedScanStart; pos <= r.Length()-keylen-shiftTail; pos++ {
			key = kmer.Seq2Int(r.Sequence, pos, keylen, key)
			if key == seed {
				forward.Add(r.Sequence[pos+keylen : r.Length()-shiftTail])
				backward.Add(fastqio.ReversedString(r.Sequence[:pos]))
			}
		}
	}

	forwardPath, _ := forward.DominantPath()
	backwardPath, reachedLeaf := backward.DominantPath()

	adapter := fastqio.ReversedString(backwardPath) + kmer.Int2Seq(uint64(seed), keylen) + forwardPath
	if len(adapter) > adapterMaxLen {
		adapter = adapter[:adapterMaxLen]
	}

	if matched := matchKnownAdapter(adapter); matched != "" {
		return matched, true
	}
	if reachedLeaf {
		return adapter, false
	}
	return "", false
}

// knownAdapters lists widely used Illumina/Nextera adapter sequences,
// checked as an exact-prefix match against an inferred adapter so a
// noisy tail on an otherwise-correct inference doesn't prevent
// recognizing it as a standard adapter.
var knownAdapters = []struct {
	Seq  string
	Name string
}{
	{"AGATCGGAAGAGC", "Illumina TruSeq Adapter"},
	{"CTGTCTCTTATACACATCT", "Nextera Transposase Sequence"},
	{"TGGAATTCTCGGGTGCCAAGG", "Illumina Small RNA 3' Adapter"},
	{"GATCGGAAGAGCACACGTCTGAACTCCAGTCAC", "Illumina TruSeq Adapter, Index"},
	{"AAAAAAAAAAAAAAAAAAAA", "PolyA"},
}

func matchKnownAdapter(seq string) string {
	for _, k := range knownAdapters {
		if len(seq) < len(k.Seq) {
			continue
		}
		diff := 0
		for i := 0; i < len(k.Seq); i++ {
			if seq[i] != k.Seq[i] {
				diff++
			}
		}
		if diff == 0 {
			return k.Seq
		}
	}
	return ""
}
