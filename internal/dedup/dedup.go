// Package dedup fingerprints read pairs by a k-mer prefix of each mate and
// tracks how often each fingerprint recurs, estimating a duplication rate
// and a duplication-level GC curve without ever storing full sequences.
package dedup

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
	"gonum.org/v1/gonum/stat"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/kmer"
)

const (
	defaultKeyLen  = 12
	defaultHistLen = 32
)

type bucket struct {
	count int
	gcSum float64
}

// Estimator accumulates one fingerprint per call to Add. Callers should add
// a pair before any trimming mutates it, so the fingerprint reflects the
// original molecule rather than a trimmed copy.
type Estimator struct {
	keyLen  int
	histLen int

	totalPairs int64
	buckets    map[uint64]*bucket
}

// New returns an Estimator using keyLen bases from the front of each mate as
// the fingerprint seed, reporting a histogram/GC curve with histLen levels
// (the last level aggregating every duplication count >= histLen).
func New(keyLen, histLen int) *Estimator {
	if keyLen < 1 {
		keyLen = defaultKeyLen
	}
	if histLen < 1 {
		histLen = defaultHistLen
	}
	return &Estimator{keyLen: keyLen, histLen: histLen, buckets: map[uint64]*bucket{}}
}

// Add fingerprints a pair and records it.
func (e *Estimator) Add(r1, r2 *fastqio.Read) {
	e.totalPairs++
	key := e.fingerprint(r1, r2)
	b, ok := e.buckets[key]
	if !ok {
		b = &bucket{}
		e.buckets[key] = b
	}
	b.count++
	b.gcSum += (gcContent(r1.Sequence) + gcContent(r2.Sequence)) / 2
}

func (e *Estimator) fingerprint(r1, r2 *fastqio.Read) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], prefixCode(r1.Sequence, e.keyLen))
	binary.BigEndian.PutUint64(buf[8:16], prefixCode(r2.Sequence, e.keyLen))
	return farm.Hash64(buf[:])
}

// prefixCode packs the first min(keyLen, len(seq)) bases into a 2-bit code,
// falling back to hashing the raw prefix when it contains a base outside
// A/T/C/G (kmer.Seq2Int has no representation for N).
func prefixCode(seq string, keyLen int) uint64 {
	n := keyLen
	if len(seq) < n {
		n = len(seq)
	}
	if n == 0 {
		return 0
	}
	key := kmer.Seq2Int(seq, 0, n, -1)
	if key == kmer.Invalid {
		return farm.Hash64([]byte(seq[:n]))
	}
	return uint64(key)
}

// DuplicationRate reports the fraction of processed pairs whose fingerprint
// had already been seen: 1 - distinctFingerprints/totalPairs.
func (e *Estimator) DuplicationRate() float64 {
	if e.totalPairs == 0 {
		return 0
	}
	return 1 - float64(len(e.buckets))/float64(e.totalPairs)
}

// TotalPairs reports how many pairs have been added.
func (e *Estimator) TotalPairs() int64 { return e.totalPairs }

// Histogram returns, for duplication levels 1..histLen (the last bucket
// aggregating every level >= histLen), the percentage of total pairs found
// at that level.
func (e *Estimator) Histogram() []float64 {
	hist := make([]float64, e.histLen)
	for _, b := range e.buckets {
		level := b.count
		if level > e.histLen {
			level = e.histLen
		}
		hist[level-1] += float64(b.count)
	}
	if e.totalPairs > 0 {
		for i := range hist {
			hist[i] = hist[i] / float64(e.totalPairs) * 100
		}
	}
	return hist
}

// GCCurve returns, for the same duplication levels as Histogram, the mean
// GC percentage of fingerprint groups found at that level — a bias
// indicator: fingerprint groups clustered at an unusual GC content usually
// mean the recurrence is a PCR artifact rather than biological repeats.
func (e *Estimator) GCCurve() []float64 {
	byLevel := make([][]float64, e.histLen)
	for _, b := range e.buckets {
		level := b.count
		if level > e.histLen {
			level = e.histLen
		}
		byLevel[level-1] = append(byLevel[level-1], b.gcSum/float64(b.count))
	}
	curve := make([]float64, e.histLen)
	for i, vals := range byLevel {
		if len(vals) == 0 {
			continue
		}
		curve[i] = stat.Mean(vals, nil)
	}
	return curve
}

func gcContent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C':
			gc++
		}
	}
	return float64(gc) / float64(len(seq)) * 100
}
