// Package stats collects per-cycle base/quality histograms, GC and N
// content, Q20/Q30 rates, read-length distribution, and an optional k-mer
// frequency table for one stream of reads (e.g. "R1, before trimming").
// Every collector is a plain set of counters so that merging two shards'
// collectors by summing their counters produces the same result as having
// run over the union of their reads in one shard.
package stats

import (
	"math"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/kmer"
)

// CycleStat accumulates the base composition and quality of every read at
// one cycle (read position).
type CycleStat struct {
	ACount, TCount, CCount, GCount, NCount int64
	QualitySum                             int64
	Q20Count, Q30Count                     int64
}

func (c *CycleStat) add(other CycleStat) {
	c.ACount += other.ACount
	c.TCount += other.TCount
	c.CCount += other.CCount
	c.GCount += other.GCount
	c.NCount += other.NCount
	c.QualitySum += other.QualitySum
	c.Q20Count += other.Q20Count
	c.Q30Count += other.Q30Count
}

func (c CycleStat) total() int64 {
	return c.ACount + c.TCount + c.CCount + c.GCount + c.NCount
}

// Stats is one statistics collector, covering an arbitrary number of reads
// of varying length.
type Stats struct {
	Reads int64
	Bases int64

	Cycles []CycleStat

	LengthHist map[int]int64

	KmerLen    int
	KmerCounts map[int]int64
}

// New returns an empty collector. kmerLen <= 0 disables k-mer counting.
func New(kmerLen int) *Stats {
	return &Stats{
		LengthHist: map[int]int64{},
		KmerLen:    kmerLen,
		KmerCounts: map[int]int64{},
	}
}

// AddRead folds one read into the collector.
func (s *Stats) AddRead(r *fastqio.Read) {
	s.Reads++
	n := r.Length()
	s.Bases += int64(n)
	s.LengthHist[n]++

	if len(s.Cycles) < n {
		grown := make([]CycleStat, n)
		copy(grown, s.Cycles)
		s.Cycles = grown
	}

	for i := 0; i < n; i++ {
		c := &s.Cycles[i]
		switch r.Sequence[i] {
		case 'A':
			c.ACount++
		case 'T':
			c.TCount++
		case 'C':
			c.CCount++
		case 'G':
			c.GCount++
		default:
			c.NCount++
		}
		q := int(r.Quality[i]) - 33
		c.QualitySum += int64(q)
		if q >= 20 {
			c.Q20Count++
		}
		if q >= 30 {
			c.Q30Count++
		}
	}

	if s.KmerLen > 0 {
		key := -1
		for pos := 0; pos+s.KmerLen <= n; pos++ {
			key = kmer.Seq2Int(r.Sequence, pos, s.KmerLen, key)
			if key >= 0 {
				s.KmerCounts[key]++
			}
		}
	}
}

// Merge folds other's counters into s. Merging per-shard collectors
// pairwise must equal collecting all reads into a single collector, since
// every field here is a plain additive counter.
func (s *Stats) Merge(other *Stats) {
	s.Reads += other.Reads
	s.Bases += other.Bases

	if len(other.Cycles) > len(s.Cycles) {
		grown := make([]CycleStat, len(other.Cycles))
		copy(grown, s.Cycles)
		s.Cycles = grown
	}
	for i, c := range other.Cycles {
		s.Cycles[i].add(c)
	}

	for length, count := range other.LengthHist {
		s.LengthHist[length] += count
	}

	if other.KmerLen > s.KmerLen {
		s.KmerLen = other.KmerLen
	}
	for key, count := range other.KmerCounts {
		s.KmerCounts[key] += count
	}
}

// GCContent returns the overall GC percentage across every cycle.
func (s *Stats) GCContent() float64 {
	var gc, total int64
	for _, c := range s.Cycles {
		gc += c.GCount + c.CCount
		total += c.total()
	}
	return percent(gc, total)
}

// NContent returns the overall N-base percentage.
func (s *Stats) NContent() float64 {
	var n, total int64
	for _, c := range s.Cycles {
		n += c.NCount
		total += c.total()
	}
	return percent(n, total)
}

// MeanQuality returns the overall mean phred quality across every base.
func (s *Stats) MeanQuality() float64 {
	var sum, total int64
	for _, c := range s.Cycles {
		sum += c.QualitySum
		total += c.total()
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

// Q20Rate and Q30Rate return the percentage (0-100) of bases at or above
// the respective quality threshold.
func (s *Stats) Q20Rate() float64 { return s.rateAbove(func(c CycleStat) int64 { return c.Q20Count }) }
func (s *Stats) Q30Rate() float64 { return s.rateAbove(func(c CycleStat) int64 { return c.Q30Count }) }

func (s *Stats) rateAbove(pick func(CycleStat) int64) float64 {
	var hit, total int64
	for _, c := range s.Cycles {
		hit += pick(c)
		total += c.total()
	}
	return percent(hit, total)
}

// MeanQualityAtCycle returns the mean phred quality of bases observed at
// cycle i, or 0 if no base was ever seen there.
func (s *Stats) MeanQualityAtCycle(i int) float64 {
	if i < 0 || i >= len(s.Cycles) {
		return 0
	}
	c := s.Cycles[i]
	total := c.total()
	if total == 0 {
		return 0
	}
	return float64(c.QualitySum) / float64(total)
}

// CycleCount reports how many cycles (the longest read seen) this
// collector tracks.
func (s *Stats) CycleCount() int { return len(s.Cycles) }

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Entropy returns the Shannon entropy, in bits, of the base composition
// across all cycles combined.
func (s *Stats) Entropy() float64 {
	var a, t, c, g int64
	for _, cyc := range s.Cycles {
		a += cyc.ACount
		t += cyc.TCount
		c += cyc.CCount
		g += cyc.GCount
	}
	total := a + t + c + g
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, count := range []int64{a, t, c, g} {
		if count == 0 {
			continue
		}
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
