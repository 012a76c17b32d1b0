package pipeline

import (
	"io"
	"sync"

	"github.com/fastqpp/fastqpp/internal/dedup"
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/stats"
)

// Result is everything a run produced: the merged before/after statistics
// for each mate, the merged FilterResult, and the duplication estimate.
type Result struct {
	PreR1, PreR2   *stats.Stats
	PostR1, PostR2 *stats.Stats
	Filter         *FilterResult
	Dedup          *dedup.Estimator

	TotalPairs int64
}

// Run opens the configured input/output streams, fans read pairs out
// across o.Thread workers through a buffered channel, and fans their
// rendered output back through a single ordering writer, returning the
// merged statistics once every pair has been processed.
func Run(o *options.Options) (*Result, error) {
	reader, err := fastqio.OpenPair(o.In1, o.In2, o.InterleavedInput, o.Phred64)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	sinks, err := openSinks(o)
	if err != nil {
		return nil, err
	}
	defer sinks.closeAll()

	shared := &sharedState{opts: o, dedup: dedup.New(o.Duplication.KeyLen, o.Duplication.HistLen)}

	// packs is the buffered channel standing in for a hand-rolled ring
	// buffer: with capacity MaxPacksInFlight a producer send blocks once
	// that many packs are in flight, so no pack is ever overwritten before
	// a worker has drained it. Capacity 1 reduces it to strict
	// one-in-flight-at-a-time handoff.
	packs := make(chan *Pack, o.BufferSize.MaxPacksInFlight)
	results := make(chan namedPackResult, o.BufferSize.MaxPacksInFlight)

	threads := o.Thread
	if threads < 1 {
		threads = 1
	}
	cfgs := make([]*PerThreadConfig, threads)
	for i := range cfgs {
		cfgs[i] = NewPerThreadConfig(kmerLenFor(o))
	}

	var workers sync.WaitGroup
	for i := 0; i < threads; i++ {
		cfg := cfgs[i]
		workers.Add(1)
		go func() {
			defer workers.Done()
			for pack := range packs {
				texts := ProcessPack(cfg, shared, pack)
				results <- namedPackResult{index: pack.Index, texts: texts}
			}
		}()
	}

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- sinks.drain(results)
	}()

	readErr := produce(reader, o.BufferSize.MaxReadsInPack, packs)

	workers.Wait()
	close(results)
	writeErr := <-writerDone

	merged := mergeConfigs(cfgs)
	merged.Dedup = shared.dedup

	if readErr != nil {
		return merged, readErr
	}
	return merged, writeErr
}

func kmerLenFor(o *options.Options) int {
	if o.Kmer.Enabled {
		return o.Kmer.Length
	}
	return 0
}

// produce reads pairs from reader, batching them into packs of packSize and
// sending each to packs in read order, closing packs when the stream ends.
// A plain io.EOF is swallowed; any other error (including a malformed
// record) is returned to the caller after the last complete pack is sent.
func produce(reader *fastqio.PairReader, packSize int, packs chan<- *Pack) error {
	defer close(packs)
	if packSize <= 0 {
		packSize = 1
	}
	var buf []*fastqio.ReadPair
	var index int64
	for {
		pair, err := reader.Read()
		if err != nil {
			if len(buf) > 0 {
				packs <- &Pack{Pairs: buf, Index: index}
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
		buf = append(buf, pair)
		if len(buf) >= packSize {
			packs <- &Pack{Pairs: buf, Index: index}
			index++
			buf = nil
		}
	}
}

func mergeConfigs(cfgs []*PerThreadConfig) *Result {
	res := &Result{
		PreR1:  stats.New(0),
		PreR2:  stats.New(0),
		PostR1: stats.New(0),
		PostR2: stats.New(0),
		Filter: NewFilterResult(),
	}
	for _, cfg := range cfgs {
		res.PreR1.Merge(cfg.PreR1)
		res.PreR2.Merge(cfg.PreR2)
		res.PostR1.Merge(cfg.PostR1)
		res.PostR2.Merge(cfg.PostR2)
		res.Filter.Merge(cfg.Result)
	}
	res.TotalPairs = res.Filter.TotalPairs()
	return res
}
