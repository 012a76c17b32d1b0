package pipeline

import (
	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
)

// namedPackResult is what a worker sends back for one pack: the text
// rendered for each output stream that pack touched, tagged with the pack's
// original Index so the single writer goroutine can restore the order
// packs were read in even though workers finish them out of order.
type namedPackResult struct {
	index int64
	texts map[string]string
}

// sinkSet holds every optionally-configured output stream for a run. A nil
// entry means that stream's output path was never configured and anything
// routed to it is silently dropped, matching a run where e.g. no
// --failed_out was requested.
type sinkSet struct {
	out1, out2           *fastqio.Sink
	unpaired1, unpaired2 *fastqio.Sink
	merged               *fastqio.Sink
	failed               *fastqio.Sink
}

func openSinks(o *options.Options) (*sinkSet, error) {
	s := &sinkSet{}
	var err error
	opts := []fastqio.SinkOption{fastqio.WithCompressionLevel(o.Compression)}
	if o.Split.Enabled && o.Split.ByFileLines && o.Split.LinesPerFile > 0 {
		opts = append(opts, fastqio.WithSplit(int64(o.Split.LinesPerFile), o.Split.Digits))
	}

	if s.out1, err = openIf(o.Out1, opts); err != nil {
		return nil, err
	}
	if s.out2, err = openIf(o.Out2, opts); err != nil {
		return nil, err
	}
	if s.unpaired1, err = openIf(o.Unpaired1, opts); err != nil {
		return nil, err
	}
	if s.unpaired2, err = openIf(o.Unpaired2, opts); err != nil {
		return nil, err
	}
	if s.merged, err = openIf(o.MergePE.Out, opts); err != nil {
		return nil, err
	}
	if s.failed, err = openIf(o.FailedOut, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func openIf(path string, opts []fastqio.SinkOption) (*fastqio.Sink, error) {
	if path == "" {
		return nil, nil
	}
	return fastqio.NewSink(path, opts...)
}

func (s *sinkSet) closeAll() {
	for _, sink := range []*fastqio.Sink{s.out1, s.out2, s.unpaired1, s.unpaired2, s.merged, s.failed} {
		if sink != nil {
			sink.Close()
		}
	}
}

func (s *sinkSet) write(stream, text string) error {
	if text == "" {
		return nil
	}
	var sink *fastqio.Sink
	switch stream {
	case "out1":
		sink = s.out1
	case "out2":
		sink = s.out2
	case "unpaired1":
		sink = s.unpaired1
	case "unpaired2":
		sink = s.unpaired2
	case "merged":
		sink = s.merged
	case "failed":
		sink = s.failed
	}
	if sink == nil {
		return nil
	}
	return sink.WriteString(text)
}

// drain consumes every pack result, buffering any that arrive ahead of
// their turn, and writes each pack's streams out in the order the packs
// were originally read, reassembling work completed by several concurrent
// workers through a single goroutine.
func (s *sinkSet) drain(results <-chan namedPackResult) error {
	next := int64(0)
	pending := map[int64]map[string]string{}
	streamOrder := []string{"out1", "out2", "unpaired1", "unpaired2", "merged", "failed"}

	flushReady := func() error {
		for {
			texts, ok := pending[next]
			if !ok {
				return nil
			}
			delete(pending, next)
			next++
			for _, stream := range streamOrder {
				if err := s.write(stream, texts[stream]); err != nil {
					return err
				}
			}
		}
	}

	for r := range results {
		pending[r.index] = r.texts
		if err := flushReady(); err != nil {
			return err
		}
	}
	return flushReady()
}
