// Package pipeline wires the producer, worker pool, and per-stream writers
// that turn a pair of FASTQ input streams into filtered, trimmed output,
// accumulating statistics and a duplication/adapter/correction report along
// the way.
package pipeline

import "github.com/fastqpp/fastqpp/internal/fastqio"

// Pack is a batch of read pairs moved as a unit from the producer to a
// worker, sized by BufferSize.MaxReadsInPack. Index is a monotonically
// increasing sequence number assigned by the producer; writers use it to
// restore per-stream output order even though packs are drained by workers
// running concurrently and may finish out of order.
type Pack struct {
	Pairs []*fastqio.ReadPair
	Index int64
}
