// Package evaluator implements the input-sampling probes run once before
// the main pipeline starts: read length, record count, two-color-system
// platform detection, overrepresented sequences, and adapter inference.
package evaluator

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/fastqpp/fastqpp/internal/fastqio"
	"github.com/fastqpp/fastqpp/internal/options"
)

// EvaluateReadLen samples up to readLenSampleLimit records from each of
// in1/in2 and records the longest read seen in Estimate.SeqLen1/2.
func EvaluateReadLen(o *options.Options) error {
	if o.In1 != "" {
		n, err := computeReadLen(o.In1, o.Phred64)
		if err != nil {
			return errors.Wrap(err, "evaluating read1 length")
		}
		o.Estimate.SeqLen1 = n
	}
	if o.In2 != "" {
		n, err := computeReadLen(o.In2, o.Phred64)
		if err != nil {
			return errors.Wrap(err, "evaluating read2 length")
		}
		o.Estimate.SeqLen2 = n
	}
	return nil
}

const readLenSampleLimit = 1000

func computeReadLen(path string, phred64 bool) (int, error) {
	r, err := fastqio.Open(path, phred64)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	seqLen := 0
	for records := 0; records < readLenSampleLimit; records++ {
		rec, err := r.Read()
		if err != nil {
			break
		}
		if rec.Length() > seqLen {
			seqLen = rec.Length()
		}
	}
	return seqLen, nil
}

// EvaluateTwoColorSystem inspects the first read of in1's header for the
// instrument-name prefixes ("@NS", "@NB", "@A0") that identify a
// two-color-chemistry Illumina platform (NextSeq/NovaSeq), where a
// no-signal cycle is basecalled as G — the poly-G trimming target.
func EvaluateTwoColorSystem(o *options.Options) error {
	r, err := fastqio.Open(o.In1, o.Phred64)
	if err != nil {
		return err
	}
	defer r.Close()

	rec, err := r.Read()
	if err != nil {
		o.Estimate.TwoColorSystem = false
		return nil
	}
	o.Estimate.TwoColorSystem = strings.HasPrefix(rec.Name, "@NS") ||
		strings.HasPrefix(rec.Name, "@NB") ||
		strings.HasPrefix(rec.Name, "@A0")
	return nil
}

const (
	readNumRecordLimit = 512 * 1024
	readNumBaseLimit   = 151 * 512 * 1024
)

// EvaluateReadNum samples in1 up to readNumRecordLimit records or
// readNumBaseLimit bases. If the sample runs to EOF, the exact count is
// used; otherwise the total record count is extrapolated from the
// average bytes consumed per record over the file's total size.
func EvaluateReadNum(o *options.Options) error {
	r, err := fastqio.Open(o.In1, o.Phred64)
	if err != nil {
		return err
	}
	defer r.Close()

	var records, bases int
	var firstReadPos int64
	first := true
	reachedEOF := false

	for records < readNumRecordLimit && bases < readNumBaseLimit {
		rec, err := r.Read()
		if err != nil {
			reachedEOF = true
			break
		}
		if first {
			firstReadPos = r.Offset()
			first = false
		}
		records++
		bases += rec.Length()
	}

	if reachedEOF {
		o.Estimate.ReadsNum = records
		return nil
	}
	if records > 1 {
		bytesPerRead := float64(r.Offset()-firstReadPos) / float64(records-1)
		o.Estimate.ReadsNum = int(float64(r.TotalSize()) * 1.01 / bytesPerRead)
	}
	return nil
}
