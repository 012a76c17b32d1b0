// Package fastqio implements the FASTQ read model and the plain/gzip
// record reader and writer used by the rest of fastqpp.
package fastqio

import (
	"fmt"
	"strings"
)

// Read is a single FASTQ record. Name includes the leading '@'. Sequence is
// normalized to uppercase A/T/C/G/N. Comment is whatever follows the first
// space in the header line, excluding the space itself.
type Read struct {
	Name     string
	Sequence string
	Quality  string
	Comment  string
}

// Length returns the number of bases in the read.
func (r *Read) Length() int {
	if r == nil {
		return 0
	}
	return len(r.Sequence)
}

// Clone returns a deep copy of r, safe to mutate independently.
func (r *Read) Clone() *Read {
	if r == nil {
		return nil
	}
	return &Read{Name: r.Name, Sequence: r.Sequence, Quality: r.Quality, Comment: r.Comment}
}

// Resize truncates the read to the first n bases, clamping n to [0, len].
func (r *Read) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n > r.Length() {
		return
	}
	r.Sequence = r.Sequence[:n]
	r.Quality = r.Quality[:n]
}

// String renders the read back to four-line FASTQ text, including the
// trailing newline.
func (r *Read) String() string {
	var b strings.Builder
	b.Grow(len(r.Name) + len(r.Sequence)*2 + 8)
	b.WriteString(r.Name)
	b.WriteByte('\n')
	b.WriteString(r.Sequence)
	b.WriteString("\n+\n")
	b.WriteString(r.Quality)
	b.WriteByte('\n')
	return b.String()
}

// StringWithTag renders the read with a failure reason appended to the
// read name as "\tfailed:<tag>" (the read's Comment is not written), used
// when a failed read is still written to the failed-reads output stream
// for traceability.
func (r *Read) StringWithTag(tag string) string {
	name := r.Name
	if tag != "" {
		name = fmt.Sprintf("%s\tfailed:%s", r.Name, tag)
	}
	tmp := &Read{Name: name, Sequence: r.Sequence, Quality: r.Quality}
	return tmp.String()
}

// ReverseComplement returns the reverse complement of seq. Unrecognized
// bases (anything other than A/T/C/G) pass through unchanged so N bases are
// preserved.
func ReverseComplement(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		out[len(seq)-1-i] = complementBase(seq[i])
	}
	return string(out)
}

func complementBase(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return b
	}
}

// ReversedString returns seq reversed, used by the trie-based adapter
// consensus extension for the backward path.
func ReversedString(seq string) string {
	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		out[len(seq)-1-i] = seq[i]
	}
	return string(out)
}

// ReadPair is an ordered pair of reads from the left (R1) and right (R2)
// streams of a paired-end run. Both fields are non-nil while a pair is
// being processed.
type ReadPair struct {
	Left  *Read
	Right *Read
}
