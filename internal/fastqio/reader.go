package fastqio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// MalformedRecord reports that a four-line FASTQ record was not shaped the
// way the format requires. The producer truncates the stream at this point;
// already-enqueued packs still complete.
type MalformedRecord struct {
	Offset int64
	Reason string
}

func (e *MalformedRecord) Error() string {
	return "malformed fastq record at offset " + itoa(e.Offset) + ": " + e.Reason
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

const phred64Shift = 31

// countingReader tracks how many bytes have been pulled from the
// underlying stream, feeding the evaluator's byte-offset based extrapolation.
type countingReader struct {
	r  io.Reader
	at int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.at += int64(n)
	return n, err
}

// Reader parses FASTQ records from a single stream, transparently
// decompressing gzip input (detected by magic bytes 0x1f 0x8b).
type Reader struct {
	file      *os.File
	gz        *pgzip.Reader
	counting  *countingReader
	br        *bufio.Reader
	phred64   bool
	totalSize int64
}

// Open opens filename for FASTQ reading. phred64 indicates the quality
// string uses the phred+64 offset and should be normalized to phred+33 on
// read.
func Open(filename string, phred64 bool) (*Reader, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening fastq input %q", filename)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat fastq input %q", filename)
	}
	r := &Reader{file: f, phred64: phred64, totalSize: info.Size()}
	peek := bufio.NewReader(f)
	magic, err := peek.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, errors.Wrapf(err, "peeking fastq input %q", filename)
	}
	cr := &countingReader{r: peek}
	r.counting = cr
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(cr)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "opening gzip fastq input %q", filename)
		}
		r.gz = gz
		r.br = bufio.NewReaderSize(gz, 1<<20)
	} else {
		r.br = bufio.NewReaderSize(cr, 1<<20)
	}
	return r, nil
}

// Close releases underlying file handles.
func (r *Reader) Close() error {
	if r.gz != nil {
		r.gz.Close()
	}
	return r.file.Close()
}

// Offset returns the number of compressed (or plain) input bytes consumed
// so far, used by the evaluator's record-count extrapolation.
func (r *Reader) Offset() int64 { return r.counting.at }

// TotalSize returns a size hint for the underlying file, used as the
// denominator for record-count extrapolation.
func (r *Reader) TotalSize() int64 { return r.totalSize }

func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}

// Read returns the next record, io.EOF at end of stream, or a
// *MalformedRecord if the four-line structure is violated.
func (r *Reader) Read() (*Read, error) {
	startOffset := r.Offset()
	header, err := r.readLine()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(header, "@") {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "header line does not start with '@'"}
	}
	seq, err := r.readLine()
	if err != nil {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "truncated before sequence line"}
	}
	plus, err := r.readLine()
	if err != nil {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "truncated before '+' line"}
	}
	if !strings.HasPrefix(plus, "+") {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "expected '+' separator line"}
	}
	qual, err := r.readLine()
	if err != nil {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "truncated before quality line"}
	}
	if len(qual) != len(seq) {
		return nil, &MalformedRecord{Offset: startOffset, Reason: "sequence/quality length mismatch"}
	}

	name := header
	comment := ""
	if idx := strings.IndexByte(header, ' '); idx >= 0 {
		name = header[:idx]
		comment = header[idx+1:]
	}

	seq = strings.ToUpper(seq)
	if r.phred64 {
		qual = normalizePhred64(qual)
	}

	return &Read{Name: name, Sequence: seq, Quality: qual, Comment: comment}, nil
}

func normalizePhred64(qual string) string {
	out := make([]byte, len(qual))
	for i := 0; i < len(qual); i++ {
		q := int(qual[i]) - phred64Shift
		if q < 33 {
			q = 33
		}
		out[i] = byte(q)
	}
	return string(out)
}

// PairReader synchronizes two underlying streams into ReadPairs, or reads
// consecutive records from a single interleaved stream.
type PairReader struct {
	r1, r2      *Reader
	interleaved bool
}

// OpenPair opens a paired-end reader. If interleaved is true, file2 is
// ignored and consecutive records from file1 form a pair.
func OpenPair(file1, file2 string, interleaved bool, phred64 bool) (*PairReader, error) {
	r1, err := Open(file1, phred64)
	if err != nil {
		return nil, err
	}
	pr := &PairReader{r1: r1, interleaved: interleaved}
	if !interleaved {
		r2, err := Open(file2, phred64)
		if err != nil {
			r1.Close()
			return nil, err
		}
		pr.r2 = r2
	}
	return pr, nil
}

// Close releases both underlying readers.
func (p *PairReader) Close() error {
	err1 := p.r1.Close()
	var err2 error
	if p.r2 != nil {
		err2 = p.r2.Close()
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// Read returns the next synchronized ReadPair, io.EOF at end of stream.
func (p *PairReader) Read() (*ReadPair, error) {
	left, err := p.r1.Read()
	if err != nil {
		return nil, err
	}
	var right *Read
	if p.interleaved {
		right, err = p.r1.Read()
	} else {
		right, err = p.r2.Read()
	}
	if err != nil {
		if err == io.EOF {
			return nil, &MalformedRecord{Offset: p.r1.Offset(), Reason: "unpaired trailing read"}
		}
		return nil, err
	}
	return &ReadPair{Left: left, Right: right}, nil
}
