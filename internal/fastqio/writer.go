package fastqio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// Sink is a single output FASTQ file, optionally gzip-compressed (detected
// by a ".gz" suffix) and optionally split across numbered files.
type Sink struct {
	path            string
	compressLevel   int
	splitEnabled    bool
	splitDigits     int
	linesPerSplit   int64 // 0 means no split-by-lines
	writtenLines    int64
	splitIndex      int
	notOverwrite    bool
	file            *os.File
	gz              *pgzip.Writer
	bw              *bufio.Writer
}

// SinkOption configures optional split/compression behavior.
type SinkOption func(*Sink)

// WithCompressionLevel sets the gzip compression level (1-9) for ".gz" sinks.
func WithCompressionLevel(level int) SinkOption {
	return func(s *Sink) { s.compressLevel = level }
}

// WithSplit enables numeric-suffix file splitting, splitting every
// linesPerSplit FASTQ lines (4*reads) into a new file, with digits used for
// the zero-padded numeric suffix.
func WithSplit(linesPerSplit int64, digits int) SinkOption {
	return func(s *Sink) {
		s.splitEnabled = true
		s.linesPerSplit = linesPerSplit
		s.splitDigits = digits
	}
}

// WithNoOverwrite causes NewSink to fail if the target path already exists.
func WithNoOverwrite() SinkOption {
	return func(s *Sink) { s.notOverwrite = true }
}

// NewSink opens path (or path's first split shard) for FASTQ writing.
func NewSink(path string, opts ...SinkOption) (*Sink, error) {
	s := &Sink{path: path, compressLevel: 6, splitDigits: 4}
	for _, o := range opts {
		o(s)
	}
	if err := s.openCurrent(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) currentPath() string {
	if !s.splitEnabled {
		return s.path
	}
	ext := ""
	base := s.path
	if idx := strings.LastIndexByte(s.path, '.'); idx > 0 {
		ext = s.path[idx:]
		base = s.path[:idx]
	}
	return fmt.Sprintf("%s.%0*d%s", base, s.splitDigits, s.splitIndex, ext)
}

func (s *Sink) openCurrent() error {
	path := s.currentPath()
	if s.notOverwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("output file %q already exists and --notoverwrite was set", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating fastq output %q", path)
	}
	s.file = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewWriterLevel(f, s.compressLevel)
		if err != nil {
			f.Close()
			return errors.Wrap(err, "creating gzip writer")
		}
		s.gz = gz
		s.bw = bufio.NewWriterSize(gz, 1<<20)
	} else {
		s.bw = bufio.NewWriterSize(f, 1<<20)
	}
	return nil
}

// WriteString writes already-rendered FASTQ text (one or more complete
// records) to the sink, rolling to the next split shard when the configured
// line budget is exceeded.
func (s *Sink) WriteString(data string) error {
	if data == "" {
		return nil
	}
	if _, err := s.bw.WriteString(data); err != nil {
		return errors.Wrap(err, "writing fastq output")
	}
	if s.splitEnabled && s.linesPerSplit > 0 {
		lines := int64(strings.Count(data, "\n"))
		s.writtenLines += lines
		if s.writtenLines >= s.linesPerSplit {
			if err := s.rollSplit(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sink) rollSplit() error {
	if err := s.closeCurrent(); err != nil {
		return err
	}
	s.splitIndex++
	s.writtenLines = 0
	return s.openCurrent()
}

func (s *Sink) closeCurrent() error {
	if err := s.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing fastq output")
	}
	if s.gz != nil {
		if err := s.gz.Close(); err != nil {
			return errors.Wrap(err, "closing gzip output")
		}
	}
	return s.file.Close()
}

// Close flushes and closes the sink's current shard.
func (s *Sink) Close() error {
	return s.closeCurrent()
}
