// Package logx provides a small mutex-guarded progress logger, the Go
// equivalent of the original's util::loginfo(msg, mOptions->logmtx) calls
// serializing progress messages from concurrent worker threads, plus a
// colorized end-of-run summary in the same style as the teacher's
// color.HiGreen/color.HiMagenta summary lines.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Logger serializes timestamped progress messages across goroutines.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Logger writing to out. A nil out defaults to os.Stderr.
func New(out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out}
}

// Info writes one timestamped progress line, safe to call concurrently
// from any worker goroutine.
func (l *Logger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] %s\n", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
}

// NamedCount pairs a verdict label with its count, for Summary's breakdown
// line, kept as an ordered slice rather than a map so the printed order is
// deterministic run to run.
type NamedCount struct {
	Name  string
	Count int64
}

// Summary prints a colorized end-of-run breakdown: the processed, passed
// and merged pair counts in green, then each non-zero verdict count in magenta, mirroring the
// teacher's own two-color summary convention.
func Summary(totalPairs, passedPairs, mergedPairs int64, verdicts []NamedCount) {
	color.HiGreen("Reads processed: %s, pairs passed filtering: %s\n", Comma(totalPairs), Comma(passedPairs))
	if mergedPairs > 0 {
		color.HiGreen("Read pairs merged: %s\n", Comma(mergedPairs))
	}
	for _, v := range verdicts {
		if v.Count == 0 {
			continue
		}
		color.HiMagenta("%s: %s\n", v.Name, Comma(v.Count))
	}
}

// Comma formats n with thousand-separating commas, e.g. 1234567 ->
// "1,234,567".
func Comma(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var out []byte
	for i := 0; i < len(digits); i++ {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
