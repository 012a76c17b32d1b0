package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoWritesTimestampedLine(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.Info("loaded %d records", 42)

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "loaded 42 records\n"))
	assert.True(t, strings.HasPrefix(out, "["))
}

func TestInfoIsSafeForConcurrentUse(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func(n int) {
			l.Info("worker %d done", n)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 20; i++ {
		<-done
	}
	assert.Equal(t, 20, strings.Count(buf.String(), "\n"))
}

func TestCommaFormatsThousands(t *testing.T) {
	assert.Equal(t, "0", Comma(0))
	assert.Equal(t, "123", Comma(123))
	assert.Equal(t, "1,234", Comma(1234))
	assert.Equal(t, "1,234,567", Comma(1234567))
	assert.Equal(t, "-1,234", Comma(-1234))
}
