package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedLogger(buf *bytes.Buffer, level Level) *Logger {
	l := NewWithWriter("test", buf, level)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelWarn)

	l.Debugf("hidden %d", 1)
	l.Infof("hidden too")
	l.Warnf("shown %s", "warn")
	l.Errorf("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN  [test] shown warn")
	assert.Contains(t, out, "ERROR [test] shown error")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestSetLevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, LevelError)
	assert.False(t, l.Enabled(LevelDebug))

	l.SetLevel(LevelDebug)
	assert.True(t, l.Enabled(LevelDebug))

	l.WithFields(map[string]string{"path": "/controls", "method": "GET"}).Debug("request")
	assert.Equal(t, "03:04:05.000 DEBUG [test] request method=GET path=/controls\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel(" INFO "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel("nonsense"))
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(LevelError))
	l.Errorf("nothing happens")
}
