package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatterSubstitutesPattern(t *testing.T) {
	f := &formatter{pattern: defaultPattern, time: defaultTime}
	ts := time.Date(2024, 3, 1, 12, 30, 45, 123e6, time.UTC)
	entry := &logrus.Entry{
		Time:    ts,
		Level:   logrus.InfoLevel,
		Message: "link up",
		Data:    logrus.Fields{},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 12:30:45.123 [info] link up\n", string(out))
}

func TestFormatterSortsFields(t *testing.T) {
	f := &formatter{pattern: defaultPattern, time: defaultTime}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "drop",
		Data:    logrus.Fields{"fd": 7, "bytes": 12},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	// Fields render alphabetically so output is stable.
	assert.Equal(t, "2024-03-01 12:30:45.000 [warning] drop bytes=12 fd=7\n", string(out))
}

func TestMultiWriterFansOut(t *testing.T) {
	var a, b bytes.Buffer
	mw := NewMultiWriter().Add(&a).Add(&b)

	n, err := mw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", a.String())
	assert.Equal(t, "hello", b.String())
}

func TestBuildAppendersDefaultsToStdout(t *testing.T) {
	w, err := buildAppenders(nil)
	require.NoError(t, err)
	require.IsType(t, &MultiWriter{}, w)
	assert.Len(t, w.(*MultiWriter).writers, 1)
}

func TestBuildAppendersRejectsUnknownType(t *testing.T) {
	_, err := buildAppenders([]AppenderConfig{{Type: "syslog"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown appender type")
}

func TestBuildAppendersFileRequiresFilename(t *testing.T) {
	_, err := buildAppenders([]AppenderConfig{{
		Type:    "file",
		Options: map[string]interface{}{"max_size": 10},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a filename")
}

func TestBuildAppendersFileOptions(t *testing.T) {
	w, err := buildAppenders([]AppenderConfig{
		{Type: "stderr"},
		{Type: "file", Options: map[string]interface{}{
			"filename":    "/tmp/strix.log",
			"max_size":    10,
			"max_backups": 3,
		}},
	})
	require.NoError(t, err)
	assert.Len(t, w.(*MultiWriter).writers, 2)
}

func TestNewLogrusLoggerFallsBackToInfoLevel(t *testing.T) {
	l, err := newLogrusLogger(&LoggerConfig{Level: "nonsense"})
	require.NoError(t, err)
	assert.False(t, l.IsDebugEnabled())
	assert.False(t, l.IsTraceEnabled())
}

func TestWithFieldReturnsDerivedLogger(t *testing.T) {
	l, err := newLogrusLogger(&LoggerConfig{Level: "trace"})
	require.NoError(t, err)

	derived := l.WithField("component", "driver")
	assert.NotNil(t, derived)
	assert.True(t, derived.IsTraceEnabled())
}
