package log

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MultiWriter fans log output out to every configured appender.
type MultiWriter struct {
	writers []io.Writer
}

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{}
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(w io.Writer) *MultiWriter {
	m.writers = append(m.writers, w)
	return m
}

// FileAppenderOpt configures the rotating file appender.
type FileAppenderOpt struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

func (m *MultiWriter) AddFileAppender(opt FileAppenderOpt) *MultiWriter {
	return m.Add(&lumberjack.Logger{
		Filename:   opt.Filename,
		MaxSize:    opt.MaxSize, // megabytes
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAge, // days
		Compress:   opt.Compress,
	})
}

// buildAppenders assembles the output chain from config. With no
// appenders configured, stdout is used.
func buildAppenders(configs []AppenderConfig) (io.Writer, error) {
	mw := NewMultiWriter()
	if len(configs) == 0 {
		return mw.Add(os.Stdout), nil
	}
	for _, c := range configs {
		switch c.Type {
		case "stdout":
			mw.Add(os.Stdout)
		case "stderr":
			mw.Add(os.Stderr)
		case "file":
			var opt FileAppenderOpt
			if err := mapstructure.Decode(c.Options, &opt); err != nil {
				return nil, fmt.Errorf("file appender options: %w", err)
			}
			if opt.Filename == "" {
				return nil, fmt.Errorf("file appender requires a filename")
			}
			mw.AddFileAppender(opt)
		default:
			return nil, fmt.Errorf("unknown appender type %q", c.Type)
		}
	}
	return mw, nil
}
