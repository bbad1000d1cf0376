// Package log provides the process-wide logger behind a small interface
// so the driver code never depends on a concrete logging backend.
package log

import (
	"sync"
)

type Logger interface {
	Trace(args ...interface{})
	Tracef(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})

	WithField(field string, value interface{}) Logger
	WithError(err error) Logger

	IsTraceEnabled() bool
	IsDebugEnabled() bool
}

// LoggerConfig is the `logger:` section of the config file.
type LoggerConfig struct {
	Level     string           `mapstructure:"level"`
	Pattern   string           `mapstructure:"pattern"`
	Time      string           `mapstructure:"time"`
	Appenders []AppenderConfig `mapstructure:"appenders"`
}

// AppenderConfig selects one log output. Options are decoded per
// appender type, see appender.go.
type AppenderConfig struct {
	Type    string                 `mapstructure:"type"`
	Options map[string]interface{} `mapstructure:"options"`
}

const (
	defaultPattern = "%time [%level] %msg%field\n"
	defaultTime    = "2006-01-02 15:04:05.000"
)

var (
	once   sync.Once
	logger Logger
)

// GetLogger returns the process logger. Init must run first; before
// that a default stdout logger is handed out so early paths can log.
func GetLogger() Logger {
	if logger == nil {
		Init(nil)
	}
	return logger
}

// Init configures the process logger once. A nil config yields an
// info-level stdout logger.
func Init(cfg *LoggerConfig) {
	once.Do(func() {
		l, err := newLogrusLogger(cfg)
		if err != nil {
			panic(err)
		}
		logger = l
	})
}
