// Package ulogging provides the structured logger shared by every UMPS
// component. Long-lived components (the ZAP service, proxies, the
// operator, the command plane, the incrementer) are each handed a
// WithComponent logger so error/warn lines carry enough context to
// diagnose per spec §7 ("message type, remote address if known").
package ulogging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zerolog with optional file rotation.
type Logger struct {
	logger zerolog.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Config holds logger configuration.
type Config struct {
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // "json" or "console"
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Init initializes the global logger exactly once.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(cfg)
	})
	return err
}

// New builds an independent Logger instance.
func New(cfg Config) (*Logger, error) {
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, err
		}
	}

	var writer io.Writer
	if cfg.Path != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	} else {
		writer = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var zlog zerolog.Logger
	if cfg.Format == "console" {
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	} else {
		zlog = zerolog.New(writer).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	return &Logger{logger: zlog.Level(level)}, nil
}

// Get returns the global logger, falling back to a bare stdout logger if
// Init was never called (so tests and one-off CLIs never need ceremony).
func Get() *Logger {
	if globalLogger == nil {
		globalLogger = &Logger{logger: zerolog.New(os.Stdout).With().Timestamp().Logger()}
	}
	return globalLogger
}

// WithComponent tags every subsequent log line with the owning
// component's name (e.g. "zap", "proxy:Heartbeat", "incrementer").
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", component).Logger()}
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.event(l.logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.event(l.logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.event(l.logger.Warn(), msg, fields) }

func (l *Logger) Error(msg string, err error, fields ...interface{}) {
	l.event(l.logger.Error().Err(err), msg, fields)
}

func (l *Logger) event(event *zerolog.Event, msg string, fields []interface{}) {
	if len(fields)%2 != 0 {
		event.Interface("invalid_fields", fields)
		event.Msg(msg)
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
