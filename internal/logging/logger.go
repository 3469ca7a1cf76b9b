package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
	// File, when set, receives a JSON copy of every event.
	File io.Writer
	// Switch, when set, owns the level so it can change at runtime.
	Switch *LevelSwitch
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output io.Writer = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}
	if cfg.File != nil {
		output = zerolog.MultiLevelWriter(output, cfg.File)
	}

	level := cfg.Level
	if cfg.Switch != nil {
		cfg.Switch.Set(cfg.Level)
		output = gatedWriter{sw: cfg.Switch, out: asLevelWriter(output)}
		level = zerolog.TraceLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewFromConfigValues builds a logger from config-file strings.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	if format == "json" || format == "console" {
		cfg.Format = format
	}
	return New(cfg)
}

// LevelSwitch is a minimum level shared with every logger built from it.
type LevelSwitch struct {
	level atomic.Int32
}

// NewLevelSwitch starts at level.
func NewLevelSwitch(level zerolog.Level) *LevelSwitch {
	s := &LevelSwitch{}
	s.Set(level)
	return s
}

// Set changes the minimum level.
func (s *LevelSwitch) Set(level zerolog.Level) {
	s.level.Store(int32(level))
}

// Level returns the minimum level.
func (s *LevelSwitch) Level() zerolog.Level {
	return zerolog.Level(s.level.Load())
}

type gatedWriter struct {
	sw  *LevelSwitch
	out zerolog.LevelWriter
}

func (g gatedWriter) Write(p []byte) (int, error) {
	return g.out.Write(p)
}

func (g gatedWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level != zerolog.NoLevel && level < g.sw.Level() {
		return len(p), nil
	}
	return g.out.WriteLevel(level, p)
}

func asLevelWriter(w io.Writer) zerolog.LevelWriter {
	if lw, ok := w.(zerolog.LevelWriter); ok {
		return lw
	}
	return zerolog.LevelWriterAdapter{Writer: w}
}

// ParseLevel maps a config/env level name to a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewFromEnv creates a logger based on environment variables
// FLURX_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// FLURX_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	cfg := DefaultConfig()

	if level := os.Getenv("FLURX_LOG_LEVEL"); level != "" {
		cfg.Level = ParseLevel(level)
	}

	if format := os.Getenv("FLURX_LOG_FORMAT"); format != "" {
		switch format {
		case "json", "console":
			cfg.Format = format
		}
	}

	return New(cfg)
}
