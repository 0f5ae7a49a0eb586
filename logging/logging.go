// Package logging builds the zerolog logger used across the application.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is one of TRACE, DEBUG, INFO, WARN or ERROR. Anything else
	// means INFO.
	Level string
	// Console receives colored output when set. The terminal renderer
	// owns stdout, so it leaves this nil.
	Console io.Writer
	// Dir enables a plain log file in the directory when set.
	Dir string
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FilePath names the log file of a run started at t.
func FilePath(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("solar-system.%s.log", t.Format("20060102_150405")))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup returns the logger and a closer for its log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.RFC3339,
		})
	}

	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create logs dir: %w", err)
		}
		path := FilePath(opts.Dir, time.Now())
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		closer = file
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	level := ParseLevel(opts.Level)
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	logger.Info().Str("loglevel", level.String()).Msg("Logging set up")
	return logger, closer, nil
}
