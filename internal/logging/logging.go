// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level zerolog.Level
	// Pretty writes colored console lines instead of JSON.
	Pretty bool
	// Out defaults to stderr, leaving stdout to the console prompt.
	Out io.Writer
	// File receives an uncolored copy when set.
	File io.Writer
}

func New(cfg Config) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	w := out
	if cfg.File != nil {
		var file io.Writer = cfg.File
		if cfg.Pretty {
			file = zerolog.ConsoleWriter{Out: cfg.File, TimeFormat: time.RFC3339, NoColor: true}
		}
		w = zerolog.MultiLevelWriter(out, file)
	}

	return zerolog.New(w).Level(cfg.Level).With().Timestamp().Logger()
}

// Component tags log with the emitting package.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
