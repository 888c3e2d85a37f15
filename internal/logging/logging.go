// Package logging builds the structured logger shared by the server, the CLI
// and the outbound clients.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"evalgo.org/darkroom/internal/config"
)

// New returns an hclog.Logger configured from the logging section.
// Unknown levels fall back to info.
func New(cfg config.LoggingConfig) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "darkroom",
		Level:      ParseLevel(cfg.Level),
		JSONFormat: strings.EqualFold(cfg.Format, "json"),
		Output:     output(cfg.Output),
	})
}

// ParseLevel maps a level name onto an hclog level.
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}

// Discard returns a logger that drops everything, for tests and optional dependencies.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

// OrDiscard returns l, or a null logger when l is nil.
func OrDiscard(l hclog.Logger) hclog.Logger {
	if l == nil {
		return hclog.NewNullLogger()
	}
	return l
}

func output(name string) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}
