package arena

import (
	"io"
	"log/slog"
)

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithLogger routes arena warnings (double frees, foreign buffers) to l.
// By default the arena is silent: all output is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
