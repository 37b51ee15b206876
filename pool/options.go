package pool

import "log/slog"

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithLogger routes manager lifecycle logs and warnings to l. The logger is
// also handed to every arena the manager builds, so arena-level warnings
// (double frees, foreign buffers) surface through it too. By default the
// manager is silent.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}
