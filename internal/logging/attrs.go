package logging

import "log/slog"

// WithComponent returns a logger tagged with the component attribute the
// console handler hoists into the message prefix. A nil logger yields the
// process default so callers never need to nil-check.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}

// Error wraps an error as a standard attr so call sites stay consistent.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
