package op2util

import "log/slog"

type config struct {
	logger *slog.Logger
	limits Limits
}

type Option func(*config)

// WithLogger sets the logger that receives failed calls at debug level.
// Without it the Bridge discards its log output.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithLimits(l Limits) Option {
	return func(c *config) { c.limits = l }
}
