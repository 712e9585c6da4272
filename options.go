package cubie

import "log/slog"

// Option configures a Puzzle.
type Option func(*config)

type config struct {
	logger *slog.Logger
	onMove func(Move)
}

func defaultConfig() *config {
	return &config{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used for move and reset events.
// Events are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMoveCallback registers a function called after every logical move
// has been applied and recorded.
func WithMoveCallback(cb func(Move)) Option {
	return func(c *config) {
		c.onMove = cb
	}
}
