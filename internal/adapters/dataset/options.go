package dataset

import "github.com/okian/levelboard/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithProfileSource sets the optional creator profile feed.
func WithProfileSource(src Source) Option {
	return func(l *Loader) {
		l.profiles = src
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
