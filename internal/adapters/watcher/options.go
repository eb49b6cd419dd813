package watcher

import (
	"time"

	"github.com/okian/levelboard/pkg/logger"
)

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the files must stay quiet before a change is
// reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets a custom logger for the watcher.
func WithLogger(log logger.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.logger = log
		}
	}
}
