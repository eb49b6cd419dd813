package worker

import (
	"github.com/okian/levelboard/pkg/logger"
)

// Option applies a configuration option to the ReloadWorker.
type Option func(*ReloadWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ReloadWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *ReloadWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
