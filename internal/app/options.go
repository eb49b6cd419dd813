package service

import (
	"time"

	"github.com/okian/levelboard/internal/adapters/repository"
	"github.com/okian/levelboard/internal/domain/rating"
	"github.com/okian/levelboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoader sets the dataset loader. It is required.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		s.loader = l
	}
}

// WithRegistry sets the rating schema registry.
func WithRegistry(r *rating.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithQueueSize sets the maximum number of pending reload requests.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWatchPaths enables reloads when any of the given files change.
func WithWatchPaths(paths ...string) Option {
	return func(s *Service) {
		s.watchPaths = append(s.watchPaths, paths...)
	}
}

// WithDebounce sets the quiet period the file watcher waits for.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithProfileDefaults sets the images used when a creator has none.
func WithProfileDefaults(avatar, banner string) Option {
	return func(s *Service) {
		s.profileDefaults.Avatar = avatar
		s.profileDefaults.Banner = banner
	}
}
