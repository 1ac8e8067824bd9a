package ingest

import (
	"github.com/talentco/skillsearch/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithPath sets the snapshot file path.
func WithPath(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.path = path
		}
	}
}

// WithWorkers sets how many goroutines decode user records.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(logger logger.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
