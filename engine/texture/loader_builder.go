package texture

import "github.com/Carmen-Shannon/oxy-stages/engine/logging"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithBaseDir resolves relative texture paths against dir.
//
// Parameters:
//   - dir: the directory relative paths are joined to
//
// Returns:
//   - LoaderBuilderOption: a function that applies the base directory option to a loader
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithWorkers sets the maximum number of parallel decode workers. Values below 1 are ignored.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n >= 1 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for load timings and failures.
func WithLogger(logger logging.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
