package engine

import (
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
)

// ContextBuilderOption is a functional option for configuring a Context.
// Use the With* functions to create options that are applied directly to the context instance.
type ContextBuilderOption func(*sceneContext)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, the loop ticks a profiler every frame
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithProfiling(enabled bool) ContextBuilderOption {
	return func(c *sceneContext) {
		c.profilingEnabled = enabled
	}
}

// WithProfiler uses p instead of a default profiler and enables profiling.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) ContextBuilderOption {
	return func(c *sceneContext) {
		c.profiler = p
		c.profilingEnabled = p != nil
	}
}

// WithLogger sets the logger shared by the context's components.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithLogger(l logging.Logger) ContextBuilderOption {
	return func(c *sceneContext) {
		c.logger = l
	}
}

// WithTextureLoader decodes stage textures through l instead of the renderer's loader. Textures
// decoded by a loader the renderer does not share are decoded again on first draw.
//
// Parameters:
//   - l: the texture loader
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithTextureLoader(l texture.Loader) ContextBuilderOption {
	return func(c *sceneContext) {
		c.loader = l
	}
}

// WithFrameLimit stops the render loop after n frames, ending Run without an error.
// 0 means unlimited.
//
// Parameters:
//   - n: number of frames
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithFrameLimit(n uint64) ContextBuilderOption {
	return func(c *sceneContext) {
		c.frameLimit = n
	}
}
