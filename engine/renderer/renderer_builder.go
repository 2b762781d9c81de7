package renderer

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithAntialias enables or disables 4x multisample anti-aliasing. Enabled by default.
//
// Parameters:
//   - enabled: true for MSAA4x, false for a single sample
//
// Returns:
//   - RendererBuilderOption: a function that applies the antialias option to a renderer
func WithAntialias(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.antialias = enabled
	}
}

// WithClearColor sets the color the surface is cleared to when the scene has no background.
// Defaults to opaque black.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithTextureLoader shares a texture loader, so textures decoded during scene assembly are
// reused from its cache at upload time.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - RendererBuilderOption: a function that applies the loader option to a renderer
func WithTextureLoader(l texture.Loader) RendererBuilderOption {
	return func(r *renderer) {
		r.loader = l
	}
}

// WithLogger sets the logger used for upload and surface diagnostics.
func WithLogger(l logging.Logger) RendererBuilderOption {
	return func(r *renderer) {
		r.logger = l
	}
}
