package material

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
)

// MaterialBuilderOption is a functional option for configuring a Material.
type MaterialBuilderOption func(*materialImpl)

// WithName sets the material's identifier.
func WithName(name string) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.name = name
	}
}

// WithKind sets the shading model.
//
// Parameters:
//   - kind: one of the Kind constants
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.kind = kind
	}
}

// WithColor sets the base color.
func WithColor(c common.Color) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.color = c
	}
}

// WithEmissive sets the emitted color.
func WithEmissive(c common.Color) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.emissive = c
	}
}

// WithShininess sets the Blinn-Phong exponent.
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.shininess = shininess
	}
}

// WithRoughness sets the microfacet roughness, clamped to [0, 1].
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.roughness = clamp01(roughness)
	}
}

// WithMetalness sets the metallic factor, clamped to [0, 1].
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.metalness = clamp01(metalness)
	}
}

// WithClearcoat sets the clearcoat strength, clamped to [0, 1].
func WithClearcoat(clearcoat float32) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.clearcoat = clamp01(clearcoat)
	}
}

// WithMap sets the color texture.
//
// Parameters:
//   - src: the texture source
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithMap(src texture.Source) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.colorMap = &src
	}
}

// WithNormalMap sets the tangent-space normal map.
//
// Parameters:
//   - src: the texture source
//
// Returns:
//   - MaterialBuilderOption: option function to apply
func WithNormalMap(src texture.Source) MaterialBuilderOption {
	return func(m *materialImpl) {
		m.normalMap = &src
	}
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
