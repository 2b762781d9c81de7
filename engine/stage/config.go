// Package stage describes a scene as data and assembles it into engine objects.
package stage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/animator"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/Carmen-Shannon/oxy-stages/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

// Config is a complete stage description: window, renderer, camera, lights and meshes.
type Config struct {
	Name        string         `yaml:"name" toml:"name"`
	Description string         `yaml:"description" toml:"description"`
	Window      WindowConfig   `yaml:"window" toml:"window"`
	Renderer    RendererConfig `yaml:"renderer" toml:"renderer"`
	Camera      CameraConfig   `yaml:"camera" toml:"camera"`
	Rate        RateConfig     `yaml:"rate" toml:"rate"`
	Lights      []LightConfig  `yaml:"lights" toml:"lights"`
	Meshes      []MeshConfig   `yaml:"meshes" toml:"meshes"`
}

// WindowConfig is the initial host window.
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// RendererConfig is the creation-time renderer configuration.
type RendererConfig struct {
	// Antialias defaults to true when unset.
	Antialias *bool `yaml:"antialias" toml:"antialias"`
	// ClearColor defaults to black when unset.
	ClearColor *common.Color `yaml:"clear_color" toml:"clear_color"`
	// PresentMode is "vsync" (default) or "uncapped".
	PresentMode string `yaml:"present_mode" toml:"present_mode"`
}

// CameraConfig is a perspective camera pose.
type CameraConfig struct {
	FovDegrees float32    `yaml:"fov" toml:"fov"`
	Near       float32    `yaml:"near" toml:"near"`
	Far        float32    `yaml:"far" toml:"far"`
	Position   mgl32.Vec3 `yaml:"position" toml:"position"`
	LookAt     mgl32.Vec3 `yaml:"look_at" toml:"look_at"`
}

// RateConfig selects how per-frame increments scale with time.
type RateConfig struct {
	// Kind is "fixed-step" (default) or "per-second".
	Kind string `yaml:"kind" toml:"kind"`
	// ReferenceHz is the refresh rate the increments were tuned for, used by "per-second".
	ReferenceHz float64 `yaml:"reference_hz" toml:"reference_hz"`
}

// LightConfig is one ambient or directional light.
type LightConfig struct {
	Name      string       `yaml:"name" toml:"name"`
	Kind      string       `yaml:"kind" toml:"kind"`
	Color     common.Color `yaml:"color" toml:"color"`
	Intensity float32      `yaml:"intensity" toml:"intensity"`
	Position  mgl32.Vec3   `yaml:"position" toml:"position"`
}

// MeshConfig is one renderable entity with its placement and spin.
type MeshConfig struct {
	Name     string         `yaml:"name" toml:"name"`
	Geometry GeometryConfig `yaml:"geometry" toml:"geometry"`
	Material MaterialConfig `yaml:"material" toml:"material"`
	Position mgl32.Vec3     `yaml:"position" toml:"position"`
	// Rotation is the initial Euler rotation in radians.
	Rotation mgl32.Vec3 `yaml:"rotation" toml:"rotation"`
	// Scale defaults to (1, 1, 1) when unset.
	Scale mgl32.Vec3 `yaml:"scale" toml:"scale"`
	// Spin is added to the rotation every frame, in radians.
	Spin mgl32.Vec3 `yaml:"spin" toml:"spin"`
}

// GeometryConfig selects a shape and its dimensions. Unused dimensions are ignored.
type GeometryConfig struct {
	Kind           string  `yaml:"kind" toml:"kind"`
	Width          float32 `yaml:"width" toml:"width"`
	Height         float32 `yaml:"height" toml:"height"`
	Depth          float32 `yaml:"depth" toml:"depth"`
	Radius         float32 `yaml:"radius" toml:"radius"`
	WidthSegments  int     `yaml:"width_segments" toml:"width_segments"`
	HeightSegments int     `yaml:"height_segments" toml:"height_segments"`
}

// MaterialConfig is a shading descriptor. Zero values fall back to the material defaults.
type MaterialConfig struct {
	Kind      string          `yaml:"kind" toml:"kind"`
	Color     *common.Color   `yaml:"color" toml:"color"`
	Emissive  *common.Color   `yaml:"emissive" toml:"emissive"`
	Shininess *float32        `yaml:"shininess" toml:"shininess"`
	Roughness *float32        `yaml:"roughness" toml:"roughness"`
	Metalness *float32        `yaml:"metalness" toml:"metalness"`
	Clearcoat *float32        `yaml:"clearcoat" toml:"clearcoat"`
	Map       *texture.Source `yaml:"map" toml:"map"`
	NormalMap *texture.Source `yaml:"normal_map" toml:"normal_map"`
}

const (
	lightKindAmbient     = "ambient"
	lightKindDirectional = "directional"

	rateKindFixedStep = "fixed-step"
	rateKindPerSecond = "per-second"

	presentModeVSync    = "vsync"
	presentModeUncapped = "uncapped"
)

// Validate checks every kind name and dimension in the config. All problems are reported.
//
// Returns:
//   - error: joined validation errors, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width < 0 || c.Window.Height < 0 {
		errs = append(errs, fmt.Errorf("window: negative size %dx%d", c.Window.Width, c.Window.Height))
	}
	switch norm(c.Renderer.PresentMode) {
	case "", presentModeVSync, presentModeUncapped:
	default:
		errs = append(errs, fmt.Errorf("renderer: unknown present mode %q", c.Renderer.PresentMode))
	}
	switch norm(c.Rate.Kind) {
	case "", rateKindFixedStep, rateKindPerSecond:
	default:
		errs = append(errs, fmt.Errorf("rate: unknown kind %q", c.Rate.Kind))
	}
	if c.Camera.Near < 0 || (c.Camera.Far != 0 && c.Camera.Far <= c.Camera.Near) {
		errs = append(errs, fmt.Errorf("camera: invalid clip range [%g, %g]", c.Camera.Near, c.Camera.Far))
	}

	for i, l := range c.Lights {
		switch norm(l.Kind) {
		case lightKindAmbient, lightKindDirectional:
		default:
			errs = append(errs, fmt.Errorf("lights[%d] %q: unknown kind %q", i, l.Name, l.Kind))
		}
	}

	names := make(map[string]bool)
	for i, m := range c.Meshes {
		if m.Name != "" {
			if names[m.Name] {
				errs = append(errs, fmt.Errorf("meshes[%d]: duplicate name %q", i, m.Name))
			}
			names[m.Name] = true
		}
		if _, err := geometry.ParseKind(m.Geometry.Kind); err != nil {
			errs = append(errs, fmt.Errorf("meshes[%d] %q: %w", i, m.Name, err))
		}
		if m.Material.Kind != "" {
			if _, err := material.ParseKind(m.Material.Kind); err != nil {
				errs = append(errs, fmt.Errorf("meshes[%d] %q: %w", i, m.Name, err))
			}
		}
		if src := m.Material.Map; src != nil {
			if err := src.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("meshes[%d] %q map: %w", i, m.Name, err))
			}
		}
		if src := m.Material.NormalMap; src != nil {
			if err := src.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("meshes[%d] %q normal_map: %w", i, m.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// RendererOptions converts the renderer section into builder options.
//
// Returns:
//   - []renderer.RendererBuilderOption: the options
func (c *Config) RendererOptions() []renderer.RendererBuilderOption {
	opts := []renderer.RendererBuilderOption{}
	if c.Renderer.Antialias != nil {
		opts = append(opts, renderer.WithAntialias(*c.Renderer.Antialias))
	}
	if c.Renderer.ClearColor != nil {
		opts = append(opts, renderer.WithClearColor(*c.Renderer.ClearColor))
	}
	if norm(c.Renderer.PresentMode) == presentModeUncapped {
		opts = append(opts, renderer.WithPresentMode(renderer.PresentModeUncapped))
	}
	return opts
}

// AnimatorRate returns the rate selected by the rate section.
func (c *Config) AnimatorRate() animator.Rate {
	if norm(c.Rate.Kind) == rateKindPerSecond {
		return animator.PerSecond(c.Rate.ReferenceHz)
	}
	return animator.FixedStep()
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
