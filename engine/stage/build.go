package stage

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-stages/engine/animator"
	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
	"github.com/Carmen-Shannon/oxy-stages/engine/scene"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultWidth      = 800
	defaultHeight     = 600
	defaultFovDegrees = 75
	defaultNear       = 0.1
	defaultFar        = 1000
)

// Assembly is the result of building a stage: the scene graph, the camera looking at it and
// the animator spinning its meshes.
type Assembly struct {
	Config   Config
	Scene    scene.Scene
	Camera   camera.Camera
	Animator animator.Animator
	// Textures is the number of distinct textures decoded while building.
	Textures int
}

// Build creates the scene, camera, lights, meshes and animator tracks described by cfg.
// When loader is non-nil every texture the materials reference is decoded up front, in
// parallel, so that a missing or corrupt image fails the build instead of the first frame.
// Each call produces an independent assembly.
//
// Parameters:
//   - cfg: the stage config
//   - loader: texture loader shared with the renderer, or nil to defer decoding
//
// Returns:
//   - *Assembly: the assembled stage
//   - error: validation or texture error
func Build(cfg Config, loader texture.Loader) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stage %q: %w", cfg.Name, err)
	}

	width, height := WindowSize(cfg)
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(orDefault(cfg.Camera.FovDegrees, defaultFovDegrees))),
		camera.WithNear(orDefault(cfg.Camera.Near, defaultNear)),
		camera.WithFar(orDefault(cfg.Camera.Far, defaultFar)),
		camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]),
		camera.WithLookAt(cfg.Camera.LookAt[0], cfg.Camera.LookAt[1], cfg.Camera.LookAt[2]),
		camera.WithViewport(width, height),
	)

	s := scene.NewScene(cfg.Name)
	for i, lc := range cfg.Lights {
		l := buildLight(lc)
		if err := s.AddLight(l); err != nil {
			return nil, fmt.Errorf("lights[%d]: %w", i, err)
		}
	}

	anim := animator.NewAnimator(animator.WithRate(cfg.AnimatorRate()))
	var sources []texture.Source
	for i, mc := range cfg.Meshes {
		m, err := buildMesh(mc)
		if err != nil {
			return nil, fmt.Errorf("meshes[%d] %q: %w", i, mc.Name, err)
		}
		if err := s.AddMesh(m); err != nil {
			return nil, fmt.Errorf("meshes[%d]: %w", i, err)
		}
		if mc.Spin != (mgl32.Vec3{}) {
			anim.AddTrack(animator.Track{Name: m.Name(), Target: m, Increment: mc.Spin})
		}
		for _, src := range []*texture.Source{mc.Material.Map, mc.Material.NormalMap} {
			if src != nil {
				sources = append(sources, *src)
			}
		}
	}

	a := &Assembly{
		Config:   cfg,
		Scene:    s,
		Camera:   cam,
		Animator: anim,
	}
	if loader != nil && len(sources) > 0 {
		if _, err := loader.LoadAll(sources); err != nil {
			return nil, fmt.Errorf("failed to load textures for stage %q: %w", cfg.Name, err)
		}
		keys := make(map[string]struct{}, len(sources))
		for _, src := range sources {
			keys[src.Key()] = struct{}{}
		}
		a.Textures = len(keys)
	}
	return a, nil
}

// WindowSize returns the configured window size with defaults applied.
//
// Parameters:
//   - cfg: the stage config
//
// Returns:
//   - int: width in pixels
//   - int: height in pixels
func WindowSize(cfg Config) (int, int) {
	return orDefault(cfg.Window.Width, defaultWidth), orDefault(cfg.Window.Height, defaultHeight)
}

func buildLight(lc LightConfig) light.Light {
	opts := []light.LightBuilderOption{light.WithName(lc.Name)}
	if norm(lc.Kind) == lightKindAmbient {
		return light.NewAmbient(lc.Color, lc.Intensity, opts...)
	}
	return light.NewDirectional(lc.Color, lc.Intensity, lc.Position, opts...)
}

func buildMesh(mc MeshConfig) (mesh.Mesh, error) {
	geo, err := buildGeometry(mc.Geometry)
	if err != nil {
		return nil, err
	}
	mat, err := buildMaterial(mc.Name, mc.Material)
	if err != nil {
		return nil, err
	}
	opts := []mesh.MeshBuilderOption{
		mesh.WithName(mc.Name),
		mesh.WithPosition(mc.Position),
		mesh.WithRotation(mc.Rotation),
	}
	if mc.Scale != (mgl32.Vec3{}) {
		opts = append(opts, mesh.WithScale(mc.Scale))
	}
	return mesh.NewMesh(geo, mat, opts...), nil
}

func buildGeometry(gc GeometryConfig) (geometry.Geometry, error) {
	kind, err := geometry.ParseKind(gc.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case geometry.KindSphere:
		return geometry.NewSphere(orDefault(gc.Radius, 1), orDefault(gc.WidthSegments, 32), orDefault(gc.HeightSegments, 16)), nil
	case geometry.KindPlane:
		return geometry.NewPlane(orDefault(gc.Width, 1), orDefault(gc.Height, 1)), nil
	default:
		return geometry.NewBox(orDefault(gc.Width, 1), orDefault(gc.Height, 1), orDefault(gc.Depth, 1)), nil
	}
}

func buildMaterial(name string, mc MaterialConfig) (material.Material, error) {
	opts := []material.MaterialBuilderOption{material.WithName(name)}
	if mc.Kind != "" {
		kind, err := material.ParseKind(mc.Kind)
		if err != nil {
			return nil, err
		}
		opts = append(opts, material.WithKind(kind))
	}
	if mc.Color != nil {
		opts = append(opts, material.WithColor(*mc.Color))
	}
	if mc.Emissive != nil {
		opts = append(opts, material.WithEmissive(*mc.Emissive))
	}
	if mc.Shininess != nil {
		opts = append(opts, material.WithShininess(*mc.Shininess))
	}
	if mc.Roughness != nil {
		opts = append(opts, material.WithRoughness(*mc.Roughness))
	}
	if mc.Metalness != nil {
		opts = append(opts, material.WithMetalness(*mc.Metalness))
	}
	if mc.Clearcoat != nil {
		opts = append(opts, material.WithClearcoat(*mc.Clearcoat))
	}
	if mc.Map != nil {
		opts = append(opts, material.WithMap(*mc.Map))
	}
	if mc.NormalMap != nil {
		opts = append(opts, material.WithNormalMap(*mc.NormalMap))
	}
	return material.NewMaterial(opts...), nil
}

func orDefault[T int | float32](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}
