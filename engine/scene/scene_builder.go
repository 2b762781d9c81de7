package scene

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithMeshes adds initial meshes to the scene. Duplicate names panic, since they can only
// come from a programming error at construction time.
//
// Parameters:
//   - meshes: the meshes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshes(meshes ...mesh.Mesh) SceneBuilderOption {
	return func(s *scene) {
		for _, m := range meshes {
			if err := s.AddMesh(m); err != nil {
				panic(err)
			}
		}
	}
}

// WithLights adds initial lights to the scene. Duplicate names panic.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if err := s.AddLight(l); err != nil {
				panic(err)
			}
		}
	}
}

// WithBackground sets the background color override.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.background = c
		s.hasBackground = true
	}
}
