package mesh

import "github.com/go-gl/mathgl/mgl32"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*meshImpl)

// WithName sets the name used for scene lookups.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option
func WithName(name string) MeshBuilderOption {
	return func(m *meshImpl) {
		m.name = name
	}
}

// WithPosition sets the initial translation.
func WithPosition(pos mgl32.Vec3) MeshBuilderOption {
	return func(m *meshImpl) {
		m.position = pos
	}
}

// WithRotation sets the initial Euler angles in radians.
func WithRotation(rot mgl32.Vec3) MeshBuilderOption {
	return func(m *meshImpl) {
		m.rotation = rot
	}
}

// WithScale sets the initial per-axis scale. A zero vector is ignored.
func WithScale(scale mgl32.Vec3) MeshBuilderOption {
	return func(m *meshImpl) {
		if scale != (mgl32.Vec3{}) {
			m.scale = scale
		}
	}
}

// WithEnabled sets whether the mesh is initially drawn.
func WithEnabled(enabled bool) MeshBuilderOption {
	return func(m *meshImpl) {
		m.enabled.Store(enabled)
	}
}
