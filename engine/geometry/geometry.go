// Package geometry describes mesh shapes and builds their vertex data.
package geometry

import (
	"fmt"
	"strings"
)

// Kind names a geometry shape.
type Kind string

const (
	KindBox    Kind = "box"
	KindSphere Kind = "sphere"
	KindPlane  Kind = "plane"
)

// ParseKind validates a shape name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindBox, KindSphere, KindPlane:
		return k, nil
	default:
		return "", fmt.Errorf("unknown geometry kind %q", s)
	}
}

// Vertex is the interleaved vertex layout uploaded to the GPU. Tangent.w carries the
// bitangent sign.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Tangent  [4]float32
}

// VertexStride is the size of Vertex in bytes.
const VertexStride = 4 * (3 + 3 + 2 + 4)

// Data is built triangle-list mesh data with counter-clockwise front faces.
type Data struct {
	Vertices []Vertex
	Indices  []uint32
}

// Geometry is a shape descriptor that can build its own mesh data.
type Geometry interface {
	// Kind returns the shape name.
	Kind() Kind

	// Build generates vertices and indices for the shape.
	//
	// Returns:
	//   - Data: the mesh data
	Build() Data

	// BoundingRadius returns the radius of a sphere centered at the origin enclosing the shape.
	BoundingRadius() float32
}
