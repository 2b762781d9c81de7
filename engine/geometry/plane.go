package geometry

import "math"

// Plane is a flat rectangle in the XY plane facing +Z, centered on the origin.
type Plane struct {
	Width, Height float32
}

var _ Geometry = Plane{}

// NewPlane creates a Plane descriptor.
func NewPlane(width, height float32) Plane {
	return Plane{Width: width, Height: height}
}

func (p Plane) Kind() Kind { return KindPlane }

func (p Plane) BoundingRadius() float32 {
	hx, hy := p.Width/2, p.Height/2
	return float32(math.Sqrt(float64(hx*hx + hy*hy)))
}

func (p Plane) Build() Data {
	hx, hy := p.Width/2, p.Height/2
	n := [3]float32{0, 0, 1}
	t := [4]float32{1, 0, 0, 1}
	return Data{
		Vertices: []Vertex{
			{Position: [3]float32{-hx, -hy, 0}, Normal: n, UV: [2]float32{0, 1}, Tangent: t},
			{Position: [3]float32{hx, -hy, 0}, Normal: n, UV: [2]float32{1, 1}, Tangent: t},
			{Position: [3]float32{hx, hy, 0}, Normal: n, UV: [2]float32{1, 0}, Tangent: t},
			{Position: [3]float32{-hx, hy, 0}, Normal: n, UV: [2]float32{0, 0}, Tangent: t},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
