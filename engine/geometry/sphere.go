package geometry

import "math"

// Sphere is a UV sphere centered on the origin.
type Sphere struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
}

var _ Geometry = Sphere{}

// NewSphere creates a Sphere descriptor. Segment counts are clamped to at least 3 and 2.
func NewSphere(radius float32, widthSegments, heightSegments int) Sphere {
	return Sphere{
		Radius:         radius,
		WidthSegments:  max(widthSegments, 3),
		HeightSegments: max(heightSegments, 2),
	}
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) BoundingRadius() float32 { return s.Radius }

// Build generates (W+1)*(H+1) vertices with a seam column so UVs wrap cleanly. Degenerate
// triangles at the poles are skipped.
func (s Sphere) Build() Data {
	ws := max(s.WidthSegments, 3)
	hs := max(s.HeightSegments, 2)

	data := Data{
		Vertices: make([]Vertex, 0, (ws+1)*(hs+1)),
		Indices:  make([]uint32, 0, ws*hs*6),
	}

	for y := 0; y <= hs; y++ {
		v := float64(y) / float64(hs)
		theta := v * math.Pi
		for x := 0; x <= ws; x++ {
			u := float64(x) / float64(ws)
			phi := u * 2 * math.Pi

			nx := float32(-math.Cos(phi) * math.Sin(theta))
			ny := float32(math.Cos(theta))
			nz := float32(math.Sin(phi) * math.Sin(theta))

			data.Vertices = append(data.Vertices, Vertex{
				Position: [3]float32{nx * s.Radius, ny * s.Radius, nz * s.Radius},
				Normal:   [3]float32{nx, ny, nz},
				UV:       [2]float32{float32(u), float32(v)},
				Tangent:  [4]float32{float32(math.Sin(phi)), 0, float32(math.Cos(phi)), 1},
			})
		}
	}

	row := uint32(ws + 1)
	for y := 0; y < hs; y++ {
		for x := 0; x < ws; x++ {
			a := uint32(y)*row + uint32(x) + 1
			b := uint32(y)*row + uint32(x)
			c := uint32(y+1)*row + uint32(x)
			d := uint32(y+1)*row + uint32(x) + 1
			if y != 0 {
				data.Indices = append(data.Indices, a, b, d)
			}
			if y != hs-1 {
				data.Indices = append(data.Indices, b, c, d)
			}
		}
	}
	return data
}
