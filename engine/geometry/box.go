package geometry

import "math"

// Box is an axis-aligned box centered on the origin.
type Box struct {
	Width, Height, Depth float32
}

var _ Geometry = Box{}

// NewBox creates a Box descriptor.
func NewBox(width, height, depth float32) Box {
	return Box{Width: width, Height: height, Depth: depth}
}

func (b Box) Kind() Kind { return KindBox }

func (b Box) BoundingRadius() float32 {
	hx, hy, hz := b.Width/2, b.Height/2, b.Depth/2
	return float32(math.Sqrt(float64(hx*hx + hy*hy + hz*hz)))
}

// Build emits four vertices per face so each face gets a flat normal and its own UVs.
func (b Box) Build() Data {
	hx, hy, hz := b.Width/2, b.Height/2, b.Depth/2

	type face struct {
		normal  [3]float32
		tangent [3]float32
		corners [4][3]float32 // bottom-left, bottom-right, top-right, top-left seen from outside
	}
	faces := [6]face{
		{[3]float32{1, 0, 0}, [3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [3]float32{1, 0, 0}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [3]float32{-1, 0, 0}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	data := Data{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(data.Vertices))
		for i, p := range f.corners {
			data.Vertices = append(data.Vertices, Vertex{
				Position: p,
				Normal:   f.normal,
				UV:       uvs[i],
				Tangent:  [4]float32{f.tangent[0], f.tangent[1], f.tangent[2], 1},
			})
		}
		data.Indices = append(data.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return data
}
