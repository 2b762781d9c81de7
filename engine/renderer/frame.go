package renderer

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
	"github.com/Carmen-Shannon/oxy-stages/engine/scene"
)

// DrawItem is one indexed draw of an uploaded mesh.
type DrawItem struct {
	MeshID     string
	IndexCount int
	Uniforms   MeshUniforms
}

// Frame is everything a backend needs to draw one frame. It is rebuilt every Render call.
type Frame struct {
	Index    uint64
	Width    int
	Height   int
	Clear    common.Color
	Uniforms FrameUniforms
	Draws    []DrawItem
}

// Triangles returns the number of triangles drawn by the frame.
func (f *Frame) Triangles() int {
	n := 0
	for _, d := range f.Draws {
		n += d.IndexCount / 3
	}
	return n
}

func newFrameUniforms(s scene.Scene, cam camera.Camera) FrameUniforms {
	return FrameUniforms{
		ViewProj:  cam.ViewProjectionMatrix(),
		CameraPos: cam.Position(),
		Lights:    light.PackLights(s.Lights()),
	}
}

func newMeshUniforms(m mesh.Mesh) MeshUniforms {
	mat := m.Material()
	c := mat.Color()
	return MeshUniforms{
		Model:        m.ModelMatrix(),
		Normal:       m.NormalMatrix(),
		Color:        [4]float32{c.R, c.G, c.B, c.A},
		Emissive:     mat.Emissive().RGB(),
		Kind:         uint32(max(mat.Kind().Index(), 0)),
		Shininess:    mat.Shininess(),
		Roughness:    mat.Roughness(),
		Metalness:    mat.Metalness(),
		Clearcoat:    mat.Clearcoat(),
		HasMap:       mat.Map() != nil,
		HasNormalMap: mat.NormalMap() != nil,
	}
}
