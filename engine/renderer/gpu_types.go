package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// FrameUniformsSize is the marshaled size of FrameUniforms in bytes.
const FrameUniformsSize = 80 + light.GPULightBlockSize

// MeshUniformsSize is the marshaled size of MeshUniforms in bytes.
const MeshUniformsSize = 176

// FrameUniforms is the per-frame uniform block, bound at @group(0) @binding(0) in lit.wgsl.
//
// Layout:
//
//	offset   0: viewProj mat4x4<f32>
//	offset  64: cameraPos vec3<f32> (+4 padding)
//	offset  80: lights LightBlock
type FrameUniforms struct {
	ViewProj  mgl32.Mat4
	CameraPos mgl32.Vec3
	Lights    light.GPULightBlock
}

// Marshal serializes the uniforms into a little-endian buffer suitable for GPU upload.
//
// Returns:
//   - []byte: FrameUniformsSize bytes
func (u *FrameUniforms) Marshal() []byte {
	buf := make([]byte, FrameUniformsSize)
	putFloats(buf[0:64], u.ViewProj[:])
	putFloats(buf[64:76], u.CameraPos[:])
	copy(buf[80:], u.Lights.Marshal())
	return buf
}

// MeshUniforms is the per-mesh uniform block, bound at @group(1) @binding(0) in lit.wgsl.
//
// Layout:
//
//	offset   0: model mat4x4<f32>
//	offset  64: normal mat3x3<f32> (three vec4 columns)
//	offset 112: color vec4<f32>
//	offset 128: emissive vec3<f32>
//	offset 140: kind u32
//	offset 144: shininess, roughness, metalness, clearcoat f32
//	offset 160: hasMap, hasNormalMap u32 (+8 padding)
type MeshUniforms struct {
	Model        mgl32.Mat4
	Normal       mgl32.Mat3
	Color        [4]float32
	Emissive     [3]float32
	Kind         uint32
	Shininess    float32
	Roughness    float32
	Metalness    float32
	Clearcoat    float32
	HasMap       bool
	HasNormalMap bool
}

// Marshal serializes the uniforms into a little-endian buffer suitable for GPU upload.
//
// Returns:
//   - []byte: MeshUniformsSize bytes
func (u *MeshUniforms) Marshal() []byte {
	buf := make([]byte, MeshUniformsSize)
	putFloats(buf[0:64], u.Model[:])
	for col := 0; col < 3; col++ {
		off := 64 + col*16
		putFloats(buf[off:off+12], u.Normal[col*3:col*3+3])
	}
	putFloats(buf[112:128], u.Color[:])
	putFloats(buf[128:140], u.Emissive[:])
	binary.LittleEndian.PutUint32(buf[140:144], u.Kind)
	putFloats(buf[144:160], []float32{u.Shininess, u.Roughness, u.Metalness, u.Clearcoat})
	binary.LittleEndian.PutUint32(buf[160:164], boolToU32(u.HasMap))
	binary.LittleEndian.PutUint32(buf[164:168], boolToU32(u.HasNormalMap))
	return buf
}

func putFloats(dst []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(f))
	}
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
