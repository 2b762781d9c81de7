package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxDirectionalLights is the number of directional lights the lit shader evaluates.
// Extra enabled directional lights are dropped in scene order.
const MaxDirectionalLights = 4

// GPUDirectionalLight is the GPU-aligned representation of a directional light.
// Size: 32 bytes (WGSL uniform aligned).
type GPUDirectionalLight struct {
	Direction [3]float32 // offset  0: normalized travel direction
	_pad0     float32    // offset 12
	Radiance  [3]float32 // offset 16: color * intensity
	_pad1     float32    // offset 28
}

// Size returns the size of the GPUDirectionalLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUDirectionalLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPULightBlock is the light section of the per-frame uniform buffer.
// Size: 16 + 16 + 32 * MaxDirectionalLights bytes.
type GPULightBlock struct {
	Ambient          [3]float32 // offset 0: summed ambient radiance
	DirectionalCount uint32     // offset 12
	_pad             [4]float32 // offset 16: keeps the light array on a 32 byte boundary
	Directional      [MaxDirectionalLights]GPUDirectionalLight
}

// GPULightBlockSize is the marshaled size of GPULightBlock in bytes.
const GPULightBlockSize = 32 + 32*MaxDirectionalLights

// PackLights sums the enabled ambient lights and collects up to MaxDirectionalLights
// enabled directional lights.
//
// Parameters:
//   - lights: the scene's lights in insertion order
//
// Returns:
//   - GPULightBlock: the packed block
func PackLights(lights []Light) GPULightBlock {
	var block GPULightBlock
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeAmbient:
			r := l.Radiance()
			block.Ambient[0] += r[0]
			block.Ambient[1] += r[1]
			block.Ambient[2] += r[2]
		case LightTypeDirectional:
			if block.DirectionalCount >= MaxDirectionalLights {
				continue
			}
			block.Directional[block.DirectionalCount] = GPUDirectionalLight{
				Direction: l.Direction(),
				Radiance:  l.Radiance(),
			}
			block.DirectionalCount++
		}
	}
	return block
}

// Marshal serializes the block into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: GPULightBlockSize bytes
func (b *GPULightBlock) Marshal() []byte {
	buf := make([]byte, GPULightBlockSize)
	putVec3(buf[0:12], b.Ambient)
	binary.LittleEndian.PutUint32(buf[12:16], b.DirectionalCount)
	for i, d := range b.Directional {
		off := 32 + i*32
		putVec3(buf[off:off+12], d.Direction)
		putVec3(buf[off+16:off+28], d.Radiance)
	}
	return buf
}

func putVec3(dst []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(v[2]))
}
