package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxLights is the number of slots in the GPU light buffer, slot 0 included.
// Must stay in sync with the array length declared by the lit shaders.
const MaxLights = 256

// GPULightSize is the byte size of one GPULight slot.
const GPULightSize = 48

// GPULight is the GPU-aligned representation of one light buffer slot.
// Matches the WGSL Light struct: three vec4<f32> (48 bytes, std430 aligned).
type GPULight struct {
	Position    [4]float32 // offset  0: homogeneous world-space position
	Color       [4]float32 // offset 16: RGBA color
	Attenuation [4]float32 // offset 32: attenuation coefficients (c0, c1, c2, unused)
}

// NewGPULight converts a Light into its slot representation.
//
// Parameters:
//   - l: the light to convert
//
// Returns:
//   - GPULight: the slot value
func NewGPULight(l Light) GPULight {
	return GPULight{
		Position:    l.Position(),
		Color:       l.Color(),
		Attenuation: l.Attenuation().Coefficients(),
	}
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the slot into buf without allocating.
//
// Parameters:
//   - buf: destination, at least GPULightSize bytes
func (g *GPULight) MarshalTo(buf []byte) {
	putVec4(buf[0:16], g.Position)
	putVec4(buf[16:32], g.Color)
	putVec4(buf[32:48], g.Attenuation)
}

func putVec4(buf []byte, v [4]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v[3]))
}
