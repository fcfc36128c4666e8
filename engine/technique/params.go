package technique

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
)

// ParamBlockSize is the byte size of the uniform part of a ParamBlock.
const ParamBlockSize = 240

// ParamBlock holds the per-object shader parameters. The numeric part maps to the WGSL
// Params struct; Texture and Lights are bound as resources next to it.
//
// Uniform layout (std140-compatible, 240 bytes):
//
//	offset   0: mvp        mat4x4<f32>
//	offset  64: world      mat4x4<f32>
//	offset 128: normal     mat3x3<f32> (three vec4 columns)
//	offset 176: color      vec4<f32>
//	offset 192: ambient    vec4<f32>
//	offset 208: light_mask vec4<u32>
//	offset 224: alpha_test f32
type ParamBlock struct {
	MVP       [16]float32
	World     [16]float32
	Normal    [9]float32
	Color     common.ColorValue
	Ambient   common.ColorValue
	LightMask light.Mask
	AlphaTest float32

	Texture common.Texture
	Lights  common.Buffer
}

// Marshal serializes the uniform part of the block into a new buffer.
//
// Returns:
//   - []byte: ParamBlockSize bytes ready for GPU upload
func (p *ParamBlock) Marshal() []byte {
	buf := make([]byte, ParamBlockSize)
	p.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the uniform part of the block into buf without allocating.
// Padding bytes are zeroed.
//
// Parameters:
//   - buf: destination, at least ParamBlockSize bytes
func (p *ParamBlock) MarshalTo(buf []byte) {
	buf = buf[:ParamBlockSize]
	clear(buf)
	putFloats(buf[0:64], p.MVP[:])
	putFloats(buf[64:128], p.World[:])
	for col := range 3 {
		putFloats(buf[128+col*16:128+col*16+12], p.Normal[col*3:col*3+3])
	}
	putFloats(buf[176:192], p.Color[:])
	putFloats(buf[192:208], p.Ambient[:])
	for i, lane := range p.LightMask {
		binary.LittleEndian.PutUint32(buf[208+i*4:], lane)
	}
	binary.LittleEndian.PutUint32(buf[224:228], math.Float32bits(p.AlphaTest))
}

func putFloats(buf []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}
