package model

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// VertexSize is the byte stride of GPUVertex in the vertex buffer.
const VertexSize = 32

// GPUVertex is the GPU-aligned representation of a single mesh vertex. It matches the
// VertexIn struct of every technique program: location 0 position, 1 normal, 2 uv.
// Attributes a mesh does not expose are uploaded as zeros.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space
	Normal   [3]float32 // offset 12: vertex normal
	TexCoord [2]float32 // offset 24: UV texture coordinate
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (32)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the vertex into buf without allocating.
//
// Parameters:
//   - buf: destination, at least VertexSize bytes
func (g *GPUVertex) MarshalTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
}

// marshalVertices packs vertices into one contiguous vertex buffer.
func marshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i := range vertices {
		vertices[i].MarshalTo(buf[i*VertexSize:])
	}
	return buf
}

// marshalIndices packs uint32 indices little endian.
func marshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
