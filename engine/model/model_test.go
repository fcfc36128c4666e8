package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUVertexLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{0.25, 0.75},
	}
	assert.Equal(t, VertexSize, v.Size())

	buf := v.Marshal()
	require.Len(t, buf, VertexSize)
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(3), f(8))
	assert.Equal(t, float32(1), f(16))
	assert.Equal(t, float32(0.75), f(28))
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	assert.True(t, m.Capability().Has(mesh.AttribPosition))
	assert.False(t, m.Capability().HasTexCoord())
	assert.Zero(t, m.IndexCount())
	assert.Nil(t, m.Material())
}

func TestCube(t *testing.T) {
	c := NewCube(2)
	assert.Equal(t, "cube", c.Name())
	assert.Len(t, c.Vertices(), 24)
	assert.Equal(t, 36, c.IndexCount())
	assert.Len(t, c.VertexData(), 24*VertexSize)
	assert.Len(t, c.IndexData(), 36*4)
	assert.InDelta(t, math.Sqrt(3), c.BoundingRadius(), 1e-5)
	assert.True(t, c.Capability().HasTexCoord())

	for _, v := range c.Vertices() {
		for i := range 3 {
			assert.InDelta(t, 1, math.Abs(float64(v.Position[i])), 1e-6)
		}
		// Every vertex lies on the face its normal points out of.
		d := v.Position[0]*v.Normal[0] + v.Position[1]*v.Normal[1] + v.Position[2]*v.Normal[2]
		assert.InDelta(t, 1, d, 1e-6)
	}
}

func TestCubeWinding(t *testing.T) {
	c := NewCube(1)
	vs, idx := c.Vertices(), c.Indices()
	for i := 0; i < len(idx); i += 3 {
		a, b, d := vs[idx[i]].Position, vs[idx[i+1]].Position, vs[idx[i+2]].Position
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
		n := [3]float32{e1[1]*e2[2] - e1[2]*e2[1], e1[2]*e2[0] - e1[0]*e2[2], e1[0]*e2[1] - e1[1]*e2[0]}
		want := vs[idx[i]].Normal
		assert.Positive(t, n[0]*want[0]+n[1]*want[1]+n[2]*want[2], "triangle %d winds clockwise", i/3)
	}
}

func TestPlaneOptions(t *testing.T) {
	mat := material.NewMaterial(material.WithName("floor"))
	p := NewPlane(10, WithName("floor"), WithAttributes(mesh.AttribPosition, mesh.AttribNormal), WithMaterial(mat))
	assert.Equal(t, "floor", p.Name())
	assert.Equal(t, 6, p.IndexCount())
	assert.False(t, p.Capability().HasTexCoord())
	assert.Same(t, mat, p.Material())
}
