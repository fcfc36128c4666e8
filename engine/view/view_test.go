package view

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/stretchr/testify/assert"
)

func TestDepthIsHomogeneousDivide(t *testing.T) {
	var info Info
	info.Vertex[14] = 3
	info.Vertex[15] = 4

	assert.InDelta(t, 0.75, info.Depth(), 1e-6)
}

func TestNewComposesTransforms(t *testing.T) {
	proj := common.Identity4()
	viewMx := common.Translation(0, 0, -5)
	model := common.Translation(1, 2, 3)

	info := New(proj, viewMx, model)

	assert.Equal(t, model, info.World)
	assert.Equal(t, [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, info.Normal)
	assert.Equal(t, float32(1), info.Vertex[12])
	assert.Equal(t, float32(2), info.Vertex[13])
	assert.Equal(t, float32(-2), info.Vertex[14])
	assert.Equal(t, float32(-2), info.Depth())
}

func TestDepthOrdersWithPerspective(t *testing.T) {
	var proj [16]float32
	common.Perspective(proj[:], 1.0, 1.0, 0.1, 100)
	eye := common.Identity4()

	near := New(proj, eye, common.Translation(0, 0, -2))
	far := New(proj, eye, common.Translation(0, 0, -20))

	assert.Less(t, near.Depth(), far.Depth())
}
