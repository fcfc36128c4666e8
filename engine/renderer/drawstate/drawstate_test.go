package drawstate

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewDrawStateDefaults(t *testing.T) {
	s := NewDrawState("test")

	assert.Equal(t, "test", s.Key())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, s.DepthCompare())
	assert.True(t, s.DepthWriteEnabled())
	assert.False(t, s.BlendEnabled())
	assert.Nil(t, s.BlendState())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, s.Topology())
}

func TestWithBlendStateNilDisables(t *testing.T) {
	s := NewDrawState("x", WithBlendState(BlendAlpha), WithBlendState(nil))
	assert.False(t, s.BlendEnabled())
	assert.Nil(t, s.BlendState())
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name  string
		state DrawState
		blend *wgpu.BlendState
	}{
		{"opaque", Opaque(), nil},
		{"add", Add(), BlendAdd},
		{"alpha", Alpha(), BlendAlpha},
		{"multiply", Multiply(), BlendMultiply},
	}

	keys := map[string]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, wgpu.CompareFunctionLessEqual, tt.state.DepthCompare())
			assert.True(t, tt.state.DepthWriteEnabled())
			assert.Same(t, tt.blend, tt.state.BlendState())
			assert.Equal(t, tt.blend != nil, tt.state.BlendEnabled())
		})
		keys[tt.state.Key()] = true
	}
	assert.Len(t, keys, len(tests))
}

func TestPresetsAreShared(t *testing.T) {
	assert.Same(t, Alpha(), Alpha())
	assert.Same(t, Opaque(), Opaque())
}
