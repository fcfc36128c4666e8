package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litSource = `
// block /* nested */ comments are skipped
struct Params {
    mvp: mat4x4<f32>,
    normal: mat3x3<f32>,
    color: vec4<f32>,
    mask: vec4<u32>,
    alpha: f32,
};

struct Light {
    position: vec4<f32>,
    color: vec4<f32>,
    attenuation: vec4<f32>,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> lights: array<Light, 256>;
@group(1) @binding(0) var t_diffuse: texture_2d<f32>;
@group(1) @binding(1) var s_diffuse: sampler;

struct VertexIn {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
};

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return params.color;
}
`

func TestNewShaderEntryPoints(t *testing.T) {
	s, err := NewShader("lit", litSource)
	require.NoError(t, err)
	assert.Equal(t, "lit", s.Key())
	assert.Equal(t, "vs_main", s.VertexEntryPoint())
	assert.Equal(t, "fs_main", s.FragmentEntryPoint())
	assert.Equal(t, litSource, s.Module().WGSLDescriptor.Code)
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("broken", "@vertex\nfn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)

	_, err = NewShader("commented", "// @vertex fn vs_main\n@fragment fn fs_main() {}")
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestVertexLayout(t *testing.T) {
	s, err := NewShader("lit", litSource)
	require.NoError(t, err)

	layout, ok := s.VertexLayout()
	require.True(t, ok)
	assert.Equal(t, uint64(32), layout.ArrayStride)
	require.Len(t, layout.Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[1].Format)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint32(2), layout.Attributes[2].ShaderLocation)
	assert.Equal(t, uint64(24), layout.Attributes[2].Offset)
}

func TestBindings(t *testing.T) {
	s, err := NewShader("lit", litSource)
	require.NoError(t, err)

	require.Len(t, s.Bindings(), 4)
	assert.Equal(t, 2, s.Groups())

	params, ok := s.Binding(0, 0)
	require.True(t, ok)
	assert.Equal(t, "params", params.Name)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, params.Entry.Buffer.Type)
	// 64 + 48 + 16 + 16 + 4, rounded up to 16.
	assert.Equal(t, uint64(160), params.Entry.Buffer.MinBindingSize)

	lights, ok := s.Binding(0, 1)
	require.True(t, ok)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, lights.Entry.Buffer.Type)
	assert.Equal(t, uint64(256*48), lights.Entry.Buffer.MinBindingSize)

	tex, ok := s.Binding(1, 0)
	require.True(t, ok)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, tex.Entry.Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, tex.Entry.Texture.ViewDimension)

	samp, ok := s.Binding(1, 1)
	require.True(t, ok)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, samp.Entry.Sampler.Type)

	_, ok = s.Binding(2, 0)
	assert.False(t, ok)
}

func TestResolveLayoutArrays(t *testing.T) {
	known := map[string]typeLayout{"Light": {48, 16}}

	l, ok := resolveLayout("array<Light, 4>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(192), l.size)

	l, ok = resolveLayout("array<vec3<f32>>", known)
	require.True(t, ok)
	assert.Equal(t, uint64(16), l.size)

	_, ok = resolveLayout("Unknown", known)
	assert.False(t, ok)
}
