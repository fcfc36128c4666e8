package renderer

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTechniqueProgramsValidate(t *testing.T) {
	for _, f := range []technique.Flavor{technique.FlavorFlat, technique.FlavorForward, technique.FlavorForwardUnlit} {
		plain, textured, err := technique.ProgramSources(f)
		require.NoError(t, err)
		for _, src := range []technique.ProgramSource{plain, textured} {
			s, err := shader.NewShader(src.Label, src.Code)
			require.NoError(t, err, src.Label)

			lit, err := validateProgram(s)
			require.NoError(t, err, src.Label)
			assert.Equal(t, f.Lit(), lit, src.Label)
		}
	}
}

func TestValidateProgramRejectsWrongParamsSize(t *testing.T) {
	plain, _, err := technique.ProgramSources(technique.FlavorFlat)
	require.NoError(t, err)
	code := strings.Replace(plain.Code, "alpha_test: f32,", "alpha_test: f32,\n    extra: vec4<f32>,", 1)

	s, err := shader.NewShader("bad", code)
	require.NoError(t, err)
	_, err = validateProgram(s)
	assert.ErrorContains(t, err, "params is 256 bytes")
}

func TestValidateProgramRejectsUnknownBinding(t *testing.T) {
	plain, _, err := technique.ProgramSources(technique.FlavorFlat)
	require.NoError(t, err)
	code := plain.Code + "\n@group(2) @binding(0) var<uniform> extra: vec4<f32>;\n"

	s, err := shader.NewShader("bad", code)
	require.NoError(t, err)
	_, err = validateProgram(s)
	assert.ErrorContains(t, err, "unexpected binding extra")
}

func TestColorTargetState(t *testing.T) {
	opaque := colorTargetState(wgpu.TextureFormatBGRA8Unorm, drawstate.Opaque())
	assert.Nil(t, opaque.Blend)
	assert.Equal(t, wgpu.ColorWriteMaskAll, opaque.WriteMask)

	add := colorTargetState(wgpu.TextureFormatBGRA8Unorm, drawstate.Add())
	require.NotNil(t, add.Blend)
	assert.Equal(t, wgpu.BlendFactorOne, add.Blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, add.Blend.Color.DstFactor)
}

func TestDepthStencilState(t *testing.T) {
	for _, st := range []drawstate.DrawState{drawstate.Opaque(), drawstate.Alpha(), drawstate.Multiply()} {
		ds := depthStencilState(st)
		assert.Equal(t, depthFormat, ds.Format)
		assert.Equal(t, wgpu.CompareFunctionLessEqual, ds.DepthCompare)
		assert.True(t, ds.DepthWriteEnabled)
	}
}

func TestPrimitiveState(t *testing.T) {
	p := primitiveState(drawstate.Opaque())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology)
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace)
	assert.Equal(t, wgpu.CullModeNone, p.CullMode)
}

func TestLayoutDescriptors(t *testing.T) {
	unlit := paramsLayoutDescriptor(false)
	require.Len(t, unlit.Entries, 1)
	assert.True(t, unlit.Entries[0].Buffer.HasDynamicOffset)
	assert.Equal(t, uint64(technique.ParamBlockSize), unlit.Entries[0].Buffer.MinBindingSize)

	lit := paramsLayoutDescriptor(true)
	require.Len(t, lit.Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, lit.Entries[1].Buffer.Type)

	assert.Len(t, textureLayoutDescriptor().Entries, 2)
	assert.GreaterOrEqual(t, paramStride, technique.ParamBlockSize)
	assert.Zero(t, paramStride%256)
}

func TestParamCapacity(t *testing.T) {
	assert.Equal(t, 64, paramCapacity(0, 64))
	assert.Equal(t, 64, paramCapacity(64, 64))
	assert.Equal(t, 128, paramCapacity(65, 64))
	assert.Equal(t, 512, paramCapacity(300, 128))
	assert.Equal(t, 1, paramCapacity(1, 0))
}

func newPassDescriptor() *wgpu.RenderPassDescriptor {
	return &wgpu.RenderPassDescriptor{
		ColorAttachments:       []wgpu.RenderPassColorAttachment{{}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{},
	}
}

func TestApplyFrameClearWithBackground(t *testing.T) {
	desc := newPassDescriptor()
	applyFrameClear(desc, frameClear{
		pending: true,
		color:   wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1},
		depth:   1,
		stencil: 3,
	})

	ca, ds := desc.ColorAttachments[0], desc.DepthStencilAttachment
	assert.Equal(t, wgpu.LoadOpClear, ca.LoadOp)
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, ca.ClearValue)
	assert.Equal(t, wgpu.LoadOpClear, ds.DepthLoadOp)
	assert.Equal(t, float32(1), ds.DepthClearValue)
	assert.Equal(t, wgpu.LoadOpClear, ds.StencilLoadOp)
	assert.Equal(t, uint32(3), ds.StencilClearValue)
}

func TestApplyFrameClearWithoutBackgroundStillResetsDepth(t *testing.T) {
	desc := newPassDescriptor()
	applyFrameClear(desc, frameClear{pending: true, depth: 0.5, stencil: 7})
	applyFrameClear(desc, frameClear{})

	ca, ds := desc.ColorAttachments[0], desc.DepthStencilAttachment
	assert.Equal(t, wgpu.LoadOpLoad, ca.LoadOp)
	assert.Equal(t, wgpu.LoadOpClear, ds.DepthLoadOp)
	assert.Equal(t, float32(1), ds.DepthClearValue)
	assert.Equal(t, wgpu.LoadOpClear, ds.StencilLoadOp)
	assert.Zero(t, ds.StencilClearValue)
}
