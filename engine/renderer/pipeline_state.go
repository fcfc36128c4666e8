package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phase/engine/model"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// paramStride is the distance between two objects' blocks in the param buffer. Dynamic
	// uniform offsets must be multiples of minUniformBufferOffsetAlignment (256 by default).
	paramStride = 256

	// depthFormat carries a stencil aspect so Clear can honor the stencil value.
	depthFormat = wgpu.TextureFormatDepth24PlusStencil8
)

// pipelineKey identifies one render pipeline: a program drawn under a draw state.
type pipelineKey struct {
	program *gpuProgram
	state   string
}

// paramsLayoutDescriptor describes group 0: the per-object ParamBlock behind a dynamic
// offset and, for lit programs, the light buffer.
func paramsLayoutDescriptor(lit bool) wgpu.BindGroupLayoutDescriptor {
	entries := []wgpu.BindGroupLayoutEntry{{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:             wgpu.BufferBindingTypeUniform,
			HasDynamicOffset: true,
			MinBindingSize:   technique.ParamBlockSize,
		},
	}}
	label := "Params Layout"
	if lit {
		label = "Lit Params Layout"
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    1,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeReadOnlyStorage,
			},
		})
	}
	return wgpu.BindGroupLayoutDescriptor{Label: label, Entries: entries}
}

// textureLayoutDescriptor describes group 1: the diffuse texture and its sampler.
func textureLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// validateProgram checks a reflected module against the layouts the renderer binds and
// reports whether it reads the light buffer.
//
// Parameters:
//   - s: the reflected module
//
// Returns:
//   - bool: true if the module declares the light buffer
//   - error: a description of the first mismatch
func validateProgram(s shader.Shader) (bool, error) {
	layout, ok := s.VertexLayout()
	if !ok {
		return false, fmt.Errorf("%s: no vertex input struct", s.Key())
	}
	if layout.ArrayStride != model.VertexSize {
		return false, fmt.Errorf("%s: vertex stride %d, want %d", s.Key(), layout.ArrayStride, model.VertexSize)
	}

	params, ok := s.Binding(0, 0)
	if !ok || params.Entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
		return false, fmt.Errorf("%s: group 0 binding 0 must be the params uniform", s.Key())
	}
	if params.Entry.Buffer.MinBindingSize != technique.ParamBlockSize {
		return false, fmt.Errorf("%s: params is %d bytes, want %d", s.Key(), params.Entry.Buffer.MinBindingSize, technique.ParamBlockSize)
	}

	lit := false
	for _, b := range s.Bindings() {
		switch {
		case b.Group == 0 && b.Binding == 0:
		case b.Group == 0 && b.Binding == 1:
			if b.Entry.Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
				return false, fmt.Errorf("%s: group 0 binding 1 must be read-only storage", s.Key())
			}
			lit = true
		case b.Group == 1 && b.Binding == 0:
			if b.Entry.Texture.SampleType != wgpu.TextureSampleTypeFloat {
				return false, fmt.Errorf("%s: group 1 binding 0 must be a float texture", s.Key())
			}
		case b.Group == 1 && b.Binding == 1:
			if b.Entry.Sampler.Type != wgpu.SamplerBindingTypeFiltering {
				return false, fmt.Errorf("%s: group 1 binding 1 must be a filtering sampler", s.Key())
			}
		default:
			return false, fmt.Errorf("%s: unexpected binding %s at group %d binding %d", s.Key(), b.Name, b.Group, b.Binding)
		}
	}
	return lit, nil
}

// colorTargetState maps a draw state onto the single color target.
func colorTargetState(format wgpu.TextureFormat, state drawstate.DrawState) wgpu.ColorTargetState {
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: state.WriteMask(),
	}
	if state.BlendEnabled() {
		target.Blend = state.BlendState()
	}
	return target
}

// primitiveState maps a draw state onto primitive assembly.
func primitiveState(state drawstate.DrawState) wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  state.Topology(),
		FrontFace: state.FrontFace(),
		CullMode:  state.CullMode(),
	}
}

// depthStencilState maps a draw state onto the depth test. The stencil test is always off.
func depthStencilState(state drawstate.DrawState) *wgpu.DepthStencilState {
	return &wgpu.DepthStencilState{
		Format:            depthFormat,
		DepthWriteEnabled: state.DepthWriteEnabled(),
		DepthCompare:      state.DepthCompare(),
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

// paramCapacity returns the number of object slots to allocate for n objects: the next
// power of two, at least minimum.
func paramCapacity(n, minimum int) int {
	c := max(minimum, 1)
	for c < n {
		c *= 2
	}
	return c
}

// frameClear is the clear request recorded by Clear for the next frame.
type frameClear struct {
	pending bool
	color   wgpu.Color
	depth   float32
	stencil uint32
}

// applyFrameClear sets the load operations and clear values of a frame's pass. Depth and
// stencil are cleared every frame; color is cleared only when requested, otherwise the frame
// draws over the previous contents.
//
// Parameters:
//   - desc: the render pass descriptor of the frame
//   - c: the clear request, zero when Clear was not called
func applyFrameClear(desc *wgpu.RenderPassDescriptor, c frameClear) {
	ca := &desc.ColorAttachments[0]
	ds := desc.DepthStencilAttachment

	ca.LoadOp = wgpu.LoadOpLoad
	ds.DepthLoadOp = wgpu.LoadOpClear
	ds.DepthClearValue = 1
	ds.StencilLoadOp = wgpu.LoadOpClear
	ds.StencilClearValue = 0
	if !c.pending {
		return
	}
	ca.LoadOp = wgpu.LoadOpClear
	ca.ClearValue = c.color
	ds.DepthClearValue = c.depth
	ds.StencilClearValue = c.stencil
}
