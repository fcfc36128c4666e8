package drawstate

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawStateBuilderOption is a functional option used to configure a DrawState during construction.
type DrawStateBuilderOption func(*drawState)

// WithDepth sets the depth comparison function and whether depth is written.
//
// Parameters:
//   - compare: the depth test function
//   - write: true to enable depth writes
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the depth configuration
func WithDepth(compare wgpu.CompareFunction, write bool) DrawStateBuilderOption {
	return func(s *drawState) {
		s.depthCompare = compare
		s.depthWriteEnabled = write
	}
}

// WithBlendState enables blending with the given state. A nil state disables blending.
//
// Parameters:
//   - b: the blend state
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the blend state
func WithBlendState(b *wgpu.BlendState) DrawStateBuilderOption {
	return func(s *drawState) {
		s.blendState = b
		s.blendEnabled = b != nil
	}
}

// WithCullMode sets the face cull mode.
//
// Parameters:
//   - mode: the cull mode (e.g., wgpu.CullModeBack)
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the cull mode
func WithCullMode(mode wgpu.CullMode) DrawStateBuilderOption {
	return func(s *drawState) {
		s.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
//
// Parameters:
//   - t: the primitive topology
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the topology
func WithTopology(t wgpu.PrimitiveTopology) DrawStateBuilderOption {
	return func(s *drawState) {
		s.topology = t
	}
}

// WithFrontFace sets the front face winding order.
//
// Parameters:
//   - f: the winding order
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the front face
func WithFrontFace(f wgpu.FrontFace) DrawStateBuilderOption {
	return func(s *drawState) {
		s.frontFace = f
	}
}

// WithWriteMask sets the color write mask.
//
// Parameters:
//   - m: the color write mask
//
// Returns:
//   - DrawStateBuilderOption: a function that sets the write mask
func WithWriteMask(m wgpu.ColorWriteMask) DrawStateBuilderOption {
	return func(s *drawState) {
		s.writeMask = m
	}
}
