package drawstate

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// drawState is the implementation of the DrawState interface.
// It holds the fixed-function configuration a render pipeline is created with.
type drawState struct {
	// key uniquely identifies the state; two states with the same key must describe the same configuration
	key string

	depthCompare      wgpu.CompareFunction
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// DrawState defines the interface for the fixed-function state a draw is issued with:
// depth test and write, blending, culling and topology. DrawStates are immutable once built
// and are shared between every object drawn with the same technique variant.
type DrawState interface {
	// Key returns the unique key associated with this state, used by renderers to cache
	// one GPU pipeline per program and state.
	//
	// Returns:
	//   - string: the unique key for this state
	Key() string

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the depth test function
	DepthCompare() wgpu.CompareFunction

	// DepthWriteEnabled returns whether depth writing is enabled.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// BlendState returns the blend state, nil if blending is disabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state or nil
	BlendState() *wgpu.BlendState

	// CullMode returns the face cull mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask
	WriteMask() wgpu.ColorWriteMask
}

var _ DrawState = &drawState{}

// NewDrawState is the entry point to create a new DrawState. Defaults are a less-equal depth
// test with depth writes, no blending, no culling and CCW triangle lists.
//
// Parameters:
//   - key: the unique key for this state
//   - opts: a variadic list of DrawStateBuilderOption functions to configure the state
//
// Returns:
//   - DrawState: a new DrawState instance
func NewDrawState(key string, opts ...DrawStateBuilderOption) DrawState {
	s := &drawState{
		key:               key,
		depthCompare:      wgpu.CompareFunctionLessEqual,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *drawState) Key() string {
	return s.key
}

func (s *drawState) DepthCompare() wgpu.CompareFunction {
	return s.depthCompare
}

func (s *drawState) DepthWriteEnabled() bool {
	return s.depthWriteEnabled
}

func (s *drawState) BlendEnabled() bool {
	return s.blendEnabled
}

func (s *drawState) BlendState() *wgpu.BlendState {
	if !s.blendEnabled {
		return nil
	}
	return s.blendState
}

func (s *drawState) CullMode() wgpu.CullMode {
	return s.cullMode
}

func (s *drawState) Topology() wgpu.PrimitiveTopology {
	return s.topology
}

func (s *drawState) FrontFace() wgpu.FrontFace {
	return s.frontFace
}

func (s *drawState) WriteMask() wgpu.ColorWriteMask {
	return s.writeMask
}
