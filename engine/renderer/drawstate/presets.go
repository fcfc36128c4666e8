package drawstate

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Blend presets. Color and alpha channels are configured separately.
var (
	// BlendAdd adds the source onto the destination.
	BlendAdd = &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}

	// BlendAlpha is classic source-over blending.
	BlendAlpha = &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
	}

	// BlendMultiply multiplies the destination by the source.
	BlendMultiply = &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorDst, DstFactor: wgpu.BlendFactorZero, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorDstAlpha, DstFactor: wgpu.BlendFactorZero, Operation: wgpu.BlendOperationAdd},
	}
)

// Shared states. All of them test depth with LessEqual and write depth, blended ones included.
var (
	opaqueState   = NewDrawState("opaque")
	addState      = NewDrawState("blend-add", WithBlendState(BlendAdd))
	alphaState    = NewDrawState("blend-alpha", WithBlendState(BlendAlpha))
	multiplyState = NewDrawState("blend-multiply", WithBlendState(BlendMultiply))
)

// Opaque returns the shared state used for opaque and cutout objects.
//
// Returns:
//   - DrawState: depth LessEqual with writes, no blending
func Opaque() DrawState { return opaqueState }

// Add returns the shared additive blending state.
//
// Returns:
//   - DrawState: depth LessEqual with writes, additive blending
func Add() DrawState { return addState }

// Alpha returns the shared alpha blending state.
//
// Returns:
//   - DrawState: depth LessEqual with writes, source-over blending
func Alpha() DrawState { return alphaState }

// Multiply returns the shared multiplicative blending state.
//
// Returns:
//   - DrawState: depth LessEqual with writes, multiplicative blending
func Multiply() DrawState { return multiplyState }
