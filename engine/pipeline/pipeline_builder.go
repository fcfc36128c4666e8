package pipeline

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
)

// PipelineBuilderOption is a function that configures a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithFlavor selects the technique flavor. The default is technique.FlavorForward.
//
// Parameters:
//   - f: the flavor
//
// Returns:
//   - PipelineBuilderOption: a function that applies the flavor option
func WithFlavor(f technique.Flavor) PipelineBuilderOption {
	return func(p *pipeline) {
		p.flavor = f
	}
}

// WithBackground sets the clear color. The default clears to transparent black.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - PipelineBuilderOption: a function that applies the background option
func WithBackground(c common.ColorValue) PipelineBuilderOption {
	return func(p *pipeline) {
		p.background = c
		p.hasBackground = true
	}
}

// WithoutBackground disables clearing.
//
// Returns:
//   - PipelineBuilderOption: a function that disables the background clear
func WithoutBackground() PipelineBuilderOption {
	return func(p *pipeline) {
		p.hasBackground = false
	}
}

// WithAmbient sets the ambient color of forward flavors.
//
// Parameters:
//   - c: the ambient color
//
// Returns:
//   - PipelineBuilderOption: a function that applies the ambient option
func WithAmbient(c common.ColorValue) PipelineBuilderOption {
	return func(p *pipeline) {
		p.ambient = c
	}
}

// WithSlotPolicy sets how active lights map to light buffer slots.
//
// Parameters:
//   - policy: the slot policy
//
// Returns:
//   - PipelineBuilderOption: a function that applies the slot policy option
func WithSlotPolicy(policy light.SlotPolicy) PipelineBuilderOption {
	return func(p *pipeline) {
		p.slotPolicy = policy
	}
}

// WithRefineWorkers sets how many workers refine object parameters in parallel.
//
// Parameters:
//   - n: the worker count; values below 2 refine on the render goroutine
//
// Returns:
//   - PipelineBuilderOption: a function that applies the worker option
func WithRefineWorkers(n int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.refineWorkers = n
	}
}
