package phase

import (
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
)

// PhaseBuilderOption is a function that configures a Phase during construction.
type PhaseBuilderOption func(*phase)

// WithOrder overrides the flavor's draw order.
//
// Parameters:
//   - o: the order function; nil keeps the default
//
// Returns:
//   - PhaseBuilderOption: a function that applies the order option
func WithOrder(o Order) PhaseBuilderOption {
	return func(p *phase) {
		if o != nil {
			p.order = o
		}
	}
}

// WithCache shares an existing compile cache with the phase. The cache must have been
// created over the same technique.
//
// Parameters:
//   - c: the cache
//
// Returns:
//   - PhaseBuilderOption: a function that applies the cache option
func WithCache(c *technique.Cache) PhaseBuilderOption {
	return func(p *phase) {
		p.cache = c
	}
}

// WithRefineWorkers sets how many pool workers refine parameters in parallel.
// Values below 2 keep refinement on the calling goroutine.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - PhaseBuilderOption: a function that applies the worker option
func WithRefineWorkers(n int) PhaseBuilderOption {
	return func(p *phase) {
		p.refineWorkers = max(n, 1)
	}
}
