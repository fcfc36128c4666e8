package technique

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// TechniqueBuilderOption is a function that configures a Technique during construction.
type TechniqueBuilderOption func(*technique)

// WithAmbient sets the ambient color written into the parameters of forward flavors.
//
// Parameters:
//   - c: the ambient RGBA color
//
// Returns:
//   - TechniqueBuilderOption: a function that applies the ambient option
func WithAmbient(c common.ColorValue) TechniqueBuilderOption {
	return func(t *technique) {
		t.ambient = c
	}
}
