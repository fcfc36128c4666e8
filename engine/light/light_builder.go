package light

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithActive is an option builder that sets whether the light is active.
//
// Parameters:
//   - active: false to create the light disabled
//
// Returns:
//   - LightBuilderOption: a function that applies the active option to a lightImpl
func WithActive(active bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.active = active
	}
}

// WithColor is an option builder that sets the RGBA color of the light.
//
// Parameters:
//   - color: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(color common.ColorValue) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithAttenuation is an option builder that sets the attenuation model.
//
// Parameters:
//   - a: Constant, Quadratic or Spherical
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(a Attenuation) LightBuilderOption {
	return func(l *lightImpl) {
		if a != nil {
			l.attenuation = a
		}
	}
}

// WithPosition is an option builder that sets the homogeneous world-space position.
//
// Parameters:
//   - x, y, z, w: position components (w = 1 for positional lights)
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z, w float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [4]float32{x, y, z, w}
	}
}

// WithView is an option builder that sets the light's view transform.
//
// Parameters:
//   - m: the column-major view matrix
//
// Returns:
//   - LightBuilderOption: a function that applies the view option to a lightImpl
func WithView(m [16]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.view = m
	}
}
