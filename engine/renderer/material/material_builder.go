package material

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the RGBA surface color of the material.
//
// Parameters:
//   - color: the color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.ColorValue) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithTexture is an option builder that sets the diffuse texture handle.
//
// Parameters:
//   - tex: the texture handle created by a resource factory
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex common.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithTransparency is an option builder that sets the transparency classification.
//
// Parameters:
//   - t: the classification, built with Opaque, Cutout or Blend
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparency(t Transparency) MaterialBuilderOption {
	return func(m *material) {
		m.transparency = t
	}
}

// WithVisible is an option builder that sets whether entities using the material are drawn.
//
// Parameters:
//   - visible: false to hide the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the visibility option to a material
func WithVisible(visible bool) MaterialBuilderOption {
	return func(m *material) {
		m.visible = visible
	}
}
