package material

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// material is the implementation of the Material interface.
type material struct {
	name         string
	color        common.ColorValue
	texture      common.Texture
	transparency Transparency
	visible      bool
}

// Material defines the interface for a render material: the surface color,
// an optional texture and the transparency classification that decides which
// shader variant and blend state draw it.
//
// Materials are owned by the scene and are immutable once built. The render
// pipeline borrows them for the duration of a frame and never mutates them,
// so a Material may be shared by any number of entities.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the RGBA surface color.
	//
	// Returns:
	//   - common.ColorValue: the color as RGBA values
	Color() common.ColorValue

	// Texture retrieves the diffuse texture handle, or nil if the material is untextured.
	//
	// Returns:
	//   - common.Texture: the texture handle, or nil
	Texture() common.Texture

	// Transparency retrieves the transparency classification.
	//
	// Returns:
	//   - Transparency: opaque, cutout or blend
	Transparency() Transparency

	// Visible reports whether entities using this material are drawn at all.
	//
	// Returns:
	//   - bool: false hides every entity using the material
	Visible() bool
}

var _ Material = &material{}

// NewMaterial creates a new Material configured with the provided options.
// Defaults: opaque white, untextured, visible.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:        common.ColorValue{1, 1, 1, 1},
		transparency: Opaque(),
		visible:      true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.ColorValue {
	return m.color
}

func (m *material) Texture() common.Texture {
	return m.texture
}

func (m *material) Transparency() Transparency {
	return m.transparency
}

func (m *material) Visible() bool {
	return m.visible
}
