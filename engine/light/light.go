package light

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// Kind identifies the emission shape of a light source.
type Kind int

const (
	// KindOmni emits in all directions from its position.
	KindOmni Kind = iota

	// KindHemi emits over the hemisphere facing its view direction.
	KindHemi

	// KindDirected emits in a cone along its view direction.
	KindDirected
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	kind        Kind
	active      bool
	color       common.ColorValue
	attenuation Attenuation
	position    [4]float32
	view        [16]float32
}

// Light defines the interface for a point light source in the scene.
//
// Lights are owned by the scene. The render pipeline only reads them once per
// frame to fill the shared light buffer and to build each object's light mask;
// inactive lights are skipped by both.
type Light interface {
	// Kind returns the emission shape of the light.
	//
	// Returns:
	//   - Kind: omni, hemi or directed
	Kind() Kind

	// Active returns whether this light contributes to the current frame.
	//
	// Returns:
	//   - bool: true if the light is active
	Active() bool

	// Color returns the RGBA color of the light.
	//
	// Returns:
	//   - common.ColorValue: the light color
	Color() common.ColorValue

	// Attenuation returns the distance attenuation model of the light.
	//
	// Returns:
	//   - Attenuation: Constant, Quadratic or Spherical
	Attenuation() Attenuation

	// Position returns the homogeneous world-space position. A w of 0 denotes
	// a light infinitely far away along (x, y, z).
	//
	// Returns:
	//   - [4]float32: position as (x, y, z, w)
	Position() [4]float32

	// View returns the light's view transform (column-major), used by
	// directed and hemi lights to orient their emission.
	//
	// Returns:
	//   - [16]float32: the view matrix
	View() [16]float32

	// SetActive enables or disables the light.
	//
	// Parameters:
	//   - active: true to enable
	SetActive(active bool)

	// SetColor sets the RGBA color of the light.
	//
	// Parameters:
	//   - color: the light color
	SetColor(color common.ColorValue)

	// SetAttenuation replaces the attenuation model.
	//
	// Parameters:
	//   - a: the attenuation model; nil is replaced by Constant{Intensity: 1}
	SetAttenuation(a Attenuation)

	// SetPosition sets the homogeneous world-space position.
	//
	// Parameters:
	//   - x, y, z, w: position components
	SetPosition(x, y, z, w float32)

	// SetView sets the light's view transform.
	//
	// Parameters:
	//   - m: the column-major view matrix
	SetView(m [16]float32)
}

var _ Light = &lightImpl{}

// NewLight creates a new active Light of the given kind with white color, unit
// constant attenuation and a position at the origin, then applies options.
//
// Parameters:
//   - kind: the emission shape
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(kind Kind, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		kind:        kind,
		active:      true,
		color:       common.ColorValue{1, 1, 1, 1},
		attenuation: Constant{Intensity: 1},
		position:    [4]float32{0, 0, 0, 1},
		view:        common.Identity4(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Kind() Kind {
	return l.kind
}

func (l *lightImpl) Active() bool {
	return l.active
}

func (l *lightImpl) Color() common.ColorValue {
	return l.color
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) Position() [4]float32 {
	return l.position
}

func (l *lightImpl) View() [16]float32 {
	return l.view
}

func (l *lightImpl) SetActive(active bool) {
	l.active = active
}

func (l *lightImpl) SetColor(color common.ColorValue) {
	l.color = color
}

func (l *lightImpl) SetAttenuation(a Attenuation) {
	if a == nil {
		a = Constant{Intensity: 1}
	}
	l.attenuation = a
}

func (l *lightImpl) SetPosition(x, y, z, w float32) {
	l.position = [4]float32{x, y, z, w}
}

func (l *lightImpl) SetView(m [16]float32) {
	l.view = m
}
