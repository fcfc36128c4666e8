package pipeline

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/phase"
)

// Entity is a drawable placed in the world by a model transform.
type Entity interface {
	phase.Drawable

	// Transform returns the column-major model matrix.
	Transform() [16]float32
}

// Scene supplies the entities and lights of a frame. The pipeline does not cull; every
// entity is classified.
type Scene interface {
	Entities() []Entity
	Lights() []light.Light
}

// Camera supplies the view and projection transforms of a frame.
type Camera interface {
	ViewMatrix() [16]float32
	ProjectionMatrix() [16]float32
}

// Status is the result of a submission as reported by the Target.
type Status struct {
	DrawCalls        int
	PipelineSwitches int
}

// Target receives the commands of a frame.
type Target interface {
	// Clear clears color, depth and stencil.
	//
	// Parameters:
	//   - color: the clear color
	//   - depth: the depth clear value
	//   - stencil: the stencil clear value
	//
	// Returns:
	//   - error: non-nil if the clear could not be recorded
	Clear(color common.ColorValue, depth float32, stencil uint32) error

	// UpdateLights writes the light payload into the light buffer.
	//
	// Parameters:
	//   - buf: the technique's light buffer
	//   - payload: the bytes to write and where
	//
	// Returns:
	//   - error: non-nil if the upload failed
	UpdateLights(buf common.Buffer, payload light.Payload) error

	// Submit draws the objects in the given order.
	//
	// Parameters:
	//   - objects: the sorted objects
	//
	// Returns:
	//   - Status: the submission result
	//   - error: non-nil if drawing failed
	Submit(objects []*phase.Object) (Status, error)
}

// FrameDiscarder is implemented by Targets that keep a Clear pending until Submit. Render
// calls DiscardFrame when a frame fails between the two.
type FrameDiscarder interface {
	DiscardFrame()
}
