// Package view holds the per-object transform set handed to the technique
// layer: clip transform, world transform and normal transform.
package view

import (
	"github.com/Carmen-Shannon/oxy-phase/common"
)

// Info is the view information for one object in one frame. All matrices are
// column-major, matching the GPU parameter layout.
type Info struct {
	// Vertex transforms model space to clip space (projection * view * model).
	Vertex [16]float32
	// World transforms model space to world space.
	World [16]float32
	// Normal is the rotation part of the camera view, for shaders that light in view
	// space. The bundled lit programs light in world space and use World instead.
	Normal [9]float32
}

// New builds an Info from the camera and model transforms.
//
// Parameters:
//   - projection: the camera projection matrix
//   - viewMx: the camera view matrix
//   - model: the object's model (world) matrix
//
// Returns:
//   - Info: the composed view information
func New(projection, viewMx, model [16]float32) Info {
	return Info{
		Vertex: common.MulMVP(projection, viewMx, model),
		World:  model,
		Normal: common.Upper3(viewMx),
	}
}

// Depth returns the homogeneous-divide depth of the object's origin in clip
// space: W·Z / W·W of the clip transform (column w, rows z and w). It is
// only meaningful for ordering and is not a linear distance.
//
// Returns:
//   - float32: the sort depth
func (i Info) Depth() float32 {
	return i.Vertex[14] / i.Vertex[15]
}
