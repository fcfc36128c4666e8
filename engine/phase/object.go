package phase

import (
	"cmp"

	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
)

// Drawable is anything the phase can classify: a mesh with a material.
type Drawable interface {
	Mesh() mesh.Capability
	Material() material.Material
}

// Object is one draw call accumulated for the current frame.
type Object struct {
	Kernel   technique.Kernel
	Depth    float32
	Params   technique.ParamBlock
	State    drawstate.DrawState
	Program  technique.Program
	Drawable Drawable
	View     view.Info
}

// Order compares two objects for draw order, cmp-style.
type Order func(a, b *Object) int

// FrontToBack orders objects by ascending depth.
func FrontToBack(a, b *Object) int {
	return cmp.Compare(a.Depth, b.Depth)
}

// BackToFront orders objects by descending depth.
func BackToFront(a, b *Object) int {
	return cmp.Compare(b.Depth, a.Depth)
}

// ForwardOrder draws opaque and cutout objects first, front to back, then blended
// objects back to front.
func ForwardOrder(a, b *Object) int {
	at, bt := a.Kernel.Transparent(), b.Kernel.Transparent()
	switch {
	case !at && !bt:
		return FrontToBack(a, b)
	case !at && bt:
		return -1
	case at && !bt:
		return 1
	default:
		return BackToFront(a, b)
	}
}

// OrderFor returns the draw order of a technique flavor.
//
// Parameters:
//   - f: the technique flavor
//
// Returns:
//   - Order: FrontToBack for flat, ForwardOrder otherwise
func OrderFor(f technique.Flavor) Order {
	if f == technique.FlavorFlat {
		return FrontToBack
	}
	return ForwardOrder
}
