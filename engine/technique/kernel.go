package technique

import (
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
)

// Kernel is the variant key of a technique: the program choice plus the
// transparency treatment. It is comparable and used as the compile cache key.
//
// For FlavorFlat the only kernels produced are Flat {false, Opaque},
// Textured {true, Opaque} and AlphaCut {true, Cutout(t)}.
type Kernel struct {
	Textured     bool
	Transparency material.Transparency
}

// Transparent reports whether objects of this kernel are drawn with blending.
func (k Kernel) Transparent() bool {
	return k.Transparency.IsBlended()
}

// String implements fmt.Stringer.
func (k Kernel) String() string {
	if k.Textured {
		return "textured/" + k.Transparency.String()
	}
	return "plain/" + k.Transparency.String()
}
