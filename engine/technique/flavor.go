package technique

import "fmt"

// Flavor selects the shading programs, the parameter subset refined per object and
// the draw order of a technique.
type Flavor int

const (
	// FlavorFlat draws unlit opaque and cutout objects front to back. Blended
	// materials are not drawable.
	FlavorFlat Flavor = iota

	// FlavorForward draws lit objects in a single pass: opaque-like front to back,
	// then blended back to front. Every blend mode except Invert is drawable.
	FlavorForward

	// FlavorForwardUnlit orders and blends like FlavorForward with flat shading and
	// no light buffer.
	FlavorForwardUnlit
)

// String implements fmt.Stringer.
func (f Flavor) String() string {
	switch f {
	case FlavorFlat:
		return "flat"
	case FlavorForward:
		return "forward"
	case FlavorForwardUnlit:
		return "forward-unlit"
	default:
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
}

// Lit reports whether the flavor consumes the light buffer and light masks.
func (f Flavor) Lit() bool {
	return f == FlavorForward
}

// Blending reports whether the flavor can draw blended materials.
func (f Flavor) Blending() bool {
	return f == FlavorForward || f == FlavorForwardUnlit
}

// ParseFlavor parses the String form of a Flavor.
//
// Parameters:
//   - s: "flat", "forward" or "forward-unlit"
//
// Returns:
//   - Flavor: the parsed flavor
//   - error: non-nil for unknown names
func ParseFlavor(s string) (Flavor, error) {
	switch s {
	case "flat":
		return FlavorFlat, nil
	case "forward", "":
		return FlavorForward, nil
	case "forward-unlit":
		return FlavorForwardUnlit, nil
	default:
		return 0, fmt.Errorf("unknown technique flavor %q", s)
	}
}
