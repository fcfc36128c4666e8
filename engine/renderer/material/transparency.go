package material

import "fmt"

// TransparencyMode identifies how a material's alpha is treated.
type TransparencyMode int

const (
	// TransparencyOpaque draws the surface fully opaque with no alpha test.
	TransparencyOpaque TransparencyMode = iota

	// TransparencyCutout discards fragments whose alpha falls below a threshold.
	// The surface still writes depth and sorts with opaque geometry.
	TransparencyCutout

	// TransparencyBlend composites the surface over what is already drawn
	// using a BlendMode. Blended surfaces are drawn back to front.
	TransparencyBlend
)

// String implements fmt.Stringer.
func (m TransparencyMode) String() string {
	switch m {
	case TransparencyOpaque:
		return "opaque"
	case TransparencyCutout:
		return "cutout"
	case TransparencyBlend:
		return "blend"
	default:
		return fmt.Sprintf("TransparencyMode(%d)", int(m))
	}
}

// BlendMode is the blend function applied to a TransparencyBlend material.
type BlendMode int

const (
	// BlendAlpha is classic over compositing: src*a + dst*(1-a).
	BlendAlpha BlendMode = iota

	// BlendAdd accumulates: src + dst.
	BlendAdd

	// BlendMultiply modulates the destination: src * dst.
	BlendMultiply

	// BlendInvert inverts the destination. No forward technique supports it.
	BlendInvert
)

// String implements fmt.Stringer.
func (b BlendMode) String() string {
	switch b {
	case BlendAlpha:
		return "alpha"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendInvert:
		return "invert"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(b))
	}
}

// Transparency is the transparency classification of a material. It is a
// small comparable value so it can be embedded in shader variant keys.
// Only the field matching Mode is meaningful; the constructors keep the
// others zeroed so equal classifications compare equal.
type Transparency struct {
	Mode      TransparencyMode
	Threshold uint8
	Blend     BlendMode
}

// Opaque returns the opaque classification.
func Opaque() Transparency {
	return Transparency{Mode: TransparencyOpaque}
}

// Cutout returns an alpha-test classification.
//
// Parameters:
//   - threshold: alpha cut value in 0..255; fragments below threshold/255 are discarded
//
// Returns:
//   - Transparency: the cutout classification
func Cutout(threshold uint8) Transparency {
	return Transparency{Mode: TransparencyCutout, Threshold: threshold}
}

// Blend returns a blended classification.
//
// Parameters:
//   - mode: the blend function
//
// Returns:
//   - Transparency: the blend classification
func Blend(mode BlendMode) Transparency {
	return Transparency{Mode: TransparencyBlend, Blend: mode}
}

// IsBlended reports whether the classification composites over the target.
func (t Transparency) IsBlended() bool {
	return t.Mode == TransparencyBlend
}

// String implements fmt.Stringer.
func (t Transparency) String() string {
	switch t.Mode {
	case TransparencyCutout:
		return fmt.Sprintf("cutout(%d)", t.Threshold)
	case TransparencyBlend:
		return fmt.Sprintf("blend(%s)", t.Blend)
	default:
		return t.Mode.String()
	}
}
