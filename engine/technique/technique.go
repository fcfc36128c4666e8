package technique

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
)

// DefaultAmbient is the ambient color used by the forward flavors unless overridden.
var DefaultAmbient = common.ColorValue{0.1, 0.1, 0.1, 0}

// Compiled is the immutable result of compiling a Kernel: the program to draw with,
// parameter defaults and the draw state.
type Compiled struct {
	Program Program
	Params  ParamBlock
	State   drawstate.DrawState
}

// technique is the implementation of the Technique interface.
type technique struct {
	flavor          Flavor
	program         Program
	programTextured Program
	defaultTexture  common.Texture
	lightBuffer     common.Buffer
	ambient         common.ColorValue
}

// Technique decides how each (mesh, material) pair is drawn. Classify, Compile and Refine
// are pure with respect to the technique and safe for concurrent use.
type Technique interface {
	// Flavor returns the flavor the technique was created with.
	//
	// Returns:
	//   - Flavor: the technique flavor
	Flavor() Flavor

	// Classify maps a mesh and material to a Kernel.
	//
	// Parameters:
	//   - m: the vertex attribute set of the mesh
	//   - mat: the material
	//
	// Returns:
	//   - Kernel: the variant key
	//   - bool: false if the pair is not drawable by this technique
	Classify(m mesh.Capability, mat material.Material) (Kernel, bool)

	// Compile expands a Kernel into its program, parameter defaults and draw state.
	// Equal kernels compile to equal results.
	//
	// Parameters:
	//   - k: the kernel
	//
	// Returns:
	//   - Compiled: the compiled variant
	Compile(k Kernel) Compiled

	// Refine writes the per-object parameters into params, which must start as a copy
	// of the compiled defaults. It never allocates and never fails.
	//
	// Parameters:
	//   - mat: the object's material
	//   - info: the object's view transforms
	//   - frame: the frame's light state, nil when the flavor is unlit
	//   - params: the block to refine
	Refine(mat material.Material, info *view.Info, frame *light.Frame, params *ParamBlock)

	// DefaultTexture returns the 1x1 white texture bound when a material has none.
	//
	// Returns:
	//   - common.Texture: the default texture
	DefaultTexture() common.Texture

	// LightBuffer returns the light storage buffer, nil for unlit flavors.
	//
	// Returns:
	//   - common.Buffer: the light buffer or nil
	LightBuffer() common.Buffer

	// Ambient returns the ambient color written by forward flavors.
	//
	// Returns:
	//   - common.ColorValue: the ambient color
	Ambient() common.ColorValue
}

var _ Technique = &technique{}

// New creates a Technique, linking its programs and creating its default texture and,
// for lit flavors, the light buffer through factory.
//
// Parameters:
//   - factory: the resource factory
//   - flavor: the technique flavor
//   - opts: variadic list of TechniqueBuilderOption functions
//
// Returns:
//   - Technique: the technique
//   - error: ErrProgramLinkFailed, ErrTextureCreationFailed or ErrBufferCreationFailed
func New(factory Factory, flavor Flavor, opts ...TechniqueBuilderOption) (Technique, error) {
	t := &technique{
		flavor:  flavor,
		ambient: DefaultAmbient,
	}
	for _, opt := range opts {
		opt(t)
	}

	tex, err := factory.CreateTextureRGBA8("default_white", 1, 1, []uint32{0xFFFFFFFF})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTextureCreationFailed, err)
	}
	t.defaultTexture = tex

	plain, textured, err := ProgramSources(flavor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProgramLinkFailed, err)
	}
	if t.program, err = factory.LinkProgram(plain); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProgramLinkFailed, plain.Label, err)
	}
	if t.programTextured, err = factory.LinkProgram(textured); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProgramLinkFailed, textured.Label, err)
	}

	if flavor.Lit() {
		buf, err := factory.CreateStorageBuffer("lights", light.MaxLights*light.GPULightSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBufferCreationFailed, err)
		}
		t.lightBuffer = buf
	}

	common.Logger().Debug("technique created", "flavor", flavor.String())
	return t, nil
}

func (t *technique) Flavor() Flavor {
	return t.flavor
}

func (t *technique) DefaultTexture() common.Texture {
	return t.defaultTexture
}

func (t *technique) LightBuffer() common.Buffer {
	return t.lightBuffer
}

func (t *technique) Ambient() common.ColorValue {
	return t.ambient
}

func (t *technique) Classify(m mesh.Capability, mat material.Material) (Kernel, bool) {
	if mat == nil || !mat.Visible() {
		return Kernel{}, false
	}
	textured := mat.Texture() != nil && m.HasTexCoord()
	tr := mat.Transparency()

	if t.flavor == FlavorFlat {
		switch {
		case tr.Mode == material.TransparencyOpaque:
			return Kernel{Textured: textured, Transparency: tr}, true
		case tr.Mode == material.TransparencyCutout && textured:
			return Kernel{Textured: true, Transparency: tr}, true
		default:
			return Kernel{}, false
		}
	}

	switch tr.Mode {
	case material.TransparencyOpaque, material.TransparencyCutout:
	case material.TransparencyBlend:
		// Invert and unknown modes have no blend state.
		if _, ok := blendState(tr.Blend); !ok {
			return Kernel{}, false
		}
	default:
		return Kernel{}, false
	}
	return Kernel{Textured: textured, Transparency: tr}, true
}

// blendState returns the draw state of a blend mode, false when no forward technique can draw it.
func blendState(mode material.BlendMode) (drawstate.DrawState, bool) {
	switch mode {
	case material.BlendAdd:
		return drawstate.Add(), true
	case material.BlendAlpha:
		return drawstate.Alpha(), true
	case material.BlendMultiply:
		return drawstate.Multiply(), true
	default:
		return nil, false
	}
}

func (t *technique) Compile(k Kernel) Compiled {
	c := Compiled{
		Program: t.program,
		Params: ParamBlock{
			Texture: t.defaultTexture,
			Lights:  t.lightBuffer,
		},
		State: drawstate.Opaque(),
	}
	if k.Textured {
		c.Program = t.programTextured
	}
	if k.Transparency.Mode == material.TransparencyCutout {
		c.Params.AlphaTest = float32(k.Transparency.Threshold) / 255
	}
	if k.Transparency.Mode == material.TransparencyBlend {
		if state, ok := blendState(k.Transparency.Blend); ok {
			c.State = state
		}
	}
	return c
}

func (t *technique) Refine(mat material.Material, info *view.Info, frame *light.Frame, params *ParamBlock) {
	params.MVP = info.Vertex
	params.Color = mat.Color()
	if tex := mat.Texture(); tex != nil {
		params.Texture = tex
	}
	if t.flavor == FlavorFlat {
		return
	}
	params.World = info.World
	params.Normal = info.Normal
	params.Ambient = t.ambient
	if t.flavor.Lit() && frame != nil {
		params.LightMask = frame.Mask
	}
}
