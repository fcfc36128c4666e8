package technique

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	label string
	size  uint64
}

func (h *fakeHandle) Label() string { return h.label }
func (h *fakeHandle) Size() uint64  { return h.size }

type fakeFactory struct {
	mu         sync.Mutex
	linked     []string
	textureErr error
	linkErr    error
	bufferErr  error
}

func (f *fakeFactory) LinkProgram(src ProgramSource) (Program, error) {
	if f.linkErr != nil {
		return nil, f.linkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linked = append(f.linked, src.Label)
	return &fakeHandle{label: src.Label}, nil
}

func (f *fakeFactory) CreateTextureRGBA8(label string, w, h uint32, pixels []uint32) (common.Texture, error) {
	if f.textureErr != nil {
		return nil, f.textureErr
	}
	return &fakeHandle{label: label}, nil
}

func (f *fakeFactory) CreateStorageBuffer(label string, size uint64) (common.Buffer, error) {
	if f.bufferErr != nil {
		return nil, f.bufferErr
	}
	return &fakeHandle{label: label, size: size}, nil
}

var (
	uvMesh    = mesh.NewCapability(mesh.AttribPosition, mesh.AttribNormal, mesh.AttribTexCoord0)
	plainMesh = mesh.NewCapability(mesh.AttribPosition, mesh.AttribNormal)
	diffuse   = &fakeHandle{label: "diffuse"}
)

func newTechnique(t *testing.T, flavor Flavor, opts ...TechniqueBuilderOption) Technique {
	t.Helper()
	tech, err := New(&fakeFactory{}, flavor, opts...)
	require.NoError(t, err)
	return tech
}

func TestNewLinksProgramsPerFlavor(t *testing.T) {
	tests := []struct {
		flavor Flavor
		linked []string
		lit    bool
	}{
		{FlavorFlat, []string{"flat", "flat_tex"}, false},
		{FlavorForward, []string{"phong", "phong_tex"}, true},
		{FlavorForwardUnlit, []string{"flat", "flat_tex"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.flavor.String(), func(t *testing.T) {
			f := &fakeFactory{}
			tech, err := New(f, tt.flavor)
			require.NoError(t, err)

			assert.Equal(t, tt.linked, f.linked)
			assert.Equal(t, "default_white", tech.DefaultTexture().Label())
			if tt.lit {
				require.NotNil(t, tech.LightBuffer())
				assert.Equal(t, uint64(light.MaxLights*light.GPULightSize), tech.LightBuffer().Size())
			} else {
				assert.Nil(t, tech.LightBuffer())
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	cause := errors.New("device lost")

	_, err := New(&fakeFactory{textureErr: cause}, FlavorForward)
	assert.ErrorIs(t, err, ErrTextureCreationFailed)
	assert.ErrorIs(t, err, ErrResourceCreationFailed)
	assert.ErrorIs(t, err, cause)

	_, err = New(&fakeFactory{linkErr: cause}, FlavorForward)
	assert.ErrorIs(t, err, ErrProgramLinkFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrResourceCreationFailed)

	_, err = New(&fakeFactory{bufferErr: cause}, FlavorForward)
	assert.ErrorIs(t, err, ErrBufferCreationFailed)

	_, err = New(&fakeFactory{bufferErr: cause}, FlavorFlat)
	assert.NoError(t, err)
}

func TestClassifyForward(t *testing.T) {
	tech := newTechnique(t, FlavorForward)

	tests := []struct {
		name string
		mesh mesh.Capability
		mat  material.Material
		want Kernel
		ok   bool
	}{
		{"opaque plain", plainMesh, material.NewMaterial(), Kernel{false, material.Opaque()}, true},
		{"texture without uv", plainMesh, material.NewMaterial(material.WithTexture(diffuse)), Kernel{false, material.Opaque()}, true},
		{"textured", uvMesh, material.NewMaterial(material.WithTexture(diffuse)), Kernel{true, material.Opaque()}, true},
		{"uv without texture", uvMesh, material.NewMaterial(), Kernel{false, material.Opaque()}, true},
		{"cutout", uvMesh, material.NewMaterial(material.WithTransparency(material.Cutout(128))), Kernel{false, material.Cutout(128)}, true},
		{"alpha blend", uvMesh, material.NewMaterial(material.WithTransparency(material.Blend(material.BlendAlpha))), Kernel{false, material.Blend(material.BlendAlpha)}, true},
		{"invert", uvMesh, material.NewMaterial(material.WithTransparency(material.Blend(material.BlendInvert))), Kernel{}, false},
		{"unknown blend mode", uvMesh, material.NewMaterial(material.WithTransparency(material.Blend(material.BlendMode(7)))), Kernel{}, false},
		{"unknown transparency mode", uvMesh, material.NewMaterial(material.WithTransparency(material.Transparency{Mode: material.TransparencyMode(9)})), Kernel{}, false},
		{"invisible", uvMesh, material.NewMaterial(material.WithVisible(false)), Kernel{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := tech.Classify(tt.mesh, tt.mat)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestClassifyFlat(t *testing.T) {
	tech := newTechnique(t, FlavorFlat)

	tests := []struct {
		name string
		mesh mesh.Capability
		mat  material.Material
		want Kernel
		ok   bool
	}{
		{"flat", plainMesh, material.NewMaterial(), Kernel{false, material.Opaque()}, true},
		{"textured", uvMesh, material.NewMaterial(material.WithTexture(diffuse)), Kernel{true, material.Opaque()}, true},
		{"alpha cut", uvMesh, material.NewMaterial(material.WithTexture(diffuse), material.WithTransparency(material.Cutout(64))), Kernel{true, material.Cutout(64)}, true},
		{"untextured cutout", uvMesh, material.NewMaterial(material.WithTransparency(material.Cutout(64))), Kernel{}, false},
		{"blend", uvMesh, material.NewMaterial(material.WithTexture(diffuse), material.WithTransparency(material.Blend(material.BlendAdd))), Kernel{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := tech.Classify(tt.mesh, tt.mat)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	tech := newTechnique(t, FlavorForward)
	mat := material.NewMaterial(material.WithTexture(diffuse), material.WithTransparency(material.Cutout(10)))

	first, _ := tech.Classify(uvMesh, mat)
	for range 10 {
		k, ok := tech.Classify(uvMesh, mat)
		require.True(t, ok)
		assert.Equal(t, first, k)
	}
}

func TestCompile(t *testing.T) {
	tech := newTechnique(t, FlavorForward)

	tests := []struct {
		name      string
		kernel    Kernel
		program   string
		state     drawstate.DrawState
		alphaTest float32
	}{
		{"opaque", Kernel{false, material.Opaque()}, "phong", drawstate.Opaque(), 0},
		{"textured opaque", Kernel{true, material.Opaque()}, "phong_tex", drawstate.Opaque(), 0},
		{"cutout", Kernel{true, material.Cutout(255)}, "phong_tex", drawstate.Opaque(), 1},
		{"cutout zero", Kernel{false, material.Cutout(0)}, "phong", drawstate.Opaque(), 0},
		{"add", Kernel{false, material.Blend(material.BlendAdd)}, "phong", drawstate.Add(), 0},
		{"alpha", Kernel{true, material.Blend(material.BlendAlpha)}, "phong_tex", drawstate.Alpha(), 0},
		{"multiply", Kernel{false, material.Blend(material.BlendMultiply)}, "phong", drawstate.Multiply(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tech.Compile(tt.kernel)
			assert.Equal(t, tt.program, c.Program.Label())
			assert.Same(t, tt.state, c.State)
			assert.Equal(t, tt.alphaTest, c.Params.AlphaTest)
			assert.Equal(t, tech.DefaultTexture(), c.Params.Texture)
			assert.Equal(t, tech.LightBuffer(), c.Params.Lights)
			assert.Zero(t, c.Params.MVP)
			assert.Zero(t, c.Params.Color)
			assert.Zero(t, c.Params.LightMask)
		})
	}

	c := tech.Compile(Kernel{true, material.Cutout(128)})
	assert.InDelta(t, 128.0/255.0, c.Params.AlphaTest, 1e-7)
}

func TestCompileIsDeterministic(t *testing.T) {
	tech := newTechnique(t, FlavorForward)
	k := Kernel{true, material.Blend(material.BlendAlpha)}
	assert.Equal(t, tech.Compile(k), tech.Compile(k))
}

func TestRefineForward(t *testing.T) {
	tech := newTechnique(t, FlavorForward, WithAmbient(common.ColorValue{0.2, 0.2, 0.2, 1}))
	mat := material.NewMaterial(material.WithColor(common.ColorValue{1, 0, 0, 1}), material.WithTexture(diffuse))
	info := view.New(common.Identity4(), common.Translation(0, 0, -5), common.Identity4())
	frame := &light.Frame{Mask: light.Mask{0x0201}}

	params := tech.Compile(Kernel{true, material.Opaque()}).Params
	tech.Refine(mat, &info, frame, &params)

	assert.Equal(t, info.Vertex, params.MVP)
	assert.Equal(t, info.World, params.World)
	assert.Equal(t, info.Normal, params.Normal)
	assert.Equal(t, common.ColorValue{1, 0, 0, 1}, params.Color)
	assert.Equal(t, common.ColorValue{0.2, 0.2, 0.2, 1}, params.Ambient)
	assert.Equal(t, frame.Mask, params.LightMask)
	assert.Same(t, diffuse, params.Texture)
}

func TestRefineKeepsDefaultTexture(t *testing.T) {
	tech := newTechnique(t, FlavorForward)
	info := view.New(common.Identity4(), common.Identity4(), common.Identity4())

	params := tech.Compile(Kernel{}).Params
	tech.Refine(material.NewMaterial(), &info, nil, &params)

	assert.Equal(t, tech.DefaultTexture(), params.Texture)
	assert.Equal(t, DefaultAmbient, params.Ambient)
	assert.Zero(t, params.LightMask)
}

func TestRefineFlatWritesOnlyFlatParams(t *testing.T) {
	tech := newTechnique(t, FlavorFlat)
	info := view.New(common.Identity4(), common.Translation(1, 2, 3), common.Identity4())
	frame := &light.Frame{Mask: light.Mask{1}}

	params := tech.Compile(Kernel{}).Params
	tech.Refine(material.NewMaterial(), &info, frame, &params)

	assert.Equal(t, info.Vertex, params.MVP)
	assert.Zero(t, params.World)
	assert.Zero(t, params.Ambient)
	assert.Zero(t, params.LightMask)
}

func TestRefineUnlitIgnoresLightMask(t *testing.T) {
	tech := newTechnique(t, FlavorForwardUnlit)
	info := view.New(common.Identity4(), common.Identity4(), common.Identity4())

	params := tech.Compile(Kernel{}).Params
	tech.Refine(material.NewMaterial(), &info, &light.Frame{Mask: light.Mask{1}}, &params)

	assert.Equal(t, info.World, params.World)
	assert.Zero(t, params.LightMask)
}

func TestParamBlockMarshalLayout(t *testing.T) {
	p := ParamBlock{
		Normal:    [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 9},
		LightMask: light.Mask{0x04030201},
		AlphaTest: 0.5,
	}
	p.MVP[0] = 1

	buf := p.Marshal()
	require.Len(t, buf, ParamBlockSize)
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[0:4])
	// normal columns padded to vec4
	assert.Equal(t, []byte{0, 0, 0x40, 0x40}, buf[136:140])
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[140:144])
	assert.Equal(t, []byte{0, 0, 0x80, 0x40}, buf[144:148])
	assert.Equal(t, []byte{1, 2, 3, 4}, buf[208:212])
	assert.Equal(t, []byte{0, 0, 0, 0x3f}, buf[224:228])
}

func TestShadersDeclareMatchingLightCount(t *testing.T) {
	for _, f := range []Flavor{FlavorFlat, FlavorForward} {
		plain, textured, err := ProgramSources(f)
		require.NoError(t, err)
		for _, src := range []ProgramSource{plain, textured} {
			assert.Contains(t, src.Code, "fn vs_main")
			assert.Contains(t, src.Code, "fn fs_main")
			if f.Lit() {
				assert.True(t, strings.Contains(src.Code, "array<Light, 256>"))
			}
		}
	}
}

func TestLitShadersShadeNormalsInWorldSpace(t *testing.T) {
	plain, textured, err := ProgramSources(FlavorForward)
	require.NoError(t, err)
	for _, src := range []ProgramSource{plain, textured} {
		assert.Contains(t, src.Code, "out.world_pos = (params.world * vec4<f32>(in.position, 1.0)).xyz;", src.Label)
		assert.Contains(t, src.Code, "out.normal = (params.world * vec4<f32>(in.normal, 0.0)).xyz;", src.Label)
		assert.NotContains(t, src.Code, "params.normal *", src.Label)
	}
}

func TestParseFlavor(t *testing.T) {
	for _, f := range []Flavor{FlavorFlat, FlavorForward, FlavorForwardUnlit} {
		got, err := ParseFlavor(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFlavor("deferred")
	assert.Error(t, err)
}
