package phase

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/view"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handle string

func (h handle) Label() string { return string(h) }
func (h handle) Size() uint64  { return 0 }

type fakeFactory struct{}

func (fakeFactory) LinkProgram(src technique.ProgramSource) (technique.Program, error) {
	return handle(src.Label), nil
}

func (fakeFactory) CreateTextureRGBA8(label string, w, h uint32, pixels []uint32) (common.Texture, error) {
	return handle(label), nil
}

func (fakeFactory) CreateStorageBuffer(label string, size uint64) (common.Buffer, error) {
	return handle(label), nil
}

type drawable struct {
	name string
	mesh mesh.Capability
	mat  material.Material
}

func (d *drawable) Mesh() mesh.Capability        { return d.mesh }
func (d *drawable) Material() material.Material { return d.mat }

func newTech(t *testing.T, f technique.Flavor) technique.Technique {
	t.Helper()
	tech, err := technique.New(fakeFactory{}, f)
	require.NoError(t, err)
	return tech
}

func atDepth(d float32) view.Info {
	var info view.Info
	info.Vertex = common.Identity4()
	info.Vertex[14] = d
	return info
}

func opaque(name string) *drawable {
	return &drawable{name: name, mat: material.NewMaterial()}
}

func blended(name string) *drawable {
	return &drawable{name: name, mat: material.NewMaterial(material.WithTransparency(material.Blend(material.BlendAlpha)))}
}

func names(objs []*Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Drawable.(*drawable).name
	}
	return out
}

func depths(objs []*Object) []float32 {
	out := make([]float32, len(objs))
	for i, o := range objs {
		out[i] = o.Depth
	}
	return out
}

func TestSortOpaqueFrontToBack(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	for _, d := range []float32{0.5, 0.2, 0.9, 0.1} {
		_, err := p.Enqueue(opaque(""), atDepth(d))
		require.NoError(t, err)
	}
	assert.Equal(t, []float32{0.1, 0.2, 0.5, 0.9}, depths(p.Sort()))
}

func TestSortTransparentBackToFront(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	for _, d := range []float32{0.3, 0.8, 0.1} {
		_, err := p.Enqueue(blended(""), atDepth(d))
		require.NoError(t, err)
	}
	assert.Equal(t, []float32{0.8, 0.3, 0.1}, depths(p.Sort()))
}

func TestSortMixed(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	items := []struct {
		d     *drawable
		depth float32
	}{
		{blended("t-near"), 0.2},
		{opaque("o-far"), 0.9},
		{blended("t-far"), 0.7},
		{&drawable{name: "cut", mat: material.NewMaterial(material.WithTransparency(material.Cutout(10)))}, 0.5},
		{opaque("o-near"), 0.1},
	}
	for _, it := range items {
		ok, err := p.Enqueue(it.d, atDepth(it.depth))
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, []string{"o-near", "cut", "o-far", "t-far", "t-near"}, names(p.Sort()))
}

func TestSortTiesKeepEnqueueOrder(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	for _, n := range []string{"a", "b", "c"} {
		_, err := p.Enqueue(opaque(n), atDepth(0.5))
		require.NoError(t, err)
	}
	for _, n := range []string{"x", "y"} {
		_, err := p.Enqueue(blended(n), atDepth(0.5))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, names(p.Sort()))
}

func TestFlatUsesFrontToBack(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorFlat))
	for _, d := range []float32{0.4, 0.1, 0.3} {
		_, err := p.Enqueue(opaque(""), atDepth(d))
		require.NoError(t, err)
	}
	ok, err := p.Enqueue(blended("skipped"), atDepth(0))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []float32{0.1, 0.3, 0.4}, depths(p.Sort()))
}

func TestWithOrder(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward), WithOrder(BackToFront))
	for _, d := range []float32{0.1, 0.3} {
		_, err := p.Enqueue(opaque(""), atDepth(d))
		require.NoError(t, err)
	}
	assert.Equal(t, []float32{0.3, 0.1}, depths(p.Sort()))
}

func TestForwardOrderComparator(t *testing.T) {
	o := func(d float32, transparent bool) *Object {
		k := technique.Kernel{Transparency: material.Opaque()}
		if transparent {
			k.Transparency = material.Blend(material.BlendAdd)
		}
		return &Object{Kernel: k, Depth: d}
	}
	assert.Equal(t, -1, ForwardOrder(o(0.9, false), o(0.1, true)))
	assert.Equal(t, 1, ForwardOrder(o(0.1, true), o(0.9, false)))
	assert.Equal(t, -1, ForwardOrder(o(0.1, false), o(0.2, false)))
	assert.Equal(t, -1, ForwardOrder(o(0.2, true), o(0.1, true)))
	assert.Equal(t, 0, ForwardOrder(o(0.5, true), o(0.5, true)))
}

func TestEnqueueRejectsInvalidDepth(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))

	for _, d := range []float32{math32.NaN(), math32.Inf(1), math32.Inf(-1)} {
		_, err := p.Enqueue(opaque(""), atDepth(d))
		assert.ErrorIs(t, err, ErrInvalidDepth)
	}
	assert.Zero(t, p.Len())
}

func TestEnqueueSkipsUndrawable(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))

	ok, err := p.Enqueue(&drawable{mat: material.NewMaterial(material.WithVisible(false))}, atDepth(0.1))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Enqueue(&drawable{mat: material.NewMaterial(material.WithTransparency(material.Blend(material.BlendInvert)))}, atDepth(0.1))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, p.Len())
	assert.Zero(t, p.Cache().Len())
}

func TestEnqueueCopiesDefaults(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	for range 3 {
		_, err := p.Enqueue(&drawable{mat: material.NewMaterial(material.WithTransparency(material.Cutout(255)))}, atDepth(0.1))
		require.NoError(t, err)
	}
	p.Refine(nil)

	objs := p.Sort()
	require.Len(t, objs, 3)
	assert.Equal(t, 1, p.Cache().Len())
	for _, o := range objs {
		assert.Equal(t, float32(1), o.Params.AlphaTest)
		assert.Equal(t, "phong", o.Program.Label())
	}

	objs[0].Params.Color[0] = 42
	assert.Zero(t, p.Cache().GetOrCompile(objs[1].Kernel).Params.Color[0])
}

func TestResetReusesArena(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	_, err := p.Enqueue(opaque("first"), atDepth(0.2))
	require.NoError(t, err)
	p.Sort()

	p.Reset()
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Sort())

	_, err = p.Enqueue(opaque("second"), atDepth(0.4))
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, names(p.Sort()))
}

func TestRefineWritesLightMask(t *testing.T) {
	p := NewPhase("main", newTech(t, technique.FlavorForward))
	_, err := p.Enqueue(opaque(""), atDepth(0.2))
	require.NoError(t, err)

	frame, err := light.NewUpdater(light.SlotByActiveOrder).Update([]light.Light{light.NewLight(light.KindOmni)})
	require.NoError(t, err)
	p.Refine(&frame)

	assert.Equal(t, light.Mask{1}, p.Sort()[0].Params.LightMask)
}

func TestParallelRefineMatchesSequential(t *testing.T) {
	tech := newTech(t, technique.FlavorForward)
	seq := NewPhase("seq", tech)
	par := NewPhase("par", tech, WithRefineWorkers(4))

	frame := &light.Frame{Mask: light.Mask{0x0201}}
	for i := range 200 {
		d := opaque("")
		d.mat = material.NewMaterial(material.WithColor(common.ColorValue{float32(i), 0, 0, 1}))
		info := atDepth(float32(i) / 200)
		_, err := seq.Enqueue(d, info)
		require.NoError(t, err)
		_, err = par.Enqueue(d, info)
		require.NoError(t, err)
	}
	seq.Refine(frame)
	par.Refine(frame)

	a, b := seq.Sort(), par.Sort()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Params, b[i].Params)
	}
	assert.Equal(t, float32(199), b[len(b)-1].Params.Color[0])
}

func TestReleaseStopsWorkersAndFallsBackToSerial(t *testing.T) {
	tech := newTech(t, technique.FlavorForward)
	p := NewPhase("par", tech, WithRefineWorkers(4)).(*phase)
	require.NotNil(t, p.pool)

	p.Release()
	assert.Nil(t, p.pool)
	p.Release()

	for i := range 100 {
		d := opaque("")
		d.mat = material.NewMaterial(material.WithColor(common.ColorValue{float32(i), 0, 0, 1}))
		_, err := p.Enqueue(d, atDepth(float32(i)/100))
		require.NoError(t, err)
	}
	p.Refine(nil)

	objs := p.Sort()
	require.Len(t, objs, 100)
	assert.Equal(t, float32(99), objs[99].Params.Color[0])
}
