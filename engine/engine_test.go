package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/camera"
	"github.com/Carmen-Shannon/oxy-phase/engine/config"
	"github.com/Carmen-Shannon/oxy-phase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/model"
	"github.com/Carmen-Shannon/oxy-phase/engine/phase"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phase/engine/scene"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/window"
)

type handle string

func (h handle) Label() string { return string(h) }
func (h handle) Size() uint64  { return 0 }

type fakeRenderer struct {
	mu       sync.Mutex
	width    int
	height   int
	cleared  int
	objects  []int
	released bool
	frames   chan struct{}
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{width: 800, height: 400, frames: make(chan struct{}, 64)}
}

func (r *fakeRenderer) LinkProgram(src technique.ProgramSource) (technique.Program, error) {
	return handle(src.Label), nil
}

func (r *fakeRenderer) CreateTextureRGBA8(label string, w, h uint32, pixels []uint32) (common.Texture, error) {
	return handle(label), nil
}

func (r *fakeRenderer) CreateStorageBuffer(label string, size uint64) (common.Buffer, error) {
	return handle(label), nil
}

func (r *fakeRenderer) Clear(color common.ColorValue, depth float32, stencil uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared++
	return nil
}

func (r *fakeRenderer) DiscardFrame() {}

func (r *fakeRenderer) UpdateLights(buf common.Buffer, payload light.Payload) error {
	return nil
}

func (r *fakeRenderer) Submit(objects []*phase.Object) (pipeline.Status, error) {
	r.mu.Lock()
	r.objects = append(r.objects, len(objects))
	r.mu.Unlock()
	select {
	case r.frames <- struct{}{}:
	default:
	}
	return pipeline.Status{DrawCalls: len(objects)}, nil
}

func (r *fakeRenderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
	return nil
}

func (r *fakeRenderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (r *fakeRenderer) UploadModel(m model.Model) (renderer.Mesh, error) {
	return nil, nil
}

func (r *fakeRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

// fakeWindow runs its event loop until frames have been rendered or close is requested.
type fakeWindow struct {
	frames <-chan struct{}
	want   int
	closed atomic.Bool
	stop   chan struct{}
	once   sync.Once

	onResize func(width, height int)
	onKey    func(key window.Key)
	onScroll func(delta float32)
}

func (w *fakeWindow) SetUpdateCallback(callback func())                  {}
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *fakeWindow) SetKeyDownCallback(callback func(key window.Key))   { w.onKey = callback }
func (w *fakeWindow) SetScrollCallback(callback func(delta float32))     { w.onScroll = callback }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor         { return nil }
func (w *fakeWindow) Close() error                                       { w.closed.Store(true); return nil }
func (w *fakeWindow) Width() int                                         { return 800 }
func (w *fakeWindow) Height() int                                        { return 400 }

func (w *fakeWindow) IsRunning() bool {
	select {
	case <-w.stop:
		return false
	default:
		return true
	}
}

func (w *fakeWindow) RequestClose() {
	w.once.Do(func() { close(w.stop) })
}

func (w *fakeWindow) ProcessMessages() {
	timeout := time.After(5 * time.Second)
	for n := 0; n < w.want; {
		select {
		case <-w.frames:
			n++
		case <-w.stop:
			return
		case <-timeout:
			return
		}
	}
}

func newTestEngine(t *testing.T, opts ...EngineBuilderOption) (*engine, *fakeRenderer, *fakeWindow) {
	t.Helper()
	r := newFakeRenderer()
	w := &fakeWindow{frames: r.frames, want: 3, stop: make(chan struct{})}
	e, err := NewEngine(append([]EngineBuilderOption{WithWindow(w), WithRenderer(r)}, opts...)...)
	require.NoError(t, err)
	return e.(*engine), r, w
}

func TestNewEngineDefaults(t *testing.T) {
	e, _, _ := newTestEngine(t)

	assert.InDelta(t, 2, e.Camera().Aspect(), 1e-6)
	assert.Equal(t, technique.FlavorForward, e.Pipeline().Technique().Flavor())
	assert.Empty(t, e.Scenes())
}

func TestRunRendersScenes(t *testing.T) {
	s := scene.NewScene("main", scene.WithObjects(
		game_object.NewGameObject(game_object.WithMaterial(material.NewMaterial())),
		game_object.NewGameObject(game_object.WithMaterial(material.NewMaterial()), game_object.WithPosition(0, 0, -2)),
	))
	e, r, w := newTestEngine(t, WithScene(0, s), WithProfiling(true))

	require.NoError(t, e.Run())

	r.mu.Lock()
	defer r.mu.Unlock()
	require.GreaterOrEqual(t, len(r.objects), 3)
	assert.Equal(t, 2, r.objects[0])
	assert.Positive(t, r.cleared)
	assert.False(t, r.released, "a renderer passed in is owned by the caller")
	assert.True(t, w.closed.Load())
}

func TestQuitStopsRun(t *testing.T) {
	e, _, w := newTestEngine(t)
	w.want = 1 << 30

	done := make(chan error)
	go func() { done <- e.Run() }()
	time.Sleep(10 * time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestActiveScenesMergeInKeyOrder(t *testing.T) {
	back := game_object.NewGameObject(game_object.WithMaterial(material.NewMaterial()))
	front := game_object.NewGameObject(game_object.WithMaterial(material.NewMaterial()))
	hidden := game_object.NewGameObject(game_object.WithMaterial(material.NewMaterial()))
	l := light.NewLight(light.KindOmni)

	e, _, _ := newTestEngine(t,
		WithScene(5, scene.NewScene("front", scene.WithObjects(front))),
		WithScene(-1, scene.NewScene("back", scene.WithObjects(back), scene.WithLights(l))),
		WithScene(2, scene.NewScene("hidden", scene.WithActive(false), scene.WithObjects(hidden))),
	)

	e.layers.reset(e.activeScenes())
	entities := e.layers.Entities()
	require.Len(t, entities, 2)
	assert.Same(t, back, entities[0])
	assert.Same(t, front, entities[1])
	assert.Equal(t, []light.Light{l}, e.layers.Lights())

	e.RemoveScene(-1)
	assert.Nil(t, e.Scene(-1))
	e.layers.reset(e.activeScenes())
	assert.Len(t, e.layers.Entities(), 1)
}

func TestKeyControls(t *testing.T) {
	var keys []window.Key
	e, _, w := newTestEngine(t, WithCamera(camera.NewCamera(camera.WithOrbit(10, 0, 0))))
	e.SetKeyCallback(func(key window.Key) { keys = append(keys, key) })

	_, _, z0 := e.Camera().Position()
	w.onKey(window.KeyLeft)
	_, _, z1 := e.Camera().Position()
	assert.Less(t, z1, z0)

	w.onKey(window.KeyB)
	_, on := e.Pipeline().Background()
	assert.False(t, on)
	w.onKey(window.KeyB)
	_, on = e.Pipeline().Background()
	assert.True(t, on)

	w.onScroll(1)
	assert.InDelta(t, 9, e.Camera().Radius(), 1e-5)

	assert.Equal(t, []window.Key{window.KeyLeft, window.KeyB, window.KeyB}, keys)
}

func TestResizeUpdatesAspect(t *testing.T) {
	e, r, w := newTestEngine(t)

	w.onResize(300, 300)
	assert.InDelta(t, 1, e.Camera().Aspect(), 1e-6)
	width, height := r.Size()
	assert.Equal(t, 300, width)
	assert.Equal(t, 300, height)

	w.onResize(0, 0)
	assert.InDelta(t, 1, e.Camera().Aspect(), 1e-6)
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
flavor: flat
clear: false
lights:
  - kind: omni
    position: [0, 2, 0, 1]
`))
	require.NoError(t, err)

	e, _, _ := newTestEngine(t, WithConfig(cfg))

	assert.Equal(t, technique.FlavorFlat, e.Pipeline().Technique().Flavor())
	_, on := e.Pipeline().Background()
	assert.False(t, on)
	require.NotNil(t, e.Scene(0))
	assert.Len(t, e.Scene(0).Lights(), 1)
}
