package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/camera"
	"github.com/Carmen-Shannon/oxy-phase/engine/config"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/profiler"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-phase/engine/scene"
	"github.com/Carmen-Shannon/oxy-phase/engine/window"
)

const (
	// orbitStep is the camera orbit angle applied per arrow key press, in radians.
	orbitStep = 0.05
	// zoomStep is the fraction of the camera radius removed per scroll notch.
	zoomStep = 0.1
)

// ErrRenderPanic is returned by Run when the render loop recovered from a panic.
var ErrRenderPanic = errors.New("render loop panicked")

// engine implements the Engine interface.
// Coordinates engine, render, and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window       window.Window
	renderer     renderer.Renderer
	ownsRenderer bool
	pipeline     pipeline.Pipeline
	camera       camera.Camera
	cfg          *config.Config
	windowOpts   []window.WindowBuilderOption
	rendererOpts []renderer.RendererBuilderOption
	pipelineOpts []pipeline.PipelineBuilderOption
	background   common.ColorValue

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	keyCallback    func(key window.Key)

	// frameMu serializes simulation ticks, input handling and frame rendering, so objects
	// and lights never change while the pipeline reads them.
	frameMu  sync.Mutex
	scenesMu sync.RWMutex
	scenes   map[int]scene.Scene
	layers   layeredScene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	renderErr        error
}

// Engine is the main entry point for the engine.
// It orchestrates the engine loop, render loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer the pipeline draws into.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Pipeline returns the render pipeline.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline
	Pipeline() pipeline.Pipeline

	// Camera returns the camera every frame is rendered from.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Profiler returns the frame profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after the active
	// scenes have been updated.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetKeyCallback registers the function called for key presses after the built-in
	// camera and background controls have run. It runs while no frame is being rendered.
	//
	// Parameters:
	//   - callback: the key handler
	SetKeyCallback(callback func(key window.Key))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// ToggleBackground switches clearing off, or back on with the last clear color.
	ToggleBackground()

	// AddScene registers a scene at the given z-index key.
	// Entities and lights of active scenes are merged in ascending key order each frame.
	//
	// Parameters:
	//   - key: the z-index determining merge order (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the engine and render loops and processes window events on the calling
	// goroutine until the window closes or Quit is called. Before returning it stops the
	// pipeline's workers, releases a renderer the engine created and closes the window.
	//
	// Returns:
	//   - error: ErrRenderPanic if the render loop crashed
	Run() error

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. Missing collaborators are created with defaults: a window
// (which locks the calling goroutine to its OS thread), a WebGPU renderer on that window, a
// camera matching the window's aspect ratio and a pipeline using the renderer as its
// resource factory. A configuration given with WithConfig contributes pipeline options,
// window settings and lights; explicit options take precedence.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: non-nil if a collaborator could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.cfg != nil {
		if err := e.applyConfig(e.cfg); err != nil {
			return nil, err
		}
	}

	if e.window == nil {
		w, err := window.NewWindow(e.windowOpts...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.window = w
	}

	if e.renderer == nil {
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOpts...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.renderer = r
		e.ownsRenderer = true
	}

	if e.camera == nil {
		e.camera = camera.NewCamera()
	}
	if w, h := e.renderer.Size(); w > 0 && h > 0 {
		e.camera.SetAspect(float32(w) / float32(h))
	}

	p, err := pipeline.New(e.renderer, e.pipelineOpts...)
	if err != nil {
		if e.ownsRenderer {
			e.renderer.Release()
		}
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.pipeline = p
	if c, on := p.Background(); on {
		e.background = c
	} else {
		e.background = common.ColorValue{0, 0, 0, 1}
	}

	e.window.SetResizeCallback(e.onResize)
	e.window.SetKeyDownCallback(e.onKeyDown)
	e.window.SetScrollCallback(e.onScroll)

	common.Logger().Info("engine ready",
		"flavor", p.Technique().Flavor().String(),
		"scenes", len(e.scenes),
	)
	return e, nil
}

// applyConfig folds a validated configuration into the pending options. Config-derived
// options come first so explicit options override them.
func (e *engine) applyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.pipelineOpts = append(cfg.PipelineOptions(), e.pipelineOpts...)

	var windowOpts []window.WindowBuilderOption
	if cfg.Window.Title != "" {
		windowOpts = append(windowOpts, window.WithTitle(cfg.Window.Title))
	}
	if cfg.Window.Width > 0 && cfg.Window.Height > 0 {
		windowOpts = append(windowOpts, window.WithSize(cfg.Window.Width, cfg.Window.Height))
	}
	e.windowOpts = append(windowOpts, e.windowOpts...)

	if lights := cfg.BuildLights(); len(lights) > 0 {
		s := e.scenes[0]
		if s == nil {
			s = scene.NewScene("main")
			e.scenes[0] = s
		}
		for _, l := range lights {
			s.AddLight(l)
		}
	}
	return nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Pipeline() pipeline.Pipeline {
	return e.pipeline
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() error {
	e.running.Store(true)
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.running.Store(false)

	e.pipeline.Release()
	if e.ownsRenderer {
		e.renderer.Release()
	}
	if err := e.window.Close(); err != nil {
		common.Logger().Debug("window close", "error", err)
	}
	return e.renderErr
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit and stops the
// window's event loop. Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.window.RequestClose()
	})
}

// handle launches the engine and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Updates the active scenes and fires the tick callback at the configured tick rate, and
// listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// tick advances the active scenes and runs the tick callback.
func (e *engine) tick(dt float32) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	for _, s := range e.activeScenes() {
		s.Update(dt)
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.renderErr = fmt.Errorf("%w: %v", ErrRenderPanic, r)
			common.Logger().Error("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame()

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame renders the merged active scenes once. A failed frame is logged and dropped;
// the next frame starts from a clean pipeline.
//
// Returns:
//   - pipeline.Status: the submission status, zero for a dropped frame
//   - error: the pipeline error of a dropped frame
func (e *engine) renderFrame() (pipeline.Status, error) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	start := time.Now()
	e.layers.reset(e.activeScenes())
	status, err := e.pipeline.Render(&e.layers, e.camera, e.renderer)
	elapsed := time.Since(start)

	if err != nil {
		common.Logger().Warn("frame dropped", "error", err)
		return pipeline.Status{}, err
	}
	if e.profilingEnabled.Load() {
		e.profiler.Tick(e.pipeline.LastFrame().Objects, status.DrawCalls, elapsed)
	}
	return status, nil
}

// activeScenes returns the active scenes in ascending key order.
func (e *engine) activeScenes() []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()

	keys := slices.Sorted(maps.Keys(e.scenes))
	out := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			out = append(out, s)
		}
	}
	return out
}

func (e *engine) onResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if err := e.renderer.Resize(width, height); err != nil {
		common.Logger().Warn("resize failed", "width", width, "height", height, "error", err)
		return
	}
	e.camera.SetAspect(float32(width) / float32(height))
}

func (e *engine) onKeyDown(key window.Key) {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()

	switch key {
	case window.KeyLeft:
		e.camera.Orbit(-orbitStep, 0)
	case window.KeyRight:
		e.camera.Orbit(orbitStep, 0)
	case window.KeyUp:
		e.camera.Orbit(0, orbitStep)
	case window.KeyDown:
		e.camera.Orbit(0, -orbitStep)
	case window.KeyB:
		e.toggleBackground()
	}
	if e.keyCallback != nil {
		e.keyCallback(key)
	}
}

func (e *engine) onScroll(delta float32) {
	r := e.camera.Radius()
	e.camera.SetRadius(r * (1 - zoomStep*delta))
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}

	// Non-blocking send; a pending update is replaced.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetKeyCallback(callback func(key window.Key)) {
	e.keyCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) ToggleBackground() {
	e.frameMu.Lock()
	defer e.frameMu.Unlock()
	e.toggleBackground()
}

// toggleBackground flips clearing. Caller must hold frameMu.
func (e *engine) toggleBackground() {
	if c, on := e.pipeline.Background(); on {
		e.background = c
		e.pipeline.DisableBackground()
		common.Logger().Debug("background disabled")
		return
	}
	e.pipeline.SetBackground(e.background)
	common.Logger().Debug("background enabled", "color", e.background)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	defer e.scenesMu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return maps.Clone(e.scenes)
}

// layeredScene presents several scenes to the pipeline as one: entities and lights are
// concatenated in layer order.
type layeredScene struct {
	layers   []scene.Scene
	entities []pipeline.Entity
	lights   []light.Light
}

var _ pipeline.Scene = &layeredScene{}

// reset replaces the layers, keeping the backing arrays of the merged slices.
func (l *layeredScene) reset(layers []scene.Scene) {
	l.layers = layers
}

func (l *layeredScene) Entities() []pipeline.Entity {
	if len(l.layers) == 1 {
		return l.layers[0].Entities()
	}
	l.entities = l.entities[:0]
	for _, s := range l.layers {
		l.entities = append(l.entities, s.Entities()...)
	}
	return l.entities
}

func (l *layeredScene) Lights() []light.Light {
	if len(l.layers) == 1 {
		return l.layers[0].Lights()
	}
	l.lights = l.lights[:0]
	for _, s := range l.layers {
		l.lights = append(l.lights, s.Lights()...)
	}
	return l.lights
}
