package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-phase/engine/camera"
	"github.com/Carmen-Shannon/oxy-phase/engine/config"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-phase/engine/scene"
	"github.com/Carmen-Shannon/oxy-phase/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions sets the options of the window the engine creates. Ignored with WithWindow.
//
// Parameters:
//   - opts: the window options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(opts ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOpts = append(e.windowOpts, opts...)
	}
}

// WithRenderer sets the renderer the pipeline draws into. The caller keeps ownership and
// releases it after Run returns.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRendererOptions sets the options of the renderer the engine creates. Ignored with WithRenderer.
//
// Parameters:
//   - opts: the renderer options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(opts ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOpts = append(e.rendererOpts, opts...)
	}
}

// WithPipelineOptions sets the options of the render pipeline.
//
// Parameters:
//   - opts: the pipeline options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.pipelineOpts = append(e.pipelineOpts, opts...)
	}
}

// WithCamera sets the camera frames are rendered from.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithConfig applies a loaded configuration file: its pipeline settings, window settings and
// lights. The lights are added to the scene at key 0, which is created if needed.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithScene registers a scene at the given z-index key during engine construction.
// Entities and lights of active scenes are merged in ascending key order.
//
// Parameters:
//   - key: the z-index determining merge order (lower first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scenes[key] = s
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
