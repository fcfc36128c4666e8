package renderer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/model"
	"github.com/Carmen-Shannon/oxy-phase/engine/phase"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/technique"
	"github.com/Carmen-Shannon/oxy-phase/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int
	frames        atomic.Uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer is the GPU side of the render pipeline. It creates the resources a technique
// asks for during setup and acts as the Target the pipeline submits every frame to.
// Methods may be called from any goroutine; the backend serializes them.
type Renderer interface {
	technique.Factory
	pipeline.Target
	pipeline.FrameDiscarder

	// Resize configures the underlying backend to handle a new surface size.
	// A zero size (a minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface attachments could not be recreated
	Resize(width, height int) error

	// Size retrieves the configured surface size.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)

	// SetPresentMode changes how frames are presented and reconfigures the surface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// UploadModel creates GPU vertex and index buffers for a model.
	//
	// Parameters:
	//   - m: the model to upload
	//
	// Returns:
	//   - Mesh: the uploaded geometry, drawn through a MeshSource drawable
	//   - error: an error if buffer creation fails
	UploadModel(m model.Model) (Mesh, error)

	// Release frees every program, texture and buffer the renderer created.
	// Meshes are owned by the caller.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the window's surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the window owning the surface
//   - options: variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if no adapter or device is available
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", backendType)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if err := r.Resize(window.Width(), window.Height()); err != nil {
		return nil, err
	}

	common.Logger().Info("renderer ready", "width", r.width, "height", r.height, "msaa", uint32(msaa))
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
	w, h := r.Size()
	if err := r.Resize(w, h); err != nil {
		common.Logger().Warn("present mode change failed", "error", err)
	}
}

func (r *renderer) LinkProgram(src technique.ProgramSource) (technique.Program, error) {
	return r.backend.LinkProgram(src)
}

func (r *renderer) CreateTextureRGBA8(label string, width, height uint32, pixels []uint32) (common.Texture, error) {
	return r.backend.CreateTextureRGBA8(label, width, height, pixels)
}

func (r *renderer) CreateStorageBuffer(label string, size uint64) (common.Buffer, error) {
	return r.backend.CreateStorageBuffer(label, size)
}

func (r *renderer) UploadModel(m model.Model) (Mesh, error) {
	return r.backend.UploadModel(m)
}

func (r *renderer) Clear(color common.ColorValue, depth float32, stencil uint32) error {
	return r.backend.Clear(color, depth, stencil)
}

func (r *renderer) DiscardFrame() {
	r.backend.DiscardFrame()
}

func (r *renderer) UpdateLights(buf common.Buffer, payload light.Payload) error {
	return r.backend.UpdateLights(buf, payload)
}

func (r *renderer) Submit(objects []*phase.Object) (pipeline.Status, error) {
	status, err := r.backend.Submit(objects)
	if err != nil {
		return status, err
	}
	r.frames.Add(1)
	return status, nil
}

func (r *renderer) Release() {
	r.backend.Release()
	common.Logger().Debug("renderer released", "frames", r.frames.Load())
}
