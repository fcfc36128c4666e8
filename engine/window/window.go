package window

import (
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// Key identifies the keys the demo programs react to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeySpace
	KeyB
	KeyL
)

// Window is a native window that WebGPU renders into.
type Window interface {
	// SetUpdateCallback sets the function called once per processed event batch.
	//
	// Parameters:
	//   - callback: the per-frame function
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	//
	// Parameters:
	//   - callback: the resize handler
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the function called on key press and repeat.
	//
	// Parameters:
	//   - callback: the key handler
	SetKeyDownCallback(callback func(key Key))

	// SetScrollCallback sets the function called with the vertical scroll delta.
	//
	// Parameters:
	//   - callback: the scroll handler
	SetScrollCallback(callback func(delta float32))

	// SurfaceDescriptor returns the descriptor WebGPU creates the window surface from.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// RequestClose asks the event loop to stop. Unlike Close it may be called from any
	// goroutine; the window is destroyed by a later Close.
	RequestClose()

	// Close destroys the window. It must be called on the goroutine that created the window.
	Close() error

	// ProcessMessages runs the event loop on the calling goroutine until the window closes,
	// invoking the update callback after every poll.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title  string
	width  int
	height int

	internalWindow *glfwWindow

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(key Key)
	onScroll  func(delta float32)

	closeRequested atomic.Bool
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. It locks the calling goroutine to its OS thread;
// ProcessMessages must run on the same goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: non-nil if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-phase",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key Key)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closeRequested.Load() && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closeRequested.Store(true)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
