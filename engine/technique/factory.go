package technique

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phase/common"
)

var (
	// ErrResourceCreationFailed matches any failure of the Factory to create a GPU resource.
	ErrResourceCreationFailed = errors.New("resource creation failed")

	// ErrTextureCreationFailed is returned when the default texture cannot be created.
	ErrTextureCreationFailed = fmt.Errorf("texture creation failed: %w", ErrResourceCreationFailed)

	// ErrBufferCreationFailed is returned when the light buffer cannot be created.
	ErrBufferCreationFailed = fmt.Errorf("buffer creation failed: %w", ErrResourceCreationFailed)

	// ErrProgramLinkFailed is returned when a shader program fails to compile or link.
	ErrProgramLinkFailed = errors.New("program link failed")
)

// Program is an opaque handle to a linked shader program owned by a Factory.
type Program interface {
	Label() string
}

// ProgramSource is a WGSL module with a vs_main vertex and an fs_main fragment entry point.
type ProgramSource struct {
	Label string
	Code  string
}

// Factory creates the GPU resources a technique needs during setup.
type Factory interface {
	// LinkProgram compiles and links a program.
	//
	// Parameters:
	//   - src: the program source
	//
	// Returns:
	//   - Program: the linked program
	//   - error: non-nil if compilation or linking fails
	LinkProgram(src ProgramSource) (Program, error)

	// CreateTextureRGBA8 creates an immutable RGBA8 texture.
	//
	// Parameters:
	//   - label: a debug label
	//   - width, height: the texture size in texels
	//   - pixels: width*height packed 0xAABBGGRR texels
	//
	// Returns:
	//   - common.Texture: the texture handle
	//   - error: non-nil if creation fails
	CreateTextureRGBA8(label string, width, height uint32, pixels []uint32) (common.Texture, error)

	// CreateStorageBuffer creates a writable storage buffer.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - common.Buffer: the buffer handle
	//   - error: non-nil if creation fails
	CreateStorageBuffer(label string, size uint64) (common.Buffer, error)
}
