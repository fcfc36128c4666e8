// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs and
// opaque handles that are shared between the technique layer and the GPU backends.
package common

// ColorValue is an RGBA color with float components, the clear and material color format.
type ColorValue = [4]float32

// Texture is an opaque handle to a texture created by a resource factory.
// The technique layer only stores and compares texture handles; backends
// type-assert them back to their concrete representation at submission time.
type Texture interface {
	// Label returns a human readable identifier used in logs and GPU debug labels.
	Label() string
}

// Buffer is an opaque handle to a GPU buffer created by a resource factory.
type Buffer interface {
	// Label returns a human readable identifier used in logs and GPU debug labels.
	Label() string

	// Size returns the buffer size in bytes.
	Size() uint64
}
