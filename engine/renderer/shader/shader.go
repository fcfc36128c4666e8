// Package shader reflects WGSL modules: entry points, the vertex input layout and the
// @group/@binding resources with their buffer sizes. The renderer uses it to validate
// programs against the layouts it binds before creating GPU pipelines.
package shader

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingEntryPoint is returned for a module without a @vertex or @fragment function.
var ErrMissingEntryPoint = errors.New("missing entry point")

// shader is the implementation of the Shader interface.
type shader struct {
	key            string
	source         string
	vertexEntry    string
	fragmentEntry  string
	vertexLayout   wgpu.VertexBufferLayout
	hasVertexInput bool
	bindings       []Binding
}

// Shader is a reflected WGSL module holding one vertex and one fragment entry point.
type Shader interface {
	// Key retrieves the unique identifier of the module.
	//
	// Returns:
	//   - string: the module key
	Key() string

	// Source retrieves the WGSL source.
	//
	// Returns:
	//   - string: the source
	Source() string

	// VertexEntryPoint retrieves the name of the @vertex function.
	VertexEntryPoint() string

	// FragmentEntryPoint retrieves the name of the @fragment function.
	FragmentEntryPoint() string

	// VertexLayout retrieves the layout of the vertex input struct.
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the packed attribute layout
	//   - bool: false if the module declares no vertex input struct
	VertexLayout() (wgpu.VertexBufferLayout, bool)

	// Bindings retrieves every resource declaration ordered by group, then binding.
	//
	// Returns:
	//   - []Binding: the declarations
	Bindings() []Binding

	// Binding looks up one resource declaration.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: false if nothing is declared there
	Binding(group, binding int) (Binding, bool)

	// Groups retrieves the highest declared group index plus one.
	Groups() int

	// Module builds the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader reflects a WGSL module.
//
// Parameters:
//   - key: the unique identifier of the module
//   - source: the WGSL source
//
// Returns:
//   - Shader: the reflected module
//   - error: ErrMissingEntryPoint if either stage has no entry point
func NewShader(key, source string) (Shader, error) {
	cleaned := stripComments(source)
	structs := parseStructs(cleaned)

	s := &shader{
		key:    key,
		source: source,
	}
	s.vertexEntry, s.fragmentEntry = parseEntryPoints(cleaned)
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("%w: %s has no @vertex function", ErrMissingEntryPoint, key)
	}
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("%w: %s has no @fragment function", ErrMissingEntryPoint, key)
	}
	s.vertexLayout, s.hasVertexInput = parseVertexLayout(structs)
	s.bindings = parseBindings(cleaned, structs)
	slices.SortFunc(s.bindings, func(a, b Binding) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Binding, b.Binding))
	})
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) VertexLayout() (wgpu.VertexBufferLayout, bool) {
	return s.vertexLayout, s.hasVertexInput
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Binding(group, binding int) (Binding, bool) {
	i := slices.IndexFunc(s.bindings, func(b Binding) bool {
		return b.Group == group && b.Binding == binding
	})
	if i < 0 {
		return Binding{}, false
	}
	return s.bindings[i], true
}

func (s *shader) Groups() int {
	if len(s.bindings) == 0 {
		return 0
	}
	return s.bindings[len(s.bindings)-1].Group + 1
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
}
