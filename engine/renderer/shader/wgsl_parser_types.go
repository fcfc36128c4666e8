package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a vertex format with its byte size for offset calculation.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// typeLayout is the byte size and alignment of a WGSL type in a host-shareable address space.
type typeLayout struct {
	size  uint64
	align uint64
}

// field is one member of a parsed WGSL struct.
type field struct {
	name     string
	typeName string
	location int
	builtin  bool
}

// structDecl is a parsed WGSL struct declaration.
type structDecl struct {
	name   string
	fields []field
}

// Binding describes one @group/@binding resource declared by a module.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Type    string
	Entry   wgpu.BindGroupLayoutEntry
}
