package shader

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormats maps WGSL vertex input types to their wgpu vertex format.
var vertexFormats = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
}

// sampleTypes maps the scalar parameter of a sampled texture type to its sample type.
var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// viewDimensions maps sampled texture base types to their view dimension.
var viewDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
}

var (
	structRegex      = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex    = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex     = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex       = regexp.MustCompile(`(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)`)
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\s+fn\s+(\w+)`)
	fragEntryRegex   = regexp.MustCompile(`(?s)@fragment\s+fn\s+(\w+)`)

	// bindingRegex captures group, binding, address space, name and type of declarations like
	// @group(0) @binding(1) var<storage, read> lights: array<Light, 256>;
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseStructs finds every struct declaration in comment-free source.
func parseStructs(source string) []structDecl {
	matches := structRegex.FindAllStringSubmatch(source, -1)
	out := make([]structDecl, 0, len(matches))
	for _, m := range matches {
		out = append(out, structDecl{name: m[1], fields: parseFields(m[2])})
	}
	return out
}

func parseFields(body string) []field {
	parts := splitTopLevel(body)
	out := make([]field, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}
		f := field{
			name:     fm[1],
			typeName: strings.TrimSpace(fm[2]),
			location: -1,
			builtin:  builtinRegex.MatchString(part),
		}
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			f.location, _ = strconv.Atoi(lm[1])
		}
		out = append(out, f)
	}
	return out
}

// parseEntryPoints returns the names of the first @vertex and @fragment functions.
func parseEntryPoints(source string) (vertex, fragment string) {
	if m := vertexEntryRegex.FindStringSubmatch(source); m != nil {
		vertex = m[1]
	}
	if m := fragEntryRegex.FindStringSubmatch(source); m != nil {
		fragment = m[1]
	}
	return vertex, fragment
}

// parseVertexLayout builds the vertex buffer layout of the first pure vertex input struct:
// one with @location members and no @builtin member.
//
// Parameters:
//   - structs: the parsed structs of the module
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout with tightly packed attributes
//   - bool: false if no input struct exists or a member type is not a vertex format
func parseVertexLayout(structs []structDecl) (wgpu.VertexBufferLayout, bool) {
	for _, s := range structs {
		if !isVertexInput(s) {
			continue
		}
		attrs := make([]wgpu.VertexAttribute, 0, len(s.fields))
		var offset uint64
		for _, f := range s.fields {
			info, ok := vertexFormats[f.typeName]
			if !ok {
				return wgpu.VertexBufferLayout{}, false
			}
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         info.format,
				Offset:         offset,
				ShaderLocation: uint32(f.location),
			})
			offset += info.size
		}
		return wgpu.VertexBufferLayout{
			ArrayStride: offset,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		}, true
	}
	return wgpu.VertexBufferLayout{}, false
}

func isVertexInput(s structDecl) bool {
	hasLocation := false
	for _, f := range s.fields {
		if f.builtin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

// parseBindings extracts every resource declaration. Buffer entries get MinBindingSize from
// the resolved layout of their type. Every entry is visible to both stages.
//
// Parameters:
//   - source: comment-free WGSL source
//   - structs: the parsed structs of the module
//
// Returns:
//   - []Binding: the declarations in source order
func parseBindings(source string, structs []structDecl) []Binding {
	sizes := structLayouts(structs)
	matches := bindingRegex.FindAllStringSubmatch(source, -1)
	out := make([]Binding, 0, len(matches))
	for _, m := range matches {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		b := Binding{
			Group:   group,
			Binding: binding,
			Name:    m[4],
			Type:    strings.TrimSpace(m[5]),
		}
		b.Entry = classify(uint32(binding), strings.TrimSpace(m[3]), b.Type)
		if b.Entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(b.Type, sizes); ok {
				b.Entry.Buffer.MinBindingSize = l.size
			}
		}
		out = append(out, b)
	}
	return out
}

// classify maps an address space and type to a layout entry.
func classify(binding uint32, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(typeName, "<")
		entry.Texture.ViewDimension = viewDimensions[base]
		entry.Texture.SampleType = sampleTypes[strings.TrimSuffix(param, ">")]
	}
	return entry
}

// stripComments removes line and (nested) block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				if depth > 0 {
					depth--
				}
				i++
				continue
			case "//":
				if depth == 0 {
					for i < len(source) && source[i] != '\n' {
						i++
					}
					if i < len(source) {
						sb.WriteByte('\n')
					}
					continue
				}
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

// splitTopLevel splits a struct body at commas outside angle brackets, so array<T, N>
// stays one member.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
