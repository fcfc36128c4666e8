package shader

import (
	"strconv"
	"strings"
)

// primitiveLayouts holds the size and alignment of the WGSL primitive types a module may
// place in a uniform or storage buffer.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32":         {4, 4},
	"i32":         {4, 4},
	"u32":         {4, 4},
	"vec2<f32>":   {8, 8},
	"vec2f":       {8, 8},
	"vec3<f32>":   {12, 16},
	"vec3f":       {12, 16},
	"vec4<f32>":   {16, 16},
	"vec4f":       {16, 16},
	"vec2<u32>":   {8, 8},
	"vec3<u32>":   {12, 16},
	"vec4<u32>":   {16, 16},
	"vec4u":       {16, 16},
	"vec4<i32>":   {16, 16},
	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

func alignUp(align, v uint64) uint64 {
	if align == 0 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}

// resolveLayout resolves a type name against the primitives and the known structs. Fixed
// arrays resolve to count*stride; a runtime array resolves to one element stride.
//
// Parameters:
//   - typeName: the WGSL type, e.g. "Params" or "array<Light, 256>"
//   - known: struct layouts resolved so far
//
// Returns:
//   - typeLayout: the layout
//   - bool: false for unknown types
func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	inner = strings.TrimSuffix(inner, ">")
	elemType, countStr, fixed := strings.Cut(inner, ",")
	elem, ok := resolveLayout(strings.TrimSpace(elemType), known)
	if !ok {
		return typeLayout{}, false
	}
	stride := alignUp(elem.align, elem.size)
	if !fixed {
		return typeLayout{stride, elem.align}, true
	}
	count, err := strconv.ParseUint(strings.TrimSpace(countStr), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{count * stride, elem.align}, true
}

// structLayout lays out the members of s in order and rounds the size up to the largest
// member alignment. Builtin members are skipped.
func structLayout(s structDecl, known map[string]typeLayout) (typeLayout, bool) {
	offset, maxAlign := uint64(0), uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = alignUp(l.align, offset) + l.size
		maxAlign = max(maxAlign, l.align)
	}
	return typeLayout{alignUp(maxAlign, offset), maxAlign}, true
}

// structLayouts resolves every struct, repeating until no further struct can be resolved so
// that structs may nest in any declaration order.
func structLayouts(structs []structDecl) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(structs))
	pending := structs
	for len(pending) > 0 {
		var next []structDecl
		for _, s := range pending {
			if l, ok := structLayout(s, resolved); ok {
				resolved[s.name] = l
			} else {
				next = append(next, s)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}
