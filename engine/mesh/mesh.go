// Package mesh describes the vertex-attribute capability of a mesh, the only
// mesh property the technique layer inspects when picking a shader variant.
package mesh

import (
	"slices"
	"strings"
)

// Well-known vertex attribute names shared with the shader programs.
const (
	AttribPosition  = "a_Pos"
	AttribNormal    = "a_Normal"
	AttribTexCoord0 = "a_Tex0"
)

// Capability is the set of named vertex attributes present on a mesh.
// It is a comparable value: two capabilities built from the same attribute
// names (in any order, with duplicates) are equal.
type Capability struct {
	key string
}

// NewCapability builds a Capability from attribute names.
//
// Parameters:
//   - attributes: the vertex attribute names exposed by the mesh
//
// Returns:
//   - Capability: the normalized attribute set
func NewCapability(attributes ...string) Capability {
	names := slices.Clone(attributes)
	slices.Sort(names)
	names = slices.Compact(names)
	return Capability{key: strings.Join(names, ",")}
}

// Attributes returns the attribute names in sorted order.
//
// Returns:
//   - []string: the attribute names, nil for an empty set
func (c Capability) Attributes() []string {
	if c.key == "" {
		return nil
	}
	return strings.Split(c.key, ",")
}

// Has reports whether the named attribute is present.
//
// Parameters:
//   - name: the attribute name
//
// Returns:
//   - bool: true if present
func (c Capability) Has(name string) bool {
	rest := c.key
	for rest != "" {
		var attr string
		attr, rest, _ = strings.Cut(rest, ",")
		if attr == name {
			return true
		}
	}
	return false
}

// HasTexCoord reports whether the mesh exposes the primary texture-coordinate attribute.
func (c Capability) HasTexCoord() bool {
	return c.Has(AttribTexCoord0)
}
