package model

import "github.com/Carmen-Shannon/oxy-phase/engine/mesh"

// cubeFaces lists the outward normal and the two in-plane axes (u, v) of each cube face,
// chosen so that u x v = normal and triangles wind counter-clockwise seen from outside.
var cubeFaces = [6][3][3]float32{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// NewCube creates an axis-aligned cube centered on the origin with positions, normals and
// texture coordinates. Options apply after the geometry, so WithAttributes can narrow the
// declared attributes.
//
// Parameters:
//   - size: the edge length
//   - options: additional ModelBuilderOption functions
//
// Returns:
//   - Model: the cube
func NewCube(size float32, options ...ModelBuilderOption) Model {
	h := size / 2
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(vertices))
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			var p [3]float32
			for i := range 3 {
				p[i] = h * (n[i] + c[0]*u[i] + c[1]*v[i])
			}
			vertices = append(vertices, GPUVertex{
				Position: p,
				Normal:   n,
				TexCoord: [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	opts := append([]ModelBuilderOption{
		WithName("cube"),
		WithGeometry(vertices, indices),
		WithAttributes(mesh.AttribPosition, mesh.AttribNormal, mesh.AttribTexCoord0),
	}, options...)
	return NewModel(opts...)
}

// NewPlane creates a square in the XZ plane facing +Y, centered on the origin.
//
// Parameters:
//   - size: the edge length
//   - options: additional ModelBuilderOption functions
//
// Returns:
//   - Model: the plane
func NewPlane(size float32, options ...ModelBuilderOption) Model {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []GPUVertex{
		{Position: [3]float32{-h, 0, h}, Normal: up, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{h, 0, h}, Normal: up, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{h, 0, -h}, Normal: up, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{-h, 0, -h}, Normal: up, TexCoord: [2]float32{0, 0}},
	}
	opts := append([]ModelBuilderOption{
		WithName("plane"),
		WithGeometry(vertices, []uint32{0, 1, 2, 0, 2, 3}),
		WithAttributes(mesh.AttribPosition, mesh.AttribNormal, mesh.AttribTexCoord0),
	}, options...)
	return NewModel(opts...)
}
