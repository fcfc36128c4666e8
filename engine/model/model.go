package model

import (
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
	"github.com/chewxy/math32"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	attributes     []string
	material       material.Material
	boundingRadius float32
}

// Model is CPU-side indexed triangle geometry plus the material it was authored with.
// The renderer uploads it once; the capability decides which program variant draws it.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices retrieves the vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices retrieves the triangle list indices.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Capability retrieves the set of vertex attributes the geometry actually carries.
	//
	// Returns:
	//   - mesh.Capability: the attribute set
	Capability() mesh.Capability

	// VertexData serializes the vertices for upload.
	//
	// Returns:
	//   - []byte: len(Vertices())*VertexSize bytes
	VertexData() []byte

	// IndexData serializes the indices for upload.
	//
	// Returns:
	//   - []byte: len(Indices())*4 bytes
	IndexData() []byte

	// IndexCount retrieves the number of indices, used for draw calls.
	IndexCount() int

	// BoundingRadius retrieves the distance of the farthest vertex from the model origin.
	BoundingRadius() float32

	// Material retrieves the material the model was authored with, or nil.
	Material() material.Material
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
// Without WithAttributes the model only declares a position attribute.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		attributes: []string{mesh.AttribPosition},
	}
	for _, opt := range options {
		opt(m)
	}
	for _, v := range m.vertices {
		p := v.Position
		m.boundingRadius = max(m.boundingRadius, math32.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) Capability() mesh.Capability {
	return mesh.NewCapability(m.attributes...)
}

func (m *model) VertexData() []byte {
	return marshalVertices(m.vertices)
}

func (m *model) IndexData() []byte {
	return marshalIndices(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Material() material.Material {
	return m.material
}
