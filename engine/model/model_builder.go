package model

import (
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithGeometry is an option builder that sets the vertices and triangle list indices.
//
// Parameters:
//   - vertices: the vertex list
//   - indices: three indices per triangle
//
// Returns:
//   - ModelBuilderOption: a function that applies the geometry option to a model
func WithGeometry(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithAttributes is an option builder that declares which vertex attributes carry data.
// See the mesh package for the attribute names.
//
// Parameters:
//   - attributes: the attribute names
//
// Returns:
//   - ModelBuilderOption: a function that applies the attributes option to a model
func WithAttributes(attributes ...string) ModelBuilderOption {
	return func(m *model) {
		m.attributes = attributes
	}
}

// WithMaterial is an option builder that sets the authored material of the Model.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material option to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}
