package game_object

import (
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
//
// Parameters:
//   - enabled: true to render the object, false to skip it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithGPUMesh sets the uploaded geometry the GameObject draws.
//
// Parameters:
//   - m: the mesh returned by Renderer.UploadModel
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mesh
func WithGPUMesh(m renderer.Mesh) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.gpuMesh = m
	}
}

// WithMaterial sets the material the GameObject is drawn with.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the material
func WithMaterial(mat material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.material = mat
	}
}

// WithPosition sets the initial world-space translation.
//
// Parameters:
//   - x, y, z: the translation
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial rotation angles in radians.
//
// Parameters:
//   - rx, ry, rz: rotation around each axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}

// WithRotationSpeed sets the angular velocity in radians per second.
//
// Parameters:
//   - rx, ry, rz: angular velocity around each axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial scale factors.
//
// Parameters:
//   - sx, sy, sz: scale along each axis
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithLight attaches a light that follows the GameObject.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the light
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}
