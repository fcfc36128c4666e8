package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/Carmen-Shannon/oxy-phase/engine/light"
	"github.com/Carmen-Shannon/oxy-phase/engine/mesh"
	"github.com/Carmen-Shannon/oxy-phase/engine/pipeline"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-phase/engine/renderer/material"
)

type gameObject struct {
	id            uint64
	enabled       atomic.Bool
	gpuMesh       renderer.Mesh
	material      material.Material
	attachedLight light.Light

	mu            sync.RWMutex
	position      [3]float32
	rotation      [3]float32
	rotationSpeed [3]float32
	scale         [3]float32
}

// GameObject is a scene entity: uploaded geometry drawn with a material under a
// position/rotation/scale transform. It satisfies pipeline.Entity, so the render pipeline
// classifies it directly, and renderer.MeshSource, so the renderer can draw it.
//
// An attached light follows the object's position on every Update.
type GameObject interface {
	pipeline.Entity
	renderer.MeshSource

	// ID retrieves the unique identifier assigned by the scene.
	//
	// Returns:
	//   - uint64: the ID
	ID() uint64

	// Enabled reports whether the object is handed to the render pipeline.
	//
	// Returns:
	//   - bool: true if the object is drawn
	Enabled() bool

	// Position retrieves the world-space translation.
	Position() (x, y, z float32)

	// Rotation retrieves the rotation angles in radians.
	Rotation() (rx, ry, rz float32)

	// RotationSpeed retrieves the angular velocity in radians per second applied by Update.
	RotationSpeed() (rx, ry, rz float32)

	// Scale retrieves the scale factors.
	Scale() (sx, sy, sz float32)

	// SetID sets the unique identifier.
	//
	// Parameters:
	//   - id: the ID
	SetID(id uint64)

	// SetEnabled enables or disables drawing.
	//
	// Parameters:
	//   - enabled: false hides the object without removing it from the scene
	SetEnabled(enabled bool)

	// SetGPUMesh replaces the drawn geometry.
	//
	// Parameters:
	//   - m: the uploaded mesh
	SetGPUMesh(m renderer.Mesh)

	// SetMaterial replaces the material.
	//
	// Parameters:
	//   - mat: the material
	SetMaterial(mat material.Material)

	// SetPosition sets the world-space translation.
	SetPosition(x, y, z float32)

	// SetRotation sets the rotation angles in radians.
	SetRotation(rx, ry, rz float32)

	// SetRotationSpeed sets the angular velocity in radians per second.
	SetRotationSpeed(rx, ry, rz float32)

	// SetScale sets the scale factors.
	SetScale(sx, sy, sz float32)

	// Light retrieves the attached light, or nil.
	//
	// Returns:
	//   - light.Light: the attached light
	Light() light.Light

	// SetLight attaches a light that follows the object; nil detaches it.
	//
	// Parameters:
	//   - l: the light
	SetLight(l light.Light)

	// Update advances the rotation by dt seconds of rotation speed and moves the attached light.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject. Defaults: enabled, unit scale, at the origin.
//
// Parameters:
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.syncLight()
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Mesh() mesh.Capability {
	if g.gpuMesh == nil {
		return mesh.Capability{}
	}
	return g.gpuMesh.Capability()
}

func (g *gameObject) GPUMesh() renderer.Mesh {
	return g.gpuMesh
}

func (g *gameObject) Material() material.Material {
	return g.material
}

func (g *gameObject) Transform() [16]float32 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var m [16]float32
	common.BuildModelMatrix(m[:],
		g.position[0], g.position[1], g.position[2],
		g.rotation[0], g.rotation[1], g.rotation[2],
		g.scale[0], g.scale[1], g.scale[2],
	)
	return m
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetGPUMesh(m renderer.Mesh) {
	g.gpuMesh = m
}

func (g *gameObject) SetMaterial(mat material.Material) {
	g.material = mat
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	g.position = [3]float32{x, y, z}
	g.mu.Unlock()
	g.syncLight()
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) SetLight(l light.Light) {
	g.attachedLight = l
	g.syncLight()
}

func (g *gameObject) Update(dt float32) {
	g.mu.Lock()
	for i := range g.rotation {
		g.rotation[i] += g.rotationSpeed[i] * dt
	}
	g.mu.Unlock()
	g.syncLight()
}

// syncLight moves the attached light to the object's position.
func (g *gameObject) syncLight() {
	if g.attachedLight == nil {
		return
	}
	x, y, z := g.Position()
	g.attachedLight.SetPosition(x, y, z, 1)
}
