package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-phase/common"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up     [3]float32
	target [3]float32

	// orbit position around target
	radius    float32
	azimuth   float32
	elevation float32

	minElevation float32
	maxElevation float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	position         [3]float32
	viewMatrix       [16]float32
	projectionMatrix [16]float32
}

// Camera is a perspective camera orbiting a target point. It supplies the view and
// projection matrices of a frame; matrices are recomputed whenever a setting changes.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Radius returns the distance from the target.
	Radius() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	// Depth maps to [0, 1].
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetAspect sets the aspect ratio, typically on window resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Orbit rotates the camera around its target.
	//
	// Parameters:
	//   - dAzimuth: horizontal angle delta in radians
	//   - dElevation: vertical angle delta in radians, clamped to the elevation bounds
	Orbit(dAzimuth, dElevation float32)

	// SetRadius sets the distance from the target.
	//
	// Parameters:
	//   - radius: the new distance, must be positive
	SetRadius(radius float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera looking at the origin from radius 10 at 30° elevation.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:           &sync.Mutex{},
		up:           [3]float32{0, 1, 0},
		radius:       10,
		elevation:    math32.Pi / 6,
		minElevation: -math32.Pi/2 + 0.05,
		maxElevation: math32.Pi/2 - 0.05,
		fov:          45.0 * (math32.Pi / 180.0),
		aspect:       1.0,
		near:         0.1,
		far:          100.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position[0], c.position[1], c.position[2]
}

func (c *cameraImpl) Target() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target[0], c.target[1], c.target[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Radius() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Orbit(dAzimuth, dElevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuth = math32.Mod(c.azimuth+dAzimuth, 2*math32.Pi)
	c.elevation = min(max(c.elevation+dElevation, c.minElevation), c.maxElevation)
	c.updateMatrices()
}

func (c *cameraImpl) SetRadius(radius float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if radius > 0 {
		c.radius = radius
	}
	c.updateMatrices()
}

// updateMatrices recomputes the position from the orbit angles, then the view and
// projection matrices. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	sinElev, cosElev := math32.Sincos(c.elevation)
	sinAzim, cosAzim := math32.Sincos(c.azimuth)

	c.position[0] = c.target[0] + c.radius*cosElev*sinAzim
	c.position[1] = c.target[1] + c.radius*sinElev
	c.position[2] = c.target[2] + c.radius*cosElev*cosAzim

	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
}
