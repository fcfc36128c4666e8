package common

import (
	"github.com/chewxy/math32"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Identity4 returns a fresh 4x4 identity matrix in column-major order.
//
// Returns:
//   - [16]float32: the identity matrix
func Identity4() [16]float32 {
	var m [16]float32
	Identity(m[:])
	return m
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b
//
// Parameters:
//   - out: destination slice (must be at least 16 elements, may alias a or b)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// MulMVP composes projection * view * model into a single clip transform.
//
// Parameters:
//   - proj: the projection matrix
//   - view: the view (camera) matrix
//   - model: the model (world) matrix
//
// Returns:
//   - [16]float32: the combined clip-space transform
func MulMVP(proj, view, model [16]float32) [16]float32 {
	var out [16]float32
	Mul4(out[:], view[:], model[:])
	Mul4(out[:], proj[:], out[:])
	return out
}

// Upper3 extracts the upper-left 3x3 block of a column-major 4x4 matrix as a
// column-major 3x3 matrix. For a rigid view transform this is its rotation.
//
// Parameters:
//   - m: the source 4x4 matrix
//
// Returns:
//   - [9]float32: the 3x3 block
func Upper3(m [16]float32) [9]float32 {
	return [9]float32{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns a column-major 4x4 translation matrix.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - [16]float32: the translation matrix
func Translation(x, y, z float32) [16]float32 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Perspective creates a perspective projection matrix.
// Uses WebGPU clip space with depth in [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / math32.Tan(fovY/2.0)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll). All matrices are column-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - posX, posY, posZ: translation in world space
//   - rotX, rotY, rotZ: rotation angles in radians around each axis
//   - scaleX, scaleY, scaleZ: scale factors along each axis
func BuildModelMatrix(out []float32, posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ float32) {
	sx, cx := math32.Sincos(rotX)
	sy, cy := math32.Sincos(rotY)
	sz, cz := math32.Sincos(rotZ)

	// R = Ry * Rx * Rz, column-major
	out[0] = (cy*cz + sy*sx*sz) * scaleX
	out[1] = (cx * sz) * scaleX
	out[2] = (-sy*cz + cy*sx*sz) * scaleX
	out[3] = 0

	out[4] = (cy*-sz + sy*sx*cz) * scaleY
	out[5] = (cx * cz) * scaleY
	out[6] = (sy*sz + cy*sx*cz) * scaleY
	out[7] = 0

	out[8] = (sy * cx) * scaleZ
	out[9] = (-sx) * scaleZ
	out[10] = (cy * cx) * scaleZ
	out[11] = 0

	out[12] = posX
	out[13] = posY
	out[14] = posZ
	out[15] = 1
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: camera position in world space
//   - centerX, centerY, centerZ: target point the camera looks at
//   - upX, upY, upZ: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z0, z1, z2 := normalize3(eyeX-centerX, eyeY-centerY, eyeZ-centerZ)
	x0, x1, x2 := normalize3(upY*z2-upZ*z1, upZ*z0-upX*z2, upX*z1-upY*z0)

	y0 := z1*x2 - z2*x1
	y1 := z2*x0 - z0*x2
	y2 := z0*x1 - z1*x0

	out[0], out[4], out[8], out[12] = x0, x1, x2, -(x0*eyeX + x1*eyeY + x2*eyeZ)
	out[1], out[5], out[9], out[13] = y0, y1, y2, -(y0*eyeX + y1*eyeY + y2*eyeZ)
	out[2], out[6], out[10], out[14] = z0, z1, z2, -(z0*eyeX + z1*eyeY + z2*eyeZ)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// normalize3 returns the unit vector of (x, y, z). A zero vector is returned unchanged.
func normalize3(x, y, z float32) (float32, float32, float32) {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return x, y, z
	}
	inv := 1 / l
	return x * inv, y * inv, z * inv
}
