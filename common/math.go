// Package common contains the plain value types shared by the vertex stage
// and its hosts: single-precision vectors and column-major 4x4 matrices in
// the OpenGL/WebGPU convention, plus the matrix builders a host needs to
// fill the transform uniform block each frame.
package common

import "math"

// Vec2 is a 2-component single-precision vector.
type Vec2 [2]float32

// Vec3 is a 3-component single-precision vector.
type Vec3 [3]float32

// Vec4 is a 4-component single-precision vector.
type Vec4 [4]float32

// Mat4 is a 4x4 single-precision matrix stored in column-major order:
// element (row, col) lives at index col*4 + row. This matches the memory
// layout of a WGSL mat4x4<f32> so a Mat4 can be uploaded verbatim.
type Mat4 [16]float32

// Vec4 promotes a Vec3 to homogeneous form with the given fourth component.
//
// Parameters:
//   - w: the homogeneous coordinate to append (1.0 for positions, 0.0 for directions)
//
// Returns:
//   - Vec4: (v.x, v.y, v.z, w)
func (v Vec3) Vec4(w float32) Vec4 {
	return Vec4{v[0], v[1], v[2], w}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(u Vec3) float32 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Cross returns the cross product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		v[1]*u[2] - v[2]*u[1],
		v[2]*u[0] - v[0]*u[2],
		v[0]*u[1] - v[1]*u[0],
	}
}

// Normalize returns the unit-length vector pointing in the same direction.
// A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	lenSq := float64(v.Dot(v))
	if lenSq == 0 {
		return v
	}
	inv := float32(1.0 / math.Sqrt(lenSq))
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Mat4Identity returns the 4x4 identity matrix.
func Mat4Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Mul multiplies two matrices and returns m * n, so that applying the result
// to a vector is equivalent to applying n first and m second.
//
// Parameters:
//   - n: the right-hand matrix
//
// Returns:
//   - Mat4: the product m * n
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ { // column of n
		for j := 0; j < 4; j++ { // row of m
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += m[k*4+j] * n[i*4+k]
			}
			out[i*4+j] = sum
		}
	}
	return out
}

// MulVec4 applies the matrix to a homogeneous vector and returns m * v.
//
// Parameters:
//   - v: the column vector to transform
//
// Returns:
//   - Vec4: the transformed vector
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for j := 0; j < 4; j++ {
		out[j] = m[j]*v[0] + m[4+j]*v[1] + m[8+j]*v[2] + m[12+j]*v[3]
	}
	return out
}

// Translate returns a matrix that translates by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Mat4Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a matrix that scales by (x, y, z) along the principal axes.
func Scale(x, y, z float32) Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = x, y, z, 1
	return m
}

// Rotate returns a matrix rotating by angle radians around the given axis.
// The axis is normalized internally; rotation follows the right-hand rule.
//
// Parameters:
//   - angle: rotation angle in radians
//   - axis: rotation axis (need not be unit length)
//
// Returns:
//   - Mat4: the rotation matrix
func Rotate(angle float32, axis Vec3) Mat4 {
	a := axis.Normalize()
	c := float32(math.Cos(float64(angle)))
	s := float32(math.Sin(float64(angle)))
	t := 1 - c
	x, y, z := a[0], a[1], a[2]

	var m Mat4
	m[0] = t*x*x + c
	m[1] = t*x*y + s*z
	m[2] = t*x*z - s*y

	m[4] = t*x*y - s*z
	m[5] = t*y*y + c
	m[6] = t*y*z + s*x

	m[8] = t*x*z + s*y
	m[9] = t*y*z - s*x
	m[10] = t*z*z + c

	m[15] = 1
	return m
}

// Perspective creates a perspective projection matrix mapping view space to
// clip space with depth in [0, 1] (the WebGPU/wgpu convention).
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// LookAt creates a view matrix transforming world coordinates into the
// camera's view space.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up direction defining the camera roll (typically {0, 1, 0})
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := Vec3{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]}.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	var m Mat4
	m[0], m[4], m[8], m[12] = x[0], x[1], x[2], -x.Dot(eye)
	m[1], m[5], m[9], m[13] = y[0], y[1], y[2], -y.Dot(eye)
	m[2], m[6], m[10], m[14] = z[0], z[1], z[2], -z.Dot(eye)
	m[15] = 1
	return m
}

// ComposeTransform constructs a model matrix from position, Euler rotation,
// and per-axis scale. The rotation order is Y * X * Z (yaw-pitch-roll).
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - Mat4: the composed model matrix
func ComposeTransform(pos, rot, scale Vec3) Mat4 {
	cx := float32(math.Cos(float64(rot[0])))
	sx := float32(math.Sin(float64(rot[0])))
	cy := float32(math.Cos(float64(rot[1])))
	sy := float32(math.Sin(float64(rot[1])))
	cz := float32(math.Cos(float64(rot[2])))
	sz := float32(math.Sin(float64(rot[2])))

	var m Mat4

	// R = Ry * Rx * Rz, column-major
	m[0] = (cy*cz + sy*sx*sz) * scale[0]
	m[1] = (cx * sz) * scale[0]
	m[2] = (-sy*cz + cy*sx*sz) * scale[0]

	m[4] = (cy*-sz + sy*sx*cz) * scale[1]
	m[5] = (cx * cz) * scale[1]
	m[6] = (sy*sz + cy*sx*cz) * scale[1]

	m[8] = (sy * cx) * scale[2]
	m[9] = (-sx) * scale[2]
	m[10] = (cy * cx) * scale[2]

	m[12] = pos[0]
	m[13] = pos[1]
	m[14] = pos[2]
	m[15] = 1
	return m
}

// Invert computes the inverse of the matrix using the Laplace expansion
// (cofactor) method. If the matrix is singular (determinant ≈ 0) the zero
// matrix is returned along with false.
//
// Returns:
//   - Mat4: the inverse, or the zero matrix if singular
//   - bool: true if the matrix was successfully inverted
func (m Mat4) Invert() (Mat4, bool) {
	// 2x2 sub-determinants of the upper-left and lower-right quadrants.
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Mat4{}, false
	}

	invDet := 1.0 / det

	var out Mat4
	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * invDet
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * invDet
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * invDet
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * invDet

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * invDet
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * invDet
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * invDet
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * invDet

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * invDet
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * invDet
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * invDet
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * invDet

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * invDet
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * invDet
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * invDet
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * invDet

	return out, true
}
