// Package common contains shared math conventions and plain data types used
// throughout the runtime. All matrices are column-major (WebGPU convention),
// expressed as mgl32 value types.
package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the tolerance used for near-zero and near-parallel checks in
// basis construction.
const Epsilon = 1e-6

// RotateAboutAxis rotates v about the (unit) axis by angle radians using
// Rodrigues' rotation formula.
//
// Parameters:
//   - v: the vector to rotate
//   - axis: the rotation axis (must be unit length)
//   - angle: rotation angle in radians
//
// Returns:
//   - mgl32.Vec3: the rotated vector
func RotateAboutAxis(v, axis mgl32.Vec3, angle float32) mgl32.Vec3 {
	sin := float32(math.Sin(float64(angle)))
	cos := float32(math.Cos(float64(angle)))

	term1 := v.Mul(cos)
	term2 := axis.Cross(v).Mul(sin)
	term3 := axis.Mul(axis.Dot(v) * (1 - cos))
	return term1.Add(term2).Add(term3)
}

// LeastParallelAxis returns the canonical axis ([1,0,0] or [0,1,0]) that is
// least parallel to v. Used as a fallback when a cross product degenerates
// because two basis directions are parallel.
//
// Parameters:
//   - v: the direction to compare against
//
// Returns:
//   - mgl32.Vec3: the canonical axis least aligned with v
func LeastParallelAxis(v mgl32.Vec3) mgl32.Vec3 {
	x := mgl32.Vec3{1, 0, 0}
	y := mgl32.Vec3{0, 1, 0}
	if abs32(v.Dot(x)) <= abs32(v.Dot(y)) {
		return x
	}
	return y
}

// PerspectiveFromFocal builds a perspective projection matrix from focal
// lengths in pixels. The matrix targets WebGPU clip space (z in [0,1]) and
// places camera-space z in the w component, so the third row of any
// view-projection product is the camera-space depth row.
//
// Parameters:
//   - fx, fy: horizontal and vertical focal lengths in pixels
//   - width, height: viewport size in pixels
//   - near, far: clip plane distances (near > 0, far > near)
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func PerspectiveFromFocal(fx, fy, width, height, near, far float32) mgl32.Mat4 {
	return mgl32.Mat4{
		2 * fx / width, 0, 0, 0,
		0, -2 * fy / height, 0, 0,
		0, 0, far / (far - near), 1,
		0, 0, -far * near / (far - near), 0,
	}
}

// FocalFromFOV derives pixel focal lengths from a target vertical field of
// view. The horizontal focal length comes from converting the vertical FOV
// to a horizontal FOV through the aspect ratio, then applying the standard
// focal formula (for square pixels the two collapse to the same value).
//
// Parameters:
//   - fovYRad: vertical field of view in radians
//   - width, height: viewport size in pixels
//
// Returns:
//   - fx, fy: focal lengths in pixels
func FocalFromFOV(fovYRad, width, height float32) (fx, fy float32) {
	tanHalf := float32(math.Tan(float64(fovYRad) / 2))
	fy = height / (2 * tanHalf)

	aspect := width / height
	hfov := 2 * float32(math.Atan(float64(tanHalf*aspect)))
	fx = width / (2 * float32(math.Tan(float64(hfov)/2)))
	return fx, fy
}

// DepthRow extracts the camera-space depth row of a column-major
// view-projection matrix: the three entries that, dotted with a world
// position, produce the projective depth used for ordering.
//
// Parameters:
//   - viewProj: the view-projection matrix
//
// Returns:
//   - [3]float32: the x, y, z coefficients of the depth row
func DepthRow(viewProj mgl32.Mat4) [3]float32 {
	return [3]float32{viewProj[2], viewProj[6], viewProj[10]}
}

// DepthRowDistance returns the Euclidean distance between two depth rows.
// Used by the sort skip heuristic to detect a camera that has barely moved.
//
// Parameters:
//   - a, b: the depth rows to compare
//
// Returns:
//   - float32: the Euclidean distance
func DepthRowDistance(a, b [3]float32) float32 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
