package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option used to configure a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - CameraBuilderOption: a function that sets the position
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithYawPitch sets the camera's initial yaw and pitch angles in radians.
// Pitch is clamped to the camera's pitch invariant during construction.
//
// Parameters:
//   - yawRad: yaw angle in radians
//   - pitchRad: pitch angle in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets yaw and pitch
func WithYawPitch(yawRad, pitchRad float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yawRad = yawRad
		c.pitchRad = pitchRad
	}
}

// WithForwardReference sets the horizontal reference direction that
// disambiguates yaw = 0. Normalized during construction.
//
// Parameters:
//   - forward: the reference direction (must have non-zero length)
//
// Returns:
//   - CameraBuilderOption: a function that sets the forward reference
func WithForwardReference(forward mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.forwardRef = forward
	}
}

// WithWorldUp sets the world up axis yaw rotates about. Normalized during
// construction.
//
// Parameters:
//   - up: the world up direction (must have non-zero length)
//
// Returns:
//   - CameraBuilderOption: a function that sets the world up axis
func WithWorldUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.worldUp = up
	}
}

// WithFocal sets explicit focal lengths in pixels, clearing the default
// vertical FOV.
//
// Parameters:
//   - fx, fy: focal lengths in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the focal lengths
func WithFocal(fx, fy float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fx = fx
		c.fy = fy
		c.fovY = 0
	}
}

// WithVerticalFOV sets a target vertical field of view in radians, clearing
// any explicit focal lengths.
//
// Parameters:
//   - fovRad: vertical field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the vertical FOV
func WithVerticalFOV(fovRad float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fovY = fovRad
		c.fx = 0
		c.fy = 0
	}
}

// WithViewport sets the viewport size in pixels.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport size
func WithViewport(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.width = width
		c.height = height
	}
}

// WithClipPlanes sets the near and far clip plane distances.
//
// Parameters:
//   - near, far: clip plane distances (near > 0, far > near)
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}
