package camera

import (
	"errors"
	"math"
	"sync"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// pitchEpsilon keeps pitch strictly inside (-pi/2, pi/2) so the forward
// vector never becomes collinear with the world up direction.
const pitchEpsilon = 1e-4

// pitchLimit is the inclusive clamp bound applied by Rotate.
const pitchLimit = float32(math.Pi/2) - pitchEpsilon

// ErrSingularViewMatrix is returned when the view matrix cannot be inverted.
// With the orthonormal basis construction this should never occur for a
// validly constructed camera; it exists to surface the degenerate case
// instead of silently producing a zero matrix.
var ErrSingularViewMatrix = errors.New("camera: view matrix is singular")

// ErrInvalidDirection is returned by NewCamera when a supplied direction
// vector (forward reference or world up) has near-zero length.
var ErrInvalidDirection = errors.New("camera: direction vector must have non-zero length")

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	id uuid.UUID

	position mgl32.Vec3
	yawRad   float32
	pitchRad float32

	// forwardRef is the horizontal reference direction that disambiguates
	// yaw = 0. worldUp is the axis yaw rotates about. Both are normalized
	// at construction.
	forwardRef mgl32.Vec3
	worldUp    mgl32.Vec3

	// fx/fy and fovY are mutually exclusive: setting one clears the other.
	// fovY != 0 means focal lengths are derived from the vertical FOV.
	fx, fy float32
	fovY   float32

	width  float32
	height float32
	near   float32
	far    float32

	// Derived state, computed lazily and invalidated by any mutation of the
	// fields it depends on.
	rotValid  bool
	rotation  mgl32.Mat3
	viewValid bool
	view      mgl32.Mat4
	projValid bool
	proj      mgl32.Mat4
}

// Camera models a yaw/pitch parametric camera and derives view and
// projection matrices on demand. Derived matrices are cached and lazily
// recomputed after any mutation. All methods are safe for concurrent use.
//
// Conventions: matrices are column-major. The rotation matrix holds the
// camera basis (right, up, forward) as columns; the view matrix is the
// world-to-camera transform built from that basis, so forward maps to +z
// and the third row of the view-projection product is the camera-space
// depth row used for splat ordering.
type Camera interface {
	// ID returns the camera's opaque identifier.
	//
	// Returns:
	//   - uuid.UUID: the camera id
	ID() uuid.UUID

	// Position returns the camera position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the camera to the given world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Translate offsets the camera position by delta in world space.
	//
	// Parameters:
	//   - delta: the world-space offset
	Translate(delta mgl32.Vec3)

	// Yaw returns the current yaw angle in radians.
	//
	// Returns:
	//   - float32: yaw in radians
	Yaw() float32

	// Pitch returns the current pitch angle in radians. Always inside
	// (-pi/2+eps, pi/2-eps).
	//
	// Returns:
	//   - float32: pitch in radians
	Pitch() float32

	// Rotate adds dYaw to the yaw angle and dPitch to the pitch angle,
	// clamping pitch to (-pi/2+eps, pi/2-eps). Any sequence of Rotate calls
	// keeps the pitch invariant.
	//
	// Parameters:
	//   - dYaw: yaw delta in radians
	//   - dPitch: pitch delta in radians
	Rotate(dYaw, dPitch float32)

	// Focal returns the effective focal lengths in pixels. When a target
	// vertical FOV is set, the focal lengths are derived from it and the
	// current viewport.
	//
	// Returns:
	//   - fx, fy: focal lengths in pixels
	Focal() (fx, fy float32)

	// SetFocal stores explicit focal lengths and clears any target vertical
	// FOV previously set.
	//
	// Parameters:
	//   - fx, fy: focal lengths in pixels
	SetFocal(fx, fy float32)

	// VerticalFOV returns the target vertical field of view in radians, or
	// 0 when explicit focal lengths are in effect.
	//
	// Returns:
	//   - float32: the vertical FOV in radians, or 0
	VerticalFOV() float32

	// SetVerticalFOV stores a target vertical field of view and clears any
	// explicit focal lengths previously set.
	//
	// Parameters:
	//   - fovRad: vertical field of view in radians
	SetVerticalFOV(fovRad float32)

	// Viewport returns the camera's viewport size in pixels.
	//
	// Returns:
	//   - width, height: viewport size in pixels
	Viewport() (width, height float32)

	// SetViewport resizes the camera's viewport.
	//
	// Parameters:
	//   - width, height: new viewport size in pixels
	SetViewport(width, height float32)

	// ClipPlanes returns the near and far clip plane distances.
	//
	// Returns:
	//   - near, far: clip plane distances
	ClipPlanes() (near, far float32)

	// SetClipPlanes sets the near and far clip plane distances.
	//
	// Parameters:
	//   - near, far: clip plane distances (near > 0, far > near)
	SetClipPlanes(near, far float32)

	// RotationMatrix returns the orthonormal camera basis with right, up,
	// and forward as columns. The basis is roll-free for every yaw/pitch
	// pair: the forward reference is rotated about the world up by yaw,
	// tilted toward the world up by pitch, and completed with cross
	// products (with a canonical-axis fallback when forward is parallel to
	// the world up).
	//
	// Returns:
	//   - mgl32.Mat3: the camera basis
	RotationMatrix() mgl32.Mat3

	// ViewMatrix returns the world-to-camera transform derived from the
	// rotation basis and position.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// CameraToWorldMatrix returns the inverse of the view matrix (the
	// camera pose). It fails only on a degenerate view matrix, which the
	// orthonormal construction should never produce.
	//
	// Returns:
	//   - mgl32.Mat4: the camera-to-world matrix
	//   - error: ErrSingularViewMatrix if the view matrix is not invertible
	CameraToWorldMatrix() (mgl32.Mat4, error)

	// ProjectionMatrix returns the WebGPU-clip perspective projection built
	// from the effective focal lengths, viewport, and clip planes.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns ProjectionMatrix() * ViewMatrix().
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the provided options. Defaults: origin
// position, zero yaw/pitch, forward reference -Z, world up +Y, 60 degree
// vertical FOV, 1280x720 viewport, near 0.1, far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the configured camera
//   - error: ErrInvalidDirection if a direction option supplied a
//     near-zero-length vector
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		id:         uuid.New(),
		forwardRef: mgl32.Vec3{0, 0, -1},
		worldUp:    mgl32.Vec3{0, 1, 0},
		fovY:       float32(60 * math.Pi / 180),
		width:      1280,
		height:     720,
		near:       0.1,
		far:        1000,
	}
	for _, opt := range options {
		opt(c)
	}

	if c.forwardRef.Len() < common.Epsilon || c.worldUp.Len() < common.Epsilon {
		return nil, ErrInvalidDirection
	}
	c.forwardRef = c.forwardRef.Normalize()
	c.worldUp = c.worldUp.Normalize()
	c.pitchRad = clampPitch(c.pitchRad)

	return c, nil
}

func (c *cameraImpl) ID() uuid.UUID {
	return c.id
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.viewValid = false
}

func (c *cameraImpl) Translate(delta mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(delta)
	c.viewValid = false
}

func (c *cameraImpl) Yaw() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yawRad
}

func (c *cameraImpl) Pitch() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pitchRad
}

func (c *cameraImpl) Rotate(dYaw, dPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yawRad += dYaw
	c.pitchRad = clampPitch(c.pitchRad + dPitch)
	c.rotValid = false
	c.viewValid = false
}

func (c *cameraImpl) Focal() (fx, fy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focalLocked()
}

func (c *cameraImpl) SetFocal(fx, fy float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fx = fx
	c.fy = fy
	c.fovY = 0
	c.projValid = false
}

func (c *cameraImpl) VerticalFOV() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fovY
}

func (c *cameraImpl) SetVerticalFOV(fovRad float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fovY = fovRad
	c.fx = 0
	c.fy = 0
	c.projValid = false
}

func (c *cameraImpl) Viewport() (width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *cameraImpl) SetViewport(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.height = height
	c.projValid = false
}

func (c *cameraImpl) ClipPlanes() (near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near, c.far
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
	c.projValid = false
}

func (c *cameraImpl) RotationMatrix() mgl32.Mat3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotationLocked()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *cameraImpl) CameraToWorldMatrix() (mgl32.Mat4, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := c.viewLocked()
	if view.Det() == 0 {
		return mgl32.Mat4{}, ErrSingularViewMatrix
	}
	return view.Inv(), nil
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionLocked()
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionLocked().Mul4(c.viewLocked())
}

// focalLocked resolves the effective focal lengths. Caller must hold mu.
func (c *cameraImpl) focalLocked() (fx, fy float32) {
	if c.fovY != 0 {
		return common.FocalFromFOV(c.fovY, c.width, c.height)
	}
	return c.fx, c.fy
}

// rotationLocked returns the cached basis, rebuilding it if a mutation
// invalidated it. Caller must hold mu.
func (c *cameraImpl) rotationLocked() mgl32.Mat3 {
	if !c.rotValid {
		c.rotation = c.buildRotation()
		c.rotValid = true
	}
	return c.rotation
}

// buildRotation derives the roll-free orthonormal basis from yaw and pitch.
func (c *cameraImpl) buildRotation() mgl32.Mat3 {
	horizontal := c.forwardRef
	if abs32(c.yawRad) > common.Epsilon {
		horizontal = common.RotateAboutAxis(horizontal, c.worldUp, c.yawRad)
	}

	sin, cos := math.Sincos(float64(c.pitchRad))
	forward := horizontal.Mul(float32(cos)).Add(c.worldUp.Mul(float32(sin))).Normalize()

	right := c.worldUp.Cross(forward)
	if right.Len() < common.Epsilon {
		// forward is parallel to the world up; pick the canonical axis that
		// is least aligned with it.
		right = common.LeastParallelAxis(forward)
	}
	right = right.Normalize()
	up := forward.Cross(right).Normalize()

	return mgl32.Mat3FromCols(right, up, forward)
}

// viewLocked returns the cached world-to-camera matrix. Caller must hold mu.
func (c *cameraImpl) viewLocked() mgl32.Mat4 {
	if !c.viewValid {
		rot := c.rotationLocked()
		right, up, forward := rot.Col(0), rot.Col(1), rot.Col(2)
		p := c.position
		c.view = mgl32.Mat4{
			right.X(), up.X(), forward.X(), 0,
			right.Y(), up.Y(), forward.Y(), 0,
			right.Z(), up.Z(), forward.Z(), 0,
			-right.Dot(p), -up.Dot(p), -forward.Dot(p), 1,
		}
		c.viewValid = true
	}
	return c.view
}

// projectionLocked returns the cached projection matrix. Caller must hold mu.
func (c *cameraImpl) projectionLocked() mgl32.Mat4 {
	if !c.projValid {
		fx, fy := c.focalLocked()
		c.proj = common.PerspectiveFromFocal(fx, fy, c.width, c.height, c.near, c.far)
		c.projValid = true
	}
	return c.proj
}

func clampPitch(pitch float32) float32 {
	if pitch > pitchLimit {
		return pitchLimit
	}
	if pitch < -pitchLimit {
		return -pitchLimit
	}
	return pitch
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
