// Package target abstracts where a frame's views come from and where its
// pixels go: a desktop window with one view, or a stereo device framebuffer
// with one view per eye. The pipeline renders against the RenderTarget
// interface and never knows which one it has.
package target

import (
	"errors"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDisposed is returned when a frame is begun on a disposed target.
	ErrDisposed = errors.New("render target disposed")

	// ErrFrameInProgress is returned when BeginFrame is called while a frame
	// is already active.
	ErrFrameInProgress = errors.New("frame already in progress")

	// ErrMissingFrameToken is returned by targets that cannot derive their
	// views without per-frame device data.
	ErrMissingFrameToken = errors.New("frame token required")

	// ErrMalformedFrameToken is returned when a frame token does not carry
	// the per-view data the target expects.
	ErrMalformedFrameToken = errors.New("malformed frame token")

	// ErrSurfaceConfiguration wraps a failed surface reconfiguration during
	// a resize negotiation.
	ErrSurfaceConfiguration = errors.New("surface configuration failed")
)

// FrameToken carries the per-frame device data a stereo target derives its
// views from: one projection matrix and one camera-to-world pose per eye,
// plus the world-anchor transform the host wants applied to both poses.
type FrameToken struct {
	// Projections holds one clip projection per view, in view order.
	Projections []mgl32.Mat4

	// Poses holds one camera-to-world pose per view, in view order.
	Poses []mgl32.Mat4

	// WorldAnchor re-roots the device tracking space in the world. Zero
	// value means identity.
	WorldAnchor mgl32.Mat4
}

// ViewInfo describes one view of the current frame. Instances are built
// fresh by BeginFrame (or pushed in by the pipeline for window targets) and
// are read-only downstream.
type ViewInfo struct {
	// Projection is the clip projection for this view.
	Projection mgl32.Mat4

	// View is the world-to-camera matrix for this view.
	View mgl32.Mat4

	// Viewport is the framebuffer region this view draws into.
	Viewport common.Viewport

	// Fx, Fy are the pixel focal lengths, used to size splat quads.
	Fx, Fy float32
}

// RenderTarget is one destination for rendered frames.
//
// State machine: Idle -> BeginFrame -> views available -> EndFrame -> Idle.
// A failed BeginFrame leaves the target Idle with no side effects.
type RenderTarget interface {
	// BeginFrame starts a frame, deriving this frame's views. Targets that
	// need no device data accept a nil token.
	//
	// Parameters:
	//   - frame: per-frame device data, or nil
	//
	// Returns:
	//   - error: nil on success; the target stays Idle on failure
	BeginFrame(frame *FrameToken) error

	// Views returns this frame's views in draw order. Empty outside an
	// active frame.
	//
	// Returns:
	//   - []ViewInfo: the views
	Views() []ViewInfo

	// BindFramebuffer points the render pass at the framebuffer region of
	// one view.
	//
	// Parameters:
	//   - pass: the active render pass
	//   - view: index into Views()
	BindFramebuffer(pass *wgpu.RenderPassEncoder, view int)

	// EndFrame closes the active frame and returns the target to Idle.
	EndFrame()

	// Size returns the framebuffer size in pixels.
	//
	// Returns:
	//   - width, height: the framebuffer dimensions
	Size() (width, height int)

	// Dispose releases target resources. The target rejects frames
	// afterwards.
	Dispose()
}

// ViewPusher is implemented by targets whose view matrices come from the
// pipeline's camera rather than from device data. The pipeline pushes the
// camera-derived view between BeginFrame and the first draw.
type ViewPusher interface {
	// PushView supplies the single view of the active frame.
	//
	// Parameters:
	//   - projection: the clip projection
	//   - view: the world-to-camera matrix
	//   - fx, fy: pixel focal lengths
	PushView(projection, view mgl32.Mat4, fx, fy float32)
}
