package target

import (
	"fmt"
	"sync"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// stereoViewCount is fixed: one view per eye, side by side.
const stereoViewCount = 2

// stereoTarget is the implementation of StereoTarget.
type stereoTarget struct {
	mu *sync.Mutex

	// width/height span the whole device framebuffer; each eye gets the
	// left or right half.
	width, height int

	anchor mgl32.Mat4

	views    []ViewInfo
	inFrame  bool
	disposed bool
}

// StereoTarget renders into a device-managed side-by-side framebuffer with
// one view per eye. Every frame requires a FrameToken carrying the per-eye
// projections and camera-to-world poses reported by the device; the target
// applies the world-anchor transform to each pose and inverts it into the
// view matrix.
type StereoTarget interface {
	RenderTarget

	// SetWorldAnchor replaces the transform re-rooting the device tracking
	// space in the world. Takes effect on the next BeginFrame.
	//
	// Parameters:
	//   - anchor: the anchor transform
	SetWorldAnchor(anchor mgl32.Mat4)
}

var _ StereoTarget = &stereoTarget{}

// NewStereoTarget creates a StereoTarget configured with the given options.
//
// Parameters:
//   - options: functional options to configure the target
//
// Returns:
//   - StereoTarget: the newly created target
func NewStereoTarget(options ...StereoTargetBuilderOption) StereoTarget {
	t := &stereoTarget{
		mu:     &sync.Mutex{},
		width:  2064,
		height: 1104,
		anchor: mgl32.Ident4(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *stereoTarget) BeginFrame(frame *FrameToken) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return ErrDisposed
	}
	if t.inFrame {
		return ErrFrameInProgress
	}
	if frame == nil {
		return ErrMissingFrameToken
	}
	if len(frame.Projections) != stereoViewCount || len(frame.Poses) != stereoViewCount {
		return fmt.Errorf("%w: want %d projections and poses, got %d and %d",
			ErrMalformedFrameToken, stereoViewCount, len(frame.Projections), len(frame.Poses))
	}

	anchor := frame.WorldAnchor
	if anchor == (mgl32.Mat4{}) {
		anchor = t.anchor
	}

	eyeWidth := float32(t.width) / stereoViewCount
	views := make([]ViewInfo, 0, stereoViewCount)
	for eye := 0; eye < stereoViewCount; eye++ {
		pose := anchor.Mul4(frame.Poses[eye])
		proj := frame.Projections[eye]

		// Pixel focals recovered from the projection's diagonal; the sign of
		// the y entry depends on the device's clip convention.
		fx := abs32(proj[0]) * eyeWidth / 2
		fy := abs32(proj[5]) * float32(t.height) / 2

		views = append(views, ViewInfo{
			Projection: proj,
			View:       pose.Inv(),
			Viewport: common.Viewport{
				X:      float32(eye) * eyeWidth,
				Width:  eyeWidth,
				Height: float32(t.height),
			},
			Fx: fx,
			Fy: fy,
		})
	}

	t.views = views
	t.inFrame = true
	return nil
}

func (t *stereoTarget) Views() []ViewInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inFrame {
		return nil
	}
	return t.views
}

func (t *stereoTarget) BindFramebuffer(pass *wgpu.RenderPassEncoder, view int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if view < 0 || view >= len(t.views) {
		return
	}
	vp := t.views[view].Viewport
	pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
}

func (t *stereoTarget) EndFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFrame = false
	t.views = nil
}

func (t *stereoTarget) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *stereoTarget) SetWorldAnchor(anchor mgl32.Mat4) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.anchor = anchor
}

func (t *stereoTarget) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
	t.inFrame = false
	t.views = nil
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
