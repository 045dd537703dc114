package target

import (
	"fmt"
	"sync"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// windowTarget is the implementation of WindowTarget.
type windowTarget struct {
	mu *sync.Mutex

	// displayWidth/Height are the window's logical size; backingWidth/Height
	// are the surface size in physical pixels. The initial backing size is
	// the logical size times the content scale; resize events carry pixels
	// directly. The two diverge on high-DPI displays.
	displayWidth, displayHeight int
	backingWidth, backingHeight int
	contentScale                float32

	// pendingResize defers surface reconfiguration to the next BeginFrame so
	// resize events arriving mid-frame never reconfigure a surface the
	// current frame is drawing to.
	pendingResize bool
	reconfigure   func(width, height int) error

	inFrame  bool
	disposed bool

	view    ViewInfo
	hasView bool
}

// WindowTarget is the single-view render target backed by a desktop window
// surface. Its view matrices are pushed in by the pipeline each frame from
// the active camera; BeginFrame only negotiates the backing-store size.
type WindowTarget interface {
	RenderTarget
	ViewPusher

	// Resize records a new framebuffer size, as delivered by the window's
	// resize callback. The surface is reconfigured on the next BeginFrame.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in physical pixels
	Resize(width, height int)
}

var _ WindowTarget = &windowTarget{}

// NewWindowTarget creates a WindowTarget configured with the given options.
//
// Parameters:
//   - options: functional options to configure the target
//
// Returns:
//   - WindowTarget: the newly created target
func NewWindowTarget(options ...WindowTargetBuilderOption) WindowTarget {
	t := &windowTarget{
		mu:            &sync.Mutex{},
		displayWidth:  1280,
		displayHeight: 720,
		contentScale:  1,
		pendingResize: true,
	}
	for _, option := range options {
		option(t)
	}
	t.backingWidth = int(float32(t.displayWidth) * t.contentScale)
	t.backingHeight = int(float32(t.displayHeight) * t.contentScale)
	return t
}

func (t *windowTarget) BeginFrame(frame *FrameToken) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		return ErrDisposed
	}
	if t.inFrame {
		return ErrFrameInProgress
	}

	if t.pendingResize && t.reconfigure != nil {
		if err := t.reconfigure(t.backingWidth, t.backingHeight); err != nil {
			return fmt.Errorf("%w: %v", ErrSurfaceConfiguration, err)
		}
	}
	t.pendingResize = false

	t.inFrame = true
	t.hasView = false
	return nil
}

func (t *windowTarget) PushView(projection, view mgl32.Mat4, fx, fy float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.view = ViewInfo{
		Projection: projection,
		View:       view,
		Viewport: common.Viewport{
			Width:  float32(t.backingWidth),
			Height: float32(t.backingHeight),
		},
		Fx: fx,
		Fy: fy,
	}
	t.hasView = true
}

func (t *windowTarget) Views() []ViewInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.inFrame || !t.hasView {
		return nil
	}
	return []ViewInfo{t.view}
}

func (t *windowTarget) BindFramebuffer(pass *wgpu.RenderPassEncoder, view int) {
	t.mu.Lock()
	vp := t.view.Viewport
	t.mu.Unlock()
	pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, 0, 1)
}

func (t *windowTarget) EndFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFrame = false
	t.hasView = false
}

func (t *windowTarget) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backingWidth, t.backingHeight
}

func (t *windowTarget) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if width <= 0 || height <= 0 {
		// Minimized window; keep the last usable surface size.
		return
	}
	// The framebuffer callback already reports physical pixels; the content
	// scale only converts the logical construction size.
	t.backingWidth = width
	t.backingHeight = height
	t.displayWidth = int(float32(width) / t.contentScale)
	t.displayHeight = int(float32(height) / t.contentScale)
	t.pendingResize = true
}

func (t *windowTarget) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disposed = true
	t.inFrame = false
	t.hasView = false
}
