package target

import "github.com/go-gl/mathgl/mgl32"

// WindowTargetBuilderOption is a functional option used to configure a WindowTarget during construction.
type WindowTargetBuilderOption func(*windowTarget)

// StereoTargetBuilderOption is a functional option used to configure a StereoTarget during construction.
type StereoTargetBuilderOption func(*stereoTarget)

// WithWindowSize sets the initial logical window size. Defaults to 1280x720.
//
// Parameters:
//   - width, height: the logical window size
//
// Returns:
//   - WindowTargetBuilderOption: a function that sets the window size
func WithWindowSize(width, height int) WindowTargetBuilderOption {
	return func(t *windowTarget) {
		if width > 0 && height > 0 {
			t.displayWidth = width
			t.displayHeight = height
		}
	}
}

// WithContentScale sets the backing-store scale factor applied to the
// logical window size. Defaults to 1.
//
// Parameters:
//   - scale: the content scale
//
// Returns:
//   - WindowTargetBuilderOption: a function that sets the content scale
func WithContentScale(scale float32) WindowTargetBuilderOption {
	return func(t *windowTarget) {
		if scale > 0 {
			t.contentScale = scale
		}
	}
}

// WithSurfaceReconfigure sets the hook invoked with the backing-store size
// whenever the surface must be (re)configured. The renderer backend supplies
// this when it adopts the target.
//
// Parameters:
//   - fn: the reconfiguration hook
//
// Returns:
//   - WindowTargetBuilderOption: a function that sets the hook
func WithSurfaceReconfigure(fn func(width, height int) error) WindowTargetBuilderOption {
	return func(t *windowTarget) {
		t.reconfigure = fn
	}
}

// WithStereoFramebufferSize sets the full side-by-side framebuffer size.
//
// Parameters:
//   - width, height: the framebuffer size spanning both eyes
//
// Returns:
//   - StereoTargetBuilderOption: a function that sets the framebuffer size
func WithStereoFramebufferSize(width, height int) StereoTargetBuilderOption {
	return func(t *stereoTarget) {
		if width > 0 && height > 0 {
			t.width = width
			t.height = height
		}
	}
}

// WithWorldAnchor sets the initial world-anchor transform. Defaults to
// identity.
//
// Parameters:
//   - anchor: the anchor transform
//
// Returns:
//   - StereoTargetBuilderOption: a function that sets the anchor
func WithWorldAnchor(anchor mgl32.Mat4) StereoTargetBuilderOption {
	return func(t *stereoTarget) {
		t.anchor = anchor
	}
}
