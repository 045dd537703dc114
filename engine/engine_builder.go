package engine

import (
	"time"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/camera"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/target"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer the render loop drives each frame.
//
// Parameters:
//   - r: a constructed Renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithTarget sets the render target frames are presented through.
//
// Parameters:
//   - t: the render target
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTarget(t target.RenderTarget) EngineBuilderOption {
	return func(e *engine) {
		e.target = t
	}
}

// WithCamera sets the camera driving camera-driven targets and the built-in
// orbit controls.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithObjects registers objects for rendering during engine construction.
//
// Parameters:
//   - objects: the objects to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithObjects(objects ...object.Renderable) EngineBuilderOption {
	return func(e *engine) {
		e.objects = append(e.objects, objects...)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
