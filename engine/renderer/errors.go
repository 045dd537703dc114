package renderer

import "errors"

// The renderer distinguishes four failure classes. Configuration and
// resource errors surface synchronously from setup calls; runtime draw
// failures and worker crashes are confined to the object they belong to and
// logged, never propagated out of Render.
var (
	// ErrConfiguration marks a recoverable wiring problem, such as a bind
	// group slot a pipeline expects but the object never supplied. The
	// offending draw is skipped and the frame continues.
	ErrConfiguration = errors.New("configuration error")

	// ErrResource marks a GPU resource that could not be created or is in
	// an unusable state (incomplete framebuffer, over-limit texture).
	ErrResource = errors.New("resource error")

	// ErrPipelineNotFound is returned when a draw references a pipeline key
	// that was never registered.
	ErrPipelineNotFound = errors.New("pipeline not found")

	// ErrFrameNotStarted is returned when draw commands are encoded outside
	// BeginFrame/EndFrame.
	ErrFrameNotStarted = errors.New("no frame in progress")
)
