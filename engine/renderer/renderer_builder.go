package renderer

// rendererConfig collects construction-time settings for NewRenderer.
type rendererConfig struct {
	prepWorkers          int
	presentMode          PresentMode
	forceFallbackAdapter bool
}

// RendererBuilderOption is a functional option used to configure a Renderer during construction.
type RendererBuilderOption func(*rendererConfig)

// WithPrepWorkers sets the number of workers in the per-frame splat prep
// pool. Defaults to NumCPU-1.
//
// Parameters:
//   - workers: the worker count, minimum 1
//
// Returns:
//   - RendererBuilderOption: a function that sets the prep worker count
func WithPrepWorkers(workers int) RendererBuilderOption {
	return func(c *rendererConfig) {
		if workers > 0 {
			c.prepWorkers = workers
		}
	}
}

// WithPresentMode sets the initial present mode. Defaults to uncapped.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - RendererBuilderOption: a function that sets the present mode
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(c *rendererConfig) {
		c.presentMode = mode
	}
}

// WithForceFallbackAdapter forces the software fallback adapter, for
// headless or CI environments without a GPU.
//
// Returns:
//   - RendererBuilderOption: a function that forces the fallback adapter
func WithForceFallbackAdapter() RendererBuilderOption {
	return func(c *rendererConfig) {
		c.forceFallbackAdapter = true
	}
}
