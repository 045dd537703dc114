package depthsort

// WorkerBuilderOption is a functional option used to configure a Worker during construction.
type WorkerBuilderOption func(*workerImpl)

// WithErrorCallback sets the callback invoked when a sort computation
// panics inside the worker goroutine. The default logs via the standard
// logger.
//
// Parameters:
//   - cb: the callback receiving the wrapped panic value
//
// Returns:
//   - WorkerBuilderOption: a function that sets the error callback
func WithErrorCallback(cb func(error)) WorkerBuilderOption {
	return func(w *workerImpl) {
		if cb != nil {
			w.onError = cb
		}
	}
}

// WithSkipThreshold overrides the camera-movement threshold below which a
// view submission does not trigger a re-sort.
//
// Parameters:
//   - threshold: Euclidean distance between consecutive depth rows
//
// Returns:
//   - WorkerBuilderOption: a function that sets the skip threshold
func WithSkipThreshold(threshold float32) WorkerBuilderOption {
	return func(w *workerImpl) {
		w.skipThreshold = threshold
	}
}
