package loader

// LoaderBuilderOption is a functional option for configuring a Loader.
type LoaderBuilderOption func(*loader)

// WithBackendType selects the file format backend.
//
// Parameters:
//   - t: the backend type
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithBackendType(t LoaderBackendType) LoaderBuilderOption {
	return func(l *loader) {
		switch t {
		case BackendTypePLY:
			l.backend = newPLYLoaderBackend()
		}
	}
}
