package loader

import "io"

// loaderBackend defines the generic interface for importing splat assets
// from files or streams. Concrete implementations (e.g., plyLoaderBackend)
// handle format-specific details.
type loaderBackend interface {
	// Load performs a full asset import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *SplatAsset: the imported asset
	//   - error: error if loading fails
	Load(path string) (*SplatAsset, error)

	// LoadReader imports an asset from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *SplatAsset: the imported asset
	//   - error: error if loading fails
	LoadReader(r io.Reader) (*SplatAsset, error)
}
