package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// LoaderBackendType identifies the splat file format backend to use.
type LoaderBackendType int

const (
	// BackendTypePLY selects the binary PLY Gaussian splat backend.
	BackendTypePLY LoaderBackendType = iota
)

// SplatAsset is the host-side result of importing a splat file: packed
// attribute arrays in the layout the renderer's splat init expects.
type SplatAsset struct {
	// Count is the number of points.
	Count int

	// Positions holds packed xyz triples, Count*3 floats.
	Positions []float32

	// Covariances holds three packed vec3s per point: screen radius x/y in
	// the first, the second reserved, falloff sharpness in the third.
	Covariances []float32

	// Colors holds packed RGBA8 colors, alpha from the point opacity.
	Colors []uint32

	// SHDegree is the spherical harmonics degree found in the file.
	SHDegree int
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]*SplatAsset

	backend loaderBackend
}

// Loader defines the public-facing interface for importing and caching
// Gaussian splat assets. It abstracts the file format behind a generic
// backend and caches previously loaded assets by path.
type Loader interface {
	// Load imports a splat file and caches the result.
	// If the asset is already cached (by file path), the cached version is
	// returned. The backend is selected by file extension (.ply → PLY).
	//
	// Parameters:
	//   - path: the file path to the splat file
	//
	// Returns:
	//   - *SplatAsset: the loaded and cached asset
	//   - error: error if loading fails
	Load(path string) (*SplatAsset, error)

	// LoadReader imports a splat asset from a reader stream and caches it
	// by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded asset
	//   - r: the reader providing splat data
	//
	// Returns:
	//   - *SplatAsset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*SplatAsset, error)

	// Cached returns the cached asset for a path, or nil.
	//
	// Parameters:
	//   - path: the cache key
	//
	// Returns:
	//   - *SplatAsset: the cached asset or nil
	Cached(path string) *SplatAsset

	// Evict removes an asset from the cache.
	//
	// Parameters:
	//   - path: the cache key
	Evict(path string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		assetCache: make(map[string]*SplatAsset),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.backend == nil {
		l.backend = newPLYLoaderBackend()
	}
	return l
}

func (l *loader) Load(path string) (*SplatAsset, error) {
	l.mu.RLock()
	if asset, ok := l.assetCache[path]; ok {
		l.mu.RUnlock()
		return asset, nil
	}
	l.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".ply" {
		return nil, fmt.Errorf("unsupported splat file extension %q", ext)
	}

	asset, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	l.mu.Lock()
	l.assetCache[path] = asset
	l.mu.Unlock()
	return asset, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*SplatAsset, error) {
	l.mu.RLock()
	if asset, ok := l.assetCache[name]; ok {
		l.mu.RUnlock()
		return asset, nil
	}
	l.mu.RUnlock()

	asset, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	l.mu.Lock()
	l.assetCache[name] = asset
	l.mu.Unlock()
	return asset, nil
}

func (l *loader) Cached(path string) *SplatAsset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[path]
}

func (l *loader) Evict(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.assetCache, path)
}
