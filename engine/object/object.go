// Package object defines the renderable content types the pipeline draws:
// temporal and static Gaussian splats, triangle meshes, line sets, and raw
// point clouds. Each variant is its own type behind the sealed Renderable
// interface, so a draw path can switch on Kind without nil-checking a grab
// bag of optional fields.
package object

import (
	"sync"
	"sync/atomic"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Kind identifies the concrete variant behind a Renderable.
type Kind int

const (
	KindMesh Kind = iota
	KindSplatTemporal
	KindSplatStatic
	KindLines
	KindPointCloud
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindSplatTemporal:
		return "splat-temporal"
	case KindSplatStatic:
		return "splat-static"
	case KindLines:
		return "lines"
	case KindPointCloud:
		return "point-cloud"
	default:
		return "unknown"
	}
}

// Renderable is the common surface of every drawable object. The interface
// is sealed: only the variants in this package implement it, so a consumer
// switching on Kind covers every case.
type Renderable interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uuid.UUID: the object id
	ID() uuid.UUID

	// Kind returns the concrete variant of this object.
	//
	// Returns:
	//   - Kind: the variant tag
	Kind() Kind

	// ModelMatrix returns the object-to-world transform. Defaults to
	// identity.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// SetModelMatrix replaces the object-to-world transform.
	//
	// Parameters:
	//   - m: the new model matrix
	SetModelMatrix(m mgl32.Mat4)

	// Ready reports whether the object's asset data has finished loading.
	// Objects are constructed before their data arrives; the pipeline skips
	// anything not yet ready.
	//
	// Returns:
	//   - bool: true once the object may be drawn
	Ready() bool

	// SetReady flips the readiness gate. Called by the asset loading path
	// once GPU uploads complete.
	//
	// Parameters:
	//   - ready: the new readiness state
	SetReady(ready bool)

	// Drawable reports whether the object can actually be drawn this frame:
	// ready, GPU resources present, and a non-zero element count.
	//
	// Returns:
	//   - bool: true if the pipeline should draw it
	Drawable() bool

	// Provider returns the BindGroupProvider holding the object's GPU
	// resources, or nil before initialization.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider or nil
	Provider() bind_group_provider.BindGroupProvider

	// SetProvider assigns the object's GPU resource provider.
	//
	// Parameters:
	//   - p: the provider to assign
	SetProvider(p bind_group_provider.BindGroupProvider)

	// Dispose releases every GPU resource the object holds and stops any
	// background work it owns. Idempotent.
	Dispose()

	// sealed restricts implementations to this package.
	sealed()
}

// baseObject carries the state shared by every variant.
type baseObject struct {
	id   uuid.UUID
	kind Kind

	mu       sync.Mutex
	model    mgl32.Mat4
	provider bind_group_provider.BindGroupProvider

	ready    atomic.Bool
	disposed atomic.Bool
}

func newBaseObject(kind Kind) baseObject {
	return baseObject{
		id:    uuid.New(),
		kind:  kind,
		model: mgl32.Ident4(),
	}
}

func (b *baseObject) ID() uuid.UUID {
	return b.id
}

func (b *baseObject) Kind() Kind {
	return b.kind
}

func (b *baseObject) ModelMatrix() mgl32.Mat4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model
}

func (b *baseObject) SetModelMatrix(m mgl32.Mat4) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = m
}

func (b *baseObject) Ready() bool {
	return b.ready.Load()
}

func (b *baseObject) SetReady(ready bool) {
	b.ready.Store(ready)
}

func (b *baseObject) Provider() bind_group_provider.BindGroupProvider {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.provider
}

func (b *baseObject) SetProvider(p bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.provider = p
}

// releaseProvider releases the provider exactly once across Dispose calls.
func (b *baseObject) releaseProvider() {
	if b.disposed.Swap(true) {
		return
	}
	b.mu.Lock()
	p := b.provider
	b.provider = nil
	b.mu.Unlock()
	if p != nil {
		p.Release()
	}
	b.ready.Store(false)
}

func (b *baseObject) sealed() {}
