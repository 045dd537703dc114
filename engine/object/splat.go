package object

import (
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/depthsort"
	"github.com/cogentcore/webgpu/wgpu"
)

// Splat is the surface shared by the two Gaussian-splat variants. Each splat
// owns a depthsort.Worker that keeps its point ordering aligned with the
// camera; the pipeline pushes a view each frame and adopts completed
// orderings between frames.
//
// Point attributes (position, rotation quaternion, anisotropic scale, packed
// RGBA, plus variant extras) are decoded upstream and uploaded as opaque
// blobs through the object's BindGroupProvider; only the packed xyz
// positions are mirrored host-side for the sort worker.
type Splat interface {
	Renderable

	// VertexCount returns the number of splat points.
	//
	// Returns:
	//   - int: the point count
	VertexCount() int

	// Worker returns the depth-sort worker owned by this splat.
	//
	// Returns:
	//   - depthsort.Worker: the worker
	Worker() depthsort.Worker

	// SortStrategy returns the current depth ordering strategy.
	//
	// Returns:
	//   - depthsort.Strategy: the strategy
	SortStrategy() depthsort.Strategy

	// SetSortStrategy changes the depth ordering strategy and pushes it to
	// the worker, which re-sorts immediately against its last view.
	//
	// Parameters:
	//   - s: the new strategy
	SetSortStrategy(s depthsort.Strategy)

	// LoadPoints hands the packed xyz positions to the sort worker and
	// records the point count. The worker takes ownership of the slice.
	//
	// Parameters:
	//   - positions: packed xyz float triples, length >= count*3
	//   - count: the number of points
	LoadPoints(positions []float32, count int)

	// SortedIndexBuffer returns the GPU buffer the current ordering is
	// uploaded to, or nil before the first ordering lands.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	SortedIndexBuffer() *wgpu.Buffer

	// SetSortedIndexBuffer assigns the GPU buffer orderings are uploaded to.
	//
	// Parameters:
	//   - buf: the index buffer
	SetSortedIndexBuffer(buf *wgpu.Buffer)

	// AdoptOrdering drains the worker's results channel and keeps the
	// newest-generation completed ordering. A stale result computed before
	// a newer request is discarded here. Never blocks.
	//
	// Returns:
	//   - depthsort.Result: the newest ordering held so far
	//   - bool: false until the first ordering has arrived
	AdoptOrdering() (depthsort.Result, bool)

	// Ordering returns the ordering most recently adopted, without polling
	// the worker.
	//
	// Returns:
	//   - depthsort.Result: the held ordering
	//   - bool: false until the first ordering has arrived
	Ordering() (depthsort.Result, bool)
}

// splatState implements the splat-specific surface shared by both variants.
type splatState struct {
	baseObject

	worker      depthsort.Worker
	strategy    depthsort.Strategy
	vertexCount int

	indexBuffer *wgpu.Buffer

	ordering     depthsort.Result
	haveOrdering bool
}

func (s *splatState) VertexCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vertexCount
}

func (s *splatState) Worker() depthsort.Worker {
	return s.worker
}

func (s *splatState) SortStrategy() depthsort.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

func (s *splatState) SetSortStrategy(strategy depthsort.Strategy) {
	s.mu.Lock()
	s.strategy = strategy
	s.mu.Unlock()
	s.worker.SetStrategy(strategy)
}

func (s *splatState) LoadPoints(positions []float32, count int) {
	s.mu.Lock()
	s.vertexCount = count
	s.mu.Unlock()
	s.worker.Load(positions, count)
}

func (s *splatState) SortedIndexBuffer() *wgpu.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexBuffer
}

func (s *splatState) SetSortedIndexBuffer(buf *wgpu.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexBuffer = buf
}

func (s *splatState) AdoptOrdering() (depthsort.Result, bool) {
	for {
		select {
		case res := <-s.worker.Results():
			s.mu.Lock()
			if !s.haveOrdering || res.Generation >= s.ordering.Generation {
				s.ordering = res
				s.haveOrdering = true
			}
			s.mu.Unlock()
		default:
			return s.Ordering()
		}
	}
}

func (s *splatState) Ordering() (depthsort.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordering, s.haveOrdering
}

func (s *splatState) Drawable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready.Load() && s.provider != nil && s.vertexCount > 0
}

func (s *splatState) Dispose() {
	s.worker.Terminate()
	s.mu.Lock()
	idx := s.indexBuffer
	s.indexBuffer = nil
	s.mu.Unlock()
	if idx != nil {
		idx.Release()
	}
	s.releaseProvider()
}

// SplatTemporal is a Gaussian splat whose points carry motion-polynomial
// coefficients plus a time-of-relevance and temporal-falloff pair, animated
// by the frame time the host supplies to each Render call.
type SplatTemporal interface {
	Splat

	// MotionDegree returns the degree of the per-point motion polynomial.
	//
	// Returns:
	//   - int: the polynomial degree
	MotionDegree() int

	// Time returns the playback time the next frame evaluates the motion
	// polynomials at.
	//
	// Returns:
	//   - float32: the playback time in seconds
	Time() float32

	// SetTime sets the playback time for the next frame.
	//
	// Parameters:
	//   - t: the playback time in seconds
	SetTime(t float32)
}

type splatTemporal struct {
	splatState

	motionDegree int
	time         float32
}

var _ SplatTemporal = &splatTemporal{}

// NewSplatTemporal creates a temporal splat object and starts its depth-sort
// worker.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - SplatTemporal: the newly created object
func NewSplatTemporal(options ...SplatTemporalBuilderOption) SplatTemporal {
	s := &splatTemporal{
		splatState: splatState{
			baseObject: newBaseObject(KindSplatTemporal),
			strategy:   depthsort.StrategyBackToFront,
		},
		motionDegree: 3,
	}
	for _, option := range options {
		option(s)
	}
	if s.worker == nil {
		s.worker = depthsort.NewWorker()
	}
	s.worker.SetStrategy(s.strategy)
	return s
}

func (s *splatTemporal) MotionDegree() int {
	return s.motionDegree
}

func (s *splatTemporal) Time() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

func (s *splatTemporal) SetTime(t float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = t
}

// SplatStatic is a Gaussian splat with fixed point positions, optionally
// carrying spherical-harmonic color coefficients.
type SplatStatic interface {
	Splat

	// SHDegree returns the spherical-harmonic degree of the color
	// coefficients, or 0 when the splat carries flat RGBA only.
	//
	// Returns:
	//   - int: the SH degree
	SHDegree() int
}

type splatStatic struct {
	splatState

	shDegree int
}

var _ SplatStatic = &splatStatic{}

// NewSplatStatic creates a static splat object and starts its depth-sort
// worker.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - SplatStatic: the newly created object
func NewSplatStatic(options ...SplatStaticBuilderOption) SplatStatic {
	s := &splatStatic{
		splatState: splatState{
			baseObject: newBaseObject(KindSplatStatic),
			strategy:   depthsort.StrategyBackToFront,
		},
	}
	for _, option := range options {
		option(s)
	}
	if s.worker == nil {
		s.worker = depthsort.NewWorker()
	}
	s.worker.SetStrategy(s.strategy)
	return s
}

func (s *splatStatic) SHDegree() int {
	return s.shDegree
}
