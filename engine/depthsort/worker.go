// Package depthsort keeps per-object point orderings aligned with the
// current viewpoint without ever blocking the render thread. Each splat
// object owns one Worker; all communication is message passing with
// ownership transfer of the result buffer, so no locks guard the data.
package depthsort

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/go-gl/mathgl/mgl32"
)

// defaultSkipThreshold is the Euclidean distance between consecutive
// camera depth rows below which a re-sort is skipped entirely (the camera
// has barely moved).
const defaultSkipThreshold = 1e-5

// Strategy selects the depth ordering a worker produces.
type Strategy int

const (
	// StrategyNone disables ordering; the worker emits the identity
	// permutation.
	StrategyNone Strategy = iota

	// StrategyFrontToBack orders points by non-decreasing projective depth.
	StrategyFrontToBack

	// StrategyBackToFront orders points by non-increasing projective depth,
	// the order premultiplied-alpha blending requires.
	StrategyBackToFront
)

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyFrontToBack:
		return "front-to-back"
	case StrategyBackToFront:
		return "back-to-front"
	default:
		return "none"
	}
}

// Result is one completed ordering, delivered on the worker's results
// channel. The Indices buffer is owned by the receiver; the worker never
// touches it again.
type Result struct {
	// Indices is the depth-ordered permutation of [0, VertexCount).
	Indices []uint32

	// ViewProj echoes the view-projection matrix the ordering was computed
	// for.
	ViewProj mgl32.Mat4

	// VertexCount is the number of points ordered.
	VertexCount int

	// Generation is the monotonically increasing id of the view request
	// this ordering answers. Hosts keep the newest generation they have
	// seen; an older result arriving late is discarded.
	Generation uint64
}

// message is the internal host-to-worker protocol. Exactly one of the
// variant fields is meaningful per kind.
type message struct {
	kind messageKind

	positions   []float32
	vertexCount int

	strategy Strategy

	viewProj   mgl32.Mat4
	generation uint64
}

type messageKind int

const (
	msgLoad messageKind = iota
	msgStrategy
	msgView
)

// workerImpl is the implementation of the Worker interface.
type workerImpl struct {
	// control carries load and strategy messages; every one of them must be
	// processed, so the channel is buffered but never coalesced.
	control chan message

	// views carries sort requests. Capacity 1 with drain-and-replace on the
	// sender side: at most one request is ever pending, and a newer view
	// replaces an unprocessed older one (coalesce, don't queue).
	views chan message

	results chan Result

	quit     chan struct{}
	quitOnce sync.Once

	generation atomic.Uint64
	sortCount  atomic.Uint64

	skipThreshold float32
	onError       func(error)
}

// Worker continuously produces depth orderings of a fixed point set for one
// object. One goroutine per worker; a crash or stall inside it affects only
// its object's ordering, never the render loop or other workers.
//
// Protocol: Load once (or again on reload), then any interleaving of
// SetStrategy and SubmitView. Completed orderings arrive on Results with
// buffer ownership transferred to the receiver.
type Worker interface {
	// Load hands the worker its point-position buffer (packed xyz float
	// triples). The worker takes ownership of the slice. A load forces the
	// next view submission to sort regardless of the skip heuristic.
	//
	// Parameters:
	//   - positions: packed xyz positions, length >= vertexCount*3
	//   - vertexCount: number of points
	Load(positions []float32, vertexCount int)

	// SetStrategy changes the ordering strategy. A strategy change always
	// forces an immediate re-sort against the most recent view, bypassing
	// the skip heuristic.
	//
	// Parameters:
	//   - s: the new strategy
	SetStrategy(s Strategy)

	// SubmitView requests an ordering for the given view-projection matrix.
	// Never blocks: if a request is already pending it is replaced by this
	// newer one, and a sort already in progress is never preempted. The
	// last submitted view always eventually wins.
	//
	// Parameters:
	//   - viewProj: the view-projection (or view-projection-model) matrix
	SubmitView(viewProj mgl32.Mat4)

	// Results returns the channel completed orderings are delivered on.
	// The channel holds at most one Result; an unconsumed ordering is
	// replaced when a newer one completes.
	//
	// Returns:
	//   - <-chan Result: the results channel
	Results() <-chan Result

	// SortCount reports how many sorts the worker has actually executed.
	// Instrumentation only; used to observe skip-heuristic behavior.
	//
	// Returns:
	//   - uint64: the number of completed sort computations
	SortCount() uint64

	// Terminate stops the worker goroutine. Safe to call multiple times.
	Terminate()
}

var _ Worker = &workerImpl{}

// NewWorker creates a Worker and starts its goroutine.
//
// Parameters:
//   - options: functional options to configure the worker
//
// Returns:
//   - Worker: the running worker
func NewWorker(options ...WorkerBuilderOption) Worker {
	w := &workerImpl{
		control:       make(chan message, 16),
		views:         make(chan message, 1),
		results:       make(chan Result, 1),
		quit:          make(chan struct{}),
		skipThreshold: defaultSkipThreshold,
		onError: func(err error) {
			log.Printf("[depthsort] %v", err)
		},
	}
	for _, opt := range options {
		opt(w)
	}
	go w.run()
	return w
}

func (w *workerImpl) Load(positions []float32, vertexCount int) {
	select {
	case w.control <- message{kind: msgLoad, positions: positions, vertexCount: vertexCount}:
	case <-w.quit:
	}
}

func (w *workerImpl) SetStrategy(s Strategy) {
	select {
	case w.control <- message{kind: msgStrategy, strategy: s}:
	case <-w.quit:
	}
}

func (w *workerImpl) SubmitView(viewProj mgl32.Mat4) {
	msg := message{
		kind:       msgView,
		viewProj:   viewProj,
		generation: w.generation.Add(1),
	}
	// Coalesce: replace any unprocessed older request with this one. Only
	// the host sends on views, so the second send cannot block.
	select {
	case w.views <- msg:
	default:
		select {
		case <-w.views:
		default:
		}
		select {
		case w.views <- msg:
		case <-w.quit:
		}
	}
}

func (w *workerImpl) Results() <-chan Result {
	return w.results
}

func (w *workerImpl) SortCount() uint64 {
	return w.sortCount.Load()
}

func (w *workerImpl) Terminate() {
	w.quitOnce.Do(func() {
		close(w.quit)
	})
}

// sortState is the worker goroutine's private view of the object being
// ordered. It is confined to the goroutine; nothing here is shared.
type sortState struct {
	positions   []float32
	vertexCount int
	strategy    Strategy

	haveView bool
	lastView mgl32.Mat4
	lastGen  uint64

	haveSorted bool
	lastRow    [3]float32
	lastCount  int
	// forceSort is set by a load or strategy change and bypasses the skip
	// heuristic on the next sort.
	forceSort bool
}

// run is the worker goroutine loop. Control messages take priority over
// view requests so a strategy change is never starved by a stream of
// camera updates.
func (w *workerImpl) run() {
	var st sortState
	for {
		// Drain control messages first.
		select {
		case <-w.quit:
			return
		case msg := <-w.control:
			w.handleControl(&st, msg)
			continue
		default:
		}

		select {
		case <-w.quit:
			return
		case msg := <-w.control:
			w.handleControl(&st, msg)
		case msg := <-w.views:
			st.haveView = true
			st.lastView = msg.viewProj
			st.lastGen = msg.generation
			w.trySort(&st)
		}
	}
}

func (w *workerImpl) handleControl(st *sortState, msg message) {
	switch msg.kind {
	case msgLoad:
		st.positions = msg.positions
		st.vertexCount = msg.vertexCount
		st.forceSort = true
	case msgStrategy:
		if msg.strategy == st.strategy {
			return
		}
		st.strategy = msg.strategy
		st.forceSort = true
		// A strategy change re-sorts immediately against the last view
		// rather than waiting for the camera to move.
		if st.haveView {
			w.trySort(st)
		}
	}
}

// trySort runs one sort computation unless the skip heuristic applies.
// Panics inside the sort are confined to this worker and reported through
// the error callback; the object keeps its last-known ordering.
func (w *workerImpl) trySort(st *sortState) {
	if st.positions == nil || st.vertexCount <= 0 {
		return
	}

	row := common.DepthRow(st.lastView)
	if !st.forceSort && st.haveSorted && st.lastCount == st.vertexCount &&
		common.DepthRowDistance(row, st.lastRow) < w.skipThreshold {
		// Camera barely moved; the previous ordering is still valid.
		return
	}

	defer func() {
		if r := recover(); r != nil {
			w.onError(fmt.Errorf("sort worker panic: %v", r))
		}
	}()

	indices := sortIndices(st.positions, st.vertexCount, row, st.strategy)
	w.sortCount.Add(1)

	st.haveSorted = true
	st.lastRow = row
	st.lastCount = st.vertexCount
	st.forceSort = false

	res := Result{
		Indices:     indices,
		ViewProj:    st.lastView,
		VertexCount: st.vertexCount,
		Generation:  st.lastGen,
	}

	// Newest completed ordering wins: replace an unconsumed result.
	select {
	case w.results <- res:
	default:
		select {
		case <-w.results:
		default:
		}
		select {
		case w.results <- res:
		case <-w.quit:
		}
	}
}
