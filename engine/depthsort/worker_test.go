package depthsort

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lookDownNegZ is a view-projection whose depth row is (0, 0, -1): depth
// grows as world z decreases, matching a camera at the origin looking down
// the negative z axis.
func lookDownNegZ() mgl32.Mat4 {
	var m mgl32.Mat4
	m[2] = 0
	m[6] = 0
	m[10] = -1
	m[15] = 1
	return m
}

func awaitResult(t *testing.T, w Worker) Result {
	t.Helper()
	select {
	case res := <-w.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a sort result")
		return Result{}
	}
}

func TestWorker_BackToFrontEmitsFarthestFirst(t *testing.T) {
	const n = 1000
	positions := randomPositions(t, n, 7)
	// Spread points along negative z so every point is in front of the
	// camera, and remember the farthest one.
	farthest := 0
	for i := 0; i < n; i++ {
		positions[i*3+2] = -1 - positions[i*3+2]*positions[i*3+2]*0.01
		if positions[i*3+2] < positions[farthest*3+2] {
			farthest = i
		}
	}

	w := NewWorker()
	defer w.Terminate()

	w.Load(positions, n)
	w.SetStrategy(StrategyBackToFront)
	w.SubmitView(lookDownNegZ())

	res := awaitResult(t, w)
	require.Len(t, res.Indices, n)
	assert.Equal(t, uint32(farthest), res.Indices[0],
		"the most distant point must be drawn first")
	assert.Equal(t, n, res.VertexCount)
}

func TestWorker_SkipsSortWhenViewBarelyMoves(t *testing.T) {
	w := &workerImpl{
		results:       make(chan Result, 1),
		quit:          make(chan struct{}),
		skipThreshold: defaultSkipThreshold,
		onError:       func(error) {},
	}

	st := sortState{
		positions:   randomPositions(t, 100, 8),
		vertexCount: 100,
		strategy:    StrategyBackToFront,
		haveView:    true,
		lastView:    lookDownNegZ(),
		forceSort:   true,
	}

	w.trySort(&st)
	require.Equal(t, uint64(1), w.SortCount())

	// Same view again: under the threshold, no new sort.
	w.trySort(&st)
	assert.Equal(t, uint64(1), w.SortCount())

	// Nudge the view by less than the threshold: still skipped.
	st.lastView[10] += defaultSkipThreshold / 10
	w.trySort(&st)
	assert.Equal(t, uint64(1), w.SortCount())

	// A real move sorts again.
	st.lastView[10] += 0.5
	w.trySort(&st)
	assert.Equal(t, uint64(2), w.SortCount())
}

func TestWorker_StrategyChangeForcesResort(t *testing.T) {
	// Distinct, well-separated depths so the two orderings are exact
	// reverses of each other.
	const n = 200
	positions := make([]float32, n*3)
	for i := 0; i < n; i++ {
		positions[i*3+2] = -1 - float32(i)*0.5
	}

	w := NewWorker()
	defer w.Terminate()

	w.Load(positions, n)
	w.SetStrategy(StrategyBackToFront)
	w.SubmitView(lookDownNegZ())
	first := awaitResult(t, w)

	// No new view: the strategy change alone must produce a fresh ordering
	// against the last submitted view.
	w.SetStrategy(StrategyFrontToBack)
	second := awaitResult(t, w)

	assert.Equal(t, first.ViewProj, second.ViewProj)
	assert.Equal(t, first.Indices[0], second.Indices[n-1],
		"reversing the strategy moves the old front to the back")
}

func TestWorker_RedundantStrategyChangeDoesNotResort(t *testing.T) {
	const n = 50
	w := NewWorker()
	defer w.Terminate()

	w.Load(randomPositions(t, n, 10), n)
	w.SetStrategy(StrategyBackToFront)
	w.SubmitView(lookDownNegZ())
	awaitResult(t, w)

	w.SetStrategy(StrategyBackToFront)

	select {
	case res := <-w.Results():
		t.Fatalf("unexpected result for a no-op strategy change: generation %d", res.Generation)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, uint64(1), w.SortCount())
}

func TestWorker_LastSubmittedViewWins(t *testing.T) {
	const n = 500
	positions := randomPositions(t, n, 11)

	w := NewWorker()
	defer w.Terminate()

	w.Load(positions, n)
	w.SetStrategy(StrategyBackToFront)

	// Flood the worker with distinct views. Intermediate ones may be
	// coalesced away, but the final view must always be answered.
	var last mgl32.Mat4
	const submissions = 200
	for i := 0; i < submissions; i++ {
		last = lookDownNegZ()
		last[2] = float32(i) * 0.01
		w.SubmitView(last)
	}

	deadline := time.After(2 * time.Second)
	var latest Result
	for latest.Generation != submissions {
		select {
		case latest = <-w.Results():
		case <-deadline:
			t.Fatalf("final view never answered; last generation seen %d", latest.Generation)
		}
	}
	assert.Equal(t, last, latest.ViewProj)
	assert.LessOrEqual(t, w.SortCount(), uint64(submissions),
		"coalescing must never sort more often than views were submitted")
}

func TestWorker_GenerationsIncreaseMonotonically(t *testing.T) {
	const n = 100
	w := NewWorker()
	defer w.Terminate()

	w.Load(randomPositions(t, n, 12), n)
	w.SetStrategy(StrategyFrontToBack)

	var prev uint64
	for i := 0; i < 5; i++ {
		v := lookDownNegZ()
		v[2] = float32(i + 1) // well past the skip threshold each time
		w.SubmitView(v)
		res := awaitResult(t, w)
		require.Greater(t, res.Generation, prev)
		prev = res.Generation
	}
}

func TestWorker_PanicReachesErrorCallbackAndKeepsRunning(t *testing.T) {
	errs := make(chan error, 1)
	w := NewWorker(WithErrorCallback(func(err error) {
		errs <- err
	}))
	defer w.Terminate()

	// A positions buffer shorter than vertexCount*3 makes the sort panic on
	// an out-of-range read.
	w.Load(make([]float32, 3), 100)
	w.SetStrategy(StrategyBackToFront)
	w.SubmitView(lookDownNegZ())

	select {
	case err := <-errs:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("panic never reached the error callback")
	}

	// The worker survives: a proper reload sorts normally.
	const n = 20
	w.Load(randomPositions(t, n, 13), n)
	w.SubmitView(lookDownNegZ())
	res := awaitResult(t, w)
	assert.Len(t, res.Indices, n)
}

func TestWorker_SubmitBeforeLoadProducesNothing(t *testing.T) {
	w := NewWorker()
	defer w.Terminate()

	w.SubmitView(lookDownNegZ())

	select {
	case <-w.Results():
		t.Fatal("received an ordering before any points were loaded")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWorker_TerminateIsIdempotent(t *testing.T) {
	w := NewWorker()
	w.Terminate()
	assert.NotPanics(t, func() {
		w.Terminate()
		w.SubmitView(lookDownNegZ())
		w.Load(nil, 0)
		w.SetStrategy(StrategyFrontToBack)
	})
}
