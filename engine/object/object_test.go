package object

import (
	"testing"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/depthsort"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorker stands in for a depth-sort worker so ordering adoption can be
// driven synchronously.
type fakeWorker struct {
	results    chan depthsort.Result
	strategies []depthsort.Strategy
	loads      int
	terminated int
}

func newFakeWorker() *fakeWorker {
	return &fakeWorker{results: make(chan depthsort.Result, 8)}
}

func (f *fakeWorker) Load(positions []float32, vertexCount int) { f.loads++ }
func (f *fakeWorker) SetStrategy(s depthsort.Strategy)          { f.strategies = append(f.strategies, s) }
func (f *fakeWorker) SubmitView(viewProj mgl32.Mat4)            {}
func (f *fakeWorker) Results() <-chan depthsort.Result          { return f.results }
func (f *fakeWorker) SortCount() uint64                         { return 0 }
func (f *fakeWorker) Terminate()                                { f.terminated++ }

var _ depthsort.Worker = &fakeWorker{}

func TestKinds(t *testing.T) {
	fw := newFakeWorker()
	assert.Equal(t, KindSplatTemporal, NewSplatTemporal(WithTemporalWorker(fw)).Kind())
	assert.Equal(t, KindSplatStatic, NewSplatStatic(WithStaticWorker(newFakeWorker())).Kind())
	assert.Equal(t, KindMesh, NewMesh().Kind())
	assert.Equal(t, KindLines, NewLines().Kind())
	assert.Equal(t, KindPointCloud, NewPointCloud().Kind())
}

func TestRenderable_ModelMatrixDefaultsToIdentity(t *testing.T) {
	m := NewMesh()
	assert.Equal(t, mgl32.Ident4(), m.ModelMatrix())

	xform := mgl32.Translate3D(1, 2, 3)
	m.SetModelMatrix(xform)
	assert.Equal(t, xform, m.ModelMatrix())
}

func TestRenderable_DrawableRequiresReadyProviderAndCount(t *testing.T) {
	m := NewMesh()
	assert.False(t, m.Drawable(), "no data at all")

	m.SetIndexCount(36)
	assert.False(t, m.Drawable(), "count alone is not enough")

	m.SetProvider(bind_group_provider.NewBindGroupProvider("mesh"))
	assert.False(t, m.Drawable(), "still not marked ready")

	m.SetReady(true)
	assert.True(t, m.Drawable())

	m.SetIndexCount(0)
	assert.False(t, m.Drawable(), "zero count disables drawing")
}

func TestSplat_StrategyChangePushesToWorker(t *testing.T) {
	fw := newFakeWorker()
	s := NewSplatTemporal(WithTemporalWorker(fw))

	// The constructor pushes the initial strategy.
	require.Equal(t, []depthsort.Strategy{depthsort.StrategyBackToFront}, fw.strategies)

	s.SetSortStrategy(depthsort.StrategyFrontToBack)
	assert.Equal(t, depthsort.StrategyFrontToBack, s.SortStrategy())
	assert.Equal(t, depthsort.StrategyFrontToBack, fw.strategies[len(fw.strategies)-1])
}

func TestSplat_AdoptOrderingKeepsNewestGeneration(t *testing.T) {
	fw := newFakeWorker()
	s := NewSplatStatic(WithStaticWorker(fw))

	_, ok := s.Ordering()
	assert.False(t, ok, "no ordering before the worker produced one")

	fw.results <- depthsort.Result{Indices: []uint32{0, 1}, Generation: 3}
	fw.results <- depthsort.Result{Indices: []uint32{1, 0}, Generation: 7}
	fw.results <- depthsort.Result{Indices: []uint32{0, 1}, Generation: 5} // stale

	res, ok := s.AdoptOrdering()
	require.True(t, ok)
	assert.Equal(t, uint64(7), res.Generation)
	assert.Equal(t, []uint32{1, 0}, res.Indices)
}

func TestSplat_LoadPointsReachesWorker(t *testing.T) {
	fw := newFakeWorker()
	s := NewSplatTemporal(WithTemporalWorker(fw))

	s.LoadPoints(make([]float32, 30), 10)
	assert.Equal(t, 1, fw.loads)
	assert.Equal(t, 10, s.VertexCount())
}

func TestSplat_DisposeTerminatesWorkerOnce(t *testing.T) {
	fw := newFakeWorker()
	s := NewSplatStatic(WithStaticWorker(fw), WithStaticProvider(bind_group_provider.NewBindGroupProvider("splat")))
	s.SetReady(true)

	s.Dispose()
	s.Dispose()

	assert.False(t, s.Ready(), "disposal clears readiness")
	assert.Nil(t, s.Provider())
	assert.Equal(t, 2, fw.terminated, "worker Terminate is itself idempotent")
}

func TestSplatTemporal_TimeAndMotionDegree(t *testing.T) {
	s := NewSplatTemporal(WithTemporalWorker(newFakeWorker()), WithMotionDegree(2))
	assert.Equal(t, 2, s.MotionDegree())

	s.SetTime(1.25)
	assert.Equal(t, float32(1.25), s.Time())
}

func TestVariantDefaults(t *testing.T) {
	assert.Equal(t, float32(1), NewLines().Width())
	assert.Equal(t, float32(1), NewPointCloud().PointSize())
	assert.Equal(t, 0, NewSplatStatic(WithStaticWorker(newFakeWorker())).SHDegree())
	assert.False(t, NewMesh().Lit())
	assert.True(t, NewMesh(WithLit(true)).Lit())
}
