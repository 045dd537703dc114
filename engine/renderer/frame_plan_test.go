package renderer

import (
	"testing"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planSplat(t *testing.T) object.SplatStatic {
	t.Helper()
	s := object.NewSplatStatic(object.WithStaticProvider(bind_group_provider.NewBindGroupProvider("plan splat")))
	s.LoadPoints(make([]float32, 30), 10)
	s.SetReady(true)
	t.Cleanup(func() { s.Worker().Terminate() })
	return s
}

func planTemporalSplat(t *testing.T) object.SplatTemporal {
	t.Helper()
	s := object.NewSplatTemporal(object.WithTemporalProvider(bind_group_provider.NewBindGroupProvider("plan temporal splat")))
	s.LoadPoints(make([]float32, 30), 10)
	s.SetReady(true)
	t.Cleanup(func() { s.Worker().Terminate() })
	return s
}

func planMesh(t *testing.T) object.Mesh {
	t.Helper()
	m := object.NewMesh(object.WithMeshProvider(bind_group_provider.NewBindGroupProvider("plan mesh")))
	m.SetIndexCount(36)
	m.SetReady(true)
	return m
}

func planLines(t *testing.T) object.Lines {
	t.Helper()
	l := object.NewLines(object.WithLinesProvider(bind_group_provider.NewBindGroupProvider("plan lines")))
	l.SetVertexCount(8)
	l.SetReady(true)
	return l
}

func TestBuildFramePlan_GroupsInFixedOrder(t *testing.T) {
	lines := planLines(t)
	splat := planSplat(t)
	temporal := planTemporalSplat(t)
	mesh := planMesh(t)

	// Deliberately scrambled caller order.
	plan := BuildFramePlan([]object.Renderable{lines, splat, temporal, mesh}, nil)

	require.Len(t, plan.Draws, 4)
	assert.Equal(t, GroupMesh, plan.Draws[0].Group)
	assert.Equal(t, GroupSplatTemporal, plan.Draws[1].Group)
	assert.Equal(t, GroupSplatStatic, plan.Draws[2].Group)
	assert.Equal(t, GroupLines, plan.Draws[3].Group)
}

func TestBuildFramePlan_StencilRefsUniqueAcrossSplatGroups(t *testing.T) {
	objects := []object.Renderable{
		planSplat(t), planTemporalSplat(t), planSplat(t), planTemporalSplat(t), planMesh(t),
	}

	plan := BuildFramePlan(objects, nil)

	assert.Equal(t, 4, plan.SplatCount)
	seen := map[uint32]bool{}
	next := uint32(1)
	for _, d := range plan.Draws {
		if d.Group == GroupSplatTemporal || d.Group == GroupSplatStatic {
			assert.Equal(t, next, d.StencilRef, "stencil refs are sequential from 1")
			assert.False(t, seen[d.StencilRef])
			seen[d.StencilRef] = true
			next++
		} else {
			assert.Zero(t, d.StencilRef, "non-splat draws carry no stencil ref")
		}
	}
}

func TestBuildFramePlan_PreservesCallerOrderWithinGroup(t *testing.T) {
	a := planSplat(t)
	b := planSplat(t)
	c := planSplat(t)

	plan := BuildFramePlan([]object.Renderable{a, b, c}, nil)

	require.Len(t, plan.Draws, 3)
	assert.Equal(t, a.ID(), plan.Draws[0].Object.ID())
	assert.Equal(t, b.ID(), plan.Draws[1].Object.ID())
	assert.Equal(t, c.ID(), plan.Draws[2].Object.ID())
}

func TestBuildFramePlan_OrderHintPromotesWithinGroup(t *testing.T) {
	a := planSplat(t)
	b := planSplat(t)
	c := planSplat(t)

	plan := BuildFramePlan([]object.Renderable{a, b, c}, []uuid.UUID{c.ID(), b.ID()})

	require.Len(t, plan.Draws, 3)
	assert.Equal(t, c.ID(), plan.Draws[0].Object.ID())
	assert.Equal(t, b.ID(), plan.Draws[1].Object.ID())
	assert.Equal(t, a.ID(), plan.Draws[2].Object.ID())
}

func TestBuildFramePlan_HintNeverCrossesGroups(t *testing.T) {
	mesh := planMesh(t)
	splat := planSplat(t)

	// Hinting the splat first must not move it ahead of the mesh group.
	plan := BuildFramePlan([]object.Renderable{mesh, splat}, []uuid.UUID{splat.ID()})

	require.Len(t, plan.Draws, 2)
	assert.Equal(t, GroupMesh, plan.Draws[0].Group)
	assert.Equal(t, GroupSplatStatic, plan.Draws[1].Group)
}

func TestBuildFramePlan_SkipsNonDrawable(t *testing.T) {
	ready := planMesh(t)
	notReady := object.NewMesh(object.WithMeshProvider(bind_group_provider.NewBindGroupProvider("not ready")))
	notReady.SetIndexCount(36)

	plan := BuildFramePlan([]object.Renderable{nil, notReady, ready}, nil)

	require.Len(t, plan.Draws, 1)
	assert.Equal(t, ready.ID(), plan.Draws[0].Object.ID())
}

func TestFramePlan_SplatsReturnsOnlySplatDraws(t *testing.T) {
	plan := BuildFramePlan([]object.Renderable{planMesh(t), planSplat(t), planLines(t), planTemporalSplat(t)}, nil)

	splats := plan.Splats()
	require.Len(t, splats, 2)
	for _, d := range splats {
		assert.NotZero(t, d.StencilRef)
	}
}

func TestApplyFrameTime_ReachesTemporalSplatsOnly(t *testing.T) {
	temporal := planTemporalSplat(t)
	static := planSplat(t)
	temporal.SetTime(0.25)

	plan := BuildFramePlan([]object.Renderable{temporal, static}, nil)

	// Nil leaves the object's own time in place.
	applyFrameTime(plan, nil)
	assert.Equal(t, float32(0.25), temporal.Time())

	frameTime := float32(1.5)
	applyFrameTime(plan, &frameTime)
	assert.Equal(t, float32(1.5), temporal.Time())
}
