package renderer

import (
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/google/uuid"
)

// DrawGroup identifies one phase of the fixed frame sequence. Groups always
// execute in declaration order: meshes first so opaque geometry seeds the
// depth buffer, then the blended splat groups, then lines, then the overlay
// on the first view only.
type DrawGroup int

const (
	GroupMesh DrawGroup = iota
	GroupSplatTemporal
	GroupSplatStatic
	GroupLines
	GroupPointCloud
	GroupOverlay
)

// PlannedDraw is one object scheduled into the frame.
type PlannedDraw struct {
	// Object is the drawable object.
	Object object.Renderable

	// Group is the phase the object draws in.
	Group DrawGroup

	// StencilRef is the stencil reference value the object's color pass
	// writes. Non-zero for splat draws only; unique across the frame so a
	// later pass can mask any single object's pixels.
	StencilRef uint32
}

// FramePlan is the ordered draw schedule for one frame, identical across
// all views of the target.
type FramePlan struct {
	// Draws lists every drawable object in execution order.
	Draws []PlannedDraw

	// SplatCount is the number of splat draws in the plan.
	SplatCount int
}

// Splats returns the planned splat draws, in execution order.
func (p FramePlan) Splats() []PlannedDraw {
	out := make([]PlannedDraw, 0, p.SplatCount)
	for _, d := range p.Draws {
		if d.Group == GroupSplatTemporal || d.Group == GroupSplatStatic {
			out = append(out, d)
		}
	}
	return out
}

// BuildFramePlan partitions the objects into draw groups, preserving the
// caller's relative order within each group, and assigns each splat a
// unique 1-based stencil reference. Objects that are not drawable this
// frame are left out entirely.
//
// An optional order hint promotes listed objects to the front of their
// group, in hint order; unlisted objects follow in caller order.
//
// The plan is pure bookkeeping: no GPU state is touched, so it can be built
// and inspected without a device.
//
// Parameters:
//   - objects: the candidate objects, in caller order
//   - hint: object ids to draw first within their groups, or nil
//
// Returns:
//   - FramePlan: the ordered draw schedule
func BuildFramePlan(objects []object.Renderable, hint []uuid.UUID) FramePlan {
	groups := make(map[DrawGroup][]object.Renderable, 5)
	for _, obj := range objects {
		if obj == nil || !obj.Drawable() {
			continue
		}
		g := groupOf(obj.Kind())
		groups[g] = append(groups[g], obj)
	}

	if len(hint) > 0 {
		for g, members := range groups {
			groups[g] = applyOrderHint(members, hint)
		}
	}

	var plan FramePlan
	stencilRef := uint32(0)
	for _, g := range []DrawGroup{GroupMesh, GroupSplatTemporal, GroupSplatStatic, GroupLines, GroupPointCloud} {
		for _, obj := range groups[g] {
			draw := PlannedDraw{Object: obj, Group: g}
			if g == GroupSplatTemporal || g == GroupSplatStatic {
				stencilRef++
				draw.StencilRef = stencilRef
				plan.SplatCount++
			}
			plan.Draws = append(plan.Draws, draw)
		}
	}
	return plan
}

func groupOf(kind object.Kind) DrawGroup {
	switch kind {
	case object.KindSplatTemporal:
		return GroupSplatTemporal
	case object.KindSplatStatic:
		return GroupSplatStatic
	case object.KindLines:
		return GroupLines
	case object.KindPointCloud:
		return GroupPointCloud
	default:
		return GroupMesh
	}
}

// applyOrderHint stably moves hinted objects to the front of the slice, in
// hint order.
func applyOrderHint(members []object.Renderable, hint []uuid.UUID) []object.Renderable {
	rank := make(map[uuid.UUID]int, len(hint))
	for i, id := range hint {
		rank[id] = i
	}

	hinted := make([]object.Renderable, 0, len(members))
	rest := make([]object.Renderable, 0, len(members))
	for _, m := range members {
		if _, ok := rank[m.ID()]; ok {
			hinted = append(hinted, m)
		} else {
			rest = append(rest, m)
		}
	}
	for i := 1; i < len(hinted); i++ {
		for j := i; j > 0 && rank[hinted[j].ID()] < rank[hinted[j-1].ID()]; j-- {
			hinted[j], hinted[j-1] = hinted[j-1], hinted[j]
		}
	}
	return append(hinted, rest...)
}
