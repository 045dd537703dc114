package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateAboutAxis(t *testing.T) {
	// Quarter turn about Y sends +X to -Z.
	got := RotateAboutAxis(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, float32(math.Pi/2))
	assert.InDelta(t, 0, got.X(), 1e-6)
	assert.InDelta(t, 0, got.Y(), 1e-6)
	assert.InDelta(t, -1, got.Z(), 1e-6)

	// Rotating about the vector's own axis is a no-op.
	got = RotateAboutAxis(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 1, 0}, 1.3)
	assert.InDelta(t, 0, got.X(), 1e-6)
	assert.InDelta(t, 2, got.Y(), 1e-6)
	assert.InDelta(t, 0, got.Z(), 1e-6)
}

func TestLeastParallelAxis(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, LeastParallelAxis(mgl32.Vec3{1, 0, 0}))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, LeastParallelAxis(mgl32.Vec3{0, 1, 0}))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, LeastParallelAxis(mgl32.Vec3{0, 0, 1}))
}

func TestPerspectiveFromFocalClipRange(t *testing.T) {
	const (
		fx, fy        = 600, 600
		width, height = 800, 600
		near, far     = 0.1, 100
	)
	proj := PerspectiveFromFocal(fx, fy, width, height, near, far)

	project := func(z float32) (depth, w float32) {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, z, 1})
		return clip.Z() / clip.W(), clip.W()
	}

	// Near plane lands on 0, far plane on 1.
	depth, w := project(near)
	assert.InDelta(t, 0, depth, 1e-5)
	assert.InDelta(t, near, w, 1e-6)

	depth, w = project(far)
	assert.InDelta(t, 1, depth, 1e-5)
	assert.InDelta(t, far, w, 1e-4)

	// A point at the image edge projects to |ndc x| == 1.
	clip := proj.Mul4x1(mgl32.Vec4{width / (2 * fx) * 10, 0, 10, 1})
	assert.InDelta(t, 1, clip.X()/clip.W(), 1e-5)
}

func TestFocalFromFOV(t *testing.T) {
	fx, fy := FocalFromFOV(float32(math.Pi/2), 600, 600)
	// 90 degree vertical FOV at 600px: fy = 300; square viewport keeps fx equal.
	assert.InDelta(t, 300, fy, 1e-3)
	assert.InDelta(t, fx, fy, 1e-3)

	// A wider viewport with square pixels still yields matching focals.
	fx, fy = FocalFromFOV(float32(math.Pi/3), 1280, 720)
	assert.InDelta(t, fx, fy, 1e-2)
}

func TestDepthRowTracksCameraMotion(t *testing.T) {
	proj := PerspectiveFromFocal(600, 600, 800, 600, 0.1, 100)
	viewA := mgl32.Translate3D(0, 0, 5)
	viewB := mgl32.HomogRotate3DY(0.5).Mul4(viewA)

	rowA := DepthRow(proj.Mul4(viewA))
	rowB := DepthRow(proj.Mul4(viewB))

	assert.InDelta(t, 0, DepthRowDistance(rowA, rowA), 1e-7)
	assert.Greater(t, DepthRowDistance(rowA, rowB), float32(0.01))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 7))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, "fallback", Coalesce("", "fallback"))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32(nil)))

	data := []float32{1, 2}
	raw := SliceToBytes(data)
	require.Len(t, raw, 8)
	assert.Equal(t, uint32(0x3F800000), uint32(raw[0])|uint32(raw[1])<<8|uint32(raw[2])<<16|uint32(raw[3])<<24)
}

func TestStructToBytes(t *testing.T) {
	type uniform struct {
		A float32
		B float32
	}
	u := uniform{A: 1}
	raw := StructToBytes(&u)
	require.Len(t, raw, 8)
	assert.Equal(t, byte(0x3F), raw[3])
}
