package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_RotateRoundTripRestoresRotation(t *testing.T) {
	cam, err := NewCamera(WithYawPitch(0.3, 0.1))
	require.NoError(t, err)

	before := cam.RotationMatrix()

	const delta = 0.7253
	cam.Rotate(delta, 0)
	cam.Rotate(-delta, 0)

	after := cam.RotationMatrix()
	for i := range before {
		assert.InDelta(t, before[i], after[i], 1e-5, "rotation entry %d", i)
	}
}

func TestCamera_PitchNeverLeavesOpenInterval(t *testing.T) {
	cam, err := NewCamera()
	require.NoError(t, err)

	limit := float32(math.Pi / 2)
	deltas := []float32{10, -25, 3.2, -0.001, 100, -1000, 0.5}
	for _, d := range deltas {
		cam.Rotate(0.1, d)
		p := cam.Pitch()
		assert.Less(t, p, limit)
		assert.Greater(t, p, -limit)
	}
}

func TestCamera_ViewMatrixInverseIsIdentity(t *testing.T) {
	cases := []struct {
		yaw, pitch float32
		pos        mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, 0}},
		{1.1, -0.4, mgl32.Vec3{3, -2, 7}},
		{-2.7, 1.2, mgl32.Vec3{-15, 0.5, 2}},
		{6.9, -1.5, mgl32.Vec3{0.1, 100, -40}},
	}

	for _, tc := range cases {
		cam, err := NewCamera(WithYawPitch(tc.yaw, tc.pitch), WithPosition(tc.pos))
		require.NoError(t, err)

		view := cam.ViewMatrix()
		pose, err := cam.CameraToWorldMatrix()
		require.NoError(t, err)

		product := pose.Mul4(view)
		ident := mgl32.Ident4()
		for i := range product {
			assert.InDelta(t, ident[i], product[i], 1e-4,
				"yaw=%v pitch=%v entry %d", tc.yaw, tc.pitch, i)
		}
	}
}

func TestCamera_FocalFromVerticalFOV(t *testing.T) {
	cam, err := NewCamera(
		WithVerticalFOV(float32(60*math.Pi/180)),
		WithViewport(1920, 1080),
	)
	require.NoError(t, err)

	fx, fy := cam.Focal()

	wantFy := 1080 / (2 * math.Tan(30*math.Pi/180))
	assert.InDelta(t, wantFy, float64(fy), 1e-2)

	// Converting the vertical FOV to a horizontal FOV through the aspect
	// ratio and applying the focal formula yields the same pixel focal.
	tanHalf := math.Tan(30 * math.Pi / 180)
	hfov := 2 * math.Atan(tanHalf*1920.0/1080.0)
	wantFx := 1920 / (2 * math.Tan(hfov/2))
	assert.InDelta(t, wantFx, float64(fx), 1e-2)
}

func TestCamera_FocalAndFOVAreMutuallyExclusive(t *testing.T) {
	cam, err := NewCamera(WithVerticalFOV(1.0))
	require.NoError(t, err)

	cam.SetFocal(500, 500)
	assert.Zero(t, cam.VerticalFOV())
	fx, fy := cam.Focal()
	assert.Equal(t, float32(500), fx)
	assert.Equal(t, float32(500), fy)

	cam.SetVerticalFOV(1.2)
	assert.Equal(t, float32(1.2), cam.VerticalFOV())
	fx, fy = cam.Focal()
	assert.NotEqual(t, float32(500), fx)
	assert.NotEqual(t, float32(500), fy)
}

func TestCamera_RejectsDegenerateDirections(t *testing.T) {
	_, err := NewCamera(WithForwardReference(mgl32.Vec3{0, 0, 0}))
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = NewCamera(WithWorldUp(mgl32.Vec3{0, 0, 0}))
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestCamera_ProjectionInvalidatedByViewportChange(t *testing.T) {
	cam, err := NewCamera(WithVerticalFOV(1.0), WithViewport(800, 600))
	require.NoError(t, err)

	before := cam.ProjectionMatrix()
	cam.SetViewport(1600, 600)
	after := cam.ProjectionMatrix()

	assert.NotEqual(t, before, after)
}

func TestCamera_BasisIsOrthonormalWhenForwardParallelToUp(t *testing.T) {
	// Pitch pinned at the clamp limit pushes forward almost onto the world
	// up axis; the basis must still come out orthonormal.
	cam, err := NewCamera(WithYawPitch(0, 10))
	require.NoError(t, err)

	rot := cam.RotationMatrix()
	right, up, forward := rot.Col(0), rot.Col(1), rot.Col(2)

	assert.InDelta(t, 1, float64(right.Len()), 1e-4)
	assert.InDelta(t, 1, float64(up.Len()), 1e-4)
	assert.InDelta(t, 1, float64(forward.Len()), 1e-4)
	assert.InDelta(t, 0, float64(right.Dot(up)), 1e-4)
	assert.InDelta(t, 0, float64(right.Dot(forward)), 1e-4)
	assert.InDelta(t, 0, float64(up.Dot(forward)), 1e-4)
}
