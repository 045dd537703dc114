package target

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowTarget_FrameStateMachine(t *testing.T) {
	wt := NewWindowTarget()

	require.NoError(t, wt.BeginFrame(nil))
	assert.ErrorIs(t, wt.BeginFrame(nil), ErrFrameInProgress)

	wt.EndFrame()
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()

	wt.Dispose()
	assert.ErrorIs(t, wt.BeginFrame(nil), ErrDisposed)
}

func TestWindowTarget_ViewsEmptyUntilPushed(t *testing.T) {
	wt := NewWindowTarget(WithWindowSize(800, 600))
	require.NoError(t, wt.BeginFrame(nil))

	assert.Empty(t, wt.Views())

	proj := mgl32.Perspective(1, 800.0/600.0, 0.1, 100)
	view := mgl32.Translate3D(0, 0, -5)
	wt.PushView(proj, view, 500, 500)

	views := wt.Views()
	require.Len(t, views, 1)
	assert.Equal(t, proj, views[0].Projection)
	assert.Equal(t, view, views[0].View)
	assert.Equal(t, float32(800), views[0].Viewport.Width)
	assert.Equal(t, float32(600), views[0].Viewport.Height)

	wt.EndFrame()
	assert.Empty(t, wt.Views(), "views do not outlive the frame")
}

func TestWindowTarget_ResizeReconfiguresOnNextFrame(t *testing.T) {
	var got [][2]int
	wt := NewWindowTarget(
		WithWindowSize(640, 480),
		WithSurfaceReconfigure(func(w, h int) error {
			got = append(got, [2]int{w, h})
			return nil
		}),
	)

	// The initial configuration happens on the first frame.
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()
	require.Equal(t, [][2]int{{640, 480}}, got)

	// No resize: the next frame reconfigures nothing.
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()
	require.Len(t, got, 1)

	wt.Resize(800, 600)
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()
	require.Equal(t, [2]int{800, 600}, got[1])

	w, h := wt.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestWindowTarget_ResizeCarriesFramebufferPixels(t *testing.T) {
	var got [][2]int
	wt := NewWindowTarget(
		WithWindowSize(640, 480),
		WithContentScale(2),
		WithSurfaceReconfigure(func(w, h int) error {
			got = append(got, [2]int{w, h})
			return nil
		}),
	)

	// The logical construction size scales up to the backing store.
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()
	require.Equal(t, [][2]int{{1280, 960}}, got)

	// A resize event already reports pixels: the surface matches it exactly
	// instead of scaling a second time.
	wt.Resize(1602, 1202)
	require.NoError(t, wt.BeginFrame(nil))
	require.Equal(t, [2]int{1602, 1202}, got[1])

	// The viewport agrees with the surface.
	wt.PushView(mgl32.Ident4(), mgl32.Ident4(), 800, 800)
	views := wt.Views()
	require.Len(t, views, 1)
	assert.Equal(t, float32(1602), views[0].Viewport.Width)
	assert.Equal(t, float32(1202), views[0].Viewport.Height)
	wt.EndFrame()

	w, h := wt.Size()
	assert.Equal(t, 1602, w)
	assert.Equal(t, 1202, h)
}

func TestWindowTarget_FailedReconfigureLeavesTargetIdle(t *testing.T) {
	boom := errors.New("surface lost")
	fail := true
	wt := NewWindowTarget(WithSurfaceReconfigure(func(w, h int) error {
		if fail {
			return boom
		}
		return nil
	}))

	err := wt.BeginFrame(nil)
	require.ErrorIs(t, err, ErrSurfaceConfiguration)

	// The target stayed Idle and retries the configuration next frame.
	fail = false
	require.NoError(t, wt.BeginFrame(nil))
	wt.EndFrame()
}

func TestWindowTarget_IgnoresMinimizedResize(t *testing.T) {
	wt := NewWindowTarget(WithWindowSize(640, 480))
	wt.Resize(0, 0)

	w, h := wt.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func stereoToken() *FrameToken {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	return &FrameToken{
		Projections: []mgl32.Mat4{proj, proj},
		Poses: []mgl32.Mat4{
			mgl32.Translate3D(-0.03, 0, 0),
			mgl32.Translate3D(0.03, 0, 0),
		},
	}
}

func TestStereoTarget_RequiresCompleteFrameToken(t *testing.T) {
	st := NewStereoTarget()

	assert.ErrorIs(t, st.BeginFrame(nil), ErrMissingFrameToken)

	tok := stereoToken()
	tok.Poses = tok.Poses[:1]
	assert.ErrorIs(t, st.BeginFrame(tok), ErrMalformedFrameToken)

	// Both failures left the target Idle.
	require.NoError(t, st.BeginFrame(stereoToken()))
	st.EndFrame()
}

func TestStereoTarget_DerivesTwoSideBySideViews(t *testing.T) {
	st := NewStereoTarget(WithStereoFramebufferSize(2000, 1000))
	require.NoError(t, st.BeginFrame(stereoToken()))
	defer st.EndFrame()

	views := st.Views()
	require.Len(t, views, 2)

	left, right := views[0], views[1]
	assert.Equal(t, float32(0), left.Viewport.X)
	assert.Equal(t, float32(1000), left.Viewport.Width)
	assert.Equal(t, float32(1000), right.Viewport.X)
	assert.Equal(t, float32(1000), right.Viewport.Width)
	assert.Equal(t, float32(1000), left.Viewport.Height)

	// View is the inverse of the eye pose.
	for i, tok := 0, stereoToken(); i < 2; i++ {
		product := tok.Poses[i].Mul4(views[i].View)
		ident := mgl32.Ident4()
		for j := range product {
			assert.InDelta(t, ident[j], product[j], 1e-5, "eye %d entry %d", i, j)
		}
	}

	// Focals recovered from the projection diagonal.
	proj := stereoToken().Projections[0]
	assert.InDelta(t, float64(proj[0])*1000/2, float64(left.Fx), 1e-3)
	assert.InDelta(t, float64(abs32(proj[5]))*1000/2, float64(left.Fy), 1e-3)
}

func TestStereoTarget_WorldAnchorMovesBothEyes(t *testing.T) {
	st := NewStereoTarget()
	st.SetWorldAnchor(mgl32.Translate3D(10, 0, 0))

	require.NoError(t, st.BeginFrame(stereoToken()))
	views := st.Views()
	st.EndFrame()
	require.Len(t, views, 2)

	// An anchored pose at x=10-0.03 inverts to a view translating by the
	// negation.
	assert.InDelta(t, -(10-0.03), float64(views[0].View[12]), 1e-4)

	// A token-supplied anchor overrides the stored one.
	tok := stereoToken()
	tok.WorldAnchor = mgl32.Translate3D(-5, 0, 0)
	require.NoError(t, st.BeginFrame(tok))
	views = st.Views()
	st.EndFrame()
	assert.InDelta(t, -(-5-0.03), float64(views[0].View[12]), 1e-4)
}
