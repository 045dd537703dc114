package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splatPoint mirrors one binary vertex record of the test files.
type splatPoint struct {
	pos     [3]float32
	dc      [3]float32
	rest    []float32
	opacity float32
	scale   [3]float32
	rot     [4]float32
}

// buildPLY serializes points into a binary little-endian PLY with the
// standard Gaussian splat property layout.
func buildPLY(restCount int, points []splatPoint) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("comment generated for tests\n")
	fmt.Fprintf(&buf, "element vertex %d\n", len(points))
	for _, name := range []string{"x", "y", "z", "f_dc_0", "f_dc_1", "f_dc_2"} {
		fmt.Fprintf(&buf, "property float %s\n", name)
	}
	for i := 0; i < restCount; i++ {
		fmt.Fprintf(&buf, "property float f_rest_%d\n", i)
	}
	for _, name := range []string{"opacity", "scale_0", "scale_1", "scale_2", "rot_0", "rot_1", "rot_2", "rot_3"} {
		fmt.Fprintf(&buf, "property float %s\n", name)
	}
	buf.WriteString("end_header\n")

	writeF := func(v float32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}
	for _, p := range points {
		for _, v := range p.pos {
			writeF(v)
		}
		for _, v := range p.dc {
			writeF(v)
		}
		for i := 0; i < restCount; i++ {
			if i < len(p.rest) {
				writeF(p.rest[i])
			} else {
				writeF(0)
			}
		}
		writeF(p.opacity)
		for _, v := range p.scale {
			writeF(v)
		}
		for _, v := range p.rot {
			writeF(v)
		}
	}
	return buf.Bytes()
}

func TestLoadReaderParsesSplatPLY(t *testing.T) {
	data := buildPLY(9, []splatPoint{
		{
			pos:     [3]float32{1, 2, 3},
			dc:      [3]float32{0, 0, 0},
			opacity: 0,
			scale:   [3]float32{0, 0, 0},
			rot:     [4]float32{1, 0, 0, 0},
		},
		{
			pos:     [3]float32{-1, 0.5, 4},
			dc:      [3]float32{10, 0, -10},
			opacity: 20,
			scale:   [3]float32{1, 1, 1},
			rot:     [4]float32{1, 0, 0, 0},
		},
	})

	l := NewLoader()
	asset, err := l.LoadReader("test.ply", bytes.NewReader(data))
	require.NoError(t, err)
	require.NotNil(t, asset)

	assert.Equal(t, 2, asset.Count)
	assert.Equal(t, 1, asset.SHDegree)
	assert.Len(t, asset.Positions, 6)
	assert.Len(t, asset.Covariances, 18)
	assert.Len(t, asset.Colors, 2)

	assert.Equal(t, []float32{1, 2, 3}, asset.Positions[:3])
	assert.Equal(t, []float32{-1, 0.5, 4}, asset.Positions[3:6])

	// Zero DC terms and zero opacity logit both land on mid gray.
	first := asset.Colors[0]
	assert.Equal(t, uint32(128), first&0xFF)
	assert.Equal(t, uint32(128), (first>>8)&0xFF)
	assert.Equal(t, uint32(128), (first>>16)&0xFF)
	assert.Equal(t, uint32(128), (first>>24)&0xFF)

	// Large positive/negative DC terms clamp, opacity 20 saturates alpha.
	second := asset.Colors[1]
	assert.Equal(t, uint32(255), second&0xFF)
	assert.Equal(t, uint32(0), (second>>16)&0xFF)
	assert.Equal(t, uint32(255), (second>>24)&0xFF)

	// exp(0) scales give a unit radius in both screen axes.
	assert.InDelta(t, 1.0, asset.Covariances[0], 1e-6)
	assert.InDelta(t, 1.0, asset.Covariances[1], 1e-6)
	assert.InDelta(t, 4.0, asset.Covariances[5], 1e-6)

	// exp(1) scales average to e.
	assert.InDelta(t, math.E, asset.Covariances[9], 1e-5)
}

func TestLoadReaderDegreeZero(t *testing.T) {
	data := buildPLY(0, []splatPoint{{rot: [4]float32{1, 0, 0, 0}}})

	l := NewLoader(WithBackendType(BackendTypePLY))
	asset, err := l.LoadReader("flat.ply", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, asset.SHDegree)
}

func TestLoadReaderCachesByName(t *testing.T) {
	data := buildPLY(0, []splatPoint{{pos: [3]float32{1, 1, 1}}})

	l := NewLoader()
	first, err := l.LoadReader("cached.ply", bytes.NewReader(data))
	require.NoError(t, err)

	// Empty reader would fail a fresh parse, so a hit must come from cache.
	second, err := l.LoadReader("cached.ply", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Same(t, first, second)

	assert.Same(t, first, l.Cached("cached.ply"))

	l.Evict("cached.ply")
	assert.Nil(t, l.Cached("cached.ply"))

	_, err = l.LoadReader("cached.ply", bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	l := NewLoader()
	_, err := l.Load("scene.gltf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported splat file extension")
}

func TestLoadReaderRejectsBadHeaders(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"not ply", "obj\nformat binary_little_endian 1.0\nend_header\n"},
		{"ascii format", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\n"},
		{"non-float property", "ply\nformat binary_little_endian 1.0\nelement vertex 1\nproperty uchar red\nend_header\n"},
		{"no vertex element", "ply\nformat binary_little_endian 1.0\nend_header\n"},
	}

	l := NewLoader()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.LoadReader(tc.name, strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadReaderTruncatedBody(t *testing.T) {
	data := buildPLY(0, []splatPoint{{}, {}})
	truncated := data[:len(data)-8]

	l := NewLoader()
	_, err := l.LoadReader("short.ply", bytes.NewReader(truncated))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex")
}

func TestLoadReaderMissingRequiredProperty(t *testing.T) {
	header := "ply\nformat binary_little_endian 1.0\nelement vertex 1\n" +
		"property float x\nproperty float y\nproperty float z\nend_header\n"

	l := NewLoader()
	_, err := l.LoadReader("noalpha.ply", strings.NewReader(header))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opacity")
}
