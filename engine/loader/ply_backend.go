package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// shC0 is the degree-0 spherical harmonics basis constant; the DC term
// maps to linear color as 0.5 + shC0 * coefficient.
const shC0 = 0.28209479177387814

// splatFalloff is the default Gaussian falloff sharpness baked into the
// third covariance slot.
const splatFalloff = 4.0

// plyLoaderBackend imports binary little-endian PLY files in the standard
// Gaussian splat layout: positions, SH color coefficients, opacity logit,
// log scales, and a rotation quaternion per vertex.
type plyLoaderBackend struct{}

var _ loaderBackend = &plyLoaderBackend{}

func newPLYLoaderBackend() loaderBackend {
	return &plyLoaderBackend{}
}

func (b *plyLoaderBackend) Load(path string) (*SplatAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

// plyHeader is the parsed header: the vertex count and the float property
// names in file order.
type plyHeader struct {
	vertexCount int
	properties  []string
}

func (b *plyLoaderBackend) LoadReader(r io.Reader) (*SplatAsset, error) {
	br := bufio.NewReader(r)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	offset := make(map[string]int, len(header.properties))
	for i, name := range header.properties {
		offset[name] = i
	}
	for _, required := range []string{"x", "y", "z", "opacity"} {
		if _, ok := offset[required]; !ok {
			return nil, fmt.Errorf("ply header is missing property %q", required)
		}
	}

	restCount := 0
	for _, name := range header.properties {
		if strings.HasPrefix(name, "f_rest_") {
			restCount++
		}
	}
	shDegree := shDegreeFromRestCount(restCount)

	stride := len(header.properties)
	record := make([]byte, stride*4)
	fields := make([]float32, stride)

	count := header.vertexCount
	asset := &SplatAsset{
		Count:       count,
		Positions:   make([]float32, count*3),
		Covariances: make([]float32, count*9),
		Colors:      make([]uint32, count),
		SHDegree:    shDegree,
	}

	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(br, record); err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		for j := range fields {
			fields[j] = math.Float32frombits(binary.LittleEndian.Uint32(record[j*4:]))
		}

		asset.Positions[i*3+0] = fields[offset["x"]]
		asset.Positions[i*3+1] = fields[offset["y"]]
		asset.Positions[i*3+2] = fields[offset["z"]]

		radius := float32(1)
		if s0, ok := offset["scale_0"]; ok {
			sum := exp32(fields[s0])
			n := float32(1)
			if s1, ok := offset["scale_1"]; ok {
				sum += exp32(fields[s1])
				n++
			}
			if s2, ok := offset["scale_2"]; ok {
				sum += exp32(fields[s2])
				n++
			}
			radius = sum / n
		}
		asset.Covariances[i*9+0] = radius
		asset.Covariances[i*9+1] = radius
		asset.Covariances[i*9+5] = splatFalloff

		asset.Colors[i] = packColor(
			shColorChannel(fields, offset, "f_dc_0"),
			shColorChannel(fields, offset, "f_dc_1"),
			shColorChannel(fields, offset, "f_dc_2"),
			sigmoid32(fields[offset["opacity"]]),
		)
	}

	return asset, nil
}

// parsePLYHeader reads up to end_header and validates the format line.
// Only binary little-endian files with float vertex properties are
// supported.
func parsePLYHeader(br *bufio.Reader) (plyHeader, error) {
	var h plyHeader

	magic, err := br.ReadString('\n')
	if err != nil {
		return h, err
	}
	if strings.TrimSpace(magic) != "ply" {
		return h, fmt.Errorf("not a ply file")
	}

	inVertexElement := false
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return h, err
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "format":
			if len(tokens) < 2 || tokens[1] != "binary_little_endian" {
				return h, fmt.Errorf("unsupported ply format %q", strings.TrimSpace(line))
			}
		case "comment":
		case "element":
			inVertexElement = len(tokens) >= 3 && tokens[1] == "vertex"
			if inVertexElement {
				n, convErr := strconv.Atoi(tokens[2])
				if convErr != nil || n < 0 {
					return h, fmt.Errorf("bad vertex count %q", tokens[2])
				}
				h.vertexCount = n
			}
		case "property":
			if !inVertexElement {
				continue
			}
			if len(tokens) < 3 || tokens[1] != "float" {
				return h, fmt.Errorf("unsupported vertex property %q", strings.TrimSpace(line))
			}
			h.properties = append(h.properties, tokens[2])
		case "end_header":
			if h.vertexCount == 0 && len(h.properties) == 0 {
				return h, fmt.Errorf("ply header has no vertex element")
			}
			return h, nil
		}
	}
}

// shDegreeFromRestCount recovers the SH degree from the number of f_rest
// coefficients: 3*((degree+1)^2 - 1) per point.
func shDegreeFromRestCount(restCount int) int {
	for degree := 0; degree <= 4; degree++ {
		if 3*((degree+1)*(degree+1)-1) == restCount {
			return degree
		}
	}
	return 0
}

func shColorChannel(fields []float32, offset map[string]int, name string) float32 {
	idx, ok := offset[name]
	if !ok {
		return 0.5
	}
	return 0.5 + shC0*fields[idx]
}

func packColor(r, g, b, a float32) uint32 {
	return uint32(clampByte(r)) |
		uint32(clampByte(g))<<8 |
		uint32(clampByte(b))<<16 |
		uint32(clampByte(a))<<24
}

func clampByte(v float32) uint8 {
	scaled := v * 255
	if scaled <= 0 {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled + 0.5)
}

func exp32(v float32) float32 {
	return float32(math.Exp(float64(v)))
}

func sigmoid32(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}
