package renderer

import "github.com/go-gl/mathgl/mgl32"

// Opacity thresholds for the splat passes. The depth pre-pass only writes
// depth where a splat is solid enough to occlude; the color pass keeps
// nearly transparent fragments out of the blend.
const (
	splatOpacityThresholdDepth = 0.5
	splatOpacityThresholdColor = 1.0 / 255.0
)

// defaultLightDir is the directional light for lit meshes, normalized.
var defaultLightDir = [3]float32{-0.4558, -0.7293, -0.5103}

// GPU-aligned uniform blocks. Field order and padding mirror the WGSL
// struct declarations; all blocks stay multiples of 16 bytes.

// gpuSplatStaticUniform is the per-object uniform for static splats.
// Size: 96 bytes.
type gpuSplatStaticUniform struct {
	Model                 mgl32.Mat4 // offset  0
	Focal                 [2]float32 // offset 64: pixel focals fx, fy
	Viewport              [2]float32 // offset 72: viewport size in pixels
	OpacityThresholdDepth float32    // offset 80
	OpacityThresholdColor float32    // offset 84
	SHDegree              uint32     // offset 88
	_pad                  uint32     // offset 92
}

// gpuSplatTemporalUniform is the per-object uniform for temporal splats.
// Size: 96 bytes.
type gpuSplatTemporalUniform struct {
	Model                 mgl32.Mat4 // offset  0
	Focal                 [2]float32 // offset 64
	Viewport              [2]float32 // offset 72
	OpacityThresholdDepth float32    // offset 80
	OpacityThresholdColor float32    // offset 84
	Time                  float32    // offset 88: playback time
	MotionDegree          uint32     // offset 92
}

// gpuMeshUniform is the per-object uniform for meshes. Size: 96 bytes.
type gpuMeshUniform struct {
	Model     mgl32.Mat4 // offset  0
	BaseColor [4]float32 // offset 64
	LightDir  [3]float32 // offset 80
	_pad      float32    // offset 92
}

// gpuModelUniform is the per-object uniform for lines and point clouds.
// Size: 64 bytes.
type gpuModelUniform struct {
	Model mgl32.Mat4 // offset 0
}

// gpuDepthVizUniform configures the depth visualization pass.
// Size: 16 bytes.
type gpuDepthVizUniform struct {
	Near  float32 // offset  0: eye-space window near
	Far   float32 // offset  4: eye-space window far
	Gamma float32 // offset  8: output gamma shaping
	_pad  float32 // offset 12
}
