package object

import (
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/depthsort"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// SplatTemporalBuilderOption is a functional option used to configure a SplatTemporal during construction.
type SplatTemporalBuilderOption func(*splatTemporal)

// SplatStaticBuilderOption is a functional option used to configure a SplatStatic during construction.
type SplatStaticBuilderOption func(*splatStatic)

// MeshBuilderOption is a functional option used to configure a Mesh during construction.
type MeshBuilderOption func(*mesh)

// LinesBuilderOption is a functional option used to configure a Lines during construction.
type LinesBuilderOption func(*lines)

// PointCloudBuilderOption is a functional option used to configure a PointCloud during construction.
type PointCloudBuilderOption func(*pointCloud)

// WithTemporalModelMatrix sets the initial object-to-world transform.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - SplatTemporalBuilderOption: a function that sets the model matrix
func WithTemporalModelMatrix(m mgl32.Mat4) SplatTemporalBuilderOption {
	return func(s *splatTemporal) {
		s.model = m
	}
}

// WithTemporalSortStrategy sets the initial depth ordering strategy.
// Defaults to back-to-front.
//
// Parameters:
//   - strategy: the ordering strategy
//
// Returns:
//   - SplatTemporalBuilderOption: a function that sets the strategy
func WithTemporalSortStrategy(strategy depthsort.Strategy) SplatTemporalBuilderOption {
	return func(s *splatTemporal) {
		s.strategy = strategy
	}
}

// WithTemporalWorker injects a pre-built depth-sort worker instead of
// letting the constructor start one.
//
// Parameters:
//   - w: the worker to use
//
// Returns:
//   - SplatTemporalBuilderOption: a function that sets the worker
func WithTemporalWorker(w depthsort.Worker) SplatTemporalBuilderOption {
	return func(s *splatTemporal) {
		s.worker = w
	}
}

// WithTemporalProvider sets the GPU resource provider.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - SplatTemporalBuilderOption: a function that sets the provider
func WithTemporalProvider(p bind_group_provider.BindGroupProvider) SplatTemporalBuilderOption {
	return func(s *splatTemporal) {
		s.provider = p
	}
}

// WithMotionDegree sets the degree of the per-point motion polynomial.
// Defaults to 3.
//
// Parameters:
//   - degree: the polynomial degree
//
// Returns:
//   - SplatTemporalBuilderOption: a function that sets the motion degree
func WithMotionDegree(degree int) SplatTemporalBuilderOption {
	return func(s *splatTemporal) {
		s.motionDegree = degree
	}
}

// WithStaticModelMatrix sets the initial object-to-world transform.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - SplatStaticBuilderOption: a function that sets the model matrix
func WithStaticModelMatrix(m mgl32.Mat4) SplatStaticBuilderOption {
	return func(s *splatStatic) {
		s.model = m
	}
}

// WithStaticSortStrategy sets the initial depth ordering strategy.
// Defaults to back-to-front.
//
// Parameters:
//   - strategy: the ordering strategy
//
// Returns:
//   - SplatStaticBuilderOption: a function that sets the strategy
func WithStaticSortStrategy(strategy depthsort.Strategy) SplatStaticBuilderOption {
	return func(s *splatStatic) {
		s.strategy = strategy
	}
}

// WithStaticWorker injects a pre-built depth-sort worker instead of letting
// the constructor start one.
//
// Parameters:
//   - w: the worker to use
//
// Returns:
//   - SplatStaticBuilderOption: a function that sets the worker
func WithStaticWorker(w depthsort.Worker) SplatStaticBuilderOption {
	return func(s *splatStatic) {
		s.worker = w
	}
}

// WithStaticProvider sets the GPU resource provider.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - SplatStaticBuilderOption: a function that sets the provider
func WithStaticProvider(p bind_group_provider.BindGroupProvider) SplatStaticBuilderOption {
	return func(s *splatStatic) {
		s.provider = p
	}
}

// WithSHDegree sets the spherical-harmonic degree of the color
// coefficients. 0 means flat RGBA only.
//
// Parameters:
//   - degree: the SH degree
//
// Returns:
//   - SplatStaticBuilderOption: a function that sets the SH degree
func WithSHDegree(degree int) SplatStaticBuilderOption {
	return func(s *splatStatic) {
		s.shDegree = degree
	}
}

// WithMeshModelMatrix sets the initial object-to-world transform.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - MeshBuilderOption: a function that sets the model matrix
func WithMeshModelMatrix(m mgl32.Mat4) MeshBuilderOption {
	return func(o *mesh) {
		o.model = m
	}
}

// WithLit selects the shaded pipeline variant for this mesh.
//
// Parameters:
//   - lit: true for the shaded variant
//
// Returns:
//   - MeshBuilderOption: a function that sets the lit flag
func WithLit(lit bool) MeshBuilderOption {
	return func(o *mesh) {
		o.lit = lit
	}
}

// WithMeshProvider sets the GPU resource provider.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - MeshBuilderOption: a function that sets the provider
func WithMeshProvider(p bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(o *mesh) {
		o.provider = p
	}
}

// WithLinesModelMatrix sets the initial object-to-world transform.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - LinesBuilderOption: a function that sets the model matrix
func WithLinesModelMatrix(m mgl32.Mat4) LinesBuilderOption {
	return func(o *lines) {
		o.model = m
	}
}

// WithLineWidth sets the line width in pixels. Defaults to 1.
//
// Parameters:
//   - width: the line width
//
// Returns:
//   - LinesBuilderOption: a function that sets the line width
func WithLineWidth(width float32) LinesBuilderOption {
	return func(o *lines) {
		o.width = width
	}
}

// WithLinesProvider sets the GPU resource provider.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - LinesBuilderOption: a function that sets the provider
func WithLinesProvider(p bind_group_provider.BindGroupProvider) LinesBuilderOption {
	return func(o *lines) {
		o.provider = p
	}
}

// WithPointCloudModelMatrix sets the initial object-to-world transform.
//
// Parameters:
//   - m: the model matrix
//
// Returns:
//   - PointCloudBuilderOption: a function that sets the model matrix
func WithPointCloudModelMatrix(m mgl32.Mat4) PointCloudBuilderOption {
	return func(o *pointCloud) {
		o.model = m
	}
}

// WithPointSize sets the rendered point size in pixels. Defaults to 1.
//
// Parameters:
//   - size: the point size
//
// Returns:
//   - PointCloudBuilderOption: a function that sets the point size
func WithPointSize(size float32) PointCloudBuilderOption {
	return func(o *pointCloud) {
		o.pointSize = size
	}
}

// WithPointCloudProvider sets the GPU resource provider.
//
// Parameters:
//   - p: the provider
//
// Returns:
//   - PointCloudBuilderOption: a function that sets the provider
func WithPointCloudProvider(p bind_group_provider.BindGroupProvider) PointCloudBuilderOption {
	return func(o *pointCloud) {
		o.provider = p
	}
}
