package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithWGSL sets the opaque WGSL source and the render entry points for this pipeline.
//
// Parameters:
//   - source: the WGSL source blob
//   - vertexEntry: the vertex entry point name
//   - fragmentEntry: the fragment entry point name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader source for this pipeline
func WithWGSL(source, vertexEntry, fragmentEntry string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.wgslSource = source
		p.vertexEntry = vertexEntry
		p.fragmentEntry = fragmentEntry
	}
}

// WithComputeWGSL sets the opaque WGSL source and the compute entry point for this pipeline.
//
// Parameters:
//   - source: the WGSL source blob
//   - computeEntry: the compute entry point name
//
// Returns:
//   - PipelineBuilderOption: a function that sets the compute shader source for this pipeline
func WithComputeWGSL(source, computeEntry string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.wgslSource = source
		p.computeEntry = computeEntry
	}
}

// WithBindGroupLayouts declares the bind group layouts this pipeline expects,
// indexed by group. Bind groups drawn with the pipeline must be created from
// structurally identical layouts.
//
// Parameters:
//   - descriptors: the layout descriptors, indexed by group
//
// Returns:
//   - PipelineBuilderOption: a function that sets the bind group layouts for this pipeline
func WithBindGroupLayouts(descriptors ...wgpu.BindGroupLayoutDescriptor) PipelineBuilderOption {
	return func(p *pipeline) {
		p.bindGroupLayoutDescriptors = descriptors
	}
}

// WithVertexLayout declares the vertex buffer layouts for this pipeline.
// Omit for vertex-pulling pipelines.
//
// Parameters:
//   - layouts: the vertex buffer layouts, indexed by slot
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex layouts for this pipeline
func WithVertexLayout(layouts ...wgpu.VertexBufferLayout) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexLayouts = layouts
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyPointList, wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline. Pass
// wgpu.ColorWriteMaskNone for a depth/stencil-only pass.
//
// Parameters:
//   - writeMask: the color write mask to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}

// WithBlendState sets the blend state for this pipeline.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = blendState
	}
}

// WithStencilEnabled sets whether stencil writes are enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether stencil state should be active
//
// Returns:
//   - PipelineBuilderOption: a function that sets the stencil enabled state for this pipeline
func WithStencilEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.stencilEnabled = enabled
	}
}

// WithStencilWriteValue sets the stencil reference value draws with this
// pipeline write to tagged pixels.
//
// Parameters:
//   - value: the stencil reference value
//
// Returns:
//   - PipelineBuilderOption: a function that sets the stencil write value for this pipeline
func WithStencilWriteValue(value uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.stencilEnabled = true
		p.stencilWriteValue = value
	}
}

// WithStencilCompare sets the stencil compare function. Defaults to
// wgpu.CompareFunctionAlways.
//
// Parameters:
//   - compare: the compare function
//
// Returns:
//   - PipelineBuilderOption: a function that sets the stencil compare function for this pipeline
func WithStencilCompare(compare wgpu.CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.stencilCompare = compare
	}
}
