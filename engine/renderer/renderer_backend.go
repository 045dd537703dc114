package renderer

import (
	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

// wgpuRendererBackend is the WebGPU realization of the backend surface. The
// orchestration layer above it never touches wgpu directly except through
// the handles this interface returns.
type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface

	// ConfigureSurface (re)configures the swapchain surface and rebuilds the
	// size-dependent attachments: the depth/stencil texture and the offscreen
	// scene color/depth textures the post passes sample.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if any attachment could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the GPU render pipeline for p, including
	// its depth/stencil and blend state, and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline object containing the WGSL source and fixed-function configuration
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// RegisterComputePipeline creates the GPU compute pipeline for p and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline object containing the WGSL source and compute entry point
	//
	// Returns:
	//   - error: an error if the pipeline could not be created, otherwise nil
	RegisterComputePipeline(p pipeline.Pipeline) error

	// InitVertexBuffers uploads raw vertex and index bytes into GPU buffers
	// stored on the provider. An empty indexData leaves the index buffer
	// unset for non-indexed draws.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU, or nil
	//   - indexCount: the number of indices, used for drawIndexed calls
	//
	// Returns:
	//   - error: an error if the buffers could not be created, otherwise nil
	InitVertexBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout
	// descriptor and stores them on the provider. Textures and samplers must
	// be initialized first. A missing texture or sampler slot is a
	// configuration error the caller can skip past.
	//
	// Parameters:
	//   - provider: the BindGroupProvider describing the layout entries and storage for the bind group
	//   - descriptor: the BindGroupLayoutDescriptor describing the layout of the bind group
	//   - bufferUsageOverrides: a map of binding indices to buffer usage flags, allowing customization of buffer usage
	//   - bufferSizeOverrides: a map of binding indices to buffer sizes, allowing customization of buffer sizes
	//
	// Returns:
	//   - error: an error if the bind group could not be initialized, otherwise nil
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture and texture view from staging data
	// and stores the view on the provider at the given binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if the texture could not be created, otherwise nil
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the
	// provider at the given binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if the sampler could not be created, otherwise nil
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// CreateStorageBuffer creates a storage buffer sized and labeled for the
	// caller, used for sorted-index uploads.
	//
	// Parameters:
	//   - label: a debug label
	//   - size: the buffer size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if creation fails
	CreateStorageBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// WriteRawBuffer writes bytes into an arbitrary GPU buffer.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset
	//   - data: the bytes to write
	WriteRawBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture, creates the frame's command
	// encoder, and begins the scene render pass. With offscreen true the
	// scene pass targets the offscreen color texture instead of the
	// swapchain, leaving the swapchain for a post pass.
	//
	// Parameters:
	//   - offscreen: true to render the scene into the offscreen target
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame(offscreen bool) error

	// Pass returns the active render pass encoder, or nil outside a frame.
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the active pass or nil
	Pass() *wgpu.RenderPassEncoder

	// SetStencilReference sets the stencil reference value for subsequent
	// draws in the active pass.
	//
	// Parameters:
	//   - ref: the stencil reference value
	SetStencilReference(ref uint32)

	// Draw encodes a non-indexed instanced draw without vertex buffers; the
	// vertex shader pulls attributes from storage buffers. Used by splat
	// quads and fullscreen triangles.
	//
	// Parameters:
	//   - p: the pipeline to draw with
	//   - vertexCount: vertices per instance
	//   - instanceCount: the number of instances
	//   - bindGroups: providers whose bind groups are set, in group order
	Draw(p pipeline.Pipeline, vertexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// DrawIndexed encodes an indexed draw using the provider's vertex and
	// index buffers.
	//
	// Parameters:
	//   - p: the pipeline to draw with
	//   - meshProvider: the provider holding vertex and index buffers
	//   - instanceCount: the number of instances
	//   - bindGroups: providers whose bind groups are set, in group order
	DrawIndexed(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// DrawVertices encodes a non-indexed draw using the provider's vertex
	// buffer. Used by line sets and point clouds.
	//
	// Parameters:
	//   - p: the pipeline to draw with
	//   - provider: the provider holding the vertex buffer
	//   - vertexCount: the number of vertices
	//   - bindGroups: providers whose bind groups are set, in group order
	DrawVertices(p pipeline.Pipeline, provider bind_group_provider.BindGroupProvider, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider)

	// BeginPostPass ends the offscreen scene pass and begins a pass targeting
	// the swapchain, for post effects that sample the offscreen textures.
	// Only valid after BeginFrame(true).
	//
	// Returns:
	//   - error: an error if no offscreen frame is active
	BeginPostPass() error

	// SceneDepthView returns the offscreen scene depth view post passes
	// sample, or nil before the first ConfigureSurface.
	//
	// Returns:
	//   - *wgpu.TextureView: the scene depth view
	SceneDepthView() *wgpu.TextureView

	// SceneColorView returns the offscreen scene color view, or nil before
	// the first ConfigureSurface.
	//
	// Returns:
	//   - *wgpu.TextureView: the scene color view
	SceneColorView() *wgpu.TextureView

	// EndFrame ends the active render pass and submits the command buffer to
	// the GPU. Does not present; call Present afterwards.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain
	// texture. Must be called once per frame after EndFrame.
	Present()

	// ReadbackSceneColor copies the offscreen scene color texture into host
	// memory as tightly packed RGBA bytes. Blocks until the copy completes.
	//
	// Returns:
	//   - []byte: width*height*4 RGBA bytes
	//   - width, height: the texture dimensions
	//   - error: an error if the readback fails
	ReadbackSceneColor() ([]byte, int, int, error)

	// BeginComputeFrame creates a command encoder for batching compute
	// dispatches. Must be paired with EndComputeFrame.
	//
	// Returns:
	//   - error: an error if the command encoder could not be created
	BeginComputeFrame() error

	// DispatchCompute encodes a compute pass within the batched compute frame.
	//
	// Parameters:
	//   - p: the compute pipeline to dispatch
	//   - computeProvider: the provider whose bind group is set on the pass
	//   - workGroupCount: workgroups to dispatch in x, y, z
	DispatchCompute(p pipeline.Pipeline, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32)

	// EndComputeFrame finishes the batched compute encoder and submits it.
	EndComputeFrame()

	// Release frees the backend's long-lived GPU resources.
	Release()
}
