package renderer

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/camera"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/pipeline"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/target"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// RenderOptions carries the per-frame inputs to Render. The zero value
// renders a plain monoscopic frame.
type RenderOptions struct {
	// FrameToken supplies per-view projections and poses for targets that
	// require one (stereo). Nil for window targets.
	FrameToken *target.FrameToken

	// FrameTime, when set, is the scene time in seconds applied to every
	// temporal splat before drawing. Nil leaves each object's own time
	// untouched. Render never samples the wall clock itself.
	FrameTime *float32

	// OrderHint promotes the listed objects to the front of their draw
	// groups, in hint order.
	OrderHint []uuid.UUID

	// BeforeRender runs on the render thread before the frame begins.
	BeforeRender func()

	// WorkerUpdate runs for each splat after its ordering has been adopted
	// for this frame, on the prep pool.
	WorkerUpdate func(s object.Splat)

	// Overlay, when set, is composited over the first view as a fullscreen
	// textured triangle. The provider must have been initialized with
	// InitOverlay.
	Overlay bind_group_provider.BindGroupProvider

	// DepthViz enables the depth visualization post pass, replacing the
	// scene color output with remapped grayscale depth.
	DepthViz *DepthVizOptions

	// OffscreenScene routes the scene pass through the offscreen color
	// target even without a post effect, so CaptureFrame can read it back.
	OffscreenScene bool
}

// Renderer owns the GPU backend, the fixed pipeline set, and the per-frame
// orchestration: target negotiation, parallel splat ordering, grouped draw
// submission, and post passes.
type Renderer interface {
	// Backend returns the GPU backend for advanced resource work.
	//
	// Returns:
	//   - RendererBackend: the backend
	Backend() RendererBackend

	// Pipeline returns the registered pipeline for a key, or nil.
	//
	// Parameters:
	//   - key: the pipeline cache key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// Resize reconfigures the swapchain and size-dependent attachments.
	//
	// Parameters:
	//   - width, height: the new backing size in pixels
	//
	// Returns:
	//   - error: an error if reconfiguration fails
	Resize(width, height int) error

	// SetPresentMode switches between vsync and uncapped presentation.
	// Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the present mode
	SetPresentMode(mode PresentMode)

	// InitSplatStatic uploads a static splat's point attributes and creates
	// its GPU bind group. Positions and covariances are packed xyz triples;
	// covariances hold three vec3s per point. Colors are packed RGBA8. The
	// sorted index buffer is created and seeded with the identity ordering
	// so the splat draws before the first sort lands.
	//
	// Parameters:
	//   - s: the splat, already loaded via LoadPoints
	//   - positions: packed xyz triples, count*3 floats
	//   - covariances: packed xyz triples, count*9 floats
	//   - colors: packed RGBA8, count values
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitSplatStatic(s object.SplatStatic, positions, covariances []float32, colors []uint32) error

	// InitSplatTemporal uploads a temporal splat's point attributes,
	// motion polynomial coefficients, and timing data, and creates its GPU
	// bind group.
	//
	// Parameters:
	//   - s: the splat, already loaded via LoadPoints
	//   - positions: packed xyz triples, count*3 floats
	//   - covariances: packed xyz triples, count*9 floats
	//   - colors: packed RGBA8, count values
	//   - motion: packed xyz triples, count*3*degree floats
	//   - timing: time-of-relevance and falloff pairs, count*2 floats
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitSplatTemporal(s object.SplatTemporal, positions, covariances []float32, colors []uint32, motion, timing []float32) error

	// InitMesh uploads interleaved mesh vertices (position, normal, color)
	// and uint32 indices and creates the mesh bind group.
	//
	// Parameters:
	//   - m: the mesh
	//   - vertexData: interleaved vertex bytes, 40 bytes per vertex
	//   - indexData: uint32 index bytes
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitMesh(m object.Mesh, vertexData, indexData []byte, indexCount int) error

	// InitLines uploads interleaved line vertices (position, color) and
	// creates the line set bind group. Vertices pair up into segments.
	//
	// Parameters:
	//   - l: the line set
	//   - vertexData: interleaved vertex bytes, 28 bytes per vertex
	//   - vertexCount: the number of vertices
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitLines(l object.Lines, vertexData []byte, vertexCount int) error

	// InitPointCloud uploads interleaved point vertices (position, color)
	// and creates the point cloud bind group.
	//
	// Parameters:
	//   - p: the point cloud
	//   - vertexData: interleaved vertex bytes, 28 bytes per vertex
	//   - vertexCount: the number of points
	//
	// Returns:
	//   - error: an error if any GPU resource could not be created
	InitPointCloud(p object.PointCloud, vertexData []byte, vertexCount int) error

	// InitOverlay creates an overlay provider from RGBA pixels, for use as
	// RenderOptions.Overlay.
	//
	// Parameters:
	//   - label: a debug label
	//   - stagingData: the overlay pixels and dimensions
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the initialized provider
	//   - error: an error if any GPU resource could not be created
	InitOverlay(label string, stagingData common.TextureStagingData) (bind_group_provider.BindGroupProvider, error)

	// Render draws one frame of the given objects to the target. Draw
	// failures are confined to the offending object and logged; Render
	// returns an error only when the frame itself could not start.
	//
	// Parameters:
	//   - t: the render target
	//   - cam: the camera driving camera-driven targets, or nil for targets
	//     that derive views from the frame token
	//   - objects: the candidate objects
	//   - opts: per-frame options
	//
	// Returns:
	//   - error: an error if the frame could not start
	Render(t target.RenderTarget, cam camera.Camera, objects []object.Renderable, opts RenderOptions) error

	// CaptureFrame reads back the last offscreen scene color as an image,
	// optionally downscaled so the longest edge is at most maxDim.
	// Requires the previous Render to have used OffscreenScene or DepthViz.
	//
	// Parameters:
	//   - maxDim: the longest-edge cap in pixels, or 0 for full size
	//
	// Returns:
	//   - image.Image: the captured frame
	//   - error: an error if the readback fails
	CaptureFrame(maxDim int) (CapturedFrame, error)

	// Release frees the renderer's GPU resources.
	Release()
}

type rendererImpl struct {
	mu sync.Mutex

	backend   RendererBackend
	pipelines map[string]pipeline.Pipeline

	// One camera provider per view index; stereo frames need two live
	// uniform buffers since all views share one submission.
	cameraProviders []bind_group_provider.BindGroupProvider

	prepPool worker.DynamicWorkerPool

	// Depth viz resources, rebuilt lazily after every Resize since the
	// scene depth view they sample is recreated.
	depthVizProvider bind_group_provider.BindGroupProvider
	depthVizDirty    bool

	// blitProvider samples the offscreen scene color back onto the
	// swapchain when a frame runs offscreen without a post effect.
	blitProvider bind_group_provider.BindGroupProvider
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates the backend for the given surface, configures the
// initial swapchain, and registers the fixed pipeline set.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - surfaceDescriptor: the native surface to present to
//   - width, height: the initial backing size in pixels
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the surface or any pipeline could not be created
func NewRenderer(backendType RendererBackendType, surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	cfg := rendererConfig{
		prepWorkers: max(runtime.NumCPU()-1, 1),
		presentMode: PresentModeUncapped,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	r := &rendererImpl{
		pipelines: make(map[string]pipeline.Pipeline),
	}
	switch backendType {
	case BackendTypeWGPU:
		r.backend = newWGPURendererBackend(surfaceDescriptor, cfg.forceFallbackAdapter)
	default:
		return nil, fmt.Errorf("%w: unknown backend type %d", ErrConfiguration, backendType)
	}

	r.backend.SetPresentMode(cfg.presentMode)
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return nil, err
	}

	if err := r.registerPipelines(); err != nil {
		return nil, err
	}

	r.prepPool = worker.NewDynamicWorkerPool(cfg.prepWorkers, 256, 1*time.Second)
	r.depthVizDirty = true

	return r, nil
}

func (r *rendererImpl) Backend() RendererBackend {
	return r.backend
}

func (r *rendererImpl) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelines[key]
}

func (r *rendererImpl) Resize(width, height int) error {
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.depthVizDirty = true
	if r.blitProvider != nil {
		delete(r.blitProvider.TextureViews(), 0)
		r.blitProvider.Release()
		r.blitProvider = nil
	}
	return nil
}

func (r *rendererImpl) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *rendererImpl) Render(t target.RenderTarget, cam camera.Camera, objects []object.Renderable, opts RenderOptions) error {
	if opts.BeforeRender != nil {
		opts.BeforeRender()
	}

	if err := t.BeginFrame(opts.FrameToken); err != nil {
		return fmt.Errorf("target begin frame: %w", err)
	}

	if pusher, ok := t.(target.ViewPusher); ok && cam != nil {
		fx, fy := cam.Focal()
		pusher.PushView(cam.ProjectionMatrix(), cam.ViewMatrix(), fx, fy)
	}

	views := t.Views()
	if len(views) == 0 {
		t.EndFrame()
		return nil
	}

	plan := BuildFramePlan(objects, opts.OrderHint)
	applyFrameTime(plan, opts.FrameTime)
	r.prepareSplats(plan, views[0], opts.WorkerUpdate)
	r.writeCameraUniforms(views, cam)
	r.writeObjectUniforms(plan, views[0])

	offscreen := opts.DepthViz != nil || opts.OffscreenScene
	if err := r.backend.BeginFrame(offscreen); err != nil {
		t.EndFrame()
		return err
	}

	for vi := range views {
		t.BindFramebuffer(r.backend.Pass(), vi)
		for _, d := range plan.Draws {
			r.drawObject(d, vi)
		}
		if vi == 0 && opts.Overlay != nil {
			r.backend.Draw(r.Pipeline(pipelineKeyOverlay), 3, 1, []bind_group_provider.BindGroupProvider{opts.Overlay})
		}
	}

	if offscreen {
		if err := r.postPass(opts.DepthViz); err != nil {
			log.Printf("post pass failed: %v", err)
		}
	}

	r.backend.EndFrame()
	r.backend.Present()
	t.EndFrame()
	return nil
}

// applyFrameTime pushes the frame's scene time to every temporal splat in
// the plan, so their uniforms pick it up this frame.
func applyFrameTime(plan FramePlan, frameTime *float32) {
	if frameTime == nil {
		return
	}
	for _, d := range plan.Draws {
		if ts, ok := d.Object.(object.SplatTemporal); ok {
			ts.SetTime(*frameTime)
		}
	}
}

// prepareSplats submits the frame's view to every splat's sort worker and
// adopts the newest completed ordering, fanning the CPU work out over the
// prep pool. The GPU index uploads happen afterwards on the caller's
// goroutine since queue writes are serialized anyway.
func (r *rendererImpl) prepareSplats(plan FramePlan, view target.ViewInfo, workerUpdate func(object.Splat)) {
	splats := plan.Splats()
	if len(splats) == 0 {
		return
	}

	viewProj := view.Projection.Mul4(view.View)

	var wg sync.WaitGroup
	taskID := 0
	for _, d := range splats {
		sp, ok := d.Object.(object.Splat)
		if !ok {
			continue
		}

		wg.Add(1)
		spCap := sp
		id := taskID
		taskID++
		r.prepPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				spCap.Worker().SubmitView(viewProj.Mul4(spCap.ModelMatrix()))
				spCap.AdoptOrdering()
				if workerUpdate != nil {
					workerUpdate(spCap)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, d := range splats {
		sp, ok := d.Object.(object.Splat)
		if !ok {
			continue
		}
		res, ok := sp.Ordering()
		if !ok || sp.SortedIndexBuffer() == nil {
			continue
		}
		r.backend.WriteRawBuffer(sp.SortedIndexBuffer(), 0, common.SliceToBytes(res.Indices))
	}
}

// writeCameraUniforms writes one camera uniform buffer per view. All views
// share a single GPU submission, so each needs its own live buffer.
func (r *rendererImpl) writeCameraUniforms(views []target.ViewInfo, cam camera.Camera) {
	r.mu.Lock()
	for len(r.cameraProviders) < len(views) {
		prov := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Camera View %d", len(r.cameraProviders)))
		if err := r.backend.InitBindGroup(prov, cameraBindGroupLayout(), nil, nil); err != nil {
			log.Printf("camera bind group init failed: %v", err)
			r.mu.Unlock()
			return
		}
		r.cameraProviders = append(r.cameraProviders, prov)
	}
	r.mu.Unlock()

	for vi, v := range views {
		var uniform camera.GPUCameraUniform
		uniform.ViewProj = [16]float32(v.Projection.Mul4(v.View))
		if cam != nil {
			pos := cam.Position()
			uniform.CameraPosition = [3]float32{pos.X(), pos.Y(), pos.Z()}
		} else {
			inv := v.View.Inv()
			uniform.CameraPosition = [3]float32{inv[12], inv[13], inv[14]}
		}
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: r.cameraProviders[vi],
			Binding:  0,
			Data:     uniform.Marshal(),
		}})
	}
}

// writeObjectUniforms refreshes each drawable's uniform block. Focal and
// viewport come from the first view; stereo eyes share a projection so the
// splat footprint math holds for both.
func (r *rendererImpl) writeObjectUniforms(plan FramePlan, view target.ViewInfo) {
	writes := make([]bind_group_provider.BufferWrite, 0, len(plan.Draws))
	for _, d := range plan.Draws {
		prov := d.Object.Provider()
		if prov == nil {
			continue
		}
		var data []byte
		switch o := d.Object.(type) {
		case object.SplatStatic:
			u := gpuSplatStaticUniform{
				Model:                 o.ModelMatrix(),
				Focal:                 [2]float32{view.Fx, view.Fy},
				Viewport:              [2]float32{view.Viewport.Width, view.Viewport.Height},
				OpacityThresholdDepth: splatOpacityThresholdDepth,
				OpacityThresholdColor: splatOpacityThresholdColor,
				SHDegree:              uint32(o.SHDegree()),
			}
			data = common.StructToBytes(&u)
		case object.SplatTemporal:
			u := gpuSplatTemporalUniform{
				Model:                 o.ModelMatrix(),
				Focal:                 [2]float32{view.Fx, view.Fy},
				Viewport:              [2]float32{view.Viewport.Width, view.Viewport.Height},
				OpacityThresholdDepth: splatOpacityThresholdDepth,
				OpacityThresholdColor: splatOpacityThresholdColor,
				Time:                  o.Time(),
				MotionDegree:          uint32(o.MotionDegree()),
			}
			data = common.StructToBytes(&u)
		case object.Mesh:
			u := gpuMeshUniform{
				Model:     o.ModelMatrix(),
				BaseColor: [4]float32{1, 1, 1, 1},
				LightDir:  defaultLightDir,
			}
			data = common.StructToBytes(&u)
		default:
			u := gpuModelUniform{Model: d.Object.ModelMatrix()}
			data = common.StructToBytes(&u)
		}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: prov,
			Binding:  0,
			Data:     data,
		})
	}
	r.backend.WriteBuffers(writes)
}

// drawObject encodes one planned draw, confining any panic to the object.
func (r *rendererImpl) drawObject(d PlannedDraw, viewIndex int) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("draw of object %s (%s) failed: %v", d.Object.ID(), d.Object.Kind(), rec)
		}
	}()

	camProv := r.cameraProviders[viewIndex]
	prov := d.Object.Provider()
	binds := []bind_group_provider.BindGroupProvider{camProv, prov}

	switch d.Group {
	case GroupMesh:
		m := d.Object.(object.Mesh)
		key := pipelineKeyMeshUnlit
		if m.Lit() {
			key = pipelineKeyMeshLit
		}
		r.backend.DrawIndexed(r.Pipeline(key), prov, 1, binds)

	case GroupSplatTemporal, GroupSplatStatic:
		sp := d.Object.(object.Splat)
		// A freshly loaded splat waits for its first completed sort rather
		// than drawing in an arbitrary order.
		if _, ok := sp.Ordering(); !ok {
			return
		}
		depthKey, colorKey := pipelineKeySplatStaticDepth, pipelineKeySplatStaticColor
		if d.Group == GroupSplatTemporal {
			depthKey, colorKey = pipelineKeySplatTemporalDepth, pipelineKeySplatTemporalColor
		}
		n := uint32(sp.VertexCount())
		r.backend.Draw(r.Pipeline(depthKey), 6, n, binds)
		r.backend.SetStencilReference(d.StencilRef)
		r.backend.Draw(r.Pipeline(colorKey), 6, n, binds)
		r.backend.SetStencilReference(0)

	case GroupLines:
		l := d.Object.(object.Lines)
		r.backend.DrawVertices(r.Pipeline(pipelineKeyLines), prov, uint32(l.VertexCount()), binds)

	case GroupPointCloud:
		p := d.Object.(object.PointCloud)
		r.backend.DrawVertices(r.Pipeline(pipelineKeyPointCloud), prov, uint32(p.VertexCount()), binds)
	}
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, prov := range r.cameraProviders {
		prov.Release()
	}
	r.cameraProviders = nil
	if r.depthVizProvider != nil {
		delete(r.depthVizProvider.TextureViews(), 1)
		r.depthVizProvider.Release()
		r.depthVizProvider = nil
	}
	if r.blitProvider != nil {
		delete(r.blitProvider.TextureViews(), 0)
		r.blitProvider.Release()
		r.blitProvider = nil
	}
	r.backend.Release()
}
