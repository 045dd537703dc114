package renderer

import (
	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// DepthVizOptions configures the depth visualization post pass: scene depth
// is remapped to eye-space distance, windowed between Near and Far, and
// gamma-shaped to grayscale.
type DepthVizOptions struct {
	// Near is the eye-space distance rendered white. Defaults to 0.1.
	Near float32

	// Far is the eye-space distance rendered black. Defaults to 100.
	Far float32

	// Gamma shapes the grayscale ramp. Defaults to 1.
	Gamma float32
}

func (o DepthVizOptions) withDefaults() DepthVizOptions {
	return DepthVizOptions{
		Near:  common.Coalesce(o.Near, 0.1),
		Far:   common.Coalesce(o.Far, 100),
		Gamma: common.Coalesce(o.Gamma, 1),
	}
}

// postPass runs after the offscreen scene pass: either the depth
// visualization or, with viz nil, a plain blit of the scene color back onto
// the swapchain.
func (r *rendererImpl) postPass(viz *DepthVizOptions) error {
	if err := r.backend.BeginPostPass(); err != nil {
		return err
	}

	if viz == nil {
		prov, err := r.ensureBlitProvider()
		if err != nil {
			return err
		}
		r.backend.Draw(r.Pipeline(pipelineKeyOverlay), 3, 1, []bind_group_provider.BindGroupProvider{prov})
		return nil
	}

	prov, err := r.ensureDepthVizProvider()
	if err != nil {
		return err
	}

	opts := viz.withDefaults()
	u := gpuDepthVizUniform{
		Near:  opts.Near,
		Far:   opts.Far,
		Gamma: opts.Gamma,
	}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: prov,
		Binding:  0,
		Data:     common.StructToBytes(&u),
	}})

	r.backend.Draw(r.Pipeline(pipelineKeyDepthViz), 3, 1, []bind_group_provider.BindGroupProvider{prov})
	return nil
}

// ensureDepthVizProvider lazily builds the depth viz bind group, and
// rebuilds it after a resize since the scene depth view it samples is
// recreated. The depth view itself belongs to the backend, so it is pulled
// out of the provider before Release.
func (r *rendererImpl) ensureDepthVizProvider() (bind_group_provider.BindGroupProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.depthVizProvider != nil && !r.depthVizDirty {
		return r.depthVizProvider, nil
	}
	if r.depthVizProvider != nil {
		delete(r.depthVizProvider.TextureViews(), 1)
		r.depthVizProvider.Release()
		r.depthVizProvider = nil
	}

	prov := bind_group_provider.NewBindGroupProvider("Depth Viz")
	prov.SetTextureView(1, r.backend.SceneDepthView())

	// Depth textures are unfilterable; the layout demands a non-filtering
	// sampler, which InitSampler's linear defaults cannot express.
	samp, err := r.backend.Device().CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Depth Viz Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	prov.SetSampler(2, samp)

	if err := r.backend.InitBindGroup(prov, depthVizBindGroupLayout(), nil, nil); err != nil {
		delete(prov.TextureViews(), 1)
		prov.Release()
		return nil, err
	}

	r.depthVizProvider = prov
	r.depthVizDirty = false
	return prov, nil
}

// ensureBlitProvider lazily builds the scene-color blit bind group, used to
// move an offscreen frame onto the swapchain when no post effect runs.
func (r *rendererImpl) ensureBlitProvider() (bind_group_provider.BindGroupProvider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.blitProvider != nil {
		return r.blitProvider, nil
	}

	prov := bind_group_provider.NewBindGroupProvider("Scene Blit")
	prov.SetTextureView(0, r.backend.SceneColorView())
	if err := r.backend.InitSampler(prov, 1, common.SamplerStagingData{}); err != nil {
		delete(prov.TextureViews(), 0)
		prov.Release()
		return nil, err
	}
	if err := r.backend.InitBindGroup(prov, overlayBindGroupLayout(), nil, nil); err != nil {
		delete(prov.TextureViews(), 0)
		prov.Release()
		return nil, err
	}

	r.blitProvider = prov
	return prov, nil
}
