package renderer

import (
	"fmt"
	"unsafe"

	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group layout declarations for the fixed pipeline set. The same
// descriptors are reused when providers build their bind groups, keeping
// layouts structurally identical to what the pipelines were created with.

func cameraBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 80,
				},
			},
		},
	}
}

func splatStaticBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	entries := []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(unsafe.Sizeof(gpuSplatStaticUniform{})),
			},
		},
	}
	for binding := 1; binding <= 4; binding++ {
		entries = append(entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeReadOnlyStorage,
			},
		})
	}
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Splat Static Bind Group Layout",
		Entries: entries,
	}
}

func splatTemporalBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	desc := splatStaticBindGroupLayout()
	desc.Label = "Splat Temporal Bind Group Layout"
	desc.Entries[0].Buffer.MinBindingSize = uint64(unsafe.Sizeof(gpuSplatTemporalUniform{}))
	for binding := 5; binding <= 6; binding++ {
		desc.Entries = append(desc.Entries, wgpu.BindGroupLayoutEntry{
			Binding:    uint32(binding),
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type: wgpu.BufferBindingTypeReadOnlyStorage,
			},
		})
	}
	return desc
}

func meshBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Mesh Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(gpuMeshUniform{})),
				},
			},
		},
	}
}

func modelBindGroupLayout(label string) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(gpuModelUniform{})),
				},
			},
		},
	}
}

func overlayBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Overlay Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

func depthVizBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Depth Viz Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(gpuDepthVizUniform{})),
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeNonFiltering,
				},
			},
		},
	}
}

// meshVertexLayout: interleaved position (vec3), normal (vec3), color (vec4).
func meshVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 40,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
		},
	}
}

// coloredVertexLayout: interleaved position (vec3), color (vec4). Shared by
// line sets and point clouds.
func coloredVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 28,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}
}

// premultipliedBlend composites the splat color pass, whose fragments emit
// premultiplied alpha.
func premultipliedBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// registerPipelines builds the fixed pipeline set. Every draw the renderer
// issues resolves to one of these keys.
func (r *rendererImpl) registerPipelines() error {
	pipelines := []pipeline.Pipeline{
		// Splat depth pre-pass: depth-only, seeds occlusion for the blend.
		pipeline.NewPipeline(pipelineKeySplatStaticDepth, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(splatStaticWGSL, "vs_main", "fs_depth"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), splatStaticBindGroupLayout()),
			pipeline.WithWriteMask(wgpu.ColorWriteMaskNone),
		),
		// Splat color pass: blended back to front, depth test only, tags
		// covered pixels with the object's stencil reference.
		pipeline.NewPipeline(pipelineKeySplatStaticColor, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(splatStaticWGSL, "vs_main", "fs_color"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), splatStaticBindGroupLayout()),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(premultipliedBlend()),
			pipeline.WithStencilEnabled(true),
		),
		pipeline.NewPipeline(pipelineKeySplatTemporalDepth, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(splatTemporalWGSL, "vs_main", "fs_depth"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), splatTemporalBindGroupLayout()),
			pipeline.WithWriteMask(wgpu.ColorWriteMaskNone),
		),
		pipeline.NewPipeline(pipelineKeySplatTemporalColor, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(splatTemporalWGSL, "vs_main", "fs_color"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), splatTemporalBindGroupLayout()),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(premultipliedBlend()),
			pipeline.WithStencilEnabled(true),
		),
		pipeline.NewPipeline(pipelineKeyMeshLit, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(meshWGSL, "vs_main", "fs_lit"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), meshBindGroupLayout()),
			pipeline.WithVertexLayout(meshVertexLayout()),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(pipelineKeyMeshUnlit, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(meshWGSL, "vs_main", "fs_unlit"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), meshBindGroupLayout()),
			pipeline.WithVertexLayout(meshVertexLayout()),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(pipelineKeyLines, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(linesWGSL, "vs_main", "fs_main"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), modelBindGroupLayout("Line Bind Group Layout")),
			pipeline.WithVertexLayout(coloredVertexLayout()),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
		),
		pipeline.NewPipeline(pipelineKeyPointCloud, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(pointCloudWGSL, "vs_main", "fs_main"),
			pipeline.WithBindGroupLayouts(cameraBindGroupLayout(), modelBindGroupLayout("Point Cloud Bind Group Layout")),
			pipeline.WithVertexLayout(coloredVertexLayout()),
			pipeline.WithTopology(wgpu.PrimitiveTopologyPointList),
		),
		// Overlay composites after every group on the first view.
		pipeline.NewPipeline(pipelineKeyOverlay, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(overlayWGSL, "vs_main", "fs_main"),
			pipeline.WithBindGroupLayouts(overlayBindGroupLayout()),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
		),
		pipeline.NewPipeline(pipelineKeyDepthViz, pipeline.PipelineTypeRender,
			pipeline.WithWGSL(depthVizWGSL, "vs_main", "fs_main"),
			pipeline.WithBindGroupLayouts(depthVizBindGroupLayout()),
			pipeline.WithDepthTestEnabled(false),
			pipeline.WithDepthWriteEnabled(false),
		),
	}

	for _, p := range pipelines {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", p.PipelineKey(), err)
		}
		r.pipelines[p.PipelineKey()] = p
	}
	return nil
}
