package renderer

// WGSL programs are opaque blobs to the Go side: each pipeline takes a
// source string and entry point names, and the bind group layouts are
// declared by the providers that draw with it. Splat sources share one blob
// between the depth pre-pass and the blended color pass.

// Pipeline cache keys. One render pipeline per key is registered at
// renderer construction.
const (
	pipelineKeySplatStaticDepth   = "splat-static-depth"
	pipelineKeySplatStaticColor   = "splat-static-color"
	pipelineKeySplatTemporalDepth = "splat-temporal-depth"
	pipelineKeySplatTemporalColor = "splat-temporal-color"
	pipelineKeyMeshLit            = "mesh-lit"
	pipelineKeyMeshUnlit          = "mesh-unlit"
	pipelineKeyLines              = "lines"
	pipelineKeyPointCloud         = "point-cloud"
	pipelineKeyOverlay            = "overlay"
	pipelineKeyDepthViz           = "depth-viz"
)

// splatStaticWGSL expands each sorted point into a camera-facing quad
// sized by the pixel focals. The depth entry writes only z with the
// opacity threshold applied; the color entry emits premultiplied alpha.
const splatStaticWGSL = `
struct CameraUniform {
    view_proj: mat4x4f,
    cam_pos: vec3f,
    _pad: f32,
};

struct SplatUniform {
    model: mat4x4f,
    focal: vec2f,
    viewport: vec2f,
    opacity_threshold_depth: f32,
    opacity_threshold_color: f32,
    sh_degree: u32,
    _pad: u32,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> splat: SplatUniform;
@group(1) @binding(1) var<storage, read> positions: array<vec3f>;
@group(1) @binding(2) var<storage, read> covariances: array<vec3f>;
@group(1) @binding(3) var<storage, read> colors: array<u32>;
@group(1) @binding(4) var<storage, read> sorted_indices: array<u32>;

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) quad: vec2f,
    @location(1) color: vec4f,
    @location(2) conic: vec3f,
};

const QUAD = array<vec2f, 6>(
    vec2f(-1.0, -1.0), vec2f(1.0, -1.0), vec2f(-1.0, 1.0),
    vec2f(-1.0, 1.0), vec2f(1.0, -1.0), vec2f(1.0, 1.0),
);

@vertex
fn vs_main(@builtin(vertex_index) vi: u32, @builtin(instance_index) ii: u32) -> VertexOut {
    let point = sorted_indices[ii];
    let world = splat.model * vec4f(positions[point], 1.0);
    var clip = camera.view_proj * world;

    let corner = QUAD[vi];
    let cov2 = covariances[point * 3u];
    let radius = vec2f(cov2.x, cov2.y) * splat.focal / max(clip.w, 1e-4);
    clip += vec4f(corner * radius * 2.0 / splat.viewport * clip.w, 0.0, 0.0);

    var out: VertexOut;
    out.clip = clip;
    out.quad = corner;
    out.color = unpack4x8unorm(colors[point]);
    out.conic = covariances[point * 3u + 1u];
    return out;
}

@fragment
fn fs_depth(in: VertexOut) -> @location(0) vec4f {
    let alpha = in.color.a * exp(-dot(in.quad, in.quad) * in.conic.z);
    if (alpha < splat.opacity_threshold_depth) {
        discard;
    }
    return vec4f(0.0);
}

@fragment
fn fs_color(in: VertexOut) -> @location(0) vec4f {
    let alpha = in.color.a * exp(-dot(in.quad, in.quad) * in.conic.z);
    if (alpha < splat.opacity_threshold_color) {
        discard;
    }
    return vec4f(in.color.rgb * alpha, alpha);
}
`

// splatTemporalWGSL adds motion-polynomial displacement and a temporal
// opacity falloff around each point's time of relevance.
const splatTemporalWGSL = `
struct CameraUniform {
    view_proj: mat4x4f,
    cam_pos: vec3f,
    _pad: f32,
};

struct SplatUniform {
    model: mat4x4f,
    focal: vec2f,
    viewport: vec2f,
    opacity_threshold_depth: f32,
    opacity_threshold_color: f32,
    time: f32,
    motion_degree: u32,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> splat: SplatUniform;
@group(1) @binding(1) var<storage, read> positions: array<vec3f>;
@group(1) @binding(2) var<storage, read> covariances: array<vec3f>;
@group(1) @binding(3) var<storage, read> colors: array<u32>;
@group(1) @binding(4) var<storage, read> sorted_indices: array<u32>;
@group(1) @binding(5) var<storage, read> motion: array<vec3f>;
@group(1) @binding(6) var<storage, read> timing: array<vec2f>;

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) quad: vec2f,
    @location(1) color: vec4f,
    @location(2) conic: vec3f,
};

const QUAD = array<vec2f, 6>(
    vec2f(-1.0, -1.0), vec2f(1.0, -1.0), vec2f(-1.0, 1.0),
    vec2f(-1.0, 1.0), vec2f(1.0, -1.0), vec2f(1.0, 1.0),
);

fn displaced(point: u32) -> vec3f {
    let t = splat.time - timing[point].x;
    var pos = positions[point];
    var tn = t;
    for (var d = 0u; d < splat.motion_degree; d++) {
        pos += motion[point * splat.motion_degree + d] * tn;
        tn *= t;
    }
    return pos;
}

fn temporal_alpha(point: u32) -> f32 {
    let dt = splat.time - timing[point].x;
    return exp(-timing[point].y * dt * dt);
}

@vertex
fn vs_main(@builtin(vertex_index) vi: u32, @builtin(instance_index) ii: u32) -> VertexOut {
    let point = sorted_indices[ii];
    let world = splat.model * vec4f(displaced(point), 1.0);
    var clip = camera.view_proj * world;

    let corner = QUAD[vi];
    let cov2 = covariances[point * 3u];
    let radius = vec2f(cov2.x, cov2.y) * splat.focal / max(clip.w, 1e-4);
    clip += vec4f(corner * radius * 2.0 / splat.viewport * clip.w, 0.0, 0.0);

    var out: VertexOut;
    out.clip = clip;
    out.quad = corner;
    var color = unpack4x8unorm(colors[point]);
    color.a *= temporal_alpha(point);
    out.color = color;
    out.conic = covariances[point * 3u + 1u];
    return out;
}

@fragment
fn fs_depth(in: VertexOut) -> @location(0) vec4f {
    let alpha = in.color.a * exp(-dot(in.quad, in.quad) * in.conic.z);
    if (alpha < splat.opacity_threshold_depth) {
        discard;
    }
    return vec4f(0.0);
}

@fragment
fn fs_color(in: VertexOut) -> @location(0) vec4f {
    let alpha = in.color.a * exp(-dot(in.quad, in.quad) * in.conic.z);
    if (alpha < splat.opacity_threshold_color) {
        discard;
    }
    return vec4f(in.color.rgb * alpha, alpha);
}
`

// meshWGSL draws indexed triangles; fs_lit applies a single directional
// light, fs_unlit passes the vertex color through.
const meshWGSL = `
struct CameraUniform {
    view_proj: mat4x4f,
    cam_pos: vec3f,
    _pad: f32,
};

struct MeshUniform {
    model: mat4x4f,
    base_color: vec4f,
    light_dir: vec3f,
    _pad: f32,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> mesh: MeshUniform;

struct VertexIn {
    @location(0) position: vec3f,
    @location(1) normal: vec3f,
    @location(2) color: vec4f,
};

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) normal: vec3f,
    @location(1) color: vec4f,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.clip = camera.view_proj * mesh.model * vec4f(in.position, 1.0);
    out.normal = normalize((mesh.model * vec4f(in.normal, 0.0)).xyz);
    out.color = in.color * mesh.base_color;
    return out;
}

@fragment
fn fs_lit(in: VertexOut) -> @location(0) vec4f {
    let ndl = max(dot(normalize(in.normal), -mesh.light_dir), 0.0);
    let shade = 0.25 + 0.75 * ndl;
    return vec4f(in.color.rgb * shade, in.color.a);
}

@fragment
fn fs_unlit(in: VertexOut) -> @location(0) vec4f {
    return in.color;
}
`

// linesWGSL draws vertex pairs as a line list.
const linesWGSL = `
struct CameraUniform {
    view_proj: mat4x4f,
    cam_pos: vec3f,
    _pad: f32,
};

struct LineUniform {
    model: mat4x4f,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> line: LineUniform;

struct VertexIn {
    @location(0) position: vec3f,
    @location(1) color: vec4f,
};

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) color: vec4f,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.clip = camera.view_proj * line.model * vec4f(in.position, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4f {
    return in.color;
}
`

// pointCloudWGSL draws unsorted colored points with depth testing on.
const pointCloudWGSL = `
struct CameraUniform {
    view_proj: mat4x4f,
    cam_pos: vec3f,
    _pad: f32,
};

struct CloudUniform {
    model: mat4x4f,
};

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> cloud: CloudUniform;

struct VertexIn {
    @location(0) position: vec3f,
    @location(1) color: vec4f,
};

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) color: vec4f,
};

@vertex
fn vs_main(in: VertexIn) -> VertexOut {
    var out: VertexOut;
    out.clip = camera.view_proj * cloud.model * vec4f(in.position, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4f {
    return in.color;
}
`

// overlayWGSL composites a textured fullscreen quad over the first view.
const overlayWGSL = `
@group(0) @binding(0) var overlay_tex: texture_2d<f32>;
@group(0) @binding(1) var overlay_smp: sampler;

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) uv: vec2f,
};

@vertex
fn vs_main(@builtin(vertex_index) vi: u32) -> VertexOut {
    // Oversized triangle covering the viewport.
    let uv = vec2f(f32((vi << 1u) & 2u), f32(vi & 2u));
    var out: VertexOut;
    out.clip = vec4f(uv * 2.0 - 1.0, 0.0, 1.0);
    out.uv = vec2f(uv.x, 1.0 - uv.y);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4f {
    return textureSample(overlay_tex, overlay_smp, in.uv);
}
`

// depthVizWGSL remaps sampled scene depth to grayscale using a configurable
// near/far window and gamma.
const depthVizWGSL = `
struct DepthVizUniform {
    near: f32,
    far: f32,
    gamma: f32,
    _pad: f32,
};

@group(0) @binding(0) var<uniform> viz: DepthVizUniform;
@group(0) @binding(1) var depth_tex: texture_depth_2d;
@group(0) @binding(2) var depth_smp: sampler;

struct VertexOut {
    @builtin(position) clip: vec4f,
    @location(0) uv: vec2f,
};

@vertex
fn vs_main(@builtin(vertex_index) vi: u32) -> VertexOut {
    let uv = vec2f(f32((vi << 1u) & 2u), f32(vi & 2u));
    var out: VertexOut;
    out.clip = vec4f(uv * 2.0 - 1.0, 0.0, 1.0);
    out.uv = vec2f(uv.x, 1.0 - uv.y);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4f {
    let raw = textureSample(depth_tex, depth_smp, in.uv);
    // Reverse the projective mapping into eye-space distance, window it,
    // then gamma-shape for readability.
    let eye = viz.near * viz.far / max(viz.far - raw * (viz.far - viz.near), 1e-6);
    let norm = clamp((eye - viz.near) / (viz.far - viz.near), 0.0, 1.0);
    let shade = pow(1.0 - norm, viz.gamma);
    return vec4f(shade, shade, shade, 1.0);
}
`
