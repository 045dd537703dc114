package renderer

import (
	"fmt"

	"github.com/Xenotech-Studio/HoloEngineRuntime/common"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/object"
	"github.com/Xenotech-Studio/HoloEngineRuntime/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// padVec3 repacks tightly packed xyz triples into vec4-strided floats, the
// layout WGSL requires for array<vec3f> storage buffers.
func padVec3(packed []float32, count int) []float32 {
	out := make([]float32, count*4)
	for i := 0; i < count; i++ {
		copy(out[i*4:i*4+3], packed[i*3:i*3+3])
	}
	return out
}

// identityIndices returns the [0, count) ordering seeded into a fresh
// sorted index buffer so its contents are defined before the first sort
// result lands.
func identityIndices(count int) []uint32 {
	out := make([]uint32, count)
	for i := range out {
		out[i] = uint32(i)
	}
	return out
}

func (r *rendererImpl) initStorage(provider bind_group_provider.BindGroupProvider, binding int, label string, data []byte) error {
	buf, err := r.backend.CreateStorageBuffer(label, uint64(len(data)))
	if err != nil {
		return err
	}
	r.backend.WriteRawBuffer(buf, 0, data)
	provider.SetBuffer(binding, buf)
	return nil
}

// initSplatCommon uploads the attribute buffers shared by both splat
// variants: positions (1), covariances (2), colors (3), and the sorted
// index buffer (4). The index buffer is owned by the splat, not the
// provider, since orderings keep flowing into it after initialization.
func (r *rendererImpl) initSplatCommon(s object.Splat, label string, provider bind_group_provider.BindGroupProvider, positions, covariances []float32, colors []uint32) error {
	count := s.VertexCount()
	if count == 0 || len(positions) < count*3 || len(covariances) < count*9 || len(colors) < count {
		return fmt.Errorf("%w: splat attribute sizes do not match %d points", ErrConfiguration, count)
	}

	if err := r.initStorage(provider, 1, label+" Positions", common.SliceToBytes(padVec3(positions, count))); err != nil {
		return err
	}
	if err := r.initStorage(provider, 2, label+" Covariances", common.SliceToBytes(padVec3(covariances, count*3))); err != nil {
		return err
	}
	if err := r.initStorage(provider, 3, label+" Colors", common.SliceToBytes(colors[:count])); err != nil {
		return err
	}

	sortedBuf, err := r.backend.CreateStorageBuffer(label+" Sorted Indices", uint64(count*4))
	if err != nil {
		return err
	}
	r.backend.WriteRawBuffer(sortedBuf, 0, common.SliceToBytes(identityIndices(count)))
	provider.SetBuffer(4, sortedBuf)
	return nil
}

// finishSplatInit builds the bind group and hands the provider to the
// splat. Binding 4 is removed from the provider afterwards so Release does
// not free a buffer the splat owns.
func (r *rendererImpl) finishSplatInit(s object.Splat, provider bind_group_provider.BindGroupProvider, layout wgpu.BindGroupLayoutDescriptor) error {
	if err := r.backend.InitBindGroup(provider, layout, nil, nil); err != nil {
		return err
	}
	sortedBuf := provider.Buffer(4)
	delete(provider.Buffers(), 4)
	s.SetSortedIndexBuffer(sortedBuf)

	s.SetProvider(provider)
	s.SetReady(true)
	return nil
}

func (r *rendererImpl) InitSplatStatic(s object.SplatStatic, positions, covariances []float32, colors []uint32) error {
	label := "Splat Static " + s.ID().String()
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.initSplatCommon(s, label, provider, positions, covariances, colors); err != nil {
		provider.Release()
		return err
	}
	if err := r.finishSplatInit(s, provider, splatStaticBindGroupLayout()); err != nil {
		provider.Release()
		return err
	}
	return nil
}

func (r *rendererImpl) InitSplatTemporal(s object.SplatTemporal, positions, covariances []float32, colors []uint32, motion, timing []float32) error {
	count := s.VertexCount()
	if len(motion) < count*3*s.MotionDegree() || len(timing) < count*2 {
		return fmt.Errorf("%w: temporal attribute sizes do not match %d points at degree %d", ErrConfiguration, count, s.MotionDegree())
	}

	label := "Splat Temporal " + s.ID().String()
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.initSplatCommon(s, label, provider, positions, covariances, colors); err != nil {
		provider.Release()
		return err
	}
	if err := r.initStorage(provider, 5, label+" Motion", common.SliceToBytes(padVec3(motion, count*s.MotionDegree()))); err != nil {
		provider.Release()
		return err
	}
	if err := r.initStorage(provider, 6, label+" Timing", common.SliceToBytes(timing[:count*2])); err != nil {
		provider.Release()
		return err
	}
	if err := r.finishSplatInit(s, provider, splatTemporalBindGroupLayout()); err != nil {
		provider.Release()
		return err
	}
	return nil
}

func (r *rendererImpl) InitMesh(m object.Mesh, vertexData, indexData []byte, indexCount int) error {
	label := "Mesh " + m.ID().String()
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitVertexBuffers(provider, vertexData, indexData, indexCount); err != nil {
		provider.Release()
		return err
	}
	if err := r.backend.InitBindGroup(provider, meshBindGroupLayout(), nil, nil); err != nil {
		provider.Release()
		return err
	}

	m.SetIndexCount(indexCount)
	m.SetProvider(provider)
	m.SetReady(true)
	return nil
}

func (r *rendererImpl) InitLines(l object.Lines, vertexData []byte, vertexCount int) error {
	label := "Lines " + l.ID().String()
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitVertexBuffers(provider, vertexData, nil, 0); err != nil {
		provider.Release()
		return err
	}
	if err := r.backend.InitBindGroup(provider, modelBindGroupLayout("Line Bind Group Layout"), nil, nil); err != nil {
		provider.Release()
		return err
	}

	l.SetVertexCount(vertexCount)
	l.SetProvider(provider)
	l.SetReady(true)
	return nil
}

func (r *rendererImpl) InitPointCloud(p object.PointCloud, vertexData []byte, vertexCount int) error {
	label := "Point Cloud " + p.ID().String()
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitVertexBuffers(provider, vertexData, nil, 0); err != nil {
		provider.Release()
		return err
	}
	if err := r.backend.InitBindGroup(provider, modelBindGroupLayout("Point Cloud Bind Group Layout"), nil, nil); err != nil {
		provider.Release()
		return err
	}

	p.SetVertexCount(vertexCount)
	p.SetProvider(provider)
	p.SetReady(true)
	return nil
}

func (r *rendererImpl) InitOverlay(label string, stagingData common.TextureStagingData) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitTextureView(provider, 0, stagingData); err != nil {
		provider.Release()
		return nil, err
	}
	if err := r.backend.InitSampler(provider, 1, common.SamplerStagingData{}); err != nil {
		provider.Release()
		return nil, err
	}
	if err := r.backend.InitBindGroup(provider, overlayBindGroupLayout(), nil, nil); err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}
