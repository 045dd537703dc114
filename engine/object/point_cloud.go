package object

// PointCloud is a set of unsorted colored points drawn without blending.
// Unlike the splat variants it carries no depth-sort worker; points are
// drawn in buffer order with depth testing on.
type PointCloud interface {
	Renderable

	// VertexCount returns the number of points.
	//
	// Returns:
	//   - int: the point count
	VertexCount() int

	// SetVertexCount records the number of points.
	//
	// Parameters:
	//   - count: the point count
	SetVertexCount(count int)

	// PointSize returns the rendered point size in pixels.
	//
	// Returns:
	//   - float32: the point size
	PointSize() float32
}

type pointCloud struct {
	baseObject

	vertexCount int
	pointSize   float32
}

var _ PointCloud = &pointCloud{}

// NewPointCloud creates a point-cloud object configured with the given
// options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - PointCloud: the newly created object
func NewPointCloud(options ...PointCloudBuilderOption) PointCloud {
	p := &pointCloud{
		baseObject: newBaseObject(KindPointCloud),
		pointSize:  1,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *pointCloud) VertexCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vertexCount
}

func (p *pointCloud) SetVertexCount(count int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexCount = count
}

func (p *pointCloud) PointSize() float32 {
	return p.pointSize
}

func (p *pointCloud) Drawable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready.Load() && p.provider != nil && p.vertexCount > 0
}

func (p *pointCloud) Dispose() {
	p.releaseProvider()
}
