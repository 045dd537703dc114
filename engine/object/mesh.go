package object

// Mesh is an indexed triangle mesh. Vertex and index buffers live in the
// object's BindGroupProvider; the lit flag selects between the shaded and
// unlit pipeline variants.
type Mesh interface {
	Renderable

	// Lit reports whether the mesh is drawn with the shaded pipeline.
	//
	// Returns:
	//   - bool: true for the shaded variant
	Lit() bool

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetIndexCount records the number of indices to draw.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

type mesh struct {
	baseObject

	lit        bool
	indexCount int
}

var _ Mesh = &mesh{}

// NewMesh creates a mesh object configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - Mesh: the newly created object
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{
		baseObject: newBaseObject(KindMesh),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *mesh) Lit() bool {
	return m.lit
}

func (m *mesh) IndexCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexCount
}

func (m *mesh) SetIndexCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexCount = count
}

func (m *mesh) Drawable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready.Load() && m.provider != nil && m.indexCount > 0
}

func (m *mesh) Dispose() {
	m.releaseProvider()
}
