package object

// Lines is a set of line segments drawn as vertex pairs, used for axes,
// bounding boxes, and other debug geometry.
type Lines interface {
	Renderable

	// VertexCount returns the number of line vertices (two per segment).
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// SetVertexCount records the number of line vertices.
	//
	// Parameters:
	//   - count: the vertex count
	SetVertexCount(count int)

	// Width returns the line width in pixels.
	//
	// Returns:
	//   - float32: the line width
	Width() float32
}

type lines struct {
	baseObject

	vertexCount int
	width       float32
}

var _ Lines = &lines{}

// NewLines creates a line-set object configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - Lines: the newly created object
func NewLines(options ...LinesBuilderOption) Lines {
	l := &lines{
		baseObject: newBaseObject(KindLines),
		width:      1,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *lines) VertexCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.vertexCount
}

func (l *lines) SetVertexCount(count int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vertexCount = count
}

func (l *lines) Width() float32 {
	return l.width
}

func (l *lines) Drawable() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready.Load() && l.provider != nil && l.vertexCount > 0
}

func (l *lines) Dispose() {
	l.releaseProvider()
}
