package physics

// DefaultLayer is the catch-all layer every world registers. Bodies added
// with an empty or unknown layer name land here.
const DefaultLayer = "default"

// LayerMatrix maps layer names to indices and records which layers may
// collide. It is built once at world construction and never mutated during
// simulation; all queries are pure.
//
// The collision query is directional with a fallback: if layer a declares an
// allow row, that row answers; otherwise b's row is consulted in reverse;
// if neither layer declares a row, the pair collides.
type LayerMatrix struct {
	names  map[string]int
	labels []string
	rows   map[int]map[int]bool
	ground map[int]bool
}

// NewLayerMatrix creates a matrix with only the catch-all default layer
// registered.
func NewLayerMatrix() *LayerMatrix {
	m := &LayerMatrix{
		names:  make(map[string]int),
		rows:   make(map[int]map[int]bool),
		ground: make(map[int]bool),
	}
	m.Register(DefaultLayer)
	return m
}

// DefaultLayerMatrix returns the matrix worlds use when the host supplies
// none: a catch-all default plus ground and platform layers that everything
// collides with and that count as ground for on-ground detection.
func DefaultLayerMatrix() *LayerMatrix {
	m := NewLayerMatrix()
	m.Register("ground")
	m.Register("platform")
	m.MarkGround("ground")
	m.MarkGround("platform")
	return m
}

// Register adds a layer and returns its index. Registering an existing name
// returns the existing index.
func (m *LayerMatrix) Register(name string) int {
	if idx, ok := m.names[name]; ok {
		return idx
	}
	idx := len(m.labels)
	m.names[name] = idx
	m.labels = append(m.labels, name)
	return idx
}

// Index resolves a layer name, reporting whether it was registered.
func (m *LayerMatrix) Index(name string) (int, bool) {
	idx, ok := m.names[name]
	return idx, ok
}

// Name returns the label for a layer index, or the default label when the
// index is out of range.
func (m *LayerMatrix) Name(idx int) string {
	if idx < 0 || idx >= len(m.labels) {
		return DefaultLayer
	}
	return m.labels[idx]
}

// Allow declares the full allow row for a layer: name collides with exactly
// the listed layers. An empty list makes the layer collide with nothing.
// Unlisted layers keep their default collide-with-all behavior.
func (m *LayerMatrix) Allow(name string, collidesWith ...string) {
	idx := m.Register(name)
	row := make(map[int]bool, len(collidesWith))
	for _, other := range collidesWith {
		row[m.Register(other)] = true
	}
	m.rows[idx] = row
}

// MarkGround tags a layer as ground for on-ground determination.
func (m *LayerMatrix) MarkGround(name string) {
	m.ground[m.Register(name)] = true
}

// Allowed reports whether layers a and b may collide.
func (m *LayerMatrix) Allowed(a, b int) bool {
	if row, ok := m.rows[a]; ok {
		return row[b]
	}
	if row, ok := m.rows[b]; ok {
		return row[a]
	}
	return true
}

// IsGround reports whether a layer is tagged as ground.
func (m *LayerMatrix) IsGround(idx int) bool {
	return m.ground[idx]
}
