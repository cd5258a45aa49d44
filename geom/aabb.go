package geom

// AABB is an axis-aligned bounding box stored as a center point plus
// half-extents. Half-extents are never negative.
type AABB struct {
	Center     Vector2D
	HalfWidth  float64
	HalfHeight float64
}

// NewAABB builds an AABB centered on (x, y) from full width and height.
func NewAABB(x, y, width, height float64) *AABB {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &AABB{
		Center:     Vector2D{X: x, Y: y},
		HalfWidth:  width / 2,
		HalfHeight: height / 2,
	}
}

func (b AABB) Left() float64   { return b.Center.X - b.HalfWidth }
func (b AABB) Right() float64  { return b.Center.X + b.HalfWidth }
func (b AABB) Top() float64    { return b.Center.Y - b.HalfHeight }
func (b AABB) Bottom() float64 { return b.Center.Y + b.HalfHeight }

func (b AABB) Width() float64  { return b.HalfWidth * 2 }
func (b AABB) Height() float64 { return b.HalfHeight * 2 }

// Intersects reports whether b strictly overlaps other. Edges that merely
// touch do not count as overlap.
func (b *AABB) Intersects(other Shape) bool {
	o, ok := other.(*AABB)
	if !ok {
		return false
	}
	return b.Left() < o.Right() &&
		b.Right() > o.Left() &&
		b.Top() < o.Bottom() &&
		b.Bottom() > o.Top()
}

func (b *AABB) BoundingBox() AABB {
	return *b
}

func (b *AABB) Position() Vector2D {
	return b.Center
}

// SetPosition recenters the box without changing its half-extents.
func (b *AABB) SetPosition(pos Vector2D) {
	b.Center = pos
}

func (b *AABB) Clone() Shape {
	c := *b
	return &c
}

// ContainsPoint reports whether p lies inside b (edges exclusive).
func (b *AABB) ContainsPoint(p Vector2D) bool {
	return p.X > b.Left() && p.X < b.Right() &&
		p.Y > b.Top() && p.Y < b.Bottom()
}
