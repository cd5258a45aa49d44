package physics

import (
	"math"

	"github.com/milk9111/rigid2d/geom"
)

// Collision is the immutable record of one detected overlap. Normal is a
// unit vector pointing from A's side toward B, following the screen-space
// convention used throughout the engine: +y points down, so Normal.Y > 0
// means B is below A.
type Collision struct {
	A, B        Body
	Normal      geom.Vector2D
	Penetration float64
	Contact     geom.Vector2D
}

// detect computes the collision between two bodies, if any. Only AABB/AABB
// pairs are resolved; any other shape kind yields no collision (a documented
// no-op, not an error, so unimplemented shapes simply never collide).
func detect(a, b Body) (Collision, bool) {
	boxA, okA := a.Shape().(*geom.AABB)
	boxB, okB := b.Shape().(*geom.AABB)
	if !okA || !okB {
		return Collision{}, false
	}

	delta := boxB.Center.Sub(boxA.Center)
	overlapX := boxA.HalfWidth + boxB.HalfWidth - math.Abs(delta.X)
	if overlapX <= 0 {
		return Collision{}, false
	}
	overlapY := boxA.HalfHeight + boxB.HalfHeight - math.Abs(delta.Y)
	if overlapY <= 0 {
		return Collision{}, false
	}

	// Resolve along the axis of least penetration. Exactly coincident
	// centers push B downward so a degenerate spawn still separates.
	var normal geom.Vector2D
	var penetration float64
	if overlapX < overlapY {
		penetration = overlapX
		if delta.X < 0 {
			normal = geom.Vec(-1, 0)
		} else {
			normal = geom.Vec(1, 0)
		}
	} else {
		penetration = overlapY
		if delta.Y < 0 {
			normal = geom.Vec(0, -1)
		} else {
			normal = geom.Vec(0, 1)
		}
	}

	return Collision{
		A:           a,
		B:           b,
		Normal:      normal,
		Penetration: penetration,
		Contact:     overlapCenter(boxA, boxB),
	}, true
}

// overlapCenter returns the center of the overlap rectangle of two
// intersecting boxes.
func overlapCenter(a, b *geom.AABB) geom.Vector2D {
	left := math.Max(a.Left(), b.Left())
	right := math.Min(a.Right(), b.Right())
	top := math.Max(a.Top(), b.Top())
	bottom := math.Min(a.Bottom(), b.Bottom())
	return geom.Vec((left+right)/2, (top+bottom)/2)
}
