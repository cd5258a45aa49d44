package geom

// Shape is the capability every collision shape implements. The physics
// world only ever talks to shapes through this interface, so new shape kinds
// can be added without touching the engine.
//
// Collision detection currently only resolves AABB/AABB pairs; Intersects
// against an unknown shape kind reports false rather than failing, so an
// unimplemented shape silently never collides.
type Shape interface {
	Intersects(other Shape) bool
	BoundingBox() AABB
	Position() Vector2D
	SetPosition(pos Vector2D)
	Clone() Shape
}
