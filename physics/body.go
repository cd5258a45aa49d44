package physics

import "github.com/milk9111/rigid2d/geom"

// Body is the capability every simulated entity implements. The world only
// ever mutates entities through this interface; it never owns them and never
// depends on concrete entity types.
//
// A body with Mass() <= 0 is static: infinite mass, never moved by gravity,
// integration, impulses, or world bounds.
//
// Implementations must keep Shape() centered on Position(); the world
// re-syncs the shape after every position write as a belt-and-braces measure,
// but host code that teleports a body outside an update should do the same.
type Body interface {
	Position() geom.Vector2D
	SetPosition(pos geom.Vector2D)
	Velocity() geom.Vector2D
	SetVelocity(vel geom.Vector2D)

	Mass() float64
	AffectedByGravity() bool
	Collidable() bool

	CollisionLayer() int
	SetCollisionLayer(layer int)

	OnGround() bool
	SetOnGround(grounded bool)

	// Friction and Restitution are both in [0, 1].
	Friction() float64
	Restitution() float64

	Shape() geom.Shape

	// OnCollision is invoked once per resolved pair per resolver iteration,
	// so the same pair may notify several times within one tick. Handlers
	// must be idempotent.
	OnCollision(other Body, c Collision)
}

// invMass returns 1/mass, treating static bodies as infinite mass.
func invMass(b Body) float64 {
	m := b.Mass()
	if m <= 0 {
		return 0
	}
	return 1 / m
}

func isStatic(b Body) bool {
	return b.Mass() <= 0
}
