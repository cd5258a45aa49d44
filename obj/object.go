package obj

import (
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/geom"
	"github.com/milk9111/rigid2d/physics"
)

// Object is a plain rigid body implementing physics.Body. Concrete entity
// kinds (crates, platforms, the player) are Objects built through the
// constructors below; gameplay hooks in through CollisionFunc instead of
// subclassing.
type Object struct {
	name string

	pos   geom.Vector2D
	vel   geom.Vector2D
	shape *geom.AABB

	mass        float64
	gravity     bool
	collidable  bool
	layer       int
	onGround    bool
	friction    float64
	restitution float64

	// CollisionFunc, when set, is called for every resolved contact this
	// object is part of. It may fire several times per tick for the same
	// pair, so handlers must be idempotent.
	CollisionFunc func(other physics.Body, c physics.Collision)
}

// NewBox creates a dynamic box body centered on (x, y). A mass <= 0 makes it
// static.
func NewBox(name string, x, y, width, height, mass float64) *Object {
	return &Object{
		name:       name,
		pos:        geom.Vec(x, y),
		shape:      geom.NewAABB(x, y, width, height),
		mass:       mass,
		gravity:    mass > 0,
		collidable: true,
		friction:   0.5,
	}
}

// NewPlatform creates a static platform body centered on (x, y).
func NewPlatform(name string, x, y, width, height float64) *Object {
	o := NewBox(name, x, y, width, height, 0)
	o.friction = 0.8
	return o
}

func (o *Object) Name() string { return o.name }

func (o *Object) Position() geom.Vector2D { return o.pos }

// SetPosition moves the object and recenters its shape.
func (o *Object) SetPosition(pos geom.Vector2D) {
	o.pos = pos
	o.shape.SetPosition(pos)
}

func (o *Object) Velocity() geom.Vector2D       { return o.vel }
func (o *Object) SetVelocity(vel geom.Vector2D) { o.vel = vel }

func (o *Object) Mass() float64 { return o.mass }

func (o *Object) AffectedByGravity() bool      { return o.gravity }
func (o *Object) SetAffectedByGravity(on bool) { o.gravity = on }

func (o *Object) Collidable() bool      { return o.collidable }
func (o *Object) SetCollidable(on bool) { o.collidable = on }

func (o *Object) CollisionLayer() int         { return o.layer }
func (o *Object) SetCollisionLayer(layer int) { o.layer = layer }

func (o *Object) OnGround() bool            { return o.onGround }
func (o *Object) SetOnGround(grounded bool) { o.onGround = grounded }

func (o *Object) Friction() float64 { return o.friction }
func (o *Object) SetFriction(f float64) {
	o.friction = common.Clamp(f, 0, 1)
}

func (o *Object) Restitution() float64 { return o.restitution }
func (o *Object) SetRestitution(r float64) {
	o.restitution = common.Clamp(r, 0, 1)
}

func (o *Object) Shape() geom.Shape { return o.shape }

func (o *Object) OnCollision(other physics.Body, c physics.Collision) {
	if o.CollisionFunc != nil {
		o.CollisionFunc(other, c)
	}
}
