package physics

import (
	"math"

	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/geom"
)

// DefaultGravity is the gravity applied by worlds constructed without an
// override, in units/s² with +y pointing down.
var DefaultGravity = geom.Vec(0, 1400)

// World owns the body list, gravity, world bounds, and the layer matrix, and
// advances the simulation one tick at a time.
//
// A world is single-threaded: all body mutation happens inside Update, and
// callers must not touch registered bodies concurrently with it. AddObject
// and RemoveObject may be called from collision callbacks; such registrations
// are queued and flushed at the end of the tick.
type World struct {
	Tuning Tuning

	width, height float64
	gravity       geom.Vector2D
	layers        *LayerMatrix
	bodies        []Body

	updating      bool
	pendingAdd    []pendingBody
	pendingRemove []Body
}

type pendingBody struct {
	body  Body
	layer string
}

// NewWorld creates a world with the given bounds, default gravity, and the
// default layer matrix.
func NewWorld(width, height float64) *World {
	return NewWorldWithLayers(width, height, DefaultLayerMatrix())
}

// NewWorldWithLayers creates a world with a host-supplied layer matrix.
func NewWorldWithLayers(width, height float64, layers *LayerMatrix) *World {
	if layers == nil {
		layers = DefaultLayerMatrix()
	}
	return &World{
		Tuning:  DefaultTuning(),
		width:   width,
		height:  height,
		gravity: DefaultGravity,
		layers:  layers,
	}
}

func (w *World) Bounds() (width, height float64) {
	return w.width, w.height
}

func (w *World) Gravity() geom.Vector2D {
	return w.gravity
}

// SetGravity overrides gravity. Takes effect next tick.
func (w *World) SetGravity(g geom.Vector2D) {
	w.gravity = g
}

func (w *World) Layers() *LayerMatrix {
	return w.layers
}

// Bodies returns the registered bodies. The slice is owned by the world and
// must not be mutated.
func (w *World) Bodies() []Body {
	return w.bodies
}

// AddObject registers a body on the named layer. An empty or unregistered
// layer name falls back to the catch-all default layer. Calls made during an
// update are deferred to the end of the tick.
func (w *World) AddObject(body Body, layerName string) {
	if body == nil {
		return
	}
	if w.updating {
		w.pendingAdd = append(w.pendingAdd, pendingBody{body: body, layer: layerName})
		return
	}
	w.addNow(body, layerName)
}

func (w *World) addNow(body Body, layerName string) {
	idx, ok := w.layers.Index(layerName)
	if !ok {
		idx, _ = w.layers.Index(DefaultLayer)
	}
	body.SetCollisionLayer(idx)
	w.bodies = append(w.bodies, body)
}

// RemoveObject deregisters a body. Calls made during an update are deferred
// to the end of the tick.
func (w *World) RemoveObject(body Body) {
	if body == nil {
		return
	}
	if w.updating {
		w.pendingRemove = append(w.pendingRemove, body)
		return
	}
	w.removeNow(body)
}

func (w *World) removeNow(body Body) {
	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

func (w *World) flushPending() {
	for _, p := range w.pendingAdd {
		w.addNow(p.body, p.layer)
	}
	w.pendingAdd = w.pendingAdd[:0]
	for _, b := range w.pendingRemove {
		w.removeNow(b)
	}
	w.pendingRemove = w.pendingRemove[:0]
}

// Update advances the simulation by dtMs milliseconds. Deltas above
// Tuning.MaxStepMs are clamped before use; callers wanting finer behavior
// under frame spikes sub-step externally.
//
// The pipeline order is fixed: clear ground state, gravity, integration,
// iterative collision resolution, friction, world-bound clamping, velocity
// cleanup. Reordering changes physical behavior.
func (w *World) Update(dtMs float64) {
	if dtMs <= 0 {
		return
	}
	if dtMs > w.Tuning.MaxStepMs {
		dtMs = w.Tuning.MaxStepMs
	}
	dt := dtMs / 1000

	w.updating = true

	for _, b := range w.bodies {
		b.SetOnGround(false)
	}

	w.applyGravity(dt)
	w.integrate(dt)
	w.resolveCollisions()
	w.applyFriction(dt)
	w.clampToBounds()
	w.settleVelocities()

	w.updating = false
	w.flushPending()
}

func (w *World) applyGravity(dt float64) {
	for _, b := range w.bodies {
		if isStatic(b) || !b.AffectedByGravity() {
			continue
		}
		b.SetVelocity(b.Velocity().Add(w.gravity.Scale(dt)))
	}
}

func (w *World) integrate(dt float64) {
	for _, b := range w.bodies {
		if isStatic(b) {
			continue
		}
		w.moveBody(b, b.Position().Add(b.Velocity().Scale(dt)))
	}
}

// moveBody writes a body position and keeps its shape centered on it.
func (w *World) moveBody(b Body, pos geom.Vector2D) {
	b.SetPosition(pos)
	if shape := b.Shape(); shape != nil {
		shape.SetPosition(pos)
	}
}

// resolveCollisions runs full pairwise passes until either a pass detects no
// overlap or Tuning.Iterations passes have run, letting chained resolutions
// (stacked boxes) converge.
func (w *World) resolveCollisions() {
	iterations := w.Tuning.Iterations
	if iterations < 1 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		if w.resolvePass() == 0 {
			return
		}
	}
}

func (w *World) resolvePass() int {
	found := 0
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if !a.Collidable() || a.Shape() == nil {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !b.Collidable() || b.Shape() == nil {
				continue
			}
			if isStatic(a) && isStatic(b) {
				continue
			}
			if !w.layers.Allowed(a.CollisionLayer(), b.CollisionLayer()) {
				continue
			}
			col, ok := detect(a, b)
			if !ok {
				continue
			}
			found++
			w.resolve(col)
			w.markGround(col)
			a.OnCollision(b, col)
			b.OnCollision(a, col)
		}
	}
	return found
}

// resolve separates an overlapping pair and applies the collision impulse.
func (w *World) resolve(col Collision) {
	invA := invMass(col.A)
	invB := invMass(col.B)
	invSum := invA + invB
	if invSum <= 0 {
		return
	}

	// Positional correction: push the pair apart along the normal by the
	// penetration beyond slop, scaled down to avoid popping, and split by
	// inverse mass. A static member takes none of the correction.
	depth := col.Penetration - w.Tuning.Slop
	if depth > 0 {
		correction := col.Normal.Scale(depth * w.Tuning.CorrectionPercent / invSum)
		if invA > 0 {
			w.moveBody(col.A, col.A.Position().Sub(correction.Scale(invA)))
		}
		if invB > 0 {
			w.moveBody(col.B, col.B.Position().Add(correction.Scale(invB)))
		}
	}

	// Velocity resolution. Bodies already separating along the normal get
	// no impulse; adding one would feed energy into a diverging pair.
	relVel := col.B.Velocity().Sub(col.A.Velocity())
	velAlongNormal := relVel.Dot(col.Normal)
	if velAlongNormal > 0 {
		return
	}

	e := math.Min(col.A.Restitution(), col.B.Restitution())
	j := -(1 + e) * velAlongNormal / invSum
	impulse := col.Normal.Scale(j)
	if invA > 0 {
		col.A.SetVelocity(col.A.Velocity().Sub(impulse.Scale(invA)))
	}
	if invB > 0 {
		col.B.SetVelocity(col.B.Velocity().Add(impulse.Scale(invB)))
	}
}

// markGround flags a body as grounded when the contact normal says the other
// body is below it and that body can carry it (static or a ground layer).
// Normal points from A toward B with +y down, so Normal.Y > 0 means B is
// below A.
func (w *World) markGround(col Collision) {
	if col.Normal.Y >= w.Tuning.GroundNormalY && w.supports(col.B) {
		col.A.SetOnGround(true)
	}
	if col.Normal.Y <= -w.Tuning.GroundNormalY && w.supports(col.A) {
		col.B.SetOnGround(true)
	}
}

func (w *World) supports(b Body) bool {
	return isStatic(b) || w.layers.IsGround(b.CollisionLayer())
}

// applyFriction decelerates grounded bodies toward zero horizontal velocity,
// clamping to exactly zero so the sign never oscillates. Airborne bodies get
// a multiplicative horizontal drag instead.
func (w *World) applyFriction(dt float64) {
	for _, b := range w.bodies {
		if isStatic(b) {
			continue
		}
		vel := b.Velocity()
		if b.OnGround() {
			step := b.Friction() * w.Tuning.FrictionScale * dt
			vel.X = common.Approach(vel.X, 0, step)
		} else {
			drag := 1 - w.Tuning.AirDrag*dt
			if drag < 0 {
				drag = 0
			}
			vel.X *= drag
		}
		b.SetVelocity(vel)
	}
}

// clampToBounds keeps every dynamic body's bounding box inside the world,
// reflecting the outward velocity component by -restitution. Zero restitution
// stops the component dead. Resting on the bottom bound counts as ground.
func (w *World) clampToBounds() {
	for _, b := range w.bodies {
		if isStatic(b) || b.Shape() == nil {
			continue
		}
		bb := b.Shape().BoundingBox()
		pos := b.Position()
		vel := b.Velocity()
		moved := false

		if bb.Left() < 0 {
			pos.X -= bb.Left()
			if vel.X < 0 {
				vel.X = -vel.X * b.Restitution()
			}
			moved = true
		} else if bb.Right() > w.width {
			pos.X -= bb.Right() - w.width
			if vel.X > 0 {
				vel.X = -vel.X * b.Restitution()
			}
			moved = true
		}

		if bb.Top() < 0 {
			pos.Y -= bb.Top()
			if vel.Y < 0 {
				vel.Y = -vel.Y * b.Restitution()
			}
			moved = true
		} else if bb.Bottom() > w.height {
			pos.Y -= bb.Bottom() - w.height
			if vel.Y > 0 {
				vel.Y = -vel.Y * b.Restitution()
			}
			b.SetOnGround(true)
			moved = true
		}

		if moved {
			w.moveBody(b, pos)
			b.SetVelocity(vel)
		}
	}
}

// settleVelocities zeroes velocity components below the rest threshold to
// stop micro-jitter. The vertical component is only zeroed for grounded
// bodies so slow falls are never masked.
func (w *World) settleVelocities() {
	for _, b := range w.bodies {
		if isStatic(b) {
			continue
		}
		vel := b.Velocity()
		if vel.IsZero() {
			continue
		}
		changed := false
		if vel.X != 0 && math.Abs(vel.X) < w.Tuning.RestVelocity {
			vel.X = 0
			changed = true
		}
		if b.OnGround() && vel.Y != 0 && math.Abs(vel.Y) < w.Tuning.RestVelocity {
			vel.Y = 0
			changed = true
		}
		if changed {
			b.SetVelocity(vel)
		}
	}
}
