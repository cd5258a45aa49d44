package physics

import (
	"math"
	"testing"

	"github.com/milk9111/rigid2d/geom"
)

// testBody is a minimal Body implementation for engine tests.
type testBody struct {
	pos, vel    geom.Vector2D
	shape       geom.Shape
	mass        float64
	gravity     bool
	collidable  bool
	layer       int
	onGround    bool
	friction    float64
	restitution float64

	collisions []Collision
	others     []Body
}

func newTestBox(x, y, width, height, mass float64) *testBody {
	return &testBody{
		pos:        geom.Vec(x, y),
		shape:      geom.NewAABB(x, y, width, height),
		mass:       mass,
		gravity:    mass > 0,
		collidable: true,
	}
}

func (b *testBody) Position() geom.Vector2D { return b.pos }
func (b *testBody) SetPosition(pos geom.Vector2D) {
	b.pos = pos
	b.shape.SetPosition(pos)
}
func (b *testBody) Velocity() geom.Vector2D       { return b.vel }
func (b *testBody) SetVelocity(vel geom.Vector2D) { b.vel = vel }
func (b *testBody) Mass() float64                 { return b.mass }
func (b *testBody) AffectedByGravity() bool       { return b.gravity }
func (b *testBody) Collidable() bool              { return b.collidable }
func (b *testBody) CollisionLayer() int           { return b.layer }
func (b *testBody) SetCollisionLayer(layer int)   { b.layer = layer }
func (b *testBody) OnGround() bool                { return b.onGround }
func (b *testBody) SetOnGround(grounded bool)     { b.onGround = grounded }
func (b *testBody) Friction() float64             { return b.friction }
func (b *testBody) Restitution() float64          { return b.restitution }
func (b *testBody) Shape() geom.Shape             { return b.shape }
func (b *testBody) OnCollision(other Body, c Collision) {
	b.others = append(b.others, other)
	b.collisions = append(b.collisions, c)
}

func tick(w *World, n int) {
	for i := 0; i < n; i++ {
		w.Update(16)
	}
}

func TestGravityIntegration(t *testing.T) {
	w := NewWorld(800, 600)
	b := newTestBox(100, 100, 10, 10, 1)
	w.AddObject(b, "")

	w.Update(16)

	dt := 0.016
	wantVY := 1400 * dt
	wantY := 100 + wantVY*dt
	if math.Abs(b.vel.Y-wantVY) > 1e-9 {
		t.Fatalf("velocity after one tick: want %v, got %v", wantVY, b.vel.Y)
	}
	if b.vel.X != 0 {
		t.Fatalf("gravity must not touch horizontal velocity, got %v", b.vel.X)
	}
	if math.Abs(b.pos.Y-wantY) > 1e-9 {
		t.Fatalf("position after one tick: want %v, got %v", wantY, b.pos.Y)
	}
}

func TestUpdateClampsDeltaTime(t *testing.T) {
	w := NewWorld(800, 600)
	b := newTestBox(100, 100, 10, 10, 1)
	w.AddObject(b, "")

	// A frame spike is clamped to MaxStepMs, not integrated whole.
	w.Update(250)

	wantVY := 1400 * (w.Tuning.MaxStepMs / 1000)
	if math.Abs(b.vel.Y-wantVY) > 1e-9 {
		t.Fatalf("want clamped velocity %v, got %v", wantVY, b.vel.Y)
	}
}

func TestStaticBodiesNeverMove(t *testing.T) {
	cases := []struct {
		name string
		mass float64
	}{
		{"zero_mass", 0},
		{"negative_mass", -5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(800, 600)
			b := newTestBox(400, 300, 40, 40, c.mass)
			b.gravity = true
			b.vel = geom.Vec(50, -30)
			w.AddObject(b, "")

			tick(w, 100)

			if b.pos != geom.Vec(400, 300) {
				t.Fatalf("static body moved to %v", b.pos)
			}
			if b.vel != geom.Vec(50, -30) {
				t.Fatalf("static body velocity changed to %v", b.vel)
			}
		})
	}
}

func TestRestingBoxConverges(t *testing.T) {
	w := NewWorld(800, 600)
	floor := newTestBox(400, 590, 800, 20, 0)
	box := newTestBox(400, 100, 40, 40, 1)
	box.friction = 0.8
	w.AddObject(floor, "ground")
	w.AddObject(box, "player")

	tick(w, 80)

	if !box.onGround {
		t.Fatalf("box should be on ground")
	}
	if box.vel != geom.Vec(0, 0) {
		t.Fatalf("box should be at rest, velocity %v", box.vel)
	}
	floorTop := 580.0
	bottom := box.shape.BoundingBox().Bottom()
	if math.Abs(bottom-floorTop) > 0.1 {
		t.Fatalf("box bottom %v should settle at floor top %v", bottom, floorTop)
	}

	// No visible jitter once settled: the bottom edge stays put.
	prev := bottom
	for i := 0; i < 10; i++ {
		w.Update(16)
		cur := box.shape.BoundingBox().Bottom()
		if math.Abs(cur-prev) > w.Tuning.Slop {
			t.Fatalf("tick %d: resting box jittered from %v to %v", i, prev, cur)
		}
		prev = cur
	}
}

func TestSeparatingBodiesGetNoImpulse(t *testing.T) {
	w := NewWorld(800, 600)
	w.Tuning.AirDrag = 0
	a := newTestBox(395, 300, 40, 40, 1)
	b := newTestBox(405, 300, 40, 40, 1)
	a.gravity = false
	b.gravity = false
	a.vel = geom.Vec(-50, 0)
	b.vel = geom.Vec(50, 0)
	w.AddObject(a, "")
	w.AddObject(b, "")

	w.Update(16)

	if a.vel != geom.Vec(-50, 0) || b.vel != geom.Vec(50, 0) {
		t.Fatalf("diverging overlap must not change velocities, got %v and %v", a.vel, b.vel)
	}
	if len(a.collisions) == 0 {
		t.Fatalf("overlap should still be detected and notified")
	}
}

func TestLayerFiltering(t *testing.T) {
	layers := NewLayerMatrix()
	layers.Allow("trigger")
	w := NewWorldWithLayers(800, 600, layers)
	a := newTestBox(400, 300, 40, 40, 1)
	b := newTestBox(405, 300, 40, 40, 1)
	a.gravity = false
	b.gravity = false
	w.AddObject(a, "trigger")
	w.AddObject(b, "trigger")

	tick(w, 5)

	if len(a.collisions) != 0 || len(b.collisions) != 0 {
		t.Fatalf("filtered layers must never collide, got %d and %d records",
			len(a.collisions), len(b.collisions))
	}
	if a.pos != geom.Vec(400, 300) || b.pos != geom.Vec(405, 300) {
		t.Fatalf("filtered pair should not be separated: %v %v", a.pos, b.pos)
	}
}

func TestStaticPairSkipped(t *testing.T) {
	w := NewWorld(800, 600)
	a := newTestBox(400, 300, 40, 40, 0)
	b := newTestBox(410, 300, 40, 40, 0)
	w.AddObject(a, "")
	w.AddObject(b, "")

	tick(w, 3)

	if len(a.collisions) != 0 || len(b.collisions) != 0 {
		t.Fatalf("static pair must be skipped entirely")
	}
}

func TestBottomBoundRestitution(t *testing.T) {
	w := NewWorld(800, 600)
	ball := newTestBox(400, 580, 30, 30, 1)
	ball.gravity = false
	ball.restitution = 0.5
	ball.vel = geom.Vec(0, 400)
	w.AddObject(ball, "")

	w.Update(16)

	bottom := ball.shape.BoundingBox().Bottom()
	if math.Abs(bottom-600) > 1e-9 {
		t.Fatalf("ball bottom should clamp to world height, got %v", bottom)
	}
	if math.Abs(ball.vel.Y-(-200)) > 1e-9 {
		t.Fatalf("restitution 0.5 should reflect 400 to -200, got %v", ball.vel.Y)
	}
	if !ball.onGround {
		t.Fatalf("bottom bound contact should set on-ground")
	}
}

func TestZeroRestitutionStopsDeadAtBound(t *testing.T) {
	w := NewWorld(800, 600)
	box := newTestBox(10, 300, 30, 30, 1)
	box.gravity = false
	box.vel = geom.Vec(-500, 0)
	w.AddObject(box, "")

	w.Update(16)

	if left := box.shape.BoundingBox().Left(); left != 0 {
		t.Fatalf("box should clamp to left bound, got left=%v", left)
	}
	if box.vel.X != 0 {
		t.Fatalf("zero restitution should stop, not bounce; got vx=%v", box.vel.X)
	}
}

func TestGroundFrictionStopsExactly(t *testing.T) {
	w := NewWorld(800, 600)
	floor := newTestBox(400, 590, 800, 20, 0)
	box := newTestBox(400, 560, 40, 40, 1)
	box.friction = 0.8
	w.AddObject(floor, "ground")
	w.AddObject(box, "player")

	tick(w, 10) // settle
	box.vel = geom.Vec(300, 0)

	signFlipped := false
	stoppedAt := -1
	for i := 0; i < 60; i++ {
		w.Update(16)
		if box.vel.X < 0 {
			signFlipped = true
		}
		if box.vel.X == 0 && stoppedAt < 0 {
			stoppedAt = i
		}
	}

	if signFlipped {
		t.Fatalf("friction must clamp to zero, not oscillate sign")
	}
	if stoppedAt < 0 {
		t.Fatalf("box never stopped, vx=%v", box.vel.X)
	}
	if box.vel.X != 0 {
		t.Fatalf("box should stay stopped, vx=%v", box.vel.X)
	}
}

func TestAirDragDecaysHorizontalOnly(t *testing.T) {
	w := NewWorld(800, 600)
	b := newTestBox(400, 100, 10, 10, 1)
	b.gravity = false
	b.vel = geom.Vec(100, 0)
	w.AddObject(b, "")

	w.Update(16)

	want := 100 * (1 - w.Tuning.AirDrag*0.016)
	if math.Abs(b.vel.X-want) > 1e-9 {
		t.Fatalf("air drag: want vx %v, got %v", want, b.vel.X)
	}
}

func TestCollisionNotification(t *testing.T) {
	w := NewWorld(800, 600)
	floor := newTestBox(400, 590, 800, 20, 0)
	box := newTestBox(400, 562, 40, 40, 1)
	w.AddObject(floor, "ground")
	w.AddObject(box, "player")

	tick(w, 3)

	if len(box.others) == 0 {
		t.Fatalf("falling box should have been notified of floor contact")
	}
	for _, other := range box.others {
		if other != Body(floor) {
			t.Fatalf("box's collision partner should be the floor")
		}
	}
	for _, c := range box.collisions {
		if c.Penetration < 0 {
			t.Fatalf("penetration must be non-negative, got %v", c.Penetration)
		}
		if l := c.Normal.Length(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("normal must be unit length, got %v", l)
		}
	}
	if len(floor.others) != len(box.others) {
		t.Fatalf("both sides should be notified the same number of times: %d vs %d",
			len(floor.others), len(box.others))
	}
}

func TestAddRemoveDuringUpdateIsDeferred(t *testing.T) {
	w := NewWorld(800, 600)
	floor := newTestBox(400, 590, 800, 20, 0)
	box := newTestBox(400, 565, 40, 40, 1)
	spawned := newTestBox(100, 100, 10, 10, 1)

	w.AddObject(floor, "ground")
	w.AddObject(box, "player")

	// Registration churn from inside a callback must not take effect until
	// the tick completes.
	hook := &callbackBody{testBody: newTestBox(400, 560, 20, 20, 1)}
	hook.fn = func() {
		w.AddObject(spawned, "")
		w.RemoveObject(hook)
	}
	w.AddObject(hook, "player")

	before := len(w.Bodies())
	w.Update(16)
	after := len(w.Bodies())

	if before != 3 {
		t.Fatalf("expected 3 bodies before, got %d", before)
	}
	if after != 3 { // -hook +spawned
		t.Fatalf("expected 3 bodies after deferred flush, got %d", after)
	}
	for _, b := range w.Bodies() {
		if b == Body(hook) {
			t.Fatalf("hook should have been removed at tick end")
		}
	}
}

// callbackBody wraps testBody with a callback hook.
type callbackBody struct {
	*testBody
	fn func()
}

func (b *callbackBody) OnCollision(other Body, c Collision) {
	if b.fn != nil {
		b.fn()
	}
}

func TestConcreteScenario(t *testing.T) {
	// World 800x600, gravity (0, 1400); static floor centered (400, 590)
	// half-extents (400, 10); dynamic 40x40 box, mass 1, dropped from
	// (400, 100). After ~1s of 16ms ticks it rests on the floor top.
	w := NewWorld(800, 600)
	floor := newTestBox(400, 590, 800, 20, 0)
	box := newTestBox(400, 100, 40, 40, 1)
	box.friction = 0.8
	w.AddObject(floor, "ground")
	w.AddObject(box, "player")

	tick(w, 63)

	if !box.onGround {
		t.Fatalf("box should be resting on the floor")
	}
	if box.vel != geom.Vec(0, 0) {
		t.Fatalf("box should have zero velocity, got %v", box.vel)
	}
	if bottom := box.shape.BoundingBox().Bottom(); math.Abs(bottom-580) > 0.5 {
		t.Fatalf("box bottom should be at y≈580, got %v", bottom)
	}
	if math.Abs(box.pos.X-400) > 1e-9 {
		t.Fatalf("box should not drift horizontally, got x=%v", box.pos.X)
	}
}

func TestUnknownLayerFallsBackToDefault(t *testing.T) {
	w := NewWorld(800, 600)
	b := newTestBox(100, 100, 10, 10, 1)
	w.AddObject(b, "no-such-layer")

	want, _ := w.Layers().Index(DefaultLayer)
	if b.layer != want {
		t.Fatalf("unknown layer should fall back to default (%d), got %d", want, b.layer)
	}
}

func TestStackedBoxesConverge(t *testing.T) {
	w := NewWorld(800, 600)
	// A chain of three boxes needs more resolver passes than the default to
	// drive the residual settle velocity down.
	w.Tuning.Iterations = 12
	floor := newTestBox(400, 590, 800, 20, 0)
	bottom := newTestBox(400, 555, 50, 50, 2)
	middle := newTestBox(400, 505, 50, 50, 1)
	top := newTestBox(400, 455, 50, 50, 1)
	w.AddObject(floor, "ground")
	w.AddObject(bottom, "player")
	w.AddObject(middle, "player")
	w.AddObject(top, "player")

	tick(w, 120)

	for name, b := range map[string]*testBody{"bottom": bottom, "middle": middle, "top": top} {
		if math.Abs(b.vel.Y) > 1 {
			t.Fatalf("%s box still moving vertically: %v", name, b.vel.Y)
		}
	}
	// The stack must not interpenetrate beyond a small tolerance.
	if gap := middle.shape.BoundingBox().Bottom() - bottom.shape.BoundingBox().Top(); gap > 0.5 {
		t.Fatalf("middle box sank %v into bottom box", gap)
	}
	if gap := top.shape.BoundingBox().Bottom() - middle.shape.BoundingBox().Top(); gap > 0.5 {
		t.Fatalf("top box sank %v into middle box", gap)
	}
	if bottom.shape.BoundingBox().Bottom()-580 > 0.5 {
		t.Fatalf("bottom box sank into the floor")
	}
}
