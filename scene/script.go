package scene

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/rigid2d/physics"
)

// Collision scripts let scene bodies react to contacts without compiled-in
// gameplay code. A script defines a global function
//
//	hit := func(self, other, contact) { ... return out }
//
// where self/other carry x, y, vx, vy, mass, on_ground, layer and contact
// carries nx, ny (unit normal from self toward other), penetration, x, y.
// The returned map may set vx and/or vy to override the body's
// post-resolution velocity.
const collisionDispatch = `
__out := hit(__self, __other, __contact)
`

type CollisionScript struct {
	compiled *tengo.Compiled
}

// CompileCollisionScript compiles a collision script once; Run re-executes
// the compiled program with fresh globals per contact.
func CompileCollisionScript(src []byte) (*CollisionScript, error) {
	full := string(src) + "\n" + collisionDispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__self", map[string]any{})
	_ = script.Add("__other", map[string]any{})
	_ = script.Add("__contact", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scene: compile collision script: %w", err)
	}
	return &CollisionScript{compiled: compiled}, nil
}

// Run executes the script for one contact and applies any velocity override
// it returns to self. The contact normal is re-oriented to point from self
// toward other regardless of pair order, so ny > 0 always means other is
// below self. The simulation is single-threaded, so the compiled program is
// reused without cloning.
func (s *CollisionScript) Run(self, other physics.Body, col physics.Collision) error {
	if err := s.compiled.Set("__self", bodyState(self)); err != nil {
		return err
	}
	if err := s.compiled.Set("__other", bodyState(other)); err != nil {
		return err
	}
	normal := col.Normal
	if self == col.B {
		normal = normal.Scale(-1)
	}
	contact := map[string]any{
		"nx":          normal.X,
		"ny":          normal.Y,
		"penetration": col.Penetration,
		"x":           col.Contact.X,
		"y":           col.Contact.Y,
	}
	if err := s.compiled.Set("__contact", contact); err != nil {
		return err
	}

	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("scene: run collision script: %w", err)
	}

	out := s.compiled.Get("__out")
	if out == nil || out.IsUndefined() {
		return nil
	}
	applyScriptResult(self, out.Map())
	return nil
}

func bodyState(b physics.Body) map[string]any {
	pos := b.Position()
	vel := b.Velocity()
	return map[string]any{
		"x":         pos.X,
		"y":         pos.Y,
		"vx":        vel.X,
		"vy":        vel.Y,
		"mass":      b.Mass(),
		"on_ground": b.OnGround(),
		"layer":     b.CollisionLayer(),
	}
}

func applyScriptResult(self physics.Body, out map[string]any) {
	if out == nil {
		return
	}
	vel := self.Velocity()
	changed := false
	if x, ok := toFloat(out["vx"]); ok {
		vel.X = x
		changed = true
	}
	if y, ok := toFloat(out["vy"]); ok {
		vel.Y = y
		changed = true
	}
	if changed {
		self.SetVelocity(vel)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
