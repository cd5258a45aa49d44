package scene

import (
	"fmt"
	"log"

	"github.com/milk9111/rigid2d/geom"
	"github.com/milk9111/rigid2d/obj"
	"github.com/milk9111/rigid2d/physics"
)

// Build turns a spec into a live world plus the objects it registered, in
// declaration order.
func Build(spec *Spec) (*physics.World, []*obj.Object, error) {
	if spec == nil {
		return nil, nil, fmt.Errorf("scene: nil spec")
	}

	world := physics.NewWorldWithLayers(spec.World.Width, spec.World.Height, buildLayers(spec.Layers))
	if spec.World.Gravity != nil {
		world.SetGravity(vec(*spec.World.Gravity))
	}
	applyTuning(&world.Tuning, spec.Tuning)

	objects := make([]*obj.Object, 0, len(spec.Bodies))
	for i, bs := range spec.Bodies {
		if bs.Width <= 0 || bs.Height <= 0 {
			return nil, nil, fmt.Errorf("scene: body %d (%s): size must be positive", i, bs.Name)
		}
		o := obj.NewBox(bs.Name, bs.X, bs.Y, bs.Width, bs.Height, bs.Mass)
		o.SetVelocity(vec(VecSpec{X: bs.VelX, Y: bs.VelY}))
		if bs.Friction != nil {
			o.SetFriction(*bs.Friction)
		}
		if bs.Restitution != nil {
			o.SetRestitution(*bs.Restitution)
		}
		if bs.Gravity != nil {
			o.SetAffectedByGravity(*bs.Gravity)
		}
		if bs.Collidable != nil {
			o.SetCollidable(*bs.Collidable)
		}
		if bs.Script != "" {
			if err := attachScript(o, bs.Script); err != nil {
				return nil, nil, fmt.Errorf("scene: body %d (%s): %w", i, bs.Name, err)
			}
		}
		world.AddObject(o, bs.Layer)
		objects = append(objects, o)
	}
	return world, objects, nil
}

// buildLayers converts layer specs into a matrix. A spec without layers gets
// the engine's default matrix.
func buildLayers(specs []LayerSpec) *physics.LayerMatrix {
	if len(specs) == 0 {
		return physics.DefaultLayerMatrix()
	}
	m := physics.NewLayerMatrix()
	for _, ls := range specs {
		if ls.CollidesWith != nil {
			m.Allow(ls.Name, *ls.CollidesWith...)
		} else {
			m.Register(ls.Name)
		}
		if ls.Ground {
			m.MarkGround(ls.Name)
		}
	}
	return m
}

func applyTuning(t *physics.Tuning, spec *TuningSpec) {
	if spec == nil {
		return
	}
	if spec.MaxStepMs != nil {
		t.MaxStepMs = *spec.MaxStepMs
	}
	if spec.Iterations != nil {
		t.Iterations = *spec.Iterations
	}
	if spec.Slop != nil {
		t.Slop = *spec.Slop
	}
	if spec.CorrectionPercent != nil {
		t.CorrectionPercent = *spec.CorrectionPercent
	}
	if spec.FrictionScale != nil {
		t.FrictionScale = *spec.FrictionScale
	}
	if spec.AirDrag != nil {
		t.AirDrag = *spec.AirDrag
	}
	if spec.RestVelocity != nil {
		t.RestVelocity = *spec.RestVelocity
	}
	if spec.GroundNormalY != nil {
		t.GroundNormalY = *spec.GroundNormalY
	}
}

// AttachScripts re-binds collision scripts from the spec onto already-built
// objects, matched by declaration order. A body whose spec no longer names a
// script loses its handler. Used for script hot reload, where rebuilding the
// whole world would throw away positions and velocities.
func AttachScripts(spec *Spec, objects []*obj.Object) error {
	if spec == nil {
		return fmt.Errorf("scene: nil spec")
	}
	if len(objects) != len(spec.Bodies) {
		return fmt.Errorf("scene: %d objects for %d body specs", len(objects), len(spec.Bodies))
	}
	for i, bs := range spec.Bodies {
		o := objects[i]
		if bs.Script == "" {
			o.CollisionFunc = nil
			continue
		}
		if err := attachScript(o, bs.Script); err != nil {
			return fmt.Errorf("scene: body %d (%s): %w", i, bs.Name, err)
		}
	}
	return nil
}

func attachScript(o *obj.Object, name string) error {
	src, err := LoadScript(name)
	if err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	script, err := CompileCollisionScript(src)
	if err != nil {
		return err
	}
	o.CollisionFunc = func(other physics.Body, c physics.Collision) {
		if err := script.Run(o, other, c); err != nil {
			log.Printf("scene: %s: collision script: %v", o.Name(), err)
		}
	}
	return nil
}

func vec(v VecSpec) geom.Vector2D {
	return geom.Vec(v.X, v.Y)
}
