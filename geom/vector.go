package geom

import (
	"math"

	"github.com/milk9111/rigid2d/common"
)

// Vector2D is a 2D vector with value semantics. Operations return new
// vectors and never mutate the receiver.
type Vector2D struct {
	X, Y float64
}

func Vec(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar cross product (z component of the 3D cross).
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2D) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns the unit vector in v's direction. A zero-length vector
// normalizes to the zero vector, never NaN.
func (v Vector2D) Normalized() Vector2D {
	length := v.Length()
	if length <= 0 {
		return Vector2D{}
	}
	return Vector2D{X: v.X / length, Y: v.Y / length}
}

// Rotate rotates v by angle radians counter-clockwise.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Lerp interpolates from v toward other. t is clamped to [0, 1]; Lerp never
// extrapolates.
func (v Vector2D) Lerp(other Vector2D, t float64) Vector2D {
	t = common.Clamp(t, 0, 1)
	return Vector2D{
		X: common.Lerp(v.X, other.X, t),
		Y: common.Lerp(v.Y, other.Y, t),
	}
}

func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
