package physics

// Tuning holds the solver constants. Worlds start from DefaultTuning; hosts
// may override fields before the first Update.
type Tuning struct {
	// MaxStepMs caps a single tick's delta time. Larger frame deltas are
	// clamped, not sub-stepped; callers wanting sub-steps loop Update
	// themselves.
	MaxStepMs float64

	// Iterations is the number of full pairwise resolver passes per tick.
	// A pass that detects no overlap ends the loop early.
	Iterations int

	// Slop is the penetration depth left unresolved to avoid jitter from
	// subpixel overlaps.
	Slop float64

	// CorrectionPercent is the share of remaining penetration corrected per
	// resolver pass. Below 1 to avoid popping.
	CorrectionPercent float64

	// FrictionScale converts a body's friction coefficient into a ground
	// deceleration in units/s².
	FrictionScale float64

	// AirDrag is the per-second multiplicative decay applied to the
	// horizontal velocity of airborne bodies.
	AirDrag float64

	// RestVelocity is the speed below which a velocity component is snapped
	// to zero during cleanup. The vertical component is only snapped while
	// the body is grounded, so legitimate falling is never masked.
	RestVelocity float64

	// GroundNormalY is the minimum vertical normal component for a contact
	// to count as ground support.
	GroundNormalY float64
}

func DefaultTuning() Tuning {
	return Tuning{
		MaxStepMs:         20,
		Iterations:        4,
		Slop:              0.01,
		CorrectionPercent: 0.8,
		FrictionScale:     2000,
		AirDrag:           1.5,
		RestVelocity:      0.5,
		GroundNormalY:     0.5,
	}
}
