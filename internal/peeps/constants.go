package peeps

import "math"

// FrameRate is the fixed tick rate of every animation, in ticks per second.
const FrameRate = 60

// Dt is the duration of one tick.
const Dt = 1.0 / FrameRate

// Physical constants in SI units.
const (
	GAccel       = 9.8                // m/s^2
	GConst       = 6.67428e-11        // m^3/(kg*s^2)
	MuKnot       = 4 * math.Pi * 1e-7 // T*m/A
	LightSpeed   = 2.99792458e8       // m/s
	KCoulomb     = 8.987551788e9      // N*m^2/C^2
	MassProton   = 1.672621637e-27    // kg
	MassNeutron  = 1.674927211e-27    // kg
	MassElectron = 9.10938215e-31     // kg
	ElemCharge   = 1.602176487e-19    // C
	EpsKnot      = 1 / (MuKnot * LightSpeed * LightSpeed)
)

// GoldenRatio and GoldenAngle are used to spread seeds evenly around a circle.
var (
	GoldenRatio = (math.Sqrt(5) + 1) / 2
	GoldenAngle = (2 - GoldenRatio) * 2 * math.Pi
)
