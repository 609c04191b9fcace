package rate

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/peeps/internal/peeps"
)

const (
	rootEps = 1e-6
	realTol = 1e-9
	zeroTol = 1e-12
)

// CubicBezier remaps ts through the curve's Y(X) relationship. The samples
// are normalized to [0, 1] using the first and last values, each is solved
// for the Bezier parameter, evaluated on the Y component and mapped back.
//
// A degenerate input whose first and last samples are equal is returned
// unchanged.
func CubicBezier(ts []float64, c Curve) ([]float64, error) {
	if len(ts) == 0 {
		return nil, peeps.Errorf("rate.CubicBezier", peeps.ErrInvalidParameter, "no samples")
	}

	out := make([]float64, len(ts))
	first, last := ts[0], ts[len(ts)-1]
	if first == last {
		copy(out, ts)
		return out, nil
	}

	span := last - first
	for i, ti := range ts {
		x := (ti - first) / span
		out[i] = c.At(x)*span + first
	}
	return out, nil
}

// solve finds the Bezier parameter t whose X component equals x:
// (1+3x1-3x2)t^3 + (-6x1+3x2)t^2 + 3x1 t - x = 0.
func (c Curve) solve(x float64) float64 {
	a := 1 + 3*c.X1 - 3*c.X2
	b := -6*c.X1 + 3*c.X2
	d := 3 * c.X1

	roots := cubicRoots(a, b, d, -x)

	best, found := 0.0, false
	minImag := math.MaxFloat64
	for _, r := range roots {
		re, im := real(r), math.Abs(imag(r))
		if re < -rootEps || re > 1+rootEps {
			continue
		}
		if im <= realTol*math.Max(1, math.Abs(re)) {
			return c.polish(re, x)
		}
		// roundoff can push a double root off the real axis
		if im < minImag {
			minImag = im
			best = re
			found = true
		}
	}
	if found {
		return c.polish(best, x)
	}
	return math.Max(0, math.Min(1, x))
}

// polish refines t with a few Newton steps on X(t) - x, keeping the
// result inside the unit interval.
func (c Curve) polish(t, x float64) float64 {
	for i := 0; i < 3; i++ {
		mt := 1 - t
		dx := 3*mt*mt*c.X1 + 6*mt*t*(c.X2-c.X1) + 3*t*t*(1-c.X2)
		if math.Abs(dx) < zeroTol {
			break
		}
		next := t - (c.x(t)-x)/dx
		if next < -rootEps || next > 1+rootEps || math.IsNaN(next) {
			break
		}
		t = next
	}
	return math.Max(0, math.Min(1, t))
}

// cubicRoots returns every root of a t^3 + b t^2 + c t + d, including
// complex ones, degrading to the quadratic and linear forms when the
// leading coefficients vanish. The complex roots are kept so that
// CubicBezier can fall back to the least-imaginary one when rounding
// pushes a double root off the real line; curve.SolveCubic would
// drop them.
func cubicRoots(a, b, c, d float64) []complex128 {
	if math.Abs(a) < zeroTol {
		if math.Abs(b) < zeroTol {
			if math.Abs(c) < zeroTol {
				return nil
			}
			return []complex128{complex(-d/c, 0)}
		}
		s := cmplx.Sqrt(complex(c*c-4*b*d, 0))
		return []complex128{
			(complex(-c, 0) + s) / complex(2*b, 0),
			(complex(-c, 0) - s) / complex(2*b, 0),
		}
	}

	// depressed cubic u^3 + p u + q with t = u - b/(3a)
	p := (3*a*c - b*b) / (3 * a * a)
	q := (2*b*b*b - 9*a*b*c + 27*a*a*d) / (27 * a * a * a)
	shift := complex(-b/(3*a), 0)

	disc := cmplx.Sqrt(complex(q*q/4+p*p*p/27, 0))
	cc := cbrt(complex(-q/2, 0) + disc)
	if cmplx.Abs(cc) < zeroTol {
		cc = cbrt(complex(-q/2, 0) - disc)
	}
	if cmplx.Abs(cc) < zeroTol {
		return []complex128{shift, shift, shift}
	}

	omega := cmplx.Exp(complex(0, 2*math.Pi/3))
	roots := make([]complex128, 3)
	k := cc
	for i := range roots {
		roots[i] = k - complex(p/3, 0)/k + shift
		k *= omega
	}
	return roots
}

func cbrt(z complex128) complex128 {
	if z == 0 {
		return 0
	}
	return cmplx.Pow(z, 1.0/3)
}
