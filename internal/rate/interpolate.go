package rate

import (
	"math"

	"github.com/san-kum/peeps/internal/peeps"
)

// Frames returns the number of discrete ticks between t0 and tf at fps.
func Frames(t0, tf float64, fps int) int {
	return int(math.Round((tf - t0) * float64(fps)))
}

// Linspace returns n evenly spaced samples from xi to xf inclusive.
func Linspace(xi, xf float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = xi
		return out
	}
	step := (xf - xi) / float64(n-1)
	for i := range out {
		out[i] = xi + float64(i)*step
	}
	out[n-1] = xf
	return out
}

// Interpolate returns intervals+1 samples from xi to xf shaped by e.
func Interpolate(xi, xf float64, e Easing, intervals int) ([]float64, error) {
	if intervals < 1 {
		return nil, peeps.Errorf("rate.Interpolate", peeps.ErrInvalidParameter, "intervals %d is less than 1", intervals)
	}
	if xi == xf {
		out := make([]float64, intervals+1)
		for i := range out {
			out[i] = xi
		}
		return out, nil
	}
	return e.Remap(Linspace(xi, xf, intervals+1))
}

// ForTime samples [t0, tf] once per tick at fps, shaped by e. The result has
// Frames(t0, tf, fps)+1 entries; a zero-length span yields just t0.
func ForTime(t0, tf float64, e Easing, fps int) ([]float64, error) {
	if fps <= 0 {
		return nil, peeps.Errorf("rate.ForTime", peeps.ErrInvalidParameter, "fps must be positive, got %d", fps)
	}
	n := Frames(t0, tf, fps)
	if n < 0 {
		return nil, peeps.Errorf("rate.ForTime", peeps.ErrInvalidParameter, "tf %g precedes t0 %g", tf, t0)
	}
	if n == 0 {
		return []float64{t0}, nil
	}
	return Interpolate(t0, tf, e, n)
}

// Diffs returns the successive differences of xs.
func Diffs(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

// Sine samples a*sin(2*pi*t/period) once per tick for runtime seconds.
// A runtime of zero or less defaults to one period.
func Sine(a, period, runtime float64, fps int) ([]float64, error) {
	return oscillate(math.Sin, a, period, runtime, fps)
}

// Cosine samples a*cos(2*pi*t/period) once per tick for runtime seconds.
func Cosine(a, period, runtime float64, fps int) ([]float64, error) {
	return oscillate(math.Cos, a, period, runtime, fps)
}

func oscillate(fn func(float64) float64, a, period, runtime float64, fps int) ([]float64, error) {
	if period <= 0 {
		return nil, peeps.Errorf("rate.oscillate", peeps.ErrInvalidParameter, "period must be positive, got %g", period)
	}
	if runtime <= 0 {
		runtime = period
	} else if runtime < 1 {
		return nil, peeps.Errorf("rate.oscillate", peeps.ErrInvalidParameter, "runtime %g is less than 1", runtime)
	}
	n := int(runtime * float64(fps))
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(fps)
		out[i] = a * fn(2*math.Pi*t/period)
	}
	return out, nil
}

// LerpConstants returns (a, b) such that f(x) = a*x + b passes through p1
// and p2.
func LerpConstants(p1, p2 [2]float64) (float64, float64, error) {
	x1, y1 := p1[0], p1[1]
	x2, y2 := p2[0], p2[1]
	if x1 == x2 {
		return 0, 0, peeps.Errorf("rate.LerpConstants", peeps.ErrInvalidParameter, "x1 equals x2, the line is vertical")
	}
	a := (y2 - y1) / (x2 - x1)
	b := (x2*y1 - x1*y2) / (x2 - x1)
	return a, b, nil
}
