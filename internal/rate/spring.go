package rate

import (
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/peeps/internal/peeps"
)

// Spring eases by simulating a damped spring pulled from 0 toward 1, one
// spring update per sample. Under-damped springs overshoot. The final
// sample always lands on the target so endpoints are preserved.
type Spring struct {
	FPS       int
	Frequency float64
	Damping   float64
}

// NewSpring returns a critically damped spring at the given tick rate.
func NewSpring(fps int) Spring {
	return Spring{FPS: fps, Frequency: 6.0, Damping: 1.0}
}

// Remap implements [Easing].
func (s Spring) Remap(ts []float64) ([]float64, error) {
	if len(ts) == 0 {
		return nil, peeps.Errorf("rate.Spring", peeps.ErrInvalidParameter, "no samples")
	}
	if s.FPS <= 0 {
		return nil, peeps.Errorf("rate.Spring", peeps.ErrInvalidParameter, "fps must be positive, got %d", s.FPS)
	}

	out := make([]float64, len(ts))
	first, last := ts[0], ts[len(ts)-1]
	if first == last {
		copy(out, ts)
		return out, nil
	}

	spring := harmonica.NewSpring(harmonica.FPS(s.FPS), s.Frequency, s.Damping)
	pos, vel := 0.0, 0.0
	span := last - first
	out[0] = first
	for i := 1; i < len(ts); i++ {
		pos, vel = spring.Update(pos, vel, 1.0)
		out[i] = first + pos*span
	}
	out[len(out)-1] = last
	return out, nil
}
