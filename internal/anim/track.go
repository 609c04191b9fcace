package anim

import (
	"github.com/san-kum/peeps/internal/rate"
)

// Stepper applies one pre-computed value per call.
type Stepper interface {
	// Len reports how many steps remain.
	Len() int
	// Step pops the next value and applies it. It returns ErrEmptySequence
	// once the stepper is exhausted.
	Step() error
}

// Track is one animated property. Init must not mutate any state; it only
// computes the values the returned Stepper will apply.
type Track interface {
	Init(t0, tf float64, e rate.Easing, fps int) (Stepper, error)
}

// TrackFunc adapts a function to [Track].
type TrackFunc func(t0, tf float64, e rate.Easing, fps int) (Stepper, error)

// Init implements [Track].
func (f TrackFunc) Init(t0, tf float64, e rate.Easing, fps int) (Stepper, error) {
	return f(t0, tf, e, fps)
}

// Apply pairs a sequence with the update that consumes its values.
func Apply[T any](seq *Sequence[T], update func(T) error) Stepper {
	return &applied[T]{seq: seq, update: update}
}

type applied[T any] struct {
	seq    *Sequence[T]
	update func(T) error
}

func (a *applied[T]) Len() int { return a.seq.Len() }

func (a *applied[T]) Step() error {
	v, err := a.seq.Pop()
	if err != nil {
		return err
	}
	return a.update(v)
}

// WithEasing pins a track to its own easing, ignoring the one the player
// passes, so several tracks can share a span with different rates.
func WithEasing(t Track, e rate.Easing) Track {
	return TrackFunc(func(t0, tf float64, _ rate.Easing, fps int) (Stepper, error) {
		return t.Init(t0, tf, e, fps)
	})
}

// Values is a Track whose per-tick values come from an eased sweep of
// [from, to]. It hands each tick's absolute value to update.
func Values(from, to float64, update func(float64) error) Track {
	return TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (Stepper, error) {
		n := rate.Frames(t0, tf, fps)
		if n == 0 {
			return Apply(NewSequence[float64](nil), update), nil
		}
		vals, err := rate.Interpolate(from, to, e, n)
		if err != nil {
			return nil, err
		}
		return Apply(NewSequence(vals[1:]), update), nil
	})
}

// Deltas is like [Values] but hands each tick the change since the last.
func Deltas(from, to float64, update func(float64) error) Track {
	return TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (Stepper, error) {
		n := rate.Frames(t0, tf, fps)
		if n == 0 {
			return Apply(NewSequence[float64](nil), update), nil
		}
		vals, err := rate.Interpolate(from, to, e, n)
		if err != nil {
			return nil, err
		}
		return Apply(NewSequence(rate.Diffs(vals)), update), nil
	})
}
