package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/peeps/internal/anim"
	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

// Path maps an eased time to a point.
type Path func(t float64) mgl64.Vec3

func ticks(t0, tf float64, e rate.Easing, fps int) ([]float64, error) {
	ts, err := rate.ForTime(t0, tf, e, fps)
	if err != nil {
		return nil, err
	}
	return ts[1:], nil
}

// componentDiffs eases each component of d from zero over n ticks and
// returns the per-tick deltas.
func componentDiffs(d mgl64.Vec3, e rate.Easing, n int) ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, n)
	if n == 0 {
		return out, nil
	}
	for k := 0; k < 3; k++ {
		vals, err := rate.Interpolate(0, d[k], e, n)
		if err != nil {
			return nil, err
		}
		for i, dv := range rate.Diffs(vals) {
			out[i][k] = dv
		}
	}
	return out, nil
}

// ShiftTrack moves the object by d, one eased delta per tick.
func (o *Object) ShiftTrack(d mgl64.Vec3) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		ts, err := ticks(t0, tf, e, fps)
		if err != nil {
			return nil, err
		}
		deltas, err := componentDiffs(d, e, len(ts))
		if err != nil {
			return nil, err
		}
		return anim.Apply(anim.NewSequence(deltas), func(v mgl64.Vec3) error {
			o.Shift(v)
			return nil
		}), nil
	})
}

// ShiftPathTrack moves the object along path, evaluated at each eased tick
// time. The path yields absolute positions.
func (o *Object) ShiftPathTrack(path Path) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		if path == nil {
			return nil, peeps.Errorf("scene.ShiftPathTrack", peeps.ErrMissingCollaborator, "no path")
		}
		ts, err := ticks(t0, tf, e, fps)
		if err != nil {
			return nil, err
		}
		pts := make([]mgl64.Vec3, len(ts))
		for i, t := range ts {
			pts[i] = path(t)
		}
		return anim.Apply(anim.NewSequence(pts), func(p mgl64.Vec3) error {
			o.MoveTo(p)
			return nil
		}), nil
	})
}

// RotateTrack turns the object about axis by angle in eased increments.
func (o *Object) RotateTrack(axis mgl64.Vec3, angle float64, degrees bool) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		if axis.Len() == 0 {
			return nil, peeps.Errorf("scene.RotateTrack", peeps.ErrDegenerateVector, "rotation axis is zero")
		}
		ts, err := ticks(t0, tf, e, fps)
		if err != nil {
			return nil, err
		}
		var diffs []float64
		if len(ts) > 0 {
			vals, err := rate.Interpolate(0, angle, e, len(ts))
			if err != nil {
				return nil, err
			}
			diffs = rate.Diffs(vals)
		}
		return anim.Apply(anim.NewSequence(diffs), func(da float64) error {
			return o.Rotate(axis, da, degrees)
		}), nil
	})
}

// TransformTrack swings the normal toward n along a straight line between
// the two normals, sampled at each eased tick time.
func (o *Object) TransformTrack(n mgl64.Vec3) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		if n.Len() == 0 {
			return nil, peeps.Errorf("scene.TransformTrack", peeps.ErrDegenerateVector, "new normal is zero")
		}
		from := o.Normal
		span := tf - t0
		path := func(t float64) mgl64.Vec3 {
			if span == 0 {
				return n
			}
			return from.Add(n.Sub(from).Mul((t - t0) / span))
		}
		return o.transformAlong(t0, tf, e, fps, path)
	})
}

// TransformPathTrack re-orients the object onto the normals path yields at
// each eased tick time.
func (o *Object) TransformPathTrack(path Path) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		if path == nil {
			return nil, peeps.Errorf("scene.TransformPathTrack", peeps.ErrMissingCollaborator, "no path")
		}
		return o.transformAlong(t0, tf, e, fps, path)
	})
}

func (o *Object) transformAlong(t0, tf float64, e rate.Easing, fps int, path Path) (anim.Stepper, error) {
	ts, err := ticks(t0, tf, e, fps)
	if err != nil {
		return nil, err
	}
	normals := make([]mgl64.Vec3, len(ts))
	for i, t := range ts {
		normals[i] = path(t)
	}
	return anim.Apply(anim.NewSequence(normals), o.Transform), nil
}

// ColorTrack fades the object's current color into c.
func (o *Object) ColorTrack(c colorful.Color) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		stops, err := rate.Colors(t0, tf, o.Color, c, e, fps)
		if err != nil {
			return nil, err
		}
		cols := make([]colorful.Color, len(stops))
		for i, s := range stops {
			cols[i] = s.Color
		}
		return anim.Apply(anim.NewSequence(cols), func(c colorful.Color) error {
			o.SetColor(c)
			return nil
		}), nil
	})
}

// FadeTrack fades the object into its opposite color: black objects fade
// in to white, everything else fades out to black.
func (o *Object) FadeTrack() anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		return o.ColorTrack(o.Opposite()).Init(t0, tf, e, fps)
	})
}

// FadeShiftTrack fades into c while shifting by d.
func (o *Object) FadeShiftTrack(c colorful.Color, d mgl64.Vec3) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		color, err := o.ColorTrack(c).Init(t0, tf, e, fps)
		if err != nil {
			return nil, err
		}
		shift, err := o.ShiftTrack(d).Init(t0, tf, e, fps)
		if err != nil {
			return nil, err
		}
		return multi{color, shift}, nil
	})
}

// AlphaTrack eases the object's transparency from its current value to a.
func (o *Object) AlphaTrack(a float64) anim.Track {
	return anim.TrackFunc(func(t0, tf float64, e rate.Easing, fps int) (anim.Stepper, error) {
		if a < 0 || a > 1 {
			return nil, peeps.Errorf("scene.AlphaTrack", peeps.ErrInvalidParameter, "alpha %g outside [0, 1]", a)
		}
		return anim.Values(o.Alpha, a, o.SetAlpha).Init(t0, tf, e, fps)
	})
}

// Each builds the same kind of track for every object, for animating a
// group with one call.
func Each(objs []*Object, fn func(*Object) anim.Track) []anim.Track {
	out := make([]anim.Track, len(objs))
	for i, o := range objs {
		out[i] = fn(o)
	}
	return out
}

// multi steps several steppers of equal length in lockstep.
type multi []anim.Stepper

func (m multi) Len() int {
	n := 0
	for _, s := range m {
		n = max(n, s.Len())
	}
	return n
}

func (m multi) Step() error {
	for _, s := range m {
		if s.Len() == 0 {
			continue
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}
