package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

// White is the default object color and the opposite of black.
var White = colorful.Color{R: 1, G: 1, B: 1}

// Object is the cached state of one animated thing.
type Object struct {
	ID          int
	Name        string
	Origin      mgl64.Vec3
	Normal      mgl64.Vec3
	Orientation mgl64.Quat
	Color       colorful.Color
	Alpha       float64
	Radius      float64
}

// Shift translates the object by d.
func (o *Object) Shift(d mgl64.Vec3) {
	o.Origin = o.Origin.Add(d)
}

// MoveTo places the object at p.
func (o *Object) MoveTo(p mgl64.Vec3) {
	o.Origin = p
}

// Rotate turns the object about axis by angle, in radians unless degrees is
// set. The normal rotates with it.
func (o *Object) Rotate(axis mgl64.Vec3, angle float64, degrees bool) error {
	if axis.Len() == 0 {
		return peeps.Errorf("scene.Rotate", peeps.ErrDegenerateVector, "rotation axis is zero")
	}
	if degrees {
		angle = mgl64.DegToRad(angle)
	}
	q := mgl64.QuatRotate(angle, axis.Normalize())
	if q.Len() == 0 {
		return peeps.Errorf("scene.Rotate", peeps.ErrDegenerateVector, "indeterminate quaternion")
	}
	q = q.Normalize()
	o.Orientation = q.Mul(o.Orientation)
	o.Normal = q.Rotate(o.Normal)
	return nil
}

// Transform re-orients the object so its normal points along n.
func (o *Object) Transform(n mgl64.Vec3) error {
	if n.Len() == 0 {
		return peeps.Errorf("scene.Transform", peeps.ErrDegenerateVector, "new normal is zero")
	}
	q, err := Between(o.Normal, n)
	if err != nil {
		return err
	}
	o.Orientation = q.Mul(o.Orientation)
	o.Normal = n
	return nil
}

// SetColor sets the object's color.
func (o *Object) SetColor(c colorful.Color) {
	o.Color = c
}

// SetAlpha sets transparency, 0 invisible to 1 opaque.
func (o *Object) SetAlpha(a float64) error {
	if a < 0 || a > 1 || math.IsNaN(a) {
		return peeps.Errorf("scene.SetAlpha", peeps.ErrInvalidParameter, "alpha %g outside [0, 1]", a)
	}
	o.Alpha = a
	return nil
}

// Opposite returns white for a black object and black otherwise.
func (o *Object) Opposite() colorful.Color {
	if o.Color == rate.Black {
		return White
	}
	return rate.Black
}

// Between returns the unit quaternion rotating the direction of a onto b.
// Antiparallel or zero vectors have no unique rotation and are rejected.
func Between(a, b mgl64.Vec3) (mgl64.Quat, error) {
	q := mgl64.Quat{W: a.Len()*b.Len() + a.Dot(b), V: a.Cross(b)}
	if q.Len() < 1e-12 {
		return mgl64.Quat{}, peeps.Errorf("scene.Between", peeps.ErrDegenerateVector,
			"indeterminate rotation from %v to %v, interpolate through another orientation", a, b)
	}
	return q.Normalize(), nil
}
