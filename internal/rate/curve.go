package rate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/peeps/internal/peeps"
)

// Easing remaps a list of monotonic samples onto a shaped list of the same
// length and range.
type Easing interface {
	Remap(ts []float64) ([]float64, error)
}

// Curve holds the two inner control points of a cubic Bezier whose outer
// control points are fixed at (0, 0) and (1, 1).
type Curve struct {
	X1, Y1, X2, Y2 float64
}

// Standard easing curves.
var (
	Linear    = Curve{0, 0, 1, 1}
	Ease      = Curve{0.25, 0.1, 0.25, 1}
	EaseIn    = Curve{0.42, 0, 1, 1}
	EaseInOut = Curve{0.42, 0, 0.58, 1}
	EaseOut   = Curve{0, 0, 0.58, 1}

	// MakeLight and MakeDark shape fades out of and into black.
	MakeLight = Curve{1, 0, 1, 1}
	MakeDark  = Curve{0, 1, 1, 1}
)

var named = map[string]Curve{
	"linear":      Linear,
	"ease":        Ease,
	"ease_in":     EaseIn,
	"ease_in_out": EaseInOut,
	"ease_out":    EaseOut,
	"make_light":  MakeLight,
	"make_dark":   MakeDark,
}

// Lookup resolves a named curve such as "ease_in_out".
func Lookup(name string) (Curve, error) {
	c, ok := named[strings.ToLower(name)]
	if !ok {
		return Curve{}, peeps.Errorf("rate.Lookup", peeps.ErrInvalidParameter, "unknown curve %q (available: %v)", name, Names())
	}
	return c, nil
}

// Names lists the named curves in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remap implements [Easing].
func (c Curve) Remap(ts []float64) ([]float64, error) {
	return CubicBezier(ts, c)
}

// At returns the eased progress for a normalized time x in [0, 1].
func (c Curve) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return c.y(c.solve(x))
}

func (c Curve) String() string {
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", c.X1, c.Y1, c.X2, c.Y2)
}

func (c Curve) y(t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*c.Y1 + 3*mt*t*t*c.Y2 + t*t*t
}

func (c Curve) x(t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*t*c.X1 + 3*mt*t*t*c.X2 + t*t*t
}
