package rate

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/peeps/internal/peeps"
)

// Black is the color that switches fades onto MakeLight and MakeDark.
var Black = colorful.Color{R: 0, G: 0, B: 0}

// ColorStop is the color reached at time T.
type ColorStop struct {
	T     float64
	Color colorful.Color
}

// Colors interpolates from one color to another over [t0, tf], producing one
// stop per tick. The initial color is not included. Fading out of black uses
// MakeLight and fading into black uses MakeDark regardless of e.
func Colors(t0, tf float64, from, to colorful.Color, e Easing, fps int) ([]ColorStop, error) {
	if from == Black {
		e = MakeLight
	} else if to == Black {
		e = MakeDark
	}

	ts, err := ForTime(t0, tf, e, fps)
	if err != nil {
		return nil, err
	}
	ts = ts[1:]
	if len(ts) == 0 {
		return nil, nil
	}

	channel := func(a, b float64) ([]float64, error) {
		vals, err := Interpolate(a, b, e, len(ts))
		if err != nil {
			return nil, err
		}
		return vals[1:], nil
	}

	rs, err := channel(from.R, to.R)
	if err != nil {
		return nil, err
	}
	gs, err := channel(from.G, to.G)
	if err != nil {
		return nil, err
	}
	bs, err := channel(from.B, to.B)
	if err != nil {
		return nil, err
	}

	stops := make([]ColorStop, len(ts))
	for i := range ts {
		stops[i] = ColorStop{T: ts[i], Color: colorful.Color{R: rs[i], G: gs[i], B: bs[i]}}
	}
	return stops, nil
}

// ParseColor accepts "#rrggbb" hex strings.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, peeps.Errorf("rate.ParseColor", peeps.ErrInvalidParameter, "%v", err)
	}
	return c, nil
}
