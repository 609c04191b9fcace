package dynamics

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

// Field returns the electric field at p: the sum of k q r_hat / |r|^2 with r
// pointing from each charge to p. A point on a charge's position
// contributes nothing from that charge.
func Field(bodies []Body, p mgl64.Vec3) mgl64.Vec3 {
	var e mgl64.Vec3
	for _, q := range bodies {
		r := p.Sub(q.Position)
		d2 := r.Dot(r)
		if d2 == 0 {
			continue
		}
		e = e.Add(r.Mul(peeps.KCoulomb * q.Charge / (d2 * math.Sqrt(d2))))
	}
	return e
}

// Stop is why a field line ended.
type Stop int

const (
	// StopLength means the line reached its length budget and may grow.
	StopLength Stop = iota
	StopBox
	StopCharge
	StopTurn
	StopSink
)

func (s Stop) String() string {
	switch s {
	case StopLength:
		return "length"
	case StopBox:
		return "box"
	case StopCharge:
		return "charge"
	case StopTurn:
		return "turn"
	case StopSink:
		return "sink"
	}
	return "unknown"
}

// FieldLine is one traced line. Points run in field direction, from a
// positive charge toward a negative one.
type FieldLine struct {
	Source int
	Points []mgl64.Vec3
	Length float64
	Stop   Stop

	prevDir mgl64.Vec3
	hasPrev bool
}

// Done reports whether the line can no longer grow.
func (l *FieldLine) Done() bool { return l.Stop != StopLength }

type FieldLineSet struct {
	Lines     []FieldLine
	MaxLength float64
}

// Box is an axis-aligned rectangle in the xy plane.
type Box struct {
	Min mgl64.Vec2 `json:"min" yaml:"min,flow"`
	Max mgl64.Vec2 `json:"max" yaml:"max,flow"`
}

type FieldLineOptions struct {
	// Lengths is the max length per charge. Missing entries repeat the last.
	Lengths   []float64 `json:"lengths" yaml:"lengths,flow"`
	NumFactor int       `json:"num_factor" yaml:"num_factor"`
	Step      float64   `json:"ds" yaml:"ds"`
	Box       Box       `json:"box" yaml:"box"`
	Margin    float64   `json:"margin" yaml:"margin"`
	// MaxTurn is the largest direction change, in radians, between steps.
	MaxTurn float64 `json:"max_turn" yaml:"max_turn"`
	// Previous resumes an earlier trace of the same charges.
	Previous *FieldLineSet `json:"-" yaml:"-"`
}

func DefaultFieldLineOptions() FieldLineOptions {
	return FieldLineOptions{
		Lengths:   []float64{100},
		NumFactor: 4,
		Step:      0.1,
		Box:       Box{Min: mgl64.Vec2{-21.5, -12}, Max: mgl64.Vec2{21.5, 12}},
		Margin:    0.5,
		MaxTurn:   1,
	}
}

type seed struct {
	source int
	start  mgl64.Vec3
	length float64
}

func seeds(bodies []Body, opts FieldLineOptions) ([]seed, error) {
	minQ := 0.0
	for _, b := range bodies {
		q := math.Abs(b.Charge)
		if q > 0 && (minQ == 0 || q < minQ) {
			minQ = q
		}
	}
	if minQ == 0 {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrMissingCollaborator, "no charged bodies")
	}

	factor := max(opts.NumFactor, 1)
	var out []seed
	for i, b := range bodies {
		if b.Charge == 0 {
			continue
		}
		length := opts.Lengths[len(opts.Lengths)-1]
		if i < len(opts.Lengths) {
			length = opts.Lengths[i]
		}
		n := max(int(math.Round(math.Abs(b.Charge)/minQ*float64(factor))), 1)
		angles, err := rate.Interpolate(0, 2*math.Pi, rate.Linear, n)
		if err != nil {
			return nil, err
		}
		angles = angles[:len(angles)-1]

		r := b.Radius
		if b.Charge < 0 {
			r += opts.Margin
		}
		for _, a := range angles {
			out = append(out, seed{
				source: i,
				start:  b.Position.Add(mgl64.Vec3{r * math.Cos(a), r * math.Sin(a), 0}),
				length: length,
			})
		}
	}
	return out, nil
}

// TraceFieldLines traces 2D field lines from every charge. Each charge
// seeds round(|q|/min|q| * NumFactor) lines evenly spaced around its
// surface. With opts.Previous set, every line resumes where that trace left
// it, so a caller can grow lines incrementally by raising Lengths.
func TraceFieldLines(ctx context.Context, bodies []Body, opts FieldLineOptions) (*FieldLineSet, error) {
	if len(bodies) == 0 {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrMissingCollaborator, "no charges")
	}
	if opts.Step <= 0 {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrInvalidParameter, "step must be positive, got %g", opts.Step)
	}
	if len(opts.Lengths) == 0 {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrInvalidParameter, "no line lengths")
	}
	if opts.MaxTurn <= 0 {
		opts.MaxTurn = 1
	}
	box := Box{
		Min: opts.Box.Min.Add(mgl64.Vec2{opts.Margin, opts.Margin}),
		Max: opts.Box.Max.Sub(mgl64.Vec2{opts.Margin, opts.Margin}),
	}
	if box.Min[0] >= box.Max[0] || box.Min[1] >= box.Max[1] {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrInvalidParameter, "bounding box is empty after margin")
	}

	ss, err := seeds(bodies, opts)
	if err != nil {
		return nil, err
	}
	if prev := opts.Previous; prev != nil && len(prev.Lines) != len(ss) {
		return nil, peeps.Errorf("dynamics.TraceFieldLines", peeps.ErrInvalidParameter,
			"previous trace has %d lines, charges seed %d", len(prev.Lines), len(ss))
	}

	set := &FieldLineSet{Lines: make([]FieldLine, len(ss))}
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range ss {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var line FieldLine
			if opts.Previous != nil {
				line = opts.Previous.Lines[i].clone()
			} else {
				line = FieldLine{Source: s.source, Points: []mgl64.Vec3{s.start}}
			}
			trace(&line, bodies, box, s.length, opts)
			set.Lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, l := range set.Lines {
		set.MaxLength = math.Max(set.MaxLength, l.Length)
	}
	return set, nil
}

func (l FieldLine) clone() FieldLine {
	pts := make([]mgl64.Vec3, len(l.Points))
	copy(pts, l.Points)
	l.Points = pts
	return l
}

func inside(b Box, p mgl64.Vec3) bool {
	return p[0] > b.Min[0] && p[0] < b.Max[0] && p[1] > b.Min[1] && p[1] < b.Max[1]
}

// trace extends line until a stop condition or maxLength.
func trace(line *FieldLine, bodies []Body, box Box, maxLength float64, opts FieldLineOptions) {
	if line.Done() {
		return
	}
	// lines from negative charges grow from their first point
	negative := bodies[line.Source].Charge < 0
	if negative {
		reverse(line.Points)
	}
	defer func() {
		if negative {
			reverse(line.Points)
		}
	}()

	sign := 1.0
	if negative {
		sign = -1
	}

	for {
		tip := line.Points[len(line.Points)-1]
		if !inside(box, tip) {
			line.Stop = StopBox
			return
		}

		e := Field(bodies, tip)
		if e.Len() == 0 {
			line.Stop = StopSink
			return
		}
		dir := e.Normalize()

		for _, q := range bodies {
			if q.Charge == 0 {
				continue
			}
			check := q.Radius
			if q.Charge < 0 {
				check += opts.Margin
			}
			if tip.Sub(q.Position).Len() <= check && line.Length > check {
				line.Stop = StopCharge
				return
			}
		}

		if !line.hasPrev {
			line.prevDir, line.hasPrev = dir, true
		}
		turn := math.Acos(mgl64.Clamp(dir.Dot(line.prevDir), -1, 1))
		if turn > opts.MaxTurn {
			line.Stop = StopTurn
			return
		}
		line.prevDir = dir

		line.Points = append(line.Points, tip.Add(dir.Mul(sign*opts.Step)))
		line.Length += opts.Step
		if line.Length > maxLength {
			line.Stop = StopLength
			return
		}
	}
}

func reverse(pts []mgl64.Vec3) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// GrowFieldLines traces lines in increments of dLength, calling fn after
// each increment, until the longest line stops growing.
func GrowFieldLines(ctx context.Context, bodies []Body, opts FieldLineOptions, dLength float64, fn func(*FieldLineSet) error) (*FieldLineSet, error) {
	if dLength <= 0 {
		return nil, peeps.Errorf("dynamics.GrowFieldLines", peeps.ErrInvalidParameter, "length increment must be positive, got %g", dLength)
	}

	running := dLength
	var set *FieldLineSet
	oldLength, newLength := -1.0, 0.0
	for oldLength != newLength {
		oldLength = newLength
		o := opts
		o.Lengths = []float64{running}
		o.Previous = set

		next, err := TraceFieldLines(ctx, bodies, o)
		if err != nil {
			return set, err
		}
		set = next
		newLength = set.MaxLength
		if fn != nil {
			if err := fn(set); err != nil {
				return set, err
			}
		}
		running += dLength
	}
	return set, nil
}
