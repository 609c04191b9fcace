package dynamics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/peeps"
)

// Body is a point charge or point mass. A Body with zero mass cannot be
// accelerated.
type Body struct {
	Name     string     `json:"name" yaml:"name"`
	Position mgl64.Vec3 `json:"position" yaml:"position,flow"`
	Velocity mgl64.Vec3 `json:"velocity" yaml:"velocity,flow"`
	Mass     float64    `json:"mass" yaml:"mass"`
	Charge   float64    `json:"charge" yaml:"charge"`
	Radius   float64    `json:"radius" yaml:"radius"`
	Static   bool       `json:"static,omitempty" yaml:"static,omitempty"`
}

func (b Body) label(i int) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("body %d", i)
}

// Interaction is a pairwise inverse-square law.
type Interaction interface {
	Name() string
	// Force returns the force on a due to b.
	Force(a, b Body) (mgl64.Vec3, error)
	// Potential returns the pair's potential energy.
	Potential(a, b Body) (float64, error)
	// Check reports whether b carries the properties the law needs.
	Check(b Body) error
}

// Electric is Coulomb's law.
type Electric struct{}

// Gravitational is Newton's law of gravitation.
type Gravitational struct{}

func (Electric) Name() string      { return "electro" }
func (Gravitational) Name() string { return "gravity" }

func (Electric) Force(a, b Body) (mgl64.Vec3, error)      { return Coulomb(a, b) }
func (Gravitational) Force(a, b Body) (mgl64.Vec3, error) { return Gravity(a, b) }

func (Electric) Potential(a, b Body) (float64, error) {
	r, err := separation(a, b, "dynamics.Electric")
	if err != nil {
		return 0, err
	}
	return peeps.KCoulomb * a.Charge * b.Charge / r.Len(), nil
}

func (Gravitational) Potential(a, b Body) (float64, error) {
	r, err := separation(a, b, "dynamics.Gravitational")
	if err != nil {
		return 0, err
	}
	return -peeps.GConst * a.Mass * b.Mass / r.Len(), nil
}

func (Electric) Check(b Body) error {
	if b.Mass <= 0 {
		return peeps.Errorf("dynamics.Electric", peeps.ErrMissingCollaborator, "%s has no mass", b.Name)
	}
	if b.Charge == 0 {
		return peeps.Errorf("dynamics.Electric", peeps.ErrMissingCollaborator, "%s has no charge", b.Name)
	}
	return nil
}

func (Gravitational) Check(b Body) error {
	if b.Mass <= 0 {
		return peeps.Errorf("dynamics.Gravitational", peeps.ErrMissingCollaborator, "%s has no mass", b.Name)
	}
	return nil
}

// Lookup resolves an interaction by name.
func Lookup(name string) (Interaction, error) {
	switch name {
	case "electro", "electric", "coulomb":
		return Electric{}, nil
	case "gravity", "gravitational":
		return Gravitational{}, nil
	}
	return nil, peeps.Errorf("dynamics.Lookup", peeps.ErrInvalidParameter, "unknown interaction %q", name)
}

func separation(a, b Body, op string) (mgl64.Vec3, error) {
	r := b.Position.Sub(a.Position)
	if r.Len() == 0 {
		return r, peeps.Errorf(op, peeps.ErrInvalidParameter, "coincident bodies at %v", a.Position)
	}
	return r, nil
}

// Coulomb returns the electric force on a due to b: -k qa qb (rb-ra)/|r|^3.
// Like charges repel.
func Coulomb(a, b Body) (mgl64.Vec3, error) {
	r, err := separation(a, b, "dynamics.Coulomb")
	if err != nil {
		return r, err
	}
	d := r.Len()
	return r.Mul(-peeps.KCoulomb * a.Charge * b.Charge / (d * d * d)), nil
}

// Gravity returns the gravitational force on a due to b: G ma mb (rb-ra)/|r|^3.
func Gravity(a, b Body) (mgl64.Vec3, error) {
	r, err := separation(a, b, "dynamics.Gravity")
	if err != nil {
		return r, err
	}
	d := r.Len()
	return r.Mul(peeps.GConst * a.Mass * b.Mass / (d * d * d)), nil
}

// Forces returns the net force on every body. Large systems are evaluated
// in parallel; each body's sum only reads shared state.
func Forces(bodies []Body, in Interaction) ([]mgl64.Vec3, error) {
	forces := make([]mgl64.Vec3, len(bodies))
	errs := make([]error, len(bodies))

	peeps.ParallelFor(len(bodies), 32, func(start, end int) {
		for i := start; i < end; i++ {
			var total mgl64.Vec3
			for j := range bodies {
				if i == j {
					continue
				}
				f, err := in.Force(bodies[i], bodies[j])
				if err != nil {
					errs[i] = err
					break
				}
				total = total.Add(f)
			}
			forces[i] = total
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return forces, nil
}

// Accelerations divides each force by its body's mass.
func Accelerations(bodies []Body, forces []mgl64.Vec3) ([]mgl64.Vec3, error) {
	if len(forces) != len(bodies) {
		return nil, peeps.Errorf("dynamics.Accelerations", peeps.ErrInvalidParameter,
			"%d forces for %d bodies", len(forces), len(bodies))
	}
	acc := make([]mgl64.Vec3, len(bodies))
	for i, b := range bodies {
		if b.Mass <= 0 {
			return nil, peeps.Errorf("dynamics.Accelerations", peeps.ErrMissingCollaborator, "%s has no mass", b.label(i))
		}
		acc[i] = forces[i].Mul(1 / b.Mass)
	}
	return acc, nil
}

// Momentum returns the total linear momentum.
func Momentum(bodies []Body) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// AngularMomentum returns the total angular momentum about the origin.
func AngularMomentum(bodies []Body) mgl64.Vec3 {
	var l mgl64.Vec3
	for _, b := range bodies {
		l = l.Add(b.Position.Cross(b.Velocity.Mul(b.Mass)))
	}
	return l
}

// KineticEnergy returns the total kinetic energy.
func KineticEnergy(bodies []Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		v := b.Velocity.Len()
		ke += 0.5 * b.Mass * v * v
	}
	return ke
}

// PotentialEnergy sums the pair potential over every distinct pair.
func PotentialEnergy(bodies []Body, in Interaction) (float64, error) {
	pe := 0.0
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			u, err := in.Potential(bodies[i], bodies[j])
			if err != nil {
				return 0, err
			}
			pe += u
		}
	}
	return pe, nil
}

func maxLen(vs []mgl64.Vec3) float64 {
	m := 0.0
	for _, v := range vs {
		m = math.Max(m, v.Len())
	}
	return m
}
