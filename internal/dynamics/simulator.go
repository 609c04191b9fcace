package dynamics

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/anim"
	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

// Sphere confines bodies to a ball around Center.
type Sphere struct {
	Center mgl64.Vec3 `json:"center" yaml:"center,flow"`
	Radius float64    `json:"radius" yaml:"radius"`
}

// constrain adjusts a displacement that would leave the sphere: first to its
// component tangent to the surface, then, if that still escapes, onto the
// surface itself.
func (s *Sphere) constrain(pos, dx mgl64.Vec3, allowZ bool) mgl64.Vec3 {
	radial := pos.Add(dx).Sub(s.Center)
	if radial.Len() <= s.Radius {
		return dx
	}

	u := radial.Normalize()
	dx = dx.Sub(u.Mul(dx.Dot(u)))
	if !allowZ {
		dx[2] = 0
	}

	radial = pos.Add(dx).Sub(s.Center)
	if radial.Len() > s.Radius {
		target := s.Center.Add(radial.Normalize().Mul(s.Radius))
		dx = target.Sub(pos)
		if !allowZ {
			dx[2] = 0
		}
	}
	return dx
}

type Config struct {
	FPS      int     `json:"fps" yaml:"fps"`
	Steps    int     `json:"steps" yaml:"steps"`
	Start    float64 `json:"start" yaml:"start"`
	Duration float64 `json:"duration" yaml:"duration"`

	// InitialMovement is how far, in units per second squared, the most
	// accelerated body should initially move.
	InitialMovement float64 `json:"initial_movement" yaml:"initial_movement"`
	// InitialForceVisual is the drawn length of the largest initial force.
	InitialForceVisual float64 `json:"initial_force_visual" yaml:"initial_force_visual"`
	// AccelScale overrides the derived acceleration scale when positive.
	AccelScale float64 `json:"accel_scale,omitempty" yaml:"accel_scale,omitempty"`

	AllowZ     bool    `json:"allow_z" yaml:"allow_z"`
	Constraint *Sphere `json:"constraint,omitempty" yaml:"constraint,omitempty"`

	// Segment splits long captures into sessions of this many seconds.
	Segment float64 `json:"segment,omitempty" yaml:"segment,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		FPS:                peeps.FrameRate,
		Steps:              1,
		Duration:           2,
		InitialMovement:    5,
		InitialForceVisual: 5,
	}
}

// Frame is the system state after one tick.
type Frame struct {
	Time       float64
	Positions  []mgl64.Vec3
	Velocities []mgl64.Vec3
	// Forces are scaled to their drawn lengths.
	Forces    []mgl64.Vec3
	Momentum  mgl64.Vec3
	Kinetic   float64
	Potential float64
}

type Result struct {
	Interaction string
	Frames      []Frame
	Bodies      []Body
	ForceScale  float64
	AccelScale  float64
	EnergyDrift float64
}

// Observer sees every recorded frame. Returning an error aborts the run.
type Observer interface {
	OnTick(tick int, f Frame) error
}

// ObserverFunc adapts a function to [Observer].
type ObserverFunc func(tick int, f Frame) error

func (fn ObserverFunc) OnTick(tick int, f Frame) error { return fn(tick, f) }

type Simulator struct {
	Interaction Interaction
	Config      Config
	// Capture, if set, takes a still after every tick.
	Capture   anim.Capturer
	Logger    *slog.Logger
	observers []Observer
}

func New(in Interaction, cfg Config) *Simulator {
	return &Simulator{Interaction: in, Config: cfg, Logger: slog.Default()}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) validate(bodies []Body) error {
	cfg := s.Config
	if s.Interaction == nil {
		return peeps.Errorf("dynamics.Run", peeps.ErrMissingCollaborator, "no interaction")
	}
	if len(bodies) < 2 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "no dynamics to simulate with %d bodies", len(bodies))
	}
	if cfg.InitialForceVisual <= 0 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "initial force visual must be positive, got %g", cfg.InitialForceVisual)
	}
	if cfg.InitialMovement <= 0 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "initial movement must be positive, got %g", cfg.InitialMovement)
	}
	if cfg.FPS <= 0 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "fps must be positive, got %d", cfg.FPS)
	}
	if cfg.Steps < 1 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "steps must be at least 1, got %d", cfg.Steps)
	}
	if c := cfg.Constraint; c != nil && c.Radius <= 0 {
		return peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "constraint radius must be positive, got %g", c.Radius)
	}
	for _, b := range bodies {
		if err := s.Interaction.Check(b); err != nil {
			return err
		}
	}
	return nil
}

// Run simulates bodies for the configured duration and returns one frame
// per tick, plus the initial frame. The input slice is not modified.
func (s *Simulator) Run(ctx context.Context, bodies []Body) (*Result, error) {
	if err := s.validate(bodies); err != nil {
		return nil, err
	}
	cfg := s.Config
	log := s.logger()

	state := make([]Body, len(bodies))
	copy(state, bodies)

	forces, err := Forces(state, s.Interaction)
	if err != nil {
		return nil, err
	}
	accels, err := Accelerations(state, forces)
	if err != nil {
		return nil, err
	}

	maxF, maxA := maxLen(forces), maxLen(accels)
	if maxF == 0 || maxA == 0 {
		return nil, peeps.Errorf("dynamics.Run", peeps.ErrInvalidParameter, "no initial force to scale against")
	}
	forceScale := cfg.InitialForceVisual / maxF
	// x = a t^2 / 2 over one second
	accelScale := 2 * cfg.InitialMovement / maxA
	if cfg.AccelScale > 0 {
		accelScale = cfg.AccelScale
	}

	res := &Result{
		Interaction: s.Interaction.Name(),
		ForceScale:  forceScale,
		AccelScale:  accelScale,
	}

	first, err := s.frame(cfg.Start, state, forces, forceScale)
	if err != nil {
		return nil, err
	}
	res.Frames = append(res.Frames, first)
	initialEnergy := first.Kinetic + first.Potential

	ticks := rate.Frames(cfg.Start, cfg.Start+cfg.Duration, cfg.FPS)
	log.Debug("simulate", "interaction", res.Interaction, "bodies", len(state), "ticks", ticks,
		"steps", cfg.Steps, "force_scale", forceScale, "accel_scale", accelScale)

	if ticks <= 0 {
		res.Bodies = state
		return res, nil
	}

	rec, _ := s.Capture.(anim.Recorder)
	if rec != nil {
		if err := rec.Start(); err != nil {
			return nil, err
		}
	}

	recording := rec != nil
	err = s.loop(ctx, res, state, forces, accels, ticks, forceScale, accelScale, rec, &recording)
	if recording {
		if stopErr := rec.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}
	res.Bodies = state

	last := res.Frames[len(res.Frames)-1]
	if initialEnergy != 0 {
		res.EnergyDrift = math.Abs(last.Kinetic+last.Potential-initialEnergy) / math.Abs(initialEnergy)
	}
	return res, err
}

func (s *Simulator) loop(ctx context.Context, res *Result, state []Body, forces, accels []mgl64.Vec3,
	ticks int, forceScale, accelScale float64, rec anim.Recorder, recording *bool) error {
	cfg := s.Config
	dt := 1.0 / float64(cfg.FPS) / float64(cfg.Steps)
	t := cfg.Start
	nextSegment := cfg.Start + cfg.Segment

	for tick := 1; tick <= ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for k := 0; k < cfg.Steps; k++ {
			for i := range state {
				if state[i].Static {
					continue
				}
				dx := state[i].Velocity.Mul(dt)
				if cfg.Constraint != nil {
					dx = cfg.Constraint.constrain(state[i].Position, dx, cfg.AllowZ)
				}
				if !cfg.AllowZ {
					dx[2] = 0
				}
				state[i].Position = state[i].Position.Add(dx)
			}

			next, err := Forces(state, s.Interaction)
			if err != nil {
				return err
			}
			nextAcc, err := Accelerations(state, next)
			if err != nil {
				return err
			}
			// velocities integrate the acceleration from before the move
			for i := range state {
				if state[i].Static {
					continue
				}
				state[i].Velocity = state[i].Velocity.Add(accels[i].Mul(accelScale * dt))
			}
			copy(forces, next)
			copy(accels, nextAcc)
			t += dt
		}

		f, err := s.frame(t, state, forces, forceScale)
		if err != nil {
			return err
		}
		res.Frames = append(res.Frames, f)

		for _, o := range s.observers {
			if err := o.OnTick(tick, f); err != nil {
				return err
			}
		}
		if s.Capture != nil {
			if err := s.Capture.Frame(); err != nil {
				return err
			}
		}
		if rec != nil && cfg.Segment > 0 && t > nextSegment {
			*recording = false
			if err := rec.Stop(); err != nil {
				return err
			}
			if err := rec.Start(); err != nil {
				return err
			}
			*recording = true
			nextSegment += cfg.Segment
		}
	}
	return nil
}

func (s *Simulator) frame(t float64, state []Body, forces []mgl64.Vec3, forceScale float64) (Frame, error) {
	pe, err := PotentialEnergy(state, s.Interaction)
	if err != nil {
		return Frame{}, err
	}
	f := Frame{
		Time:       t,
		Positions:  make([]mgl64.Vec3, len(state)),
		Velocities: make([]mgl64.Vec3, len(state)),
		Forces:     make([]mgl64.Vec3, len(state)),
		Momentum:   Momentum(state),
		Kinetic:    KineticEnergy(state),
		Potential:  pe,
	}
	for i, b := range state {
		f.Positions[i] = b.Position
		f.Velocities[i] = b.Velocity
		f.Forces[i] = forces[i].Mul(forceScale)
	}
	return f, nil
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
