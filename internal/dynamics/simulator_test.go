package dynamics_test

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
)

type countingRecorder struct {
	frames, starts, stops int
	// stopErr is returned by the failStop-th call to Stop.
	failStop int
	stopErr  error
	running  bool
}

func (c *countingRecorder) Frame() error { c.frames++; return nil }

func (c *countingRecorder) Start() error {
	if c.running {
		return peeps.ErrSession
	}
	c.starts++
	c.running = true
	return nil
}

func (c *countingRecorder) Stop() error {
	if !c.running {
		return peeps.ErrSession
	}
	c.stops++
	c.running = false
	if c.stops == c.failStop {
		return c.stopErr
	}
	return nil
}

func binary() []dynamics.Body {
	return []dynamics.Body{
		{Name: "sun", Position: mgl64.Vec3{-1, 0, 0}, Velocity: mgl64.Vec3{0, -0.25, 0}, Mass: 2e10, Radius: 0.3},
		{Name: "moon", Position: mgl64.Vec3{2, 0, 0}, Velocity: mgl64.Vec3{0, 1, 0}, Mass: 1e10, Radius: 0.2},
	}
}

func charges() []dynamics.Body {
	return []dynamics.Body{
		{Name: "p", Position: mgl64.Vec3{-1, 0, 0}, Mass: 1, Charge: 1e-6},
		{Name: "q", Position: mgl64.Vec3{1, 0.5, 0}, Mass: 1, Charge: 1e-6},
		{Name: "r", Position: mgl64.Vec3{0, -1, 0}, Mass: 2, Charge: 2e-6},
	}
}

var _ = Describe("Simulator", func() {
	var cfg dynamics.Config

	BeforeEach(func() {
		cfg = dynamics.DefaultConfig()
	})

	It("records one frame per tick plus the initial state", func() {
		res, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(context.Background(), binary())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(HaveLen(121))
		Expect(res.Frames[120].Time).To(BeNumerically("~", 2, 1e-9))
	})

	It("scales the largest initial force to the visual length", func() {
		res, err := dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), charges())
		Expect(err).NotTo(HaveOccurred())
		longest := 0.0
		for _, f := range res.Frames[0].Forces {
			longest = math.Max(longest, f.Len())
		}
		Expect(longest).To(BeNumerically("~", cfg.InitialForceVisual, 1e-9))
	})

	It("conserves momentum of a closed two-body gravitational system", func() {
		cfg.Steps = 4
		cfg.Duration = 3
		cfg.InitialMovement = 0.5
		res, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(context.Background(), binary())
		Expect(err).NotTo(HaveOccurred())

		p0 := res.Frames[0].Momentum
		for _, f := range res.Frames {
			Expect(f.Momentum.Sub(p0).Len()).To(BeNumerically("<", 1e-6*p0.Len()))
		}
		Expect(res.Bodies[1].Position).NotTo(Equal(binary()[1].Position))
	})

	It("does not modify the input bodies", func() {
		in := binary()
		_, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(context.Background(), in)
		Expect(err).NotTo(HaveOccurred())
		Expect(in).To(Equal(binary()))
	})

	It("never moves static bodies", func() {
		bodies := charges()
		bodies[2].Static = true
		res, err := dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), bodies)
		Expect(err).NotTo(HaveOccurred())
		for _, f := range res.Frames {
			Expect(f.Positions[2]).To(Equal(bodies[2].Position))
		}
	})

	It("keeps motion in the plane unless z is allowed", func() {
		bodies := charges()
		bodies[0].Velocity = mgl64.Vec3{0, 0, 3}
		res, err := dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), bodies)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Bodies[0].Position.Z()).To(BeZero())

		cfg.AllowZ = true
		res, err = dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), bodies)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Bodies[0].Position.Z()).To(BeNumerically(">", 0))
	})

	It("keeps constrained bodies inside the sphere", func() {
		cfg.Duration = 4
		cfg.Constraint = &dynamics.Sphere{Radius: 2}
		res, err := dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), charges())
		Expect(err).NotTo(HaveOccurred())
		for _, f := range res.Frames {
			for _, p := range f.Positions {
				Expect(p.Len()).To(BeNumerically("<=", 2+1e-9))
			}
		}
	})

	It("uses an explicit acceleration scale", func() {
		cfg.AccelScale = 0.5
		res, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(context.Background(), binary())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.AccelScale).To(Equal(0.5))
	})

	It("captures every tick and splits segments", func() {
		rec := &countingRecorder{}
		cfg.Segment = 0.5
		sim := dynamics.New(dynamics.Gravitational{}, cfg)
		sim.Capture = rec

		ticks := 0
		sim.AddObserver(dynamics.ObserverFunc(func(int, dynamics.Frame) error { ticks++; return nil }))

		_, err := sim.Run(context.Background(), binary())
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.frames).To(Equal(120))
		Expect(ticks).To(Equal(120))
		Expect(rec.starts).To(Equal(rec.stops))
		Expect(rec.starts).To(BeNumerically(">=", 4))
	})

	It("reports only the failure of a segment split", func() {
		broken := errors.New("disk full")
		rec := &countingRecorder{failStop: 1, stopErr: broken}
		cfg.Segment = 0.5
		sim := dynamics.New(dynamics.Gravitational{}, cfg)
		sim.Capture = rec

		_, err := sim.Run(context.Background(), binary())
		Expect(err).To(MatchError(broken))
		Expect(errors.Is(err, peeps.ErrSession)).To(BeFalse())
		Expect(rec.stops).To(Equal(1))
	})

	It("returns only the initial frame for a zero duration", func() {
		cfg.Duration = 0
		res, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(context.Background(), binary())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Frames).To(HaveLen(1))
	})

	It("stops when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := dynamics.New(dynamics.Gravitational{}, cfg).Run(ctx, binary())
		Expect(err).To(MatchError(context.Canceled))
	})

	DescribeTable("rejects invalid input",
		func(mutate func(*dynamics.Config, *[]dynamics.Body), kind error) {
			bodies := charges()
			mutate(&cfg, &bodies)
			_, err := dynamics.New(dynamics.Electric{}, cfg).Run(context.Background(), bodies)
			Expect(err).To(MatchError(kind))
		},
		Entry("one body", func(_ *dynamics.Config, b *[]dynamics.Body) { *b = (*b)[:1] }, peeps.ErrInvalidParameter),
		Entry("no force visual", func(c *dynamics.Config, _ *[]dynamics.Body) { c.InitialForceVisual = 0 }, peeps.ErrInvalidParameter),
		Entry("no movement", func(c *dynamics.Config, _ *[]dynamics.Body) { c.InitialMovement = -1 }, peeps.ErrInvalidParameter),
		Entry("no steps", func(c *dynamics.Config, _ *[]dynamics.Body) { c.Steps = 0 }, peeps.ErrInvalidParameter),
		Entry("missing charge", func(_ *dynamics.Config, b *[]dynamics.Body) { (*b)[1].Charge = 0 }, peeps.ErrMissingCollaborator),
		Entry("missing mass", func(_ *dynamics.Config, b *[]dynamics.Body) { (*b)[0].Mass = 0 }, peeps.ErrMissingCollaborator),
	)
})
