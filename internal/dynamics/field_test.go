package dynamics_test

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
)

func dipole() []dynamics.Body {
	return []dynamics.Body{
		{Name: "plus", Position: mgl64.Vec3{-2, 0, 0}, Mass: 1, Charge: 1e-6, Radius: 0.3},
		{Name: "minus", Position: mgl64.Vec3{2, 0, 0}, Mass: 1, Charge: -1e-6, Radius: 0.3},
	}
}

var _ = Describe("Field lines", func() {
	var opts dynamics.FieldLineOptions

	BeforeEach(func() {
		opts = dynamics.DefaultFieldLineOptions()
	})

	It("points away from positive charges", func() {
		e := dynamics.Field(dipole()[:1], mgl64.Vec3{-2, 1, 0})
		Expect(e.Normalize()).To(Satisfy(vecNear(mgl64.Vec3{0, 1, 0}, 1e-12)))
		want := peeps.KCoulomb * 1e-6
		Expect(e.Len()).To(BeNumerically("~", want, want*1e-12))
	})

	It("seeds lines in proportion to charge", func() {
		bodies := dipole()
		bodies[1].Charge = -2e-6
		set, err := dynamics.TraceFieldLines(context.Background(), bodies, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Lines).To(HaveLen(12))

		perSource := map[int]int{}
		for _, l := range set.Lines {
			perSource[l.Source]++
		}
		Expect(perSource).To(Equal(map[int]int{0: 4, 1: 8}))
	})

	It("ends the axial line inside the negative charge", func() {
		set, err := dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).NotTo(HaveOccurred())

		axial := set.Lines[0]
		Expect(axial.Source).To(Equal(0))
		Expect(axial.Stop).To(Equal(dynamics.StopCharge))
		end := axial.Points[len(axial.Points)-1]
		Expect(end.Sub(mgl64.Vec3{2, 0, 0}).Len()).To(BeNumerically("<=", 0.8+1e-9))
		Expect(axial.Length).To(BeNumerically("~", 2.9, 0.2))
	})

	It("orders lines from negative charges toward the negative end", func() {
		set, err := dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).NotTo(HaveOccurred())
		for _, l := range set.Lines {
			if l.Source != 1 {
				continue
			}
			last := l.Points[len(l.Points)-1]
			Expect(last.Sub(mgl64.Vec3{2, 0, 0}).Len()).To(BeNumerically("~", 0.8, 1e-9))
		}
	})

	It("stops lines at the bounding box", func() {
		bodies := dipole()[:1]
		opts.Box = dynamics.Box{Min: mgl64.Vec2{-5, -3}, Max: mgl64.Vec2{5, 3}}
		set, err := dynamics.TraceFieldLines(context.Background(), bodies, opts)
		Expect(err).NotTo(HaveOccurred())
		for _, l := range set.Lines {
			Expect(l.Stop).To(Equal(dynamics.StopBox))
			Expect(l.Done()).To(BeTrue())
		}
	})

	It("stops at a saddle between like charges", func() {
		bodies := dipole()
		bodies[1].Charge = 1e-6
		set, err := dynamics.TraceFieldLines(context.Background(), bodies, opts)
		Expect(err).NotTo(HaveOccurred())

		axial := 0
		for _, l := range set.Lines {
			seed := l.Points[0]
			if math.Abs(seed[1]) > 1e-9 || math.Abs(seed[0]) > 2 {
				continue
			}
			axial++
			Expect(l.Stop).To(Equal(dynamics.StopTurn))
			Expect(l.Length).To(BeNumerically("~", 1.7, 0.05))
			end := l.Points[len(l.Points)-1]
			Expect(end.Len()).To(BeNumerically("<", 0.1))
		}
		Expect(axial).To(Equal(2))
	})

	It("stops where the field vanishes", func() {
		bodies := []dynamics.Body{
			{Name: "a", Position: mgl64.Vec3{-1, 0, 0}, Charge: 1e-6, Radius: 1},
			{Name: "b", Position: mgl64.Vec3{1, 0, 0}, Charge: 1e-6, Radius: 1},
		}
		set, err := dynamics.TraceFieldLines(context.Background(), bodies, opts)
		Expect(err).NotTo(HaveOccurred())

		first := set.Lines[0]
		Expect(first.Points[0]).To(Equal(mgl64.Vec3{0, 0, 0}))
		Expect(first.Stop).To(Equal(dynamics.StopSink))
		Expect(first.Points).To(HaveLen(1))
	})

	It("passes through neutral bodies", func() {
		bodies := append(dipole(), dynamics.Body{Name: "dust", Mass: 1, Radius: 0.5})
		set, err := dynamics.TraceFieldLines(context.Background(), bodies, opts)
		Expect(err).NotTo(HaveOccurred())

		axial := set.Lines[0]
		Expect(axial.Stop).To(Equal(dynamics.StopCharge))
		end := axial.Points[len(axial.Points)-1]
		Expect(end.Sub(mgl64.Vec3{2, 0, 0}).Len()).To(BeNumerically("<=", 0.8+1e-9))
	})

	It("resumes a previous trace", func() {
		opts.Lengths = []float64{1}
		short, err := dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(short.MaxLength).To(BeNumerically("~", 1.1, 1e-9))

		opts.Lengths = []float64{2}
		opts.Previous = short
		resumed, err := dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).NotTo(HaveOccurred())

		opts.Previous = nil
		direct, err := dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).NotTo(HaveOccurred())

		for i := range direct.Lines {
			Expect(resumed.Lines[i].Points).To(Equal(direct.Lines[i].Points))
		}
		Expect(short.Lines[0].Points).To(HaveLen(12))
	})

	It("grows lines until they stop changing", func() {
		opts.Box = dynamics.Box{Min: mgl64.Vec2{-6, -4}, Max: mgl64.Vec2{6, 4}}
		increments := 0
		set, err := dynamics.GrowFieldLines(context.Background(), dipole(), opts, 0.5, func(*dynamics.FieldLineSet) error {
			increments++
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(increments).To(BeNumerically(">", 2))
		for _, l := range set.Lines {
			Expect(l.Done()).To(BeTrue())
		}
	})

	It("rejects charge-free input", func() {
		_, err := dynamics.TraceFieldLines(context.Background(), []dynamics.Body{{Mass: 1}}, opts)
		Expect(err).To(MatchError(peeps.ErrMissingCollaborator))

		opts.Step = 0
		_, err = dynamics.TraceFieldLines(context.Background(), dipole(), opts)
		Expect(err).To(MatchError(peeps.ErrInvalidParameter))
	})
})
