package dynamics_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
)

func vecNear(want mgl64.Vec3, tol float64) func(mgl64.Vec3) bool {
	return func(got mgl64.Vec3) bool { return got.Sub(want).Len() <= tol }
}

var _ = Describe("Kernels", func() {
	a := dynamics.Body{Name: "a", Position: mgl64.Vec3{0, 0, 0}, Mass: 2, Charge: 3e-6}
	b := dynamics.Body{Name: "b", Position: mgl64.Vec3{1, 2, 0}, Mass: 5, Charge: -1e-6}

	DescribeTable("are antisymmetric",
		func(kernel func(a, b dynamics.Body) (mgl64.Vec3, error)) {
			fab, err := kernel(a, b)
			Expect(err).NotTo(HaveOccurred())
			fba, err := kernel(b, a)
			Expect(err).NotTo(HaveOccurred())
			Expect(fab.Add(fba).Len()).To(BeNumerically("<", 1e-12*fab.Len()))
		},
		Entry("coulomb", dynamics.Coulomb),
		Entry("gravity", dynamics.Gravity),
	)

	It("repels like charges", func() {
		c := b
		c.Charge = 1e-6
		f, err := dynamics.Coulomb(a, c)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Dot(c.Position.Sub(a.Position))).To(BeNumerically("<", 0))
	})

	It("attracts masses with the inverse-square magnitude", func() {
		f, err := dynamics.Gravity(a, b)
		Expect(err).NotTo(HaveOccurred())
		r := b.Position.Sub(a.Position)
		Expect(f.Dot(r)).To(BeNumerically(">", 0))
		want := peeps.GConst * a.Mass * b.Mass / r.Dot(r)
		Expect(f.Len()).To(BeNumerically("~", want, want*1e-12))
	})

	It("rejects coincident bodies", func() {
		_, err := dynamics.Coulomb(a, a)
		Expect(err).To(MatchError(peeps.ErrInvalidParameter))
	})

	It("sums net forces to zero for a closed system", func() {
		bodies := []dynamics.Body{
			a, b,
			{Position: mgl64.Vec3{-3, 1, 0}, Mass: 1, Charge: 2e-6},
		}
		forces, err := dynamics.Forces(bodies, dynamics.Electric{})
		Expect(err).NotTo(HaveOccurred())
		var total mgl64.Vec3
		for _, f := range forces {
			total = total.Add(f)
		}
		Expect(total.Len()).To(BeNumerically("<", 1e-12))

		acc, err := dynamics.Accelerations(bodies, forces)
		Expect(err).NotTo(HaveOccurred())
		Expect(acc[1]).To(Satisfy(vecNear(forces[1].Mul(1.0/5), 1e-15)))
	})

	It("computes pair potentials", func() {
		pe, err := dynamics.PotentialEnergy([]dynamics.Body{a, b}, dynamics.Gravitational{})
		Expect(err).NotTo(HaveOccurred())
		Expect(pe).To(BeNumerically("<", 0))

		pe, err = dynamics.PotentialEnergy([]dynamics.Body{a, b}, dynamics.Electric{})
		Expect(err).NotTo(HaveOccurred())
		Expect(pe).To(BeNumerically("<", 0))
	})

	It("resolves interactions by name", func() {
		in, err := dynamics.Lookup("gravity")
		Expect(err).NotTo(HaveOccurred())
		Expect(in.Name()).To(Equal("gravity"))

		_, err = dynamics.Lookup("strong")
		Expect(err).To(MatchError(peeps.ErrInvalidParameter))
	})
})
