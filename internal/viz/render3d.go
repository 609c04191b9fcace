package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera projects world points onto a canvas. Yaw and Pitch only matter
// for runs that leave the plane.
type Camera struct {
	Center     mgl64.Vec3
	Extent     float64
	Yaw, Pitch float64
	Zoom       float64
	Distance   float64
}

// NewCamera frames a region of half-size extent around center.
func NewCamera(center mgl64.Vec3, extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{Center: center, Extent: extent, Zoom: 1, Distance: 8}
}

// Fit frames every point.
func Fit(points []mgl64.Vec3) *Camera {
	if len(points) == 0 {
		return NewCamera(mgl64.Vec3{}, 1)
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := range 3 {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	d := hi.Sub(lo)
	return NewCamera(lo.Add(hi).Mul(0.5), 0.6*math.Max(d[0], d[1])+1e-9)
}

func (c *Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project returns dot coordinates on a w x h dot canvas and whether the
// point is in front of the camera.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (int, int, bool) {
	q := c.rotation().Mul3x1(p.Sub(c.Center)).Mul(1 / c.Extent)
	persp := 1.0
	if c.Yaw != 0 || c.Pitch != 0 {
		if q[2] >= c.Distance {
			return 0, 0, false
		}
		persp = c.Distance / (c.Distance - q[2])
	}
	s := 0.5 * math.Min(float64(w), float64(h)) * c.Zoom * persp
	x := float64(w)/2 + q[0]*s
	y := float64(h)/2 - q[1]*s
	return int(math.Round(x)), int(math.Round(y)), true
}

func (c *Camera) Rotate(dyaw, dpitch float64) {
	c.Yaw += dyaw
	c.Pitch = mgl64.Clamp(c.Pitch+dpitch, -math.Pi/2, math.Pi/2)
}
