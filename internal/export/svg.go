package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/scene"
)

const background = "#0a0a0a"

// View maps world xy coordinates onto a width x height SVG canvas.
type View struct {
	Min, Max      mgl64.Vec2
	Width, Height int
}

// Fit returns a view framing points with 10% padding on each side.
func Fit(points []mgl64.Vec3, width, height int) View {
	v := View{Width: width, Height: height}
	if len(points) == 0 {
		v.Min, v.Max = mgl64.Vec2{-1, -1}, mgl64.Vec2{1, 1}
		return v
	}

	v.Min = mgl64.Vec2{points[0][0], points[0][1]}
	v.Max = v.Min
	for _, p := range points {
		v.Min[0] = math.Min(v.Min[0], p[0])
		v.Min[1] = math.Min(v.Min[1], p[1])
		v.Max[0] = math.Max(v.Max[0], p[0])
		v.Max[1] = math.Max(v.Max[1], p[1])
	}

	rangeX := v.Max[0] - v.Min[0]
	rangeY := v.Max[1] - v.Min[1]
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	v.Min = v.Min.Sub(mgl64.Vec2{rangeX * 0.1, rangeY * 0.1})
	v.Max = v.Max.Add(mgl64.Vec2{rangeX * 0.1, rangeY * 0.1})
	return v
}

// Project returns the canvas position of p. The y axis points up.
func (v View) Project(p mgl64.Vec3) (float64, float64) {
	x := (p[0] - v.Min[0]) / (v.Max[0] - v.Min[0]) * float64(v.Width)
	y := float64(v.Height) - (p[1]-v.Min[1])/(v.Max[1]-v.Min[1])*float64(v.Height)
	return x, y
}

// Scale converts a world length to canvas units along x.
func (v View) Scale(d float64) float64 {
	return d / (v.Max[0] - v.Min[0]) * float64(v.Width)
}

func header(sb *strings.Builder, v View) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, v.Width, v.Height, v.Width, v.Height, background)
}

func polyline(sb *strings.Builder, v View, pts []mgl64.Vec3, stroke string, width float64) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, stroke, width)
	for i, p := range pts {
		x, y := v.Project(p)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// SceneToSVG draws every object as a disc in its color and alpha, with a
// short stroke along its normal's projection onto the xy plane.
func SceneToSVG(objs []*scene.Object, v View) string {
	var sb strings.Builder
	header(&sb, v)

	for _, o := range objs {
		x, y := v.Project(o.Origin)
		r := v.Scale(o.Radius)
		fmt.Fprintf(&sb, `<circle id="%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.3f"/>
`, o.Name, x, y, r, o.Color.Clamped().Hex(), o.Alpha)

		n := mgl64.Vec3{o.Normal[0], o.Normal[1], 0}
		if n.Len() > 1e-9 {
			tip := o.Origin.Add(n.Normalize().Mul(o.Radius * 1.5))
			polyline(&sb, v, []mgl64.Vec3{o.Origin, tip}, o.Color.Clamped().Hex(), 1.5)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ChargeColor is red for positive charge, blue for negative and grey for
// neutral bodies.
func ChargeColor(q float64) colorful.Color {
	switch {
	case q > 0:
		return colorful.Color{R: 0.9, G: 0.2, B: 0.2}
	case q < 0:
		return colorful.Color{R: 0.2, G: 0.4, B: 0.9}
	}
	return colorful.Color{R: 0.6, G: 0.6, B: 0.6}
}

func bodies(sb *strings.Builder, v View, bs []dynamics.Body) {
	for _, b := range bs {
		x, y := v.Project(b.Position)
		r := v.Scale(math.Max(b.Radius, 0.05))
		fmt.Fprintf(sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, r, ChargeColor(b.Charge).Hex())
	}
}

// FieldLinesToSVG draws each field line as a polyline over its charges.
func FieldLinesToSVG(set *dynamics.FieldLineSet, bs []dynamics.Body, v View, stroke string) string {
	var sb strings.Builder
	header(&sb, v)
	if set != nil {
		for _, l := range set.Lines {
			polyline(&sb, v, l.Points, stroke, 1.2)
		}
	}
	bodies(&sb, v, bs)
	sb.WriteString("</svg>")
	return sb.String()
}

// Palette returns n evenly spaced hues of equal lightness.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hcl(360*float64(i)/float64(max(n, 1)), 0.6, 0.7).Clamped()
	}
	return out
}

// TrajectoryToSVG draws the path of every body across frames, ending with
// the bodies at their final positions.
func TrajectoryToSVG(frames []dynamics.Frame, final []dynamics.Body, v View) string {
	var sb strings.Builder
	header(&sb, v)

	if len(frames) > 0 {
		n := len(frames[0].Positions)
		colors := Palette(n)
		for i := 0; i < n; i++ {
			path := make([]mgl64.Vec3, len(frames))
			for k, f := range frames {
				path[k] = f.Positions[i]
			}
			polyline(&sb, v, path, colors[i].Hex(), 1.5)
		}
	}
	bodies(&sb, v, final)
	sb.WriteString("</svg>")
	return sb.String()
}

// FramePoints flattens every position in frames, for fitting a view.
func FramePoints(frames []dynamics.Frame) []mgl64.Vec3 {
	var pts []mgl64.Vec3
	for _, f := range frames {
		pts = append(pts, f.Positions...)
	}
	return pts
}
