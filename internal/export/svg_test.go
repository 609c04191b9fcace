package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/scene"
)

func TestFitAndProject(t *testing.T) {
	v := Fit([]mgl64.Vec3{{0, 0, 0}, {10, 5, 0}}, 120, 70)

	x, y := v.Project(mgl64.Vec3{-1, -0.5, 0})
	if x != 0 || y != 70 {
		t.Errorf("lower-left corner = (%v, %v), want (0, 70)", x, y)
	}
	x, y = v.Project(mgl64.Vec3{11, 5.5, 0})
	if x != 120 || y != 0 {
		t.Errorf("upper-right corner = (%v, %v), want (120, 0)", x, y)
	}
}

func TestFitDegenerate(t *testing.T) {
	v := Fit([]mgl64.Vec3{{2, 2, 0}}, 100, 100)
	if v.Max[0] <= v.Min[0] || v.Max[1] <= v.Min[1] {
		t.Fatalf("empty view %+v", v)
	}
	if v := Fit(nil, 10, 10); v.Max[0] != 1 {
		t.Errorf("nil points view = %+v", v)
	}
}

func TestSceneToSVG(t *testing.T) {
	s := scene.New()
	o := s.Add("ball", mgl64.Vec3{1, 1, 0})
	o.Normal = mgl64.Vec3{1, 0, 0}
	o.Alpha = 0.5
	s.Add("disc", mgl64.Vec3{-1, 0, 0})

	svg := SceneToSVG(s.Objects(), Fit([]mgl64.Vec3{{-3, -3, 0}, {3, 3, 0}}, 200, 200))
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if !strings.Contains(svg, `id="ball.00000001"`) || !strings.Contains(svg, `fill-opacity="0.500"`) {
		t.Error("missing object attributes")
	}
	// only the ball's normal lies in the plane
	if got := strings.Count(svg, "<path"); got != 1 {
		t.Errorf("normal strokes = %d, want 1", got)
	}
}

func TestFieldLinesToSVG(t *testing.T) {
	set := &dynamics.FieldLineSet{Lines: []dynamics.FieldLine{
		{Points: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 1, 0}}},
		{Points: []mgl64.Vec3{{0, 0, 0}}},
	}}
	bs := []dynamics.Body{{Charge: 1}, {Position: mgl64.Vec3{2, 1, 0}, Charge: -1}}

	svg := FieldLinesToSVG(set, bs, Fit(set.Lines[0].Points, 100, 50), "#ffaa00")
	if got := strings.Count(svg, "<path"); got != 1 {
		t.Errorf("paths = %d, want 1", got)
	}
	if !strings.Contains(svg, ChargeColor(1).Hex()) || !strings.Contains(svg, ChargeColor(-1).Hex()) {
		t.Error("missing charge colors")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	frames := []dynamics.Frame{
		{Positions: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}},
		{Positions: []mgl64.Vec3{{0, 1, 0}, {1, 1, 0}}},
	}
	svg := TrajectoryToSVG(frames, nil, Fit(FramePoints(frames), 100, 100))
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("paths = %d, want 2", got)
	}
	if len(FramePoints(frames)) != 4 {
		t.Error("FramePoints should flatten all positions")
	}
}

func TestPalette(t *testing.T) {
	p := Palette(3)
	if len(p) != 3 {
		t.Fatalf("len = %d", len(p))
	}
	if p[0].Hex() == p[1].Hex() {
		t.Error("palette colors should differ")
	}
}
