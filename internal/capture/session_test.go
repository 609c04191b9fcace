package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/export"
	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/scene"
)

type counter struct{ n int }

func (c *counter) still() StillFunc {
	return StillFunc{Extension: ".txt", Render: func() string {
		c.n++
		return "frame " + strconv.Itoa(c.n)
	}}
}

type failingEncoder struct{}

func (failingEncoder) Output(c Clip) string { return filepath.Join(c.Dir, "never.out") }
func (failingEncoder) Encode(Clip) error    { return fmt.Errorf("codec missing: %w", fs.ErrPermission) }

func TestFrameName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "img000000"},
		{45, "img000045"},
		{123456, "img123456"},
		{1234567, "img1234567"},
	}
	for _, tt := range tests {
		got, err := FrameName(tt.n)
		if err != nil || got != tt.want {
			t.Errorf("FrameName(%d) = %q, %v; want %q", tt.n, got, err, tt.want)
		}
	}

	if _, err := FrameName(-1); !errors.Is(err, peeps.ErrInvalidParameter) {
		t.Errorf("FrameName(-1) error = %v", err)
	}
}

func TestSessionStartStopMisuse(t *testing.T) {
	s, err := NewSession(t.TempDir(), "misuse", 60, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); !errors.Is(err, peeps.ErrSession) {
		t.Errorf("Stop before Start = %v, want ErrSession", err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); !errors.Is(err, peeps.ErrSession) {
		t.Errorf("second Start = %v, want ErrSession", err)
	}
}

func TestSessionNeverOverwrites(t *testing.T) {
	c := &counter{}
	s, err := NewSession(t.TempDir(), "resume", 60, c.still(), nil)
	if err != nil {
		t.Fatal(err)
	}

	existing := filepath.Join(s.Path(), "img000001.txt")
	if err := os.WriteFile(existing, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if s.Num != 3 {
		t.Errorf("Num = %d, want 3", s.Num)
	}
	if c.n != 2 {
		t.Errorf("rendered %d stills, want 2", c.n)
	}
	if data, _ := os.ReadFile(existing); string(data) != "keep" {
		t.Errorf("existing still overwritten: %q", data)
	}
}

func TestSessionEncodesAndCleansUp(t *testing.T) {
	c := &counter{}
	s, err := NewSession(t.TempDir(), "clip", 30, c.still(), ManifestEncoder{Prefix: "demo_"})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := s.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(s.Path(), "demo_img000000.clip.json")
	fps, frames, err := ReadManifest(out)
	if err != nil {
		t.Fatal(err)
	}
	if fps != 30 || len(frames) != 4 || frames[3] != "frame 4" {
		t.Errorf("manifest fps=%d frames=%v", fps, frames)
	}

	for n := 0; n < 4; n++ {
		if _, err := os.Stat(filepath.Join(s.Path(), "img00000"+strconv.Itoa(n)+".txt")); !os.IsNotExist(err) {
			t.Errorf("still %d not removed", n)
		}
	}
	// trailing still after stop
	if _, err := os.Stat(filepath.Join(s.Path(), "img000004.txt")); err != nil {
		t.Errorf("trailing still missing: %v", err)
	}
	if s.Num != 5 || s.Recording() {
		t.Errorf("Num = %d, recording = %v", s.Num, s.Recording())
	}
}

func TestSessionSkipsEncodedClip(t *testing.T) {
	dir := t.TempDir()
	c := &counter{}
	enc := ManifestEncoder{}
	s, err := NewSession(dir, "again", 60, c.still(), enc)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(enc.Output(Clip{Dir: s.Path(), First: 0}), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	if c.n != 0 {
		t.Errorf("rendered %d stills for an encoded clip", c.n)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if c.n != 1 || s.Num != 6 {
		t.Errorf("after stop rendered=%d num=%d", c.n, s.Num)
	}
}

func TestSessionEncodeFailure(t *testing.T) {
	c := &counter{}
	s, err := NewSession(t.TempDir(), "fail", 60, c.still(), failingEncoder{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); !errors.Is(err, peeps.ErrEncode) {
		t.Fatalf("Stop = %v, want ErrEncode", err)
	} else if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Stop = %v, encoder cause lost", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "img000000.txt")); err != nil {
		t.Error("stills must survive a failed encode")
	}
}

func TestSkipPreviewAndScenes(t *testing.T) {
	c := &counter{}
	s, err := NewSession(t.TempDir(), "misc", 60, c.still(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Skip(120)
	s.EndScene()
	s.Skip(30)
	s.EndScene()
	if got := s.SceneEnds(); len(got) != 2 || got[0] != 120 || got[1] != 150 {
		t.Errorf("SceneEnds = %v", got)
	}

	p, err := s.Preview()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "img900000.txt" || s.Num != 150 {
		t.Errorf("preview %s, num %d", p, s.Num)
	}
	p, err = s.Preview()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "img900001.txt" {
		t.Errorf("second preview %s", p)
	}
}

func TestSVGStill(t *testing.T) {
	sc := scene.New()
	sc.Add("ball", mgl64.Vec3{})
	still := SVGStill{Scene: sc, View: export.Fit([]mgl64.Vec3{{-1, -1, 0}, {1, 1, 0}}, 64, 64)}

	s, err := NewSession(t.TempDir(), "svg", 60, still, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Frame(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(s.Path(), "img000000.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[len(data)-1] != '>' {
		t.Errorf("bad svg: %q", data)
	}
}
