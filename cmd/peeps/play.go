package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/san-kum/peeps/internal/anim"
	"github.com/san-kum/peeps/internal/capture"
	"github.com/san-kum/peeps/internal/config"
	"github.com/san-kum/peeps/internal/export"
	"github.com/san-kum/peeps/internal/rate"
	"github.com/san-kum/peeps/internal/scene"
)

// act is one Play call of the demo.
type act struct {
	name   string
	t0, tf float64
	tracks func() []anim.Track
}

func demoScene() (*scene.Scene, []act) {
	s := scene.New()
	ball := s.Add("ball", mgl64.Vec3{-3, 0, 0})
	ball.SetColor(colorful.Color{R: 0.9, G: 0.2, B: 0.2})
	arrow := s.Add("arrow", mgl64.Vec3{0, 0, 0})
	arrow.Normal = mgl64.Vec3{1, 0, 0}
	arrow.Radius = 0.8
	label := s.Add("label", mgl64.Vec3{3, 0, 0})
	label.SetColor(rate.Black)

	orbit := func(t float64) mgl64.Vec3 {
		return mgl64.Rotate3DZ(mgl64.DegToRad(180 * t)).Mul3x1(mgl64.Vec3{-3, 0, 0})
	}

	return s, []act{
		{"shift", 0, 1, func() []anim.Track {
			return []anim.Track{ball.ShiftTrack(mgl64.Vec3{0, 2, 0}), label.FadeTrack()}
		}},
		{"rotate", 1, 2.5, func() []anim.Track {
			return []anim.Track{
				arrow.RotateTrack(mgl64.Vec3{0, 0, 1}, 270, true),
				anim.WithEasing(ball.ShiftTrack(mgl64.Vec3{0, -2, 0}), rate.Linear),
				label.ColorTrack(colorful.Color{R: 0.2, G: 0.4, B: 0.9}),
			}
		}},
		{"orbit", 2.5, 4, func() []anim.Track {
			return []anim.Track{ball.ShiftPathTrack(orbit), arrow.TransformTrack(mgl64.Vec3{0, 1, 1})}
		}},
		{"fade", 4, 5, func() []anim.Track {
			return scene.Each(s.Objects(), func(o *scene.Object) anim.Track { return o.AlphaTrack(0.2) })
		}},
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	e, err := config.ParseEasing(curve, frameRate)
	if err != nil {
		return err
	}

	s, acts := demoScene()
	lo, hi := mgl64.Vec3{-5, -4, 0}, mgl64.Vec3{5, 4, 0}
	view := export.Fit([]mgl64.Vec3{lo, hi}, config.DefaultWidth, config.DefaultHeight)

	session, err := capture.NewSession(outDir, outName, frameRate, capture.SVGStill{Scene: s, View: view}, capture.ManifestEncoder{})
	if err != nil {
		return err
	}
	player := anim.NewPlayer(frameRate, session)
	player.Offline = offline

	ctx, cancel := signalContext()
	defer cancel()

	for _, a := range acts {
		n, err := player.Play(ctx, a.t0, a.tf, e, a.tracks()...)
		if err != nil {
			return fmt.Errorf("%s: %w", a.name, err)
		}
		session.EndScene()
		fmt.Printf("  %-8s %4d ticks\n", a.name, n)
	}

	preview, err := session.Preview()
	if err != nil {
		return err
	}
	fmt.Printf("frames: %d, scene ends %v\n", session.Num, session.SceneEnds())
	fmt.Printf("preview: %s\n", preview)
	return nil
}
