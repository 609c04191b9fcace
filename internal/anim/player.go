package anim

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/peeps/internal/peeps"
	"github.com/san-kum/peeps/internal/rate"
)

// Capturer takes one still frame of the current state.
type Capturer interface {
	Frame() error
}

// Recorder is a Capturer that groups frames into a video session.
type Recorder interface {
	Capturer
	Start() error
	Stop() error
}

// Skipper is a Capturer whose frame counter can advance without capturing.
type Skipper interface {
	Skip(n int)
}

// CapturerFunc adapts a function to [Capturer].
type CapturerFunc func() error

// Frame implements [Capturer].
func (f CapturerFunc) Frame() error { return f() }

// Player runs tracks against a fixed tick rate.
type Player struct {
	FPS     int
	Capture Capturer
	// Offline applies every track to completion without capturing frames,
	// then advances a Skipper's frame counter by the tick count.
	Offline bool
	Logger  *slog.Logger
}

// NewPlayer returns a player capturing into c at fps. c may be nil.
func NewPlayer(fps int, c Capturer) *Player {
	return &Player{FPS: fps, Capture: c, Logger: slog.Default()}
}

// Play initializes every track for [t0, tf] under e and then drives them
// for round((tf-t0)*FPS) ticks, capturing after each tick. It returns the
// number of ticks played.
func (p *Player) Play(ctx context.Context, t0, tf float64, e rate.Easing, tracks ...Track) (int, error) {
	if p.FPS <= 0 {
		return 0, peeps.Errorf("anim.Play", peeps.ErrInvalidParameter, "fps must be positive, got %d", p.FPS)
	}
	if tf < t0 {
		return 0, peeps.Errorf("anim.Play", peeps.ErrInvalidParameter, "tf %g precedes t0 %g", tf, t0)
	}
	if e == nil {
		e = rate.EaseInOut
	}

	ticks := rate.Frames(t0, tf, p.FPS)
	steppers := make([]Stepper, 0, len(tracks))
	for _, t := range tracks {
		s, err := t.Init(t0, tf, e, p.FPS)
		if err != nil {
			return 0, err
		}
		steppers = append(steppers, s)
	}

	log := p.logger()
	log.Debug("play", "t0", t0, "tf", tf, "ticks", ticks, "tracks", len(tracks), "offline", p.Offline)

	if p.Offline {
		return ticks, p.drain(ctx, steppers, ticks)
	}

	if rec, ok := p.Capture.(Recorder); ok {
		if err := rec.Start(); err != nil {
			return 0, err
		}
		played, err := p.loop(ctx, steppers, ticks)
		if stopErr := rec.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
		return played, err
	}
	return p.loop(ctx, steppers, ticks)
}

func (p *Player) loop(ctx context.Context, steppers []Stepper, ticks int) (int, error) {
	for tick := 0; tick < ticks; tick++ {
		select {
		case <-ctx.Done():
			return tick, ctx.Err()
		default:
		}

		for _, s := range steppers {
			if s.Len() == 0 {
				continue
			}
			if err := s.Step(); err != nil {
				return tick, err
			}
		}

		if p.Capture != nil {
			if err := p.Capture.Frame(); err != nil {
				return tick, err
			}
		}
	}
	return ticks, nil
}

func (p *Player) drain(ctx context.Context, steppers []Stepper, ticks int) error {
	for _, s := range steppers {
		for s.Len() > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Step(); err != nil {
				return err
			}
		}
	}
	if sk, ok := p.Capture.(Skipper); ok {
		sk.Skip(ticks)
	}
	return nil
}

// Video captures n frames, calling fn before each one with the tick index.
// It brackets the frames in a session when the capturer is a Recorder.
func (p *Player) Video(ctx context.Context, n int, fn func(tick int) error) error {
	if rec, ok := p.Capture.(Recorder); ok {
		if err := rec.Start(); err != nil {
			return err
		}
		err := p.video(ctx, n, fn)
		if stopErr := rec.Stop(); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
		return err
	}
	return p.video(ctx, n, fn)
}

func (p *Player) video(ctx context.Context, n int, fn func(tick int) error) error {
	for tick := 0; tick < n; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fn != nil {
			if err := fn(tick); err != nil {
				return err
			}
		}
		if p.Capture != nil && !p.Offline {
			if err := p.Capture.Frame(); err != nil {
				return err
			}
		} else if sk, ok := p.Capture.(Skipper); ok {
			sk.Skip(1)
		}
	}
	return nil
}

func (p *Player) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
