// Package anim drives animations one tick at a time.
//
// Every animated property follows the same three-phase contract:
//
//   - Init computes, ahead of time and without touching any state, the full
//     [Sequence] of per-tick values from a start state to an end state.
//   - Each tick pops exactly one value and applies it, one mutation per call.
//   - After every tick the [Player] asks its [Capturer] for a still frame.
//
// # Example
//
//	p := anim.NewPlayer(peeps.FrameRate, session)
//	_, err := p.Play(ctx, 0, 2, rate.EaseInOut, ball.ShiftTrack(mgl64.Vec3{3, 0, 0}))
//
// Sequences are finite and non-restartable: once drained they stay empty.
package anim
