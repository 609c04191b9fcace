// Package rate maps linear time onto perceptually shaped time.
//
// The central routine is [CubicBezier], which remaps a list of samples
// through a CSS-style cubic-Bezier easing curve:
//
//	ts, _ := rate.Interpolate(0, 2, rate.EaseInOut, 120)
//
// Every easing implements [Easing], so animations accept either a [Curve]
// or a [Spring].
package rate
