// Package dynamics simulates point charges and point masses under
// inverse-square interactions and traces 2D electric field lines.
//
// Simulated motion is deliberately visual rather than physical: the first
// force evaluation fixes a scale so the strongest initial acceleration moves
// a body a chosen distance in one second, whatever the real magnitudes.
package dynamics
