// Package peeps provides the primitives shared by the animation kernels.
//
// The package defines the flat error kind every other package raises, the
// physical constants used by the simulators and the fixed tick rate:
//
//   - [Error]: operation-tagged wrapper around the sentinel errors
//   - [FrameRate]: ticks per second of every animation
//   - [KCoulomb], [GConst]: force constants for the N-body kernels
//
// # Errors
//
// Library-raised errors always wrap one of the sentinels so callers can
// tell them apart from runtime or I/O failures:
//
//	if errors.Is(err, peeps.ErrDegenerateVector) {
//	    // zero normal, zero axis or antiparallel rotation
//	}
package peeps
