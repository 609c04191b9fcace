// Package capture numbers and writes still frames and groups runs of them
// into encoded clips.
//
// A Session writes stills named img000000, img000001, ... into Dir/Name.
// Existing stills are never overwritten, so an interrupted render resumes
// where it stopped. Start and Stop bracket a clip; Stop hands the captured
// range to an Encoder and, on success, removes the stills it consumed.
package capture
