// SPDX-License-Identifier: EPL-2.0

// Package transport holds the practice session state machine.
//
// Reduce is a pure function: it mutates State in place and returns the
// Commands the playback executor must perform. Time and ids come from Env,
// so the same inputs always give the same outputs.
//
// # Scrubbing
//
// ScrubChanged never changes whether audio is playing. While paused each
// change seeks; while playing the audio keeps going and ScrubEnded issues
// the single EnginePlay that moves it. Ticks are ignored while a scrub is in
// progress.
//
// # Looping
//
// A loop is active when it is enabled and its effective bounds are ordered.
// Effective bounds default an unset A to zero and an unset B to the track
// duration. A Tick at or past B restarts playback at A.
//
// SetA and SetB swap the bounds when the new value would invert them.
// TappedA and TappedB instead clear the opposite bound.
package transport
