// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audpractice/audio"

// Region is what a Device plays: Lead once, then Loop forever. Either may
// be nil. Without a Loop the region ends after Lead.
type Region struct {
	Lead *audio.Buffer
	Loop *audio.Buffer
}

// Frames is the length of a single pass, lead plus one loop.
func (r Region) Frames() int {
	n := 0
	if r.Lead != nil {
		n += r.Lead.Frames()
	}
	if r.Loop != nil {
		n += r.Loop.Frames()
	}
	return n
}

// Device plays regions of decoded audio.
//
// Schedule replaces whatever is playing and starts r from its first frame.
// done is called once when a region without a Loop runs out; it may also
// be called when the region is stopped, from any goroutine, so it must not
// block. PlayedFrames counts source frames consumed since the last
// Schedule, so it runs faster than wall time when the rate is above 1.
type Device interface {
	Schedule(r Region, done func()) error
	Stop()
	PlayedFrames() int64
	SetRate(rate float64)
	SetPitch(semitones float64)
	Close() error
}
