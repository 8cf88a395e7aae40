// SPDX-License-Identifier: EPL-2.0

package output

import (
	"sync/atomic"

	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/engine"
)

// regionStreamer is a beep.Streamer over an engine.Region: the lead once,
// then the loop until stopped. Mono is copied to both speaker channels;
// channels past the second are ignored.
type regionStreamer struct {
	lead    *audio.Buffer
	loop    *audio.Buffer
	inLoop  bool
	pos     int
	played  atomic.Int64
	drained bool
}

func newRegionStreamer(r engine.Region) *regionStreamer {
	s := &regionStreamer{lead: r.Lead, loop: r.Loop}
	if s.loop != nil && s.loop.Frames() == 0 {
		s.loop = nil
	}
	if s.lead == nil || s.lead.Frames() == 0 {
		s.lead = nil
		s.inLoop = true
	}
	return s
}

func (s *regionStreamer) current() *audio.Buffer {
	if s.inLoop {
		return s.loop
	}
	return s.lead
}

func (s *regionStreamer) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) {
		buf := s.current()
		if buf == nil {
			s.drained = true
			break
		}
		if s.pos >= buf.Frames() {
			if !s.inLoop {
				s.inLoop = true
			}
			s.pos = 0
			continue
		}

		data := buf.Samples()
		ch := buf.Channels()
		take := min(len(samples)-n, buf.Frames()-s.pos)
		for i := range take {
			base := (s.pos + i) * ch
			left := float64(data[base])
			right := left
			if ch > 1 {
				right = float64(data[base+1])
			}
			samples[n+i] = [2]float64{left, right}
		}
		n += take
		s.pos += take
	}

	s.played.Add(int64(n))
	if n == 0 && s.drained {
		return 0, false
	}
	return n, true
}

func (s *regionStreamer) Err() error { return nil }

// Played is the number of frames streamed so far.
func (s *regionStreamer) Played() int64 { return s.played.Load() }
