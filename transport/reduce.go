// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"
	"slices"
)

// ToastSetAAndB is shown when looping is requested with a bound missing.
const ToastSetAAndB = "Set A and B"

// Reduce applies a to s in place and returns the commands for the
// executor. It performs no I/O; time and ids come from env. Invalid input
// is clamped, never rejected.
func Reduce(s *State, a Action, env Env) []Command {
	switch a := a.(type) {
	case TogglePlay:
		return togglePlay(s)
	case ScrubChanged:
		return scrubChanged(s, a.TimeSec)
	case ScrubEnded:
		return scrubEnded(s, a.TimeSec)
	case Tick:
		return tick(s, a.TimeSec)
	case PlaybackFinished:
		s.Transport.IsPlaying = false
		return nil
	case PlaybackFailed:
		s.Transport.IsPlaying = false
		showToast(s, env, a.Message)
		return nil
	case SpeedDelta:
		s.Transport.Speed = clamp(s.Transport.Speed+a.Delta, MinSpeed, MaxSpeed)
		showToast(s, env, fmt.Sprintf("Speed %.2fx", s.Transport.Speed))
		return []Command{EngineSetRate{Rate: s.Transport.Speed}}
	case PitchDelta:
		s.Transport.PitchSemitones = clamp(s.Transport.PitchSemitones+a.Delta, MinPitch, MaxPitch)
		showToast(s, env, fmt.Sprintf("Pitch %+g st", s.Transport.PitchSemitones))
		return []Command{EngineSetPitchSemitones{Semitones: s.Transport.PitchSemitones}}
	case ImportPicked:
		return importPicked(s, a.URL)
	case ImportSucceeded:
		track := a.Track
		s.Track = &track
		s.IsLoading = false
		s.IsScrubbing = false
		s.Transport.CurrentTimeSec = 0
		return []Command{ComputePeaks{}}
	case ImportFailed:
		s.IsLoading = false
		showToast(s, env, a.Message)
		return nil
	case PeaksComputed:
		// Peaks of a replaced track can arrive while the next one loads.
		if s.IsLoading || s.Track == nil {
			return nil
		}
		s.Peaks = a.Peaks
		return nil
	case SetA:
		return setA(s, a.TimeSec)
	case SetB:
		return setB(s, a.TimeSec)
	case TappedA:
		return tappedA(s)
	case TappedB:
		return tappedB(s)
	case ToggleLoopEnabled:
		return toggleLoop(s, env, a.Enabled)
	case AddMarker:
		s.Markers = append(s.Markers, Marker{ID: env.newID(), TimeSec: a.TimeSec})
		return nil
	case DeleteMarker:
		s.Markers = slices.DeleteFunc(s.Markers, func(m Marker) bool { return m.ID == a.ID })
		return nil
	case DismissToast:
		s.Toast = nil
		return nil
	}

	return nil
}

func togglePlay(s *State) []Command {
	if s.Transport.IsPlaying {
		s.Transport.IsPlaying = false
		return []Command{EnginePause{}}
	}

	s.Transport.IsPlaying = true
	return []Command{EnginePlay{FromSec: s.Transport.CurrentTimeSec}}
}

// scrubChanged never touches IsPlaying. While playing the audio keeps going
// and nothing is sent until the drag ends.
func scrubChanged(s *State, t float64) []Command {
	t = clamp(t, 0, s.Duration())
	s.Transport.CurrentTimeSec = t
	s.IsScrubbing = true

	if s.Transport.IsPlaying {
		return nil
	}
	return []Command{EngineSeek{TimeSec: t}}
}

func scrubEnded(s *State, t float64) []Command {
	t = clamp(t, 0, s.Duration())
	s.Transport.CurrentTimeSec = t
	s.IsScrubbing = false

	if s.Transport.IsPlaying {
		return []Command{EnginePlay{FromSec: t}}
	}
	return []Command{EngineSeek{TimeSec: t}}
}

// tick is ignored while scrubbing so the device clock cannot fight the
// user. Crossing B restarts at A.
func tick(s *State, t float64) []Command {
	if s.IsScrubbing {
		return nil
	}

	dur := s.Duration()
	if s.Loop.Active(dur) {
		a, b := s.Loop.Effective(dur)
		if t >= b {
			s.Transport.CurrentTimeSec = a
			return []Command{EnginePlay{FromSec: a}}
		}
	}

	s.Transport.CurrentTimeSec = t
	return nil
}

func importPicked(s *State, url string) []Command {
	s.Track = nil
	s.Peaks = nil
	s.Transport = Transport{Speed: DefaultSpeed}
	s.Loop = LoopPoints{}
	s.Markers = nil
	s.IsScrubbing = false
	s.IsLoading = true

	return []Command{EnginePause{}, EngineLoad{URL: url}}
}

// setA mirrors setB: a value past B swaps the two.
func setA(s *State, t float64) []Command {
	if s.Loop.B.Set && t > s.Loop.B.Sec {
		s.Loop.A, s.Loop.B = s.Loop.B, At(t)
	} else {
		s.Loop.A = At(t)
	}
	return loopCommand(s)
}

func setB(s *State, t float64) []Command {
	if s.Loop.A.Set && t < s.Loop.A.Sec {
		s.Loop.A, s.Loop.B = At(t), s.Loop.A
	} else {
		s.Loop.B = At(t)
	}
	return loopCommand(s)
}

// tappedA resets B instead of swapping when the tap lands after it.
func tappedA(s *State) []Command {
	t := s.Transport.CurrentTimeSec
	old := s.Loop.B
	s.Loop.A = At(t)
	if old.Set && t > old.Sec {
		s.Loop.B = Bound{}
	}
	return loopCommand(s)
}

func tappedB(s *State) []Command {
	t := s.Transport.CurrentTimeSec
	old := s.Loop.A
	s.Loop.B = At(t)
	if old.Set && t < old.Sec {
		s.Loop.A = Bound{}
	}
	return loopCommand(s)
}

func toggleLoop(s *State, env Env, enabled bool) []Command {
	if !enabled {
		s.Loop.Enabled = false
		return loopCommand(s)
	}

	if !s.Loop.A.Set || !s.Loop.B.Set {
		s.Loop.Enabled = false
		showToast(s, env, ToastSetAAndB)
		return nil
	}

	s.Loop.Enabled = true
	return loopCommand(s)
}

func loopCommand(s *State) []Command {
	return []Command{EngineSetLoop{A: s.Loop.A, B: s.Loop.B, Enabled: s.Loop.Enabled}}
}

func showToast(s *State, env Env, msg string) {
	s.Toast = &Toast{Message: msg, ShownAt: env.now()}
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	return max(lo, min(v, hi))
}
