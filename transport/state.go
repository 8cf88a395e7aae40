// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audpractice/peaks"
)

const (
	MinSpeed     = 0.25
	MaxSpeed     = 2.0
	DefaultSpeed = 1.0

	MinPitch = -12.0
	MaxPitch = 12.0
)

// Track is immutable once loaded and replaced wholesale on import.
type Track struct {
	Name        string
	DurationSec float64
}

// Transport is the play/pause/position/speed/pitch state of the track.
type Transport struct {
	CurrentTimeSec float64
	IsPlaying      bool
	Speed          float64
	PitchSemitones float64
}

// Bound is an optional loop bound.
type Bound struct {
	Sec float64
	Set bool
}

// At returns a set bound.
func At(sec float64) Bound { return Bound{Sec: sec, Set: true} }

// Or returns the bound value, or def when unset.
func (b Bound) Or(def float64) float64 {
	if b.Set {
		return b.Sec
	}
	return def
}

// LoopPoints holds the A/B loop. Effective bounds are derived, never
// stored.
type LoopPoints struct {
	A       Bound
	B       Bound
	Enabled bool
}

// Effective returns the bounds used for boundary checks: A defaults to
// zero and B to the track duration.
func (l LoopPoints) Effective(duration float64) (a, b float64) {
	return l.A.Or(0), l.B.Or(duration)
}

// Active reports whether the loop is enabled and well formed. An empty or
// inverted loop is treated as disabled.
func (l LoopPoints) Active(duration float64) bool {
	a, b := l.Effective(duration)
	return l.Enabled && a < b
}

type Marker struct {
	ID      uuid.UUID
	TimeSec float64
}

// Toast is a transient notification.
type Toast struct {
	Message string
	ShownAt time.Time
}

// State is the aggregate root. Only Reduce mutates it.
type State struct {
	Track       *Track
	Transport   Transport
	Loop        LoopPoints
	Markers     []Marker
	IsScrubbing bool
	IsLoading   bool
	Toast       *Toast
	Peaks       *peaks.WaveformPeaks
}

// NewState returns the session defaults: no track, paused, speed 1, pitch 0.
func NewState() *State {
	return &State{
		Transport: Transport{Speed: DefaultSpeed},
	}
}

// Duration is the loaded track length, zero without a track.
func (s *State) Duration() float64 {
	if s.Track == nil {
		return 0
	}
	return s.Track.DurationSec
}

// Clone returns a deep copy safe to hand to another goroutine. Peaks are
// immutable and shared.
func (s *State) Clone() *State {
	c := *s
	if s.Track != nil {
		t := *s.Track
		c.Track = &t
	}
	if s.Toast != nil {
		t := *s.Toast
		c.Toast = &t
	}
	if s.Markers != nil {
		c.Markers = append([]Marker(nil), s.Markers...)
	}
	return &c
}
