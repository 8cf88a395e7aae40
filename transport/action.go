// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"github.com/google/uuid"

	"github.com/ik5/audpractice/peaks"
)

// Action is an input to Reduce. It is implemented by the types in this
// file only.
type Action interface {
	isAction()
}

type (
	TogglePlay struct{}

	// ScrubChanged is sent while the user drags the position.
	ScrubChanged struct{ TimeSec float64 }

	// ScrubEnded is sent when the drag is released.
	ScrubEnded struct{ TimeSec float64 }

	// Tick is a position report from the executor.
	Tick struct{ TimeSec float64 }

	// PlaybackFinished reports a natural end of a non-looping region.
	PlaybackFinished struct{}

	// PlaybackFailed reports that the device could not start.
	PlaybackFailed struct{ Message string }

	SpeedDelta struct{ Delta float64 }
	PitchDelta struct{ Delta float64 }

	ImportPicked    struct{ URL string }
	ImportSucceeded struct{ Track Track }
	ImportFailed    struct{ Message string }

	// PeaksComputed carries the waveform of the current track.
	PeaksComputed struct{ Peaks *peaks.WaveformPeaks }

	SetA struct{ TimeSec float64 }
	SetB struct{ TimeSec float64 }

	// TappedA and TappedB set a bound at the current position.
	TappedA struct{}
	TappedB struct{}

	ToggleLoopEnabled struct{ Enabled bool }

	AddMarker    struct{ TimeSec float64 }
	DeleteMarker struct{ ID uuid.UUID }

	DismissToast struct{}
)

func (TogglePlay) isAction()        {}
func (ScrubChanged) isAction()      {}
func (ScrubEnded) isAction()        {}
func (Tick) isAction()              {}
func (PlaybackFinished) isAction()  {}
func (PlaybackFailed) isAction()    {}
func (SpeedDelta) isAction()        {}
func (PitchDelta) isAction()        {}
func (ImportPicked) isAction()      {}
func (ImportSucceeded) isAction()   {}
func (ImportFailed) isAction()      {}
func (PeaksComputed) isAction()     {}
func (SetA) isAction()              {}
func (SetB) isAction()              {}
func (TappedA) isAction()           {}
func (TappedB) isAction()           {}
func (ToggleLoopEnabled) isAction() {}
func (AddMarker) isAction()         {}
func (DeleteMarker) isAction()      {}
func (DismissToast) isAction()      {}
