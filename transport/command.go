// SPDX-License-Identifier: EPL-2.0

package transport

import "fmt"

// Command is an instruction for the playback executor. Reduce returns
// commands as its only side effect.
type Command interface {
	isCommand()
}

type (
	EngineLoad struct{ URL string }

	// EnginePlay (re)schedules playback from FromSec.
	EnginePlay struct{ FromSec float64 }

	EnginePause struct{}
	EngineSeek  struct{ TimeSec float64 }

	EngineSetRate           struct{ Rate float64 }
	EngineSetPitchSemitones struct{ Semitones float64 }

	// EngineSetLoop carries the raw bounds; the executor derives the
	// effective ones from the loaded track.
	EngineSetLoop struct {
		A       Bound
		B       Bound
		Enabled bool
	}

	// ComputePeaks asks for the waveform of the loaded track.
	ComputePeaks struct{}
)

func (EngineLoad) isCommand()              {}
func (EnginePlay) isCommand()              {}
func (EnginePause) isCommand()             {}
func (EngineSeek) isCommand()              {}
func (EngineSetRate) isCommand()           {}
func (EngineSetPitchSemitones) isCommand() {}
func (EngineSetLoop) isCommand()           {}
func (ComputePeaks) isCommand()            {}

func (c EnginePlay) String() string { return fmt.Sprintf("EnginePlay(%.3f)", c.FromSec) }
func (c EngineSeek) String() string { return fmt.Sprintf("EngineSeek(%.3f)", c.TimeSec) }
