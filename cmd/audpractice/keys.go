// SPDX-License-Identifier: EPL-2.0

package main

import (
	"cmp"
	"slices"

	"github.com/ik5/audpractice/internal/config"
	"github.com/ik5/audpractice/transport"
)

const (
	keyCtrlC = 0x03
	keyEsc   = 0x1b
)

var (
	arrowLeft  = []byte{keyEsc, '[', 'D'}
	arrowRight = []byte{keyEsc, '[', 'C'}
)

// keyAction maps one key press, as read from a raw terminal, to an action
// against the current state. It reports quit for q and Ctrl-C, and a nil
// action for unbound keys.
func keyAction(key []byte, st *transport.State, cfg config.Config) (a transport.Action, quit bool) {
	now := st.Transport.CurrentTimeSec
	scrub := cfg.ScrubStep.Seconds()

	switch {
	case slices.Equal(key, arrowLeft):
		return transport.ScrubEnded{TimeSec: now - scrub}, false
	case slices.Equal(key, arrowRight):
		return transport.ScrubEnded{TimeSec: now + scrub}, false
	case len(key) != 1:
		return nil, false
	}

	switch key[0] {
	case 'q', keyCtrlC:
		return nil, true
	case ' ':
		return transport.TogglePlay{}, false
	case '[':
		return transport.SpeedDelta{Delta: -cfg.SpeedStep}, false
	case ']':
		return transport.SpeedDelta{Delta: cfg.SpeedStep}, false
	case '-':
		return transport.PitchDelta{Delta: -cfg.PitchStep}, false
	case '=', '+':
		return transport.PitchDelta{Delta: cfg.PitchStep}, false
	case 'a':
		return transport.TappedA{}, false
	case 'b':
		return transport.TappedB{}, false
	case 'l':
		return transport.ToggleLoopEnabled{Enabled: !st.Loop.Enabled}, false
	case 'r':
		return transport.ScrubEnded{TimeSec: st.Loop.A.Or(0)}, false
	case 'm':
		return transport.AddMarker{TimeSec: now}, false
	case 'n':
		if m, ok := nextMarker(st.Markers, now); ok {
			return transport.ScrubEnded{TimeSec: m.TimeSec}, false
		}
	case 'x':
		if n := len(st.Markers); n > 0 {
			return transport.DeleteMarker{ID: st.Markers[n-1].ID}, false
		}
	case keyEsc:
		return transport.DismissToast{}, false
	}

	return nil, false
}

// nextMarker returns the earliest marker after t, wrapping to the first.
func nextMarker(markers []transport.Marker, t float64) (transport.Marker, bool) {
	if len(markers) == 0 {
		return transport.Marker{}, false
	}

	sorted := slices.Clone(markers)
	slices.SortFunc(sorted, func(a, b transport.Marker) int {
		return cmp.Compare(a.TimeSec, b.TimeSec)
	})

	// Skip markers within a tick of t so repeated presses advance.
	const epsilon = 0.05
	for _, m := range sorted {
		if m.TimeSec > t+epsilon {
			return m, true
		}
	}
	return sorted[0], true
}
