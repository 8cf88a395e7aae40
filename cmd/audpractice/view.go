// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/ik5/audpractice/peaks"
	"github.com/ik5/audpractice/transport"
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

// formatTime renders seconds as m:ss.t.
func formatTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	tenths := int(math.Round(sec * 10))
	return fmt.Sprintf("%d:%02d.%d", tenths/600, tenths/10%60, tenths%10)
}

// waveform draws p in width columns. Column cursor, when in range, is
// drawn as a bar.
func waveform(p *peaks.WaveformPeaks, width, cursor int) string {
	var b strings.Builder
	for col := range width {
		if col == cursor {
			b.WriteRune('|')
			continue
		}
		if p == nil || p.Buckets == 0 {
			b.WriteRune('·')
			continue
		}

		lo := col * p.Buckets / width
		hi := max((col+1)*p.Buckets/width, lo+1)
		var amp float32
		for i := lo; i < min(hi, p.Buckets); i++ {
			amp = max(amp, p.Max[i], -p.Min[i])
		}

		idx := int(math.Round(float64(min(amp, 1)) * float64(len(levels)-1)))
		b.WriteRune(levels[idx])
	}

	return b.String()
}

// column maps a time to a waveform column, -1 without a track.
func column(sec, duration float64, width int) int {
	if duration <= 0 || width <= 0 {
		return -1
	}
	return min(int(sec/duration*float64(width)), width-1)
}

// statusLine is the one line summary under the waveform.
func statusLine(st *transport.State) string {
	if st.IsLoading {
		return "loading..."
	}
	if st.Track == nil {
		return "no track"
	}

	icon := "||"
	if st.Transport.IsPlaying {
		icon = "> "
	}

	parts := []string{
		fmt.Sprintf("%s %s / %s", icon, formatTime(st.Transport.CurrentTimeSec), formatTime(st.Track.DurationSec)),
		fmt.Sprintf("%.2fx", st.Transport.Speed),
		fmt.Sprintf("%+g st", st.Transport.PitchSemitones),
		loopLabel(st.Loop),
	}
	if n := len(st.Markers); n > 0 {
		parts = append(parts, fmt.Sprintf("%d markers", n))
	}

	return st.Track.Name + "  " + strings.Join(parts, "  ")
}

func loopLabel(l transport.LoopPoints) string {
	bound := func(b transport.Bound) string {
		if !b.Set {
			return "--"
		}
		return formatTime(b.Sec)
	}

	state := "off"
	if l.Enabled {
		state = "on"
	}
	return fmt.Sprintf("A %s B %s loop %s", bound(l.A), bound(l.B), state)
}

// render returns the full screen for st.
func render(st *transport.State, width int) string {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	b.WriteString("audpractice  space play  ←/→ scrub  [ ] speed  - = pitch  a/b set loop  l loop  m marker  n next marker  x delete marker  q quit\r\n\r\n")

	cursor := column(st.Transport.CurrentTimeSec, st.Duration(), width)
	b.WriteString(waveform(st.Peaks, width, cursor))
	b.WriteString("\r\n")
	b.WriteString(markerLine(st, width))
	b.WriteString("\r\n")
	b.WriteString(statusLine(st))
	b.WriteString("\r\n")
	if st.Toast != nil {
		b.WriteString(st.Toast.Message)
		b.WriteString("\r\n")
	}

	return b.String()
}

// markerLine places loop bounds and markers under the waveform.
func markerLine(st *transport.State, width int) string {
	line := []rune(strings.Repeat(" ", max(width, 0)))
	dur := st.Duration()

	put := func(sec float64, r rune) {
		if c := column(sec, dur, width); c >= 0 {
			line[c] = r
		}
	}
	for _, m := range st.Markers {
		put(m.TimeSec, '^')
	}
	if st.Loop.A.Set {
		put(st.Loop.A.Sec, 'A')
	}
	if st.Loop.B.Set {
		put(st.Loop.B.Sec, 'B')
	}

	return string(line)
}
