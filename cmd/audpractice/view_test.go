// SPDX-License-Identifier: EPL-2.0

package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ik5/audpractice/peaks"
	"github.com/ik5/audpractice/transport"
)

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00.0"},
		{-4, "0:00.0"},
		{9.96, "0:10.0"},
		{61.25, "1:01.3"},
		{754.5, "12:34.5"},
	}

	for _, tt := range tests {
		if got := formatTime(tt.sec); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

func TestWaveform(t *testing.T) {
	t.Parallel()

	p := &peaks.WaveformPeaks{
		Buckets: 4,
		Min:     []float32{0, -0.5, -1, 0},
		Max:     []float32{0, 0.25, 0.5, 2},
	}

	tests := []struct {
		name   string
		width  int
		cursor int
		want   string
	}{
		{"one column per bucket", 4, -1, " ▄██"},
		{"cursor", 4, 1, " |██"},
		{"stretched", 8, -1, "  ▄▄████"},
		{"squeezed", 2, -1, "▄█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := waveform(p, tt.width, tt.cursor); got != tt.want {
				t.Errorf("waveform() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := waveform(nil, 5, 2); got != "··|··" {
		t.Errorf("waveform(nil) = %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	st := transport.NewState()
	if got := statusLine(st); got != "no track" {
		t.Errorf("statusLine() = %q, want no track", got)
	}

	st.Track = &transport.Track{Name: "solo", DurationSec: 95}
	st.Transport.CurrentTimeSec = 12.5
	st.Transport.IsPlaying = true
	st.Transport.Speed = 0.75
	st.Transport.PitchSemitones = -2
	st.Loop = transport.LoopPoints{A: transport.At(10), Enabled: true}
	st.Markers = []transport.Marker{{TimeSec: 3}}

	want := "solo  > 0:12.5 / 1:35.0  0.75x  -2 st  A 0:10.0 B -- loop on  1 markers"
	if got := statusLine(st); got != want {
		t.Errorf("statusLine() =\n%q\nwant\n%q", got, want)
	}

	st.IsLoading = true
	if got := statusLine(st); got != "loading..." {
		t.Errorf("statusLine() = %q while loading", got)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	st := transport.NewState()
	st.Track = &transport.Track{Name: "solo", DurationSec: 100}
	st.Transport.CurrentTimeSec = 50
	st.Loop = transport.LoopPoints{A: transport.At(10), B: transport.At(90)}
	st.Markers = []transport.Marker{{TimeSec: 25}}
	st.Toast = &transport.Toast{Message: "Speed 0.90x"}

	screen := render(st, 20)
	lines := strings.Split(screen, "\r\n")

	if got := lines[2]; utf8.RuneCountInString(got) != 20 || []rune(got)[10] != '|' {
		t.Errorf("waveform line = %q, want cursor at column 10", got)
	}
	if got, want := lines[3], "  A  ^            B "; got != want {
		t.Errorf("marker line = %q, want %q", got, want)
	}
	if !strings.Contains(screen, "Speed 0.90x") {
		t.Error("toast not rendered")
	}
}
