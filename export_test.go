// SPDX-License-Identifier: EPL-2.0

package audpractice

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/formats/wav"
	"github.com/ik5/audpractice/internal/audiotest"
)

func decode(t *testing.T, data []byte) *audio.Buffer {
	t.Helper()

	src, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	buf, err := audio.ReadAll(context.Background(), src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return buf
}

func TestExportRegion(t *testing.T) {
	t.Parallel()

	track := audiotest.Buffer(8000, 2, 8000, func(int, int) float32 { return 0.5 })

	tests := []struct {
		name       string
		from, to   float64
		rate       int
		wantRate   int
		wantFrames int
		tolerance  int
	}{
		{"keeps rate", 0.25, 0.75, 0, 8000, 4000, 0},
		{"same rate", 0, 1, 8000, 8000, 8000, 0},
		{"clamps to track", -3, 40, 0, 8000, 8000, 0},
		{"upsample", 0.5, 1, 16000, 16000, 8000, 8},
		{"downsample", 0, 1, 4000, 4000, 4000, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			if err := ExportRegion(&out, track, tt.from, tt.to, tt.rate); err != nil {
				t.Fatalf("ExportRegion() error = %v", err)
			}

			got := decode(t, out.Bytes())
			if got.SampleRate() != tt.wantRate || got.Channels() != 1 {
				t.Errorf("format = %d Hz/%d ch, want %d Hz/1 ch", got.SampleRate(), got.Channels(), tt.wantRate)
			}
			if diff := got.Frames() - tt.wantFrames; diff < -tt.tolerance || diff > tt.tolerance {
				t.Errorf("frames = %d, want %d (±%d)", got.Frames(), tt.wantFrames, tt.tolerance)
			}

			mid := got.Frame(got.Frames() / 2)[0]
			if math.Abs(float64(mid)-0.5) > 1e-3 {
				t.Errorf("sample = %v, want ≈0.5", mid)
			}
		})
	}
}

func TestExportRegion_Empty(t *testing.T) {
	t.Parallel()

	track := audiotest.Buffer(8000, 1, 8000, audiotest.Ramp(0.0001))

	for _, r := range [][2]float64{{0.5, 0.5}, {0.75, 0.25}, {2, 3}} {
		if err := ExportRegion(&bytes.Buffer{}, track, r[0], r[1], 0); !errors.Is(err, ErrEmptyRegion) {
			t.Errorf("ExportRegion(%v) error = %v, want ErrEmptyRegion", r, err)
		}
	}
}

func TestMono16(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 2, 100, func(_ int, ch int) float32 {
		if ch == 0 {
			return 1
		}
		return 0
	})

	pcm, err := Mono16(context.Background(), src, 8000)
	if err != nil {
		t.Fatalf("Mono16() error = %v", err)
	}
	if len(pcm) != 100 {
		t.Fatalf("len = %d, want 100", len(pcm))
	}
	for i, s := range pcm {
		if s != 16383 {
			t.Fatalf("pcm[%d] = %d, want 16383", i, s)
		}
	}
}

func TestMono16_Errors(t *testing.T) {
	t.Parallel()

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()

		src := audiotest.NewSineSource(8000, 1, 8000, 440).FailAfter(10)
		if _, err := Mono16(context.Background(), src, 8000); !errors.Is(err, audiotest.ErrMockRead) {
			t.Errorf("Mono16() error = %v, want ErrMockRead", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := audiotest.NewSineSource(8000, 2, 8000, 440)
		if _, err := Mono16(ctx, src, 4000); !errors.Is(err, context.Canceled) {
			t.Errorf("Mono16() error = %v, want context.Canceled", err)
		}
	})
}

func TestToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{0.5, 16383},
		{-0.5, -16383},
		{1, 32767},
		{-1, -32767},
		{1.5, 32767},
		{-7, -32767},
	}

	for _, tt := range tests {
		if got := toInt16(tt.in); got != tt.want {
			t.Errorf("toInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkExportRegion(b *testing.B) {
	track := audiotest.Buffer(44100, 2, 44100*10, audiotest.Sine(44100, 440))

	b.ReportAllocs()
	for b.Loop() {
		if err := ExportRegion(&bytes.Buffer{}, track, 2, 6, 22050); err != nil {
			b.Fatal(err)
		}
	}
}
