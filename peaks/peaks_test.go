// SPDX-License-Identifier: EPL-2.0

package peaks_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audpractice/formats"
	"github.com/ik5/audpractice/formats/wav"
	"github.com/ik5/audpractice/internal/audiotest"
	"github.com/ik5/audpractice/peaks"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		frames   int
		buckets  int
		wantMin  []float32
		wantMax  []float32
		wantSize int
	}{
		{"even split", 10, 5, []float32{0, 2, 4, 6, 8}, []float32{1, 3, 5, 7, 9}, 5},
		{"uneven split", 7, 3, []float32{0, 2, 4}, []float32{1, 3, 6}, 3},
		{"more buckets than samples", 3, 10, []float32{0, 1, 2}, []float32{0, 1, 2}, 3},
		{"empty", 0, 8, []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewMockSource(10, 1, tt.frames, audiotest.Ramp(1))
			p, err := peaks.Compute(context.Background(), src, tt.buckets)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}

			if p.Buckets != tt.wantSize || len(p.Min) != tt.wantSize || len(p.Max) != tt.wantSize {
				t.Fatalf("Buckets = %d (min %d, max %d), want %d", p.Buckets, len(p.Min), len(p.Max), tt.wantSize)
			}
			for i := range tt.wantMin {
				if p.Min[i] != tt.wantMin[i] || p.Max[i] != tt.wantMax[i] {
					t.Errorf("bucket %d = [%v, %v], want [%v, %v]", i, p.Min[i], p.Max[i], tt.wantMin[i], tt.wantMax[i])
				}
			}
		})
	}
}

func TestCompute_DownMixesByAverage(t *testing.T) {
	t.Parallel()

	// Left at +0.8, right at -0.4: the mono mix sits at 0.2.
	src := audiotest.NewMockSource(100, 2, 400, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.8
		}
		return -0.4
	})

	p, err := peaks.Compute(context.Background(), src, 4)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for i := range p.Buckets {
		if math.Abs(float64(p.Min[i])-0.2) > 1e-6 || math.Abs(float64(p.Max[i])-0.2) > 1e-6 {
			t.Errorf("bucket %d = [%v, %v], want [0.2, 0.2]", i, p.Min[i], p.Max[i])
		}
	}
	if p.DurationSec != 4 {
		t.Errorf("DurationSec = %v, want 4", p.DurationSec)
	}
}

func TestCompute_Errors(t *testing.T) {
	t.Parallel()

	if _, err := peaks.Compute(context.Background(), audiotest.NewSilentSource(10, 1, 10), 0); !errors.Is(err, peaks.ErrInvalidBuckets) {
		t.Errorf("zero buckets error = %v, want ErrInvalidBuckets", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := peaks.Compute(ctx, audiotest.NewSilentSource(10, 1, 10), 4); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled error = %v, want context.Canceled", err)
	}

	src := audiotest.NewSilentSource(10, 1, 100).FailAfter(50)
	if _, err := peaks.Compute(context.Background(), src, 4); !errors.Is(err, audiotest.ErrMockRead) {
		t.Errorf("source error = %v, want ErrMockRead", err)
	}
}

func TestComputeBuffer(t *testing.T) {
	t.Parallel()

	buf := audiotest.Buffer(1000, 2, 2000, audiotest.Sine(1000, 5))
	p, err := peaks.ComputeBuffer(context.Background(), buf, 10)
	if err != nil {
		t.Fatalf("ComputeBuffer() error = %v", err)
	}

	if p.Buckets != 10 || p.DurationSec != 2 {
		t.Fatalf("got %d buckets over %vs, want 10 over 2s", p.Buckets, p.DurationSec)
	}
	for i := range p.Buckets {
		if p.Min[i] > p.Max[i] {
			t.Errorf("bucket %d min %v > max %v", i, p.Min[i], p.Max[i])
		}
		if p.Max[i] < 0.9 || p.Min[i] > -0.9 {
			t.Errorf("bucket %d = [%v, %v] does not span a full cycle", i, p.Min[i], p.Max[i])
		}
	}
}

func TestComputeFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "take.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	samples := make([]int16, 800)
	for i := range samples {
		samples[i] = int16(i * 40)
	}
	if err := wav.WriteWAV16(f, 8000, 1, samples); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := peaks.ComputeFile(context.Background(), path, formats.NewRegistry(), 8)
	if err != nil {
		t.Fatalf("ComputeFile() error = %v", err)
	}
	if p.Buckets != 8 || p.DurationSec != 0.1 {
		t.Fatalf("got %d buckets over %vs", p.Buckets, p.DurationSec)
	}
	if want := float32(99*40) / 32768; p.Max[0] != want {
		t.Errorf("first bucket max = %v, want %v", p.Max[0], want)
	}
}

func TestComputeFile_Errors(t *testing.T) {
	t.Parallel()

	reg := formats.NewRegistry()

	if _, err := peaks.ComputeFile(context.Background(), "notes.txt", reg, 8); !errors.Is(err, peaks.ErrUnsupportedFormat) {
		t.Errorf("unknown extension error = %v, want ErrUnsupportedFormat", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.wav")
	if _, err := peaks.ComputeFile(context.Background(), missing, reg, 8); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func BenchmarkCompute(b *testing.B) {
	b.ReportAllocs()

	for b.Loop() {
		src := audiotest.NewSineSource(44100, 2, 44100*10, 440)
		if _, err := peaks.Compute(context.Background(), src, 1024); err != nil {
			b.Fatal(err)
		}
	}
}
