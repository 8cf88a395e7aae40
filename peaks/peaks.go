// SPDX-License-Identifier: EPL-2.0

// Package peaks computes min/max amplitude buckets of a track for waveform
// rendering. Results are immutable and have no effect on playback.
package peaks

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ik5/audpractice/audio"
)

var (
	ErrInvalidBuckets    = errors.New("bucket count must be positive")
	ErrUnsupportedFormat = errors.New("no decoder for file extension")
)

// WaveformPeaks holds one min and one max per bucket over the mono
// down-mix of a track.
type WaveformPeaks struct {
	Min         []float32
	Max         []float32
	Buckets     int
	DurationSec float64
}

// Compute drains src, mixes it to mono by unweighted average and splits it
// into min(buckets, sampleCount) equal-width buckets.
func Compute(ctx context.Context, src audio.Source, buckets int) (*WaveformPeaks, error) {
	if buckets <= 0 {
		return nil, ErrInvalidBuckets
	}

	mono, err := audio.ReadAll(ctx, audio.NewMonoMixer(src))
	if err != nil {
		return nil, fmt.Errorf("computing peaks: %w", err)
	}

	return fromMono(ctx, mono, buckets)
}

// ComputeBuffer is Compute over an already decoded buffer.
func ComputeBuffer(ctx context.Context, buf *audio.Buffer, buckets int) (*WaveformPeaks, error) {
	return Compute(ctx, buf.Source(), buckets)
}

// ComputeFile decodes the file at path with the decoder registered for its
// extension.
func ComputeFile(ctx context.Context, path string, reg *audio.Registry, buckets int) (*WaveformPeaks, error) {
	dec, ok := reg.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	return Compute(ctx, src, buckets)
}

func fromMono(ctx context.Context, mono *audio.Buffer, target int) (*WaveformPeaks, error) {
	samples := mono.Samples()
	count := len(samples)
	n := min(target, count)

	p := &WaveformPeaks{
		Min:         make([]float32, n),
		Max:         make([]float32, n),
		Buckets:     n,
		DurationSec: mono.Duration(),
	}

	for i := range n {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		lo := i * count / n
		hi := (i + 1) * count / n
		bucketMin, bucketMax := samples[lo], samples[lo]
		for _, v := range samples[lo+1 : hi] {
			bucketMin = min(bucketMin, v)
			bucketMax = max(bucketMax, v)
		}
		p.Min[i] = bucketMin
		p.Max[i] = bucketMax
	}

	return p, nil
}
