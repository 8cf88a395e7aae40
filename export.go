// SPDX-License-Identifier: EPL-2.0

package audpractice

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/formats/wav"
)

var ErrEmptyRegion = errors.New("export region is empty")

// ExportRegion writes the frames between fromSec and toSec of buf to w as
// a mono 16-bit WAV at rate Hz. Bounds are clamped to the buffer. A rate
// of zero or less keeps the buffer's rate.
func ExportRegion(w io.Writer, buf *audio.Buffer, fromSec, toSec float64, rate int) error {
	region := buf.SliceTime(fromSec, toSec)
	if region.Frames() == 0 {
		return ErrEmptyRegion
	}
	if rate <= 0 {
		rate = buf.SampleRate()
	}

	pcm, err := Mono16(context.Background(), region.Source(), rate)
	if err != nil {
		return fmt.Errorf("rendering region: %w", err)
	}

	return wav.WriteWAV16(w, rate, 1, pcm)
}

// Mono16 drains src through a resampler to rate and a mono mixer and
// returns the result as 16-bit PCM. The source is not closed.
func Mono16(ctx context.Context, src audio.Source, rate int) ([]int16, error) {
	var s audio.Source = src
	if src.SampleRate() != rate {
		s = audio.NewResampler(s, rate)
	}
	if s.Channels() != 1 {
		s = audio.NewMonoMixer(s)
	}

	mono, err := audio.ReadAll(ctx, s)
	if err != nil {
		return nil, err
	}

	samples := mono.Samples()
	pcm := make([]int16, len(samples))
	for i, x := range samples {
		pcm[i] = toInt16(x)
	}

	return pcm, nil
}

// toInt16 clamps x to [-1, 1] and scales by 32767 so that +1 does not
// overflow.
func toInt16(x float32) int16 {
	x = min(max(x, -1), 1)
	return int16(x * 32767)
}
