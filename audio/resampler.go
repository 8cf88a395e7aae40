// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// Resampler streams from src to a target sample rate using Catmull-Rom
// cubic interpolation. Works on interleaved samples and preserves the
// channel count. A one-pole low-pass is applied to the input when
// downsampling.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window[1] and window[2] bracket the output position; window[0] and
	// window[3] are the outer taps.
	window [4][]float32
	valid  [4]bool
	primed bool
	done   bool
	pos    float64 // fractional position between window[1] and window[2]

	in     []float32
	cursor int
	filled int
	eof    bool

	lowpass []float32
	filter  bool
	seeded  bool
}

const lowpassAlpha = 0.5

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	ratio := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    ratio,
		channels: channels,
		in:       make([]float32, 4096-4096%max(channels, 1)),
		lowpass:  make([]float32, channels),
		filter:   ratio > 1,
	}
	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// TotalFrames estimates the output length from the source length hint.
func (r *Resampler) TotalFrames() int {
	sized, ok := r.src.(Sized)
	if !ok || sized.TotalFrames() <= 0 {
		return 0
	}

	return int(float64(sized.TotalFrames()) / r.ratio)
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is drained.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.cursor >= r.filled {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.filled = n - n%r.channels
		r.cursor = 0

		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("%w", err)
		}
	}

	copy(dst, r.in[r.cursor:r.cursor+r.channels])
	r.cursor += r.channels

	if r.filter {
		if !r.seeded {
			// Seed with the first frame to avoid a warm-up transient.
			copy(r.lowpass, dst)
			r.seeded = true
		}
		for c := range dst {
			dst[c] = lowpassAlpha*dst[c] + (1-lowpassAlpha)*r.lowpass[c]
			r.lowpass[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.nextFrame(r.window[1])
	if err != nil {
		return err
	}
	if !ok {
		r.done = true
		return nil
	}
	r.valid[1] = true
	copy(r.window[0], r.window[1])

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.window[i])
		if err != nil {
			return err
		}
		r.valid[i] = ok
	}

	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	r.window[0], r.window[1], r.window[2], r.window[3] = r.window[1], r.window[2], r.window[3], r.window[0]
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	ok, err := r.nextFrame(r.window[3])
	if err != nil {
		return err
	}
	r.valid[3] = ok

	if !r.valid[2] {
		r.done = true
	}

	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
		if r.valid[1] && !r.valid[2] {
			r.done = true
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for !r.done && r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if r.done {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			y0 := r.window[1][c]
			if r.valid[0] {
				y0 = r.window[0][c]
			}
			y3 := r.window[2][c]
			if r.valid[3] {
				y3 = r.window[3][c]
			}
			out[c] = cubic(y0, r.window[1][c], r.window[2][c], y3, x)
		}

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}

// cubic evaluates the Catmull-Rom spline through y0..y3 at x in [0,1]
// between y1 and y2.
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*x+a1)*x+a2)*x + y1
}
