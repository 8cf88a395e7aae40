// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
	"math"
)

const readChunk = 4096

// Buffer is a fully decoded track held in memory as interleaved float32
// samples. It is never written to after construction, so it can be read
// from any number of goroutines; Slice returns views sharing the same
// backing array.
type Buffer struct {
	samples    []float32
	sampleRate int
	channels   int
}

// NewBuffer wraps interleaved samples. Trailing samples that do not form
// a whole frame are dropped.
func NewBuffer(samples []float32, sampleRate, channels int) *Buffer {
	if channels < 1 {
		channels = 1
	}
	whole := len(samples) - len(samples)%channels

	return &Buffer{
		samples:    samples[:whole],
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// ReadAll drains src into a Buffer. It does not close src.
func ReadAll(ctx context.Context, src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels < 1 {
		return nil, ErrInvalidChannels
	}

	var samples []float32
	if sized, ok := src.(Sized); ok && sized.TotalFrames() > 0 {
		samples = make([]float32, 0, sized.TotalFrames()*channels)
	}

	chunk := readChunk - readChunk%channels
	buf := make([]float32, chunk)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := src.ReadSamples(buf)
		if n > 0 {
			samples = append(samples, buf[:n]...)
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}

	return NewBuffer(samples, src.SampleRate(), channels), nil
}

func (b *Buffer) SampleRate() int { return b.sampleRate }
func (b *Buffer) Channels() int   { return b.channels }

// Frames is the number of sample frames in the buffer.
func (b *Buffer) Frames() int {
	return len(b.samples) / b.channels
}

// Duration is the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.sampleRate <= 0 {
		return 0
	}

	return float64(b.Frames()) / float64(b.sampleRate)
}

// Frame returns the samples of frame i, one per channel.
func (b *Buffer) Frame(i int) []float32 {
	start := i * b.channels
	return b.samples[start : start+b.channels]
}

// Samples exposes the interleaved data. Callers must not modify it.
func (b *Buffer) Samples() []float32 {
	return b.samples
}

// FrameAt converts a time in seconds to a frame index clamped to
// [0, Frames()].
func (b *Buffer) FrameAt(sec float64) int {
	if sec <= 0 || math.IsNaN(sec) {
		return 0
	}

	f := int(math.Round(sec * float64(b.sampleRate)))
	if f > b.Frames() {
		return b.Frames()
	}

	return f
}

// Slice returns the frames [from, to) as a Buffer sharing storage with b.
// Bounds are clamped; an inverted range yields an empty buffer.
func (b *Buffer) Slice(from, to int) *Buffer {
	frames := b.Frames()
	from = min(max(from, 0), frames)
	to = min(max(to, from), frames)

	return &Buffer{
		samples:    b.samples[from*b.channels : to*b.channels],
		sampleRate: b.sampleRate,
		channels:   b.channels,
	}
}

// SliceTime is Slice in seconds.
func (b *Buffer) SliceTime(fromSec, toSec float64) *Buffer {
	return b.Slice(b.FrameAt(fromSec), b.FrameAt(toSec))
}

// Source returns a fresh reader over the buffer.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int // in samples
}

func (s *bufferSource) SampleRate() int  { return s.buf.sampleRate }
func (s *bufferSource) Channels() int    { return s.buf.channels }
func (s *bufferSource) BufSize() int     { return readChunk }
func (s *bufferSource) Close() error     { return nil }
func (s *bufferSource) TotalFrames() int { return s.buf.Frames() }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.buf.samples) {
		return 0, io.EOF
	}

	n := copy(dst, s.buf.samples[s.pos:])
	s.pos += n

	if s.pos >= len(s.buf.samples) {
		return n, io.EOF
	}

	return n, nil
}
