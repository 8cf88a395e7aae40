// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides generated audio for tests.
package audiotest

import (
	"errors"
	"io"
	"math"

	"github.com/ik5/audpractice/audio"
)

// Waveform yields the value of one sample.
type Waveform func(frame int, channel int) float32

// MockSource generates totalFrames frames of a waveform. It implements
// audio.Source and audio.Sized.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    Waveform
	failAfter   int
	closed      bool
}

// ErrMockRead is returned by sources built with FailAfter.
var ErrMockRead = errors.New("mock read failure")

func NewMockSource(sampleRate, channels, totalFrames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		failAfter:   -1,
	}
}

func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

// NewSineSource generates the same sine on every channel.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, Sine(sampleRate, frequency))
}

func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 {
		return value
	})
}

// Sine returns a sine waveform at frequency Hz.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Ramp returns a waveform whose value is the frame index scaled by step,
// handy for checking which frames ended up where.
func Ramp(step float32) Waveform {
	return func(frame int, _ int) float32 {
		return float32(frame) * step
	}
}

// FailAfter makes ReadSamples return ErrMockRead once frames have been
// produced.
func (m *MockSource) FailAfter(frames int) *MockSource {
	m.failAfter = frames
	return m
}

func (m *MockSource) SampleRate() int  { return m.sampleRate }
func (m *MockSource) Channels() int    { return m.channels }
func (m *MockSource) BufSize() int     { return 4096 }
func (m *MockSource) TotalFrames() int { return m.totalFrames }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.failAfter >= 0 && m.generated >= m.failAfter {
		return 0, ErrMockRead
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.failAfter >= 0 {
		frames = min(frames, m.failAfter-m.generated)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}

	return frames * m.channels, nil
}

// Buffer renders a waveform straight into an audio.Buffer.
func Buffer(sampleRate, channels, totalFrames int, waveform Waveform) *audio.Buffer {
	samples := make([]float32, totalFrames*channels)
	for f := range totalFrames {
		for ch := range channels {
			samples[f*channels+ch] = waveform(f, ch)
		}
	}

	return audio.NewBuffer(samples, sampleRate, channels)
}
