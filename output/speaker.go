// SPDX-License-Identifier: EPL-2.0

package output

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/ik5/audpractice/engine"
)

var ErrRateMismatch = errors.New("region sample rate does not match the speaker")

// Speaker is an engine.Device on the system audio output. Speed changes
// are varispeed through a beep resampler; pitch shifting is not
// implemented and only logged.
type Speaker struct {
	sampleRate beep.SampleRate
	quality    int
	log        *zap.Logger

	mu        sync.Mutex
	stream    *regionStreamer
	resampler *beep.Resampler
	rate      float64
	warned    bool
}

// NewSpeaker opens the default output at sampleRate with a buffer of
// bufferMS milliseconds. quality is the beep resampling quality, 1 to 64.
func NewSpeaker(sampleRate, bufferMS, quality int, log *zap.Logger) (*Speaker, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Duration(bufferMS)*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}
	log.Info("speaker ready", zap.Int("sample_rate", sampleRate), zap.Int("buffer_ms", bufferMS))

	return &Speaker{
		sampleRate: sr,
		quality:    max(1, min(quality, 64)),
		log:        log,
		rate:       1,
	}, nil
}

func (s *Speaker) Schedule(r engine.Region, done func()) error {
	if err := s.checkRate(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	speaker.Clear()

	stream := newRegionStreamer(r)
	resampler := beep.ResampleRatio(s.quality, s.rate, stream)
	s.stream = stream
	s.resampler = resampler

	speaker.Play(beep.Seq(resampler, beep.Callback(done)))
	return nil
}

func (s *Speaker) checkRate(r engine.Region) error {
	if r.Lead != nil && r.Lead.SampleRate() != int(s.sampleRate) {
		return fmt.Errorf("%w: %d Hz", ErrRateMismatch, r.Lead.SampleRate())
	}
	if r.Loop != nil && r.Loop.SampleRate() != int(s.sampleRate) {
		return fmt.Errorf("%w: %d Hz", ErrRateMismatch, r.Loop.SampleRate())
	}
	return nil
}

// Stop clears the output. The pending completion callback is dropped, not
// called.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	speaker.Clear()
	s.stream = nil
	s.resampler = nil
}

func (s *Speaker) PlayedFrames() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return 0
	}
	return s.stream.Played()
}

func (s *Speaker) SetRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = rate
	if s.resampler == nil {
		return
	}

	speaker.Lock()
	s.resampler.SetRatio(rate)
	speaker.Unlock()
}

func (s *Speaker) SetPitch(semitones float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if semitones != 0 && !s.warned {
		s.log.Warn("pitch shifting is not supported by the speaker output", zap.Float64("semitones", semitones))
		s.warned = true
	}
}

func (s *Speaker) Close() error {
	s.Stop()
	speaker.Close()
	return nil
}
