// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ik5/audpractice/audio"
	"github.com/ik5/audpractice/formats"
	"github.com/ik5/audpractice/peaks"
	"github.com/ik5/audpractice/transport"
)

const (
	DefaultSampleRate   = 44100
	DefaultTickInterval = 33 * time.Millisecond
	DefaultPeakBuckets  = 1024

	eventBuffer = 64
)

type Config struct {
	// SampleRate is the rate tracks are resampled to, normally the
	// device rate.
	SampleRate   int
	TickInterval time.Duration
	PeakBuckets  int
	Registry     *audio.Registry
	// PeakComputer defaults to peaks.ComputeBuffer.
	PeakComputer PeakComputer
}

// PeakComputer builds the waveform overview of a loaded track.
type PeakComputer func(ctx context.Context, buf *audio.Buffer, buckets int) (*peaks.WaveformPeaks, error)

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.PeakBuckets <= 0 {
		c.PeakBuckets = DefaultPeakBuckets
	}
	if c.Registry == nil {
		c.Registry = formats.NewRegistry()
	}
	if c.PeakComputer == nil {
		c.PeakComputer = peaks.ComputeBuffer
	}
	return c
}

// Engine executes transport commands against a Device. It keeps no
// authoritative position: every EnginePlay says where to start.
type Engine struct {
	dev    Device
	cfg    Config
	log    *zap.Logger
	events chan transport.Action

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// restarting is set while the engine itself stops a region so the
	// completion callback of the old region is not reported.
	restarting atomic.Bool
	// region increments on every Schedule and Stop; callbacks carry the
	// value they were scheduled with.
	region atomic.Uint64
	// finished hands completed regions to the finisher goroutine. Only the
	// newest one matters.
	finished chan uint64

	mu       sync.Mutex
	buf      *audio.Buffer
	track    transport.Track
	loop     transport.LoopPoints
	offset   float64
	playing  bool
	loadGen  uint64
	pollStop context.CancelFunc
	pollDone chan struct{}
}

func New(dev Device, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		dev:      dev,
		cfg:      cfg.withDefaults(),
		log:      log,
		events:   make(chan transport.Action, eventBuffer),
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan uint64, 1),
	}

	e.wg.Add(1)
	go e.finisher()

	return e
}

// Events delivers Tick, PlaybackFinished, ImportSucceeded, ImportFailed
// and PeaksComputed. Ticks are dropped when the reader falls behind; the
// others are not.
func (e *Engine) Events() <-chan transport.Action { return e.events }

// Execute performs cmd. Failures of EngineLoad are also reported as
// ImportFailed on Events.
func (e *Engine) Execute(ctx context.Context, cmd transport.Command) error {
	switch c := cmd.(type) {
	case transport.EngineLoad:
		return e.load(ctx, c.URL)
	case transport.EnginePlay:
		return e.Play(c.FromSec)
	case transport.EnginePause:
		e.Pause()
	case transport.EngineSeek:
		return e.Seek(c.TimeSec)
	case transport.EngineSetRate:
		e.log.Debug("set rate", zap.Float64("rate", c.Rate))
		e.dev.SetRate(c.Rate)
	case transport.EngineSetPitchSemitones:
		e.log.Debug("set pitch", zap.Float64("semitones", c.Semitones))
		e.dev.SetPitch(c.Semitones)
	case transport.EngineSetLoop:
		return e.SetLoop(transport.LoopPoints{A: c.A, B: c.B, Enabled: c.Enabled})
	case transport.ComputePeaks:
		e.computePeaks()
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}

	return nil
}

func (e *Engine) load(ctx context.Context, rawURL string) error {
	track, err := e.Load(ctx, rawURL)
	if err != nil {
		e.emit(transport.ImportFailed{Message: FailureMessage(err)})
		return err
	}

	e.emit(transport.ImportSucceeded{Track: track})
	return nil
}

// Load decodes the file at rawURL, a path or file:// URL, into memory at
// the configured rate. It replaces the current track, resets the loop and
// returns the device to rate 1 and pitch 0. On failure nothing stays
// loaded.
func (e *Engine) Load(ctx context.Context, rawURL string) (transport.Track, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return e.loadFailed(&LoadError{Path: rawURL, Kind: ErrLoadFailed, Err: err})
		}
		path = u.Path
	}

	e.mu.Lock()
	e.stopLocked()
	// Peaks still running for the previous track are stale from here on.
	e.loadGen++
	e.mu.Unlock()

	start := time.Now()
	e.log.Info("loading track", zap.String("path", path))

	buf, err := e.decode(ctx, path)
	if err != nil {
		return e.loadFailed(err)
	}

	track := transport.Track{
		Name:        strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		DurationSec: buf.Duration(),
	}

	e.mu.Lock()
	e.buf = buf
	e.track = track
	e.loop = transport.LoopPoints{}
	e.offset = 0
	e.mu.Unlock()

	e.dev.SetRate(1)
	e.dev.SetPitch(0)

	e.log.Info("track loaded",
		zap.String("path", path),
		zap.Duration("took", time.Since(start)),
		zap.Int("frames", buf.Frames()),
		zap.Int("sample_rate", buf.SampleRate()),
		zap.Float64("duration_sec", track.DurationSec),
	)

	return track, nil
}

func (e *Engine) loadFailed(err error) (transport.Track, error) {
	e.mu.Lock()
	e.buf = nil
	e.track = transport.Track{}
	e.loop = transport.LoopPoints{}
	e.offset = 0
	e.mu.Unlock()

	e.log.Error("load failed", zap.Error(err))
	return transport.Track{}, err
}

func (e *Engine) decode(ctx context.Context, path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Path: path, Kind: ErrFileNotFound, Err: err}
	}
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrLoadFailed, Err: err}
	}
	defer f.Close()

	dec, ok := e.cfg.Registry.ForPath(path)
	if !ok {
		return nil, &LoadError{Path: path, Kind: ErrInvalidFormat}
	}

	src, err := dec.Decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrInvalidFormat, Err: err}
	}
	defer src.Close()

	if src.Channels() < 1 || src.SampleRate() <= 0 {
		return nil, &LoadError{Path: path, Kind: ErrInvalidFormat}
	}

	var s audio.Source = src
	if src.SampleRate() != e.cfg.SampleRate {
		s = audio.NewResampler(src, e.cfg.SampleRate)
	}

	buf, err := audio.ReadAll(ctx, s)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: ErrLoadFailed, Err: err}
	}
	if buf.Frames() == 0 {
		return nil, &LoadError{Path: path, Kind: ErrInvalidFormat, Err: errors.New("no audio frames")}
	}

	return buf, nil
}

// Play (re)schedules playback from fromSec. It returns once the region is
// scheduled.
func (e *Engine) Play(fromSec float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf == nil {
		return ErrNotLoaded
	}

	return e.scheduleLocked(fromSec)
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.playing {
		e.offset = e.positionLocked()
	}
	e.stopLocked()
	e.log.Debug("paused", zap.Float64("at", e.offset))
}

// Seek while paused only records the position for the next Play. While
// playing it restarts at timeSec. Without a track it does nothing.
func (e *Engine) Seek(timeSec float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf == nil {
		return nil
	}
	if !e.playing {
		e.offset = clamp(timeSec, 0, e.buf.Duration())
		return nil
	}

	return e.scheduleLocked(timeSec)
}

// SetLoop stores the loop and, while playing, reschedules from the current
// position so the new bounds apply at once.
func (e *Engine) SetLoop(loop transport.LoopPoints) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loop = loop
	if !e.playing || e.buf == nil {
		return nil
	}

	e.log.Debug("loop changed while playing, rescheduling")
	return e.scheduleLocked(e.positionLocked())
}

// Position is the best known playback position in seconds.
func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.positionLocked()
}

// Playing reports whether a region is scheduled.
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playing
}

func (e *Engine) positionLocked() float64 {
	if !e.playing || e.buf == nil {
		return e.offset
	}
	return e.offset + float64(e.dev.PlayedFrames())/float64(e.buf.SampleRate())
}

// regionLocked carves the region to play from fromSec. With an active
// loop the lead runs to B and the loop repeats A..B; starting at or past B
// starts at A. It returns the track time of the region's first frame.
func (e *Engine) regionLocked(fromSec float64) (Region, float64) {
	dur := e.buf.Duration()
	from := clamp(fromSec, 0, dur)

	if e.loop.Active(dur) {
		a, b := e.loop.Effective(dur)
		a, b = clamp(a, 0, dur), clamp(b, 0, dur)
		loop := e.buf.SliceTime(a, b)

		if loop.Frames() > 0 {
			if from >= b {
				return Region{Loop: loop}, a
			}
			return Region{Lead: e.buf.SliceTime(from, b), Loop: loop}, from
		}
	}

	return Region{Lead: e.buf.SliceTime(from, dur)}, from
}

func (e *Engine) scheduleLocked(fromSec float64) error {
	e.restarting.Store(true)
	defer e.restarting.Store(false)

	e.stopPollLocked()
	e.region.Add(1)
	e.dev.Stop()

	region, start := e.regionLocked(fromSec)
	gen := e.region.Add(1)
	e.offset = start

	if err := e.dev.Schedule(region, func() { e.regionDone(gen) }); err != nil {
		e.playing = false
		e.log.Error("schedule failed", zap.Float64("from", start), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPlaybackFailed, err)
	}

	e.playing = true
	e.startPollLocked(start, float64(e.buf.SampleRate()))
	e.log.Debug("scheduled",
		zap.Float64("from", start),
		zap.Bool("looping", region.Loop != nil),
		zap.Int("frames", region.Frames()),
	)

	return nil
}

// stopLocked stops the device without reporting a finish.
func (e *Engine) stopLocked() {
	e.restarting.Store(true)
	defer e.restarting.Store(false)

	e.stopPollLocked()
	e.region.Add(1)
	e.dev.Stop()
	e.playing = false
}

// regionDone runs on the device's goroutine, possibly inside Stop while
// e.mu is held. It only reads atomics and hands off without blocking.
func (e *Engine) regionDone(gen uint64) {
	if e.restarting.Load() || e.region.Load() != gen {
		e.log.Debug("suppressed completion of a replaced region", zap.Uint64("region", gen))
		return
	}

	for {
		select {
		case e.finished <- gen:
			return
		default:
		}
		// Replace an older pending region.
		select {
		case <-e.finished:
		default:
		}
	}
}

func (e *Engine) finisher() {
	defer e.wg.Done()

	for {
		select {
		case <-e.ctx.Done():
			return
		case gen := <-e.finished:
			e.finish(gen)
		}
	}
}

func (e *Engine) finish(gen uint64) {
	e.mu.Lock()
	if e.region.Load() != gen || !e.playing {
		e.mu.Unlock()
		return
	}
	e.offset = e.positionLocked()
	e.playing = false
	e.stopPollLocked()
	e.mu.Unlock()

	e.log.Info("playback finished", zap.Float64("at", e.offset))
	e.emit(transport.PlaybackFinished{})
}

func (e *Engine) startPollLocked(offset, sampleRate float64) {
	ctx, cancel := context.WithCancel(e.ctx)
	done := make(chan struct{})
	e.pollStop = cancel
	e.pollDone = done

	go e.poll(ctx, offset, sampleRate, done)
}

// stopPollLocked cancels the poller and waits for it. The poller never
// takes e.mu.
func (e *Engine) stopPollLocked() {
	if e.pollStop == nil {
		return
	}
	e.pollStop()
	<-e.pollDone
	e.pollStop = nil
	e.pollDone = nil
}

func (e *Engine) poll(ctx context.Context, offset, sampleRate float64, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := offset + float64(e.dev.PlayedFrames())/sampleRate
			select {
			case e.events <- transport.Tick{TimeSec: elapsed}:
			default:
				e.log.Debug("tick dropped", zap.Float64("at", elapsed))
			}
		}
	}
}

func (e *Engine) computePeaks() {
	e.mu.Lock()
	buf, gen := e.buf, e.loadGen
	e.mu.Unlock()

	if buf == nil {
		e.log.Debug("peaks requested without a track")
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		p, err := e.cfg.PeakComputer(e.ctx, buf, e.cfg.PeakBuckets)
		if err != nil {
			e.log.Error("computing peaks", zap.Error(err))
			return
		}

		e.mu.Lock()
		stale := gen != e.loadGen
		e.mu.Unlock()
		if stale {
			e.log.Debug("dropping peaks of a replaced track")
			return
		}

		e.emit(transport.PeaksComputed{Peaks: p})
	}()
}

// emit delivers a must-not-drop event, giving up only once the engine is
// closed.
func (e *Engine) emit(a transport.Action) {
	select {
	case e.events <- a:
	case <-e.ctx.Done():
	}
}

// Close stops playback, waits for background work and closes the device.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.stopLocked()
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()

	if err := e.dev.Close(); err != nil {
		return fmt.Errorf("closing device: %w", err)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v != v {
		return lo
	}
	return max(lo, min(v, hi))
}
