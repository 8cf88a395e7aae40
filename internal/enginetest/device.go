// SPDX-License-Identifier: EPL-2.0

// Package enginetest provides deterministic doubles for the playback
// engine: a Device with a manual frame clock and an Executor that records
// commands.
package enginetest

import (
	"sync"

	"github.com/ik5/audpractice/engine"
)

// MockDevice implements engine.Device. Time only moves through Advance and
// regions only end through Finish.
type MockDevice struct {
	mu        sync.Mutex
	region    engine.Region
	done      func()
	active    bool
	played    int64
	scheduled int
	stops     int
	rate      float64
	pitch     float64
	closed    bool

	fireOnStop  bool
	scheduleErr error
}

func NewMockDevice() *MockDevice {
	return &MockDevice{rate: 1}
}

// FireOnStop makes Stop call the pending completion callback, the way
// many audio backends do.
func (m *MockDevice) FireOnStop() *MockDevice {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fireOnStop = true
	return m
}

// FailSchedule makes every Schedule return err until called with nil.
func (m *MockDevice) FailSchedule(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleErr = err
}

func (m *MockDevice) Schedule(r engine.Region, done func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduleErr != nil {
		return m.scheduleErr
	}
	m.region = r
	m.done = done
	m.active = true
	m.played = 0
	m.scheduled++

	return nil
}

func (m *MockDevice) Stop() {
	m.mu.Lock()
	m.stops++
	done := m.done
	fire := m.fireOnStop && m.active
	m.active = false
	m.mu.Unlock()

	if fire && done != nil {
		done()
	}
}

// Finish ends the current region as if it ran out and calls its callback.
func (m *MockDevice) Finish() {
	m.mu.Lock()
	done := m.done
	m.active = false
	m.mu.Unlock()

	if done != nil {
		done()
	}
}

// Done returns the callback of the last scheduled region.
func (m *MockDevice) Done() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Advance moves the frame clock forward.
func (m *MockDevice) Advance(frames int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played += frames
}

func (m *MockDevice) PlayedFrames() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.played
}

func (m *MockDevice) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
}

func (m *MockDevice) SetPitch(semitones float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pitch = semitones
}

func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Region returns the last scheduled region.
func (m *MockDevice) Region() engine.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.region
}

// Active reports whether a region is scheduled and not stopped or finished.
func (m *MockDevice) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *MockDevice) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled
}

func (m *MockDevice) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

func (m *MockDevice) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *MockDevice) Pitch() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitch
}

func (m *MockDevice) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
