// SPDX-License-Identifier: EPL-2.0

// Package session runs the practice loop: actions are reduced one at a
// time, the resulting commands are executed in order on a worker, and
// executor events are fed back as actions.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ik5/audpractice/engine"
	"github.com/ik5/audpractice/transport"
)

var (
	ErrStopped        = errors.New("session stopped")
	ErrAlreadyRunning = errors.New("session already running")
)

// Executor performs commands and reports events. *engine.Engine is the
// real implementation.
type Executor interface {
	Execute(ctx context.Context, cmd transport.Command) error
	Events() <-chan transport.Action
}

type Option func(*Session)

// WithEnv replaces the clock and id source handed to the reducer.
func WithEnv(env transport.Env) Option {
	return func(s *Session) { s.env = env }
}

// WithState starts the session from st instead of the defaults.
func WithState(st *transport.State) Option {
	return func(s *Session) { s.state = st }
}

type Session struct {
	exec    Executor
	log     *zap.Logger
	env     transport.Env
	actions chan transport.Action
	queue   *commandQueue
	stopped chan struct{}
	running atomic.Bool

	// state is owned by the Run goroutine.
	state    *transport.State
	snapshot atomic.Pointer[transport.State]

	mu        sync.RWMutex
	listeners map[chan *transport.State]struct{}
}

func New(exec Executor, log *zap.Logger, opts ...Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		exec:      exec,
		log:       log,
		env:       transport.DefaultEnv(),
		actions:   make(chan transport.Action, 16),
		queue:     newCommandQueue(),
		stopped:   make(chan struct{}),
		state:     transport.NewState(),
		listeners: make(map[chan *transport.State]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot.Store(s.state.Clone())

	return s
}

// Run processes actions until ctx is done. It may be called once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.stopped)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.work(ctx)
	}()
	defer wg.Wait()

	events := s.exec.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-s.actions:
			s.apply(a)
		case a, ok := <-events:
			if !ok {
				s.log.Warn("executor event stream closed")
				events = nil
				continue
			}
			s.apply(a)
		}
	}
}

func (s *Session) apply(a transport.Action) {
	cmds := transport.Reduce(s.state, a, s.env)
	s.queue.push(cmds...)
	s.publish()

	if _, isTick := a.(transport.Tick); !isTick {
		s.log.Debug("reduced", zap.String("action", actionName(a)), zap.Int("commands", len(cmds)))
	}
}

// work executes queued commands in order.
func (s *Session) work(ctx context.Context) {
	for {
		cmd, ok := s.queue.pop(ctx)
		if !ok {
			return
		}

		err := s.exec.Execute(ctx, cmd)
		if err == nil {
			continue
		}

		switch cmd.(type) {
		case transport.EnginePlay:
			s.log.Warn("playback failed", zap.Error(err))
			s.feedback(ctx, transport.PlaybackFailed{Message: engine.FailureMessage(err)})
		case transport.EngineLoad:
			// The executor reports load failures as ImportFailed itself.
			s.log.Warn("load failed", zap.Error(err))
		default:
			s.log.Error("command failed", zap.String("command", commandName(cmd)), zap.Error(err))
		}
	}
}

func (s *Session) feedback(ctx context.Context, a transport.Action) {
	select {
	case s.actions <- a:
	case <-ctx.Done():
	}
}

// Dispatch queues a for the reducer. It blocks only while the action
// buffer is full.
func (s *Session) Dispatch(ctx context.Context, a transport.Action) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}

	select {
	case s.actions <- a:
		return nil
	case <-s.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the current state. Callers may keep and
// modify it.
func (s *Session) State() *transport.State {
	return s.snapshot.Load().Clone()
}

// Subscribe returns a channel that receives a snapshot after every
// reduced action. Slow subscribers miss intermediate snapshots but always
// get the newest one.
func (s *Session) Subscribe() (<-chan *transport.State, func()) {
	ch := make(chan *transport.State, 1)

	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) publish() {
	snap := s.state.Clone()
	s.snapshot.Store(snap)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.listeners {
		select {
		case ch <- snap.Clone():
		default:
			// Replace the stale snapshot the listener has not read yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap.Clone():
			default:
			}
		}
	}
}
