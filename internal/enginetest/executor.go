// SPDX-License-Identifier: EPL-2.0

package enginetest

import (
	"context"
	"sync"
	"time"

	"github.com/ik5/audpractice/transport"
)

// FakeExecutor records commands and lets tests inject executor events.
type FakeExecutor struct {
	mu     sync.Mutex
	cmds   []transport.Command
	fail   func(transport.Command) error
	notify chan struct{}
	events chan transport.Action
}

func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{
		notify: make(chan struct{}, 1),
		events: make(chan transport.Action, 64),
	}
}

// FailWith makes Execute return fail(cmd).
func (f *FakeExecutor) FailWith(fail func(transport.Command) error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *FakeExecutor) Execute(_ context.Context, cmd transport.Command) error {
	f.mu.Lock()
	f.cmds = append(f.cmds, cmd)
	fail := f.fail
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}

	if fail != nil {
		return fail(cmd)
	}
	return nil
}

func (f *FakeExecutor) Events() <-chan transport.Action { return f.events }

// Emit injects an executor event.
func (f *FakeExecutor) Emit(a transport.Action) { f.events <- a }

// Commands returns a copy of everything executed so far.
func (f *FakeExecutor) Commands() []transport.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transport.Command(nil), f.cmds...)
}

// WaitForCommands blocks until at least n commands ran or timeout passes,
// and returns what was recorded.
func (f *FakeExecutor) WaitForCommands(n int, timeout time.Duration) []transport.Command {
	deadline := time.After(timeout)
	for {
		if cmds := f.Commands(); len(cmds) >= n {
			return cmds
		}
		select {
		case <-f.notify:
		case <-deadline:
			return f.Commands()
		}
	}
}
