// SPDX-License-Identifier: EPL-2.0

package session

import (
	"context"
	"sync"

	"github.com/ik5/audpractice/transport"
)

// commandQueue is an unbounded FIFO. Push never blocks, so the reducer
// loop cannot stall behind a slow command such as a load.
type commandQueue struct {
	mu     sync.Mutex
	items  []transport.Command
	notify chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{notify: make(chan struct{}, 1)}
}

func (q *commandQueue) push(cmds ...transport.Command) {
	if len(cmds) == 0 {
		return
	}

	q.mu.Lock()
	q.items = append(q.items, cmds...)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// pop blocks until a command is available or ctx is done.
func (q *commandQueue) pop(ctx context.Context) (transport.Command, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			cmd := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return cmd, true
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return nil, false
		}
	}
}
