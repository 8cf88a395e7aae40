// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"time"

	"github.com/google/uuid"
)

// Env supplies the clock and id source to Reduce so it stays pure.
type Env struct {
	Now   func() time.Time
	NewID func() uuid.UUID
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: uuid.New}
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) newID() uuid.UUID {
	if e.NewID == nil {
		return uuid.New()
	}
	return e.NewID()
}
