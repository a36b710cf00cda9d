// Package clock provides an injectable time source so date-sensitive rules
// (overdue checks, completion timestamps) can be tested deterministically.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock returns the current time in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystem returns the wall-clock implementation.
func NewSystem() Clock { return systemClock{} }

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
