package reportstore

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze createdAt via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used to stamp new reports. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// createdAt returns the current store time at DATETIME precision.
func createdAt() time.Time {
	return clock.Now().UTC().Truncate(time.Second)
}

// storedTime normalizes a caller-supplied time to what a DATETIME column keeps.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
