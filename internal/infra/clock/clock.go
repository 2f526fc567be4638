// Package clock abstracts time for everything that schedules deferred work.
//
// Reward surfaces and the withdrawal flow never call time.AfterFunc directly;
// they receive a Clock. Production wires Real(), tests wire a Manual clock and
// advance simulated time explicitly, so a two-minute payment delay runs in
// microseconds and fires in a deterministic order.
package clock

import "time"

// Timer is a cancellation token for one scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock reports the current time and schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// ─── Wall Clock ─────────────────────────────────────────────────────────────

type realClock struct{}

// Real returns the wall clock backed by the runtime timer wheel.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
