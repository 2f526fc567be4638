package clock

import (
	"sync"
	"time"

	"github.com/earnbox/earnbox/internal/infra/dsa"
)

// ─── Manual Clock ───────────────────────────────────────────────────────────

// Manual is a Clock that only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance, in due order;
// callbacks scheduled from inside a callback fire within the same Advance if
// they fall due before its target.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	queue  *dsa.TimerQueue
	active int
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, queue: dsa.NewTimerQueue()}
}

// Now returns the simulated current time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once simulated time reaches Now()+d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	t := &manualTimer{clock: m, fn: f}
	m.active++
	due := m.now.Add(d)
	m.mu.Unlock()

	m.queue.Push(due, t)
	return t
}

// Advance moves simulated time forward by d, firing every timer that falls
// due on the way.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		item, ok := m.queue.PopDue(target)
		if !ok {
			break
		}
		t := item.Value.(*manualTimer)

		m.mu.Lock()
		if item.Due.After(m.now) {
			m.now = item.Due
		}
		fire := !t.done
		if fire {
			t.done = true
			m.active--
		}
		m.mu.Unlock()

		if fire {
			t.fn()
		}
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

type manualTimer struct {
	clock *Manual
	fn    func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.clock.active--
	return true
}
