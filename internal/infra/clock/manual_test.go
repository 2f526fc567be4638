package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func TestManual_AdvanceFiresDueTimers(t *testing.T) {
	c := NewManual(epoch)
	var fired []string

	c.AfterFunc(2*time.Second, func() { fired = append(fired, "two") })
	c.AfterFunc(1*time.Second, func() { fired = append(fired, "one") })
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "five") })

	c.Advance(2 * time.Second)
	if len(fired) != 2 || fired[0] != "one" || fired[1] != "two" {
		t.Fatalf("fired = %v, want [one two]", fired)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
	if !c.Now().Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("Now() = %v, want epoch+2s", c.Now())
	}
}

func TestManual_NowDuringCallbackIsDueTime(t *testing.T) {
	c := NewManual(epoch)
	var seen time.Time
	c.AfterFunc(3*time.Second, func() { seen = c.Now() })

	c.Advance(10 * time.Second)
	if !seen.Equal(epoch.Add(3 * time.Second)) {
		t.Errorf("Now() inside callback = %v, want epoch+3s", seen)
	}
}

func TestManual_StopPreventsFiring(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("first Stop() should return true")
	}
	if timer.Stop() {
		t.Error("second Stop() should return false")
	}
	c.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestManual_RearmingTimerFiresEachPeriod(t *testing.T) {
	c := NewManual(epoch)
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(60 * time.Second)
	if ticks != 60 {
		t.Errorf("ticks = %d, want 60", ticks)
	}
}

func TestManual_StopAfterFireReturnsFalse(t *testing.T) {
	c := NewManual(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	if timer.Stop() {
		t.Error("Stop() after firing should return false")
	}
}
