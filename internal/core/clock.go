package core

import (
	"sort"
	"sync"
	"time"
)

// Timer is a handle to a callback scheduled by a Clock.
type Timer interface {
	// Stop prevents the callback from firing.
	// Returns false if the callback already fired or was stopped.
	Stop() bool
}

// Clock is the time source used by the simulation.
// Games schedule every deferred action through it so tests can drive time by hand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock is a Clock backed by the runtime timers.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f in its own goroutine after d elapses.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock that only moves when Advance is called.
// Due callbacks run synchronously on the caller's goroutine, in deadline order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock    *ManualClock
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

// NewManualClock creates a manual clock starting at the given instant.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run once the clock has been advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{
		clock:    c,
		deadline: c.now.Add(d),
		seq:      c.seq,
		fn:       f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback whose deadline
// falls inside the window. Callbacks scheduled while advancing fire too if
// they are due before the new instant.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.deadline
		next.fired = true
		c.removeLocked(next)
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not fired or been stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// nextDue returns the earliest live timer due at or before target.
func (c *ManualClock) nextDue(target time.Time) *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		a, b := c.timers[i], c.timers[j]
		if a.deadline.Equal(b.deadline) {
			return a.seq < b.seq
		}
		return a.deadline.Before(b.deadline)
	})
	if first := c.timers[0]; !first.deadline.After(target) {
		return first
	}
	return nil
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}

// Stop cancels the timer if it has not fired yet.
func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	c.removeLocked(t)
	return true
}
