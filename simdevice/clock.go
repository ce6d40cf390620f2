package simdevice

import (
	"sync"
	"time"
)

// ManualClock is a clock that only moves when told to. It also implements
// bus.Delayer, so a driver sleeping on it advances simulated time instead of
// blocking.
type ManualClock struct {
	lock sync.Mutex
	now  time.Time
}

// NewManualClock creates a clock that starts at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the simulated time.
func (c *ManualClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.now
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.now = c.now.Add(d)
}

// Sleep advances the clock by d without blocking.
func (c *ManualClock) Sleep(d time.Duration) {
	c.Advance(d)
}
