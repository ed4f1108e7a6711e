package hardware

import (
	"sync"
	"time"
)

// SystemClock counts milliseconds since it was created.
// The counter is 32 bits wide and wraps after about 49.7 days.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// NowMillis returns the elapsed milliseconds truncated to 32 bits.
func (c *SystemClock) NowMillis() uint32 {
	//nolint:gosec // Truncation is the wrap-around behaviour of the counter.
	return uint32(time.Since(c.start).Milliseconds())
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now uint32
}

// NewManualClock returns a clock reading start.
func NewManualClock(start uint32) *ManualClock {
	return &ManualClock{now: start}
}

// NowMillis returns the current reading.
func (c *ManualClock) NowMillis() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Set moves the clock to ms.
func (c *ManualClock) Set(ms uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = ms
}

// Advance moves the clock forward by d, wrapping like the hardware counter.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	//nolint:gosec // Wrap-around is intended.
	c.now += uint32(d.Milliseconds())
}
