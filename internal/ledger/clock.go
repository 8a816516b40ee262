package ledger

import "time"

// Clock supplies the current time to the ledger.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant until moved with Advance or Set.
type FixedClock struct {
	T time.Time
}

// NewFixedClock returns a clock frozen at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{T: t}
}

// Now returns the frozen instant
func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.T = t
}
