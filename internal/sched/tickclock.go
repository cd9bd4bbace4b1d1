// internal/sched/tickclock.go

package sched

import "sync/atomic"

// Clock counts ticks. It is advanced once per tick interrupt and may be read
// from any context.
//
// The counter wraps silently on overflow; nothing in the scheduler guards it.
type Clock struct {
	count atomic.Uint64
}

// Now returns the current tick count.
func (c *Clock) Now() uint64 {
	return c.count.Load()
}

// Advance adds one tick and returns the new count.
func (c *Clock) Advance() uint64 {
	return c.count.Add(1)
}
