// internal/sched/turnclock.go

package sched

import "sync/atomic"

// TurnClock counts scheduler turns. Count may be read from any goroutine.
type TurnClock struct {
	count atomic.Int64
}

// Advance starts a new turn and returns its number, starting at 1.
func (c *TurnClock) Advance() int64 {
	return c.count.Add(1)
}

// Count returns the number of turns started so far.
func (c *TurnClock) Count() int64 {
	return c.count.Load()
}
