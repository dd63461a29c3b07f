// Package testutil has helpers shared by package tests.
package testutil

import (
	"sync"
	"time"
)

// TimeController is a manually driven clock for tests. It satisfies
// animation.Clock and draw.Clock.
type TimeController struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewTimeController creates a time controller stopped at t.
func NewTimeController(t time.Time) *TimeController {
	return &TimeController{current: t}
}

// SetTime sets the current time
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.current = t
}

// Advance advances time by the given duration
func (tc *TimeController) Advance(d time.Duration) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.current = tc.current.Add(d)
}

// AutoAdvance makes every Now call move time forward by step, so a
// ticker-driven loop sees a fixed dt per tick.
func (tc *TimeController) AutoAdvance(step time.Duration) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.step = step
}

// Now returns the current controlled time
func (tc *TimeController) Now() time.Time {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	now := tc.current
	tc.current = tc.current.Add(tc.step)
	return now
}
