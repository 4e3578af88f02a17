package draw

import (
	"sync"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Each reveal tick schedules the next one,
// which lets the delay change from tick to tick.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realtime struct{}

func (realtime) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Realtime schedules callbacks on the runtime timer wheel.
var Realtime Scheduler = realtime{}

// ManualClock is a Scheduler driven by explicit Advance calls, so a whole
// reveal sequence can be replayed synchronously in tests.
type ManualClock struct {
	mu      sync.Mutex
	elapsed time.Duration
	seq     int
	timers  []*manualTimer
}

type manualTimer struct {
	clock *ManualClock
	at    time.Duration
	seq   int
	f     func()
	done  bool
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, at: c.elapsed + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	c.removeLocked(t)
	return true
}

// Advance moves the clock forward by d, firing due callbacks in order.
// Callbacks may schedule further timers; those fire too if they fall due
// within the window. It returns the number of callbacks fired.
func (c *ManualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	target := c.elapsed + d
	c.mu.Unlock()
	return c.run(func(t *manualTimer) bool { return t.at <= target }, target)
}

// Flush fires every pending callback, including ones scheduled while
// flushing, until nothing is left.
func (c *ManualClock) Flush() int {
	return c.run(func(*manualTimer) bool { return true }, -1)
}

// Pending reports how many callbacks are scheduled.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Elapsed reports the virtual time since the clock was created.
func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *ManualClock) run(due func(*manualTimer) bool, target time.Duration) int {
	fired := 0
	for {
		c.mu.Lock()
		next := c.earliestLocked()
		if next == nil || !due(next) {
			if target > c.elapsed {
				c.elapsed = target
			}
			c.mu.Unlock()
			return fired
		}
		next.done = true
		c.removeLocked(next)
		if next.at > c.elapsed {
			c.elapsed = next.at
		}
		c.mu.Unlock()

		next.f()
		fired++
	}
}

func (c *ManualClock) earliestLocked() *manualTimer {
	var best *manualTimer
	for _, t := range c.timers {
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *ManualClock) removeLocked(t *manualTimer) {
	for i, cur := range c.timers {
		if cur == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
