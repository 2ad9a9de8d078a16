// Package clock schedules delayed and periodic callbacks behind an interface
// so simulations can run against real time or a manually advanced fake.
package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped a
	// pending callback.
	Stop() bool
}

// Clock tells time and schedules callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc calls fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every calls fn every d until the returned timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Real is a Clock backed by the time package.
type Real struct{}

// Now returns time.Now.
func (Real) Now() time.Time { return time.Now() }

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn on a ticker goroutine.
func (Real) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		return stoppedTimer{}
	}
	t := &ticker{ticker: time.NewTicker(d), done: make(chan struct{})}
	go t.run(fn)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }

// Scaled returns a clock whose delays are divided by speed. Speeds at or
// below 1 return c unchanged.
func Scaled(c Clock, speed float64) Clock {
	if speed <= 1 {
		return c
	}
	return scaled{clock: c, speed: speed}
}

type scaled struct {
	clock Clock
	speed float64
}

func (s scaled) Now() time.Time { return s.clock.Now() }

func (s scaled) AfterFunc(d time.Duration, fn func()) Timer {
	return s.clock.AfterFunc(s.scale(d), fn)
}

func (s scaled) Every(d time.Duration, fn func()) Timer {
	return s.clock.Every(s.scale(d), fn)
}

func (s scaled) scale(d time.Duration) time.Duration {
	scaledDuration := time.Duration(float64(d) / s.speed)
	if scaledDuration <= 0 && d > 0 {
		return time.Nanosecond
	}
	return scaledDuration
}
