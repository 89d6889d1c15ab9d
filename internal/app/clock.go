package app

import "time"

// clock abstracts the timers owned by a poll loop so tests can drive ticks
// and deadlines by hand.
type clock interface {
	Now() time.Time
	NewTicker(d time.Duration) ticker
	NewTimer(d time.Duration) timer
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timer interface {
	C() <-chan time.Time
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) ticker {
	return realTicker{time.NewTicker(d)}
}

func (realClock) NewTimer(d time.Duration) timer {
	return realTimer{time.NewTimer(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

type realTimer struct{ t *time.Timer }

func (r realTimer) C() <-chan time.Time { return r.t.C }
func (r realTimer) Stop() bool          { return r.t.Stop() }
