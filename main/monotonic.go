package main

// Uptime timer on a fixed tick. The wall clock on a freshly powered board is
// whatever the last boot left behind until the host syncs it, so anything
// user-visible that says "how long" is computed against this instead.

import (
	"sync/atomic"
	"time"

	humanize "github.com/dustin/go-humanize"
)

type monotonic struct {
	ms     uint64 // atomic; readers include the diag handler goroutine
	ticker *time.Ticker
}

func (m *monotonic) Watcher() {
	for {
		<-m.ticker.C
		atomic.AddUint64(&m.ms, 10)
	}
}

func (m *monotonic) Uptime() time.Duration {
	return time.Duration(atomic.LoadUint64(&m.ms)) * time.Millisecond
}

// Now is an instant on the monotonic timeline; the epoch is power-on.
func (m *monotonic) Now() time.Time {
	return time.Time{}.Add(m.Uptime())
}

func (m *monotonic) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

func (m *monotonic) HumanizeTime(t time.Time) string {
	return humanize.RelTime(t, m.Now(), "ago", "from now")
}

func newMonotonic() *monotonic {
	t := &monotonic{ticker: time.NewTicker(10 * time.Millisecond)}
	go t.Watcher()
	return t
}
