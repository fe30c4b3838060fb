package session

import (
	"sync"
	"time"
)

// Scheduler decides when the game ticks. Stop must not wait for a running
// tick to return; it may be called from inside one.
type Scheduler interface {
	Start(tick func())
	Stop()
}

// Ticker calls the tick function once per period on its own goroutine
type Ticker struct {
	period time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewTicker creates a scheduler with a fixed loop period
func NewTicker(period time.Duration) *Ticker {
	return &Ticker{
		period: period,
		done:   make(chan struct{}),
	}
}

// Period returns the loop period
func (t *Ticker) Period() time.Duration {
	return t.period
}

// Start launches the loop. Later calls are ignored.
func (t *Ticker) Start(tick func()) {
	t.startOnce.Do(func() {
		go t.loop(tick)
	})
}

func (t *Ticker) loop(tick func()) {
	tk := time.NewTicker(t.period)
	defer tk.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-tk.C:
			tick()
		}
	}
}

// Stop ends the loop after the current tick, if any
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}

// Manual only ticks when Fire is called. It backs step-by-step runs and tests.
type Manual struct {
	mu      sync.Mutex
	tick    func()
	stopped bool
}

// Start records the tick function
func (m *Manual) Start(tick func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tick = tick
}

// Stop makes further Fire calls no-ops
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

// Fire runs one tick and reports whether it was delivered
func (m *Manual) Fire() bool {
	m.mu.Lock()
	tick := m.tick
	live := tick != nil && !m.stopped
	m.mu.Unlock()

	if !live {
		return false
	}
	tick()
	return true
}

// Stopped reports whether Stop was called
func (m *Manual) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}
