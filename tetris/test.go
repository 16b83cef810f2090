package tetris

import (
	"sync"
	"time"
)

// ManualTimer is a Timer that only fires when Tick is called.
type ManualTimer struct {
	ch     chan time.Time
	armed  bool
	last   time.Duration
	resets int
	mu     sync.Mutex
}

func NewManualTimer() *ManualTimer         { return &ManualTimer{ch: make(chan time.Time)} }
func (m *ManualTimer) C() <-chan time.Time { return m.ch }
func (m *ManualTimer) Tick()               { m.ch <- time.Now() }

func (m *ManualTimer) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = true
	m.last = d
	m.resets++
}

func (m *ManualTimer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = false
}

// IsArmed reports whether a tick is pending.
func (m *ManualTimer) IsArmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.armed
}

// Last returns the delay of the latest Reset.
func (m *ManualTimer) Last() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *ManualTimer) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// MockClock is a Clock that only moves when told to.
type MockClock struct {
	now time.Time
	mu  sync.RWMutex
}

func NewMockClock() *MockClock {
	return &MockClock{now: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// SequenceRand returns its values in a loop, modulo n.
type SequenceRand struct {
	values []int
	i      int
}

func NewSequenceRand(values ...int) *SequenceRand {
	if len(values) == 0 {
		values = []int{0}
	}
	return &SequenceRand{values: values}
}

func (r *SequenceRand) IntN(n int) int {
	v := r.values[r.i%len(r.values)]
	r.i++
	return ((v % n) + n) % n
}

// ShapeRand makes a queue over the standard catalog draw the given shapes in a loop.
func ShapeRand(shapes ...Shape) *SequenceRand {
	order := Standard.Shapes()
	values := make([]int, len(shapes))
	for i, s := range shapes {
		for j, o := range order {
			if o == s {
				values[i] = j
			}
		}
	}
	return NewSequenceRand(values...)
}

// NewTestEngine creates an idle engine with a manual timer and clock. The queue
// draws the given shapes in a loop.
func NewTestEngine(shapes ...Shape) (*Engine, *ManualTimer, *MockClock) {
	return NewTestEngineWithConfig(DefaultConfig(), shapes...)
}

func NewTestEngineWithConfig(cfg Config, shapes ...Shape) (*Engine, *ManualTimer, *MockClock) {
	timer := NewManualTimer()
	clock := NewMockClock()
	if len(shapes) == 0 {
		shapes = []Shape{J}
	}
	e, err := NewEngine(cfg, timer, clock, ShapeRand(shapes...))
	if err != nil {
		panic(err)
	}
	return e, timer, clock
}

// SkipCountdown starts an idle engine and fires the countdown until it's running.
func SkipCountdown(e *Engine) {
	e.Start()
	for e.State() == Countdown {
		e.Fire()
	}
}

// NewTestSnapshot returns the snapshot of a running game with a fresh tetromino of the given shape.
func NewTestSnapshot(shape Shape) *Snapshot {
	e, _, _ := NewTestEngine(shape)
	SkipCountdown(e)
	return e.Snapshot()
}
