package tetris

import (
	"sync"
	"time"
)

// Timer is the gravity timer the Game listens to.
type Timer interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

// NewTimer returns a stopped Timer backed by a *time.Timer.
func NewTimer() Timer {
	return newWrappedTimer()
}

type wrappedTimer struct {
	timer *time.Timer
}

func newWrappedTimer() *wrappedTimer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return &wrappedTimer{timer: t}
}

func (t *wrappedTimer) C() <-chan time.Time   { return t.timer.C }
func (t *wrappedTimer) Stop()                 { t.timer.Stop() }
func (t *wrappedTimer) Reset(d time.Duration) { t.timer.Reset(d) }

// Game runs an Engine on its own goroutine. Actions and timer ticks are
// handled one at a time, so the engine is never mutated concurrently.
type Game struct {
	actionCh chan Action
	updateCh chan Event
	doneCh   chan struct{}
	engine   *Engine
	timer    Timer
	pending  []Event
	mu       sync.RWMutex
	once     sync.Once
}

func NewGame(cfg Config) (*Game, error) {
	return NewConfigurableGame(cfg, newWrappedTimer(), nil, nil)
}

func NewConfigurableGame(cfg Config, timer Timer, clock Clock, r Rand) (*Game, error) {
	e, err := NewEngine(cfg, timer, clock, r)
	if err != nil {
		return nil, err
	}
	g := &Game{
		actionCh: make(chan Action),
		updateCh: make(chan Event),
		doneCh:   make(chan struct{}),
		engine:   e,
		timer:    timer,
	}
	e.Subscribe(func(ev Event) { g.pending = append(g.pending, ev) })
	return g, nil
}

// Start launches the game loop. Updates must be drained for the loop to progress.
func (g *Game) Start() {
	go g.listen()
}

// Stop ends the game loop and closes the updates channel.
func (g *Game) Stop() {
	g.once.Do(func() {
		close(g.doneCh)
	})
}

// Action hands an action to the game loop. It's a no-op once the game is stopped.
func (g *Game) Action(a Action) {
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// Updates yields every engine event in order.
func (g *Game) Updates() <-chan Event {
	return g.updateCh
}

// Read returns a copy of the current session that's safe to read concurrently.
func (g *Game) Read() *Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.engine.Snapshot()
}

func (g *Game) listen() {
	defer close(g.updateCh)
	defer g.timer.Stop()
	for {
		select {
		case <-g.timer.C():
			g.mu.Lock()
			g.engine.Fire()
		case a := <-g.actionCh:
			g.mu.Lock()
			g.engine.Do(a)
		case <-g.doneCh:
			return
		}
		events := g.pending
		g.pending = nil
		g.mu.Unlock()

		for _, ev := range events {
			select {
			case g.updateCh <- ev:
			case <-g.doneCh:
				return
			}
		}
	}
}
