package tetris

import (
	"errors"
	"math/rand/v2"
	"time"
)

type Action string

const (
	MoveLeft    Action = "moveLeft"    // Moves the Tetromino one step to the left.
	MoveRight   Action = "moveRight"   // Moves the Tetromino one step to the right.
	Rotate      Action = "rotate"      // Rotates the Tetromino, kicking off walls when needed.
	SoftDropOn  Action = "softDropOn"  // Gravity uses the fast drop speed.
	SoftDropOff Action = "softDropOff" // Gravity goes back to the base speed.
	HardDrop    Action = "hardDrop"    // Drops the Tetromino down the stack and locks it.
	HoldPiece   Action = "hold"        // Swaps the Tetromino with the held one.
	Start       Action = "start"       // Starts the countdown from idle.
	Pause       Action = "pause"       // Suspends gravity and the clock.
	Resume      Action = "resume"      // Resumes a paused game.
	Reset       Action = "reset"       // Throws the session away and goes back to idle.
)

// Actions lists every action the engine understands.
var Actions = []Action{MoveLeft, MoveRight, Rotate, SoftDropOn, SoftDropOff, HardDrop, HoldPiece, Start, Pause, Resume, Reset}

// Scheduler is the one-shot gravity timer. The engine always stops a pending
// tick before arming a new one.
type Scheduler interface {
	Reset(time.Duration)
	Stop()
}

// Engine drives a session through spawn, fall, lock and clear.
// It is not safe for concurrent use: Game serializes all calls on one goroutine.
type Engine struct {
	cfg       Config
	timer     Scheduler
	clock     Clock
	rand      Rand
	listeners []Listener
	armed     bool

	tetris *Tetris
}

// NewEngine validates the config and returns an idle engine.
// A nil clock uses the system clock and a nil rand a randomly seeded PCG.
func NewEngine(cfg Config, timer Scheduler, clock Clock, r Rand) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, errors.New("engine needs a gravity timer")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec
	}
	e := &Engine{
		cfg:   cfg,
		timer: timer,
		clock: clock,
		rand:  r,
	}
	e.tetris = newTetris(cfg, clock, r)
	return e, nil
}

// Subscribe adds a listener. Listeners run synchronously inside the transition.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

func (e *Engine) State() State   { return e.tetris.State }
func (e *Engine) Lines() int     { return e.tetris.LinesClear }
func (e *Engine) Stack() *Stack  { return e.tetris.Stack }
func (e *Engine) Hold() *Hold    { return e.tetris.Hold }
func (e *Engine) Queue() *Queue  { return e.tetris.Queue }
func (e *Engine) Config() Config { return e.cfg }

// Elapsed is the running time of the session, pauses excluded.
func (e *Engine) Elapsed() time.Duration { return e.tetris.watch.elapsed() }

// Tetromino returns a copy of the piece in play, nil when there's none.
func (e *Engine) Tetromino() *Tetromino { return e.tetris.Tetromino.copy() }

func (e *Engine) Snapshot() *Snapshot {
	return e.tetris.snapshot(e.cfg)
}

// Do dispatches an action. It returns false when the action had no effect,
// either because it was blocked or because it's not valid in the current state.
func (e *Engine) Do(a Action) bool {
	switch a {
	case MoveLeft:
		return e.MoveLeft()
	case MoveRight:
		return e.MoveRight()
	case Rotate:
		return e.Rotate()
	case SoftDropOn:
		return e.SoftDrop(true)
	case SoftDropOff:
		return e.SoftDrop(false)
	case HardDrop:
		return e.HardDrop()
	case HoldPiece:
		return e.HoldPiece()
	case Start:
		return e.Start()
	case Pause:
		return e.Pause()
	case Resume:
		return e.Resume()
	case Reset:
		return e.Reset()
	}
	return false
}

func (e *Engine) setState(s State) {
	from := e.tetris.State
	if from == s {
		return
	}
	e.tetris.State = s
	e.emit(StateChanged{From: from, To: s})
}

func (e *Engine) schedule(d time.Duration) {
	e.timer.Stop()
	e.timer.Reset(d)
	e.armed = true
}

func (e *Engine) cancel() {
	e.timer.Stop()
	e.armed = false
}

func (e *Engine) dropDelay() time.Duration {
	if e.tetris.SoftDrop {
		return e.cfg.FastDropSpeed
	}
	return e.cfg.BaseSpeed
}

func (e *Engine) scheduleGravity() {
	e.schedule(e.dropDelay())
}

// Start begins the countdown. Only valid while idle.
func (e *Engine) Start() bool {
	if e.tetris.State != Idle {
		return false
	}
	e.tetris.LinesClear = 0
	e.tetris.watch.reset()
	e.tetris.countdown = e.cfg.CountdownFrom
	e.setState(Countdown)
	e.emit(CountdownTick{N: e.tetris.countdown})
	e.scheduleCountdown()
	return true
}

func (e *Engine) scheduleCountdown() {
	if e.tetris.countdown > 0 {
		e.schedule(e.cfg.CountdownInterval)
		return
	}
	// after "GO!" wait for what's left of the countdown duration.
	e.schedule(e.cfg.CountdownDuration - e.cfg.countdownTicks())
}

// Fire is called when the scheduled timer expires. Ticks that were cancelled
// or superseded are ignored.
func (e *Engine) Fire() {
	if !e.armed {
		return
	}
	e.armed = false
	switch e.tetris.State {
	case Countdown:
		if e.tetris.countdown > 0 {
			e.tetris.countdown--
			e.emit(CountdownTick{N: e.tetris.countdown})
			e.scheduleCountdown()
			return
		}
		e.setState(Running)
		e.tetris.watch.start()
		e.spawn()
	case Running:
		e.gravity()
	}
}

func (e *Engine) gravity() {
	if e.tetris.Tetromino.TryMove(e.tetris.Stack, 0, 1) {
		e.emitMoved()
		e.scheduleGravity()
		return
	}
	e.lock()
}

func (e *Engine) emitMoved() {
	t := e.tetris.Tetromino
	e.emit(PieceMoved{
		Tetromino: *t,
		Blocks:    t.Blocks(),
		GhostY:    t.GhostY(e.tetris.Stack),
	})
}

// spawn draws the next shape and makes it the piece in play.
func (e *Engine) spawn() {
	shape := e.tetris.Queue.Dequeue()
	e.tetris.Hold.OnSpawn()
	e.emit(HoldChanged{Shape: e.tetris.Hold.Shape, Available: true})
	e.place(newTetromino(e.cfg.Catalog, shape))
}

// place puts t at its spawn location, topping out when it doesn't fit.
func (e *Engine) place(t *Tetromino) {
	e.tetris.Tetromino = t
	if !e.tetris.Stack.CanAccept(t.Blocks()) {
		e.finish(false)
		return
	}
	e.emitMoved()
	e.scheduleGravity()
}

// lock settles the piece in play, clears the complete lines and spawns the next piece.
func (e *Engine) lock() {
	t := e.tetris.Tetromino
	for _, b := range t.Blocks() {
		if b.Y <= 0 {
			// locked above the visible stack.
			e.finish(false)
			return
		}
	}

	cells := t.Cells()
	e.tetris.Stack.Commit(cells)
	e.tetris.Tetromino = nil
	e.emit(PieceLocked{Cells: cells})

	if lines := e.tetris.Stack.CompleteLines(); len(lines) > 0 {
		e.tetris.Stack.RemoveLines(lines)
		e.tetris.LinesClear += len(lines)
		rows := make([]int, len(lines))
		for i, l := range lines {
			rows[len(lines)-1-i] = l
		}
		e.emit(LinesCleared{Rows: rows, Total: e.tetris.LinesClear})
		if e.tetris.LinesClear >= e.cfg.LineGoal {
			e.finish(true)
			return
		}
	}
	e.spawn()
}

func (e *Engine) finish(won bool) {
	e.cancel()
	e.tetris.watch.stop()
	if won {
		e.setState(Won)
	} else {
		e.setState(Over)
	}
	e.emit(GameOver{
		Won:     won,
		Lines:   e.tetris.LinesClear,
		Elapsed: e.tetris.watch.elapsed(),
	})
}

func (e *Engine) MoveLeft() bool  { return e.move(-1) }
func (e *Engine) MoveRight() bool { return e.move(1) }

func (e *Engine) move(dx int) bool {
	if e.tetris.State != Running {
		return false
	}
	if !e.tetris.Tetromino.TryMove(e.tetris.Stack, dx, 0) {
		return false
	}
	e.emitMoved()
	return true
}

func (e *Engine) Rotate() bool {
	if e.tetris.State != Running {
		return false
	}
	if !e.tetris.Tetromino.Rotate(e.tetris.Stack, e.cfg.Kicks) {
		return false
	}
	e.emitMoved()
	return true
}

// SoftDrop sets the soft drop flag and re-arms gravity with the matching delay.
func (e *Engine) SoftDrop(on bool) bool {
	if e.tetris.State != Running || e.tetris.SoftDrop == on {
		return false
	}
	e.tetris.SoftDrop = on
	e.scheduleGravity()
	return true
}

// HardDrop moves the piece down until it's blocked and locks it right away.
func (e *Engine) HardDrop() bool {
	if e.tetris.State != Running {
		return false
	}
	for e.tetris.Tetromino.TryMove(e.tetris.Stack, 0, 1) {
	}
	e.cancel()
	e.emitMoved()
	e.lock()
	return true
}

// HoldPiece swaps the piece in play with the held one, or with the next
// shape in the queue when the hold is empty.
func (e *Engine) HoldPiece() bool {
	if e.tetris.State != Running {
		return false
	}
	prev, ok := e.tetris.Hold.Swap(e.tetris.Tetromino.Shape)
	if !ok {
		return false
	}
	e.cancel()
	e.emit(HoldChanged{Shape: e.tetris.Hold.Shape, Available: false})
	if prev == "" {
		prev = e.tetris.Queue.Dequeue()
	}
	e.place(newTetromino(e.cfg.Catalog, prev))
	return true
}

func (e *Engine) Pause() bool {
	if e.tetris.State != Running {
		return false
	}
	e.cancel()
	e.tetris.watch.stop()
	e.setState(Paused)
	return true
}

func (e *Engine) Resume() bool {
	if e.tetris.State != Paused {
		return false
	}
	e.setState(Running)
	e.tetris.watch.start()
	e.scheduleGravity()
	return true
}

// Reset cancels any pending tick and replaces the session with a fresh idle one.
func (e *Engine) Reset() bool {
	e.cancel()
	from := e.tetris.State
	e.tetris = newTetris(e.cfg, e.clock, e.rand)
	if from != Idle {
		e.emit(StateChanged{From: from, To: Idle})
	}
	return true
}
