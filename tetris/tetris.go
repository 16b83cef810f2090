// Package tetris contains the logic of a 40 lines sprint.
// The engine is deterministic: randomness, time and the gravity timer are injected.
package tetris

import "time"

type State string

const (
	Idle      State = "idle"
	Countdown State = "countdown"
	Running   State = "running"
	Paused    State = "paused"
	Over      State = "gameover"
	Won       State = "won"
)

// IsTerminal reports whether only a reset can leave the state.
func (s State) IsTerminal() bool {
	return s == Over || s == Won
}

// Tetris is the state of one play session. A reset replaces it with a fresh one.
type Tetris struct {
	Stack      *Stack
	Tetromino  *Tetromino
	Queue      *Queue
	Hold       *Hold
	LinesClear int
	State      State
	SoftDrop   bool

	countdown int
	watch     stopwatch
}

func newTetris(c Config, clock Clock, r Rand) *Tetris {
	return &Tetris{
		Stack: NewStack(c.Rows, c.Columns),
		Queue: NewQueue(c.Catalog.Shapes(), c.Lookahead, r),
		Hold:  NewHold(),
		State: Idle,
		watch: stopwatch{clock: clock},
	}
}

// Snapshot is a copy of the session that's safe to hand to renderers and transports.
type Snapshot struct {
	State      State         `json:"state"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Stack      []Cell        `json:"stack"`
	Tetromino  *Tetromino    `json:"tetromino,omitempty"`
	Blocks     []Point       `json:"blocks,omitempty"`
	Ghost      []Point       `json:"ghost,omitempty"`
	Next       []Shape       `json:"next"`
	Hold       Hold          `json:"hold"`
	LinesClear int           `json:"linesClear"`
	LineGoal   int           `json:"lineGoal"`
	Elapsed    time.Duration `json:"elapsed"`
	Countdown  int           `json:"countdown"`
	SoftDrop   bool          `json:"softDrop"`
}

func (t *Tetris) snapshot(c Config) *Snapshot {
	s := &Snapshot{
		State:      t.State,
		Rows:       t.Stack.Rows,
		Columns:    t.Stack.Columns,
		Stack:      t.Stack.Cells(),
		Next:       t.Queue.Peek(t.Queue.Len()),
		Hold:       *t.Hold,
		LinesClear: t.LinesClear,
		LineGoal:   c.LineGoal,
		Elapsed:    t.watch.elapsed(),
		Countdown:  t.countdown,
		SoftDrop:   t.SoftDrop,
	}
	if t.Tetromino != nil {
		s.Tetromino = t.Tetromino.copy()
		s.Blocks = t.Tetromino.Blocks()
		s.Ghost = t.Tetromino.GhostBlocks(t.Stack)
	}
	return s
}
