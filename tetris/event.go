package tetris

import "time"

// Event is emitted synchronously by the engine on every state change
// renderers, audio or transports care about.
type Event interface {
	Name() string
}

// Listener receives events in the order the engine produced them.
type Listener func(Event)

type PieceMoved struct {
	Tetromino Tetromino `json:"tetromino"`
	Blocks    []Point   `json:"blocks"`
	GhostY    int       `json:"ghostY"`
}

type PieceLocked struct {
	Cells []Cell `json:"cells"`
}

// LinesCleared lists the removed rows bottom-most first.
type LinesCleared struct {
	Rows  []int `json:"rows"`
	Total int   `json:"total"`
}

type GameOver struct {
	Won     bool          `json:"won"`
	Lines   int           `json:"lines"`
	Elapsed time.Duration `json:"elapsed"`
}

// CountdownTick counts down to 0, which is the "GO!".
type CountdownTick struct {
	N int `json:"n"`
}

type HoldChanged struct {
	Shape     Shape `json:"shape"`
	Available bool  `json:"available"`
}

type StateChanged struct {
	From State `json:"from"`
	To   State `json:"to"`
}

func (PieceMoved) Name() string    { return "pieceMoved" }
func (PieceLocked) Name() string   { return "pieceLocked" }
func (LinesCleared) Name() string  { return "linesCleared" }
func (GameOver) Name() string      { return "gameOver" }
func (CountdownTick) Name() string { return "countdownTick" }
func (HoldChanged) Name() string   { return "holdChanged" }
func (StateChanged) Name() string  { return "stateChanged" }

func (l LinesCleared) Count() int { return len(l.Rows) }

// Cue names the sound an audio collaborator plays for the clear.
func (l LinesCleared) Cue() string {
	if l.Count() >= 3 {
		return "quad"
	}
	return "single"
}
