// Package input turns key press and release edges into game actions.
package input

import (
	"sprint/tetris"

	"github.com/eiannone/keyboard"
)

// Control is a physical game key, independent of the keyboard layout.
type Control string

const (
	Left   Control = "left"
	Right  Control = "right"
	Down   Control = "down"
	Rotate Control = "rotate"
	Drop   Control = "drop"
	Hold   Control = "hold"
)

var Controls = []Control{Left, Right, Down, Rotate, Drop, Hold}

func (c Control) IsValid() bool {
	switch c {
	case Left, Right, Down, Rotate, Drop, Hold:
		return true
	}
	return false
}

// Action is the action a press of the control triggers.
func (c Control) Action() tetris.Action {
	switch c {
	case Left:
		return tetris.MoveLeft
	case Right:
		return tetris.MoveRight
	case Down:
		return tetris.SoftDropOn
	case Rotate:
		return tetris.Rotate
	case Drop:
		return tetris.HardDrop
	case Hold:
		return tetris.HoldPiece
	}
	return ""
}

// Decode maps arrows, WASD, space and c to controls.
func Decode(ev keyboard.KeyEvent) (Control, bool) {
	switch {
	case ev.Key == keyboard.KeyArrowLeft || ev.Rune == 'a' || ev.Rune == 'A':
		return Left, true
	case ev.Key == keyboard.KeyArrowRight || ev.Rune == 'd' || ev.Rune == 'D':
		return Right, true
	case ev.Key == keyboard.KeyArrowDown || ev.Rune == 's' || ev.Rune == 'S':
		return Down, true
	case ev.Key == keyboard.KeyArrowUp || ev.Rune == 'w' || ev.Rune == 'W':
		return Rotate, true
	case ev.Key == keyboard.KeySpace:
		return Drop, true
	case ev.Rune == 'c' || ev.Rune == 'C':
		return Hold, true
	}
	return "", false
}
