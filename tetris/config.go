package tetris

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the game constants. The zero value is not usable, start from DefaultConfig.
type Config struct {
	Rows    int
	Columns int

	// BaseSpeed is the gravity delay, FastDropSpeed replaces it while soft drop is held.
	BaseSpeed     time.Duration
	FastDropSpeed time.Duration

	LineGoal  int
	Lookahead int

	// Kicks are the horizontal offsets tried in order when a rotation collides.
	Kicks []int

	// The countdown ticks from CountdownFrom to 0 every CountdownInterval and the
	// game starts CountdownDuration after the first tick.
	CountdownFrom     int
	CountdownInterval time.Duration
	CountdownDuration time.Duration

	// MoveDelay and MoveRepeat drive key repeat in the input layer.
	MoveDelay  time.Duration
	MoveRepeat time.Duration

	Catalog Catalog
}

func DefaultConfig() Config {
	return Config{
		Rows:              20,
		Columns:           10,
		BaseSpeed:         500 * time.Millisecond,
		FastDropSpeed:     33 * time.Millisecond,
		LineGoal:          40,
		Lookahead:         5,
		Kicks:             []int{1, -1, 2, -2},
		CountdownFrom:     3,
		CountdownInterval: 330 * time.Millisecond,
		CountdownDuration: 1900 * time.Millisecond,
		MoveDelay:         75 * time.Millisecond,
		MoveRepeat:        50 * time.Millisecond,
		Catalog:           Standard,
	}
}

// Validate fails fast on values the engine can't run with.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Columns <= 0:
		return fmt.Errorf("stack must be at least 1x1, got %dx%d: %w", c.Rows, c.Columns, ErrInvalidConfig)
	case c.BaseSpeed <= 0 || c.FastDropSpeed <= 0:
		return fmt.Errorf("drop speeds must be positive: %w", ErrInvalidConfig)
	case c.LineGoal <= 0:
		return fmt.Errorf("line goal must be positive, got %d: %w", c.LineGoal, ErrInvalidConfig)
	case c.Lookahead <= 0:
		return fmt.Errorf("lookahead must be positive, got %d: %w", c.Lookahead, ErrInvalidConfig)
	case c.CountdownFrom < 0 || c.CountdownInterval <= 0:
		return fmt.Errorf("countdown must tick forward: %w", ErrInvalidConfig)
	case c.CountdownDuration < c.countdownTicks():
		return fmt.Errorf("countdown duration %v is shorter than its ticks: %w", c.CountdownDuration, ErrInvalidConfig)
	case c.MoveDelay < 0 || c.MoveRepeat <= 0:
		return fmt.Errorf("move repeat must be positive: %w", ErrInvalidConfig)
	}
	return c.Catalog.Validate()
}

func (c Config) countdownTicks() time.Duration {
	return time.Duration(c.CountdownFrom) * c.CountdownInterval
}
