package tetris

import (
	"fmt"
	"time"
)

// Clock is the monotonic time source used for the elapsed time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// stopwatch accumulates running time and excludes pauses.
type stopwatch struct {
	clock   Clock
	since   time.Time
	total   time.Duration
	running bool
}

func (w *stopwatch) start() {
	if w.running {
		return
	}
	w.since = w.clock.Now()
	w.running = true
}

func (w *stopwatch) stop() {
	if !w.running {
		return
	}
	w.total += w.clock.Now().Sub(w.since)
	w.running = false
}

func (w *stopwatch) reset() {
	w.total = 0
	w.running = false
}

func (w *stopwatch) elapsed() time.Duration {
	if w.running {
		return w.total + w.clock.Now().Sub(w.since)
	}
	return w.total
}

// FormatElapsed renders a duration as m:ss.mmm.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms%60000)/1000, ms%1000)
}
