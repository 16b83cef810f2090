package input

import (
	"sync"
	"time"

	"sprint/tetris"
)

// Sink receives the actions. *tetris.Game satisfies it.
type Sink interface {
	Action(tetris.Action)
}

// Repeater emulates key repeat from press and release edges. A move moves
// once on press, then again after the move delay and every repeat interval
// until released. Only one direction repeats at a time: the latest press wins.
// Down maps to soft drop on and off, the other controls fire once per press.
//
// The sink is never called with the lock held, and Release, Press and Stop
// only return once the repeat they end is done acting.
type Repeater struct {
	sink     Sink
	delay    time.Duration
	interval time.Duration
	newTimer func() tetris.Timer

	held      map[Control]bool
	stopped   bool
	repeating Control
	stop      chan struct{}
	done      chan struct{}
	mu        sync.Mutex
}

func NewRepeater(sink Sink, delay, interval time.Duration) *Repeater {
	return NewConfigurableRepeater(sink, delay, interval, tetris.NewTimer)
}

func NewConfigurableRepeater(sink Sink, delay, interval time.Duration, newTimer func() tetris.Timer) *Repeater {
	return &Repeater{
		sink:     sink,
		delay:    delay,
		interval: interval,
		newTimer: newTimer,
		held:     make(map[Control]bool),
	}
}

func isMove(c Control) bool {
	return c == Left || c == Right
}

// Press handles a key going down. Presses of a control that's already held are ignored.
func (r *Repeater) Press(c Control) {
	r.mu.Lock()
	if r.stopped || !c.IsValid() || r.held[c] {
		r.mu.Unlock()
		return
	}
	r.held[c] = true
	var wait <-chan struct{}
	if isMove(c) {
		wait = r.stopRepeat()
	}
	r.mu.Unlock()

	if wait != nil {
		<-wait
	}
	r.sink.Action(c.Action())
	if isMove(c) {
		r.startRepeat(c)
	}
}

func (r *Repeater) startRepeat(c Control) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// the key may have been released, or the repeater stopped, while acting.
	if r.stopped || !r.held[c] || r.stop != nil {
		return
	}
	r.repeating = c
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.repeat(c.Action(), r.stop, r.done)
}

// Release handles a key going up.
func (r *Repeater) Release(c Control) {
	r.mu.Lock()
	if !r.held[c] {
		r.mu.Unlock()
		return
	}
	delete(r.held, c)
	var wait <-chan struct{}
	if c == r.repeating {
		wait = r.stopRepeat()
	}
	r.mu.Unlock()

	if wait != nil {
		<-wait
	}
	if c == Down {
		r.sink.Action(tetris.SoftDropOff)
	}
}

// Stop releases every held control without emitting anything and ignores
// any later press.
func (r *Repeater) Stop() {
	r.mu.Lock()
	r.stopped = true
	wait := r.stopRepeat()
	clear(r.held)
	r.mu.Unlock()

	if wait != nil {
		<-wait
	}
}

// stopRepeat signals the repeat goroutine and returns a channel closed once it exits.
func (r *Repeater) stopRepeat() <-chan struct{} {
	done := r.done
	if r.stop != nil {
		close(r.stop)
	}
	r.stop, r.done, r.repeating = nil, nil, ""
	return done
}

func (r *Repeater) repeat(a tetris.Action, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	t := r.newTimer()
	defer t.Stop()
	t.Reset(r.delay)
	for {
		select {
		case <-stop:
			return
		case <-t.C():
		}
		select {
		case <-stop:
			return
		default:
		}
		r.sink.Action(a)
		t.Reset(r.interval)
	}
}
