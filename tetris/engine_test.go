package tetris

import (
	"reflect"
	"testing"
	"time"
)

type recorder struct {
	events []Event
}

func record(e *Engine) *recorder {
	r := &recorder{}
	e.Subscribe(func(ev Event) { r.events = append(r.events, ev) })
	return r
}

func (r *recorder) names() []string {
	names := make([]string, len(r.events))
	for i, ev := range r.events {
		names[i] = ev.Name()
	}
	return names
}

func (r *recorder) reset() { r.events = nil }

func (r *recorder) last() Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func TestCountdown(t *testing.T) {
	e, timer, _ := NewTestEngine(O)
	rec := record(e)

	if !e.Start() {
		t.Fatal("wanted start to succeed from idle")
	}
	if e.State() != Countdown {
		t.Fatalf("wanted countdown, got %s", e.State())
	}
	if got := rec.events; !reflect.DeepEqual(got, []Event{StateChanged{From: Idle, To: Countdown}, CountdownTick{N: 3}}) {
		t.Errorf("wanted the state change and the first tick, got %v", got)
	}

	for _, n := range []int{2, 1, 0} {
		if timer.Last() != 330*time.Millisecond {
			t.Errorf("wanted a 330ms tick before %d, got %v", n, timer.Last())
		}
		rec.reset()
		e.Fire()
		if got := rec.events; !reflect.DeepEqual(got, []Event{CountdownTick{N: n}}) {
			t.Errorf("wanted tick %d, got %v", n, got)
		}
	}

	if timer.Last() != 910*time.Millisecond {
		t.Errorf("wanted the rest of the countdown to be 910ms, got %v", timer.Last())
	}
	if e.Tetromino() != nil {
		t.Error("wanted no tetromino during the countdown")
	}

	rec.reset()
	e.Fire()
	if e.State() != Running {
		t.Fatalf("wanted running, got %s", e.State())
	}
	if timer.Last() != 500*time.Millisecond {
		t.Errorf("wanted gravity at 500ms, got %v", timer.Last())
	}
	if got := rec.names(); !reflect.DeepEqual(got, []string{"stateChanged", "holdChanged", "pieceMoved"}) {
		t.Errorf("wanted running to spawn the first piece, got %v", got)
	}
	if e.Tetromino().Shape != O {
		t.Errorf("wanted O in play, got %s", e.Tetromino().Shape)
	}
}

func TestActionsGatedByState(t *testing.T) {
	e, _, _ := NewTestEngine()
	for _, a := range []Action{MoveLeft, MoveRight, Rotate, SoftDropOn, SoftDropOff, HardDrop, HoldPiece, Pause, Resume} {
		if e.Do(a) {
			t.Errorf("wanted %s to be ignored while idle", a)
		}
	}
	if e.Do("jump") {
		t.Error("wanted unknown actions to be ignored")
	}

	e.Start()
	if e.Start() {
		t.Error("wanted start to be ignored during the countdown")
	}
	if e.Do(MoveLeft) {
		t.Error("wanted moves to be ignored during the countdown")
	}

	SkipCountdown(e)
	if e.Start() {
		t.Error("wanted start to be ignored while running")
	}
	if e.Resume() {
		t.Error("wanted resume to be ignored while running")
	}
}

func TestGravityLocksAtTheBottom(t *testing.T) {
	e, timer, _ := NewTestEngine(O)
	SkipCountdown(e)
	rec := record(e)

	for i := 1; i <= 19; i++ {
		e.Fire()
		if e.Tetromino().Y != i {
			t.Fatalf("wanted Y %d after %d ticks, got %d", i, i, e.Tetromino().Y)
		}
	}
	if e.Stack().Len() != 0 {
		t.Fatalf("wanted nothing locked yet, got %v", e.Stack().Cells())
	}

	rec.reset()
	e.Fire()
	want := []Cell{{5, 19, O}, {6, 19, O}, {5, 20, O}, {6, 20, O}}
	if got := e.Stack().Cells(); !reflect.DeepEqual(got, want) {
		t.Errorf("wanted %v, got %v", want, got)
	}
	if got := rec.names(); !reflect.DeepEqual(got, []string{"pieceLocked", "holdChanged", "pieceMoved"}) {
		t.Errorf("wanted lock then spawn, got %v", got)
	}
	if e.Tetromino().Y != 0 {
		t.Errorf("wanted a fresh piece at the spawn row, got Y %d", e.Tetromino().Y)
	}
	if !timer.IsArmed() {
		t.Error("wanted gravity to be armed for the new piece")
	}
}

func TestLineClear(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		// .	1 2 3 4 5 6 7 8 9 10			1 2 3 4 5 6 7 8 9 10
		// 19	C X X X X X X X X X	>	19	X X X X X X X X X X
		// 20	C C C O O O O C C C		20	C X X X X X X X X X
		e, _, _ := NewTestEngine(I)
		SkipCountdown(e)
		rec := record(e)
		e.Stack().Commit([]Cell{{1, 19, T}})
		for _, x := range []int{1, 2, 3, 8, 9, 10} {
			e.Stack().Commit([]Cell{{x, 20, J}})
		}

		if !e.HardDrop() {
			t.Fatal("wanted hard drop to succeed")
		}
		if got := e.Stack().Cells(); !reflect.DeepEqual(got, []Cell{{1, 20, T}}) {
			t.Errorf("wanted the marker to fall one row, got %v", got)
		}
		if e.Lines() != 1 {
			t.Errorf("wanted 1 line, got %d", e.Lines())
		}
		if got := rec.names(); !reflect.DeepEqual(got, []string{"pieceMoved", "pieceLocked", "linesCleared", "holdChanged", "pieceMoved"}) {
			t.Errorf("wanted clear events in order, got %v", got)
		}
		cleared := rec.events[2].(LinesCleared)
		if !reflect.DeepEqual(cleared, LinesCleared{Rows: []int{20}, Total: 1}) {
			t.Errorf("wanted row 20 cleared, got %+v", cleared)
		}
		if cleared.Cue() != "single" {
			t.Errorf("wanted the single cue, got %s", cleared.Cue())
		}
	})

	t.Run("two lines with a vertical I", func(t *testing.T) {
		// .	1 2 3 4 5 6 7 8 9 10			1 2 3 4 5 6 7 8 9 10
		// 17	X X X X O X X X X X		17	X X X X X X X X X X
		// 18	C X X X O X X X X X	>	18	X X X X X X X X X X
		// 19	C C C C O C C C C C		19	X X X X O X X X X X
		// 20	C C C C O C C C C C		20	C X X X O X X X X X
		e, _, _ := NewTestEngine(I)
		SkipCountdown(e)
		rec := record(e)
		e.Stack().Commit([]Cell{{1, 18, T}})
		for x := 1; x <= 10; x++ {
			if x != 5 {
				e.Stack().Commit([]Cell{{x, 19, J}, {x, 20, J}})
			}
		}

		if !e.Rotate() {
			t.Fatal("wanted the I to rotate")
		}
		e.HardDrop()
		want := []Cell{{5, 19, I}, {1, 20, T}, {5, 20, I}}
		if got := e.Stack().Cells(); !reflect.DeepEqual(got, want) {
			t.Errorf("wanted %v, got %v", want, got)
		}
		var cleared LinesCleared
		for _, ev := range rec.events {
			if lc, ok := ev.(LinesCleared); ok {
				cleared = lc
			}
		}
		if !reflect.DeepEqual(cleared, LinesCleared{Rows: []int{20, 19}, Total: 2}) {
			t.Errorf("wanted rows 20 and 19 bottom-most first, got %+v", cleared)
		}
	})
}

// fillAroundO fills rows 19 and 20 except the columns an O lands on.
func fillAroundO(s *Stack) {
	for x := 1; x <= 10; x++ {
		if x != 5 && x != 6 {
			s.Commit([]Cell{{x, 19, J}, {x, 20, J}})
		}
	}
}

func TestWin(t *testing.T) {
	e, timer, clock := NewTestEngine(O)
	SkipCountdown(e)
	rec := record(e)

	for i := 1; i <= 20; i++ {
		if e.State() != Running {
			t.Fatalf("wanted running before drop %d, got %s", i, e.State())
		}
		fillAroundO(e.Stack())
		clock.Advance(time.Second)
		e.HardDrop()
		if e.Lines() != 2*i {
			t.Fatalf("wanted %d lines, got %d", 2*i, e.Lines())
		}
		if e.Stack().Len() != 0 {
			t.Fatalf("wanted an empty stack after drop %d, got %v", i, e.Stack().Cells())
		}
	}

	if e.State() != Won {
		t.Fatalf("wanted won, got %s", e.State())
	}
	if timer.IsArmed() {
		t.Error("wanted gravity stopped after winning")
	}
	if e.Tetromino() != nil {
		t.Error("wanted no piece after winning")
	}
	if got := rec.last(); !reflect.DeepEqual(got, GameOver{Won: true, Lines: 40, Elapsed: 20 * time.Second}) {
		t.Errorf("wanted a won game over, got %+v", got)
	}
	if got := rec.names()[len(rec.events)-3:]; !reflect.DeepEqual(got, []string{"linesCleared", "stateChanged", "gameOver"}) {
		t.Errorf("wanted the game to end right after the last clear, got %v", got)
	}
	for _, a := range Actions {
		if a != Reset && e.Do(a) {
			t.Errorf("wanted %s to be ignored after winning", a)
		}
	}
}

func TestGameOver(t *testing.T) {
	t.Run("spawn blocked", func(t *testing.T) {
		// .	1 2 3 4 5 6 7 8 9 10
		// 1	X X X X C C X X X X
		// ...
		// 19	O O X X X X X X X X
		// 20	O O X X X X X X X X
		e, timer, _ := NewTestEngine(O)
		SkipCountdown(e)
		rec := record(e)
		for range 4 {
			e.MoveLeft()
		}
		e.Stack().Commit([]Cell{{5, 1, J}, {6, 1, J}})
		e.HardDrop()

		if e.State() != Over {
			t.Fatalf("wanted game over, got %s", e.State())
		}
		if timer.IsArmed() {
			t.Error("wanted gravity stopped")
		}
		if got := rec.last(); !reflect.DeepEqual(got, GameOver{Won: false}) {
			t.Errorf("wanted a lost game over, got %+v", got)
		}
		if e.Stack().Len() != 6 {
			t.Errorf("wanted the blocked piece not to lock, got %v", e.Stack().Cells())
		}
	})

	t.Run("locked above the stack", func(t *testing.T) {
		e, _, _ := NewTestEngine(O)
		SkipCountdown(e)
		for y := 2; y <= 20; y++ {
			e.Stack().Commit([]Cell{{5, y, J}, {6, y, J}})
		}
		e.Fire()

		if e.State() != Over {
			t.Fatalf("wanted game over, got %s", e.State())
		}
		if e.Stack().Len() != 38 {
			t.Errorf("wanted the piece not to lock, got %d cells", e.Stack().Len())
		}
	})
}

func TestHoldPiece(t *testing.T) {
	e, timer, _ := NewTestEngine(J, L, O, S)
	SkipCountdown(e)
	rec := record(e)

	if !e.HoldPiece() {
		t.Fatal("wanted the first hold to succeed")
	}
	if e.Tetromino().Shape != L {
		t.Errorf("wanted the next shape to come out of the queue, got %s", e.Tetromino().Shape)
	}
	if got := rec.events[0]; !reflect.DeepEqual(got, HoldChanged{Shape: J, Available: false}) {
		t.Errorf("wanted J held, got %+v", got)
	}
	if !timer.IsArmed() {
		t.Error("wanted gravity armed for the swapped piece")
	}

	e.MoveRight()
	e.Rotate()
	before := e.Tetromino()
	rec.reset()
	if e.HoldPiece() {
		t.Error("wanted the second hold to be refused")
	}
	if e.Hold().Shape != J {
		t.Errorf("wanted J to stay held, got %s", e.Hold().Shape)
	}
	if got := e.Tetromino(); !reflect.DeepEqual(got, before) {
		t.Errorf("wanted the refused hold to leave %+v in play, got %+v", before, got)
	}
	if len(rec.events) != 0 {
		t.Errorf("wanted no events for a refused hold, got %v", rec.names())
	}

	e.HardDrop()
	if e.Tetromino().Shape != O || !e.Hold().Available {
		t.Fatalf("wanted O in play and the hold available, got %s and %+v", e.Tetromino().Shape, e.Hold())
	}
	if !e.HoldPiece() {
		t.Fatal("wanted the hold to be usable after a spawn")
	}
	if e.Tetromino().Shape != J || e.Hold().Shape != O {
		t.Errorf("wanted J back and O held, got %s and %s", e.Tetromino().Shape, e.Hold().Shape)
	}
	if e.Tetromino().Y != 0 || e.Tetromino().X != 0 {
		t.Errorf("wanted J back at its spawn location, got %+v", e.Tetromino())
	}
}

func TestHoldSwapBlocked(t *testing.T) {
	e, _, _ := NewTestEngine(O, J)
	SkipCountdown(e)
	for range 4 {
		e.MoveLeft()
	}
	// J spawns on (4,1) (5,1) (6,1) (4,0).
	e.Stack().Commit([]Cell{{4, 1, T}})
	if !e.HoldPiece() {
		t.Fatal("wanted the hold to be accepted")
	}
	if e.State() != Over {
		t.Errorf("wanted a blocked swap to end the game, got %s", e.State())
	}
}

func TestSoftDrop(t *testing.T) {
	e, timer, _ := NewTestEngine()
	SkipCountdown(e)

	if !e.SoftDrop(true) {
		t.Fatal("wanted soft drop on")
	}
	if timer.Last() != 33*time.Millisecond {
		t.Errorf("wanted fast gravity, got %v", timer.Last())
	}
	resets := timer.Resets()
	if e.SoftDrop(true) {
		t.Error("wanted the same toggle to be ignored")
	}
	if timer.Resets() != resets {
		t.Error("wanted an ignored toggle to leave gravity alone")
	}

	e.Fire()
	if timer.Last() != 33*time.Millisecond {
		t.Errorf("wanted gravity to stay fast, got %v", timer.Last())
	}
	if !e.Snapshot().SoftDrop {
		t.Error("wanted the snapshot to show soft drop")
	}

	e.Do(SoftDropOff)
	if timer.Last() != 500*time.Millisecond {
		t.Errorf("wanted base gravity, got %v", timer.Last())
	}
}

func TestPauseResume(t *testing.T) {
	e, timer, clock := NewTestEngine()
	SkipCountdown(e)
	rec := record(e)

	clock.Advance(2 * time.Second)
	if !e.Pause() {
		t.Fatal("wanted pause to succeed")
	}
	if timer.IsArmed() {
		t.Error("wanted gravity stopped while paused")
	}
	y := e.Tetromino().Y
	e.Fire()
	if e.Tetromino().Y != y {
		t.Error("wanted a stale tick to be ignored")
	}
	if e.MoveLeft() || e.HardDrop() {
		t.Error("wanted moves ignored while paused")
	}

	clock.Advance(5 * time.Second)
	if e.Elapsed() != 2*time.Second {
		t.Errorf("wanted pauses excluded from the elapsed time, got %v", e.Elapsed())
	}

	if !e.Resume() {
		t.Fatal("wanted resume to succeed")
	}
	if !timer.IsArmed() || timer.Last() != 500*time.Millisecond {
		t.Errorf("wanted gravity re-armed at 500ms, got %v", timer.Last())
	}
	clock.Advance(time.Second)
	if e.Elapsed() != 3*time.Second {
		t.Errorf("wanted 3s elapsed, got %v", e.Elapsed())
	}
	want := []Event{StateChanged{From: Running, To: Paused}, StateChanged{From: Paused, To: Running}}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("wanted %v, got %v", want, rec.events)
	}
}

func TestReset(t *testing.T) {
	t.Run("while running", func(t *testing.T) {
		e, timer, _ := NewTestEngine(O)
		SkipCountdown(e)
		fillAroundO(e.Stack())
		e.HardDrop()
		e.HardDrop()
		rec := record(e)

		if !e.Reset() {
			t.Fatal("wanted reset to succeed")
		}
		if e.State() != Idle || e.Lines() != 0 || e.Stack().Len() != 0 || e.Tetromino() != nil {
			t.Errorf("wanted a fresh idle session, got %+v", e.Snapshot())
		}
		if timer.IsArmed() {
			t.Error("wanted gravity stopped")
		}
		if !reflect.DeepEqual(rec.events, []Event{StateChanged{From: Running, To: Idle}}) {
			t.Errorf("wanted a single state change, got %v", rec.events)
		}
		if !e.Start() {
			t.Error("wanted a reset session to start again")
		}
	})

	t.Run("during the countdown", func(t *testing.T) {
		e, _, _ := NewTestEngine()
		e.Start()
		e.Reset()
		rec := record(e)
		e.Fire()
		if e.State() != Idle || len(rec.events) != 0 {
			t.Errorf("wanted the pending countdown tick to be dropped, got %s and %v", e.State(), rec.events)
		}
	})

	t.Run("while idle", func(t *testing.T) {
		e, _, _ := NewTestEngine()
		rec := record(e)
		e.Reset()
		if len(rec.events) != 0 {
			t.Errorf("wanted no events, got %v", rec.events)
		}
	})
}

func TestSnapshot(t *testing.T) {
	s := NewTestSnapshot(O)
	if s.State != Running || s.Tetromino == nil || s.Tetromino.Shape != O {
		t.Fatalf("wanted a running O, got %+v", s)
	}
	if len(s.Next) != 5 || s.LineGoal != 40 || s.Rows != 20 || s.Columns != 10 {
		t.Errorf("wanted the config in the snapshot, got %+v", s)
	}
	wantGhost := []Point{{5, 20}, {6, 20}, {5, 19}, {6, 19}}
	if !reflect.DeepEqual(s.Ghost, wantGhost) {
		t.Errorf("wanted ghost %v, got %v", wantGhost, s.Ghost)
	}
	if !s.Hold.Available {
		t.Error("wanted the hold available")
	}
}
