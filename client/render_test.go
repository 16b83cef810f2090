package client

import (
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"sprint/tetris"
)

func newTestRender(t *testing.T, noGhost bool) (*render, *strings.Builder) {
	t.Helper()
	tmpl, err := loadTemplate()
	if err != nil {
		t.Fatalf("unable to load template: %v", err)
	}
	w := &strings.Builder{}
	return &render{
		writer:       w,
		logger:       slog.Default(),
		template:     tmpl,
		templateData: &templateData{NoGhost: noGhost},
	}, w
}

func TestBoard(t *testing.T) {
	// .	1 2 3 4 5 6 7 8 9 10
	// 1	X X X X O O X X X X		the top half of the O is still hidden
	// ...
	// 19	X X X X G G X X X X
	// 20	I X X X G G X X X X
	s := tetris.NewTestSnapshot(tetris.O)
	s.Stack = []tetris.Cell{{X: 1, Y: 20, Shape: tetris.I}}
	s.Ghost = []tetris.Point{{X: 5, Y: 20}, {X: 6, Y: 20}, {X: 5, Y: 19}, {X: 6, Y: 19}}

	t.Run("with ghost", func(t *testing.T) {
		got := board(&templateData{Snapshot: s})
		for _, c := range []struct {
			y, x int
			want string
		}{
			{0, 4, block(tetris.O)},
			{0, 5, block(tetris.O)},
			{0, 3, empty},
			{18, 4, ghost},
			{19, 5, ghost},
			{19, 0, block(tetris.I)},
			{19, 9, empty},
		} {
			if got[c.y][c.x] != c.want {
				t.Errorf("wanted %q at row %d column %d, got %q", c.want, c.y, c.x, got[c.y][c.x])
			}
		}
	})

	t.Run("without ghost", func(t *testing.T) {
		got := board(&templateData{Snapshot: s, NoGhost: true})
		if got[19][4] != empty {
			t.Errorf("wanted no ghost, got %q", got[19][4])
		}
	})

	t.Run("without snapshot", func(t *testing.T) {
		got := board(&templateData{})
		if got[10][5] != empty {
			t.Errorf("wanted an empty board, got %q", got[10][5])
		}
	})
}

func TestPreview(t *testing.T) {
	got := preview(tetris.I, false)
	want := [2]string{strings.Repeat(empty, 4), strings.Repeat(block(tetris.I), 4)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wanted %q, got %q", want, got)
	}

	got = preview(tetris.T, true)
	want = [2]string{empty + ghost + empty + empty, ghost + ghost + ghost + empty}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wanted a used T, got %q", got)
	}
}

func TestSidebar(t *testing.T) {
	s := tetris.NewTestSnapshot(tetris.J)
	s.LinesClear = 12
	s.Hold = tetris.Hold{Shape: tetris.L, Available: true}
	got := sidebar(&templateData{Snapshot: s})

	if !strings.HasPrefix(got[0], "NEXT") {
		t.Errorf("wanted the next header, got %q", got[0])
	}
	if got[2] != preview(tetris.J, false)[1] {
		t.Errorf("wanted the next J, got %q", got[2])
	}
	if got[12] != preview(tetris.L, false)[0] {
		t.Errorf("wanted the held L, got %q", got[12])
	}
	if strings.TrimSpace(got[16]) != "LINES 12/40" {
		t.Errorf("wanted the lines, got %q", got[16])
	}
	if strings.TrimSpace(got[18]) != "TIME  0:00.000" {
		t.Errorf("wanted the time, got %q", got[18])
	}
	if len(got[16]) != sideWidth {
		t.Errorf("wanted text lines padded to %d, got %d", sideWidth, len(got[16]))
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		do   func(*render)
		want []string
	}{
		{
			name: "running game",
			do:   func(r *render) { r.game(tetris.NewTestSnapshot(tetris.T)) },
			want: []string{"Terminal Tetris", "LINES 0/40", block(tetris.T), "\r\n"},
		},
		{
			name: "countdown",
			do: func(r *render) {
				r.game(&tetris.Snapshot{State: tetris.Countdown, Countdown: 0, LineGoal: 40})
			},
			want: []string{"GO!"},
		},
		{
			name: "paused",
			do:   func(r *render) { r.game(&tetris.Snapshot{State: tetris.Paused, LineGoal: 40}) },
			want: []string{"Paused"},
		},
		{
			name: "default lobby message",
			do:   func(r *render) { r.lobby(defaultLobby()) },
			want: []string{"Welcome to Terminal Tetris", "(p)lay   (o)nline   (q)uit"},
		},
		{
			name: "game over lobby message",
			do:   func(r *render) { r.lobby(gameOver()) },
			want: []string{"Game Over :("},
		},
		{
			name: "you won lobby message",
			do:   func(r *render) { r.lobby(youWon(tetris.GameOver{Won: true, Lines: 40, Elapsed: 61_005_000_000})) },
			want: []string{"40 lines in 1:01.005"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, w := newTestRender(t, false)
			tt.do(r)
			for _, want := range tt.want {
				if !strings.Contains(w.String(), want) {
					t.Errorf("wanted output to contain %q, got %q", want, w.String())
				}
			}
		})
	}
}
