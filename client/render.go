package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"

	"sprint/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos   = "\033[H"      // Reset cursor position to 0,0
	clearAll   = "\033[2J"     // Clear the screen
	hideCursor = "\033[?25l"   // Hide the cursor
	showCursor = "\033[?25h\n" // Show the cursor

	empty     = "  "
	ghost     = "[]"
	sideWidth = 20

	// the layout frames a board of this size.
	boardRows    = 20
	boardColumns = 10
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

func block(s tetris.Shape) string {
	c, ok := colorMap[s]
	if !ok {
		return empty
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", c)
}

type templateData struct {
	Snapshot *tetris.Snapshot
	NoGhost  bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	mu       sync.Mutex
	*templateData
}

func newRender(l *slog.Logger, noGhost bool) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:       os.Stdout,
		logger:       l,
		template:     tmp,
		templateData: &templateData{NoGhost: noGhost},
	}, nil
}

// game draws the snapshot and the overlay of its state.
func (r *render) game(s *tetris.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw(s)
	switch s.State {
	case tetris.Countdown:
		r.box(countdown(s.Countdown))
	case tetris.Paused:
		r.box(paused())
	}
}

// lobby draws the last game, or an empty board, behind the message.
func (r *render) lobby(msg []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Snapshot == nil {
		r.draw(tetris.NewTestSnapshot(tetris.J))
	} else {
		r.draw(r.Snapshot)
	}
	r.box(msg)
}

func (r *render) start() {
	fmt.Fprint(r.writer, clearAll+hideCursor)
}

func (r *render) close() {
	fmt.Fprint(r.writer, showCursor)
}

func (r *render) draw(s *tetris.Snapshot) {
	r.Snapshot = s
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in draw()", slog.String("error", err.Error()))
	}
}

// box writes the message lines over the middle of the board.
func (r *render) box(msg []string) {
	if len(msg) == 0 {
		return
	}
	const width = 38
	row := 10 - len(msg)/2
	fmt.Fprintf(r.writer, "\033[%d;3H+%s+", row, strings.Repeat("-", width))
	for i, l := range msg {
		pad := width - len([]rune(l))
		left := pad / 2
		fmt.Fprintf(r.writer, "\033[%d;3H|%s%s%s|", row+1+i, strings.Repeat(" ", left), l, strings.Repeat(" ", pad-left))
	}
	fmt.Fprintf(r.writer, "\033[%d;3H+%s+", row+1+len(msg), strings.Repeat("-", width))
}

func defaultLobby() []string {
	return []string{"Welcome to Terminal Tetris", "", "(p)lay   (o)nline   (q)uit"}
}

func gameOver() []string {
	return []string{"Game Over :(", "", "(p)lay   (o)nline   (q)uit"}
}

func youWon(o tetris.GameOver) []string {
	return []string{fmt.Sprintf("%d lines in %s", o.Lines, tetris.FormatElapsed(o.Elapsed)), "", "(p)lay   (o)nline   (q)uit"}
}

func connecting() []string {
	return []string{"connecting to server..."}
}

func errorMessage() []string {
	return []string{"something went wrong :(", "", "(p)lay   (o)nline   (q)uit"}
}

func countdown(n int) []string {
	if n == 0 {
		return []string{"GO!"}
	}
	return []string{fmt.Sprint(n)}
}

func paused() []string {
	return []string{"Paused", "", "(p) resume"}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"board":   board,
		"sidebar": sidebar,
		"join":    func(row [boardColumns]string) string { return strings.Join(row[:], "") },
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

// board renders the stack, the ghost and the tetromino. Row 1 of the stack is index 0.
func board(t *templateData) [boardRows][boardColumns]string {
	rendered := [boardRows][boardColumns]string{}
	for y := range rendered {
		for x := range rendered[y] {
			rendered[y][x] = empty
		}
	}
	if t.Snapshot == nil {
		return rendered
	}
	set := func(p tetris.Point, v string) {
		if p.Y >= 1 && p.Y <= boardRows && p.X >= 1 && p.X <= boardColumns {
			rendered[p.Y-1][p.X-1] = v
		}
	}

	for _, c := range t.Snapshot.Stack {
		set(tetris.Point{X: c.X, Y: c.Y}, block(c.Shape))
	}
	if t.Snapshot.Tetromino == nil {
		return rendered
	}
	if !t.NoGhost {
		for _, p := range t.Snapshot.Ghost {
			set(p, ghost)
		}
	}
	for _, p := range t.Snapshot.Blocks {
		set(p, block(t.Snapshot.Tetromino.Shape))
	}
	return rendered
}

// sidebar returns the lines shown next to the board.
func sidebar(t *templateData) [boardRows]string {
	lines := [boardRows]string{}
	s := t.Snapshot
	if s == nil {
		s = &tetris.Snapshot{LineGoal: tetris.DefaultConfig().LineGoal}
	}

	lines[0] = "NEXT"
	row := 1
	for i, shape := range s.Next {
		if i == 3 {
			break
		}
		p := preview(shape, false)
		lines[row], lines[row+1] = p[0], p[1]
		row += 3
	}

	lines[11] = "HOLD"
	if s.Hold.Shape != "" {
		// a used hold is drawn without colors.
		p := preview(s.Hold.Shape, !s.Hold.Available)
		lines[12], lines[13] = p[0], p[1]
	}

	lines[16] = fmt.Sprintf("LINES %d/%d", s.LinesClear, s.LineGoal)
	lines[18] = "TIME  " + tetris.FormatElapsed(s.Elapsed)

	for i, l := range lines {
		// pad the text lines so a shorter one overwrites the previous frame.
		if !strings.Contains(l, "\x1b") {
			lines[i] = fmt.Sprintf("%-*s", sideWidth, l)
		}
	}
	return lines
}

// preview draws the spawn rotation of the shape in a 4x2 box.
func preview(s tetris.Shape, used bool) [2]string {
	rows := [2][4]string{}
	for y := range rows {
		for x := range rows[y] {
			rows[y][x] = empty
		}
	}
	rotations := tetris.Standard[s]
	if len(rotations) == 0 {
		return [2]string{}
	}
	for _, p := range rotations[0] {
		// spawn blocks sit in columns 4 to 7 and rows 0 to 1.
		x, y := p.X-4, p.Y
		if x >= 0 && x < 4 && y >= 0 && y < 2 {
			rows[y][x] = block(s)
			if used {
				rows[y][x] = ghost
			}
		}
	}
	return [2]string{strings.Join(rows[0][:], ""), strings.Join(rows[1][:], "")}
}
