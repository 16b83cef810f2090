package tetris

import (
	"fmt"
	"slices"
)

// Shape identifies a tetromino. The empty Shape means "no piece".
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	T Shape = "T"
	Z Shape = "Z"
)

// Point is a (column, row) pair on the stack.
// Columns are 1 > 10 left to right, rows are 1 > 20 top to bottom.
// Row 0 and negative rows are the hidden spawn area above the stack.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rotation holds the four block positions of a shape in one orientation.
// The catalog positions already encode the spawn columns and rows, so a
// Tetromino with origin (0,0) sits at its spawn location.
type Rotation [4]Point

// Catalog maps every shape to its ordered list of rotations.
type Catalog map[Shape][]Rotation

/*
.	Spawn Location of T. Row 0 is hidden.

.	1 2 3 4 5 6 7 8 9 10

0	X X X X O X X X X X
1	X X X O O O X X X X
2	X X X X X X X X X X
*/
var Standard = Catalog{
	I: {
		{{4, 1}, {5, 1}, {6, 1}, {7, 1}},
		{{5, 1}, {5, 0}, {5, -1}, {5, -2}},
	},
	J: {
		{{4, 1}, {5, 1}, {6, 1}, {4, 0}},
		{{5, 1}, {6, -1}, {5, 0}, {5, -1}},
		{{4, 0}, {5, 0}, {6, 0}, {6, 1}},
		{{5, 1}, {6, 1}, {6, 0}, {6, -1}},
	},
	L: {
		{{4, 1}, {5, 1}, {6, 1}, {6, 0}},
		{{5, 1}, {6, 1}, {5, 0}, {5, -1}},
		{{4, 1}, {4, 0}, {5, 0}, {6, 0}},
		{{6, 1}, {6, 0}, {6, -1}, {5, -1}},
	},
	O: {
		{{5, 1}, {6, 1}, {5, 0}, {6, 0}},
	},
	S: {
		{{4, 1}, {5, 1}, {5, 0}, {6, 0}},
		{{6, 1}, {5, 0}, {6, 0}, {5, -1}},
	},
	T: {
		{{4, 1}, {5, 1}, {6, 1}, {5, 0}},
		{{5, 1}, {5, 0}, {6, 0}, {5, -1}},
		{{5, 1}, {4, 0}, {5, 0}, {6, 0}},
		{{5, 1}, {4, 0}, {5, 0}, {5, -1}},
	},
	Z: {
		{{5, 1}, {6, 1}, {4, 0}, {5, 0}},
		{{5, 1}, {5, 0}, {6, 0}, {6, -1}},
	},
}

// Shapes returns the catalog shapes in a stable order.
func (c Catalog) Shapes() []Shape {
	shapes := make([]Shape, 0, len(c))
	for s := range c {
		shapes = append(shapes, s)
	}
	slices.Sort(shapes)
	return shapes
}

// Validate reports whether the catalog can be played with.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("empty catalog: %w", ErrInvalidConfig)
	}
	for s, r := range c {
		if s == "" {
			return fmt.Errorf("catalog has an unnamed shape: %w", ErrInvalidConfig)
		}
		if len(r) == 0 {
			return fmt.Errorf("shape %s has no rotations: %w", s, ErrInvalidConfig)
		}
	}
	return nil
}

// Tetromino is the piece in play.
type Tetromino struct {
	Shape    Shape `json:"shape"`
	Rotation int   `json:"rotation"`
	X        int   `json:"x"`
	Y        int   `json:"y"`

	rotations []Rotation
}

func newTetromino(c Catalog, s Shape) *Tetromino {
	return &Tetromino{Shape: s, rotations: c[s]}
}

// Blocks returns the stack positions of the four blocks.
func (t *Tetromino) Blocks() []Point {
	return t.blocksAt(t.X, t.Y, t.Rotation)
}

// Cells returns the blocks tagged with the tetromino's shape.
func (t *Tetromino) Cells() []Cell {
	cells := make([]Cell, 0, 4)
	for _, b := range t.Blocks() {
		cells = append(cells, Cell{X: b.X, Y: b.Y, Shape: t.Shape})
	}
	return cells
}

func (t *Tetromino) blocksAt(x, y, rotation int) []Point {
	r := t.rotations[rotation]
	blocks := make([]Point, len(r))
	for i, p := range r {
		blocks[i] = Point{X: p.X + x, Y: p.Y + y}
	}
	return blocks
}

// TryMove moves the tetromino by (dx, dy) if the stack accepts the new position.
func (t *Tetromino) TryMove(s *Stack, dx, dy int) bool {
	if !s.CanAccept(t.blocksAt(t.X+dx, t.Y+dy, t.Rotation)) {
		return false
	}
	t.X += dx
	t.Y += dy
	return true
}

// Rotate moves to the next rotation. When the bare rotation collides, the kicks
// are tried in order as horizontal offsets and the first one that fits wins.
func (t *Tetromino) Rotate(s *Stack, kicks []int) bool {
	next := (t.Rotation + 1) % len(t.rotations)
	if s.CanAccept(t.blocksAt(t.X, t.Y, next)) {
		t.Rotation = next
		return true
	}
	for _, k := range kicks {
		if s.CanAccept(t.blocksAt(t.X+k, t.Y, next)) {
			t.X += k
			t.Rotation = next
			return true
		}
	}
	return false
}

// GhostY returns the Y the tetromino would rest at if dropped, without moving it.
func (t *Tetromino) GhostY(s *Stack) int {
	y := t.Y
	for s.CanAccept(t.blocksAt(t.X, y+1, t.Rotation)) {
		y++
	}
	return y
}

// GhostBlocks returns the block positions at the ghost row.
func (t *Tetromino) GhostBlocks(s *Stack) []Point {
	return t.blocksAt(t.X, t.GhostY(s), t.Rotation)
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
