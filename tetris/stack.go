package tetris

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
)

// Cell is a settled block. Shape is only kept for rendering.
type Cell struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Shape Shape `json:"shape"`
}

// Stack is the playfield of settled cells.
//
//	. 1 2 3 4 5 6 7 8 9 10
//	1 . . . . . . . . . .
//	2 . . . . . . . . . .
//	...
//	20 X X X . X X X X X X
//
// A point is in bounds when its column is within 1..Columns and its row is not
// below Rows. There's no upper bound: rows <= 0 are the spawn buffer and never collide.
type Stack struct {
	Rows    int
	Columns int

	cells *intmap.Map[int64, Shape]
}

func NewStack(rows, columns int) *Stack {
	return &Stack{
		Rows:    rows,
		Columns: columns,
		cells:   intmap.New[int64, Shape](rows * columns),
	}
}

func key(x, y int) int64 {
	return int64(y)<<32 | int64(uint32(x)) //nolint:gosec
}

func unkey(k int64) (int, int) {
	return int(int32(uint32(k))), int(k >> 32) //nolint:gosec
}

// IsOccupied reports whether a settled cell exists at (x, y).
func (s *Stack) IsOccupied(x, y int) bool {
	_, ok := s.cells.Get(key(x, y))
	return ok
}

// Shape returns the shape that settled at (x, y), or "" when empty.
func (s *Stack) Shape(x, y int) Shape {
	v, _ := s.cells.Get(key(x, y))
	return v
}

func (s *Stack) IsInBounds(x, y int) bool {
	return x >= 1 && x <= s.Columns && y <= s.Rows
}

// CanAccept reports whether every point is in bounds and free.
// Points at row 0 or above the stack never collide with settled cells.
func (s *Stack) CanAccept(points []Point) bool {
	for _, p := range points {
		if !s.IsInBounds(p.X, p.Y) {
			return false
		}
		if p.Y > 0 && s.IsOccupied(p.X, p.Y) {
			return false
		}
	}
	return true
}

// Commit settles the cells. Callers must have checked the placement.
func (s *Stack) Commit(cells []Cell) {
	for _, c := range cells {
		s.cells.Put(key(c.X, c.Y), c.Shape)
	}
}

// CompleteLines returns the rows with every column filled, top to bottom.
func (s *Stack) CompleteLines() []int {
	var lines []int
	for y := 1; y <= s.Rows; y++ {
		complete := true
		for x := 1; x <= s.Columns; x++ {
			if !s.IsOccupied(x, y) {
				complete = false
				break
			}
		}
		if complete {
			lines = append(lines, y)
		}
	}
	return lines
}

// RemoveLines deletes the given rows and collapses the cells above them.
// Rows are removed bottom-most first; every removal shifts the rows above it
// down by one, so the rows still pending are tracked at their shifted index.
func (s *Stack) RemoveLines(rows []int) {
	pending := slices.Clone(rows)
	slices.SortFunc(pending, func(a, b int) int { return cmp.Compare(b, a) })
	pending = slices.Compact(pending)

	for removed, row := range pending {
		current := row + removed
		cells := s.Cells()
		s.cells.Clear()
		for _, c := range cells {
			switch {
			case c.Y == current:
				continue
			case c.Y < current:
				c.Y++
			}
			s.cells.Put(key(c.X, c.Y), c.Shape)
		}
	}
}

// Cells returns every settled cell ordered by row, then column.
func (s *Stack) Cells() []Cell {
	cells := make([]Cell, 0, s.cells.Len())
	s.cells.ForEach(func(k int64, v Shape) bool {
		x, y := unkey(k)
		cells = append(cells, Cell{X: x, Y: y, Shape: v})
		return true
	})
	slices.SortFunc(cells, func(a, b Cell) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return cells
}

func (s *Stack) Len() int {
	return s.cells.Len()
}
