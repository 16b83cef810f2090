package tetris

// Rand is the randomness source of the queue. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Queue supplies an endless stream of shapes and keeps a fixed lookahead.
// Every shape is an independent uniform draw: there's no 7-bag.
type Queue struct {
	shapes []Shape
	next   []Shape
	size   int
	rand   Rand
}

func NewQueue(shapes []Shape, size int, r Rand) *Queue {
	q := &Queue{
		shapes: shapes,
		next:   make([]Shape, 0, size+1),
		size:   size,
		rand:   r,
	}
	q.fill()
	return q
}

func (q *Queue) fill() {
	for len(q.next) < q.size {
		q.next = append(q.next, q.shapes[q.rand.IntN(len(q.shapes))])
	}
}

// Dequeue returns the front shape and refills the lookahead.
func (q *Queue) Dequeue() Shape {
	s := q.next[0]
	q.next = append(q.next[:0], q.next[1:]...)
	q.fill()
	return s
}

// Peek returns a copy of the next n shapes.
func (q *Queue) Peek(n int) []Shape {
	n = max(0, min(n, len(q.next)))
	out := make([]Shape, n)
	copy(out, q.next)
	return out
}

func (q *Queue) Len() int {
	return len(q.next)
}
