package tetris

// Hold is the single-piece side buffer. It can be used once per spawned piece.
type Hold struct {
	Shape     Shape `json:"shape"`
	Available bool  `json:"available"`
}

func NewHold() *Hold {
	return &Hold{Available: true}
}

// Swap stores s and returns the previously held shape ("" when the slot was empty).
// It returns false, leaving the slot untouched, when the hold was already used.
func (h *Hold) Swap(s Shape) (Shape, bool) {
	if !h.Available {
		return "", false
	}
	prev := h.Shape
	h.Shape = s
	h.Available = false
	return prev, true
}

// OnSpawn re-enables the hold. The engine calls it once per new piece, never on a swap.
func (h *Hold) OnSpawn() {
	h.Available = true
}
