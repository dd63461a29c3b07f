package animation

import "math"

// Display is the wheel as drawn. Short candidate lists are repeated so
// the wheel has at least a minimum number of segments; the repetition is
// cosmetic and never used to pick the result.
type Display[T any] struct {
	Items []T `json:"items"`
	// Pointer is the display slot under the pointer.
	Pointer int `json:"pointer"`
	// Position is the wheel offset in display slots.
	Position float64 `json:"position"`

	n int
}

// NewDisplay pads candidates to at least minItems entries by whole
// repetitions of the list.
func NewDisplay[T any](candidates []T, position float64, minItems int) Display[T] {
	n := len(candidates)
	if n == 0 {
		return Display[T]{}
	}

	reps := 1
	if n < minItems {
		reps = (minItems + n - 1) / n
	}

	items := make([]T, 0, n*reps)
	for range reps {
		items = append(items, candidates...)
	}

	return Display[T]{
		Items:    items,
		Pointer:  int(math.Round(position)) % n,
		Position: position,
		n:        n,
	}
}

// CandidateIndex maps a display slot back to the candidate list.
func (d Display[T]) CandidateIndex(slot int) int {
	if d.n == 0 {
		return 0
	}
	idx := slot % d.n
	if idx < 0 {
		idx += d.n
	}
	return idx
}

// Padded reports whether the display repeats candidates.
func (d Display[T]) Padded() bool {
	return len(d.Items) > d.n
}
