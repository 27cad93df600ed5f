package solver

import (
	"math"

	"github.com/vovakirdan/formgrid/internal/core"
)

// maxAllotment is the largest finite allotment a Budget can hold.
const maxAllotment = math.MaxInt16

// Budget holds the remaining moves per form, indexed by form ordinal.
// core.Unlimited marks a form that never runs out. Being an array, a Budget
// is copied on assignment, so a transition never touches its parent's
// budget.
type Budget [core.MaxForms]int16

// CanUse reports whether form f has moves left.
func (b Budget) CanUse(f core.Form) bool {
	return b[f] == core.Unlimited || b[f] > 0
}

// spend returns a copy of b with one move of f used up.
func (b Budget) spend(f core.Form) Budget {
	if f != core.FormDefault && b[f] > 0 {
		b[f]--
	}
	return b
}

// State is one search configuration. States are values and are never
// mutated after creation; moving produces a new State.
type State struct {
	Pos   core.Coord
	Form  core.Form
	Moves Budget
	Depth int

	collected [MaxTarget]core.Coord // sorted row-major, first n valid
	n         uint8
}

// Collected returns the collected coordinates in row-major order.
func (s State) Collected() []core.Coord {
	return append([]core.Coord(nil), s.collected[:s.n]...)
}

// CollectedCount returns how many unique collectibles were picked up.
func (s State) CollectedCount() int {
	return int(s.n)
}

// HasCollected reports whether c is already in the collected set.
func (s State) HasCollected(c core.Coord) bool {
	for i := 0; i < int(s.n); i++ {
		if s.collected[i] == c {
			return true
		}
	}
	return false
}

// withCollected returns a copy of s with c inserted in row-major order.
// The caller guarantees c is new and there is room for it.
func (s State) withCollected(c core.Coord) State {
	i := int(s.n)
	for i > 0 && c.Less(s.collected[i-1]) {
		s.collected[i] = s.collected[i-1]
		i--
	}
	s.collected[i] = c
	s.n++
	return s
}

// move returns the state reached by moving to pos in form f.
func (s State) move(pos core.Coord, f core.Form, collect bool) State {
	next := s
	next.Pos = pos
	next.Form = f
	next.Moves = s.Moves.spend(f)
	next.Depth = s.Depth + 1
	if collect && !s.HasCollected(pos) {
		next = next.withCollected(pos)
	}
	return next
}
