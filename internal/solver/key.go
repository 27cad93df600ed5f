package solver

import "github.com/vovakirdan/formgrid/internal/core"

// Key is the canonical encoding of a State used for deduplication.
//
// It is a comparable struct, so Go's map hashing provides the structural
// hash and equality. Budgets are arrays indexed by form ordinal and
// collected coordinates are kept sorted, which makes the key independent of
// the order in which either was built. Depth is deliberately left out: a
// shallower and a deeper route to the same configuration share one key.
type Key struct {
	Pos       core.Coord
	Form      core.Form
	Moves     Budget
	Collected [MaxTarget]core.Coord
	N         uint8
}

// Encode returns the canonical key of s.
func Encode(s State) Key {
	return Key{
		Pos:       s.Pos,
		Form:      s.Form,
		Moves:     s.Moves,
		Collected: s.collected,
		N:         s.n,
	}
}
