package solver

import (
	"fmt"

	"github.com/vovakirdan/formgrid/internal/core"
)

// HintStep returns the coordinate visited at step index of a solution.
// Valid indices are 1..len(sol)-2: the start and the goal are never hints.
func HintStep(sol Solution, index int) (core.Coord, error) {
	if index < 1 || index > len(sol)-2 {
		return core.Coord{}, fmt.Errorf("%w: index %d, valid range is 1..%d", ErrHintIndex, index, len(sol)-2)
	}
	return sol[index].Pos, nil
}

// HintCount returns how many hints a solution can reveal.
func HintCount(sol Solution) int {
	if len(sol) < 3 {
		return 0
	}
	return len(sol) - 2
}
