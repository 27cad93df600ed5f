package solver

import (
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/rules"
)

// Step is one externally visible snapshot of a solution.
type Step struct {
	Pos       core.Coord `json:"pos"`
	Form      core.Form  `json:"form"`
	FormName  string     `json:"form_name"`
	Collected int        `json:"collected"`
}

// Solution is the ordered sequence of steps from the initial state to a
// goal state, both included.
type Solution []Step

// Moves returns the number of moves, one less than the number of steps.
func (s Solution) Moves() int {
	if len(s) == 0 {
		return 0
	}
	return len(s) - 1
}

// Final returns the last step. It panics on an empty solution.
func (s Solution) Final() Step {
	return s[len(s)-1]
}

// Positions returns the coordinate of every step.
func (s Solution) Positions() []core.Coord {
	out := make([]core.Coord, len(s))
	for i, st := range s {
		out[i] = st.Pos
	}
	return out
}

// reconstruct walks parent links from goal back to the initial state and
// returns the states in forward order.
func reconstruct(goal State, parents map[Key]State) ([]State, error) {
	path := []State{goal}
	cur := goal
	for cur.Depth > 0 {
		parent, ok := parents[Encode(cur)]
		if !ok {
			return nil, fmt.Errorf("%w: broken parent chain at depth %d", ErrValidation, cur.Depth)
		}
		if parent.Depth != cur.Depth-1 {
			return nil, fmt.Errorf("%w: parent depth %d for child depth %d", ErrValidation, parent.Depth, cur.Depth)
		}
		path = append(path, parent)
		cur = parent
	}
	slices.Reverse(path)
	return path, nil
}

// validateGoal re-checks a goal state independently of the search's goal
// predicate.
func validateGoal(lvl *level.Level, goal State, target int) error {
	if goal.Pos != lvl.End() {
		return fmt.Errorf("%w: final position %s is not the end %s", ErrValidation, goal.Pos, lvl.End())
	}
	if goal.CollectedCount() != target {
		return fmt.Errorf("%w: collected %d, want exactly %d", ErrValidation, goal.CollectedCount(), target)
	}
	seen := mapset.New[core.Coord]()
	for _, c := range goal.Collected() {
		if !lvl.IsCollectible(c) {
			return fmt.Errorf("%w: %s is not a collectible cell", ErrValidation, c)
		}
		if seen.Has(c) {
			return fmt.Errorf("%w: %s collected twice", ErrValidation, c)
		}
		seen.Put(c)
	}
	return nil
}

// toSolution projects states onto the public step shape.
func toSolution(states []State, reg *rules.Registry) Solution {
	sol := make(Solution, len(states))
	for i, s := range states {
		sol[i] = Step{
			Pos:       s.Pos,
			Form:      s.Form,
			FormName:  reg.Name(s.Form),
			Collected: s.CollectedCount(),
		}
	}
	return sol
}

// Validate checks a solution that did not come straight out of the
// engine, such as one read back from a cache. It replays every move
// against the rulesets and the level and confirms the goal.
func Validate(lvl *level.Level, reg *rules.Registry, sol Solution, target int) error {
	if len(sol) == 0 {
		return fmt.Errorf("%w: empty solution", ErrValidation)
	}
	first := sol[0]
	if first.Pos != lvl.Start() {
		return fmt.Errorf("%w: first step %s is not the start %s", ErrValidation, first.Pos, lvl.Start())
	}
	if first.Form != core.FormDefault || first.Collected != 0 {
		return fmt.Errorf("%w: first step must be the default form with nothing collected", ErrValidation)
	}
	// Names pin ordinals to rulesets; a reordered forms file shifts them.
	for i, st := range sol {
		if name := reg.Name(st.Form); st.FormName != name {
			return fmt.Errorf("%w: step %d names form %q, ordinal %d is %q", ErrValidation, i, st.FormName, st.Form, name)
		}
	}

	budget, err := initialBudget(lvl, reg)
	if err != nil {
		return err
	}
	cur := State{Pos: lvl.Start(), Form: core.FormDefault, Moves: budget}

	for i := 1; i < len(sol); i++ {
		st := sol[i]
		rs, err := reg.RulesetFor(st.Form)
		if err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrValidation, i, err)
		}
		if st.Form == core.FormDefault && cur.Depth != 0 {
			return fmt.Errorf("%w: step %d uses the default form after the first move", ErrValidation, i)
		}
		if st.Form != core.FormDefault && !cur.Moves.CanUse(st.Form) {
			return fmt.Errorf("%w: step %d: form %q has no moves left", ErrValidation, i, rs.Name)
		}
		if !slices.Contains(rs.Offsets, core.C(st.Pos.X-cur.Pos.X, st.Pos.Y-cur.Pos.Y)) {
			return fmt.Errorf("%w: step %d: %s -> %s is not a %q move", ErrValidation, i, cur.Pos, st.Pos, rs.Name)
		}
		cell := lvl.Cell(st.Pos)
		if !lvl.InBounds(st.Pos) || !rs.CanEnter(cell.Terrain) || cell.Terrain == core.TerrainFire {
			return fmt.Errorf("%w: step %d: %s cannot enter %s", ErrValidation, i, rs.Name, cell.Terrain)
		}

		collect := cell.HasCollectible() && !cur.HasCollected(st.Pos)
		if collect && cur.CollectedCount() >= MaxTarget {
			return fmt.Errorf("%w: step %d collects more than %d", ErrValidation, i, MaxTarget)
		}
		cur = cur.move(st.Pos, st.Form, collect)
		if cur.CollectedCount() != st.Collected {
			return fmt.Errorf("%w: step %d records %d collected, replay has %d", ErrValidation, i, st.Collected, cur.CollectedCount())
		}
	}

	return validateGoal(lvl, cur, target)
}
