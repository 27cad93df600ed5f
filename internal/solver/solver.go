// Package solver implements the breadth-first search that decides whether a
// level can be completed and produces a minimal-move solution.
//
// A search configuration (State) is a position, the active form, the
// remaining move budget per form and the set of collectibles picked up.
// States are deduplicated by their canonical Key, explored in FIFO order,
// and the first goal state dequeued is walked back through the parent map
// and re-validated before it is returned.
//
// The search is synchronous and keeps all of its bookkeeping local to one
// call. Hosts that must stay responsive should run it off their UI
// goroutine, for example through SolveAsync.
package solver

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/rules"
)

// Result is the outcome of a solve. Solvable false with a nil error is the
// normal "no solution" answer, whether the frontier ran dry or the depth
// bound cut the search short.
type Result struct {
	Solvable bool
	Solution Solution
	Stats    Stats
}

// Solver runs searches against one ruleset registry. It holds no per-search
// state and is safe for concurrent use.
type Solver struct {
	reg    *rules.Registry
	opts   Options
	logger *log.Logger
}

// New creates a Solver. It returns ErrOptionViolation for invalid options.
func New(reg *rules.Registry, opts ...Option) (*Solver, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil ruleset registry", ErrConfig)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Solver{
		reg:    reg,
		opts:   o,
		logger: logger.WithPrefix("solver"),
	}, nil
}

// Options returns the effective options.
func (s *Solver) Options() Options {
	return s.opts
}

// Registry returns the ruleset registry the solver uses.
func (s *Solver) Registry() *rules.Registry {
	return s.reg
}

// Solve searches lvl for a goal state.
func (s *Solver) Solve(lvl *level.Level) (Result, error) {
	initial, err := s.initialState(lvl)
	if err != nil {
		return Result{}, err
	}

	w := newWalker(lvl, s.reg, s.opts)
	goal, found := w.run(initial)

	s.logger.Debug("search finished",
		"level", lvl.ID,
		"found", found,
		"explored", w.stats.Explored,
		"enqueued", w.stats.Enqueued,
		"max_frontier", w.stats.MaxFrontier,
		"depth_limited", w.stats.DepthLimited,
		"elapsed", w.stats.Elapsed,
	)

	if !found {
		return Result{Stats: w.stats}, nil
	}

	states, err := reconstruct(goal, w.parents)
	if err == nil {
		err = validateGoal(lvl, states[len(states)-1], s.opts.Target)
	}
	if err == nil && states[0] != initial {
		err = fmt.Errorf("%w: path does not begin at the initial state", ErrValidation)
	}
	if err != nil {
		s.logger.Error("search produced an invalid solution", "level", lvl.ID, "error", err)
		return Result{Stats: w.stats}, err
	}

	return Result{
		Solvable: true,
		Solution: toSolution(states, s.reg),
		Stats:    w.stats,
	}, nil
}

// IsSolvable reports whether lvl has a solution within the depth bound.
func (s *Solver) IsSolvable(lvl *level.Level) (bool, error) {
	res, err := s.Solve(lvl)
	if err != nil {
		return false, err
	}
	return res.Solvable, nil
}

// Validate replays a solution obtained elsewhere against lvl.
func (s *Solver) Validate(lvl *level.Level, sol Solution) error {
	if lvl == nil {
		return fmt.Errorf("%w: nil level", ErrConfig)
	}
	return Validate(lvl, s.reg, sol, s.opts.Target)
}

// initialState checks the level and builds the root of the search.
func (s *Solver) initialState(lvl *level.Level) (State, error) {
	if lvl == nil {
		return State{}, fmt.Errorf("%w: nil level", ErrConfig)
	}
	if lvl.Width() == 0 || lvl.Height() == 0 {
		return State{}, fmt.Errorf("%w: level %q has zero size", ErrConfig, lvl.ID)
	}
	budget, err := initialBudget(lvl, s.reg)
	if err != nil {
		return State{}, err
	}
	return State{
		Pos:   lvl.Start(),
		Form:  core.FormDefault,
		Moves: budget,
	}, nil
}

// IsConfigError reports whether err is a configuration problem (bad level,
// unknown form or bad option) rather than an engine defect.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig) ||
		errors.Is(err, rules.ErrUnknownForm) ||
		errors.Is(err, level.ErrInvalidLevel) ||
		errors.Is(err, ErrOptionViolation)
}
