package app

import (
	"time"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/solver"
	"github.com/vovakirdan/formgrid/internal/storage"
)

// Run sources recorded in solve history.
const (
	SourceCLI   = "cli"
	SourceCheck = "check"
	SourceTUI   = "tui"
	SourceSSH   = "ssh"
)

// SolveOptions adjusts a single Solve call.
type SolveOptions struct {
	NoCache bool   // skip the cache lookup; the fresh answer is still stored
	Source  string // recorded with the run
}

// Outcome is a solver result plus where it came from.
type Outcome struct {
	solver.Result
	Cached bool
}

// Solve answers lvl from the cache when possible and runs the solver
// otherwise. Cached solutions are replayed against the level before they
// are trusted.
func (a *App) Solve(lvl *level.Level, opts SolveOptions) (Outcome, error) {
	start := time.Now()
	key := a.cacheKey(lvl)

	if a.store != nil && !opts.NoCache {
		if out, ok := a.fromCache(lvl, key); ok {
			out.Stats.Elapsed = time.Since(start)
			a.record(lvl, out, opts.Source)
			return out, nil
		}
	}

	res, err := a.solver.Solve(lvl)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Result: res}

	if a.store != nil {
		err := a.store.SaveSolution(storage.CachedSolution{
			CacheKey: key,
			Solvable: res.Solvable,
			Solution: res.Solution,
			Explored: res.Stats.Explored,
		})
		if err != nil {
			a.logger.Warn("could not cache solution", "level", lvl.ID, "error", err)
		}
	}
	a.record(lvl, out, opts.Source)

	return out, nil
}

// Hint returns the coordinate at step index of lvl's solution.
func (a *App) Hint(lvl *level.Level, index int, opts SolveOptions) (core.Coord, Outcome, error) {
	out, err := a.Solve(lvl, opts)
	if err != nil {
		return core.Coord{}, out, err
	}
	if !out.Solvable {
		return core.Coord{}, out, ErrUnsolvable
	}
	c, err := solver.HintStep(out.Solution, index)
	return c, out, err
}

// Forget drops every cached answer for a level.
func (a *App) Forget(levelID string) (int64, error) {
	if a.store == nil {
		return 0, nil
	}
	return a.store.DeleteSolutions(levelID)
}

func (a *App) cacheKey(lvl *level.Level) storage.CacheKey {
	opts := a.solver.Options()
	return storage.CacheKey{
		LevelID:          lvl.ID,
		Fingerprint:      lvl.Fingerprint(),
		RulesFingerprint: a.rules.Fingerprint(),
		Target:           opts.Target,
		MaxDepth:         opts.MaxDepth,
	}
}

func (a *App) fromCache(lvl *level.Level, key storage.CacheKey) (Outcome, bool) {
	cached, err := a.store.Solution(key)
	if err != nil {
		a.logger.Warn("cache lookup failed", "level", lvl.ID, "error", err)
		return Outcome{}, false
	}
	if cached == nil {
		return Outcome{}, false
	}

	if cached.Solvable {
		if err := a.solver.Validate(lvl, cached.Solution); err != nil {
			a.logger.Warn("discarding cached solution", "level", lvl.ID, "error", err)
			return Outcome{}, false
		}
	}

	a.logger.Debug("cache hit", "level", lvl.ID, "solvable", cached.Solvable)
	return Outcome{
		Result: solver.Result{
			Solvable: cached.Solvable,
			Solution: cached.Solution,
			Stats:    solver.Stats{Explored: cached.Explored},
		},
		Cached: true,
	}, true
}

// record stores a run in the history. Failures are logged, never returned.
func (a *App) record(lvl *level.Level, out Outcome, source string) {
	if a.store == nil {
		return
	}
	_, err := a.store.SaveRun(storage.Run{
		LevelID:     lvl.ID,
		Fingerprint: lvl.Fingerprint(),
		Solvable:    out.Solvable,
		Moves:       out.Solution.Moves(),
		Explored:    out.Stats.Explored,
		Elapsed:     out.Stats.Elapsed,
		Cached:      out.Cached,
		Source:      source,
	})
	if err != nil {
		a.logger.Warn("could not record run", "level", lvl.ID, "error", err)
	}
}
