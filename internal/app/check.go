package app

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/formgrid/internal/level"
)

// CheckResult is the verdict for one level of a batch check.
type CheckResult struct {
	Level   *level.Level
	Outcome Outcome
	Err     error
}

// OK reports whether the level solved without error.
func (r CheckResult) OK() bool {
	return r.Err == nil && r.Outcome.Solvable
}

// Check solves every level concurrently with at most concurrency solves in
// flight (0 means one per CPU). Per-level failures land in the results;
// the returned error is only ever ctx's.
func (a *App) Check(ctx context.Context, levels []*level.Level, concurrency int, opts SolveOptions) ([]CheckResult, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	results := make([]CheckResult, len(levels))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, lvl := range levels {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := a.Solve(lvl, opts)
			results[i] = CheckResult{Level: lvl, Outcome: out, Err: err}
			if err != nil {
				a.logger.Error("check failed", "level", lvl.ID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
