package solver

import (
	"context"

	"github.com/vovakirdan/formgrid/internal/level"
)

// Future is a solve running on its own goroutine.
type Future struct {
	done chan struct{}
	res  Result
	err  error
}

// SolveAsync starts Solve in the background and returns immediately. The
// search cannot be interrupted; a caller that stops waiting simply drops
// the result.
func (s *Solver) SolveAsync(lvl *level.Level) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.res, f.err = s.Solve(lvl)
	}()
	return f
}

// Done is closed when the search has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the search finishes or ctx ends. On ctx expiry the
// result is discarded and ctx.Err() is returned.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
