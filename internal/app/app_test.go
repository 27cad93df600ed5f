package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/formgrid/internal/config"
	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/solver"
)

const (
	solvableLevel = `id: line
name: Line
layout: ["**S*E"]
moves:
  walker: unlimited
`
	stuckLevel = `id: stuck
layout: ["S***^E"]
moves:
  salamander: unlimited
`
	brokenLevel = `id: broken
layout: ["S..", "E"]
`
)

func newTestApp(t *testing.T, withCache bool) *App {
	t.Helper()
	dir := t.TempDir()
	levels := filepath.Join(dir, "levels")
	require.NoError(t, os.MkdirAll(levels, 0o755))
	for name, body := range map[string]string{
		"line.yaml":   solvableLevel,
		"stuck.yaml":  stuckLevel,
		"broken.yaml": brokenLevel,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(levels, name), []byte(body), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.Levels.Dir = levels
	cfg.Storage.Enabled = withCache
	cfg.Storage.Path = filepath.Join(dir, "cache.db")

	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)

	a, err := New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewLoadsLevels(t *testing.T) {
	a := newTestApp(t, false)

	ids := []string{}
	for _, info := range a.Levels().List() {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"line", "stuck"}, ids, "the broken file is skipped")
	require.Len(t, a.Skipped(), 1)
	for path := range a.Skipped() {
		assert.Equal(t, "broken.yaml", filepath.Base(path))
	}
	assert.Nil(t, a.Store())
	assert.Equal(t, solver.DefaultTarget, a.Solver().Options().Target)
}

func TestReloadConcurrent(t *testing.T) {
	a := newTestApp(t, false)

	var wg sync.WaitGroup
	errs := make(chan error, 4*20)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if err := a.Reload(); err != nil {
					errs <- err
				}
				if n := len(a.Skipped()); n != 1 {
					errs <- fmt.Errorf("expected 1 skipped file, got %d", n)
				}
				_ = a.Levels().List()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, 2, a.Levels().Len())
}

func TestSkippedIsACopy(t *testing.T) {
	a := newTestApp(t, false)

	skipped := a.Skipped()
	for path := range skipped {
		delete(skipped, path)
	}
	assert.Len(t, a.Skipped(), 1)
}

func TestNewMissingLevelsDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Levels.Dir = filepath.Join(t.TempDir(), "nope")
	cfg.Storage.Enabled = false

	a, err := New(cfg, log.New(os.Stderr))
	require.NoError(t, err)
	assert.Zero(t, a.Levels().Len())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.Target = 12
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSolveUsesCache(t *testing.T) {
	a := newTestApp(t, true)
	lvl, err := a.Level("line")
	require.NoError(t, err)

	first, err := a.Solve(lvl, SolveOptions{Source: SourceCLI})
	require.NoError(t, err)
	require.True(t, first.Solvable)
	assert.False(t, first.Cached)

	second, err := a.Solve(lvl, SolveOptions{Source: SourceCLI})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Solution, second.Solution)

	fresh, err := a.Solve(lvl, SolveOptions{NoCache: true, Source: SourceCLI})
	require.NoError(t, err)
	assert.False(t, fresh.Cached)

	runs, err := a.Store().RecentRuns("line", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	n, err := a.Forget("line")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	again, err := a.Solve(lvl, SolveOptions{})
	require.NoError(t, err)
	assert.False(t, again.Cached)
}

func TestSolveCachesUnsolvable(t *testing.T) {
	a := newTestApp(t, true)
	lvl, err := a.Level("stuck")
	require.NoError(t, err)

	first, err := a.Solve(lvl, SolveOptions{})
	require.NoError(t, err)
	assert.False(t, first.Solvable)

	second, err := a.Solve(lvl, SolveOptions{})
	require.NoError(t, err)
	assert.False(t, second.Solvable)
	assert.True(t, second.Cached)
}

func TestSolveCacheKeyedByRulesets(t *testing.T) {
	dir := t.TempDir()
	levels := filepath.Join(dir, "levels")
	require.NoError(t, os.MkdirAll(levels, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(levels, "line.yaml"), []byte(solvableLevel), 0o644))

	// A walker that cannot move makes "line" unsolvable.
	stalled := filepath.Join(dir, "stalled.yaml")
	require.NoError(t, os.WriteFile(stalled, []byte(`
forms:
  - name: walker
    offsets: []
    terrain: [default, start, end]
`), 0o644))

	open := func(forms string) *App {
		cfg := config.DefaultConfig()
		cfg.Levels.Dir = levels
		cfg.Levels.Forms = forms
		cfg.Storage.Path = filepath.Join(dir, "cache.db")

		logger := log.New(os.Stderr)
		logger.SetLevel(log.ErrorLevel)

		a, err := New(cfg, logger)
		require.NoError(t, err)
		return a
	}
	solve := func(a *App) Outcome {
		lvl, err := a.Level("line")
		require.NoError(t, err)
		out, err := a.Solve(lvl, SolveOptions{})
		require.NoError(t, err)
		return out
	}

	a := open(stalled)
	out := solve(a)
	assert.False(t, out.Solvable)
	assert.True(t, solve(a).Cached, "the same rulesets reuse the cached answer")
	require.NoError(t, a.Close())

	b := open("")
	defer b.Close()
	assert.NotEqual(t, a.Rules().Fingerprint(), b.Rules().Fingerprint())

	out = solve(b)
	assert.False(t, out.Cached, "other rulesets must not reuse the cached answer")
	assert.True(t, out.Solvable)
	assert.Equal(t, 6, out.Solution.Moves())
}

func TestHint(t *testing.T) {
	a := newTestApp(t, false)
	lvl, err := a.Level("line")
	require.NoError(t, err)

	c, out, err := a.Hint(lvl, 1, SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, out.Solution[1].Pos, c)
	assert.Equal(t, core.C(1, 0), c)

	_, _, err = a.Hint(lvl, 0, SolveOptions{})
	assert.ErrorIs(t, err, solver.ErrHintIndex)

	stuck, err := a.Level("stuck")
	require.NoError(t, err)
	_, _, err = a.Hint(stuck, 1, SolveOptions{})
	assert.ErrorIs(t, err, ErrUnsolvable)
}

func TestLevelResolvesPaths(t *testing.T) {
	a := newTestApp(t, false)

	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("layout: [\"S*E\"]\n"), 0o644))

	lvl, err := a.Level(path)
	require.NoError(t, err)
	assert.Equal(t, "extra", lvl.ID)

	_, err = a.Level("unknown")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	a := newTestApp(t, true)

	results, err := a.Check(context.Background(), a.Levels().All(), 2, SolveOptions{Source: SourceCheck})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "line", results[0].Level.ID)
	assert.True(t, results[0].OK())
	assert.Equal(t, "stuck", results[1].Level.ID)
	assert.False(t, results[1].OK())
	assert.NoError(t, results[1].Err)
}

func TestCheckCancelled(t *testing.T) {
	a := newTestApp(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Check(ctx, a.Levels().All(), 1, SolveOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
