package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/formgrid/internal/storage"
)

type workspace struct {
	config string
	levels string
	db     string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		config: filepath.Join(dir, "formgrid.yaml"),
		levels: filepath.Join(dir, "levels"),
		db:     filepath.Join(dir, "cache.db"),
	}
	require.NoError(t, os.MkdirAll(ws.levels, 0o755))
	require.NoError(t, os.WriteFile(ws.config, []byte("{}\n"), 0o644))
	for name, body := range map[string]string{
		"line.yaml":   "id: line\nlayout: [\"**S*E\"]\nmoves:\n  walker: unlimited\n",
		"stuck.yaml":  "id: stuck\nlayout: [\"S***^E\"]\nmoves:\n  salamander: unlimited\n",
		"broken.yaml": "id: broken\nlayout: [\"S..\", \"E\"]\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(ws.levels, name), []byte(body), 0o644))
	}
	return ws
}

// run executes the root command against the workspace and returns what
// the command wrote to its output.
func (ws workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagJSON, flagNoCache, flagConcurrency = false, false, 0

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{
		"--config", ws.config,
		"--levels", ws.levels,
		"--db", ws.db,
		"--log-level", "error",
	}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"unsolvable", errUnsolvable, 2},
		{"wrapped", fmt.Errorf("solve: %w", errUnsolvable), 2},
		{"explicit", exitError{code: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestSolveUnsolvableReturnsStatus(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "solve", "stuck")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, out, "No solution")

	// The app was closed on return, so the cache opens cleanly and holds
	// the run.
	store, err := storage.Open(ws.db)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.RecentRuns("stuck", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.False(t, runs[0].Solvable)
}

func TestSolveJSON(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "solve", "line", "--json")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))
	assert.Contains(t, out, "walker")

	_, err = ws.run(t, "solve", "stuck", "--json")
	assert.Equal(t, 2, exitCode(err))
}

func TestSolveUnknownLevel(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(t, "solve", "nowhere")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "formgrid list")
}

func TestHintStatus(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "hint", "line", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Hint 2/5")

	_, err = ws.run(t, "hint", "line", "9")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "hints 1 to 5")

	_, err = ws.run(t, "hint", "stuck", "1")
	assert.Equal(t, 2, exitCode(err))

	_, err = ws.run(t, "hint", "line", "two")
	assert.Equal(t, 1, exitCode(err))
}

func TestCheckFailsOnBadPack(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "check", "--concurrency", "2")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "ok    line")
	assert.Contains(t, out, "FAIL  stuck")
	assert.Contains(t, out, "broken.yaml")
	assert.Contains(t, out, "3 checked, 2 failed")
}

func TestForgetDropsCache(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(t, "solve", "line")
	require.NoError(t, err)

	out, err := ws.run(t, "forget", "line")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cached solution(s) for line.")
}
