package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
)

func TestHintStep(t *testing.T) {
	lvl := mustLevel(t, level.Spec{
		Layout: []string{"**S*E"},
		Moves:  map[string]int{"walker": core.Unlimited},
	})
	res, err := mustSolver(t, testRegistry(t)).Solve(lvl)
	require.NoError(t, err)
	require.True(t, res.Solvable)
	sol := res.Solution

	assert.Equal(t, len(sol)-2, HintCount(sol))

	for i := 1; i <= len(sol)-2; i++ {
		c, err := HintStep(sol, i)
		require.NoError(t, err, "index %d", i)
		assert.Equal(t, sol[i].Pos, c)
	}

	for _, bad := range []int{-1, 0, len(sol) - 1, len(sol), 99} {
		_, err := HintStep(sol, bad)
		assert.ErrorIs(t, err, ErrHintIndex, "index %d", bad)
	}
}

func TestHintStepShortSolutions(t *testing.T) {
	short := Solution{{Pos: core.C(0, 0)}, {Pos: core.C(1, 0)}}
	assert.Zero(t, HintCount(short))
	_, err := HintStep(short, 1)
	assert.ErrorIs(t, err, ErrHintIndex)

	_, err = HintStep(nil, 1)
	assert.ErrorIs(t, err, ErrHintIndex)
}
