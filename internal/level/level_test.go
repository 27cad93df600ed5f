package level_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
)

func TestNewDerivesFacts(t *testing.T) {
	lvl, err := level.New(level.Spec{
		ID: "t",
		Layout: []string{
			"S.*",
			"~#^",
			"*.E",
		},
		Collectibles: []core.Coord{{X: 1, Y: 0}},
		Moves:        map[string]int{"Walker": 3, "swimmer": core.Unlimited},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, lvl.Width())
	assert.Equal(t, 3, lvl.Height())
	assert.Equal(t, core.C(0, 0), lvl.Start())
	assert.Equal(t, core.C(2, 2), lvl.End())
	assert.Equal(t, []core.Coord{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}, lvl.Collectibles())
	assert.Equal(t, 3, lvl.CollectibleCount())
	assert.True(t, lvl.IsCollectible(core.C(1, 0)))
	assert.False(t, lvl.IsCollectible(core.C(1, 1)))
	assert.Equal(t, map[string]int{"walker": 3, "swimmer": core.Unlimited}, lvl.Moves())

	assert.Equal(t, core.TerrainWater, lvl.Cell(core.C(0, 1)).Terrain)
	assert.Equal(t, core.TerrainStone, lvl.Cell(core.C(1, 1)).Terrain)
	assert.Equal(t, core.TerrainFire, lvl.Cell(core.C(2, 1)).Terrain)
	assert.Equal(t, core.TerrainEmpty, lvl.Cell(core.C(-1, 0)).Terrain)
	assert.False(t, lvl.InBounds(core.C(3, 0)))

	assert.Equal(t, []string{"S**", "~#^", "*.E"}, lvl.Rows())
}

func TestNewCopiesAreIndependent(t *testing.T) {
	lvl, err := level.New(level.Spec{Layout: []string{"S*E"}, Moves: map[string]int{"walker": 1}})
	require.NoError(t, err)

	lvl.Collectibles()[0] = core.C(9, 9)
	lvl.Moves()["walker"] = 50

	assert.Equal(t, []core.Coord{{X: 1}}, lvl.Collectibles())
	assert.Equal(t, 1, lvl.Moves()["walker"])
}

func TestNewPinnedEndpoints(t *testing.T) {
	center := core.C(1, 1)
	lvl, err := level.New(level.Spec{
		Layout: []string{"*.*", "...", "*.."},
		Start:  &center,
		End:    &center,
	})
	require.NoError(t, err)
	assert.Equal(t, center, lvl.Start())
	assert.Equal(t, center, lvl.End())
}

func TestNewValidation(t *testing.T) {
	outside := core.C(5, 5)

	tests := []struct {
		name string
		spec level.Spec
		code string
	}{
		{"no rows", level.Spec{}, "EMPTY_GRID"},
		{"no columns", level.Spec{Layout: []string{""}}, "EMPTY_GRID"},
		{"ragged rows", level.Spec{Layout: []string{"S..", ".E"}}, "SIZE_MISMATCH"},
		{"declared width", level.Spec{Width: 4, Layout: []string{"S.E"}}, "SIZE_MISMATCH"},
		{"declared height", level.Spec{Height: 2, Layout: []string{"S.E"}}, "SIZE_MISMATCH"},
		{"bad rune", level.Spec{Layout: []string{"S?E"}}, "BAD_RUNE"},
		{"no start", level.Spec{Layout: []string{"..E"}}, "NO_START"},
		{"no end", level.Spec{Layout: []string{"S.."}}, "NO_END"},
		{"two starts", level.Spec{Layout: []string{"SSE"}}, "MULTIPLE_START"},
		{"two ends", level.Spec{Layout: []string{"SEE"}}, "MULTIPLE_END"},
		{"collectible outside", level.Spec{Layout: []string{"S.E"}, Collectibles: []core.Coord{outside}}, "OUT_OF_BOUNDS"},
		{"pinned start outside", level.Spec{Layout: []string{"S.E"}, Start: &outside}, "OUT_OF_BOUNDS"},
		{"negative moves", level.Spec{Layout: []string{"S.E"}, Moves: map[string]int{"walker": -3}}, "BAD_MOVES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := level.New(tt.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, level.ErrInvalidLevel)

			var ve level.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

func TestFingerprint(t *testing.T) {
	build := func(layout string, moves map[string]int) string {
		lvl, err := level.New(level.Spec{ID: "fp", Layout: []string{layout}, Moves: moves})
		require.NoError(t, err)
		return lvl.Fingerprint()
	}

	base := build("S*.E", map[string]int{"walker": 3, "jumper": 1})
	assert.Len(t, base, 16)
	assert.Equal(t, base, build("S*.E", map[string]int{"jumper": 1, "walker": 3}))
	assert.NotEqual(t, base, build("S.*E", map[string]int{"walker": 3, "jumper": 1}))
	assert.NotEqual(t, base, build("S*.E", map[string]int{"walker": 4, "jumper": 1}))
}
