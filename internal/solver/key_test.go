package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/formgrid/internal/core"
)

func TestEncodeIgnoresCollectionOrder(t *testing.T) {
	a := State{Pos: core.C(3, 3), Form: 1}
	b := a

	coords := []core.Coord{{X: 2, Y: 1}, {X: 0, Y: 2}, {X: 5, Y: 0}}
	for _, c := range coords {
		a = a.withCollected(c)
	}
	for i := len(coords) - 1; i >= 0; i-- {
		b = b.withCollected(coords[i])
	}

	assert.Equal(t, Encode(a), Encode(b))
	assert.Equal(t, []core.Coord{{X: 5, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}}, a.Collected())
}

func TestEncodeIgnoresDepth(t *testing.T) {
	a := State{Pos: core.C(1, 1), Depth: 2}
	b := State{Pos: core.C(1, 1), Depth: 40}
	assert.Equal(t, Encode(a), Encode(b))
}

func TestEncodeDistinguishesStates(t *testing.T) {
	base := State{Pos: core.C(1, 1), Form: 1}
	base.Moves[1] = 3
	base.Moves[2] = core.Unlimited

	tests := []struct {
		name   string
		mutate func(State) State
	}{
		{"position", func(s State) State { s.Pos = core.C(1, 2); return s }},
		{"form", func(s State) State { s.Form = 2; return s }},
		{"budget", func(s State) State { s.Moves[1] = 2; return s }},
		{"unlimited vs zero", func(s State) State { s.Moves[2] = 0; return s }},
		{"collected", func(s State) State { return s.withCollected(core.C(0, 0)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, Encode(base), Encode(tt.mutate(base)))
		})
	}
}

func TestStateMove(t *testing.T) {
	s := State{Pos: core.C(0, 0)}
	s.Moves[1] = 2
	s.Moves[2] = core.Unlimited

	next := s.move(core.C(1, 0), 1, true)
	assert.Equal(t, int16(1), next.Moves[1])
	assert.Equal(t, int16(2), s.Moves[1], "the parent budget is untouched")
	assert.Equal(t, 1, next.Depth)
	assert.Equal(t, 1, next.CollectedCount())
	assert.Zero(t, s.CollectedCount())

	again := next.move(core.C(1, 0), 2, true)
	assert.Equal(t, 1, again.CollectedCount(), "a collectible counts once")
	assert.Equal(t, core.Unlimited, int(again.Moves[2]))

	first := s.move(core.C(0, 1), core.FormDefault, false)
	assert.Equal(t, s.Moves, first.Moves, "the default form spends nothing")
}

func TestBudgetCanUse(t *testing.T) {
	var b Budget
	b[1] = 1
	b[2] = core.Unlimited

	assert.True(t, b.CanUse(1))
	assert.True(t, b.CanUse(2))
	assert.False(t, b.CanUse(3))
	assert.False(t, b.spend(1).CanUse(1))
	assert.True(t, b.spend(2).CanUse(2))
}
