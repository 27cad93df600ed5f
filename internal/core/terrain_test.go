package core

import "testing"

func TestLayoutRuneRoundTrip(t *testing.T) {
	for _, r := range []rune{RuneEmpty, RuneDefault, RuneStart, RuneEnd, RuneWater, RuneStone, RuneFire, RuneCollectible} {
		cell, ok := ParseLayoutRune(r)
		if !ok {
			t.Fatalf("ParseLayoutRune(%q) failed", r)
		}
		if got := cell.LayoutRune(); got != r {
			t.Errorf("LayoutRune() = %q, expected %q", got, r)
		}
	}

	if _, ok := ParseLayoutRune('x'); ok {
		t.Error("expected 'x' to be rejected")
	}

	cell, _ := ParseLayoutRune('_')
	if cell.Terrain != TerrainEmpty {
		t.Errorf("'_' parsed as %v, expected empty", cell.Terrain)
	}
}

func TestCollectibleIsDefaultTerrain(t *testing.T) {
	cell, _ := ParseLayoutRune(RuneCollectible)
	if cell.Terrain != TerrainDefault || !cell.HasCollectible() {
		t.Errorf("'*' parsed as %+v", cell)
	}
}

func TestParseTerrain(t *testing.T) {
	for _, k := range AllTerrains() {
		got, ok := ParseTerrain(" " + k.String() + " ")
		if !ok || got != k {
			t.Errorf("ParseTerrain(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if got, ok := ParseTerrain("FIRE"); !ok || got != TerrainFire {
		t.Errorf("ParseTerrain is case-insensitive, got %v %v", got, ok)
	}
	if _, ok := ParseTerrain("lava"); ok {
		t.Error("expected unknown terrain to fail")
	}
}

func TestTerrainSet(t *testing.T) {
	s := NewTerrainSet(TerrainDefault, TerrainWater)
	if !s.Has(TerrainDefault) || !s.Has(TerrainWater) {
		t.Error("set lost a member")
	}
	if s.Has(TerrainFire) {
		t.Error("set has an unexpected member")
	}

	s2 := s.With(TerrainFire)
	if s.Has(TerrainFire) {
		t.Error("With() mutated the receiver")
	}
	if got := s2.String(); got != "default,water,fire" {
		t.Errorf("String() = %q", got)
	}
}
