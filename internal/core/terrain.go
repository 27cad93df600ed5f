package core

import "strings"

// TerrainKind is the static classification of a grid cell.
type TerrainKind uint8

const (
	TerrainEmpty TerrainKind = iota
	TerrainDefault
	TerrainStart
	TerrainEnd
	TerrainWater
	TerrainStone
	TerrainFire

	terrainCount
)

var terrainNames = [...]string{
	TerrainEmpty:   "empty",
	TerrainDefault: "default",
	TerrainStart:   "start",
	TerrainEnd:     "end",
	TerrainWater:   "water",
	TerrainStone:   "stone",
	TerrainFire:    "fire",
}

// String returns the lower-case name used in configuration files.
func (t TerrainKind) String() string {
	if t < terrainCount {
		return terrainNames[t]
	}
	return "unknown"
}

// ParseTerrain converts a configuration name to a TerrainKind.
// Matching is case-insensitive.
func ParseTerrain(s string) (TerrainKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range terrainNames {
		if name == s {
			return TerrainKind(i), true
		}
	}
	return TerrainEmpty, false
}

// AllTerrains returns every terrain kind in declaration order.
func AllTerrains() []TerrainKind {
	out := make([]TerrainKind, 0, terrainCount)
	for t := TerrainEmpty; t < terrainCount; t++ {
		out = append(out, t)
	}
	return out
}

// TerrainSet is a small bit set of terrain kinds.
type TerrainSet uint16

// NewTerrainSet builds a set from the given kinds.
func NewTerrainSet(kinds ...TerrainKind) TerrainSet {
	var s TerrainSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns a copy of the set including k.
func (s TerrainSet) With(k TerrainKind) TerrainSet {
	return s | 1<<k
}

// Has reports whether k is in the set.
func (s TerrainSet) Has(k TerrainKind) bool {
	return s&(1<<k) != 0
}

// Kinds lists the members of the set in declaration order.
func (s TerrainSet) Kinds() []TerrainKind {
	var out []TerrainKind
	for t := TerrainEmpty; t < terrainCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String joins the member names with commas.
func (s TerrainSet) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}

// Marker is an optional collectible flag on a cell.
type Marker uint8

const (
	MarkerNone Marker = iota
	MarkerCollectible
)

// Cell is a single grid cell. Terrain and marker are independent.
type Cell struct {
	Terrain TerrainKind
	Marker  Marker
}

// HasCollectible reports whether the cell carries a collectible marker.
func (c Cell) HasCollectible() bool {
	return c.Marker == MarkerCollectible
}

// Layout runes used by the text level format.
const (
	RuneEmpty       = ' '
	RuneDefault     = '.'
	RuneStart       = 'S'
	RuneEnd         = 'E'
	RuneWater       = '~'
	RuneStone       = '#'
	RuneFire        = '^'
	RuneCollectible = '*' // default terrain carrying a collectible
)

// ParseLayoutRune converts a layout character into a cell.
func ParseLayoutRune(r rune) (Cell, bool) {
	switch r {
	case RuneEmpty, '_':
		return Cell{Terrain: TerrainEmpty}, true
	case RuneDefault:
		return Cell{Terrain: TerrainDefault}, true
	case RuneStart:
		return Cell{Terrain: TerrainStart}, true
	case RuneEnd:
		return Cell{Terrain: TerrainEnd}, true
	case RuneWater:
		return Cell{Terrain: TerrainWater}, true
	case RuneStone:
		return Cell{Terrain: TerrainStone}, true
	case RuneFire:
		return Cell{Terrain: TerrainFire}, true
	case RuneCollectible:
		return Cell{Terrain: TerrainDefault, Marker: MarkerCollectible}, true
	default:
		return Cell{}, false
	}
}

// LayoutRune returns the character that represents the cell's terrain.
// Collectibles on non-default terrain are not representable and render as
// their terrain.
func (c Cell) LayoutRune() rune {
	if c.Terrain == TerrainDefault && c.HasCollectible() {
		return RuneCollectible
	}
	switch c.Terrain {
	case TerrainDefault:
		return RuneDefault
	case TerrainStart:
		return RuneStart
	case TerrainEnd:
		return RuneEnd
	case TerrainWater:
		return RuneWater
	case TerrainStone:
		return RuneStone
	case TerrainFire:
		return RuneFire
	default:
		return RuneEmpty
	}
}
