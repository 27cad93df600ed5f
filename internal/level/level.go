// Package level provides the immutable level descriptor consumed by the
// solver, together with file loading. This package depends on core but core
// does not depend on level.
package level

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/formgrid/internal/core"
)

// ErrInvalidLevel is wrapped by every ValidationError.
var ErrInvalidLevel = errors.New("level: invalid level")

// ValidationError contains details about why a level was rejected.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap lets callers match any validation failure with ErrInvalidLevel.
func (e ValidationError) Unwrap() error {
	return ErrInvalidLevel
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Spec is the raw input a Level is built from.
type Spec struct {
	ID     string
	Name   string
	Width  int // 0 means take it from the layout
	Height int // 0 means take it from the layout
	Layout []string

	// Collectibles adds markers on top of those drawn with '*' in Layout.
	Collectibles []core.Coord

	// Moves is the starting allotment per form name; core.Unlimited means
	// the form never runs out. Forms not listed start at zero.
	Moves map[string]int

	// Start and End pin the endpoints explicitly instead of scanning the
	// layout for S and E cells. Pinning allows Start == End.
	Start *core.Coord
	End   *core.Coord

	Metadata map[string]string
	FilePath string
}

// Level is an immutable grid of cells with cached derived facts.
type Level struct {
	ID       string
	Name     string
	Metadata map[string]string
	FilePath string

	width  int
	height int
	cells  []core.Cell // row-major: index = y*width + x
	moves  map[string]int

	start        core.Coord
	end          core.Coord
	collectibles []core.Coord
	collectSet   mapset.Set[core.Coord]
	fingerprint  string
}

// New validates a spec and builds a Level from it.
func New(spec Spec) (*Level, error) {
	if len(spec.Layout) == 0 {
		return nil, invalid("EMPTY_GRID", "layout has no rows")
	}

	height := len(spec.Layout)
	width := len([]rune(spec.Layout[0]))
	if width == 0 {
		return nil, invalid("EMPTY_GRID", "layout has no columns")
	}
	if spec.Height != 0 && spec.Height != height {
		return nil, invalid("SIZE_MISMATCH", "declared height %d, layout has %d rows", spec.Height, height)
	}
	if spec.Width != 0 && spec.Width != width {
		return nil, invalid("SIZE_MISMATCH", "declared width %d, layout row 1 has %d columns", spec.Width, width)
	}

	l := &Level{
		ID:       spec.ID,
		Name:     spec.Name,
		Metadata: spec.Metadata,
		FilePath: spec.FilePath,
		width:    width,
		height:   height,
		cells:    make([]core.Cell, width*height),
		moves:    make(map[string]int, len(spec.Moves)),
	}

	var starts, ends []core.Coord
	for y, row := range spec.Layout {
		runes := []rune(row)
		if len(runes) != width {
			return nil, invalid("SIZE_MISMATCH", "row %d has %d columns, expected %d", y+1, len(runes), width)
		}
		for x, r := range runes {
			cell, ok := core.ParseLayoutRune(r)
			if !ok {
				return nil, invalid("BAD_RUNE", "invalid character %q at row %d, col %d", r, y+1, x+1)
			}
			c := core.C(x, y)
			switch cell.Terrain {
			case core.TerrainStart:
				starts = append(starts, c)
			case core.TerrainEnd:
				ends = append(ends, c)
			}
			l.cells[l.index(c)] = cell
		}
	}

	for _, c := range spec.Collectibles {
		if !l.InBounds(c) {
			return nil, invalid("OUT_OF_BOUNDS", "collectible %s is outside the %dx%d grid", c, width, height)
		}
		l.cells[l.index(c)].Marker = core.MarkerCollectible
	}

	var err error
	if l.start, err = endpoint("START", "start", spec.Start, starts, l); err != nil {
		return nil, err
	}
	if l.end, err = endpoint("END", "end", spec.End, ends, l); err != nil {
		return nil, err
	}

	for name, n := range spec.Moves {
		if n < 0 && n != core.Unlimited {
			return nil, invalid("BAD_MOVES", "form %q has negative allotment %d", name, n)
		}
		l.moves[strings.ToLower(strings.TrimSpace(name))] = n
	}

	l.collectSet = mapset.New[core.Coord]()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := core.C(x, y)
			if l.cells[l.index(c)].HasCollectible() {
				l.collectibles = append(l.collectibles, c)
				l.collectSet.Put(c)
			}
		}
	}
	l.fingerprint = l.computeFingerprint()

	return l, nil
}

// endpoint resolves the start or end coordinate from an explicit pin or
// from the layout scan.
func endpoint(code, what string, pinned *core.Coord, found []core.Coord, l *Level) (core.Coord, error) {
	if pinned != nil {
		if !l.InBounds(*pinned) {
			return core.Coord{}, invalid("OUT_OF_BOUNDS", "%s %s is outside the %dx%d grid", what, *pinned, l.width, l.height)
		}
		return *pinned, nil
	}
	switch len(found) {
	case 0:
		return core.Coord{}, invalid("NO_"+code, "layout has no %s cell", what)
	case 1:
		return found[0], nil
	default:
		return core.Coord{}, invalid("MULTIPLE_"+code, "layout has %d %s cells, expected exactly one", len(found), what)
	}
}

// index converts a coordinate to a flat array index.
func (l *Level) index(c core.Coord) int {
	return c.Y*l.width + c.X
}

// Width returns the number of columns.
func (l *Level) Width() int { return l.width }

// Height returns the number of rows.
func (l *Level) Height() int { return l.height }

// InBounds returns true if the coordinate is within the grid boundaries.
func (l *Level) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < l.width && c.Y >= 0 && c.Y < l.height
}

// Cell returns the cell at c. Out-of-bounds coordinates read as Empty.
func (l *Level) Cell(c core.Coord) core.Cell {
	if !l.InBounds(c) {
		return core.Cell{Terrain: core.TerrainEmpty}
	}
	return l.cells[l.index(c)]
}

// Start returns the start coordinate.
func (l *Level) Start() core.Coord { return l.start }

// End returns the end coordinate.
func (l *Level) End() core.Coord { return l.end }

// Collectibles returns collectible coordinates in row-major order.
func (l *Level) Collectibles() []core.Coord {
	return append([]core.Coord(nil), l.collectibles...)
}

// CollectibleCount returns the number of collectible cells.
func (l *Level) CollectibleCount() int {
	return len(l.collectibles)
}

// IsCollectible reports whether c carries a collectible marker.
func (l *Level) IsCollectible(c core.Coord) bool {
	return l.collectSet.Has(c)
}

// Moves returns a copy of the starting allotment per form name.
func (l *Level) Moves() map[string]int {
	out := make(map[string]int, len(l.moves))
	for k, v := range l.moves {
		out[k] = v
	}
	return out
}

// Fingerprint is a content hash of everything the solver reads. Two levels
// with the same fingerprint have the same solutions.
func (l *Level) Fingerprint() string {
	return l.fingerprint
}

// Rows renders the terrain back to layout strings.
func (l *Level) Rows() []string {
	rows := make([]string, l.height)
	for y := 0; y < l.height; y++ {
		var sb strings.Builder
		for x := 0; x < l.width; x++ {
			sb.WriteRune(l.cells[l.index(core.C(x, y))].LayoutRune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String returns the layout joined by newlines.
func (l *Level) String() string {
	return strings.Join(l.Rows(), "\n")
}

func (l *Level) computeFingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d\n", l.width, l.height)
	for _, cell := range l.cells {
		fmt.Fprintf(h, "%d:%d;", cell.Terrain, cell.Marker)
	}
	fmt.Fprintf(h, "\nstart=%s end=%s\n", l.start, l.end)

	names := make([]string, 0, len(l.moves))
	for name := range l.moves {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(h, "%s=%d;", name, l.moves[name])
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
