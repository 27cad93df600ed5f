package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
)

// Overlay is what the browser draws on top of the terrain.
type Overlay struct {
	Hints []core.Coord // revealed hint cells, in order
	Path  []core.Coord // full solution, drawn when non-empty
}

// glyph is one rendered cell before styling.
type glyph struct {
	r     rune
	style lipgloss.Style
	key   int // cells with equal keys share a style run
}

// Style keys for run grouping. Terrain kinds use their own ordinal.
const (
	keyCollectible = 100 + iota
	keyPath
	keyHint
	keyGoal
)

// cellGlyph decides how one cell looks. Hints win over the path, the
// path wins over collectibles, and collectibles win over terrain.
func cellGlyph(lvl *level.Level, c core.Coord, hintAt map[core.Coord]int, onPath map[core.Coord]bool, th Theme) glyph {
	cell := lvl.Cell(c)

	if n, ok := hintAt[c]; ok {
		r := '+'
		if n <= 9 {
			r = rune('0' + n)
		}
		return glyph{r: r, style: th.Hint, key: keyHint}
	}
	if c == lvl.End() && lvl.Start() == lvl.End() {
		return glyph{r: core.RuneEnd, style: th.Goal, key: keyGoal}
	}
	switch {
	case c == lvl.Start():
		return glyph{r: core.RuneStart, style: th.Terrain[core.TerrainStart], key: int(core.TerrainStart)}
	case c == lvl.End():
		return glyph{r: core.RuneEnd, style: th.Terrain[core.TerrainEnd], key: int(core.TerrainEnd)}
	case onPath[c]:
		return glyph{r: 'o', style: th.Path, key: keyPath}
	case cell.HasCollectible():
		return glyph{r: core.RuneCollectible, style: th.Collectible, key: keyCollectible}
	}
	return glyph{r: cell.LayoutRune(), style: th.Terrain[cell.Terrain], key: int(cell.Terrain)}
}

// RenderLevel draws lvl with the overlay. Adjacent cells with the same
// style are grouped to minimize ANSI escape sequences.
func RenderLevel(lvl *level.Level, ov Overlay, th Theme) string {
	hintAt := make(map[core.Coord]int, len(ov.Hints))
	for i, c := range ov.Hints {
		if _, seen := hintAt[c]; !seen {
			hintAt[c] = i + 1
		}
	}
	onPath := make(map[core.Coord]bool, len(ov.Path))
	for _, c := range ov.Path {
		onPath[c] = true
	}

	var sb strings.Builder
	sb.Grow(lvl.Width()*lvl.Height()*4 + lvl.Height())

	for y := range lvl.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < lvl.Width() {
			first := cellGlyph(lvl, core.C(x, y), hintAt, onPath, th)

			var run strings.Builder
			for x < lvl.Width() {
				g := cellGlyph(lvl, core.C(x, y), hintAt, onPath, th)
				if g.key != first.key {
					break
				}
				run.WriteRune(g.r)
				if x < lvl.Width()-1 {
					run.WriteRune(' ')
				}
				x++
			}
			sb.WriteString(first.style.Render(run.String()))
		}
	}
	return sb.String()
}

// Legend returns a one-line key to the grid glyphs.
func Legend(th Theme) string {
	parts := []string{
		th.Terrain[core.TerrainStart].Render("S") + " start",
		th.Terrain[core.TerrainEnd].Render("E") + " end",
		th.Collectible.Render("*") + " collectible",
		th.Terrain[core.TerrainWater].Render("~") + " water",
		th.Terrain[core.TerrainStone].Render("#") + " stone",
		th.Terrain[core.TerrainFire].Render("^") + " fire",
		th.Hint.Render("1") + " hint",
	}
	return strings.Join(parts, "  ")
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// formatAllotment renders a move allotment for display.
func formatAllotment(n int) string {
	if n == core.Unlimited {
		return "inf"
	}
	return strconv.Itoa(n)
}
