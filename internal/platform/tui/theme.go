package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/formgrid/internal/core"
)

// Theme contains the visual styles of the level browser.
type Theme struct {
	// Grid cell styles
	Terrain     map[core.TerrainKind]lipgloss.Style
	Collectible lipgloss.Style
	Path        lipgloss.Style
	Hint        lipgloss.Style
	Goal        lipgloss.Style

	// Chrome
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Value       lipgloss.Style
	Good        lipgloss.Style
	Bad         lipgloss.Style
	Panel       lipgloss.Style
	Description lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		Terrain: map[core.TerrainKind]lipgloss.Style{
			core.TerrainEmpty:   lipgloss.NewStyle(),
			core.TerrainDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // Dim gray
			core.TerrainStart:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
			core.TerrainEnd:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
			core.TerrainWater:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			core.TerrainStone:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			core.TerrainFire:    lipgloss.NewStyle().Foreground(lipgloss.Color("202")),
		},
		Collectible: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true), // Bright yellow
		Path:        lipgloss.NewStyle().Foreground(lipgloss.Color("51")),             // Bright cyan
		Hint:        lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Goal:        lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("205")),

		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Subtle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Value:  lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
	}
}

// PlainTheme renders without any styling. Tests and dumb terminals use it.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	th := Theme{Terrain: map[core.TerrainKind]lipgloss.Style{}}
	for _, t := range core.AllTerrains() {
		th.Terrain[t] = plain
	}
	th.Collectible, th.Path, th.Hint, th.Goal = plain, plain, plain, plain
	th.Title, th.Subtle, th.Value, th.Good, th.Bad = plain, plain, plain, plain, plain
	th.Panel, th.Description = plain, plain
	return th
}
