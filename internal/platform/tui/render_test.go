package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/level"
)

func mustLevel(t *testing.T, spec level.Spec) *level.Level {
	t.Helper()
	lvl, err := level.New(spec)
	if err != nil {
		t.Fatalf("level.New() failed: %v", err)
	}
	return lvl
}

func TestRenderLevelPlain(t *testing.T) {
	lvl := mustLevel(t, level.Spec{Layout: []string{
		"S.*",
		"~#^",
		"..E",
	}})

	got := RenderLevel(lvl, Overlay{}, PlainTheme())
	expected := "S . *\n~ # ^\n. . E"
	if got != expected {
		t.Errorf("RenderLevel() =\n%s\nexpected\n%s", got, expected)
	}
}

func TestRenderLevelOverlay(t *testing.T) {
	lvl := mustLevel(t, level.Spec{Layout: []string{"S.*.E"}})
	path := []core.Coord{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}

	got := RenderLevel(lvl, Overlay{Hints: []core.Coord{{X: 1}}, Path: path}, PlainTheme())
	expected := "S 1 o o E"
	if got != expected {
		t.Errorf("RenderLevel() = %q, expected %q", got, expected)
	}
}

func TestRenderLevelStartIsEnd(t *testing.T) {
	center := core.C(1, 0)
	lvl := mustLevel(t, level.Spec{Layout: []string{"*.*"}, Start: &center, End: &center})

	got := RenderLevel(lvl, Overlay{}, PlainTheme())
	if got != "* E *" {
		t.Errorf("RenderLevel() = %q", got)
	}
}

func TestRenderLevelManyHints(t *testing.T) {
	layout := "S" + strings.Repeat(".", 11) + "E"
	lvl := mustLevel(t, level.Spec{Layout: []string{layout}})

	var hints []core.Coord
	for x := 1; x <= 11; x++ {
		hints = append(hints, core.C(x, 0))
	}
	got := RenderLevel(lvl, Overlay{Hints: hints}, PlainTheme())
	if got != "S 1 2 3 4 5 6 7 8 9 + + E" {
		t.Errorf("RenderLevel() = %q", got)
	}
}

func TestFormatAllotment(t *testing.T) {
	if got := formatAllotment(core.Unlimited); got != "inf" {
		t.Errorf("formatAllotment(Unlimited) = %q", got)
	}
	if got := formatAllotment(7); got != "7" {
		t.Errorf("formatAllotment(7) = %q", got)
	}
}
