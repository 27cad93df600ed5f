// Package tui provides the Bubble Tea level browser, runnable locally or
// over SSH via Wish.
package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/formgrid/internal/app"
	"github.com/vovakirdan/formgrid/internal/level"
	"github.com/vovakirdan/formgrid/internal/registry"
	"github.com/vovakirdan/formgrid/internal/solver"
)

// Browser layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the info panel beside the grid
	sidebarWidth       = 32 // Width of the info panel
	maxRuns            = 50 // Max runs to load into the history view
)

type browserView int

const (
	viewList browserView = iota
	viewLevel
	viewHistory
)

// solvedMsg carries a finished background solve back to the model.
type solvedMsg struct {
	levelID string
	outcome app.Outcome
	err     error
}

// solveCmd runs the solve off the UI goroutine. The search itself cannot
// be interrupted; a result for a level the user already left is dropped in
// Update.
func solveCmd(a *app.App, lvl *level.Level, opts app.SolveOptions) tea.Cmd {
	return func() tea.Msg {
		out, err := a.Solve(lvl, opts)
		return solvedMsg{levelID: lvl.ID, outcome: out, err: err}
	}
}

// BrowserModel is the Bubble Tea model for the level browser.
type BrowserModel struct {
	app    *app.App
	source string
	theme  Theme
	keys   BrowserKeyMap
	help   help.Model

	levels []registry.LevelInfo
	table  table.Model
	runs   table.Model
	status string

	view     browserView
	current  *level.Level
	solving  bool
	outcome  *app.Outcome
	solveErr error
	hints    int
	showPath bool

	width    int
	height   int
	quitting bool
}

// NewBrowserModel creates a level browser. source tags recorded runs
// ("tui" locally, "ssh" for remote sessions).
func NewBrowserModel(a *app.App, source string, width, height int) BrowserModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	m := BrowserModel{
		app:    a,
		source: source,
		theme:  DefaultTheme(),
		keys:   DefaultBrowserKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.runs = m.createRunsTable()
	m.refreshLevels()
	return m
}

// styledTable applies the shared table look.
func styledTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// tableHeight leaves room for title, help and margins.
func (m *BrowserModel) tableHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

// createTable creates the level list table.
func (m *BrowserModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 14},
		{Title: "Name", Width: 20},
		{Title: "Size", Width: 7},
		{Title: "*", Width: 3},
		{Title: "Forms", Width: 24},
	}

	// Give spare width to the name column
	if extra := m.width - 4 - 14 - 20 - 7 - 3 - 24 - 10; extra > 0 {
		columns[1].Width += min(extra, 20)
	}

	return styledTable(columns, m.tableHeight())
}

// createRunsTable creates the solve history table.
func (m *BrowserModel) createRunsTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 14},
		{Title: "Result", Width: 10},
		{Title: "Moves", Width: 6},
		{Title: "Explored", Width: 9},
		{Title: "Time", Width: 10},
		{Title: "Source", Width: 7},
	}
	return styledTable(columns, m.tableHeight())
}

// refreshLevels reloads the level list rows from the index.
func (m *BrowserModel) refreshLevels() {
	m.levels = m.app.Levels().List()

	rows := make([]table.Row, len(m.levels))
	for i, info := range m.levels {
		rows[i] = table.Row{
			info.ID,
			info.Name,
			fmt.Sprintf("%dx%d", info.Width, info.Height),
			fmt.Sprintf("%d", info.Collectibles),
			strings.Join(info.Forms, ","),
		}
	}
	m.table.SetRows(rows)
}

// loadRuns fills the history table for the current level.
func (m *BrowserModel) loadRuns() {
	store := m.app.Store()
	if store == nil || m.current == nil {
		m.runs.SetRows(nil)
		return
	}

	runs, err := store.RecentRuns(m.current.ID, maxRuns)
	if err != nil {
		m.status = err.Error()
		runs = nil
	}

	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		result := "unsolvable"
		if r.Solvable {
			result = "solved"
		}
		if r.Cached {
			result += "*"
		}
		rows[i] = table.Row{
			r.CreatedAt.Format("Jan 02 15:04"),
			result,
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("%d", r.Explored),
			r.Elapsed.String(),
			r.Source,
		}
	}
	m.runs.SetRows(rows)
	m.runs.GotoTop()
}

// Init initializes the browser.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.runs = m.createRunsTable()
		m.refreshLevels()
		m.table.SetCursor(cursor)
		if m.view == viewHistory {
			m.loadRuns()
		}
		return m, nil

	case solvedMsg:
		if m.current == nil || msg.levelID != m.current.ID {
			return m, nil
		}
		m.solving = false
		m.solveErr = msg.err
		if msg.err == nil {
			out := msg.outcome
			m.outcome = &out
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.view == viewList {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// handleKey processes keyboard input.
func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.view {
	case viewLevel:
		return m.handleLevelKey(msg)
	case viewHistory:
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.History) {
			m.view = viewLevel
			return m, nil
		}
		var cmd tea.Cmd
		m.runs, cmd = m.runs.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Open):
		if len(m.levels) == 0 {
			return m, nil
		}
		return m.open(m.levels[m.table.Cursor()].ID)

	case key.Matches(msg, m.keys.Reload):
		if err := m.app.Reload(); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("reloaded %d levels", m.app.Levels().Len())
		}
		m.refreshLevels()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleLevelKey processes input on the level screen.
func (m BrowserModel) handleLevelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = viewList
		m.current = nil
		m.outcome = nil
		m.solving = false
		return m, nil

	case key.Matches(msg, m.keys.Hint):
		if m.outcome != nil && m.hints < solver.HintCount(m.outcome.Solution) {
			m.hints++
		}
		return m, nil

	case key.Matches(msg, m.keys.Path):
		m.showPath = !m.showPath
		return m, nil

	case key.Matches(msg, m.keys.History):
		m.view = viewHistory
		m.loadRuns()
		return m, nil

	case key.Matches(msg, m.keys.Solve):
		if m.solving {
			return m, nil
		}
		m.solving = true
		m.outcome = nil
		m.solveErr = nil
		m.hints = 0
		return m, solveCmd(m.app, m.current, app.SolveOptions{NoCache: true, Source: m.source})
	}
	return m, nil
}

// open switches to the level screen and starts solving in the background.
func (m BrowserModel) open(id string) (tea.Model, tea.Cmd) {
	lvl, err := m.app.Levels().Get(id)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.view = viewLevel
	m.current = lvl
	m.outcome = nil
	m.solveErr = nil
	m.hints = 0
	m.showPath = false
	m.solving = true
	m.status = ""
	return m, solveCmd(m.app, lvl, app.SolveOptions{Source: m.source})
}

// overlay returns the cells to highlight for the current state.
func (m BrowserModel) overlay() Overlay {
	var ov Overlay
	if m.outcome == nil || !m.outcome.Solvable {
		return ov
	}
	sol := m.outcome.Solution
	for i := 1; i <= m.hints; i++ {
		c, err := solver.HintStep(sol, i)
		if err != nil {
			break
		}
		ov.Hints = append(ov.Hints, c)
	}
	if m.showPath {
		ov.Path = sol.Positions()
	}
	return ov
}

// View renders the browser.
func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	switch m.view {
	case viewLevel:
		b.WriteString(m.viewLevel())
	case viewHistory:
		b.WriteString(m.viewHistory())
	default:
		b.WriteString(m.viewList())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.Description.Render(m.status), m.width))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Subtle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m BrowserModel) viewList() string {
	var b strings.Builder
	b.WriteString(centerText(m.theme.Title.Render("F O R M G R I D"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		empty := m.theme.Description.Padding(2, 4).Render(
			fmt.Sprintf("No levels found in %s.\nAdd YAML level files and press r to reload.", m.app.Config().Levels.Dir))
		b.WriteString(centerText(empty, m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.theme.Panel.Render(m.table.View()))
	b.WriteString("\n")
	return b.String()
}

func (m BrowserModel) viewLevel() string {
	lvl := m.current
	var b strings.Builder

	title := lvl.ID
	if lvl.Name != "" {
		title = fmt.Sprintf("%s - %s", lvl.ID, lvl.Name)
	}
	b.WriteString(centerText(m.theme.Title.Render(title), m.width))
	b.WriteString("\n\n")

	grid := m.theme.Panel.Render(RenderLevel(lvl, m.overlay(), m.theme))
	info := m.theme.Panel.Width(sidebarWidth).Render(m.infoPanel())

	if m.width >= minWidthForSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", info))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, grid, info))
	}
	b.WriteString("\n")
	b.WriteString(Legend(m.theme))
	b.WriteString("\n")
	return b.String()
}

// infoPanel describes the allotment and the solve state.
func (m BrowserModel) infoPanel() string {
	th := m.theme
	var b strings.Builder

	b.WriteString(th.Subtle.Render("Moves"))
	b.WriteString("\n")
	moves := m.current.Moves()
	names := make([]string, 0, len(moves))
	for name := range moves {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-12s %s\n", name, th.Value.Render(formatAllotment(moves[name])))
	}
	fmt.Fprintf(&b, "%s %s\n\n", th.Subtle.Render("Collectibles"), th.Value.Render(fmt.Sprintf("%d", m.current.CollectibleCount())))

	switch {
	case m.solving:
		b.WriteString(th.Description.Render("solving..."))
	case m.solveErr != nil:
		msg := m.solveErr.Error()
		if errors.Is(m.solveErr, solver.ErrValidation) {
			msg = "internal error: " + msg
		}
		b.WriteString(th.Bad.Render(msg))
	case m.outcome == nil:
	case !m.outcome.Solvable:
		b.WriteString(th.Bad.Render("no solution"))
		fmt.Fprintf(&b, "\n%s %d", th.Subtle.Render("explored"), m.outcome.Stats.Explored)
	default:
		sol := m.outcome.Solution
		b.WriteString(th.Good.Render(fmt.Sprintf("solvable in %d moves", sol.Moves())))
		if m.outcome.Cached {
			b.WriteString(th.Subtle.Render(" (cached)"))
		}
		fmt.Fprintf(&b, "\n%s %d/%d", th.Subtle.Render("hints"), m.hints, solver.HintCount(sol))
		if m.hints > 0 {
			step := sol[m.hints]
			fmt.Fprintf(&b, "\n%s %s as %s", th.Subtle.Render("next"), step.Pos, step.FormName)
		}
		fmt.Fprintf(&b, "\n%s %d", th.Subtle.Render("explored"), m.outcome.Stats.Explored)
	}

	return b.String()
}

func (m BrowserModel) viewHistory() string {
	var b strings.Builder
	b.WriteString(centerText(m.theme.Title.Render("HISTORY - "+m.current.ID), m.width))
	b.WriteString("\n\n")

	if len(m.runs.Rows()) == 0 {
		empty := m.theme.Description.Padding(2, 4).Render("No runs recorded yet.")
		b.WriteString(centerText(empty, m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.theme.Panel.Render(m.runs.View()))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtle.Render("* answered from the cache"))
	b.WriteString("\n")
	return b.String()
}

// IsQuitting returns true if user wants to quit.
func (m BrowserModel) IsQuitting() bool {
	return m.quitting
}

// Run runs the browser in the current terminal.
func Run(a *app.App, width, height int) error {
	p := tea.NewProgram(
		NewBrowserModel(a, app.SourceTUI, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
