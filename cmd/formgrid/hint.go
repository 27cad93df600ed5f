package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/formgrid/internal/app"
	"github.com/vovakirdan/formgrid/internal/core"
	"github.com/vovakirdan/formgrid/internal/platform/tui"
	"github.com/vovakirdan/formgrid/internal/solver"
)

var hintCmd = &cobra.Command{
	Use:   "hint <level> <index>",
	Short: "Reveal one step of a solution",
	Long: `Print the cell the solution visits at the given step. Valid indices run
from 1 to the number of moves minus one: step 0 is the start and the
last step is the exit, so neither is a hint.

Examples:
  formgrid hint first-steps 1
  formgrid hint ./levels/ferry.yaml 3`,
	Args: cobra.ExactArgs(2),
	RunE: runHint,
}

func init() {
	hintCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore cached solutions")
}

func runHint(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("index %q is not a number", args[1])
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lvl, err := a.Level(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	c, out, err := a.Hint(lvl, index, app.SolveOptions{NoCache: flagNoCache, Source: app.SourceCLI})
	switch {
	case errors.Is(err, app.ErrUnsolvable):
		fmt.Fprintf(w, "Level %s has no solution, so there are no hints.\n", lvl.ID)
		return errUnsolvable
	case errors.Is(err, solver.ErrHintIndex):
		if n := solver.HintCount(out.Solution); n > 0 {
			return fmt.Errorf("%w\nLevel %s has hints 1 to %d", err, lvl.ID, n)
		}
		return fmt.Errorf("%w\nLevel %s is solved in %d moves and has no hints", err, lvl.ID, out.Solution.Moves())
	case err != nil:
		return err
	}

	step := out.Solution[index]
	fmt.Fprintln(w, tui.RenderLevel(lvl, tui.Overlay{Hints: []core.Coord{c}}, tui.DefaultTheme()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Hint %d/%d: move to %s as %s.\n", index, solver.HintCount(out.Solution), c, step.FormName)
	return nil
}
