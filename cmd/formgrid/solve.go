package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/formgrid/internal/app"
	"github.com/vovakirdan/formgrid/internal/platform/tui"
)

var flagJSON bool

var solveCmd = &cobra.Command{
	Use:   "solve <level>",
	Short: "Solve a level",
	Long: `Find the shortest sequence of moves for a level. The level is a level ID
from the levels directory or a path to a level file.

Answers are cached by level content; an edited level is solved again.
Use --no-cache to ignore the cache (the fresh answer still replaces it).

Examples:
  formgrid solve first-steps
  formgrid solve ./levels/ferry.yaml
  formgrid solve first-steps --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore cached solutions")
	solveCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the solution steps as JSON")
}

func runSolve(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lvl, err := a.Level(args[0])
	if err != nil {
		return fmt.Errorf("%w\nRun 'formgrid list' to see available levels", err)
	}

	out, err := a.Solve(lvl, app.SolveOptions{NoCache: flagNoCache, Source: app.SourceCLI})
	if err != nil {
		return fmt.Errorf("solving %s: %w", lvl.ID, err)
	}

	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.Solution); err != nil {
			return fmt.Errorf("encoding solution: %w", err)
		}
		if !out.Solvable {
			return errUnsolvable
		}
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Level %s", lvl.ID)
	if lvl.Name != "" {
		fmt.Fprintf(w, " - %s", lvl.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	if !out.Solvable {
		fmt.Fprintln(w, tui.RenderLevel(lvl, tui.Overlay{}, tui.DefaultTheme()))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "No solution (explored %d states).\n", out.Stats.Explored)
		return errUnsolvable
	}

	sol := out.Solution
	fmt.Fprintln(w, tui.RenderLevel(lvl, tui.Overlay{Path: sol.Positions()}, tui.DefaultTheme()))
	fmt.Fprintln(w)

	// Print steps
	fmt.Fprintf(w, "  %-4s  %-8s  %-12s  %s\n", "Step", "Cell", "Form", "Collected")
	fmt.Fprintf(w, "  %-4s  %-8s  %-12s  %s\n", "----", "----", "----", "---------")
	for i, step := range sol {
		fmt.Fprintf(w, "  %-4d  %-8s  %-12s  %d\n", i, step.Pos, step.FormName, step.Collected)
	}

	fmt.Fprintln(w)
	source := fmt.Sprintf("explored %d states in %s", out.Stats.Explored, out.Stats.Elapsed)
	if out.Cached {
		source = "from cache"
	}
	fmt.Fprintf(w, "Solved in %d moves (%s).\n", sol.Moves(), source)
	return nil
}
