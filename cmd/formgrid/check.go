package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/formgrid/internal/app"
)

var flagConcurrency int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Solve every level",
	Long: `Solve all levels in the levels directory concurrently and report each
verdict. Exits non-zero if any file fails to load or any level has no
solution, which makes it suitable for CI over a level pack.

Examples:
  formgrid check
  formgrid check --levels ./levels --concurrency 4
  formgrid check --no-cache`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Parallel solves (0 = config value, then one per CPU)")
	checkCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Ignore cached solutions")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	concurrency := flagConcurrency
	if concurrency == 0 {
		concurrency = a.Config().Check.Concurrency
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := a.Check(ctx, a.Levels().All(), concurrency, app.SolveOptions{NoCache: flagNoCache, Source: app.SourceCheck})
	if err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	w := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "  FAIL  %-20s %v\n", r.Level.ID, r.Err)
		case !r.Outcome.Solvable:
			failed++
			fmt.Fprintf(w, "  FAIL  %-20s no solution (explored %d)\n", r.Level.ID, r.Outcome.Stats.Explored)
		default:
			note := ""
			if r.Outcome.Cached {
				note = " (cached)"
			}
			fmt.Fprintf(w, "  ok    %-20s %d moves%s\n", r.Level.ID, r.Outcome.Solution.Moves(), note)
		}
	}

	// Files that never became levels
	skipped := a.Skipped()
	paths := make([]string, 0, len(skipped))
	for path := range skipped {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		failed++
		fmt.Fprintf(w, "  FAIL  %-20s %v\n", path, skipped[path])
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d checked, %d failed\n", len(results)+len(paths), failed)
	if failed > 0 {
		return exitError{code: 1}
	}
	return nil
}
