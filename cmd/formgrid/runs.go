package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [level]",
	Short: "Show solve history",
	Long: `Display recent solves, newest first. With a level ID, also show that
level's aggregate statistics.

Examples:
  formgrid runs
  formgrid runs first-steps --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	store := a.Store()
	if store == nil {
		return errors.New("the solution cache is disabled; no history is recorded")
	}

	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
	}

	runs, err := store.RecentRuns(levelID, flagRunsLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	if levelID != "" {
		fmt.Printf("Solve history - %s\n", levelID)
	} else {
		fmt.Println("Solve history")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-16s  %-16s  %-10s  %-5s  %-8s  %-10s  %s\n", "Date", "Level", "Result", "Moves", "Explored", "Time", "Source")
	fmt.Printf("  %-16s  %-16s  %-10s  %-5s  %-8s  %-10s  %s\n", "----", "-----", "------", "-----", "--------", "----", "------")

	// Print runs
	for _, r := range runs {
		result := "unsolvable"
		if r.Solvable {
			result = "solved"
		}
		if r.Cached {
			result += "*"
		}
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-16s  %-16s  %-10s  %-5d  %-8d  %-10s  %s\n",
			dateStr, r.LevelID, result, r.Moves, r.Explored, r.Elapsed, r.Source)
	}
	fmt.Println()
	fmt.Println("* answered from the cache")

	if levelID == "" {
		return nil
	}

	stats, err := store.GetLevelStats(levelID)
	if err != nil {
		return nil
	}
	fmt.Println()
	fmt.Printf("Runs: %d  Solved: %d  Cache hits: %d  Avg explored: %.0f\n",
		stats.Runs, stats.Solved, stats.CacheHits, stats.AvgExplored)
	if stats.BestMoves > 0 {
		fmt.Printf("Best: %d moves\n", stats.BestMoves)
	}
	return nil
}
