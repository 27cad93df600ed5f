package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all levels",
	Long:  `Shows every valid level in the levels directory. Files that fail to load are reported after the list.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	levels := a.Levels().List()
	if len(levels) == 0 {
		fmt.Printf("No levels found in %s.\n", a.Config().Levels.Dir)
		return nil
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-7s  %-3s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "*", "Forms")
	fmt.Printf("  %-*s  %-*s  %-7s  %-3s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "-", "-----")

	// Print levels
	for _, l := range levels {
		size := fmt.Sprintf("%dx%d", l.Width, l.Height)
		fmt.Printf("  %-*s  %-*s  %-7s  %-3d  %s\n", maxIDLen, l.ID, maxNameLen, l.Name, size, l.Collectibles, strings.Join(l.Forms, ","))
	}

	if skipped := a.Skipped(); len(skipped) > 0 {
		fmt.Println()
		fmt.Printf("Skipped %d invalid file(s); run 'formgrid check' for details.\n", len(skipped))
	}

	fmt.Println()
	fmt.Println("Run 'formgrid solve <id>' to solve a level.")
	return nil
}
