package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/formgrid/internal/platform/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive level browser",
	Long: `Browse levels, solve them in the background and reveal the solution
one step at a time.

Controls:
  Up/Down      - Select level
  Enter        - Open level (solves it)
  N/Space      - Reveal the next hint
  P            - Toggle the full path
  S            - Solve again, bypassing the cache
  T            - Solve history
  R            - Reload levels
  Esc/B        - Back
  Q/Ctrl+C     - Quit`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.Run(a, width, height)
}
