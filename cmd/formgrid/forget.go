package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <level>",
	Short: "Drop cached solutions for a level",
	Long: `Delete every cached answer for a level ID, whatever content or search
settings it was solved with. Solve history is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Store() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "The solution cache is disabled; nothing to forget.")
		return nil
	}

	n, err := a.Forget(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached solution(s) for %s.\n", n, args[0])
	return nil
}
