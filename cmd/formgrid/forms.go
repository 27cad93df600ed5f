package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Show movement rulesets",
	Long: `Lists the forms the solver knows, their move offsets and the terrain they
may land on. Use --forms to load rulesets from a YAML file instead of the
built-in set.`,
	RunE: runForms,
}

func runForms(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := a.Rules()
	fmt.Printf("%d forms:\n\n", reg.Len())

	for _, f := range reg.Forms() {
		rs, err := reg.RulesetFor(f)
		if err != nil {
			continue
		}
		offsets := make([]string, len(rs.Offsets))
		for i, o := range rs.Offsets {
			offsets[i] = o.String()
		}
		moves := strings.Join(offsets, " ")
		if moves == "" {
			moves = "(none)"
		}
		fmt.Printf("  %d %-12s lands on %s\n", f, rs.Name, rs.Legal)
		fmt.Printf("    %-12s moves %s\n", "", moves)
	}
	return nil
}
