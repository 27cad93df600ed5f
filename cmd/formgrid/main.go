// formgrid solves grid puzzles where a piece changes form to collect items
// on its way to the exit.
//
// Usage:
//
//	formgrid list                 - List levels in the levels directory
//	formgrid forms                - Show the loaded movement rulesets
//	formgrid solve <level>        - Solve a level and print the path
//	formgrid check                - Solve every level, fail if any cannot be solved
//	formgrid hint <level> <n>     - Show the n-th intermediate cell of the solution
//	formgrid runs [level]         - Show solve history
//	formgrid forget <level>       - Drop cached solutions for a level
//	formgrid browse               - Interactive level browser
//	formgrid serve                - Serve the browser over SSH
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.formgrid/config.yaml)
//	--db <path>         - Solution cache database
//	--levels <dir>      - Levels directory
//	--forms <path>      - Ruleset file (default: built-in rulesets)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/formgrid/internal/app"
	"github.com/vovakirdan/formgrid/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLevels   string
	flagForms    string
	flagLogLevel string
	flagNoCache  bool
)

func main() {
	err := rootCmd.Execute()
	if err != nil && !errors.As(err, new(exitError)) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitError ends a command with a specific status after the command has
// reported the outcome itself. Commands return it instead of calling
// os.Exit so their deferred cleanup still runs.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// errUnsolvable is the status for a level with no solution. It is kept
// apart from 1 so scripts can tell a bad level from a failed run.
var errUnsolvable = exitError{code: 2}

// exitCode maps a command result to the process status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

var rootCmd = &cobra.Command{
	Use:   "formgrid",
	Short: "formgrid - solve shape-shifting grid puzzles",
	Long: `formgrid finds the shortest way through a grid level where the piece
changes form between moves, collecting exactly three items before it
reaches the exit.

Available commands:
  list     - Show all levels
  forms    - Show movement rulesets
  solve    - Solve a level
  check    - Solve every level
  hint     - Reveal one step of a solution
  runs     - View solve history
  forget   - Drop cached solutions
  browse   - Interactive level browser
  serve    - Start SSH server for remote browsing

Examples:
  formgrid list
  formgrid solve first-steps
  formgrid solve ./levels/ferry.yaml --no-cache
  formgrid hint first-steps 2
  formgrid check --concurrency 4
  formgrid serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to solution cache database")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Levels directory")
	rootCmd.PersistentFlags().StringVar(&flagForms, "forms", "", "Path to ruleset YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(formsCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
		cfg.Storage.Enabled = flagDBPath != ""
	}
	if flags.Changed("levels") {
		cfg.Levels.Dir = flagLevels
	}
	if flags.Changed("forms") {
		cfg.Levels.Forms = flagForms
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, nil
}

// openApp builds the application for a command. The caller closes it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.NewLogger(cfg.Log.Level, "formgrid"))
}
