package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stockade",
	Short: "Stockade - item restriction runtime for multiplayer sessions",
	Long: `Stockade restricts the use of categorized items for participants of a
shared multiplayer session: for a single participant, for everyone for a
wall-clock duration, or for everyone until the next session reset.

It keeps the rule set in memory for per-action checks, persists it across
restarts, and exposes a transport-agnostic command surface for block,
unblock, and listing operations.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
