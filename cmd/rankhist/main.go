// Package main provides the entry point for the rankhist CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rankhist/cmd/rankhist/commands"
	"github.com/Sumatoshi-tech/rankhist/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rankhist",
		Short: "Rankhist - benchmark rank history reconstruction",
		Long: `Rankhist reconstructs how your rank in an aim-trainer benchmark evolved
over time by mining the local stats directory and replaying historic score
vectors through the rank calculator.

Commands:
  history    Reconstruct the full rank history for a benchmark
  structure  Fetch a benchmark's scenario order and rank ladder`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewStructureCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "rankhist %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
