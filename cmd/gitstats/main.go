// Package main provides the entry point for the gitstats CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitstats/cmd/gitstats/commands"
	"github.com/Sumatoshi-tech/gitstats/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gitstats",
		Short: "Git repository statistics",
		Long: `Gitstats aggregates a repository's revision history into
per-author, per-date and per-extension statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewAuthorsCommand())
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
			fmt.Fprintf(os.Stdout, "gitstats %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
