package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"c0/internal/version"
)

var (
	commitColor = color.New(color.FgRed, color.Bold)
	dateColor   = color.New(color.FgCyan, color.Bold)
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "c0 %s\n", version.Version)
		if version.GitCommit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit %s\n", commitColor.Sprint(version.GitCommit))
		}
		if version.BuildDate != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", dateColor.Sprint(version.BuildDate))
		}
	},
}
