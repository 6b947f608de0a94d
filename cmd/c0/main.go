package main

import (
	"os"

	"github.com/spf13/cobra"

	"c0/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "c0",
	Short: "Cursive 0 bootstrap compiler front end",
	Long:  `c0 is the bootstrap front end for the Cursive 0 language: name resolution, the modal type system, region analysis, and initialization planning.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize pretty diagnostics (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics in json output (0 = no limit)")
	rootCmd.PersistentFlags().String("trace", "", "spec-trace output file (- for stderr, empty to disable)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
