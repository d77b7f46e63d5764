package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"veritas/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Veritas compiled-library consistency checker",
	Long:  `Veritas loads compiled library units, resolves their dependency graph and re-verifies each unit in dependency order`,
}

// main wires the subcommands and persistent flags, then executes the root
// command. A command error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(recheckCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "off", "trace level (off|error|phase|detail|debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
