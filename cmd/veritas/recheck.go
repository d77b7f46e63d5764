package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veritas/internal/check"
)

var recheckCmd = &cobra.Command{
	Use:   "recheck [flags] <library...>",
	Short: "Re-verify compiled libraries and their dependencies",
	Long: `Resolve the transitive dependencies of the named libraries and re-verify
each one in dependency order. Libraries named with --norec are verified
themselves but their dependencies are trusted; libraries named with --admit
are trusted outright.`,
	RunE: runRecheck,
}

func init() {
	recheckCmd.Flags().StringArray("norec", nil, "verify this library but trust its dependencies (repeatable)")
	recheckCmd.Flags().StringArray("admit", nil, "trust this library without verification (repeatable)")
	recheckCmd.Flags().StringArray("loadpath", nil, "bind a directory: 'Prefix=dir' or bare 'dir' (repeatable)")
	recheckCmd.Flags().String("config", "", "loadpath manifest (default: ./veritas.toml when present)")
	recheckCmd.Flags().Bool("stats", false, "show per-library rough memory size")
}

// runRecheck executes one recheck batch. Any failure (unlocatable library,
// corrupt file, dependency cycle, checker rejection) aborts the whole batch
// with a non-zero exit; there is no partial-success mode.
func runRecheck(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showStats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}

	norecArgs, err := cmd.Flags().GetStringArray("norec")
	if err != nil {
		return fmt.Errorf("failed to get norec flag: %w", err)
	}
	admitArgs, err := cmd.Flags().GetStringArray("admit")
	if err != nil {
		return fmt.Errorf("failed to get admit flag: %w", err)
	}
	if len(args)+len(norecArgs)+len(admitArgs) == 0 {
		return fmt.Errorf("no libraries requested")
	}

	var req check.Request
	if req.Check, err = parseNames(args); err != nil {
		return err
	}
	if req.NoRec, err = parseNames(norecArgs); err != nil {
		return err
	}
	if req.Admit, err = parseNames(admitArgs); err != nil {
		return err
	}

	registry, err := registryFromFlags(cmd, tracer)
	if err != nil {
		return err
	}

	session := check.NewSession(registry, nil, tracer)
	report, err := session.Recheck(req)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "recheck failed: %v\n", err)
		// сообщение уже напечатано, cobra не должна дублировать
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return err
	}

	out := cmd.OutOrStdout()
	checkedMark := color.New(color.FgGreen).Sprint("checked")
	admittedMark := color.New(color.FgYellow).Sprint("admitted")
	if !quiet {
		for _, entry := range report.Entries {
			mark := checkedMark
			if entry.Admitted {
				mark = admittedMark
			}
			if showStats {
				fmt.Fprintf(out, "  %s %s (%s, ~%d KiB)\n", mark, entry.Name, entry.Path, entry.Size/1024)
				continue
			}
			fmt.Fprintf(out, "  %s %s\n", mark, entry.Name)
		}
	}
	fmt.Fprintf(out, "%d checked, %d admitted\n",
		len(report.Checked()), len(report.Admitted()))
	if showStats && len(report.Entries) > 0 {
		fmt.Fprintf(out, "environment digest: %s\n", report.EnvironmentDigest().Hex())
	}
	return nil
}
