package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veritas/internal/libname"
	"veritas/internal/vobj"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file.vlo>",
	Short: "Print the envelope of a compiled library file",
	Long:  `Decode a compiled library file and print its name, content digest, dependencies and imports without checking anything`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}

	f, err := vobj.ReadFile(args[0], libname.Empty)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	nameColor := color.New(color.FgCyan, color.Bold)
	fmt.Fprintf(out, "library  %s\n", nameColor.Sprint(f.Summary.Name))
	fmt.Fprintf(out, "digest   %s\n", f.Digest.Hex())

	payload, err := vobj.Inflate(f.Summary.Payload, f.Table)
	if err != nil {
		return &vobj.CorruptError{Path: args[0], Err: err}
	}
	fmt.Fprintf(out, "payload  %d nodes (%d in lightened form, %d side-table entries)\n",
		payload.NodeCount(), f.Summary.Payload.NodeCount(), len(f.Table))
	if len(f.Summary.Objects) > 0 {
		fmt.Fprintf(out, "objects  %d bytes\n", len(f.Summary.Objects))
	}

	if len(f.Summary.Deps) == 0 {
		fmt.Fprintln(out, "deps     none")
	} else {
		fmt.Fprintf(out, "deps     %d\n", len(f.Summary.Deps))
		for _, dep := range f.Summary.Deps {
			fmt.Fprintf(out, "  %s %s\n", dep.Digest.Short(), dep.Name)
		}
	}
	if len(f.Summary.Imports) > 0 {
		fmt.Fprintf(out, "imports  %d\n", len(f.Summary.Imports))
		for _, imp := range f.Summary.Imports {
			fmt.Fprintf(out, "  %s\n", imp)
		}
	}
	return nil
}
