package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"veritas/internal/libname"
	"veritas/internal/vobj"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show the loadpath bindings",
	Long:  `List the physical directories bound to logical library prefixes`,
	RunE:  runPaths,
}

var pathsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sweep the loadpath for unreadable or misnamed library files",
	Long: `Walk every bound directory and open each compiled library file, reporting
files with a bad magic number, corrupt contents, or an embedded name that
does not match the name the file would be located under.`,
	RunE: runPathsScan,
}

func init() {
	pathsCmd.PersistentFlags().StringArray("loadpath", nil, "bind a directory: 'Prefix=dir' or bare 'dir' (repeatable)")
	pathsCmd.PersistentFlags().String("config", "", "loadpath manifest (default: ./veritas.toml when present)")
	pathsScanCmd.Flags().Int("jobs", 0, "max parallel file reads (0=auto)")
	pathsCmd.AddCommand(pathsScanCmd)
}

func runPaths(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}
	registry, err := registryFromFlags(cmd, tracer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bindings := registry.Bindings()
	if len(bindings) == 0 {
		fmt.Fprintln(out, "no loadpath bindings")
		return nil
	}
	prefixColor := color.New(color.FgCyan)
	for _, b := range bindings {
		prefix := b.Prefix.String()
		if prefix == "" {
			prefix = "<default>"
		}
		fmt.Fprintf(out, "%s -> %s\n", prefixColor.Sprint(prefix), b.Dir)
	}
	return nil
}

// scanProblem is one defective file found during a sweep.
type scanProblem struct {
	path string
	msg  string
}

// runPathsScan reads every *.vlo under the bound directories, bounded-
// parallel. The sweep is read-only and advisory: it shares no state with a
// running recheck and never mutates a session.
func runPathsScan(cmd *cobra.Command, _ []string) error {
	if err := setupColor(cmd); err != nil {
		return err
	}
	tracer, err := setupTracer(cmd)
	if err != nil {
		return err
	}
	registry, err := registryFromFlags(cmd, tracer)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	type target struct {
		path   string
		expect libname.Name
	}
	var targets []target
	for _, b := range registry.Bindings() {
		entries, err := os.ReadDir(b.Dir)
		if err != nil {
			return fmt.Errorf("cannot read bound directory %s: %w", b.Dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), vobj.Ext) {
				continue
			}
			base := strings.TrimSuffix(e.Name(), vobj.Ext)
			if !libname.IsValidSegment(base) {
				continue
			}
			targets = append(targets, target{
				path:   filepath.Join(b.Dir, e.Name()),
				expect: libname.Join(b.Prefix, base),
			})
		}
	}

	var (
		mu       sync.Mutex
		problems []scanProblem
	)
	g := new(errgroup.Group)
	if jobs > 0 {
		g.SetLimit(jobs)
	} else {
		g.SetLimit(8)
	}
	for _, t := range targets {
		t := t
		g.Go(func() error {
			_, err := vobj.ReadFile(t.path, t.expect)
			if err != nil {
				mu.Lock()
				problems = append(problems, scanProblem{path: t.path, msg: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(problems) == 0 {
		fmt.Fprintf(out, "%d library files ok\n", len(targets))
		return nil
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].path < problems[j].path })
	bad := color.New(color.FgRed)
	for _, p := range problems {
		fmt.Fprintf(out, "  %s %s\n", bad.Sprint("bad"), p.msg)
	}
	cmd.SilenceUsage = true
	return fmt.Errorf("%d of %d library files defective", len(problems), len(targets))
}
