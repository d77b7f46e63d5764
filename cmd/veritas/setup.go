package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"veritas/internal/libname"
	"veritas/internal/loadpath"
	"veritas/internal/trace"
)

// setupColor applies the persistent --color flag to the global color state.
func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("unknown color mode %q (expected: auto|on|off)", mode)
	}
	return nil
}

// setupTracer builds a stderr tracer from the persistent --trace flag.
func setupTracer(cmd *cobra.Command) (trace.Tracer, error) {
	levelStr, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	return trace.NewStream(os.Stderr, level), nil
}

// registryFromFlags builds the loadpath registry for a command: the --config
// manifest first (falling back to ./veritas.toml when present), then every
// --loadpath binding, so explicit flags win over the manifest.
func registryFromFlags(cmd *cobra.Command, tracer trace.Tracer) (*loadpath.Registry, error) {
	registry := loadpath.NewRegistry(tracer)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		if _, statErr := os.Stat(loadpath.ManifestName); statErr == nil {
			configPath = loadpath.ManifestName
		}
	}
	if configPath != "" {
		bindings, err := loadpath.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		registry.Apply(bindings)
	}

	binds, err := cmd.Flags().GetStringArray("loadpath")
	if err != nil {
		return nil, fmt.Errorf("failed to get loadpath flag: %w", err)
	}
	for _, spec := range binds {
		binding, err := parseBinding(spec)
		if err != nil {
			return nil, err
		}
		registry.Bind(binding.Dir, binding.Prefix)
	}
	return registry, nil
}

// parseBinding parses a --loadpath spec: "Prefix=dir" or a bare "dir" bound
// under the default (empty) prefix.
func parseBinding(spec string) (loadpath.Binding, error) {
	for i := 0; i < len(spec); i++ {
		if spec[i] != '=' {
			continue
		}
		prefix, err := libname.Parse(spec[:i])
		if err != nil {
			return loadpath.Binding{}, fmt.Errorf("bad --loadpath %q: %w", spec, err)
		}
		if spec[i+1:] == "" {
			return loadpath.Binding{}, fmt.Errorf("bad --loadpath %q: empty directory", spec)
		}
		return loadpath.Binding{Dir: spec[i+1:], Prefix: prefix}, nil
	}
	if spec == "" {
		return loadpath.Binding{}, fmt.Errorf("bad --loadpath: empty spec")
	}
	return loadpath.Binding{Dir: spec, Prefix: libname.Empty}, nil
}

// parseNames converts a list of textual names, failing on the first bad one.
func parseNames(args []string) ([]libname.Name, error) {
	out := make([]libname.Name, 0, len(args))
	for _, arg := range args {
		name, err := libname.Parse(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}
