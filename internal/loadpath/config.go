package loadpath

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"veritas/internal/libname"
)

// ManifestName is the loadpath manifest looked for next to library trees.
const ManifestName = "veritas.toml"

type manifest struct {
	Paths map[string]string `toml:"paths"`
}

// LoadConfig parses the [paths] table of a veritas.toml manifest into
// bindings, prefix keys to directories. Relative directories are taken
// relative to the manifest's own directory. Bindings come back sorted by
// prefix so that applying them is deterministic.
func LoadConfig(path string) ([]Binding, error) {
	var cfg manifest
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("paths") || len(cfg.Paths) == 0 {
		return nil, nil
	}

	base := filepath.Dir(path)
	out := make([]Binding, 0, len(cfg.Paths))
	for key, dir := range cfg.Paths {
		prefix := libname.Empty
		if key != "" {
			prefix, err = libname.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("%s: bad prefix in [paths]: %w", path, err)
			}
		}
		if dir == "" {
			return nil, fmt.Errorf("%s: empty directory for prefix %q", path, key)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		out = append(out, Binding{Dir: dir, Prefix: prefix})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prefix != out[j].Prefix {
			return out[i].Prefix < out[j].Prefix
		}
		return out[i].Dir < out[j].Dir
	})
	return out, nil
}

// Apply binds every binding into the registry in order.
func (r *Registry) Apply(bindings []Binding) {
	for _, b := range bindings {
		r.Bind(b.Dir, b.Prefix)
	}
}
