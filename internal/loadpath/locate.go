package loadpath

import (
	"os"
	"path/filepath"

	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/vobj"
)

// LocateQualified resolves a partially-qualified reference to a library
// file. With an empty prefix the whole loadpath is searched; otherwise only
// directories bound under prefix. The first match in sorted directory order
// wins.
func (r *Registry) LocateQualified(prefix libname.Name, base string) (string, error) {
	var dirs []string
	if prefix == libname.Empty {
		dirs = r.PathsFor(libname.Empty)
	} else {
		dirs = r.PathsFor(prefix)
		if len(dirs) == 0 {
			return "", &UnmappedPrefixError{Prefix: prefix}
		}
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, base+vobj.Ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Name: libname.Join(prefix, base)}
}

// Locate resolves an absolute logical name to a file. A library already
// present in loaded keeps its recorded path for the rest of the session: a
// loaded library's location never changes out from under its dependents.
// loaded may be nil.
func (r *Registry) Locate(name libname.Name, loaded *library.Store) (string, error) {
	if loaded != nil {
		if rec, ok := loaded.Lookup(name); ok {
			return rec.Path, nil
		}
	}
	return r.LocateQualified(name.Prefix(), name.Base())
}
