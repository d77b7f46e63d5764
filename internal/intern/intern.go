// Package intern reads compiled library files into memory. It is the only
// component that touches raw storage bytes: everything above it works with
// library.Record values and the dependency cache it fills.
package intern

import (
	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/trace"
	"veritas/internal/vobj"
)

// Interner turns on-disk library files into Records and memoizes each
// file's declared dependency list into the session's DepCache.
type Interner struct {
	deps   *library.DepCache
	tracer trace.Tracer
}

// New creates an Interner writing discovered dependencies into deps.
func New(deps *library.DepCache, tr trace.Tracer) *Interner {
	if tr == nil {
		tr = trace.Nop
	}
	return &Interner{deps: deps, tracer: tr}
}

// Intern reads the library at path, validates its envelope and embedded
// name, reconstructs the full payload from the lightened form, and records
// the declared dependency list in the cache. The returned Record is fully
// built and never mutated afterwards.
func (it *Interner) Intern(name libname.Name, path string) (*library.Record, error) {
	trace.Detailf(it.tracer, "intern", name.String(), "reading %s", path)

	f, err := vobj.ReadFile(path, name)
	if err != nil {
		return nil, err
	}
	payload, err := vobj.Inflate(f.Summary.Payload, f.Table)
	if err != nil {
		return nil, &vobj.CorruptError{Path: path, Err: err}
	}

	deps := make([]library.Dep, len(f.Summary.Deps))
	for i, d := range f.Summary.Deps {
		deps[i] = library.Dep{Name: d.Name, Digest: d.Digest}
	}
	it.deps.Put(name, deps)

	return &library.Record{
		Name:    name,
		Path:    path,
		Payload: payload,
		Objects: f.Summary.Objects,
		Deps:    deps,
		Imports: f.Summary.Imports,
		Digest:  f.Digest,
	}, nil
}

// Dependencies returns the direct dependency list for name, interning the
// file first when the list is not cached yet. Dependency edges are unknown
// until a file is actually read; this is what lets resolution interleave
// discovery with traversal.
func (it *Interner) Dependencies(name libname.Name, path string) ([]library.Dep, error) {
	if deps, ok := it.deps.Get(name); ok {
		trace.Debugf(it.tracer, "intern", name.String(), "dependency list cached")
		return deps, nil
	}
	if _, err := it.Intern(name, path); err != nil {
		return nil, err
	}
	deps, _ := it.deps.Get(name)
	return deps, nil
}
