package library

import (
	"veritas/internal/libname"
	"veritas/internal/vobj"
)

// Dep is one direct dependency edge: the dependency's name and the content
// digest it had when the dependent was compiled against it.
type Dep struct {
	Name   libname.Name
	Digest vobj.Digest
}

// Record is a fully loaded library. Created by the interner, owned by the
// Store after registration, never mutated. A re-load builds a fresh Record;
// it never edits an existing one.
type Record struct {
	Name    libname.Name
	Path    string // physical file the record was read from
	Payload *vobj.Term
	Objects []byte
	Deps    []Dep
	Imports []libname.Name
	Digest  vobj.Digest // content digest of the on-disk summary
}

// ApproxSize returns a rough in-memory footprint in bytes, for diagnostics
// only. Counts payload nodes at a fixed estimate plus table overhead.
func (r *Record) ApproxSize() int {
	if r == nil {
		return 0
	}
	const perNode = 48 // Term struct + slice header, rounded
	size := r.Payload.NodeCount() * perNode
	size += len(r.Objects)
	for _, d := range r.Deps {
		size += len(d.Name) + len(d.Digest)
	}
	for _, imp := range r.Imports {
		size += len(imp)
	}
	size += len(r.Name) + len(r.Path) + len(r.Digest)
	return size
}
