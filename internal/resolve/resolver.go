// Package resolve computes the ordered, cycle-checked, deduplicated list of
// libraries that must be checked to satisfy a request. The dependency graph
// is discovered incrementally: a library's edges are unknown until its file
// is interned, so traversal and discovery interleave instead of operating on
// a pre-built graph.
package resolve

import (
	"slices"

	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/trace"
)

// Request is one requested library with its located file.
type Request struct {
	Name libname.Name
	Path string
}

// Entry is one scheduled library in dependency-first order.
type Entry struct {
	Name libname.Name
	Rec  *library.Record
}

// Source supplies fully interned records. Implemented by intern.Interner.
type Source interface {
	Intern(name libname.Name, path string) (*library.Record, error)
}

// Locator resolves a dependency's logical name to a physical file.
type Locator interface {
	Locate(name libname.Name) (string, error)
}

// Resolver walks requested libraries depth-first, consulting the store to
// skip already-registered ones and the source to discover edges.
type Resolver struct {
	Store   *library.Store
	Source  Source
	Locator Locator
	Tracer  trace.Tracer
}

// рабочие множества одного прогона: stack/active — активная рекурсия
// (детект циклов), done — уже в выходном порядке, order — накопитель.
type state struct {
	active map[libname.Name]bool
	stack  []libname.Name
	done   map[libname.Name]bool
	order  []Entry
}

// Resolve returns every library that must be processed to satisfy the
// requested list, dependencies strictly before dependents. Libraries already
// in the store contribute nothing: they were necessarily processed at an
// earlier position in the session. A cycle is fatal, never broken: skipping
// an edge would schedule a library before one of its true dependencies.
func (r *Resolver) Resolve(requested []Request) ([]Entry, error) {
	st := &state{
		active: make(map[libname.Name]bool),
		done:   make(map[libname.Name]bool),
	}
	for _, req := range requested {
		if err := r.visit(st, req.Name, req.Path); err != nil {
			return nil, err
		}
	}
	return st.order, nil
}

func (r *Resolver) visit(st *state, name libname.Name, path string) error {
	if r.Store.Contains(name) {
		trace.Debugf(r.Tracer, "resolve", name.String(), "already registered, skipping")
		return nil
	}
	if st.done[name] {
		return nil
	}
	if st.active[name] {
		return cycleFrom(st.stack, name)
	}

	st.active[name] = true
	st.stack = append(st.stack, name)

	rec, err := r.Source.Intern(name, path)
	if err != nil {
		return err
	}
	for _, dep := range rec.Deps {
		if r.Store.Contains(dep.Name) || st.done[dep.Name] {
			continue
		}
		depPath, err := r.Locator.Locate(dep.Name)
		if err != nil {
			return err
		}
		if err := r.visit(st, dep.Name, depPath); err != nil {
			return err
		}
	}

	st.stack = st.stack[:len(st.stack)-1]
	delete(st.active, name)
	st.done[name] = true
	st.order = append(st.order, Entry{Name: name, Rec: rec})
	trace.Detailf(r.Tracer, "resolve", name.String(), "scheduled at position %d", len(st.order))
	return nil
}

// cycleFrom trims the active stack to the offending loop.
func cycleFrom(stack []libname.Name, name libname.Name) *CycleError {
	i := slices.Index(stack, name)
	if i < 0 {
		i = 0
	}
	loop := make([]libname.Name, 0, len(stack)-i+1)
	loop = append(loop, stack[i:]...)
	loop = append(loop, name)
	return &CycleError{Stack: loop}
}
