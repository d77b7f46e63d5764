package loadpath

import (
	"fmt"
	"path/filepath"
	"sort"

	"veritas/internal/libname"
	"veritas/internal/trace"
)

// Registry maps physical directories to logical library-namespace prefixes.
// Each normalized directory maps to at most one prefix; rebinding replaces
// (last caller wins) with a warning. Part of one session's context, not
// process-global state.
type Registry struct {
	byDir    map[string]libname.Name
	byPrefix map[libname.Name]map[string]struct{}
	tracer   trace.Tracer
}

// NewRegistry creates an empty registry tracing to tr (trace.Nop allowed).
func NewRegistry(tr trace.Tracer) *Registry {
	if tr == nil {
		tr = trace.Nop
	}
	return &Registry{
		byDir:    make(map[string]libname.Name),
		byPrefix: make(map[libname.Name]map[string]struct{}),
		tracer:   tr,
	}
}

// NormalizeDir приводит каталог к каноническому абсолютному виду, чтобы
// разные написания одного места сравнивались как равные. Если ФС недоступна
// (каталог ещё не существует), остаётся строковая нормализация.
func NormalizeDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return filepath.Clean(abs)
}

// Bind registers dir under prefix. Rebinding a directory to a different
// non-empty prefix replaces the old binding and emits a warning; the rebind
// itself is the only other side effect.
func (r *Registry) Bind(dir string, prefix libname.Name) {
	norm := NormalizeDir(dir)
	if old, ok := r.byDir[norm]; ok {
		if old == prefix {
			return
		}
		if old != libname.Empty {
			trace.Warnf(r.tracer, "bind", "%s was bound to %s, rebinding to %s", norm, old, prefix)
		}
		r.dropReverse(norm, old)
	}
	r.byDir[norm] = prefix
	set, ok := r.byPrefix[prefix]
	if !ok {
		set = make(map[string]struct{})
		r.byPrefix[prefix] = set
	}
	set[norm] = struct{}{}
}

// Unbind removes the binding for dir, if any.
func (r *Registry) Unbind(dir string) {
	norm := NormalizeDir(dir)
	prefix, ok := r.byDir[norm]
	if !ok {
		return
	}
	delete(r.byDir, norm)
	r.dropReverse(norm, prefix)
}

// dropReverse keeps the reverse index in step with byDir. A directory
// missing from its prefix set means the registry broke its own replace-on-
// bind policy; that is a bug here, not a user error.
func (r *Registry) dropReverse(dir string, prefix libname.Name) {
	set, ok := r.byPrefix[prefix]
	if !ok {
		panic(fmt.Errorf("loadpath registry inconsistent: %s bound to %s but missing from reverse index", dir, prefix))
	}
	if _, ok := set[dir]; !ok {
		panic(fmt.Errorf("loadpath registry inconsistent: %s bound to %s but missing from reverse index", dir, prefix))
	}
	delete(set, dir)
	if len(set) == 0 {
		delete(r.byPrefix, prefix)
	}
}

// Prefix returns the logical prefix bound to dir, Empty when unbound.
func (r *Registry) Prefix(dir string) libname.Name {
	return r.byDir[NormalizeDir(dir)]
}

// PathsFor returns the directories bound under prefix, including bindings
// for deeper prefixes, sorted for deterministic search order.
func (r *Registry) PathsFor(prefix libname.Name) []string {
	var out []string
	for bound, set := range r.byPrefix {
		if !bound.HasPrefix(prefix) {
			continue
		}
		for dir := range set {
			out = append(out, dir)
		}
	}
	sort.Strings(out)
	return out
}

// Binding is one (directory, prefix) pair for display.
type Binding struct {
	Dir    string
	Prefix libname.Name
}

// Bindings returns all bindings sorted by directory.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.byDir))
	for dir, prefix := range r.byDir {
		out = append(out, Binding{Dir: dir, Prefix: prefix})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}
