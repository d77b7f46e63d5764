package resolve

import (
	"veritas/internal/libname"
	"veritas/internal/library"
)

// Closure returns the reflexive-transitive dependency closure of seeds over
// the cached dependency lists. A name without a cached list is a leaf: its
// dependencies were registered in an earlier batch and are not in play.
func Closure(seeds []libname.Name, deps *library.DepCache) map[libname.Name]struct{} {
	out := make(map[libname.Name]struct{}, len(seeds))
	work := make([]libname.Name, len(seeds))
	copy(work, seeds)
	for len(work) > 0 {
		name := work[len(work)-1]
		work = work[:len(work)-1]
		if _, ok := out[name]; ok {
			continue
		}
		out[name] = struct{}{}
		if list, ok := deps.Get(name); ok {
			for _, dep := range list {
				if _, ok := out[dep.Name]; !ok {
					work = append(work, dep.Name)
				}
			}
		}
	}
	return out
}

// SkipSet computes which libraries in the resolved order may be admitted
// without deep verification: closure(norec) + closure(admit) - closure(check),
// with the originally named norec and check libraries removed at the end.
// Those are always checked themselves even when their transitive dependents
// are skipped.
func SkipSet(check, norec, admit []libname.Name, deps *library.DepCache) map[libname.Name]struct{} {
	skip := Closure(norec, deps)
	for name := range Closure(admit, deps) {
		skip[name] = struct{}{}
	}
	for name := range Closure(check, deps) {
		delete(skip, name)
	}
	for _, name := range norec {
		delete(skip, name)
	}
	for _, name := range check {
		delete(skip, name)
	}
	return skip
}
