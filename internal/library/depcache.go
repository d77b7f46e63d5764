package library

import "veritas/internal/libname"

// DepCache memoizes, per logical name, the direct dependency list discovered
// by interning that library's file. Dependencies are unknown until a file is
// read, so the cache is what lets resolution revisit a name without touching
// storage again.
//
// minimal per-session cache; no locking, the session is single-threaded
type DepCache struct {
	byName map[libname.Name][]Dep
}

// NewDepCache creates a DepCache with the given capacity hint.
func NewDepCache(capHint int) *DepCache {
	return &DepCache{byName: make(map[libname.Name][]Dep, capHint)}
}

// Get retrieves the cached dependency list for name.
func (c *DepCache) Get(name libname.Name) ([]Dep, bool) {
	deps, ok := c.byName[name]
	return deps, ok
}

// Put records the dependency list for name. Later puts for the same name
// overwrite; callers re-intern only when a file was re-located, and the new
// record supersedes the old.
func (c *DepCache) Put(name libname.Name, deps []Dep) {
	c.byName[name] = deps
}
