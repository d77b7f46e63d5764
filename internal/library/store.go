package library

import "veritas/internal/libname"

// Store is the session's table of checked libraries, keyed by logical name.
// It is the single source of truth for "is X already known": the resolver
// skips members, and registration is what makes a library available to
// satisfy future dependency lookups.
//
// One recheck session owns the store; no concurrent access.
type Store struct {
	byName map[libname.Name]*Record
	order  []libname.Name // порядок регистрации
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[libname.Name]*Record)}
}

// Lookup returns the registered record for name, if any.
func (s *Store) Lookup(name libname.Name) (*Record, bool) {
	rec, ok := s.byName[name]
	return rec, ok
}

// Contains reports membership without exposing the record.
func (s *Store) Contains(name libname.Name) bool {
	_, ok := s.byName[name]
	return ok
}

// Register inserts rec under its name. The first write for a name wins for
// the remainder of the session; a second registration is a no-op and returns
// false. The resolver skips store members, so within one resolution run a
// duplicate registration does not occur in practice.
func (s *Store) Register(rec *Record) bool {
	if _, ok := s.byName[rec.Name]; ok {
		return false
	}
	s.byName[rec.Name] = rec
	s.order = append(s.order, rec.Name)
	return true
}

// Names returns the registered names in registration order.
func (s *Store) Names() []libname.Name {
	out := make([]libname.Name, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered libraries.
func (s *Store) Len() int { return len(s.byName) }
