// Package check drives the end-to-end recheck operation: locate requested
// libraries, resolve their transitive dependency order, partition into
// checked vs. admitted, and register each into the session store.
package check

import (
	"fmt"

	"veritas/internal/intern"
	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/loadpath"
	"veritas/internal/resolve"
	"veritas/internal/trace"
	"veritas/internal/vobj"
)

// Session owns all mutable state of one checker lifetime: the loadpath
// registry, the store of registered libraries, the dependency cache and the
// interner writing into it. One Session, one goroutine; there is no locking
// discipline because there is no sharing.
type Session struct {
	Registry *loadpath.Registry
	Store    *library.Store
	Deps     *library.DepCache
	Interner *intern.Interner
	Checker  Checker
	Tracer   trace.Tracer
}

// NewSession wires a fresh session around registry and checker. A nil
// checker gets the default DigestChecker, a nil tracer trace.Nop.
func NewSession(registry *loadpath.Registry, checker Checker, tr trace.Tracer) *Session {
	if checker == nil {
		checker = DigestChecker{}
	}
	if tr == nil {
		tr = trace.Nop
	}
	deps := library.NewDepCache(64)
	return &Session{
		Registry: registry,
		Store:    library.NewStore(),
		Deps:     deps,
		Interner: intern.New(deps, tr),
		Checker:  checker,
		Tracer:   tr,
	}
}

// Request partitions the libraries named on one recheck invocation.
type Request struct {
	Check []libname.Name // fully verify, dependencies included
	NoRec []libname.Name // verify the library itself, trust its dependencies
	Admit []libname.Name // trust outright
}

// Names returns the request's names in seeding order.
func (r Request) Names() []libname.Name {
	out := make([]libname.Name, 0, len(r.Check)+len(r.NoRec)+len(r.Admit))
	out = append(out, r.Check...)
	out = append(out, r.NoRec...)
	out = append(out, r.Admit...)
	return out
}

// Result is one processed library in schedule order.
type Result struct {
	Name     libname.Name
	Path     string
	Digest   vobj.Digest
	Admitted bool
	Size     int // rough in-memory footprint, diagnostics only
}

// Report summarizes one successful recheck.
type Report struct {
	Entries []Result
}

// EnvironmentDigest folds every processed library's content digest into one
// aggregate hash, in schedule order. Two sessions that processed the same
// libraries in the same order report the same value.
func (r *Report) EnvironmentDigest() vobj.Digest {
	var acc vobj.Digest
	for _, e := range r.Entries {
		acc = vobj.Combine(acc, e.Digest)
	}
	return acc
}

// Checked returns the names that went through the checking collaborator.
func (r *Report) Checked() []libname.Name {
	var out []libname.Name
	for _, e := range r.Entries {
		if !e.Admitted {
			out = append(out, e.Name)
		}
	}
	return out
}

// Admitted returns the names trusted without checking.
func (r *Report) Admitted() []libname.Name {
	var out []libname.Name
	for _, e := range r.Entries {
		if e.Admitted {
			out = append(out, e.Name)
		}
	}
	return out
}

// sessionLocator resolves names through the registry with the store
// consulted first, so a loaded library keeps its recorded path.
type sessionLocator struct {
	registry *loadpath.Registry
	store    *library.Store
}

func (l sessionLocator) Locate(name libname.Name) (string, error) {
	return l.registry.Locate(name, l.store)
}

// Recheck runs one batch to completion or aborts on the first error. Every
// error is fatal to the invocation: a library is either fully registered or
// the batch fails; there is no partial-success mode and nothing is retried.
// Libraries registered before a later failure stay registered: they passed
// checking on their own merits.
func (s *Session) Recheck(req Request) (*Report, error) {
	locator := sessionLocator{registry: s.Registry, store: s.Store}

	trace.Phasef(s.Tracer, "locate", "locating %d requested libraries", len(req.Names()))
	requested := make([]resolve.Request, 0, len(req.Names()))
	for _, name := range req.Names() {
		path, err := locator.Locate(name)
		if err != nil {
			return nil, err
		}
		requested = append(requested, resolve.Request{Name: name, Path: path})
	}

	resolver := &resolve.Resolver{
		Store:   s.Store,
		Source:  s.Interner,
		Locator: locator,
		Tracer:  s.Tracer,
	}
	order, err := resolver.Resolve(requested)
	if err != nil {
		return nil, err
	}
	trace.Phasef(s.Tracer, "resolve", "%d libraries scheduled", len(order))

	skip := resolve.SkipSet(req.Check, req.NoRec, req.Admit, s.Deps)

	report := &Report{Entries: make([]Result, 0, len(order))}
	for _, entry := range order {
		if _, admitted := skip[entry.Name]; admitted {
			trace.Detailf(s.Tracer, "admit", entry.Name.String(), "admitted without checking")
			s.Store.Register(entry.Rec)
			report.Entries = append(report.Entries, Result{
				Name:     entry.Name,
				Path:     entry.Rec.Path,
				Digest:   entry.Rec.Digest,
				Admitted: true,
				Size:     entry.Rec.ApproxSize(),
			})
			continue
		}
		trace.Detailf(s.Tracer, "check", entry.Name.String(), "checking %s", entry.Rec.Path)
		if err := s.Checker.Check(s.Store, entry.Rec); err != nil {
			return nil, fmt.Errorf("checking %s: %w", entry.Name, err)
		}
		s.Store.Register(entry.Rec)
		report.Entries = append(report.Entries, Result{
			Name:   entry.Name,
			Path:   entry.Rec.Path,
			Digest: entry.Rec.Digest,
			Size:   entry.Rec.ApproxSize(),
		})
	}
	trace.Phasef(s.Tracer, "check", "batch complete: %d checked, %d admitted",
		len(report.Checked()), len(report.Admitted()))
	return report, nil
}
