package resolve_test

import (
	"errors"
	"fmt"
	"testing"

	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/resolve"
	"veritas/internal/vobj"
)

// stubSource serves pre-built records and logs every intern call.
type stubSource struct {
	recs     map[libname.Name]*library.Record
	interned []libname.Name
}

func (s *stubSource) Intern(name libname.Name, path string) (*library.Record, error) {
	s.interned = append(s.interned, name)
	rec, ok := s.recs[name]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", name)
	}
	return rec, nil
}

type stubLocator map[libname.Name]string

func (l stubLocator) Locate(name libname.Name) (string, error) {
	path, ok := l[name]
	if !ok {
		return "", fmt.Errorf("cannot locate %s", name)
	}
	return path, nil
}

// graph builds a stub universe from name -> dependency names.
func graph(edges map[string][]string) (*stubSource, stubLocator) {
	src := &stubSource{recs: make(map[libname.Name]*library.Record)}
	loc := make(stubLocator)
	for name, deps := range edges {
		n := libname.MustParse(name)
		rec := &library.Record{
			Name:    n,
			Path:    name + vobj.Ext,
			Payload: vobj.Leaf("t"),
			Digest:  vobj.HashBytes([]byte(name)),
		}
		for _, dep := range deps {
			d := libname.MustParse(dep)
			rec.Deps = append(rec.Deps, library.Dep{Name: d, Digest: vobj.HashBytes([]byte(dep))})
		}
		src.recs[n] = rec
		loc[n] = name + vobj.Ext
	}
	return src, loc
}

func names(entries []resolve.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name.String()
	}
	return out
}

func request(src *stubSource, names ...string) []resolve.Request {
	out := make([]resolve.Request, len(names))
	for i, n := range names {
		out[i] = resolve.Request{Name: libname.MustParse(n), Path: n + vobj.Ext}
	}
	return out
}

func TestResolveDependencyFirstOrder(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": nil,
		"B": {"A"},
	})
	r := &resolve.Resolver{Store: library.NewStore(), Source: src, Locator: loc}

	order, err := r.Resolve(request(src, "B"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	got := names(order)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("order = %v, want [A B]", got)
	}
}

func TestResolveTopologicalValidity(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"A", "B"},
		"D": {"C", "B"},
		"E": {"D", "A"},
	})
	r := &resolve.Resolver{Store: library.NewStore(), Source: src, Locator: loc}

	order, err := r.Resolve(request(src, "E", "C"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	pos := make(map[string]int)
	for i, n := range names(order) {
		if _, dup := pos[n]; dup {
			t.Fatalf("duplicate entry %s in order %v", n, names(order))
		}
		pos[n] = i
	}
	for _, entry := range order {
		for _, dep := range entry.Rec.Deps {
			depPos, ok := pos[dep.Name.String()]
			if !ok {
				t.Fatalf("dependency %s of %s missing from order", dep.Name, entry.Name)
			}
			if depPos >= pos[entry.Name.String()] {
				t.Fatalf("dependency %s does not precede %s in %v", dep.Name, entry.Name, names(order))
			}
		}
	}
}

func TestResolveSkipsStoreMembers(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": nil,
		"B": {"A"},
	})
	store := library.NewStore()
	store.Register(src.recs[libname.MustParse("A")])

	r := &resolve.Resolver{Store: store, Source: src, Locator: loc}
	order, err := r.Resolve(request(src, "B", "A"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := names(order); len(got) != 1 || got[0] != "B" {
		t.Fatalf("order = %v, want [B]", got)
	}
	for _, n := range src.interned {
		if n == libname.MustParse("A") {
			t.Fatal("interner invoked for a library already in the store")
		}
	}
}

func TestResolveSharedDependencyOnce(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"A"},
	})
	r := &resolve.Resolver{Store: library.NewStore(), Source: src, Locator: loc}

	order, err := r.Resolve(request(src, "B", "C"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := names(order); len(got) != 3 {
		t.Fatalf("order = %v", got)
	}
	count := 0
	for _, n := range src.interned {
		if n == libname.MustParse("A") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("shared dependency interned %d times", count)
	}
}

func TestResolveCycleIsFatal(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": {"B"},
		"B": {"A"},
	})
	store := library.NewStore()
	r := &resolve.Resolver{Store: store, Source: src, Locator: loc}

	_, err := r.Resolve(request(src, "A"))
	var cycle *resolve.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycle.Stack) < 3 || cycle.Stack[0] != cycle.Stack[len(cycle.Stack)-1] {
		t.Fatalf("cycle stack = %v", cycle.Stack)
	}
	if store.Len() != 0 {
		t.Fatal("cycle detection must not register anything")
	}
}

func TestResolveSelfDependencyIsFatal(t *testing.T) {
	src, loc := graph(map[string][]string{
		"A": {"A"},
	})
	r := &resolve.Resolver{Store: library.NewStore(), Source: src, Locator: loc}

	_, err := r.Resolve(request(src, "A"))
	var cycle *resolve.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError, got %v", err)
	}
}

func TestResolveLocateFailurePropagates(t *testing.T) {
	src, _ := graph(map[string][]string{
		"A": nil,
		"B": {"A"},
	})
	// locator that knows nothing: the dependency cannot be located
	r := &resolve.Resolver{Store: library.NewStore(), Source: src, Locator: stubLocator{}}

	if _, err := r.Resolve(request(src, "B")); err == nil {
		t.Fatal("expected locate failure to propagate")
	}
}
