package library_test

import (
	"testing"

	"veritas/internal/libname"
	"veritas/internal/library"
	"veritas/internal/vobj"
)

func rec(name string, path string) *library.Record {
	return &library.Record{
		Name:    libname.MustParse(name),
		Path:    path,
		Payload: vobj.Leaf("t"),
		Digest:  vobj.HashBytes([]byte(path)),
	}
}

func TestStoreRegisterFirstWins(t *testing.T) {
	s := library.NewStore()
	a1 := rec("Lib.A", "first.vlo")
	a2 := rec("Lib.A", "second.vlo")

	if !s.Register(a1) {
		t.Fatal("first registration should succeed")
	}
	if s.Register(a2) {
		t.Fatal("second registration for the same name must be a no-op")
	}
	got, ok := s.Lookup(libname.MustParse("Lib.A"))
	if !ok || got.Path != "first.vlo" {
		t.Fatalf("lookup returned %+v", got)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d", s.Len())
	}
}

func TestStoreNamesInRegistrationOrder(t *testing.T) {
	s := library.NewStore()
	s.Register(rec("B", "b.vlo"))
	s.Register(rec("A", "a.vlo"))
	s.Register(rec("C", "c.vlo"))

	names := s.Names()
	want := []libname.Name{"B", "A", "C"}
	if len(names) != len(want) {
		t.Fatalf("Names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestStoreContains(t *testing.T) {
	s := library.NewStore()
	if s.Contains(libname.MustParse("X")) {
		t.Fatal("empty store should contain nothing")
	}
	s.Register(rec("X", "x.vlo"))
	if !s.Contains(libname.MustParse("X")) {
		t.Fatal("registered name missing")
	}
}

func TestDepCache(t *testing.T) {
	c := library.NewDepCache(4)
	name := libname.MustParse("Lib.A")

	if _, ok := c.Get(name); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	deps := []library.Dep{{Name: libname.MustParse("Lib.B"), Digest: vobj.HashBytes([]byte("b"))}}
	c.Put(name, deps)
	got, ok := c.Get(name)
	if !ok || len(got) != 1 || got[0].Name != libname.MustParse("Lib.B") {
		t.Fatalf("Get = %v, %v", got, ok)
	}
}

func TestRecordApproxSize(t *testing.T) {
	r := rec("Lib.A", "a.vlo")
	if r.ApproxSize() <= 0 {
		t.Fatal("ApproxSize should be positive for a non-empty record")
	}
	var empty *library.Record
	if empty.ApproxSize() != 0 {
		t.Fatal("nil record should have zero size")
	}
}
