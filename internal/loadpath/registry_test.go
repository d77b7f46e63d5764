package loadpath_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"veritas/internal/libname"
	"veritas/internal/loadpath"
	"veritas/internal/trace"
)

func TestNormalizeDirSpellings(t *testing.T) {
	dir := t.TempDir()
	spellings := []string{
		dir,
		dir + string(filepath.Separator),
		filepath.Join(dir, ".", "."),
		filepath.Join(dir, "sub", ".."),
	}
	want := loadpath.NormalizeDir(dir)
	for _, s := range spellings {
		if got := loadpath.NormalizeDir(s); got != want {
			t.Fatalf("NormalizeDir(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestNormalizeDirMissingDirectory(t *testing.T) {
	// каталога нет — остаётся строковая нормализация, без ошибки
	missing := filepath.Join(t.TempDir(), "nope", "later")
	got := loadpath.NormalizeDir(missing + string(filepath.Separator) + ".")
	if got != loadpath.NormalizeDir(missing) {
		t.Fatalf("missing-dir normalization unstable: %q", got)
	}
}

func TestBindAndPrefix(t *testing.T) {
	dir := t.TempDir()
	r := loadpath.NewRegistry(trace.Nop)

	if got := r.Prefix(dir); got != libname.Empty {
		t.Fatalf("unbound dir should have empty prefix, got %q", got)
	}
	r.Bind(dir, libname.MustParse("Corelib"))
	if got := r.Prefix(dir); got != libname.MustParse("Corelib") {
		t.Fatalf("Prefix = %q", got)
	}
	// a different spelling of the same location compares equal
	if got := r.Prefix(filepath.Join(dir, ".")); got != libname.MustParse("Corelib") {
		t.Fatalf("Prefix via alternate spelling = %q", got)
	}
}

func TestRebindWarnsAndReplaces(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	r := loadpath.NewRegistry(trace.NewStream(&buf, trace.LevelError))

	r.Bind(dir, libname.MustParse("X"))
	r.Bind(dir, libname.MustParse("Y"))

	if got := r.Prefix(dir); got != libname.MustParse("Y") {
		t.Fatalf("last bind should win, got %q", got)
	}
	if !strings.Contains(buf.String(), "rebinding") {
		t.Fatalf("expected a rebind warning, trace output: %q", buf.String())
	}
	if len(r.PathsFor(libname.MustParse("X"))) != 0 {
		t.Fatal("old prefix still lists the rebound directory")
	}
}

func TestRebindFromDefaultPrefixIsSilent(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	r := loadpath.NewRegistry(trace.NewStream(&buf, trace.LevelError))

	r.Bind(dir, libname.Empty)
	r.Bind(dir, libname.MustParse("X"))

	if buf.Len() != 0 {
		t.Fatalf("rebinding away from the default prefix should not warn: %q", buf.String())
	}
	if got := r.Prefix(dir); got != libname.MustParse("X") {
		t.Fatalf("Prefix = %q", got)
	}
}

func TestUnbind(t *testing.T) {
	dir := t.TempDir()
	r := loadpath.NewRegistry(trace.Nop)
	r.Bind(dir, libname.MustParse("X"))
	r.Unbind(dir)

	if got := r.Prefix(dir); got != libname.Empty {
		t.Fatalf("unbound dir still has prefix %q", got)
	}
	if len(r.Bindings()) != 0 {
		t.Fatal("Bindings not empty after unbind")
	}
	// unbinding an unknown dir is a no-op
	r.Unbind(filepath.Join(dir, "unknown"))
}

func TestPathsForIncludesDeeperPrefixes(t *testing.T) {
	base := t.TempDir()
	dirA := filepath.Join(base, "a")
	dirB := filepath.Join(base, "b")
	dirC := filepath.Join(base, "c")
	for _, d := range []string{dirA, dirB, dirC} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	r := loadpath.NewRegistry(trace.Nop)
	r.Bind(dirA, libname.MustParse("X"))
	r.Bind(dirB, libname.MustParse("X.Sub"))
	r.Bind(dirC, libname.MustParse("Y"))

	got := r.PathsFor(libname.MustParse("X"))
	if len(got) != 2 {
		t.Fatalf("PathsFor(X) = %v", got)
	}
	if all := r.PathsFor(libname.Empty); len(all) != 3 {
		t.Fatalf("PathsFor(empty) should list every dir, got %v", all)
	}
}
