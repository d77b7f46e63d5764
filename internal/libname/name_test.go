package libname

import "testing"

func TestParseValid(t *testing.T) {
	cases := []string{"Corelib", "Corelib.Init.Logic", "_x.y2", "A.B_c.D9"}
	for _, in := range cases {
		n, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if n.String() != in {
			t.Fatalf("Parse(%q) = %q", in, n)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", ".", "a..b", ".a", "a.", "9lib", "a.b-c", "прф.x"}
	for _, in := range cases {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) unexpectedly succeeded", in)
		}
	}
}

func TestPrefixBase(t *testing.T) {
	n := MustParse("Corelib.Init.Logic")
	if got := n.Prefix(); got != MustParse("Corelib.Init") {
		t.Fatalf("Prefix = %q", got)
	}
	if got := n.Base(); got != "Logic" {
		t.Fatalf("Base = %q", got)
	}

	bare := MustParse("Solo")
	if bare.Prefix() != Empty {
		t.Fatalf("bare name should have empty prefix, got %q", bare.Prefix())
	}
	if bare.Base() != "Solo" {
		t.Fatalf("bare Base = %q", bare.Base())
	}
}

func TestJoin(t *testing.T) {
	if got := Join(Empty, "Solo"); got != MustParse("Solo") {
		t.Fatalf("Join(empty) = %q", got)
	}
	if got := Join(MustParse("A.B"), "C"); got != MustParse("A.B.C") {
		t.Fatalf("Join = %q", got)
	}
}

func TestHasPrefix(t *testing.T) {
	n := MustParse("A.B.C")
	for _, p := range []Name{Empty, MustParse("A"), MustParse("A.B"), n} {
		if !n.HasPrefix(p) {
			t.Fatalf("%q should have prefix %q", n, p)
		}
	}
	// "A.BC" is not an ancestor of "A.B.C" despite the shared text
	if n.HasPrefix(MustParse("A.BC")) {
		t.Fatal("A.BC must not count as a prefix of A.B.C")
	}
	if n.HasPrefix(MustParse("A.B.C.D")) {
		t.Fatal("longer name must not count as a prefix")
	}
}

func TestSegments(t *testing.T) {
	segs := MustParse("A.B.C").Segments()
	want := []string{"A", "B", "C"}
	if len(segs) != len(want) {
		t.Fatalf("Segments = %v", segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("Segments[%d] = %q, want %q", i, segs[i], want[i])
		}
	}
}
