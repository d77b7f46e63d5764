package libname

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Name — каноническое логическое имя библиотеки: "Corelib.Init.Logic".
// Сегменты разделены точками, корневой сегмент первым. Immutable; годится
// как ключ map.
type Name string

// Empty is the zero Name, used as the default (unbound) loadpath prefix.
const Empty Name = ""

// IsValidSegment reports whether s is a legal name segment: non-empty ASCII,
// first rune a letter or '_', the rest letters, digits or '_'.
func IsValidSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Parse приводит текстовое имя к каноническому виду. Запрещает пустые
// сегменты ("a..b"), ведущие/хвостовые точки и не-идентификаторы.
func Parse(s string) (Name, error) {
	if s == "" {
		return Empty, errors.New("empty library name")
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if !IsValidSegment(seg) {
			return Empty, fmt.Errorf("invalid library name %q: bad segment %q", s, seg)
		}
	}
	return Name(strings.Join(segs, ".")), nil
}

// MustParse is Parse that panics on malformed input. Fixture helper.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Segments returns the ordered components, root first.
func (n Name) Segments() []string {
	if n == Empty {
		return nil
	}
	return strings.Split(string(n), ".")
}

// Base returns the last (least significant) segment.
func (n Name) Base() string {
	if i := strings.LastIndexByte(string(n), '.'); i >= 0 {
		return string(n[i+1:])
	}
	return string(n)
}

// Prefix returns everything before the last segment, Empty for a bare name.
func (n Name) Prefix() Name {
	if i := strings.LastIndexByte(string(n), '.'); i >= 0 {
		return n[:i]
	}
	return Empty
}

// Join appends base under prefix. Empty prefix yields the bare base.
func Join(prefix Name, base string) Name {
	if prefix == Empty {
		return Name(base)
	}
	return prefix + "." + Name(base)
}

// HasPrefix reports whether prefix is a (possibly equal) ancestor of n.
func (n Name) HasPrefix(prefix Name) bool {
	if prefix == Empty {
		return true
	}
	if n == prefix {
		return true
	}
	return strings.HasPrefix(string(n), string(prefix)+".")
}

func (n Name) String() string { return string(n) }
