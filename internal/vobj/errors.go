package vobj

import (
	"fmt"

	"veritas/internal/libname"
)

// BadMagicError means the file exists but does not start with this checker's
// magic number: either corrupted or written by a different checker version.
type BadMagicError struct {
	Path string
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("%s: file corrupted or built with a different checker version", e.Path)
}

// NameClashError means the file's embedded identity disagrees with the name
// used to locate it. A file containing library B never satisfies a request
// for library A, even when found via A's search path.
type NameClashError struct {
	Expected libname.Name
	Found    libname.Name
	Path     string
}

func (e *NameClashError) Error() string {
	return fmt.Sprintf("%s: contains library %s, expected %s", e.Path, e.Found, e.Expected)
}

// CorruptError wraps deserialization failures past the magic check:
// truncated envelopes, malformed msgpack, bad side-table references.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s: corrupt library file: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
