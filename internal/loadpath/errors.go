package loadpath

import (
	"fmt"

	"veritas/internal/libname"
)

// UnmappedPrefixError means a logical prefix has no bound physical directory
// at all, so there is nowhere to even look for the library.
type UnmappedPrefixError struct {
	Prefix libname.Name
}

func (e *UnmappedPrefixError) Error() string {
	return fmt.Sprintf("no physical directory bound for logical prefix %s", e.Prefix)
}

// NotFoundError means the prefix is mapped but no matching file exists among
// its bound directories.
type NotFoundError struct {
	Name libname.Name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("library %s not found along the loadpath", e.Name)
}
