package resolve

import (
	"strings"

	"veritas/internal/libname"
)

// CycleError reports a dependency cycle found during resolution. The stack
// holds the loop in discovery order, first and last element equal.
type CycleError struct {
	Stack []libname.Name
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Stack))
	for i, n := range e.Stack {
		names[i] = n.String()
	}
	return "recursive dependency: " + strings.Join(names, " -> ")
}
