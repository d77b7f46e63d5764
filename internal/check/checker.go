package check

import (
	"fmt"

	"veritas/internal/library"
)

// Checker is the opaque checking collaborator. It is invoked exactly once
// per library, after every dependency of that library has been registered in
// env. An error from Check aborts the whole recheck operation; nothing of
// the failing library is committed.
type Checker interface {
	Check(env *library.Store, rec *library.Record) error
}

// DigestChecker is the default structural checker: it verifies that every
// dependency the library was compiled against is registered with exactly the
// content digest recorded at compile time, and that the payload survived
// reconstruction.
type DigestChecker struct{}

// Check validates rec against the environment built so far.
func (DigestChecker) Check(env *library.Store, rec *library.Record) error {
	if rec.Digest.IsZero() {
		return fmt.Errorf("library %s: zero content digest in %s", rec.Name, rec.Path)
	}
	if rec.Payload == nil {
		return fmt.Errorf("library %s: empty payload in %s", rec.Name, rec.Path)
	}
	for _, dep := range rec.Deps {
		got, ok := env.Lookup(dep.Name)
		if !ok {
			// the orchestrator registers dependencies first; a miss here is
			// an ordering violation, not a user error
			return fmt.Errorf("library %s: dependency %s not registered before its dependent", rec.Name, dep.Name)
		}
		if got.Digest != dep.Digest {
			return fmt.Errorf("library %s was compiled against %s with digest %s, but %s is registered with digest %s",
				rec.Name, dep.Name, dep.Digest.Short(), dep.Name, got.Digest.Short())
		}
	}
	return nil
}
