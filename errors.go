package docreader

import "fmt"

// PathDeniedError is returned by PathGuard when a path fails admission.
type PathDeniedError struct {
	Path   string
	Reason string
}

func (e *PathDeniedError) Error() string {
	return fmt.Sprintf("access to %q denied: %s", e.Path, e.Reason)
}

// missingDependency is implemented by engine errors that report a format the
// rendering capability recognizes but has no backend wired for. The service
// classifies on the behavior rather than a concrete type so the core stays
// decoupled from any particular engine implementation.
type missingDependency interface {
	MissingDependency() bool
}
