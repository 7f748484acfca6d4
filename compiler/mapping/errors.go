package mapping

import (
	"errors"
	"fmt"
)

// ErrNameConflict is returned when two schema elements map to the same Go
// identifier.
var ErrNameConflict = errors.New("gqlcodegen: name conflict")

// NameConflictError reports two schema elements of one scope whose Go names
// collide, e.g. the fields user_id and userId both becoming UserID.
type NameConflictError struct {
	// Scope is the owning type, "Type.field" for arguments, or the package
	// import path for type and constant names.
	Scope  string
	GoName string
	First  string
	Second string
}

// Error implements the error interface.
func (e *NameConflictError) Error() string {
	return fmt.Sprintf("gqlcodegen: %s and %s both map to %s in %s", e.First, e.Second, e.GoName, e.Scope)
}

// Is reports whether the target matches ErrNameConflict.
func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// goNames records the Go identifiers claimed in one scope.
type goNames struct {
	scope string
	seen  map[string]string
}

func newGoNames(scope string) *goNames {
	return &goNames{scope: scope, seen: make(map[string]string)}
}

// claim records goName for the schema element name.
func (n *goNames) claim(goName, name string) error {
	if prev, ok := n.seen[goName]; ok {
		return &NameConflictError{Scope: n.scope, GoName: goName, First: prev, Second: name}
	}
	n.seen[goName] = name
	return nil
}
