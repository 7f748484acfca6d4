package gen

import (
	"errors"
	"fmt"
)

// ErrFileConflict is returned when two generated types map to the same file.
var ErrFileConflict = errors.New("gqlcodegen: file conflict")

// FileConflictError reports two schema types whose Go names yield the same
// file name in the same package, e.g. BikeTO and BikeTo.
type FileConflictError struct {
	Path   string
	First  string
	Second string
}

// Error implements the error interface.
func (e *FileConflictError) Error() string {
	return fmt.Sprintf("gqlcodegen: types %s and %s both generate %s", e.First, e.Second, e.Path)
}

// Is reports whether the target matches ErrFileConflict.
func (e *FileConflictError) Is(target error) bool {
	return target == ErrFileConflict
}
