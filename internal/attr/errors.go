package attr

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrNotFound indicates the leaf path holds no value.
	ErrNotFound = errors.New("attribute not found")

	// ErrInvalidPath indicates a malformed key path.
	ErrInvalidPath = errors.New("invalid attribute path")
)

// ShapeError reports a value whose kind does not fit the requested access:
// either an intermediate segment that is not a container, or a leaf that
// cannot be coerced to the requested type.
type ShapeError struct {
	// Path is the full path of the access.
	Path string
	// Segment is the prefix that blocked a write. Empty for read errors.
	Segment string
	// Got is the kind found.
	Got Kind
	// Want is the kind required.
	Want Kind
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("attr %s: segment %q holds %s, want %s", e.Path, e.Segment, e.Got, e.Want)
	}
	return fmt.Sprintf("attr %s: holds %s, want %s", e.Path, e.Got, e.Want)
}

// IsShapeError reports whether err is a *ShapeError.
func IsShapeError(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
