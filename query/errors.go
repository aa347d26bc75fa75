package query

import (
	"errors"
	"fmt"
)

// ErrAccessDenied is matched (via errors.Is) by every FieldAccessError.
var ErrAccessDenied = errors.New("query field access denied")

// FieldAccessError means that the value of a query field could not be read or rendered.
// Flatten returns no parameters at all when this happens.
type FieldAccessError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldAccessError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cannot read query fields of %s: %s", e.Type, e.Err)
	}
	return fmt.Sprintf("cannot read query field %s.%s: %s", e.Type, e.Field, e.Err)
}

func (e *FieldAccessError) Unwrap() error { return e.Err }

func (e *FieldAccessError) Is(target error) bool { return target == ErrAccessDenied }

// UnsupportedTypeError is returned for query values that are neither structs nor maps with
// string keys.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported query type %s: must be a struct or a map with string keys", e.Type)
}
