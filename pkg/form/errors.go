package form

import "errors"

var (
	// ErrUnknownField is returned when a value targets a field the form does
	// not declare.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNotEnumerated is returned when Select targets a free-text field.
	ErrNotEnumerated = errors.New("form: field is not enumerated")
	// ErrInvalidOption is returned when Select receives a rating outside the
	// closed option set.
	ErrInvalidOption = errors.New("form: invalid option")
)
