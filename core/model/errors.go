package model

import "fmt"

// ValidationError reports invalid construction parameters. It is fatal: the
// component refusing the parameters is never built.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// DataError reports malformed or mismatched input data, such as a price
// series of the wrong length or a solved model missing variables.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return e.Msg }

// NewDataError builds a DataError from a format string.
func NewDataError(format string, args ...any) *DataError {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}
