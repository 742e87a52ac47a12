package schema

import (
	"errors"
	"fmt"
)

// ErrTableNotFound is returned by Store implementations when a described
// table does not exist. The detector wraps it with the table name.
var ErrTableNotFound = errors.New("table not found")

// TableNotFoundError reports a describe call against a missing table.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q not found", e.Table)
}

func (e *TableNotFoundError) Unwrap() error {
	return ErrTableNotFound
}

// LookupError reports a transport failure while describing a table.
type LookupError struct {
	Table string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("failed to describe table %q: %v", e.Table, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// SamplingError reports a transport failure while sampling table data.
type SamplingError struct {
	Table string
	Err   error
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("failed to sample table %q: %v", e.Table, e.Err)
}

func (e *SamplingError) Unwrap() error {
	return e.Err
}
