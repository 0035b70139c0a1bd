package database

import "errors"

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a uniqueness constraint rejects an insert.
// Callers in the pipeline treat this as an expected outcome, not a failure.
var ErrDuplicate = errors.New("duplicate entity")
