package nanofire

import (
	"fmt"

	"github.com/arthur-debert/nanofire/nanofire/query"
	"github.com/arthur-debert/nanofire/types"
)

var (
	// ErrInvalidArgument is returned for invalid stages, names and documents
	ErrInvalidArgument = types.ErrInvalidArgument

	// ErrNotFound is returned when an operation requires exactly one target
	// and none exists. Plain reads report absence through Snapshot.Exists.
	ErrNotFound = types.ErrNotFound
)

// StageError identifies the invalid stage of a query pipeline
type StageError = query.StageError

// OperationError adds the operation and target to an underlying error
type OperationError struct {
	Operation string // e.g. "add", "set", "delete"
	Path      string // "<collection>" or "<collection>/<id>"
	Err       error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap allows error unwrapping
func (e *OperationError) Unwrap() error {
	return e.Err
}

func opError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, Path: path, Err: err}
}
