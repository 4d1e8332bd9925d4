package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an item does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrTableNotFound is returned when a table does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrStoreNotFound is returned when no store is registered for an environment.
	ErrStoreNotFound = errors.New("store not found")
	// ErrWrongEntity is returned when a record is written to another entity's table.
	ErrWrongEntity = errors.New("record does not belong to this table")
	// ErrMissingRepository is returned when a registered entity has no repository.
	ErrMissingRepository = errors.New("missing repository")
)

// OpError records the failed operation and table.
type OpError struct {
	Op    string
	Table string
	Err   error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Table: table, Err: err}
}
