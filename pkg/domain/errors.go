package domain

import "fmt"

// ErrNotFound is returned when a mutation targets an identifier absent from
// its collection. Callers may ignore it to keep the original no-op behavior,
// but the miss is always reported.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrDuplicate is returned when a create targets an identifier already present
// in its collection.
type ErrDuplicate struct {
	Entity EntityType
	ID     string
}

func (e ErrDuplicate) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.ID)
}

// ErrInvalidTransition is returned when a status change starts from a terminal
// state, e.g. approving an already-approved leave request.
type ErrInvalidTransition struct {
	Entity EntityType
	ID     string
	From   string
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("%s %s cannot transition from %s", e.Entity, e.ID, e.From)
}

// PersistError wraps a durable-store write failure. The in-memory state keeps
// the committed change; the caller logs the divergence and carries on.
type PersistError struct {
	Err error
}

func (e PersistError) Error() string {
	return fmt.Sprintf("persist snapshot: %v", e.Err)
}

func (e PersistError) Unwrap() error { return e.Err }
