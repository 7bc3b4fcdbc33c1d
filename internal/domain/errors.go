package domain

import "fmt"

// Error types for consistent error handling across the BFF.

// ErrRequiredField indicates a mandatory input field was left blank.
type ErrRequiredField struct {
	Field string
}

func (e *ErrRequiredField) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ErrFormat indicates an input field failed format validation.
type ErrFormat struct {
	Field   string
	Message string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource was not found upstream.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrRemote indicates a failure in the upstream ledger API. Handlers
// convert it to a generic notice; no locally held state is mutated.
type ErrRemote struct {
	Operation string
	Err       error
}

func (e *ErrRemote) Error() string {
	return fmt.Sprintf("upstream error [%s]: %v", e.Operation, e.Err)
}

func (e *ErrRemote) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates the session gate denied access.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrSuperseded indicates a search response was discarded because a
// newer search for the same shop was issued while it was in flight.
type ErrSuperseded struct {
	ShopID string
}

func (e *ErrSuperseded) Error() string {
	return fmt.Sprintf("search superseded for shop %s", e.ShopID)
}
