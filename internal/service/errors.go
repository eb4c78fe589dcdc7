package service

import "fmt"

// The engine reports failures through this small taxonomy; the handler
// layer owns the mapping to HTTP status codes.

// ValidationError signals malformed or missing required input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError signals that a referenced entity is absent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// PermissionError signals an authenticated caller with insufficient
// ownership or role.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// ConflictError signals a uniqueness violation such as a slug or
// category name collision. The engine never retries on its own.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StateError signals an operation that is invalid for the entity's
// current lifecycle state.
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

// PartialConversionError reports a submission conversion that created a
// post but failed to stamp the submission afterwards. PostID lets the
// caller reconcile the half-finished saga.
type PartialConversionError struct {
	PostID uint
	Err    error
}

func (e *PartialConversionError) Error() string {
	return fmt.Sprintf("submission conversion incomplete: post %d created: %v", e.PostID, e.Err)
}

func (e *PartialConversionError) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}
