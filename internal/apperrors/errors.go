package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Always recoverable: the caller fixes the draft and resubmits.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an illegal lifecycle transition, such as posting a
// non-draft journal, reversing a non-posted journal, or posting to a header or
// archived account.
var ErrInvalidState = errors.New("invalid state for requested operation")

// ErrConcurrency indicates the operation lost a race with a concurrent writer.
// The caller retries the whole operation from validation.
var ErrConcurrency = errors.New("concurrent modification conflict")

// ErrConsistency indicates the ledger failed an internal invariant check: the
// trial balance does not balance, or a recomputed running balance disagrees with
// the stored one. It is never auto-corrected and blocks the affected operation.
var ErrConsistency = errors.New("ledger consistency violation")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
// Repositories use it to attach context without losing the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
