package errors

import "fmt"

// ErrorCode represents a jot error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrInvalidFormat    ErrorCode = "INVALID_FORMAT"    // 400 (import payload shape)
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED" // 422
	ErrSaveFailed       ErrorCode = "SAVE_FAILED"       // 507 (store rejected the write)
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// JotError represents a structured error with code, status, and details.
type JotError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JotError {
	return &JotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewInvalidFormat creates a 400 error for a structurally invalid import
// payload. The import is rejected before any state change.
func NewInvalidFormat(msg string) *JotError {
	return &JotError{
		Code:    ErrInvalidFormat,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a note cannot be found.
func NewNotFound(id string) *JotError {
	return &JotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewValidationFailed creates a 422 error carrying every accumulated rule
// violation. The triggering operation is a no-op on canonical state.
func NewValidationFailed(violations []string) *JotError {
	return &JotError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("note failed validation: %d problem(s)", len(violations)),
		Details: map[string]any{"errors": violations},
	}
}

// NewSaveFailed creates a 507 error for a rejected store write. The caller
// has rolled back the in-memory effect of the triggering operation.
func NewSaveFailed(err error) *JotError {
	msg := "failed to persist notes"
	if err != nil {
		msg = fmt.Sprintf("failed to persist notes: %v", err)
	}
	return &JotError{
		Code:    ErrSaveFailed,
		Status:  507,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *JotError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &JotError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a JotError with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := err.(*JotError); ok {
		return jErr.Code == code
	}
	return false
}

// ValidationMessages extracts the accumulated violation list from a
// VALIDATION_FAILED error. Returns nil for any other error.
func ValidationMessages(err error) []string {
	jErr, ok := err.(*JotError)
	if !ok || jErr.Code != ErrValidationFailed || jErr.Details == nil {
		return nil
	}
	msgs, _ := jErr.Details["errors"].([]string)
	return msgs
}
