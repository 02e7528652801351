package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConcurrency indicates that a row lock could not be acquired (timeout, deadlock or
// serialization failure). The whole operation was aborted and may be retried from scratch.
var ErrConcurrency = errors.New("concurrent modification conflict")

// ErrConsistency indicates that stored data no longer matches what a balance reversal expects.
var ErrConsistency = errors.New("balance consistency violation")

// ErrReferential indicates that a resource is still referenced by other records.
var ErrReferential = errors.New("resource is still referenced")

// ErrImmutable indicates that a resource cannot be edited or deleted.
var ErrImmutable = errors.New("resource is immutable")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries a status code and message alongside the underlying error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewValidationError creates an AppError wrapping ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewConflictError wraps a uniqueness violation from the storage layer.
func NewConflictError(message string, err error) *AppError {
	if err == nil {
		return NewAppError(http.StatusConflict, message, ErrDuplicate)
	}
	return NewAppError(http.StatusConflict, message, fmt.Errorf("%w: %w", ErrDuplicate, err))
}

// NewConcurrencyError wraps a lock failure from the storage layer.
func NewConcurrencyError(message string, err error) *AppError {
	if err == nil {
		return NewAppError(http.StatusConflict, message, ErrConcurrency)
	}
	return NewAppError(http.StatusConflict, message, fmt.Errorf("%w: %w", ErrConcurrency, err))
}

// NewConsistencyError creates an AppError wrapping ErrConsistency.
func NewConsistencyError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, ErrConsistency)
}

// NewReferentialError creates an AppError wrapping ErrReferential.
func NewReferentialError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrReferential)
}

// NewImmutableError creates an AppError wrapping ErrImmutable.
func NewImmutableError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrImmutable)
}

// NewInternalServerError creates an AppError wrapping ErrInternal.
func NewInternalServerError(message string, err error) *AppError {
	if err == nil {
		return NewAppError(http.StatusInternalServerError, message, ErrInternal)
	}
	return NewAppError(http.StatusInternalServerError, message, fmt.Errorf("%w: %w", ErrInternal, err))
}

// IsRetryable reports whether the caller may retry the whole operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrency)
}

// ValidationErrors holds field-level validation messages.
type ValidationErrors struct {
	Fields map[string]string
}

// NewValidationErrors creates a ValidationErrors from a field map.
func NewValidationErrors(fields map[string]string) *ValidationErrors {
	return &ValidationErrors{Fields: fields}
}

func (v *ValidationErrors) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) Unwrap() error {
	return ErrValidation
}
