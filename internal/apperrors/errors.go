package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrReferentialIntegrity indicates that a referenced account or category vanished
// (or is still referenced) while a mutation was in progress.
var ErrReferentialIntegrity = errors.New("referential integrity violation")

// ErrStorage indicates an I/O failure in the underlying database.
var ErrStorage = errors.New("storage error")

// AppError carries an HTTP-ish status code and a human message on top of a wrapped cause.
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

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationError wraps ErrValidation with a user facing message.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewNotFoundError wraps ErrNotFound with a message naming the missing resource.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewReferentialIntegrityError wraps ErrReferentialIntegrity.
func NewReferentialIntegrityError(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrReferentialIntegrity)
}

// NewStorageError wraps a driver error so that both ErrStorage and the cause stay reachable via errors.Is.
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, errors.Join(ErrStorage, cause))
}

// IsTaxonomyError reports whether err already belongs to one of the known categories,
// in which case callers should propagate it instead of re-wrapping it as a storage error.
func IsTaxonomyError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrReferentialIntegrity) ||
		errors.Is(err, ErrStorage)
}

// ValidationMessage extracts the user facing message of a validation error.
func ValidationMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && errors.Is(appErr.Err, ErrValidation) {
		return appErr.Message
	}
	return err.Error()
}
