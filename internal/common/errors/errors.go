package errors

import (
	"fmt"
	"time"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeConflict   ErrorCode = "CONFLICT"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Name list errors
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
	ErrCodeEmptyName     ErrorCode = "EMPTY_NAME"
	ErrCodeNoSuchName    ErrorCode = "NO_SUCH_NAME"

	// Wish errors
	ErrCodeAlreadySubmitted ErrorCode = "ALREADY_SUBMITTED"
	ErrCodeEmptyWish        ErrorCode = "EMPTY_WISH"
	ErrCodeWishTooShort     ErrorCode = "WISH_TOO_SHORT"
	ErrCodeWishTooLong      ErrorCode = "WISH_TOO_LONG"

	// Draw errors
	ErrCodeInsufficientWishes ErrorCode = "INSUFFICIENT_WISHES"

	// Backup errors
	ErrCodeMalformedBackup ErrorCode = "MALFORMED_BACKUP"

	// Destructive operations must be confirmed before they commit.
	ErrCodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"

	// Storage errors
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// AppError is a typed application error carried from the service layer to
// the HTTP boundary, where the code is mapped to a status.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether the error is a local validation failure.
func (e *AppError) IsValidation() bool {
	switch e.Code {
	case ErrCodeValidation, ErrCodeEmptyName, ErrCodeEmptyWish,
		ErrCodeWishTooShort, ErrCodeWishTooLong, ErrCodeMalformedBackup:
		return true
	}
	return false
}

// IsInternal reports whether the error should be hidden behind a 500.
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeStorage
}

// WithDetail attaches structured detail to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Constructors for the errors the services actually raise.

func NewDuplicateNameError(name string) *AppError {
	return New(ErrCodeDuplicateName, fmt.Sprintf("Name already exists: %s", name)).
		WithDetail("name", name)
}

func NewEmptyNameError() *AppError {
	return New(ErrCodeEmptyName, "Name must not be empty")
}

func NewNoSuchNameError(id string) *AppError {
	return New(ErrCodeNoSuchName, fmt.Sprintf("Name not found: %s", id)).
		WithDetail("name_id", id)
}

func NewAlreadySubmittedError(name string) *AppError {
	return New(ErrCodeAlreadySubmitted, fmt.Sprintf("%s has already submitted a wish", name)).
		WithDetail("name", name)
}

func NewEmptyWishError() *AppError {
	return New(ErrCodeEmptyWish, "Wish text must not be empty")
}

func NewWishTooShortError(length, min int) *AppError {
	return New(ErrCodeWishTooShort, fmt.Sprintf("Wish text too short: %d characters, minimum is %d", length, min)).
		WithDetail("length", length).
		WithDetail("min", min)
}

func NewWishTooLongError(length, max int) *AppError {
	return New(ErrCodeWishTooLong, fmt.Sprintf("Wish text too long: %d characters, maximum is %d", length, max)).
		WithDetail("length", length).
		WithDetail("max", max)
}

func NewInsufficientWishesError(count, required int) *AppError {
	return New(ErrCodeInsufficientWishes, fmt.Sprintf("Not enough wishes to draw: have %d, need %d", count, required)).
		WithDetail("count", count).
		WithDetail("required", required)
}

func NewMalformedBackupError(reason string) *AppError {
	return New(ErrCodeMalformedBackup, fmt.Sprintf("Malformed backup document: %s", reason)).
		WithDetail("reason", reason)
}

// NewConfirmationRequiredError signals that a destructive operation was not
// committed because the caller has not confirmed it yet.
func NewConfirmationRequiredError(operation string, dependentWishes int) *AppError {
	return New(ErrCodeConfirmationRequired, fmt.Sprintf("Operation %q is destructive and requires confirmation", operation)).
		WithDetail("operation", operation).
		WithDetail("dependent_wishes", dependentWishes)
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorage, fmt.Sprintf("Storage operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError casts an error to AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
