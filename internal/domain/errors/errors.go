package errors

import (
	"net/http"

	"github.com/Chaitraputtabudhi/prox-deals-automation/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// Wrap attaches an underlying cause while keeping this error matchable
// with errors.Is.
func (e *BaseError) Wrap(err error) error {
	return errors.Join(e, err)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Ingestion-related errors
	ErrDealValidation = NewBaseError(
		http.StatusBadRequest,
		"DEAL_VALIDATION_FAILED",
		"deal record failed validation",
		"",
	)

	ErrFeedUnavailable = NewBaseError(
		http.StatusBadGateway,
		"FEED_UNAVAILABLE",
		"deal feed could not be read",
		"",
	)

	// Catalog-related errors
	ErrRetailerResolution = NewBaseError(
		http.StatusInternalServerError,
		"RETAILER_RESOLUTION_FAILED",
		"failed to resolve retailer",
		"",
	)

	ErrProductResolution = NewBaseError(
		http.StatusInternalServerError,
		"PRODUCT_RESOLUTION_FAILED",
		"failed to resolve product",
		"",
	)

	// Recipient-related errors
	ErrRecipientUpsertFailed = NewBaseError(
		http.StatusInternalServerError,
		"RECIPIENT_UPSERT_FAILED",
		"failed to upsert recipient",
		"",
	)

	// Delivery-related errors
	ErrDeliveryFailed = NewBaseError(
		http.StatusBadGateway,
		"DELIVERY_FAILED",
		"failed to deliver digest",
		"",
	)

	ErrRenderFailed = NewBaseError(
		http.StatusInternalServerError,
		"RENDER_FAILED",
		"failed to render digest",
		"",
	)

	// Pass-related errors
	ErrPassAlreadyRunning = NewBaseError(
		http.StatusConflict,
		"PASS_ALREADY_RUNNING",
		"a batch pass is already running",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// Unwrap exposes the underlying database error for errors.Is checks.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}
