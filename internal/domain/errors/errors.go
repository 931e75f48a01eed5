package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies errors raised by the quality engines
type ErrorType string

const (
	ErrorTypeConfiguration     ErrorType = "configuration"
	ErrorTypeInsufficientInput ErrorType = "insufficient_input"
	ErrorTypeDataSource        ErrorType = "data_source"
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeInternal          ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Error constructors

// NewConfigurationError reports malformed rule or engine configuration.
// Configuration problems are surfaced to the caller, unlike per-rule
// evaluation failures which degrade into failure records.
func NewConfigurationError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Code:    code,
		Message: message,
	}
}

// NewInsufficientInputError reports that neither a dataset nor a data
// source was supplied to the orchestration layer.
func NewInsufficientInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInsufficientInput,
		Code:    "INSUFFICIENT_INPUT",
		Message: message,
	}
}

// NewDataSourceError reports a failure in an external data source
// collaborator (file, table) while materializing a dataset.
func NewDataSourceError(source, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeDataSource,
		Code:    "DATA_SOURCE_ERROR",
		Message: fmt.Sprintf("%s: %s", source, message),
		Details: map[string]interface{}{"source": source},
	}
}

func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
}

// Predefined common errors
var (
	ErrInvalidInput    = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrNoDataProvided  = NewInsufficientInputError("either a dataset or a data source must be provided")
	ErrDatasetRequired = NewValidationError("DATASET_REQUIRED", "dataset cannot be nil")
)

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}
