package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Configuration errors: the college/exam combination has no filter definition
	ErrNotConfigured = errors.New("filters not configured")

	// Backing store errors
	ErrServiceUnavailable = errors.New("service unavailable")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// ValidationError names the request field that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Validationf creates a ValidationError with a formatted reason.
func Validationf(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Error implements error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidationFailed) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NotConfiguredError carries the scope that failed to resolve.
type NotConfiguredError struct {
	CollegeSlug string
	ExamType    string
}

// Error implements error interface
func (e *NotConfiguredError) Error() string {
	if e.CollegeSlug == "" {
		return fmt.Sprintf("exam %s: %s", e.ExamType, ErrNotConfigured)
	}
	return fmt.Sprintf("college %s, exam %s: %s", e.CollegeSlug, e.ExamType, ErrNotConfigured)
}

// Unwrap implements errors.Unwrap interface
func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// NewNotConfiguredError creates a NotConfiguredError.
func NewNotConfiguredError(collegeSlug, examType string) error {
	return &NotConfiguredError{CollegeSlug: collegeSlug, ExamType: examType}
}

// NewServiceUnavailableError wraps a store failure so that both the cause and
// ErrServiceUnavailable match with errors.Is.
func NewServiceUnavailableError(cause error) error {
	return &CustomError{
		Err:     errors.Join(ErrServiceUnavailable, cause),
		Message: fmt.Sprintf("cutoff store unavailable: %v", cause),
		Code:    "STORE_UNAVAILABLE",
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// DataQualityWarning reports historical rows that were skipped while
// scoring. It never fails a request; it travels on the result page.
type DataQualityWarning struct {
	SkippedRecords int      `json:"skippedRecords"`
	Samples        []string `json:"samples,omitempty"`
}

// maxWarningSamples bounds the number of example rows kept on a warning.
const maxWarningSamples = 5

// Add records one skipped row.
func (w *DataQualityWarning) Add(sample string) {
	w.SkippedRecords++
	if len(w.Samples) < maxWarningSamples {
		w.Samples = append(w.Samples, sample)
	}
}

// Empty reports whether nothing was skipped.
func (w *DataQualityWarning) Empty() bool {
	return w == nil || w.SkippedRecords == 0
}
