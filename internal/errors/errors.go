package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Validation codes
const (
	CodeNotAnImage      = "NOT_AN_IMAGE"
	CodeTooLarge        = "TOO_LARGE"
	CodeInvalidDocument = "INVALID_DOCUMENT"
	CodeInvalidField    = "INVALID_FIELD"
)

// Export codes
const (
	CodeSurfaceNotFound  = "SURFACE_NOT_FOUND"
	CodeRasterizeFailed  = "RASTERIZE_FAILED"
	CodeEncodeFailed     = "ENCODE_FAILED"
	CodeDeliveryFailed   = "DELIVERY_FAILED"
	CodeExportInProgress = "EXPORT_IN_PROGRESS"
	CodeExportPanicked   = "EXPORT_PANICKED"
)

// IO, config and internal codes
const (
	CodeReadFailed  = "READ_FAILED"
	CodeOpenFailed  = "OPEN_FAILED"
	CodeWriteFailed = "WRITE_FAILED"
	CodeBadConfig   = "BAD_CONFIG"

	CodeNotConfigured = "NOT_CONFIGURED"
)

// ExportFailedMessage is what users see when an export fails.
const ExportFailedMessage = "There was an error generating your PDF. Please try again."

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError with the same type and code, so sentinel
// values like ErrSurfaceNotFound work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewExportError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeExport, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotAnImage       = NewValidationError(CodeNotAnImage, "", nil)
	ErrTooLarge         = NewValidationError(CodeTooLarge, "", nil)
	ErrInvalidDocument  = NewValidationError(CodeInvalidDocument, "", nil)
	ErrSurfaceNotFound  = NewExportError(CodeSurfaceNotFound, "", nil)
	ErrExportInProgress = NewExportError(CodeExportInProgress, "", nil)
)

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an *AppError of the given type.
func IsType(err error, typ ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == typ
}
