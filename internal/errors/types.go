package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSchema     ErrorType = "schema"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// FolioError is a structured error type with context.
type FolioError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Field       string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *FolioError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field+":")
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *FolioError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison on type and code.
func (e *FolioError) Is(target error) bool {
	var t *FolioError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *FolioError) WithContext(key string, value interface{}) *FolioError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile adds the path of the file the error relates to.
func (e *FolioError) WithFile(filePath string) *FolioError {
	e.FilePath = filePath

	return e
}

// WithField names the data field the error relates to.
func (e *FolioError) WithField(field string) *FolioError {
	e.Field = field

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *FolioError {
	return &FolioError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSchemaError creates an error for a structurally invalid data document.
func NewSchemaError(code, message string, cause error) *FolioError {
	return &FolioError{
		Type:        ErrorTypeSchema,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *FolioError {
	return &FolioError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewStorageError creates a draft storage error.
func NewStorageError(code, message string, cause error) *FolioError {
	return &FolioError{
		Type:        ErrorTypeStorage,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *FolioError {
	return &FolioError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewRenderError creates a rendering error.
func NewRenderError(code, message string, cause error) *FolioError {
	return &FolioError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var fe *FolioError
	if errors.As(err, &fe) {
		return fe.Recoverable
	}

	return false
}

// IsType reports whether err carries a FolioError of the given type.
func IsType(err error, errType ErrorType) bool {
	var fe *FolioError
	if errors.As(err, &fe) {
		return fe.Type == errType
	}

	return false
}

// HasCode reports whether err carries a FolioError with the given code.
func HasCode(err error, code string) bool {
	var fe *FolioError
	if errors.As(err, &fe) {
		return fe.Code == code
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs storage failures and other recoverable errors as warnings
// and everything else as an error.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var fe *FolioError
	if !errors.As(err, &fe) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch {
	case IsType(err, ErrorTypeStorage):
		h.logger.Warn(ctx, err, "Storage unavailable, continuing without persistence",
			"code", fe.Code,
			"file", fe.FilePath)
	case IsRecoverable(err):
		h.logger.Warn(ctx, err, "Recoverable error occurred",
			"type", fe.Type,
			"code", fe.Code,
			"file", fe.FilePath)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", fe.Type,
			"code", fe.Code,
			"file", fe.FilePath)
	}
}

// Common error codes.
const (
	ErrCodeFieldRequired      = "ERR_FIELD_REQUIRED"
	ErrCodeFieldInvalid       = "ERR_FIELD_INVALID"
	ErrCodeSchemaInvalid      = "ERR_SCHEMA_INVALID"
	ErrCodeUnknownTheme       = "ERR_UNKNOWN_THEME"
	ErrCodeThemeCatalogue     = "ERR_THEME_CATALOGUE"
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound       = "ERR_FILE_NOT_FOUND"
	ErrCodeUnsupportedFormat  = "ERR_UNSUPPORTED_FORMAT"
	ErrCodeWriteFailed        = "ERR_WRITE_FAILED"
	ErrCodeStorageUnavailable = "ERR_STORAGE_UNAVAILABLE"
	ErrCodeDraftNotFound      = "ERR_DRAFT_NOT_FOUND"
	ErrCodeRenderFailed       = "ERR_RENDER_FAILED"
)
