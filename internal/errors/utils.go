package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context, creating a FolioError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *FolioError {
	if err == nil {
		return nil
	}

	// If it's already a FolioError, preserve its properties but update the message
	var fe *FolioError
	if errors.As(err, &fe) {
		return &FolioError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       fe,
			Context:     fe.Context,
			Field:       fe.Field,
			FilePath:    fe.FilePath,
			Recoverable: fe.Recoverable,
		}
	}

	return &FolioError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeStorage,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeIO, code, message)
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeConfig, code, message)
}

// WrapStorage wraps an error as a draft storage error
func WrapStorage(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeStorage, code, message)
}

// WrapInternal wraps an error as an internal error
func WrapInternal(err error, code, message string) *FolioError {
	return Wrap(err, ErrorTypeInternal, code, message)
}

// FormatError formats an error for user display. Field error collections
// are rendered one per line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var fields FieldErrors
	if errors.As(err, &fields) {
		out := fmt.Sprintf("%d problem(s) found:", len(fields))
		for _, f := range fields {
			out += "\n  - " + f.Error()
		}
		return out
	}

	return err.Error()
}
