package errors

import (
	"strings"
)

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	if fe.Field == "" {
		return fe.Message
	}
	return fe.Field + ": " + fe.Message
}

// FieldErrors collects field-level validation failures in the order they
// were found.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error.
func (fe *FieldErrors) Add(field, code, message string) {
	*fe = append(*fe, FieldError{Field: field, Code: code, Message: message})
}

// HasErrors returns true if there are any errors.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// ForField returns the errors recorded for a specific field.
func (fe FieldErrors) ForField(field string) []FieldError {
	var out []FieldError
	for _, e := range fe {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// ErrOrNil returns nil for an empty collection so callers can return it
// directly as an error.
func (fe FieldErrors) ErrOrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
