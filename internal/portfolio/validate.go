package portfolio

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	ferrors "github.com/conneroisu/folio/internal/errors"
	"github.com/conneroisu/folio/internal/theme"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return theme.Exists(fl.Field().String())
	})

	return v
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateForPreview checks the minimum a record needs to be previewed.
func ValidateForPreview(d Data) error {
	if strings.TrimSpace(d.FullName) == "" {
		var fe ferrors.FieldErrors
		fe.Add("fullName", ferrors.ErrCodeFieldRequired, "Please enter your name to preview")
		return fe
	}
	return nil
}

// Validate checks a record against the submission rules and returns every
// problem found as FieldErrors. The record is normalized first.
func Validate(d Data) error {
	err := validate.Struct(Normalize(d))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ferrors.WrapInternal(err, ferrors.ErrCodeFieldInvalid, "validation could not run")
	}

	var out ferrors.FieldErrors
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		code := ferrors.ErrCodeFieldInvalid
		switch fe.Tag() {
		case "required", "min":
			code = ferrors.ErrCodeFieldRequired
		case "theme":
			code = ferrors.ErrCodeUnknownTheme
		}
		out.Add(field, code, message(fe))
	}
	return out
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "simple_email":
		return "Please enter a valid email"
	case "theme":
		return "Unknown theme \"" + fe.Value().(string) + "\""
	}

	switch fe.Field() {
	case "fullName":
		return "Full name is required"
	case "role":
		return "Role/title is required"
	case "intro":
		return "Short intro is required"
	case "email":
		return "Email is required"
	case "experiences":
		return "Please add at least one complete experience entry"
	case "title":
		return "Job title is required"
	case "company":
		return "Company is required"
	case "dates":
		return "Dates are required"
	case "bullets":
		return "At least one responsibility is required"
	}
	return fe.Field() + " failed " + fe.Tag()
}
