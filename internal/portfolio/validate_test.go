package portfolio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/conneroisu/folio/internal/errors"
)

func validData() Data {
	return Data{
		FullName: "Ada Lovelace",
		Role:     "Engineer",
		Intro:    "Hello",
		Email:    "ada@example.com",
		Experiences: []Experience{
			{Title: "Engineer", Company: "Acme", Dates: "2020", Bullets: Lines{"Built things"}},
		},
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Data)
		want   map[string]string
	}{
		{
			name:   "valid",
			mutate: func(*Data) {},
		},
		{
			name:   "location is optional",
			mutate: func(d *Data) { d.Location = "" },
		},
		{
			name: "missing required fields",
			mutate: func(d *Data) {
				d.FullName = "  "
				d.Role = ""
				d.Intro = ""
				d.Email = ""
			},
			want: map[string]string{
				"fullName": "Full name is required",
				"role":     "Role/title is required",
				"intro":    "Short intro is required",
				"email":    "Email is required",
			},
		},
		{
			name:   "malformed email",
			mutate: func(d *Data) { d.Email = "ada@example" },
			want:   map[string]string{"email": "Please enter a valid email"},
		},
		{
			name:   "no experiences",
			mutate: func(d *Data) { d.Experiences = nil },
			want:   map[string]string{"experiences": "Please add at least one complete experience entry"},
		},
		{
			name: "incomplete experience",
			mutate: func(d *Data) {
				d.Experiences = append(d.Experiences, Experience{Bullets: Lines{"", "  "}})
			},
			want: map[string]string{
				"experiences[1].title":   "Job title is required",
				"experiences[1].company": "Company is required",
				"experiences[1].dates":   "Dates are required",
				"experiences[1].bullets": "At least one responsibility is required",
			},
		},
		{
			name:   "unknown theme",
			mutate: func(d *Data) { d.Theme = "neon" },
			want:   map[string]string{"theme": "Unknown theme \"neon\""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := validData()
			tc.mutate(&d)

			err := Validate(d)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}

			var fields ferrors.FieldErrors
			require.True(t, errors.As(err, &fields), "expected FieldErrors, got %v", err)
			got := make(map[string]string, len(fields))
			for _, f := range fields {
				got[f.Field] = f.Message
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateThemeCode(t *testing.T) {
	d := validData()
	d.Theme = "neon"

	var fields ferrors.FieldErrors
	require.True(t, errors.As(Validate(d), &fields))
	require.Len(t, fields, 1)
	assert.Equal(t, ferrors.ErrCodeUnknownTheme, fields[0].Code)
}

func TestValidateForPreview(t *testing.T) {
	assert.NoError(t, ValidateForPreview(Data{FullName: "Ada"}))

	err := ValidateForPreview(Data{Role: "Engineer"})
	var fields ferrors.FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "fullName", fields[0].Field)
}

func TestIsValidEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{"ada@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"ada@example", false},
		{"ada example@x.com", false},
		{"@example.com", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidEmail(tc.email))
		})
	}
}
