package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/conneroisu/folio/internal/theme"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    - %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    - %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

// ValidateConfigWithDetails reports problems Load would reject as errors
// and questionable but usable settings as warnings.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validatePortfolioConfigDetails(&config.Portfolio, result)
	validatePreviewConfigDetails(&config.Preview, result)
	validateDraftConfigDetails(&config.Draft, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	if config.Port < 0 || config.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			Suggestions: []string{
				"Use a port between 1024-65535 for non-privileged access",
				"Port 0 allows system to assign an available port",
			},
		})
	} else if config.Port > 0 && config.Port < 1024 {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "server.port",
			Value:   config.Port,
			Message: "port below 1024 requires elevated privileges",
			Suggestions: []string{
				"Consider using a port above 1024 for the preview server",
			},
		})
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "server.host",
				Value:   config.Host,
				Message: err.Error(),
				Suggestions: []string{
					"Use 'localhost' for local previews",
					"Use a valid IP address or hostname",
				},
			})
		} else if config.Host == "0.0.0.0" || config.Host == "::" {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "server.host",
				Value:   config.Host,
				Message: "the preview server will be reachable from other machines",
				Suggestions: []string{
					"Use 'localhost' unless you need to preview from another device",
				},
			})
		}
	}
}

func validatePortfolioConfigDetails(config *PortfolioConfig, result *ValidationResult) {
	if err := validatePath(config.DataFile); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "portfolio.data_file",
			Value:   config.DataFile,
			Message: err.Error(),
		})
	} else if !pathExists(config.DataFile) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "portfolio.data_file",
			Value:   config.DataFile,
			Message: "data file does not exist",
			Suggestions: []string{
				"Run 'folio init' to create a starter portfolio.yaml",
			},
		})
	}

	if config.Theme != "" && !theme.Exists(config.Theme) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "portfolio.theme",
			Value:   config.Theme,
			Message: fmt.Sprintf("unknown theme %q", config.Theme),
			Suggestions: []string{
				"Available themes: " + strings.Join(theme.IDs(), ", "),
			},
		})
	}
}

func validatePreviewConfigDetails(config *PreviewConfig, result *ValidationResult) {
	switch {
	case config.Debounce < 0:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "preview.debounce",
			Value:   config.Debounce,
			Message: "debounce must not be negative",
		})
	case config.Debounce > 0 && config.Debounce < 50*time.Millisecond:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "preview.debounce",
			Value:   config.Debounce,
			Message: "very short debounce may re-render several times per save",
			Suggestions: []string{
				"Values between 200ms and 1s work well with most editors",
			},
		})
	}

	if strings.TrimSpace(config.StorageKey) == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "preview.storage_key",
			Value:   config.StorageKey,
			Message: "empty storage key; the default will be used",
		})
	}
}

func validateDraftConfigDetails(config *DraftConfig, result *ValidationResult) {
	if err := validateDraftConfig(config); err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "draft",
			Value:   *config,
			Message: err.Error(),
			Suggestions: []string{
				"Supported backends: file, sqlite",
			},
		})
	}
}

func validateHostname(host string) error {
	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	if host == "localhost" {
		return nil
	}

	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}

	return nil
}

var hostnameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
