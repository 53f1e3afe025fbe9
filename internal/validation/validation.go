// Package validation checks values that reach the operating system: URLs
// handed to the browser opener and paths given on the command line.
package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DataFileExtensions lists the extensions a portfolio record can be read from.
var DataFileExtensions = []string{".yaml", ".yml", ".json"}

var shellChars = []string{";", "&", "|", "`", "$", "(", ")", "<", ">", "\"", "'", "\\", "\n", "\r"}

// ValidateURL validates URLs for browser auto-open. Only http and https
// URLs with a host and without shell metacharacters or spaces pass.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}

	for _, char := range shellChars {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %q", char)
		}
	}

	if strings.ContainsAny(rawURL, " \t") {
		return fmt.Errorf("URL contains whitespace")
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}

	return nil
}

// ValidatePath rejects empty paths, null bytes, shell metacharacters and
// system directories. Relative paths may climb out of the working directory.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains a null byte")
	}

	for _, char := range []string{";", "&", "|", "$", "`", "<", ">"} {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	cleanPath := strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
	for _, restricted := range []string{"/etc/", "/proc/", "/sys/", "/dev/", "/boot/"} {
		if strings.HasPrefix(cleanPath+"/", restricted) {
			return fmt.Errorf("access to restricted path denied: %s", path)
		}
	}

	return nil
}

// ValidateDataFile validates a portfolio data file path and its extension.
func ValidateDataFile(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	return ValidateFileExtension(path, DataFileExtensions)
}

// ValidateFileExtension validates file extensions against an allowlist
func ValidateFileExtension(filename string, allowedExtensions []string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("file must have one of the extensions %s", strings.Join(allowedExtensions, ", "))
	}

	for _, allowed := range allowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file extension '%s' is not allowed (use %s)", ext, strings.Join(allowedExtensions, ", "))
}
