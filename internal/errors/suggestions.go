package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// UnknownThemeError generates suggestions for an unrecognised theme id.
func UnknownThemeError(id string, known []string) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{
		{
			Title:       "List the available themes",
			Description: "See every theme id folio ships with",
			Command:     "folio themes",
		},
	}

	if best, ok := closest(id, known); ok {
		suggestions = append([]ErrorSuggestion{{
			Title:       "Did you mean '" + best + "'?",
			Description: "Similar theme id found",
			Example:     "theme: " + best,
		}}, suggestions...)
	}

	if len(known) > 0 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Available themes",
			Description: strings.Join(known, ", "),
		})
	}

	return suggestions
}

// DataFileError generates suggestions for a portfolio data file that could
// not be read or decoded.
func DataFileError(path string) []ErrorSuggestion {
	return []ErrorSuggestion{
		{
			Title:       "Check the data file exists",
			Description: "The portfolio data file is the command argument or portfolio.data_file",
			Command:     "ls -la " + path,
		},
		{
			Title:       "Create a starter data file",
			Description: "Write an example portfolio.yaml to edit",
			Command:     "folio init",
		},
		{
			Title:       "Validate the file",
			Description: "Report every schema and field problem at once",
			Command:     "folio validate " + path,
		},
	}
}

// ServerStartError generates suggestions for a preview server that failed to
// bind.
func ServerStartError(err error, port int) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	if err != nil && strings.Contains(err.Error(), "address already in use") {
		suggestions = append(suggestions,
			ErrorSuggestion{
				Title:       "Port already in use",
				Description: fmt.Sprintf("Port %d is occupied by another process", port),
				Command:     fmt.Sprintf("lsof -i :%d", port),
			},
			ErrorSuggestion{
				Title:   "Use a different port",
				Command: fmt.Sprintf("folio preview --port %d", port+1),
			},
		)
	}

	suggestions = append(suggestions, ErrorSuggestion{
		Title:       "Check the server configuration",
		Description: "Inspect the effective host and port",
		Command:     "folio config show",
	})

	return suggestions
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	return FormatSuggestions(e.Title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}

// closest returns the known id with the smallest edit distance to id, when
// that distance is at most a third of the id's length (minimum 2).
func closest(id string, known []string) (string, bool) {
	if id == "" || len(known) == 0 {
		return "", false
	}

	candidates := append([]string(nil), known...)
	sort.Strings(candidates)

	limit := len(id) / 3
	if limit < 2 {
		limit = 2
	}

	best, bestDist := "", limit+1
	lower := strings.ToLower(id)
	for _, k := range candidates {
		kl := strings.ToLower(k)
		d := levenshtein(lower, kl)
		if strings.Contains(kl, lower) {
			d = min(d, 1)
		}
		if d < bestDist {
			best, bestDist = k, d
		}
	}

	return best, best != ""
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
