package cmd

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/ux"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// ServiceError explains a failed call to the scheduler service. Board errors
// keep their code and only gain a hint for well-known transport failures.
func ServiceError(action string, err error) error {
	hint := ux.Hint(err)
	if be, ok := err.(*errors.BoardError); ok {
		if hint != "" {
			be.WithSuggestion(hint)
		}
		return be
	}

	suggestions := []string{
		"Check that the scheduler service is running: planboard doctor",
		"Point api.base_url (or PLANBOARD_API_URL) at the service",
	}
	if hint != "" {
		suggestions = append([]string{hint}, suggestions...)
	}
	return NewErrorWithSuggestions(fmt.Sprintf("Failed to %s", action), err, suggestions...)
}

// PayloadFileError creates a helpful error for unreadable project files
func PayloadFileError(path string, err error) error {
	suggestions := []string{
		"The file must be JSON or YAML with top-level 'tasks' and 'resources' arrays",
		"Export the current project as a starting point: planboard tasks --format yaml > project.yaml",
	}
	if hint := ux.Hint(err); hint != "" {
		suggestions = append([]string{hint}, suggestions...)
	}
	return NewErrorWithSuggestions(fmt.Sprintf("Failed to read project data from %q", path), err, suggestions...)
}
