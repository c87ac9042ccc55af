package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors: rejected locally, no network call was made
	ErrCodeInvalidPayload ErrorCode = "VALIDATION-001"
	ErrCodeInvalidTask    ErrorCode = "VALIDATION-002"

	// Transport errors: network failure or non-2xx status
	ErrCodeTransport  ErrorCode = "TRANSPORT-001"
	ErrCodeHTTPStatus ErrorCode = "TRANSPORT-002"
	ErrCodeDecode     ErrorCode = "TRANSPORT-003"

	// Save sequence errors
	ErrCodePersistFailed ErrorCode = "SYNC-001"
	ErrCodeGraphFailed   ErrorCode = "SYNC-002"

	// Schedule sequence errors
	ErrCodeScheduleFailed ErrorCode = "SCHEDULE-001"
	ErrCodeArtifactFailed ErrorCode = "SCHEDULE-002"

	// Timeline errors
	ErrCodeTimelineEmpty  ErrorCode = "TIMELINE-001"
	ErrCodeTimelineRender ErrorCode = "TIMELINE-002"

	// Graph artifact errors
	ErrCodeGraphContentType ErrorCode = "GRAPH-001"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// Service contract errors
	ErrCodeContractInvalid ErrorCode = "CONTRACT-001"
)

// BoardError represents an enhanced error with a code and recovery suggestions
type BoardError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *BoardError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Summary returns the message and cause without suggestions, suitable for
// one-line notifications.
func (e *BoardError) Summary() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *BoardError) Unwrap() error {
	return e.Cause
}

// New creates a new BoardError
func New(code ErrorCode, message string) *BoardError {
	return &BoardError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new BoardError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *BoardError {
	return &BoardError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *BoardError) WithSuggestion(suggestion string) *BoardError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *BoardError) WithSuggestions(suggestions ...string) *BoardError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Coded is implemented by errors that carry an ErrorCode.
type Coded interface {
	ErrorCode() ErrorCode
}

// ErrorCode implements Coded
func (e *BoardError) ErrorCode() ErrorCode {
	return e.Code
}

// CodeOf returns the code of the outermost coded error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	for err != nil {
		if c, ok := err.(Coded); ok {
			return c.ErrorCode()
		}
		err = stderrors.Unwrap(err)
	}
	return ""
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if c, ok := err.(Coded); ok && c.ErrorCode() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsValidation reports whether err was rejected locally before any network call.
func IsValidation(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "VALIDATION-")
}

// IsPartial reports whether err is a partial failure: the project was
// persisted but a dependent artifact could not be regenerated.
func IsPartial(err error) bool {
	return HasCode(err, ErrCodeGraphFailed)
}

// Common error constructors for frequently used errors

// NewInvalidPayloadError creates a save payload validation error
func NewInvalidPayloadError(details string) *BoardError {
	return New(ErrCodeInvalidPayload, fmt.Sprintf("Invalid project data: %s", details)).
		WithSuggestion("Reload the board with 'planboard board' and retry the save")
}

// NewDuplicateTaskError creates the error for a payload whose active tasks
// share an id
func NewDuplicateTaskError(id string) *BoardError {
	return New(ErrCodeInvalidTask, fmt.Sprintf("Invalid project data: task id %q is used by more than one task", id)).
		WithSuggestions(
			"Give each task its own id; 'planboard tasks' lists the duplicates",
			"Delete the extra copy on the board and save again",
		)
}

// NewPersistError creates an error for a failed project save
func NewPersistError(cause error) *BoardError {
	return Wrap(ErrCodePersistFailed, "failed to save project", cause).
		WithSuggestions(
			"Check that the scheduler service is running: planboard doctor",
			"Your edits are still on the board; retry the save when the service is back",
		)
}

// NewGraphGenerationError creates the partial-failure error raised when the
// project was saved but the dependency graph could not be regenerated.
func NewGraphGenerationError(cause error) *BoardError {
	return Wrap(ErrCodeGraphFailed, "project saved, but graph generation failed", cause).
		WithSuggestion("Task data is already persisted; save again to retry graph generation")
}

// NewScheduleError creates an error for a failed schedule computation
func NewScheduleError(cause error) *BoardError {
	return Wrap(ErrCodeScheduleFailed, "Error fetching schedule data", cause).
		WithSuggestions(
			"Save the project first; the scheduler only sees persisted tasks",
			"Run 'planboard doctor' to verify the scheduler service",
		)
}

// NewArtifactStoreError creates an error for a failed timeline artifact upload
func NewArtifactStoreError(cause error) *BoardError {
	return Wrap(ErrCodeArtifactFailed, "failed to store timeline artifact", cause).
		WithSuggestion("Request the schedule again")
}

// NewConfigNotFoundError creates a config file not found error
func NewConfigNotFoundError(path string) *BoardError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("config file not found: %s", path)).
		WithSuggestions("Omit --config to use built-in defaults", "Check if the file path is correct")
}

// NewConfigInvalidError creates a config validation error
func NewConfigInvalidError(path string, cause error) *BoardError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration in %s", path), cause).
		WithSuggestion("Check the file syntax and the value ranges")
}
