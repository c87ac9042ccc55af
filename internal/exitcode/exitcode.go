package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates a missing or invalid configuration file
	ConfigError = 3

	// ContractError indicates the scheduler service contract is not satisfied
	ContractError = 4

	// NetworkError indicates the scheduler service could not be reached or
	// answered with a non-success status
	NetworkError = 6

	// PartialFailure indicates the project was saved but the dependency
	// graph could not be regenerated
	PartialFailure = 7

	// ValidationError indicates a payload was rejected before any network call
	ValidationError = 8

	// Interrupted indicates the command was cancelled with Ctrl+C
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded board errors are
// classified by code; other errors fall back to message inspection.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.IsPartial(err) {
		return PartialFailure
	}

	switch code := string(errors.CodeOf(err)); {
	case strings.HasPrefix(code, "VALIDATION-"):
		return ValidationError
	case strings.HasPrefix(code, "TRANSPORT-"),
		strings.HasPrefix(code, "SYNC-"),
		strings.HasPrefix(code, "SCHEDULE-"):
		return NetworkError
	case strings.HasPrefix(code, "CONFIG-"):
		return ConfigError
	case strings.HasPrefix(code, "CONTRACT-"):
		return ContractError
	case code != "":
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "required flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg(s)") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case ContractError:
		return "Scheduler service contract not satisfied"
	case NetworkError:
		return "Scheduler service unreachable or returned an error"
	case PartialFailure:
		return "Project saved, dependency graph not regenerated"
	case ValidationError:
		return "Invalid project data"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
