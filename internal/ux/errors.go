package ux

import (
	"strings"
)

// Hint returns a recovery suggestion for well-known failure messages, or ""
// when err is nil or not recognised.
func Hint(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"),
		strings.Contains(errMsg, "no such host"),
		strings.Contains(errMsg, "no route to host"):
		return "Start the scheduler service or point api.base_url (or PLANBOARD_API_URL) at a running instance"

	case strings.Contains(errMsg, "deadline exceeded"), strings.Contains(errMsg, "Client.Timeout"):
		return "The scheduler service is slow to respond; raise api.timeout in the config file"

	case strings.Contains(errMsg, "permission denied"):
		return "Check file permissions for the project file and log.file"
	}

	return ""
}
