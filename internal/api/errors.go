package api

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/planboard/internal/errors"
)

// APIError is a non-success response from the scheduler service
type APIError struct {
	StatusCode int
	// Message is the body's "error" field, or "HTTP error! status: N"
	Message   string
	RequestID string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorCode implements errors.Coded
func (e *APIError) ErrorCode() errors.ErrorCode {
	return errors.ErrCodeHTTPStatus
}

// Temporary reports whether the failure is on the server side
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}

type errorBody struct {
	Error string `json:"error"`
}

func newAPIError(resp *response) *APIError {
	msg := fmt.Sprintf("HTTP error! status: %d", resp.status)
	var body errorBody
	if err := json.Unmarshal(resp.body, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{
		StatusCode: resp.status,
		Message:    msg,
		RequestID:  resp.requestID,
	}
}
