package health

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/errors"
)

// Pinger is implemented by api.Client
type Pinger interface {
	Health(ctx context.Context) error
}

// APIChecker checks that the scheduler service answers.
type APIChecker struct {
	client  Pinger
	baseURL string
	slow    time.Duration
}

// NewAPIChecker creates a checker for the service at baseURL. Responses
// slower than 2 seconds are reported as degraded.
func NewAPIChecker(client Pinger, baseURL string) *APIChecker {
	return &APIChecker{client: client, baseURL: baseURL, slow: 2 * time.Second}
}

// Name returns the name of this health check.
func (c *APIChecker) Name() string {
	return "scheduler-api"
}

// Check reads the project endpoint once.
//
// A 4xx answer means the service is up but misbehaving and is reported as
// degraded. Transport failures and 5xx answers are unhealthy.
func (c *APIChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	err := c.client.Health(ctx)
	latency := time.Since(start)

	if err != nil {
		var apiErr *api.APIError
		if stderrors.As(err, &apiErr) && !apiErr.Temporary() {
			return Degraded("scheduler service answered with an error").
				WithDetail("base_url", c.baseURL).
				WithDetail("status_code", apiErr.StatusCode).
				WithDetail("error", apiErr.Message).
				WithLatency(latency)
		}
		r := Unhealthy("scheduler service unreachable").
			WithDetail("base_url", c.baseURL).
			WithDetail("error", err.Error()).
			WithLatency(latency)
		if code := errors.CodeOf(err); code != "" {
			r.WithDetail("error_code", string(code))
		}
		return r
	}

	if latency > c.slow {
		return Degraded("scheduler service is slow").
			WithDetail("base_url", c.baseURL).
			WithLatency(latency)
	}
	return Healthy("scheduler service reachable").
		WithDetail("base_url", c.baseURL).
		WithLatency(latency)
}
