// Package api is the client of the external scheduler service: project
// persistence, schedule computation and the dependency-graph and
// gantt-chart artifacts.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/telemetry"
)

// DefaultBaseURL is where the scheduler service listens by default
const DefaultBaseURL = "http://localhost:8080/api/v1"

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Endpoints of the scheduler service, relative to the base URL
const (
	EndpointProjects        = "/projects"
	EndpointSchedule        = "/schedule"
	EndpointDependencyGraph = "/dependency-graph"
	EndpointGanttChart      = "/gantt-chart"
)

// Client is the scheduler service API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MaxRetries is the number of extra attempts for GET requests that fail
	// at the transport level or with a 5xx status. POSTs are never retried.
	MaxRetries int
	// RetryDelay is the pause before the first retry; later retries wait
	// proportionally longer.
	RetryDelay time.Duration

	UserAgent string
	Metrics   *metrics.Metrics
	Logger    *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithRetries sets the retry policy for reads
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.MaxRetries = n
		c.RetryDelay = delay
	}
}

// WithMetrics records call counts and latency
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.Metrics = m }
}

// WithLogger sets the logger for request tracing
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		Logger:     log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is a fully read response body
type response struct {
	status      int
	contentType string
	body        []byte
	requestID   string
}

// doRequest performs a request, retrying reads. body is JSON-encoded when
// non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, "failed to marshal request body", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.Metrics.ObserveRetry(endpoint)
			c.Logger.DebugContext(ctx, "retrying request", "endpoint", endpoint, "attempt", attempt+1, "error", lastErr)
			select {
			case <-time.After(c.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return nil, errors.Wrap(errors.ErrCodeTransport, fmt.Sprintf("request to %s cancelled", endpoint), ctx.Err())
			}
		}

		resp, err := c.once(ctx, method, endpoint, payload)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if resp.status >= 500 && attempt < attempts-1 {
			lastErr = newAPIError(resp)
			continue
		}
		if resp.status < 200 || resp.status >= 300 {
			return nil, newAPIError(resp)
		}
		return resp, nil
	}
	return nil, lastErr
}

// once performs a single attempt. Transport failures come back as
// TRANSPORT-001 errors; any HTTP status is returned as a response.
func (c *Client) once(ctx context.Context, method, endpoint string, payload []byte) (*response, error) {
	ctx, span := telemetry.StartRemoteSpan(ctx, method, endpoint)
	defer span.End()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, "failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.ObserveRemoteCall(endpoint, method, 0, time.Since(start))
		telemetry.RecordError(span, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, fmt.Sprintf("request to %s failed", endpoint), err).
			WithSuggestion("Check that the scheduler service is running: planboard doctor")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.Metrics.ObserveRemoteCall(endpoint, method, resp.StatusCode, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, errors.Wrap(errors.ErrCodeTransport, fmt.Sprintf("failed to read response from %s", endpoint), err)
	}

	c.Logger.DebugContext(ctx, "scheduler call",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out := &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
		requestID:   requestID,
	}
	if out.status < 200 || out.status >= 300 {
		telemetry.RecordError(span, newAPIError(out))
	} else {
		telemetry.RecordSuccess(span)
	}
	return out, nil
}

// decode unmarshals a JSON response body into target
func decode(resp *response, endpoint string, target interface{}) error {
	if err := json.Unmarshal(resp.body, target); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, fmt.Sprintf("failed to decode response from %s", endpoint), err)
	}
	return nil
}
