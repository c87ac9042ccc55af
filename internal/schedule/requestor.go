// Package schedule runs the schedule sequence: compute a schedule for the
// persisted project, then store the result as the timeline artifact.
package schedule

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/planboard/internal/api"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/refresh"
	"github.com/felixgeelhaar/planboard/internal/telemetry"
)

// Remote is the part of the scheduler API the schedule sequence needs
type Remote interface {
	ComputeSchedule(ctx context.Context) (*api.ScheduleResponse, error)
	StoreTimeline(ctx context.Context, result *api.ScheduleResult) error
}

// Requestor triggers schedule computation and forwards the result
type Requestor struct {
	remote  Remote
	tokens  *refresh.Tokens
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewRequestor creates a schedule requestor. metrics and logger may be nil.
func NewRequestor(remote Remote, tokens *refresh.Tokens, m *metrics.Metrics, logger *log.Logger) *Requestor {
	if logger == nil {
		logger = log.Discard()
	}
	return &Requestor{remote: remote, tokens: tokens, metrics: m, logger: logger}
}

// Request computes a schedule and stores its result as the gantt-chart
// artifact. The timeline token is bumped only when both calls succeed.
func (r *Requestor) Request(ctx context.Context) (*api.ScheduleResponse, error) {
	ctx, span := telemetry.StartSequenceSpan(ctx, "schedule")
	defer span.End()

	resp, err := r.remote.ComputeSchedule(ctx)
	if err != nil {
		return nil, r.fail(ctx, span, errors.NewScheduleError(err))
	}

	if resp.Result == nil {
		return resp, r.fail(ctx, span, errors.NewArtifactStoreError(
			fmt.Errorf("schedule response has no result to store")))
	}

	if err := r.remote.StoreTimeline(ctx, resp.Result); err != nil {
		return resp, r.fail(ctx, span, errors.NewArtifactStoreError(err))
	}

	if r.tokens != nil {
		r.tokens.Timeline.Bump()
	}

	r.metrics.ObserveSchedule("ok")
	telemetry.RecordSuccess(span,
		attribute.Int("scheduled_tasks", len(resp.Result.ScheduledTasks)),
		attribute.Float64("total_reward", resp.Result.TotalReward),
	)
	r.logger.InfoContext(ctx, "schedule computed",
		"scheduled_tasks", len(resp.Result.ScheduledTasks),
		"total_reward", resp.Result.TotalReward,
		"total_time", resp.Result.TotalTime,
	)
	return resp, nil
}

func (r *Requestor) fail(ctx context.Context, span trace.Span, err *errors.BoardError) error {
	r.metrics.ObserveSchedule("failed")
	r.metrics.ObserveError(string(err.Code), "schedule")
	telemetry.RecordError(span, err)
	r.logger.LogError(ctx, "schedule failed", err)
	return err
}
