// Package gateway runs the save sequence: persist the project, then
// regenerate the dependency graph from the same payload.
package gateway

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/planboard/internal/board"
	"github.com/felixgeelhaar/planboard/internal/domain"
	"github.com/felixgeelhaar/planboard/internal/errors"
	"github.com/felixgeelhaar/planboard/internal/log"
	"github.com/felixgeelhaar/planboard/internal/metrics"
	"github.com/felixgeelhaar/planboard/internal/refresh"
	"github.com/felixgeelhaar/planboard/internal/telemetry"
)

// Save outcomes as recorded in metrics
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomePartial = "partial"
)

// Remote is the part of the scheduler API the save sequence needs
type Remote interface {
	SaveProject(ctx context.Context, p board.Payload) error
	RegenerateGraph(ctx context.Context, p board.Payload) error
}

// Finalizer applies a persisted payload to local state
type Finalizer interface {
	Finalize(p board.Payload)
}

// SaveOutcome describes how far a save got
type SaveOutcome struct {
	// Persisted is true once the project write was acknowledged
	Persisted bool
	// GraphRegenerated is true when the dependency graph was rebuilt too
	GraphRegenerated bool
	Duration         time.Duration
}

// Sync is the save orchestrator. It does not guard against concurrent
// saves; callers serialize them.
type Sync struct {
	remote  Remote
	tokens  *refresh.Tokens
	metrics *metrics.Metrics
	logger  *log.Logger
}

// NewSync creates a save orchestrator. metrics and logger may be nil.
func NewSync(remote Remote, tokens *refresh.Tokens, m *metrics.Metrics, logger *log.Logger) *Sync {
	if logger == nil {
		logger = log.Discard()
	}
	return &Sync{remote: remote, tokens: tokens, metrics: m, logger: logger}
}

// Validate checks that both payload arrays are present and that no two
// tasks share an id.
func Validate(p board.Payload) error {
	if p.Tasks == nil || p.Resources == nil {
		return errors.NewInvalidPayloadError("tasks and resources arrays are required")
	}
	seen := make(map[domain.TaskID]struct{}, len(p.Tasks))
	for _, t := range p.Tasks {
		if _, dup := seen[t.ID]; dup {
			return errors.NewDuplicateTaskError(t.ID.String())
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Save persists payload and regenerates the dependency graph.
//
// A persistence failure stops the sequence. When the graph step fails after
// a successful write the error is a partial failure, the outcome reports
// Persisted, and no refresh is signalled. finalizer may be nil.
func (s *Sync) Save(ctx context.Context, payload board.Payload, finalizer Finalizer) (SaveOutcome, error) {
	ctx, span := telemetry.StartSequenceSpan(ctx, "save")
	defer span.End()
	span.SetAttributes(
		attribute.Int("tasks", len(payload.Tasks)),
		attribute.Int("resources", len(payload.Resources)),
	)

	start := time.Now()
	var outcome SaveOutcome

	if err := Validate(payload); err != nil {
		s.finish(ctx, OutcomeInvalid, err)
		telemetry.RecordError(span, err)
		return outcome, err
	}

	if err := s.remote.SaveProject(ctx, payload); err != nil {
		wrapped := errors.NewPersistError(err)
		s.finish(ctx, OutcomeFailed, wrapped)
		telemetry.RecordError(span, wrapped)
		return outcome, wrapped
	}
	outcome.Persisted = true

	if finalizer != nil {
		finalizer.Finalize(payload)
	}

	if err := s.remote.RegenerateGraph(ctx, payload); err != nil {
		wrapped := errors.NewGraphGenerationError(err)
		outcome.Duration = time.Since(start)
		s.finish(ctx, OutcomePartial, wrapped)
		telemetry.RecordError(span, wrapped)
		return outcome, wrapped
	}
	outcome.GraphRegenerated = true

	if s.tokens != nil {
		s.tokens.Graph.Bump()
		s.tokens.Timeline.Bump()
	}

	outcome.Duration = time.Since(start)
	s.finish(ctx, OutcomeOK, nil)
	telemetry.RecordSuccess(span, attribute.Int64("duration_ms", outcome.Duration.Milliseconds()))
	s.logger.InfoContext(ctx, "project saved",
		"tasks", len(payload.Tasks),
		"resources", len(payload.Resources),
		"duration_ms", outcome.Duration.Milliseconds(),
	)
	return outcome, nil
}

func (s *Sync) finish(ctx context.Context, outcome string, err error) {
	s.metrics.ObserveSave(outcome)
	if err != nil {
		s.metrics.ObserveError(string(errors.CodeOf(err)), "gateway")
		s.logger.LogError(ctx, "save failed", err)
	}
}
