package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartCommandSpan creates a span for a CLI command execution.
//
//	ctx, span := telemetry.StartCommandSpan(ctx, "save")
//	defer span.End()
func StartCommandSpan(ctx context.Context, cmdName string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("commands")
	ctx, span := tracer.Start(ctx, "command."+cmdName)

	span.SetAttributes(
		attribute.String("command", cmdName),
		attribute.String("component", "cli"),
	)

	return ctx, span
}

// StartSequenceSpan creates a span around a multi-call sequence such as
// the save or schedule flow.
func StartSequenceSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("sequences")
	ctx, span := tracer.Start(ctx, "sequence."+name)
	span.SetAttributes(attribute.String("component", name))
	return ctx, span
}

// StartRemoteSpan creates a client span for one scheduler service call.
func StartRemoteSpan(ctx context.Context, method, endpoint string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("scheduler-client")
	ctx, span := tracer.Start(ctx, method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))

	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("scheduler.endpoint", endpoint),
	)

	return ctx, span
}

// RecordSuccess marks a span as successful with optional result attributes.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records an error in a span and sets error status.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		attribute.Bool("error", true),
	)
}
