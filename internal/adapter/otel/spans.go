package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "verifygate"

// StartInvocationSpan starts a span for one queue CLI invocation.
func StartInvocationSpan(ctx context.Context, op string, args []string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "queue."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("queue.op", op),
			attribute.StringSlice("queue.args", args),
		),
	)
}

// StartEnqueueSpan starts a span for the enqueue use case.
func StartEnqueueSpan(ctx context.Context, repo, commit string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "verification.enqueue",
		trace.WithAttributes(
			attribute.String("verification.repo", repo),
			attribute.String("verification.commit", commit),
		),
	)
}
