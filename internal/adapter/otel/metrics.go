package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "verifygate"

// Outcome labels for queue invocations.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all VerifyGate metric instruments.
type Metrics struct {
	Invocations metric.Int64Counter
	Duration    metric.Float64Histogram
	Enqueued    metric.Int64Counter
}

// NewMetrics creates all metric instruments from the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Invocations, err = meter.Int64Counter("verifygate.queue.invocations",
		metric.WithDescription("Number of queue CLI invocations"))
	if err != nil {
		return nil, err
	}

	m.Duration, err = meter.Float64Histogram("verifygate.queue.duration_seconds",
		metric.WithDescription("Queue CLI invocation duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	m.Enqueued, err = meter.Int64Counter("verifygate.verifications.enqueued",
		metric.WithDescription("Number of verification jobs accepted by the queue"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordInvocation counts one queue invocation and its duration.
// Safe to call on a nil *Metrics.
func (m *Metrics) RecordInvocation(ctx context.Context, op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	m.Invocations.Add(ctx, 1, attrs)
	m.Duration.Record(ctx, d.Seconds(), attrs)
}

// RecordEnqueued counts one accepted verification job.
func (m *Metrics) RecordEnqueued(ctx context.Context) {
	if m == nil {
		return
	}
	m.Enqueued.Add(ctx, 1)
}
