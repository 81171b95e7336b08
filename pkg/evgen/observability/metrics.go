package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records generation metrics.
// Use NewMetricsRecorder() for OTel metrics, NewPrometheusRecorder for a
// Prometheus registry, or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordStage records one stage call with its duration and error status.
	RecordStage(ctx context.Context, stage string, duration time.Duration, err error)

	// RecordEvent records a finished event and the attempts it needed.
	RecordEvent(ctx context.Context, success bool, attempts int, duration time.Duration)

	// RecordCheckFailure records an event rejected by the validity check.
	RecordCheckFailure(ctx context.Context)

	// RecordStored records a persisted event snapshot.
	RecordStored(ctx context.Context, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	stageCalls    metric.Int64Counter
	stageLatency  metric.Float64Histogram
	stageErrors   metric.Int64Counter
	events        metric.Int64Counter
	eventLatency  metric.Float64Histogram
	eventAttempts metric.Int64Histogram
	checkFailures metric.Int64Counter
	storedSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("evgen")

	stageCalls, err := meter.Int64Counter("evgen.stage.calls",
		metric.WithDescription("Number of stage calls"),
	)
	if err != nil {
		return nil, err
	}

	stageLatency, err := meter.Float64Histogram("evgen.stage.latency_ms",
		metric.WithDescription("Stage latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter("evgen.stage.errors",
		metric.WithDescription("Number of failed stage calls"),
	)
	if err != nil {
		return nil, err
	}

	events, err := meter.Int64Counter("evgen.events",
		metric.WithDescription("Number of requested events"),
	)
	if err != nil {
		return nil, err
	}

	eventLatency, err := meter.Float64Histogram("evgen.event.latency_ms",
		metric.WithDescription("Event generation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	eventAttempts, err := meter.Int64Histogram("evgen.event.attempts",
		metric.WithDescription("Parton and hadron level attempts per event"),
	)
	if err != nil {
		return nil, err
	}

	checkFailures, err := meter.Int64Counter("evgen.check.failures",
		metric.WithDescription("Number of events failing the validity check"),
	)
	if err != nil {
		return nil, err
	}

	storedSize, err := meter.Int64Histogram("evgen.store.size_bytes",
		metric.WithDescription("Stored event snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		stageCalls:    stageCalls,
		stageLatency:  stageLatency,
		stageErrors:   stageErrors,
		events:        events,
		eventLatency:  eventLatency,
		eventAttempts: eventAttempts,
		checkFailures: checkFailures,
		storedSize:    storedSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordStage records a stage call.
func (m *otelMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("stage", stage))

	m.stageCalls.Add(ctx, 1, attrs)
	m.stageLatency.Record(ctx, durationMs(duration), attrs)
	if err != nil {
		m.stageErrors.Add(ctx, 1, attrs)
	}
}

// RecordEvent records a finished event.
func (m *otelMetrics) RecordEvent(ctx context.Context, success bool, attempts int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	m.events.Add(ctx, 1, attrs)
	m.eventLatency.Record(ctx, durationMs(duration), attrs)
	m.eventAttempts.Record(ctx, int64(attempts), attrs)
}

// RecordCheckFailure records a rejected event.
func (m *otelMetrics) RecordCheckFailure(ctx context.Context) {
	m.checkFailures.Add(ctx, 1)
}

// RecordStored records a stored snapshot.
func (m *otelMetrics) RecordStored(ctx context.Context, sizeBytes int64) {
	m.storedSize.Record(ctx, sizeBytes)
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.
}

// multiRecorder fans out to several recorders.
type multiRecorder []MetricsRecorder

// Multi returns a recorder that forwards every record to all of rs.
func Multi(rs ...MetricsRecorder) MetricsRecorder {
	return multiRecorder(rs)
}

func (m multiRecorder) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	for _, r := range m {
		r.RecordStage(ctx, stage, duration, err)
	}
}

func (m multiRecorder) RecordEvent(ctx context.Context, success bool, attempts int, duration time.Duration) {
	for _, r := range m {
		r.RecordEvent(ctx, success, attempts, duration)
	}
}

func (m multiRecorder) RecordCheckFailure(ctx context.Context) {
	for _, r := range m {
		r.RecordCheckFailure(ctx)
	}
}

func (m multiRecorder) RecordStored(ctx context.Context, sizeBytes int64) {
	for _, r := range m {
		r.RecordStored(ctx, sizeBytes)
	}
}
