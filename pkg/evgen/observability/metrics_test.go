package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest creates a test meter provider and returns a function to collect metrics.
func setupMetricsTest(t *testing.T) (*sdkmetric.ManualReader, func()) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	originalProvider := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	cleanup := func() {
		otel.SetMeterProvider(originalProvider)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}
	return reader, cleanup
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumInt64(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected Sum[int64], got %T", m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	_, cleanup := setupMetricsTest(t)
	defer cleanup()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordStage(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordStage(ctx, "parton", 2*time.Millisecond, nil)
	m.RecordStage(ctx, "parton", 3*time.Millisecond, errors.New("no emission"))
	m.RecordStage(ctx, "hadron", time.Millisecond, nil)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(3), sumInt64(t, findMetric(rm, "evgen.stage.calls")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "evgen.stage.errors")))

	latency := findMetric(rm, "evgen.stage.latency_ms")
	require.NotNil(t, latency)
	hist, ok := latency.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, hist.DataPoints, 2, "one data point per stage")
}

func TestRecordEvent(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordEvent(ctx, true, 1, time.Millisecond)
	m.RecordEvent(ctx, true, 3, time.Millisecond)
	m.RecordEvent(ctx, false, 10, time.Millisecond)
	m.RecordCheckFailure(ctx)
	m.RecordStored(ctx, 2048)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(3), sumInt64(t, findMetric(rm, "evgen.events")))
	assert.Equal(t, int64(1), sumInt64(t, findMetric(rm, "evgen.check.failures")))

	attempts := findMetric(rm, "evgen.event.attempts")
	require.NotNil(t, attempts)
	hist, ok := attempts.Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range hist.DataPoints {
		total += dp.Sum
	}
	assert.Equal(t, int64(14), total)

	assert.NotNil(t, findMetric(rm, "evgen.store.size_bytes"))
}

func TestMulti(t *testing.T) {
	reader, cleanup := setupMetricsTest(t)
	defer cleanup()

	m, err := newOtelMetrics()
	require.NoError(t, err)

	rec := Multi(m, NoopMetrics{}, m)
	rec.RecordStage(context.Background(), "process", time.Millisecond, nil)
	rec.RecordEvent(context.Background(), true, 1, time.Millisecond)
	rec.RecordCheckFailure(context.Background())
	rec.RecordStored(context.Background(), 1)

	rm := collectMetrics(t, reader)
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "evgen.stage.calls")))
	assert.Equal(t, int64(2), sumInt64(t, findMetric(rm, "evgen.check.failures")))
}

func TestNoopMetrics(t *testing.T) {
	var rec MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		rec.RecordStage(context.Background(), "x", 0, errors.New("x"))
		rec.RecordEvent(context.Background(), false, 0, 0)
		rec.RecordCheckFailure(context.Background())
		rec.RecordStored(context.Background(), 0)
	})
}
