package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("evgen")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("evgen")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestSpanManager_EventAndStage(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, eventSpan := sm.StartEventSpan(context.Background(), "run-1", 7)
	stageCtx, stageSpan := sm.StartStageSpan(ctx, "parton", 2)
	sm.AddSpanEvent(stageCtx, "retry", attribute.Int("attempt", 2))
	sm.EndSpanWithError(stageSpan, errors.New("no emission"))
	sm.EndSpanWithError(eventSpan, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	stage, event := spans[0], spans[1]
	assert.Equal(t, "evgen.stage.parton", stage.Name)
	assert.Equal(t, codes.Error, stage.Status.Code)
	assert.Equal(t, event.SpanContext.SpanID(), stage.Parent.SpanID())
	require.Len(t, stage.Events, 2, "retry event plus recorded error")
	assert.Equal(t, "retry", stage.Events[0].Name)

	assert.Equal(t, "evgen.event", event.Name)
	assert.Equal(t, codes.Ok, event.Status.Code)
	assert.Contains(t, event.Attributes, attribute.Int64("event.number", 7))
	assert.Contains(t, event.Attributes, attribute.String("run.id", "run-1"))
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "nothing")
		EndSpanWithError(nil, errors.New("x"))
	})
}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}
	ctx := context.Background()

	got, span := sm.StartEventSpan(ctx, "run", 1)
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())

	got, span = sm.StartStageSpan(ctx, "hadron", 1)
	assert.Equal(t, ctx, got)
	sm.AddSpanEvent(got, "x")
	sm.EndSpanWithError(span, nil)
}
