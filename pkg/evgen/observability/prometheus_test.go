package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	ctx := context.Background()
	rec.RecordStage(ctx, "hadron", time.Millisecond, nil)
	rec.RecordStage(ctx, "hadron", time.Millisecond, errors.New("below threshold"))
	rec.RecordEvent(ctx, true, 2, time.Millisecond)
	rec.RecordEvent(ctx, false, 10, time.Millisecond)
	rec.RecordCheckFailure(ctx)
	rec.RecordStored(ctx, 512)

	assert.Equal(t, 2., testutil.ToFloat64(rec.stageCalls.WithLabelValues("hadron")))
	assert.Equal(t, 1., testutil.ToFloat64(rec.stageErrors.WithLabelValues("hadron")))
	assert.Equal(t, 1., testutil.ToFloat64(rec.eventsOK))
	assert.Equal(t, 1., testutil.ToFloat64(rec.eventsFailed))
	assert.Equal(t, 1., testutil.ToFloat64(rec.checkFailures))
	assert.Equal(t, 512., testutil.ToFloat64(rec.storedBytes))

	n, err := testutil.GatherAndCount(reg, "evgen_event_attempts")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPrometheusRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	_, err = NewPrometheusRecorder(reg)
	assert.Error(t, err)
}
