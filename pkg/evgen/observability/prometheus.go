package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements MetricsRecorder with Prometheus collectors.
type PrometheusRecorder struct {
	stageCalls    *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	stageLatency  *prometheus.HistogramVec
	eventsOK      prometheus.Counter
	eventsFailed  prometheus.Counter
	eventAttempts prometheus.Histogram
	eventLatency  prometheus.Histogram
	checkFailures prometheus.Counter
	storedBytes   prometheus.Counter
}

// Compile-time interface check.
var _ MetricsRecorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &PrometheusRecorder{
		stageCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evgen_stage_calls_total",
			Help: "Total number of stage calls",
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evgen_stage_errors_total",
			Help: "Total number of failed stage calls",
		}, []string{"stage"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evgen_stage_latency_seconds",
			Help:    "Stage latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"stage"}),
		eventsOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evgen_events_generated_total",
			Help: "Total number of successfully generated events",
		}),
		eventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evgen_events_failed_total",
			Help: "Total number of events that could not be generated",
		}),
		eventAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evgen_event_attempts",
			Help:    "Parton and hadron level attempts per event",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}),
		eventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evgen_event_latency_seconds",
			Help:    "Event generation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		checkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evgen_check_failures_total",
			Help: "Total number of events failing the validity check",
		}),
		storedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evgen_store_bytes_total",
			Help: "Total bytes of stored event snapshots",
		}),
	}

	for _, c := range []prometheus.Collector{
		r.stageCalls, r.stageErrors, r.stageLatency,
		r.eventsOK, r.eventsFailed, r.eventAttempts, r.eventLatency,
		r.checkFailures, r.storedBytes,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordStage records a stage call.
func (r *PrometheusRecorder) RecordStage(_ context.Context, stage string, duration time.Duration, err error) {
	r.stageCalls.WithLabelValues(stage).Inc()
	r.stageLatency.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		r.stageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordEvent records a finished event.
func (r *PrometheusRecorder) RecordEvent(_ context.Context, success bool, attempts int, duration time.Duration) {
	if success {
		r.eventsOK.Inc()
	} else {
		r.eventsFailed.Inc()
	}
	r.eventAttempts.Observe(float64(attempts))
	r.eventLatency.Observe(duration.Seconds())
}

// RecordCheckFailure records a rejected event.
func (r *PrometheusRecorder) RecordCheckFailure(context.Context) {
	r.checkFailures.Inc()
}

// RecordStored records a stored snapshot.
func (r *PrometheusRecorder) RecordStored(_ context.Context, sizeBytes int64) {
	r.storedBytes.Add(float64(sizeBytes))
}
