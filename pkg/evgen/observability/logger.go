// Package observability provides logging, metrics and tracing for event
// generation.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry or Prometheus
//   - Tracing via OpenTelemetry
//   - Counting of repeated diagnostic messages
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds generation context to a logger.
// Returns a new logger with run_id, event and stage fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", 17, "parton")
//	enriched.Info("doing work") // includes run_id, event, stage
func EnrichLogger(logger *slog.Logger, runID string, event int64, stage string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.Int64("event", event),
		slog.String("stage", stage),
	)
}

// LogEventStart logs the start of an event.
func LogEventStart(logger *slog.Logger, runID string, event int64) {
	if logger == nil {
		return
	}
	logger.Debug("event starting",
		slog.String("run_id", runID),
		slog.Int64("event", event),
	)
}

// LogEventComplete logs a successfully generated event.
func LogEventComplete(logger *slog.Logger, runID string, event int64, attempts int, size int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event completed",
		slog.String("run_id", runID),
		slog.Int64("event", event),
		slog.Int("attempts", attempts),
		slog.Int("particles", size),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEventError logs a failed event.
func LogEventError(logger *slog.Logger, runID string, event int64, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("event failed",
		slog.String("run_id", runID),
		slog.Int64("event", event),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStageStart logs stage execution start.
func LogStageStart(logger *slog.Logger, stage string, attempt int) {
	if logger == nil {
		return
	}
	logger.Debug("stage starting",
		slog.String("stage", stage),
		slog.Int("attempt", attempt),
	)
}

// LogStageComplete logs successful stage completion.
func LogStageComplete(logger *slog.Logger, stage string, attempt int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("stage completed",
		slog.String("stage", stage),
		slog.Int("attempt", attempt),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStageError logs a stage failure.
func LogStageError(logger *slog.Logger, stage string, attempt int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("stage failed",
		slog.String("stage", stage),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

// LogRetry logs that a failed attempt will be drawn again.
func LogRetry(logger *slog.Logger, attempt, maxAttempts int, err error) {
	if logger == nil {
		return
	}
	logger.Debug("retrying event",
		slog.Int("attempt", attempt),
		slog.Int("max_attempts", maxAttempts),
		slog.String("error", err.Error()),
	)
}

// LogCheckFailure logs a generated event that failed the validity check.
func LogCheckFailure(logger *slog.Logger, event int64, epDev, chargeSum float64, unknown, nonFinite []int) {
	if logger == nil {
		return
	}
	logger.Error("unphysical event",
		slog.Int64("event", event),
		slog.Float64("ep_deviation", epDev),
		slog.Float64("charge_sum", chargeSum),
		slog.Any("unknown_id_lines", unknown),
		slog.Any("non_finite_lines", nonFinite),
	)
}

// LogStoreError logs an event persistence failure (non-fatal).
func LogStoreError(logger *slog.Logger, event int64, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("event store failed",
		slog.Int64("event", event),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
