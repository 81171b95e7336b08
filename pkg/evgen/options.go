package evgen

import (
	"io"
	"log/slog"
	"os"

	"github.com/randalmurphal/evgen/pkg/evgen/observability"
	"github.com/randalmurphal/evgen/pkg/evgen/store"
)

// genConfig holds the construction-time configuration of a Generator.
type genConfig struct {
	settings Settings
	runID    string
	hooks    Hooks

	logger         *slog.Logger
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	tracingEnabled bool
	diagnostics    io.Writer

	eventStore        store.Store
	storeFailureFatal bool
}

func defaultGenConfig() genConfig {
	return genConfig{
		settings: DefaultSettings(),
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},

		diagnostics: os.Stderr,
	}
}

// Option configures a Generator.
type Option func(*genConfig)

// WithSettings replaces the default settings.
//
// Example:
//
//	s := evgen.DefaultSettings()
//	s.HadronLevel = false
//	gen, err := evgen.New(tbl, proc, shower, nil, evgen.WithSettings(s))
func WithSettings(s Settings) Option {
	return func(c *genConfig) {
		c.settings = s
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *genConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables or disables the OpenTelemetry metrics recorder.
// Metrics are recorded against the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *genConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom recorder, e.g. a PrometheusRecorder or
// observability.Multi of several. A nil recorder is ignored.
func WithMetricsRecorder(r observability.MetricsRecorder) Option {
	return func(c *genConfig) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithTracing enables or disables OpenTelemetry spans: one evgen.event
// span per call to Next with evgen.stage.{name} children.
func WithTracing(enabled bool) Option {
	return func(c *genConfig) {
		c.tracingEnabled = enabled
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithRunID sets the run identifier used in logs, spans and the event
// store. A random UUID is used when unset.
func WithRunID(id string) Option {
	return func(c *genConfig) {
		c.runID = id
	}
}

// WithHooks installs user veto hooks.
func WithHooks(h Hooks) Option {
	return func(c *genConfig) {
		c.hooks = h
	}
}

// WithEventStore persists every accepted event under (run ID, event number).
func WithEventStore(s store.Store) Option {
	return func(c *genConfig) {
		c.eventStore = s
	}
}

// WithStoreFailureFatal makes a failed save fail the event with a
// StoreError. By default the failure is logged and generation continues.
func WithStoreFailureFatal(fatal bool) Option {
	return func(c *genConfig) {
		c.storeFailureFatal = fatal
	}
}

// WithDiagnostics sets where detailed listings of the first NErrList
// failed checks are written. The default is os.Stderr; a nil writer turns
// the listings off. Each listing is passed to w in a single Write.
func WithDiagnostics(w io.Writer) Option {
	return func(c *genConfig) {
		c.diagnostics = w
	}
}
