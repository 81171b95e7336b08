package evgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	evgenerrors "github.com/randalmurphal/evgen/pkg/evgen/errors"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/observability"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
	"github.com/randalmurphal/evgen/pkg/evgen/store"
)

// messageLimit is how many times each distinct problem is logged in full.
const messageLimit = 1

// Generator produces events one at a time: a hard process, its parton
// evolution and its hadronization, with bounded retry of the latter two.
//
// A Generator is NOT safe for concurrent use. Run independent generators,
// each with its own stages, to generate in parallel.
type Generator struct {
	cfg      genConfig
	settings Settings
	species  species.Service

	proc   ProcessStage
	parton PartonStage
	hadron HadronStage

	info    Info
	process *event.Event
	ev      *event.Event

	isInit    bool
	nErrEvent int
	messages  *observability.MessageCounter
}

// New creates a generator. The parton stage may be nil when parton-level
// generation is switched off, the hadron stage when either level is off.
//
// Example:
//
//	tbl := species.Default()
//	gen, err := evgen.New(tbl, stages.NewEEToQQ(), stages.NewShower(), stages.NewHadronizer())
//	if err != nil {
//	    return err
//	}
//	if err := gen.Init(); err != nil {
//	    return err
//	}
//	for i := 0; i < 1000; i++ {
//	    if err := gen.Next(ctx); err != nil {
//	        continue
//	    }
//	    use(gen.Event())
//	}
func New(svc species.Service, proc ProcessStage, parton PartonStage, hadron HadronStage, opts ...Option) (*Generator, error) {
	cfg := defaultGenConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}
	cfg.settings.normalize()

	if svc == nil {
		return nil, errors.New("species service cannot be nil")
	}
	if proc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilStage, StageProcess)
	}
	if cfg.settings.PartonLevel && parton == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilStage, StageParton)
	}
	if cfg.settings.PartonLevel && cfg.settings.HadronLevel && hadron == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilStage, StageHadron)
	}

	return &Generator{
		cfg:      cfg,
		settings: cfg.settings,
		species:  svc,
		proc:     proc,
		parton:   parton,
		hadron:   hadron,
		messages: observability.NewMessageCounter(cfg.logger, messageLimit),
	}, nil
}

// Init sets up the beams and the records and initializes every stage.
// It must succeed before Next is called.
func (g *Generator) Init() error {
	g.isInit = false
	g.nErrEvent = 0
	g.info = Info{
		Seed:        g.settings.Seed,
		StartColTag: g.settings.StartColTag,
	}

	if err := setupBeams(g.settings, g.species, &g.info); err != nil {
		g.messages.Report("Abort from Generator.Init: initialization failed", slog.String("error", err.Error()))
		return err
	}

	g.process = event.New(g.species,
		event.WithHeader("(hard process)"),
		event.WithStartColTag(g.settings.StartColTag),
		event.WithCapacity(100))
	g.ev = event.New(g.species,
		event.WithHeader("(complete event)"),
		event.WithStartColTag(g.settings.StartColTag))

	for _, s := range g.stages() {
		if err := s.stage.Init(&g.info); err != nil {
			return &StageError{Stage: s.name, Err: err}
		}
	}

	g.isInit = true
	g.cfg.logger.Info("generator initialized",
		slog.String("run_id", g.cfg.runID),
		slog.Int("beam_a", g.info.IDA),
		slog.Int("beam_b", g.info.IDB),
		slog.Float64("e_cm", g.info.ECM),
		slog.Bool("cm_frame", g.info.InCMFrame),
	)
	return nil
}

type namedStage struct {
	name  string
	stage Stage
}

// stages returns the active stages in pipeline order.
func (g *Generator) stages() []namedStage {
	out := []namedStage{{StageProcess, g.proc}}
	if g.settings.PartonLevel {
		out = append(out, namedStage{StageParton, g.parton})
		if g.settings.HadronLevel {
			out = append(out, namedStage{StageHadron, g.hadron})
		}
	}
	return out
}

// Next generates one event. On success Event (or Process, when parton-level
// generation is off) holds it. On error the records are not valid output.
//
// Errors:
//   - ErrNotInitialized before a successful Init
//   - ErrProcessFailed or ErrProcessVetoed; the process stage is never retried
//   - *RetryError (ErrRetriesExhausted) after MaxTries failed attempts
//   - *CheckError (ErrUnphysicalEvent) when the validity check of a
//     hadron-level event fails
//   - *PanicError when a stage panicked
//   - *StoreError when saving fails and WithStoreFailureFatal is set
//   - context errors when ctx is cancelled between attempts
func (g *Generator) Next(ctx context.Context) (err error) {
	if !g.isInit {
		g.messages.Report("Abort from Generator.Next: not properly initialized so cannot generate events")
		return ErrNotInitialized
	}

	g.info.Event++
	g.info.Tried++
	eventNum := g.info.Event
	runID := g.cfg.runID

	startTime := time.Now()
	observability.LogEventStart(g.cfg.logger, runID, eventNum)

	if g.cfg.tracingEnabled {
		var span trace.Span
		ctx, span = g.cfg.spans.StartEventSpan(ctx, runID, eventNum)
		defer func() {
			g.cfg.spans.EndSpanWithError(span, err)
		}()
	}

	err = g.generate(ctx)

	duration := time.Since(startTime)
	durationMs := float64(duration.Milliseconds())
	g.cfg.metrics.RecordEvent(ctx, err == nil, g.info.Attempts, duration)

	if err != nil {
		g.info.Failed++
		observability.LogEventError(g.cfg.logger, runID, eventNum, err, durationMs)
		return err
	}

	observability.LogEventComplete(g.cfg.logger, runID, eventNum, g.info.Attempts, g.output().Size(), durationMs)
	return nil
}

// generate runs the pipeline for the current event.
func (g *Generator) generate(ctx context.Context) error {
	g.info.Clear()
	g.process.Clear()

	// The hard process gets one try.
	if err := g.runStage(ctx, StageProcess, 1, func(ctx context.Context) error {
		return g.proc.Next(ctx, g.process)
	}); err != nil {
		g.messages.Report("Abort from Generator.Next: process stage failed; giving up")
		return fmt.Errorf("%w: %w", ErrProcessFailed, err)
	}
	if g.cfg.hooks != nil && g.cfg.hooks.VetoProcessLevel(g.process) {
		return ErrProcessVetoed
	}

	if !g.settings.PartonLevel {
		g.info.Attempts = 1
		g.boost(g.process)
		return g.accept(ctx)
	}

	retry := evgenerrors.NewRetryConfig(
		evgenerrors.WithMaxAttempts(g.settings.MaxTries),
		evgenerrors.WithOnRetry(func(attempt int, err error) {
			observability.LogRetry(g.cfg.logger, attempt, g.settings.MaxTries, err)
			g.cfg.spans.AddSpanEvent(ctx, "retry", attribute.Int("attempt", attempt))
		}),
	)
	result := evgenerrors.WithRetryContext(ctx, retry, func(ctx context.Context, attempt int) (struct{}, error) {
		g.info.Attempts = attempt
		return struct{}{}, g.attempt(ctx, attempt)
	})
	if result.Err != nil {
		g.info.Attempts = result.Attempts
		var cat *evgenerrors.CategorizedError
		last := result.Err
		if errors.As(result.Err, &cat) {
			last = cat.Err
		}
		if result.Exhausted() {
			g.messages.Report("Abort from Generator.Next: parton+hadron stages failed; giving up")
			return &RetryError{Attempts: result.Attempts, Last: last}
		}
		return last
	}

	// The event record was boosted inside the attempt, before decays.
	g.boost(g.process)

	// Partons alone are not checked; only complete events are.
	if g.settings.HadronLevel && g.settings.CheckEvent {
		if err := g.check(ctx); err != nil {
			return err
		}
	}
	return g.accept(ctx)
}

// attempt runs one parton+hadron try on a cleared event record.
func (g *Generator) attempt(ctx context.Context, attempt int) error {
	g.ev.Clear()
	if br, ok := g.parton.(BeamResetter); ok {
		br.ResetBeams()
	}

	if err := g.runStage(ctx, StageParton, attempt, func(ctx context.Context) error {
		return g.parton.Next(ctx, g.process, g.ev)
	}); err != nil {
		g.messages.Report("Error in Generator.Next: parton stage failed; try again")
		return err
	}
	if g.cfg.hooks != nil && g.cfg.hooks.VetoPartonLevel(g.ev) {
		return &StageError{Stage: StageParton, Attempt: attempt, Err: ErrPartonVetoed}
	}

	// Boost before decays so that vertices are set in the lab frame.
	g.boost(g.ev)

	if !g.settings.HadronLevel {
		return nil
	}

	if err := g.runStage(ctx, StageHadron, attempt, func(ctx context.Context) error {
		return g.hadron.Next(ctx, g.ev)
	}); err != nil {
		g.messages.Report("Error in Generator.Next: hadron stage failed; try again")
		return err
	}
	return nil
}

// runStage executes one stage call with logging, tracing, metrics and
// panic recovery. Stage errors are wrapped in StageError; panics become a
// terminal PanicError.
func (g *Generator) runStage(ctx context.Context, name string, attempt int, fn func(context.Context) error) error {
	logger := observability.EnrichLogger(g.cfg.logger, g.cfg.runID, g.info.Event, name)
	observability.LogStageStart(logger, name, attempt)

	stageCtx := ctx
	var span trace.Span
	if g.cfg.tracingEnabled {
		stageCtx, span = g.cfg.spans.StartStageSpan(ctx, name, attempt)
	}

	start := time.Now()
	err := callStage(stageCtx, name, fn)
	duration := time.Since(start)

	g.cfg.metrics.RecordStage(ctx, name, duration, err)
	if g.cfg.tracingEnabled {
		g.cfg.spans.EndSpanWithError(span, err)
	}

	if err != nil {
		observability.LogStageError(logger, name, attempt, err)
		var perr *PanicError
		if errors.As(err, &perr) {
			return evgenerrors.Terminal(err, name)
		}
		return &StageError{Stage: name, Attempt: attempt, Err: err}
	}

	observability.LogStageComplete(logger, name, attempt, float64(duration.Milliseconds()))
	return nil
}

// callStage calls fn, converting a panic into a PanicError.
func callStage(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Stage: name,
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()
	return fn(ctx)
}

// check runs the validity check on the event record, reporting the first
// NErrList failures in detail.
func (g *Generator) check(ctx context.Context) error {
	err := Check(g.ev, g.settings.EPTolerance)
	if err == nil {
		return nil
	}

	var cerr *CheckError
	if errors.As(err, &cerr) {
		observability.LogCheckFailure(g.cfg.logger, g.info.Event, cerr.EPDeviation, cerr.ChargeSum,
			cerr.UnknownIDLines, cerr.NonFiniteLines)
		if g.nErrEvent < g.settings.NErrList && g.cfg.diagnostics != nil {
			if werr := writeCheckDiagnostics(g.cfg.diagnostics, cerr, &g.info, g.ev); werr != nil {
				g.cfg.logger.Warn("failed to write check diagnostics", slog.String("error", werr.Error()))
			}
		}
	}
	g.nErrEvent++
	g.cfg.metrics.RecordCheckFailure(ctx)
	g.messages.Report("Abort from Generator.Next: check of event revealed problems")
	return err
}

// accept updates stage statistics and persists the event.
func (g *Generator) accept(ctx context.Context) error {
	for _, s := range g.stages() {
		s.stage.Accumulate()
	}
	g.info.Accepted++

	if g.cfg.eventStore == nil {
		return nil
	}
	size, err := store.SaveEvent(g.cfg.eventStore, g.cfg.runID, g.info.Event, g.output())
	if err != nil {
		if g.cfg.storeFailureFatal {
			g.info.Accepted--
			return &StoreError{Op: "save", Event: g.info.Event, Err: err}
		}
		observability.LogStoreError(g.cfg.logger, g.info.Event, "save", err)
		return nil
	}
	g.cfg.metrics.RecordStored(ctx, int64(size))
	return nil
}

// boost moves a record from the CM frame to the lab frame.
func (g *Generator) boost(ev *event.Event) {
	if !g.info.InCMFrame {
		ev.Bst(0, 0, g.info.BetaZ, g.info.GammaZ)
	}
}

// output is the record holding the finished event.
func (g *Generator) output() *event.Event {
	if g.settings.PartonLevel {
		return g.ev
	}
	return g.process
}

// Process returns the hard-process record.
func (g *Generator) Process() *event.Event {
	return g.process
}

// Event returns the complete event record. It is only valid after Next
// returned nil.
func (g *Generator) Event() *event.Event {
	return g.ev
}

// Info returns the run and event information.
func (g *Generator) Info() *Info {
	return &g.info
}

// RunID returns the run identifier.
func (g *Generator) RunID() string {
	return g.cfg.runID
}

// Settings returns the settings in use.
func (g *Generator) Settings() Settings {
	return g.settings
}

// Statistics writes the process-stage statistics, the parton and hadron
// stage statistics when all is set, the event counters and a summary of
// the problems encountered.
func (g *Generator) Statistics(w io.Writer, all bool) error {
	g.proc.Statistics(w)
	if all {
		if g.settings.PartonLevel {
			g.parton.Statistics(w)
		}
		if g.settings.PartonLevel && g.settings.HadronLevel {
			g.hadron.Statistics(w)
		}
	}
	if _, err := fmt.Fprintf(w, "\n Events: tried %d, accepted %d, failed %d, failed check %d\n",
		g.info.Tried, g.info.Accepted, g.info.Failed, g.nErrEvent); err != nil {
		return err
	}
	return g.messages.Summary(w)
}
