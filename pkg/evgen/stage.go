package evgen

import (
	"context"
	"io"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
)

// Stage names used in errors, logs, metrics and spans.
const (
	StageProcess = "process"
	StageParton  = "parton"
	StageHadron  = "hadron"
)

// Stage is the lifecycle shared by all stages.
type Stage interface {
	// Init is called once by Generator.Init with the run information.
	// The pointer stays valid for the life of the generator; stages may
	// keep it and write per-event fields such as the process code.
	Init(info *Info) error

	// Accumulate is called once for every accepted event.
	Accumulate()

	// Statistics writes end-of-run statistics.
	Statistics(w io.Writer)
}

// ProcessStage generates the hard process into an empty record.
// A returned error aborts the event; the stage is not retried.
type ProcessStage interface {
	Stage
	Next(ctx context.Context, process *event.Event) error
}

// PartonStage evolves the hard process into a parton-level event. It reads
// process and fills the empty record ev. An error is recoverable unless
// wrapped with errors.Terminal; the generator clears ev and retries.
type PartonStage interface {
	Stage
	Next(ctx context.Context, process, ev *event.Event) error
}

// HadronStage turns the parton-level event into hadrons and decays them,
// in place. Errors are handled as for PartonStage.
type HadronStage interface {
	Stage
	Next(ctx context.Context, ev *event.Event) error
}

// BeamResetter is implemented by parton stages that keep beam-remnant
// state across an attempt. ResetBeams is called before every attempt.
type BeamResetter interface {
	ResetBeams()
}

// BaseStage is a Stage with no-op lifecycle methods, for embedding.
type BaseStage struct{}

// Init does nothing.
func (BaseStage) Init(*Info) error { return nil }

// Accumulate does nothing.
func (BaseStage) Accumulate() {}

// Statistics does nothing.
func (BaseStage) Statistics(io.Writer) {}
