package evgen

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// Test stages used across tests

var errNoShower = errors.New("no shower")

// stubProcess writes a balanced q qbar hard process: system, two beams,
// two incoming copies and an outgoing pair along x.
type stubProcess struct {
	BaseStage
	info        *Info
	calls       int
	accumulated int
	err         error
}

func (s *stubProcess) Init(info *Info) error {
	s.info = info
	return nil
}

func (s *stubProcess) Accumulate() { s.accumulated++ }

func (s *stubProcess) Statistics(w io.Writer) {
	_, _ = io.WriteString(w, " stub process statistics\n")
}

func (s *stubProcess) Next(_ context.Context, process *event.Event) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.info.SetProcess(9999, "stub -> u ubar")

	eCM := s.info.ECM
	a, b := s.info.BeamA(), s.info.BeamB()
	process.AppendNew(90, -11, 0, 0, 1, 2, 0, 0, a.P.Add(b.P), eCM, 0)
	i1 := process.Append(a)
	i2 := process.Append(b)
	i3 := process.AppendNew(a.ID, -21, i1, 0, 0, 0, 0, 0, a.P, a.M, 0)
	i4 := process.AppendNew(b.ID, -21, i2, 0, 0, 0, 0, 0, b.P, b.M, 0)
	process.At(i1).Daughters(i3, 0)
	process.At(i2).Daughters(i4, 0)

	col := process.NextColTag()
	half := 0.5 * eCM
	i5 := process.AppendNew(2, 23, i3, i4, 0, 0, col, 0, event.Vec4{X: half, T: half}, 0, eCM)
	process.AppendNew(-2, 23, i3, i4, 0, 0, 0, col, event.Vec4{X: -half, T: half}, 0, eCM)
	process.At(i3).Daughters(i5, i5+1)
	process.At(i4).Daughters(i5, i5+1)
	return nil
}

// stubParton copies the hard process into the event. It fails its first
// failFirst calls, or every call when failAlways is set. addEnergy is added
// to the last particle, leaving the partons unbalanced.
type stubParton struct {
	BaseStage
	calls       int
	resets      int
	accumulated int
	failFirst   int
	failAlways  bool
	err         error
	panicValue  any
	addEnergy   float64
}

func (s *stubParton) Accumulate() { s.accumulated++ }

func (s *stubParton) Statistics(w io.Writer) {
	_, _ = io.WriteString(w, " stub parton statistics\n")
}

func (s *stubParton) ResetBeams() { s.resets++ }

func (s *stubParton) Next(_ context.Context, process, ev *event.Event) error {
	s.calls++
	if s.panicValue != nil {
		panic(s.panicValue)
	}
	if s.failAlways || s.calls <= s.failFirst {
		if s.err != nil {
			return s.err
		}
		return errNoShower
	}
	for _, p := range process.Particles() {
		ev.Append(p)
	}
	if s.addEnergy != 0 {
		ev.Back().P.T += s.addEnergy
	}
	return nil
}

// stubHadron leaves the event unchanged unless told to fail or to break
// energy conservation.
type stubHadron struct {
	BaseStage
	calls       int
	failFirst   int
	addEnergy   float64
	accumulated int
}

func (s *stubHadron) Accumulate() { s.accumulated++ }

func (s *stubHadron) Next(_ context.Context, ev *event.Event) error {
	s.calls++
	if s.calls <= s.failFirst {
		return errors.New("no hadrons")
	}
	if s.addEnergy != 0 {
		ev.Back().P.T += s.addEnergy
	}
	return nil
}

// quietLogger discards all output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGenerator builds and initializes a generator on the default
// species table with stub stages.
func newTestGenerator(proc *stubProcess, parton *stubParton, hadron *stubHadron, opts ...Option) (*Generator, error) {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	g, err := New(species.Default(), proc, parton, hadron, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Init(); err != nil {
		return nil, err
	}
	return g, nil
}
