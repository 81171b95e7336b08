package evgen

import (
	"fmt"
	"io"
	"strings"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
)

// Info carries run and per-event information shared between the generator
// and its stages.
type Info struct {
	// Beams, fixed by Init.
	IDA, IDB int
	EA, EB   float64
	MA, MB   float64
	PzA, PzB float64
	ECM      float64
	// BetaZ and GammaZ boost from the CM frame to the lab frame.
	BetaZ, GammaZ float64
	InCMFrame     bool
	// Seed seeds the stage random streams.
	Seed uint64
	// StartColTag is the colour tag base of new records.
	StartColTag int

	// Per event, reset by Clear.
	Code     int
	Name     string
	Attempts int
	Event    int64

	// Per run.
	Tried    int64
	Accepted int64
	Failed   int64
}

// SetProcess records the process generated for the current event.
func (i *Info) SetProcess(code int, name string) {
	i.Code = code
	i.Name = name
}

// Clear resets the per-event fields.
func (i *Info) Clear() {
	i.Code = 0
	i.Name = ""
	i.Attempts = 0
}

// BeamA returns beam A as an incoming particle (status -12) moving along
// +z in the CM frame; BeamB moves along -z.
func (i *Info) BeamA() event.Particle {
	return i.beam(i.IDA, i.MA, i.PzA)
}

// BeamB is BeamA for the second beam.
func (i *Info) BeamB() event.Particle {
	return i.beam(i.IDB, i.MB, i.PzB)
}

func (i *Info) beam(id int, m, pz float64) event.Particle {
	p := event.Vec4{Z: pz, T: sqrtPos(pz*pz + m*m)}
	return event.NewParticle(id, -12, 0, 0, 0, 0, 0, 0, p, m, 0)
}

// List writes a short summary.
func (i *Info) List(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n --------  Event Info Listing  ---------------------------------------------\n\n")
	fmt.Fprintf(&b, " Beam A: id = %6d, pz = %10.3f, e = %10.3f, m = %10.5f.\n", i.IDA, i.PzA, i.EA, i.MA)
	fmt.Fprintf(&b, " Beam B: id = %6d, pz = %10.3f, e = %10.3f, m = %10.5f.\n", i.IDB, i.PzB, i.EB, i.MB)
	fmt.Fprintf(&b, " CM energy = %10.3f, betaZ = %10.3e, gammaZ = %10.5f.\n", i.ECM, i.BetaZ, i.GammaZ)
	fmt.Fprintf(&b, " Process %s with code %d; event %d after %d tries.\n", i.Name, i.Code, i.Event, i.Attempts)
	b.WriteString("\n --------  End Event Info Listing  -----------------------------------------\n")
	_, err := io.WriteString(w, b.String())
	return err
}
