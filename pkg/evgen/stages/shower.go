package stages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/evgen/pkg/evgen"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
)

// Shower status codes.
const (
	statusShowerBranch   = 51
	statusShowerRecoiler = 52
)

// ErrNoPartons indicates a hard process without outgoing coloured partons.
var ErrNoPartons = errors.New("no outgoing partons to shower")

// Shower is a parton stage: it copies the hard process into the event and
// lets quarks radiate gluons, q -> q g, against their colour partner. Each
// branching conserves four-momentum exactly and keeps all masses.
//
// Emission probability and count are fixed per event rather than derived
// from a Sudakov form factor; the stage exists to populate realistic
// history, colour and system structure.
type Shower struct {
	rng *rand.Rand

	emissionProb float64
	maxEmissions int
	xMin, xMax   float64
	thetaMin     float64
	thetaMax     float64

	// Per attempt.
	emitted int

	// Per run.
	events    int64
	emissions int64
	vetoed    int64
}

// ShowerOption configures a Shower.
type ShowerOption func(*Shower)

// WithEmissionProb sets the probability of each successive emission.
func WithEmissionProb(p float64) ShowerOption {
	return func(s *Shower) {
		if p >= 0 && p <= 1 {
			s.emissionProb = p
		}
	}
}

// WithMaxEmissions bounds the emissions per event.
func WithMaxEmissions(n int) ShowerOption {
	return func(s *Shower) {
		if n >= 0 {
			s.maxEmissions = n
		}
	}
}

// NewShower creates the parton stage. Defaults: emission probability 0.6,
// at most 4 emissions.
func NewShower(opts ...ShowerOption) *Shower {
	s := &Shower{
		emissionProb: 0.6,
		maxEmissions: 4,
		xMin:         0.02,
		xMax:         0.3,
		thetaMin:     0.01,
		thetaMax:     0.5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init implements evgen.Stage.
func (s *Shower) Init(info *evgen.Info) error {
	s.rng = newRand(info.Seed, 2)
	s.events, s.emissions, s.vetoed = 0, 0, 0
	return nil
}

// ResetBeams implements evgen.BeamResetter; it forgets the emissions of
// a discarded attempt.
func (s *Shower) ResetBeams() {
	s.emitted = 0
}

// Next implements evgen.PartonStage. The hard process is copied as is;
// its outgoing partons and the incoming partons form system 0.
func (s *Shower) Next(ctx context.Context, process, ev *event.Event) error {
	for _, p := range process.Particles() {
		ev.Append(p)
	}
	ev.InitColTag(process.LastColTag())

	sys := ev.NewSystem()
	for i := 1; i < ev.Size(); i++ {
		p := ev.At(i)
		if p.Status == -21 || (p.IsFinal() && p.ColType() != 0) {
			ev.AddToSystem(sys, i)
		}
	}
	if len(s.radiators(ev)) == 0 {
		return ErrNoPartons
	}

	for n := 0; n < s.maxEmissions; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.rng.Float64() >= s.emissionProb {
			break
		}
		rads := s.radiators(ev)
		iRad := rads[s.rng.IntN(len(rads))]
		iRec := colourPartner(ev, iRad)
		if iRec == 0 {
			return fmt.Errorf("parton %d has no colour partner", iRad)
		}
		if s.branch(ev, sys, iRad, iRec) {
			s.emitted++
		} else {
			s.vetoed++
		}
	}
	return nil
}

// radiators returns the live quarks and antiquarks.
func (s *Shower) radiators(ev *event.Event) []int {
	var out []int
	for i := 1; i < ev.Size(); i++ {
		p := ev.At(i)
		if p.IsFinal() && p.IsQuark() {
			out = append(out, i)
		}
	}
	return out
}

// colourPartner returns the live particle closing the colour line of i:
// the one carrying its colour as anticolour, or its anticolour as colour.
func colourPartner(ev *event.Event, i int) int {
	col, acol := ev.At(i).Col, ev.At(i).Acol
	for j := 1; j < ev.Size(); j++ {
		if j == i || !ev.At(j).IsFinal() {
			continue
		}
		if col > 0 && ev.At(j).Acol == col {
			return j
		}
		if acol > 0 && ev.At(j).Col == acol {
			return j
		}
	}
	return 0
}

// branch lets iRad emit a gluon with recoil taken by iRec. It reports
// false, leaving the record untouched, when the phase space is closed.
//
// In the dipole rest frame the gluon takes an energy fraction x of half
// the dipole mass at a small angle to the radiator. The rest of the
// momentum is shared by radiator and recoiler as a two-body system along
// their original axis.
func (s *Shower) branch(ev *event.Event, sys, iRad, iRec int) bool {
	rad, rec := *ev.At(iRad), *ev.At(iRec)
	pDip := rad.P.Add(rec.P)
	w := pDip.MCalc()
	if w <= rad.M+rec.M {
		return false
	}

	x := logUniform(s.rng, s.xMin, s.xMax)
	theta := logUniform(s.rng, s.thetaMin, s.thetaMax)
	phi := 2 * math.Pi * s.rng.Float64()

	// Dipole rest frame.
	radDip := toRest(rad.P, pDip)
	nx, ny, nz := unit(radDip)
	eg := 0.5 * x * w
	gx, gy, gz := rotateAway(nx, ny, nz, theta, phi)
	pG := event.Vec4{X: eg * gx, Y: eg * gy, Z: eg * gz, T: eg}

	pRest := event.Vec4{T: w}.Sub(pG)
	mRest := pRest.MCalc()
	if mRest <= rad.M+rec.M {
		return false
	}

	// Radiator and recoiler back-to-back in the rest system, keeping the
	// radiator direction.
	radRest := toRest(radDip, pRest)
	ux, uy, uz := unit(radRest)
	pAbs := pStar(mRest, rad.M, rec.M)
	pRad := event.Vec4{X: pAbs * ux, Y: pAbs * uy, Z: pAbs * uz, T: math.Sqrt(rad.M*rad.M + pAbs*pAbs)}
	pRec := event.Vec4{X: -pRad.X, Y: -pRad.Y, Z: -pRad.Z, T: math.Sqrt(rec.M*rec.M + pAbs*pAbs)}

	// Back to the dipole frame, then to the event frame.
	pRad = pRad.BstTo(pRest).BstTo(pDip)
	pRec = pRec.BstTo(pRest).BstTo(pDip)
	pG = pG.BstTo(pDip)

	scale := eg * math.Sin(theta)

	// Colour flow: the gluon takes over the radiator's line and a new tag
	// connects it to the radiator.
	tag := ev.NextColTag()
	newRad := rad
	var gCol, gAcol int
	if rad.Col > 0 {
		gCol, gAcol = rad.Col, tag
		newRad.Cols(tag, 0)
	} else {
		gCol, gAcol = tag, rad.Acol
		newRad.Cols(0, tag)
	}

	newRad.Status = statusShowerBranch
	newRad.Mothers(iRad, 0)
	newRad.Daughters(0, 0)
	newRad.P = pRad
	newRad.Scale = scale
	iRadNew := ev.Append(newRad)
	iEmt := ev.AppendNew(21, statusShowerBranch, iRad, 0, 0, 0, gCol, gAcol, pG, 0, scale)

	ev.At(iRad).Daughters(iRadNew, iEmt)
	ev.At(iRad).StatusNeg()

	iRecNew := ev.Copy(iRec, statusShowerRecoiler)
	ev.At(iRecNew).P = pRec
	ev.At(iRecNew).Scale = scale

	ev.ReplaceInSystem(sys, iRad, iRadNew)
	ev.AddToSystem(sys, iEmt)
	ev.ReplaceInSystem(sys, iRec, iRecNew)
	return true
}

// Accumulate implements evgen.Stage.
func (s *Shower) Accumulate() {
	s.events++
	s.emissions += int64(s.emitted)
}

// Statistics implements evgen.Stage.
func (s *Shower) Statistics(w io.Writer) {
	avg := 0.
	if s.events > 0 {
		avg = float64(s.emissions) / float64(s.events)
	}
	fmt.Fprintf(w, "\n --------  Shower Statistics  -----------------------------------------\n")
	fmt.Fprintf(w, " | events %10d | emissions %10d | per event %8.3f | vetoed %8d |\n",
		s.events, s.emissions, avg, s.vetoed)
	fmt.Fprintf(w, " --------  End Shower Statistics  -------------------------------------\n")
}
