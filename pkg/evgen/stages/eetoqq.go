// Package stages provides one concrete implementation of each generation
// stage: e+ e- annihilation into a quark pair, a final-state gluon shower
// and a cluster hadronization with pi0 decays.
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

// EEToQQCode is the process code of lepton-pair annihilation into quarks.
const EEToQQCode = 221

const eeToQQName = "f fbar -> gamma* -> q qbar"

// ErrNoOpenFlavour indicates the collision energy is too low for any quark pair.
var ErrNoOpenFlavour = errors.New("no quark flavour open at this energy")

// ErrLeptonBeamsRequired indicates EEToQQ was initialized with hadron beams.
var ErrLeptonBeamsRequired = errors.New("lepton beams required")

// EEToQQ generates l+ l- -> gamma* -> q qbar for flavours d to b, each
// weighted by its squared charge, with the 1 + cos^2(theta) angular
// distribution of a vector coupling.
type EEToQQ struct {
	info *evgen.Info
	rng  *rand.Rand

	maxFlavour int
	tried      int64
	accepted   int64
	byFlavour  [6]int64
	current    int
}

// EEToQQOption configures EEToQQ.
type EEToQQOption func(*EEToQQ)

// WithMaxFlavour limits the produced flavours to 1..n. Values outside 1..5
// are ignored.
func WithMaxFlavour(n int) EEToQQOption {
	return func(p *EEToQQ) {
		if n >= 1 && n <= 5 {
			p.maxFlavour = n
		}
	}
}

// NewEEToQQ creates the process stage.
func NewEEToQQ(opts ...EEToQQOption) *EEToQQ {
	p := &EEToQQ{maxFlavour: 5}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init implements evgen.Stage.
func (p *EEToQQ) Init(info *evgen.Info) error {
	if !isChargedLepton(info.IDA) || info.IDA+info.IDB != 0 {
		return fmt.Errorf("%w: %d on %d", ErrLeptonBeamsRequired, info.IDA, info.IDB)
	}
	p.info = info
	p.rng = newRand(info.Seed, 1)
	p.tried, p.accepted = 0, 0
	p.byFlavour = [6]int64{}
	return nil
}

// Next implements evgen.ProcessStage. The record layout is: 0 the system,
// 1 and 2 the beams, 3 and 4 the annihilating leptons, 5 the quark and 6
// the antiquark, connected by one colour line.
func (p *EEToQQ) Next(_ context.Context, process *event.Event) error {
	p.tried++
	svc := process.Species()
	eCM := p.info.ECM

	id, err := p.pickFlavour(func(id int) float64 { return svc.Lookup(id).Mass })
	if err != nil {
		return err
	}
	m := svc.Lookup(id).Mass

	// 1 + cos^2 by accept-reject against its maximum of 2.
	var cosTheta float64
	for {
		cosTheta = 2*p.rng.Float64() - 1
		if 2*p.rng.Float64() < 1+cosTheta*cosTheta {
			break
		}
	}
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)
	phi := 2 * math.Pi * p.rng.Float64()

	pAbs := pStar(eCM, m, m)
	half := 0.5 * eCM
	pq := event.Vec4{
		X: pAbs * sinTheta * math.Cos(phi),
		Y: pAbs * sinTheta * math.Sin(phi),
		Z: pAbs * cosTheta,
		T: half,
	}
	pqbar := event.Vec4{X: -pq.X, Y: -pq.Y, Z: -pq.Z, T: half}

	beamA, beamB := p.info.BeamA(), p.info.BeamB()
	process.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, beamA.P.Add(beamB.P), eCM, 0)
	i1 := process.Append(beamA)
	i2 := process.Append(beamB)
	i3 := process.AppendNew(beamA.ID, -21, i1, 0, 0, 0, 0, 0, beamA.P, beamA.M, eCM)
	i4 := process.AppendNew(beamB.ID, -21, i2, 0, 0, 0, 0, 0, beamB.P, beamB.M, eCM)
	process.At(i1).Daughters(i3, 0)
	process.At(i2).Daughters(i4, 0)

	col := process.NextColTag()
	iq := process.AppendNew(id, 23, i3, i4, 0, 0, col, 0, pq, m, eCM)
	iqbar := process.AppendNew(-id, 23, i3, i4, 0, 0, 0, col, pqbar, m, eCM)
	process.At(i3).Daughters(iq, iqbar)
	process.At(i4).Daughters(iq, iqbar)

	p.current = id
	p.info.SetProcess(EEToQQCode, eeToQQName)
	return nil
}

// pickFlavour chooses a quark flavour open at the current energy with
// probability proportional to its squared charge.
func (p *EEToQQ) pickFlavour(mass func(int) float64) (int, error) {
	var weights [6]float64
	var total float64
	for id := 1; id <= p.maxFlavour; id++ {
		if 2*mass(id) >= p.info.ECM {
			continue
		}
		// Charges: d-type -1/3, u-type +2/3.
		if id%2 == 0 {
			weights[id] = 4. / 9.
		} else {
			weights[id] = 1. / 9.
		}
		total += weights[id]
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: eCM %.3f", ErrNoOpenFlavour, p.info.ECM)
	}

	r := total * p.rng.Float64()
	for id := 1; id <= p.maxFlavour; id++ {
		r -= weights[id]
		if r < 0 && weights[id] > 0 {
			return id, nil
		}
	}
	// Rounding: fall back to the heaviest open flavour.
	for id := p.maxFlavour; id >= 1; id-- {
		if weights[id] > 0 {
			return id, nil
		}
	}
	return 0, ErrNoOpenFlavour
}

// Accumulate implements evgen.Stage.
func (p *EEToQQ) Accumulate() {
	p.accepted++
	if p.current > 0 && p.current < len(p.byFlavour) {
		p.byFlavour[p.current]++
	}
}

// Statistics implements evgen.Stage.
func (p *EEToQQ) Statistics(w io.Writer) {
	fmt.Fprintf(w, "\n --------  Process Statistics  ----------------------------------------\n")
	fmt.Fprintf(w, " | %-30s code %4d | tried %10d | accepted %10d |\n", eeToQQName, EEToQQCode, p.tried, p.accepted)
	names := [6]string{"", "d", "u", "s", "c", "b"}
	for id := 1; id <= p.maxFlavour; id++ {
		frac := 0.
		if p.accepted > 0 {
			frac = float64(p.byFlavour[id]) / float64(p.accepted)
		}
		fmt.Fprintf(w, " |   %-2s fraction %8.4f\n", names[id], frac)
	}
	fmt.Fprintf(w, " --------  End Process Statistics  ------------------------------------\n")
}

func isChargedLepton(id int) bool {
	a := id
	if a < 0 {
		a = -a
	}
	return a == 11 || a == 13 || a == 15
}
