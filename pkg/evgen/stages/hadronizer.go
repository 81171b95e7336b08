package stages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/evgen/pkg/evgen"
	evgenerrors "github.com/randalmurphal/evgen/pkg/evgen/errors"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// Hadronization and decay status codes.
const (
	statusChainCopy   = 71
	statusFirstHadron = 83
	statusLastHadron  = 84
	statusDecay       = 91
)

// Species ids produced by the hadronizer.
const (
	idPiPlus = 211
	idPiZero = 111
	idPhoton = 22
)

// ErrClosedGluonLoop indicates a colour singlet made of gluons only.
var ErrClosedGluonLoop = errors.New("closed gluon loop")

// Hadronizer is a hadron stage. Every colour singlet, a quark joined
// through gluons to an antiquark, is copied contiguously and collapsed into
// a cluster that decays isotropically into two pions. Neutral pions then
// decay through their listed channels.
type Hadronizer struct {
	rng *rand.Rand

	decays bool

	// Per attempt.
	clusters int
	decayed  int

	// Per run.
	events      int64
	nClusters   int64
	nDecays     int64
	belowThresh int64
}

// HadronizerOption configures a Hadronizer.
type HadronizerOption func(*Hadronizer)

// WithDecays switches pi0 decays on or off. Default on.
func WithDecays(on bool) HadronizerOption {
	return func(h *Hadronizer) {
		h.decays = on
	}
}

// NewHadronizer creates the hadron stage.
func NewHadronizer(opts ...HadronizerOption) *Hadronizer {
	h := &Hadronizer{decays: true}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init implements evgen.Stage.
func (h *Hadronizer) Init(info *evgen.Info) error {
	h.rng = newRand(info.Seed, 3)
	h.events, h.nClusters, h.nDecays, h.belowThresh = 0, 0, 0, 0
	return nil
}

// Next implements evgen.HadronStage.
func (h *Hadronizer) Next(ctx context.Context, ev *event.Event) error {
	h.clusters, h.decayed = 0, 0
	if open := ev.CheckColours(); len(open) > 0 {
		return &evgenerrors.ColourError{Open: open}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chain, err := nextSinglet(ev)
		if err != nil {
			return err
		}
		if chain == nil {
			break
		}
		if err := h.cluster(ev, chain); err != nil {
			return err
		}
		h.clusters++
	}

	if h.decays {
		return h.decayAll(ev)
	}
	return nil
}

// nextSinglet returns the first live colour singlet, ordered from the
// quark end through gluons to the antiquark end, or nil when no live
// coloured particle remains.
func nextSinglet(ev *event.Event) ([]int, error) {
	start := 0
	for i := 1; i < ev.Size(); i++ {
		p := ev.At(i)
		if !p.IsFinal() {
			continue
		}
		if p.Col > 0 && p.Acol == 0 {
			start = i
			break
		}
		if p.Col > 0 && start == 0 {
			start = -i
		}
	}
	switch {
	case start == 0:
		return nil, nil
	case start < 0:
		return nil, fmt.Errorf("%w at %d", ErrClosedGluonLoop, -start)
	}

	chain := []int{start}
	col := ev.At(start).Col
	for col > 0 {
		next := 0
		for j := 1; j < ev.Size(); j++ {
			if ev.At(j).IsFinal() && ev.At(j).Acol == col {
				next = j
				break
			}
		}
		if next == 0 {
			return nil, &evgenerrors.ColourError{Open: []int{col}}
		}
		chain = append(chain, next)
		col = ev.At(next).Col
		if len(chain) > ev.Size() {
			return nil, fmt.Errorf("colour chain from %d does not terminate", start)
		}
	}
	return chain, nil
}

// cluster copies chain to consecutive entries with status 71 and decays
// their combined momentum into two pions with the chain's charge.
func (h *Hadronizer) cluster(ev *event.Event, chain []int) error {
	var pSum event.Vec4
	chargeType := 0
	for _, i := range chain {
		pSum = pSum.Add(ev.At(i).P)
		chargeType += ev.At(i).ChargeType()
	}
	mass := pSum.MCalc()

	id1, id2, err := pionPair(chargeType)
	if err != nil {
		return evgenerrors.Terminal(err, "cluster charge")
	}
	svc := ev.Species()
	m1, m2 := svc.Lookup(id1).Mass, svc.Lookup(id2).Mass
	if mass <= m1+m2 {
		// Neutral clusters try the lighter pi0 pair before giving up.
		if chargeType == 0 {
			id1, id2 = idPiZero, idPiZero
			m1 = svc.Lookup(idPiZero).Mass
			m2 = m1
		}
		if mass <= m1+m2 {
			h.belowThresh++
			return evgenerrors.Recoverable(&evgenerrors.ThresholdError{Mass: mass, Threshold: m1 + m2}, "cluster")
		}
	}

	iFirst := ev.Size()
	for _, i := range chain {
		ev.Copy(i, statusChainCopy)
	}
	iLast := ev.Size() - 1

	p1, p2 := twoBody(h.rng, pSum, mass, m1, m2)
	iH1 := ev.AppendNew(id1, statusFirstHadron, iFirst, iLast, 0, 0, 0, 0, p1, m1, 0)
	iH2 := ev.AppendNew(id2, statusLastHadron, iFirst, iLast, 0, 0, 0, 0, p2, m2, 0)
	for i := iFirst; i <= iLast; i++ {
		ev.At(i).Daughters(iH1, iH2)
		ev.At(i).StatusNeg()
	}
	return nil
}

// pionPair returns the two pions carrying a cluster charge of
// chargeType/3.
func pionPair(chargeType int) (int, int, error) {
	switch chargeType {
	case 0:
		return idPiPlus, -idPiPlus, nil
	case 3:
		return idPiPlus, idPiZero, nil
	case -3:
		return -idPiPlus, idPiZero, nil
	default:
		return 0, 0, fmt.Errorf("no pion pair with charge %d/3", chargeType)
	}
}

// decayAll decays every live pi0, including those produced along the way.
func (h *Hadronizer) decayAll(ev *event.Event) error {
	for i := 1; i < ev.Size(); i++ {
		p := ev.At(i)
		if !p.IsFinal() || p.ID != idPiZero {
			continue
		}
		if err := h.decay(ev, i); err != nil {
			return err
		}
	}
	return nil
}

// decay decays particle i through a channel chosen by branching ratio,
// placing the products at its decay vertex.
func (h *Hadronizer) decay(ev *event.Event, i int) error {
	props := ev.Species().Lookup(ev.At(i).ID)
	ch, ok := pickChannel(h.rng, props.Channels)
	if !ok {
		return nil
	}

	parent := ev.At(i)
	if props.Lifetime > 0 {
		parent.Tau = -props.Lifetime * math.Log(1-h.rng.Float64())
	}
	vDec := parent.VDec()
	pParent, mParent := parent.P, parent.M

	var moms []event.Vec4
	svc := ev.Species()
	switch ch.Multiplicity() {
	case 2:
		p1, p2 := twoBody(h.rng, pParent, mParent, svc.Lookup(ch.Products[0]).Mass, svc.Lookup(ch.Products[1]).Mass)
		moms = []event.Vec4{p1, p2}
	case 3:
		var err error
		moms, err = dalitz(h.rng, svc, pParent, mParent, ch.Products)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("decay of %d into %d products not supported", ev.At(i).ID, ch.Multiplicity())
	}

	iFirst := ev.Size()
	for k, id := range ch.Products {
		j := ev.AppendNew(id, statusDecay, i, 0, 0, 0, 0, 0, moms[k], svc.Lookup(id).Mass, 0)
		ev.At(j).VProd = vDec
	}
	ev.At(i).Daughters(iFirst, ev.Size()-1)
	ev.At(i).StatusNeg()
	h.decayed++
	return nil
}

// dalitz decays into a photon and a lepton pair through a virtual photon
// whose mass is drawn log-uniformly over the open range.
func dalitz(rng *rand.Rand, svc species.Service, p event.Vec4, m float64, products []int) ([]event.Vec4, error) {
	iGamma := -1
	for k, id := range products {
		if id == idPhoton {
			iGamma = k
		}
	}
	if iGamma < 0 {
		return nil, fmt.Errorf("three-body channel %v has no photon", products)
	}
	var leptons []int
	for k := range products {
		if k != iGamma {
			leptons = append(leptons, k)
		}
	}
	ml1 := svc.Lookup(products[leptons[0]]).Mass
	ml2 := svc.Lookup(products[leptons[1]]).Mass
	lo, hi := ml1+ml2, m
	if lo <= 0 || hi <= lo {
		return nil, &evgenerrors.ThresholdError{Mass: m, Threshold: lo}
	}
	mStar := logUniform(rng, lo, hi)
	// Keep strictly inside the range so both two-body steps are open.
	mStar = math.Min(math.Max(mStar, lo*(1+1e-9)), hi*(1-1e-9))

	pGamma, pStar := twoBody(rng, p, m, 0, mStar)
	pl1, pl2 := twoBody(rng, pStar, mStar, ml1, ml2)

	moms := make([]event.Vec4, 3)
	moms[iGamma] = pGamma
	moms[leptons[0]] = pl1
	moms[leptons[1]] = pl2
	return moms, nil
}

// pickChannel chooses an enabled channel with probability proportional to
// its branching ratio.
func pickChannel(rng *rand.Rand, channels []species.DecayChannel) (species.DecayChannel, bool) {
	var total float64
	for _, c := range channels {
		if c.OnMode > 0 && c.BRatio > 0 {
			total += c.BRatio
		}
	}
	if total == 0 {
		return species.DecayChannel{}, false
	}
	r := total * rng.Float64()
	var last species.DecayChannel
	for _, c := range channels {
		if c.OnMode <= 0 || c.BRatio <= 0 {
			continue
		}
		last = c
		r -= c.BRatio
		if r < 0 {
			return c, true
		}
	}
	return last, true
}

// Accumulate implements evgen.Stage.
func (h *Hadronizer) Accumulate() {
	h.events++
	h.nClusters += int64(h.clusters)
	h.nDecays += int64(h.decayed)
}

// Statistics implements evgen.Stage.
func (h *Hadronizer) Statistics(w io.Writer) {
	fmt.Fprintf(w, "\n --------  Hadronization Statistics  ----------------------------------\n")
	fmt.Fprintf(w, " | events %10d | clusters %10d | decays %10d | below threshold %6d |\n",
		h.events, h.nClusters, h.nDecays, h.belowThresh)
	fmt.Fprintf(w, " --------  End Hadronization Statistics  ------------------------------\n")
}
