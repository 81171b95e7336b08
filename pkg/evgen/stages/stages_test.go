package stages

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/evgen/pkg/evgen"
	"github.com/randalmurphal/evgen/pkg/evgen/config"
	evgenerrors "github.com/randalmurphal/evgen/pkg/evgen/errors"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

var (
	_ evgen.ProcessStage  = (*EEToQQ)(nil)
	_ evgen.PartonStage   = (*Shower)(nil)
	_ evgen.BeamResetter  = (*Shower)(nil)
	_ evgen.HadronStage   = (*Hadronizer)(nil)
)

func newGenerator(t *testing.T, s evgen.Settings, set Set) *evgen.Generator {
	t.Helper()
	g, err := evgen.New(species.Default(), set.Process, set.Shower, set.Hadron,
		evgen.WithSettings(s),
		evgen.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	require.NoError(t, g.Init())
	return g
}

func defaultSet() Set {
	return Set{Process: NewEEToQQ(), Shower: NewShower(), Hadron: NewHadronizer()}
}

func finalSum(ev *event.Event) (event.Vec4, int) {
	var sum event.Vec4
	charge := 0
	for i := 1; i < ev.Size(); i++ {
		if p := ev.At(i); p.IsFinal() {
			sum = sum.Add(p.P)
			charge += p.ChargeType()
		}
	}
	return sum, charge
}

func assertVecInDelta(t *testing.T, want, got event.Vec4, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "px")
	assert.InDelta(t, want.Y, got.Y, delta, "py")
	assert.InDelta(t, want.Z, got.Z, delta, "pz")
	assert.InDelta(t, want.T, got.T, delta, "e")
}

func TestEEToQQ_RequiresLeptonBeams(t *testing.T) {
	p := NewEEToQQ()
	err := p.Init(&evgen.Info{IDA: 2212, IDB: 2212})
	assert.ErrorIs(t, err, ErrLeptonBeamsRequired)

	err = p.Init(&evgen.Info{IDA: 11, IDB: 11})
	assert.ErrorIs(t, err, ErrLeptonBeamsRequired)

	assert.NoError(t, p.Init(&evgen.Info{IDA: 13, IDB: -13}))
}

func TestEEToQQ_ProcessRecord(t *testing.T) {
	s := evgen.DefaultSettings()
	s.PartonLevel = false
	g := newGenerator(t, s, defaultSet())

	for n := 0; n < 20; n++ {
		require.NoError(t, g.Next(context.Background()))

		proc := g.Process()
		require.Equal(t, 7, proc.Size())
		q, qbar := proc.At(5), proc.At(6)
		assert.Equal(t, -q.ID, qbar.ID)
		assert.True(t, q.ID >= 1 && q.ID <= 5, "flavour %d", q.ID)
		assert.Equal(t, 23, q.Status)
		assert.Equal(t, q.Col, qbar.Acol)
		assert.Equal(t, []int{5, 6}, proc.DaughterList(3))
		assert.Equal(t, []int{3, 4}, proc.MotherList(5))

		beams := proc.At(1).P.Add(proc.At(2).P)
		assertVecInDelta(t, beams, q.P.Add(qbar.P), 1e-9)
		assert.Empty(t, proc.CheckColours())

		assert.Equal(t, EEToQQCode, g.Info().Code)
	}
}

func TestEEToQQ_MaxFlavour(t *testing.T) {
	s := evgen.DefaultSettings()
	s.PartonLevel = false
	set := defaultSet()
	set.Process = NewEEToQQ(WithMaxFlavour(1))
	g := newGenerator(t, s, set)

	for n := 0; n < 10; n++ {
		require.NoError(t, g.Next(context.Background()))
		assert.Equal(t, 1, g.Process().At(5).ID)
	}
}

func TestEEToQQ_NoOpenFlavour(t *testing.T) {
	s := evgen.DefaultSettings()
	s.ECM = 0.5
	g := newGenerator(t, s, defaultSet())

	err := g.Next(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, evgen.ErrProcessFailed)
	assert.ErrorIs(t, err, ErrNoOpenFlavour)
}

func TestShower_PartonLevel(t *testing.T) {
	s := evgen.DefaultSettings()
	s.HadronLevel = false
	set := defaultSet()
	set.Shower = NewShower(WithEmissionProb(1), WithMaxEmissions(3))
	g := newGenerator(t, s, set)

	for n := 0; n < 20; n++ {
		require.NoError(t, g.Next(context.Background()))
		ev := g.Event()

		assert.Empty(t, ev.CheckColours())
		sum, charge := finalSum(ev)
		assertVecInDelta(t, ev.At(1).P.Add(ev.At(2).P), sum, 1e-6)
		assert.Zero(t, charge)

		gluons := 0
		for i := 1; i < ev.Size(); i++ {
			if p := ev.At(i); p.IsFinal() && p.IsGluon() {
				gluons++
			}
		}
		assert.LessOrEqual(t, gluons, 3)

		require.Equal(t, 1, ev.SizeSystems())
		for _, i := range ev.Members(0) {
			p := ev.At(i)
			assert.True(t, p.IsFinal() || p.Status == -21, "system member %d has status %d", i, p.Status)
		}
	}
}

func TestShower_NoEmissions(t *testing.T) {
	s := evgen.DefaultSettings()
	s.HadronLevel = false
	set := defaultSet()
	set.Shower = NewShower(WithMaxEmissions(0))
	g := newGenerator(t, s, set)

	require.NoError(t, g.Next(context.Background()))
	ev := g.Event()
	assert.Equal(t, g.Process().Size(), ev.Size())
	assert.Equal(t, g.Process().At(5).P, ev.At(5).P)
}

func TestShower_NoPartons(t *testing.T) {
	sh := NewShower()
	require.NoError(t, sh.Init(&evgen.Info{Seed: 1}))

	proc := event.New(species.Default())
	proc.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, event.Vec4{T: 10}, 10, 0)
	proc.AppendNew(22, 23, 0, 0, 0, 0, 0, 0, event.Vec4{Z: 5, T: 5}, 0, 0)
	proc.AppendNew(22, 23, 0, 0, 0, 0, 0, 0, event.Vec4{Z: -5, T: 5}, 0, 0)

	err := sh.Next(context.Background(), proc, event.New(species.Default()))
	assert.ErrorIs(t, err, ErrNoPartons)
}

// partonRecord returns a record with a system entry and the given live
// partons, colour-connected by the caller.
func partonRecord(svc species.Service, partons ...event.Particle) *event.Event {
	ev := event.New(svc)
	var sum event.Vec4
	for _, p := range partons {
		sum = sum.Add(p.P)
	}
	ev.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, sum, sum.MCalc(), 0)
	for _, p := range partons {
		ev.Append(p)
	}
	return ev
}

func newHadronizer(t *testing.T, opts ...HadronizerOption) *Hadronizer {
	t.Helper()
	h := NewHadronizer(opts...)
	require.NoError(t, h.Init(&evgen.Info{Seed: 7}))
	return h
}

func TestHadronizer_OpenColour(t *testing.T) {
	ev := partonRecord(species.Default(),
		event.NewParticle(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{Z: 5, T: 5}, 0, 0),
	)
	err := newHadronizer(t).Next(context.Background(), ev)

	var cerr *evgenerrors.ColourError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []int{101}, cerr.Open)
	assert.True(t, evgenerrors.IsRetryable(err))
}

func TestHadronizer_ClosedGluonLoop(t *testing.T) {
	ev := partonRecord(species.Default(),
		event.NewParticle(21, 23, 0, 0, 0, 0, 101, 102, event.Vec4{Z: 5, T: 5}, 0, 0),
		event.NewParticle(21, 23, 0, 0, 0, 0, 102, 101, event.Vec4{Z: -5, T: 5}, 0, 0),
	)
	err := newHadronizer(t).Next(context.Background(), ev)
	assert.ErrorIs(t, err, ErrClosedGluonLoop)
}

func TestHadronizer_Threshold(t *testing.T) {
	ev := partonRecord(species.Default(),
		event.NewParticle(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{Z: 0.05, T: 0.05}, 0, 0),
		event.NewParticle(-2, 23, 0, 0, 0, 0, 0, 101, event.Vec4{Z: -0.05, T: 0.05}, 0, 0),
	)
	err := newHadronizer(t).Next(context.Background(), ev)

	var terr *evgenerrors.ThresholdError
	require.ErrorAs(t, err, &terr)
	assert.InDelta(t, 0.1, terr.Mass, 1e-12)
	assert.True(t, evgenerrors.IsRetryable(err))
}

func TestHadronizer_NeutralPionFallback(t *testing.T) {
	// Between the pi0 pi0 and pi+ pi- thresholds.
	e := 0.1375
	ev := partonRecord(species.Default(),
		event.NewParticle(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{Z: e, T: e}, 0, 0),
		event.NewParticle(-2, 23, 0, 0, 0, 0, 0, 101, event.Vec4{Z: -e, T: e}, 0, 0),
	)
	require.NoError(t, newHadronizer(t, WithDecays(false)).Next(context.Background(), ev))

	var ids []int
	for i := 1; i < ev.Size(); i++ {
		if ev.At(i).IsFinal() {
			ids = append(ids, ev.At(i).ID)
		}
	}
	assert.Equal(t, []int{111, 111}, ids)
}

func TestHadronizer_ClusterHistory(t *testing.T) {
	ev := partonRecord(species.Default(),
		event.NewParticle(2, 23, 0, 0, 0, 0, 101, 0, event.Vec4{X: 1, Z: 3, T: 4}, 0.33, 0),
		event.NewParticle(21, 51, 0, 0, 0, 0, 102, 101, event.Vec4{X: -2, T: 3}, 0, 0),
		event.NewParticle(-1, 23, 0, 0, 0, 0, 0, 102, event.Vec4{X: 1, Z: -3, T: 4}, 0.33, 0),
	)
	before, _ := finalSum(ev)
	require.NoError(t, newHadronizer(t, WithDecays(false)).Next(context.Background(), ev))

	// Chain copies 4..6 in colour order, then the two hadrons.
	require.Equal(t, 9, ev.Size())
	assert.Equal(t, []int{2, 21, -1}, []int{ev.At(4).ID, ev.At(5).ID, ev.At(6).ID})
	for i := 4; i <= 6; i++ {
		assert.Equal(t, -statusChainCopy, ev.At(i).Status)
		assert.Equal(t, 7, ev.At(i).Daughter1)
		assert.Equal(t, 8, ev.At(i).Daughter2)
	}
	h1, h2 := ev.At(7), ev.At(8)
	assert.Equal(t, []int{211, 111}, []int{h1.ID, h2.ID}, "u dbar carries charge +1")
	assert.Equal(t, statusFirstHadron, h1.Status)
	assert.Equal(t, statusLastHadron, h2.Status)
	assert.Equal(t, []int{4, 5, 6}, ev.MotherList(7))

	after, charge := finalSum(ev)
	assertVecInDelta(t, before, after, 1e-9)
	assert.Equal(t, 3, charge)
}

func TestHadronizer_Pi0Decays(t *testing.T) {
	tbl := species.NewTable()
	tbl.MustAdd(species.Entry{ID: 11, Name: "e-", AntiName: "e+", SpinType: 2, ChargeType: -3, M0: 0.000511})
	tbl.MustAdd(species.Entry{ID: 22, Name: "gamma", AntiName: "void", SpinType: 3})
	tbl.MustAdd(species.Entry{ID: 111, Name: "pi0", AntiName: "void", SpinType: 1, M0: 0.13498, Tau0: 2.51e-5,
		Channels: []species.DecayChannel{
			{OnMode: 0, BRatio: 0.98798, Products: []int{22, 22}},
			{OnMode: 1, BRatio: 0.01198, MEMode: 11, Products: []int{22, 11, -11}},
		}})

	h := newHadronizer(t)
	for n := 0; n < 50; n++ {
		ev := event.New(tbl)
		ev.AppendNew(90, -11, 0, 0, 0, 0, 0, 0, event.Vec4{}, 0, 0)
		m := 0.13498
		pi := ev.AppendNew(111, 83, 0, 0, 0, 0, 0, 0, event.Vec4{Z: 2, T: math.Sqrt(4 + m*m)}, m, 0)
		ev.At(pi).VProd = event.Vec4{X: 1e-3}

		require.NoError(t, h.Next(context.Background(), ev))

		parent := ev.At(pi)
		require.Equal(t, -83, parent.Status)
		assert.Greater(t, parent.Tau, 0.0)
		assert.Equal(t, []int{2, 3, 4}, ev.DaughterList(pi))
		assert.Equal(t, []int{22, 11, -11}, []int{ev.At(2).ID, ev.At(3).ID, ev.At(4).ID})

		sum, charge := finalSum(ev)
		assertVecInDelta(t, parent.P, sum, 1e-9)
		assert.Zero(t, charge)
		assert.GreaterOrEqual(t, event.M(ev.At(3), ev.At(4)), 2*0.000511*(1-1e-6))
		for i := 2; i <= 4; i++ {
			assert.Equal(t, statusDecay, ev.At(i).Status)
			assert.Equal(t, parent.VDec(), ev.At(i).VProd)
		}
	}
}

func TestPickChannel(t *testing.T) {
	rng := newRand(1, 1)

	_, ok := pickChannel(rng, nil)
	assert.False(t, ok)

	_, ok = pickChannel(rng, []species.DecayChannel{{OnMode: 0, BRatio: 1, Products: []int{22, 22}}})
	assert.False(t, ok)

	channels := []species.DecayChannel{
		{OnMode: 1, BRatio: 0.75, Products: []int{22, 22}},
		{OnMode: 0, BRatio: 5, Products: []int{11, -11}},
		{OnMode: 1, BRatio: 0.25, Products: []int{22, 11, -11}},
	}
	counts := map[int]int{}
	for n := 0; n < 4000; n++ {
		c, ok := pickChannel(rng, channels)
		require.True(t, ok)
		counts[c.Multiplicity()]++
	}
	assert.Len(t, counts, 2, "disabled channel never chosen")
	assert.InDelta(t, 0.75, float64(counts[2])/4000, 0.05)
}

func TestTwoBody_Conservation(t *testing.T) {
	rng := newRand(3, 3)
	p := event.Vec4{X: 3, Y: -1, Z: 7, T: math.Sqrt(59 + 25)}
	for n := 0; n < 100; n++ {
		p1, p2 := twoBody(rng, p, 5, 0.14, 0.135)
		assertVecInDelta(t, p, p1.Add(p2), 1e-9)
		assert.InDelta(t, 0.14, p1.MCalc(), 1e-6)
		assert.InDelta(t, 0.135, p2.MCalc(), 1e-6)
	}
}

func TestPipeline_FullEvents(t *testing.T) {
	g := newGenerator(t, evgen.DefaultSettings(), defaultSet())

	allowed := map[int]bool{22: true, 11: true, -11: true, 211: true, -211: true}
	for n := 0; n < 50; n++ {
		require.NoError(t, g.Next(context.Background()))
		ev := g.Event()
		require.NoError(t, evgen.Check(ev, 1e-5))
		assert.Empty(t, ev.CheckColours())
		for i := 1; i < ev.Size(); i++ {
			if p := ev.At(i); p.IsFinal() {
				assert.True(t, allowed[p.ID], "unexpected final particle %d", p.ID)
			}
		}
	}
	assert.EqualValues(t, 50, g.Info().Accepted)

	var buf bytes.Buffer
	require.NoError(t, g.Statistics(&buf, true))
	out := buf.String()
	assert.Contains(t, out, "Process Statistics")
	assert.Contains(t, out, "Shower Statistics")
	assert.Contains(t, out, "Hadronization Statistics")
	assert.Contains(t, out, "accepted 50")
}

func TestPipeline_BoostedFrame(t *testing.T) {
	s := evgen.DefaultSettings()
	s.ECM = 0
	s.EA, s.EB = 60, 40
	g := newGenerator(t, s, defaultSet())

	for n := 0; n < 10; n++ {
		require.NoError(t, g.Next(context.Background()))
		sum, _ := finalSum(g.Event())
		assert.InDelta(t, 100, sum.T, 1e-6)
		assert.InDelta(t, 20, sum.Z, 1e-6)
	}
}

func TestPipeline_Deterministic(t *testing.T) {
	g1 := newGenerator(t, evgen.DefaultSettings(), defaultSet())
	g2 := newGenerator(t, evgen.DefaultSettings(), defaultSet())

	for n := 0; n < 5; n++ {
		require.NoError(t, g1.Next(context.Background()))
		require.NoError(t, g2.Next(context.Background()))
		assert.Equal(t, g1.Event().Particles(), g2.Event().Particles())
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.New(map[string]any{
		"process":       map[string]any{"max_flavour": 2},
		"shower":        map[string]any{"emission_prob": 0.25, "max_emissions": 1},
		"hadronization": map[string]any{"decays": false},
	})
	set := FromConfig(cfg)
	assert.Equal(t, 2, set.Process.maxFlavour)
	assert.InDelta(t, 0.25, set.Shower.emissionProb, 1e-12)
	assert.Equal(t, 1, set.Shower.maxEmissions)
	assert.False(t, set.Hadron.decays)

	set = FromConfig(config.New(nil))
	assert.Equal(t, 5, set.Process.maxFlavour)
	assert.Equal(t, 4, set.Shower.maxEmissions)
	assert.True(t, set.Hadron.decays)
}
