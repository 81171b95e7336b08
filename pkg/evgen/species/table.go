package species

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
)

// Rand is the random source used for mass sampling.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Table is a thread-safe species table indexed by absolute id.
// It uses sync.RWMutex since lookups vastly outnumber updates.
type Table struct {
	mu      sync.RWMutex
	entries map[int]*Entry
	rng     Rand
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithRand sets the random source for Breit-Wigner sampling.
func WithRand(r Rand) TableOption {
	return func(t *Table) {
		if r != nil {
			t.rng = r
		}
	}
}

// WithSeed seeds a private PCG source for Breit-Wigner sampling.
func WithSeed(seed uint64) TableOption {
	return func(t *Table) {
		t.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewTable creates an empty table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		entries: make(map[int]*Entry),
		rng:     rand.New(rand.NewPCG(1, 2)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add inserts or replaces an entry. The id sign is ignored.
func (t *Table) Add(e Entry) error {
	if e.ID == 0 {
		return fmt.Errorf("species: id 0 is reserved")
	}
	e.ID = abs(e.ID)
	if e.MMax > 0 && e.MMin > e.MMax {
		return fmt.Errorf("species: %d has m_min %g above m_max %g", e.ID, e.MMin, e.MMax)
	}
	e.initBW()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[e.ID] = &e
	return nil
}

// MustAdd adds an entry, panicking on error. Intended for static setup.
func (t *Table) MustAdd(e Entry) {
	if err := t.Add(e); err != nil {
		panic(err)
	}
}

// Entry implements Service.
func (t *Table) Entry(id int) (*Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[abs(id)]
	if !ok {
		return nil, false
	}
	if id < 0 && !e.HasAnti() {
		return nil, false
	}
	return e, true
}

// IsParticle reports whether id names a known particle or antiparticle.
func (t *Table) IsParticle(id int) bool {
	_, ok := t.Entry(id)
	return ok
}

// Lookup implements Service.
func (t *Table) Lookup(id int) Properties {
	e, ok := t.Entry(id)
	if !ok {
		return Properties{}
	}
	return Properties{
		IsKnown:  true,
		Name:     e.NameOf(id),
		Mass:     e.M0,
		Width:    e.MWidth,
		MassMin:  e.MMin,
		MassMax:  e.MMax,
		Lifetime: e.Tau0,
		Charge:   e.Charge(id),
		ColType:  e.ColTypeOf(id),
		SpinType: e.SpinType,
		Channels: e.Channels,
	}
}

// SampleMass implements Service. Unknown ids give zero; species without
// a usable width give their nominal mass.
func (t *Table) SampleMass(id int) float64 {
	e, ok := t.Entry(id)
	if !ok {
		return 0.
	}
	if !e.useBW {
		return e.M0
	}
	t.mu.Lock()
	r := t.rng.Float64()
	t.mu.Unlock()
	return e.M0 + 0.5*e.MWidth*math.Tan(e.atanLow+e.atanDif*r)
}

// IDs returns all stored absolute ids in ascending order.
func (t *Table) IDs() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of stored species.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Compile-time interface check.
var _ Service = (*Table)(nil)

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
