// Package event provides the particle event record: an append-only arena of
// particles whose history and colour relations are integer indices into the
// same arena, plus junction and parton-system bookkeeping.
//
// # Indices
//
// Index 0 is reserved for an entry representing the event as a whole.
// Indices are stable: once a particle is appended it is never moved, deleted
// or reused until the record is cleared. The only structural mutations are
// Append and Copy.
//
// # Bounds
//
// Traversal queries do not validate their arguments. Passing an index
// outside [0, Size()) panics with the usual slice bounds error; callers that
// cannot guarantee valid indices must check them first.
//
// # Thread Safety
//
// An Event is NOT safe for concurrent use. It is owned by one generator for
// the duration of one event attempt.
package event

import (
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// DefaultStartColTag is the colour tag below which no tags are handed out.
const DefaultStartColTag = 100

// Event is an ordered, indexed record of particles.
type Event struct {
	entries   []Particle
	junctions []Junction

	// Systems: members of system k are memberSys[beginSys[k] : beginSys[k]+sizeSys[k]].
	memberSys []int
	beginSys  []int
	sizeSys   []int

	header      string
	startColTag int
	maxColTag   int

	species species.Service
}

// Option configures an Event.
type Option func(*Event)

// WithHeader sets the header shown in listings, e.g. "(hard process)".
func WithHeader(h string) Option {
	return func(e *Event) {
		e.header = h
	}
}

// WithStartColTag sets the first colour tag base. Tags handed out by
// NextColTag start above it.
func WithStartColTag(tag int) Option {
	return func(e *Event) {
		if tag >= 0 {
			e.startColTag = tag
		}
	}
}

// WithCapacity preallocates room for n particles.
func WithCapacity(n int) Option {
	return func(e *Event) {
		if n > 0 {
			e.entries = make([]Particle, 0, n)
		}
	}
}

// New creates an empty event record. svc resolves species links of
// appended particles and may be nil, in which case names and charges are
// unknown.
func New(svc species.Service, opts ...Option) *Event {
	e := &Event{
		startColTag: DefaultStartColTag,
		species:     svc,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.entries == nil {
		e.entries = make([]Particle, 0, 500)
	}
	e.maxColTag = e.startColTag
	return e
}

// Species returns the species service used to link appended particles.
func (e *Event) Species() species.Service {
	return e.species
}

// Header returns the listing header.
func (e *Event) Header() string {
	return e.header
}

// SetHeader changes the listing header.
func (e *Event) SetHeader(h string) {
	e.header = h
}

// Clear empties the record, junctions and systems and resets colour tags.
// Capacity is kept so the record can be refilled without reallocation.
func (e *Event) Clear() {
	e.entries = e.entries[:0]
	e.junctions = e.junctions[:0]
	e.clearSystems()
	e.maxColTag = e.startColTag
}

// Size returns the number of particles, including the index 0 entry.
func (e *Event) Size() int {
	return len(e.entries)
}

// At returns a pointer to particle i. The pointer is invalidated by the
// next Append or Copy; hold indices, not pointers, across mutations.
func (e *Event) At(i int) *Particle {
	return &e.entries[i]
}

// Back returns a pointer to the last particle.
func (e *Event) Back() *Particle {
	return &e.entries[len(e.entries)-1]
}

// Particles returns the underlying slice. It must not be appended to.
func (e *Event) Particles() []Particle {
	return e.entries
}

// Append adds p at the end of the record and returns its index.
// Colour tags above the current maximum raise it.
func (e *Event) Append(p Particle) int {
	p.SetSpeciesLink(e.species)
	e.entries = append(e.entries, p)
	if p.Col > e.maxColTag {
		e.maxColTag = p.Col
	}
	if p.Acol > e.maxColTag {
		e.maxColTag = p.Acol
	}
	return len(e.entries) - 1
}

// AppendNew is Append for a particle built from its parts.
func (e *Event) AppendNew(id, status, mother1, mother2, daughter1, daughter2, col, acol int, p Vec4, m, scale float64) int {
	return e.Append(NewParticle(id, status, mother1, mother2, daughter1, daughter2, col, acol, p, m, scale))
}

// Copy appends a duplicate of particle i and returns the new index.
//
// For newStatus > 0 the copy becomes the daughter of the original: the
// original points to it as its only daughter and its status is negated.
// For newStatus < 0 the copy becomes the mother of the original: the
// original points to it as its only mother and keeps its status.
// For newStatus == 0 the copy is an exact duplicate and nothing is relinked.
func (e *Event) Copy(i, newStatus int) int {
	e.entries = append(e.entries, e.entries[i])
	iNew := len(e.entries) - 1

	switch {
	case newStatus > 0:
		e.entries[i].Daughters(iNew, iNew)
		e.entries[i].StatusNeg()
		e.entries[iNew].Mothers(i, i)
		e.entries[iNew].Status = newStatus
	case newStatus < 0:
		e.entries[i].Mothers(iNew, iNew)
		e.entries[iNew].Daughters(i, i)
		e.entries[iNew].Status = newStatus
	}
	return iNew
}

// SetID changes the species of particle i and re-resolves its species link.
func (e *Event) SetID(i, id int) {
	e.entries[i].ID = id
	e.entries[i].SetSpeciesLink(e.species)
}

// NextColTag returns a fresh colour tag.
func (e *Event) NextColTag() int {
	e.maxColTag++
	return e.maxColTag
}

// LastColTag returns the highest colour tag in use.
func (e *Event) LastColTag() int {
	return e.maxColTag
}

// InitColTag resets the colour tag counter to at least tag.
func (e *Event) InitColTag(tag int) {
	if tag < e.startColTag {
		tag = e.startColTag
	}
	e.maxColTag = tag
}

// StartColTag returns the configured colour tag base.
func (e *Event) StartColTag() int {
	return e.startColTag
}

// Bst boosts all particles, momenta and production vertices alike.
func (e *Event) Bst(betaX, betaY, betaZ, gamma float64) {
	for i := range e.entries {
		e.entries[i].Bst(betaX, betaY, betaZ, gamma)
	}
}

// FinalSum returns the summed four-momentum and charge of live particles.
func (e *Event) FinalSum() (Vec4, float64) {
	var pSum Vec4
	var charge float64
	for i := range e.entries {
		if e.entries[i].Status > 0 {
			pSum = pSum.Add(e.entries[i].P)
			charge += e.entries[i].Charge()
		}
	}
	return pSum, charge
}

// Relink re-resolves the species links of all particles, e.g. after
// unmarshalling a snapshot.
func (e *Event) Relink() {
	for i := range e.entries {
		e.entries[i].SetSpeciesLink(e.species)
	}
}
