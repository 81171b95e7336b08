package event

import (
	"math"
	"strings"

	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// tiny guards the rapidity logarithms against a vanishing denominator.
const tiny = 1e-20

// Particle is one entry of an event record.
//
// History links (Mother1, Mother2, Daughter1, Daughter2) are indices into
// the same record, with 0 meaning none. Positive Status marks a particle
// that is still present in the event; a non-positive Status marks one that
// has been replaced or is kept for documentation.
type Particle struct {
	ID        int     `json:"id"`
	Status    int     `json:"status"`
	Mother1   int     `json:"mother1"`
	Mother2   int     `json:"mother2"`
	Daughter1 int     `json:"daughter1"`
	Daughter2 int     `json:"daughter2"`
	Col       int     `json:"col"`
	Acol      int     `json:"acol"`
	P         Vec4    `json:"p"`
	M         float64 `json:"m"`
	Scale     float64 `json:"scale"`
	VProd     Vec4    `json:"vprod"`
	Tau       float64 `json:"tau"`

	entry *species.Entry
}

// NewParticle returns a particle with the given identity, history, colours
// and kinematics. The species link is resolved when it is appended.
func NewParticle(id, status, mother1, mother2, daughter1, daughter2, col, acol int, p Vec4, m, scale float64) Particle {
	return Particle{
		ID:        id,
		Status:    status,
		Mother1:   mother1,
		Mother2:   mother2,
		Daughter1: daughter1,
		Daughter2: daughter2,
		Col:       col,
		Acol:      acol,
		P:         p,
		M:         m,
		Scale:     scale,
	}
}

// Mothers sets both mother indices.
func (p *Particle) Mothers(m1, m2 int) {
	p.Mother1, p.Mother2 = m1, m2
}

// Daughters sets both daughter indices.
func (p *Particle) Daughters(d1, d2 int) {
	p.Daughter1, p.Daughter2 = d1, d2
}

// Cols sets colour and anticolour.
func (p *Particle) Cols(col, acol int) {
	p.Col, p.Acol = col, acol
}

// StatusAbs returns the magnitude of the status code.
func (p *Particle) StatusAbs() int {
	if p.Status < 0 {
		return -p.Status
	}
	return p.Status
}

// StatusNeg makes the status non-positive.
func (p *Particle) StatusNeg() {
	p.Status = -p.StatusAbs()
}

// StatusPos makes the status non-negative.
func (p *Particle) StatusPos() {
	p.Status = p.StatusAbs()
}

// IsFinal reports whether the particle is currently live in the event.
func (p *Particle) IsFinal() bool {
	return p.Status > 0
}

// OffsetHistory adds addMother to mother indices above minMother and
// addDaughter to daughter indices above minDaughter. Nothing happens if
// either offset is negative.
func (p *Particle) OffsetHistory(minMother, addMother, minDaughter, addDaughter int) {
	if addMother < 0 || addDaughter < 0 {
		return
	}
	if p.Mother1 > minMother {
		p.Mother1 += addMother
	}
	if p.Mother2 > minMother {
		p.Mother2 += addMother
	}
	if p.Daughter1 > minDaughter {
		p.Daughter1 += addDaughter
	}
	if p.Daughter2 > minDaughter {
		p.Daughter2 += addDaughter
	}
}

// OffsetCol adds addCol to positive colour and anticolour tags.
// Nothing happens if the offset is negative.
func (p *Particle) OffsetCol(addCol int) {
	if addCol < 0 {
		return
	}
	if p.Col > 0 {
		p.Col += addCol
	}
	if p.Acol > 0 {
		p.Acol += addCol
	}
}

// SetSpeciesLink re-resolves the species entry from ID.
// It must be called whenever ID changes.
func (p *Particle) SetSpeciesLink(svc species.Service) {
	p.entry = nil
	if svc == nil {
		return
	}
	if e, ok := svc.Entry(p.ID); ok {
		p.entry = e
	}
}

// Species returns the linked species entry, or nil if unknown.
func (p *Particle) Species() *species.Entry {
	return p.entry
}

// Name returns the species name, or a placeholder for unknown ids.
func (p *Particle) Name() string {
	if p.entry == nil {
		return "unknown"
	}
	return p.entry.NameOf(p.ID)
}

// NameWithStatus returns the name, bracketed when the particle is not live,
// truncated to maxLen while keeping any closing bracket and charge suffix.
func (p *Particle) NameWithStatus(maxLen int) string {
	name := p.Name()
	if p.Status <= 0 {
		name = "(" + name + ")"
	}
	for len(name) > maxLen {
		i := strings.LastIndexFunc(name, func(r rune) bool {
			return !strings.ContainsRune(")+-0", r)
		})
		if i < 0 {
			break
		}
		name = name[:i] + name[i+1:]
	}
	return name
}

// Charge returns the electric charge in units of e.
func (p *Particle) Charge() float64 {
	if p.entry == nil {
		return 0.
	}
	return p.entry.Charge(p.ID)
}

// ChargeType returns three times the charge.
func (p *Particle) ChargeType() int {
	if p.entry == nil {
		return 0
	}
	return p.entry.ChargeTypeOf(p.ID)
}

// ColType returns the colour type of the species.
func (p *Particle) ColType() int {
	if p.entry == nil {
		return 0
	}
	return p.entry.ColTypeOf(p.ID)
}

// IsQuark reports whether the particle is a quark or antiquark.
func (p *Particle) IsQuark() bool {
	return p.entry != nil && p.entry.IsQuark()
}

// IsGluon reports whether the particle is a gluon.
func (p *Particle) IsGluon() bool {
	return p.entry != nil && p.entry.IsGluon()
}

// IsHadron reports whether the particle is a hadron.
func (p *Particle) IsHadron() bool {
	return p.entry != nil && p.entry.IsHadron()
}

// M2 returns the stored mass squared, signed.
func (p *Particle) M2() float64 {
	if p.M >= 0 {
		return p.M * p.M
	}
	return -p.M * p.M
}

// PT returns the transverse momentum.
func (p *Particle) PT() float64 { return p.P.PT() }

// PT2 returns the transverse momentum squared.
func (p *Particle) PT2() float64 { return p.P.PT2() }

// PAbs returns the three-momentum magnitude.
func (p *Particle) PAbs() float64 { return p.P.PAbs() }

// MT2 returns the transverse mass squared.
func (p *Particle) MT2() float64 {
	return p.M2() + p.P.PT2()
}

// MT returns the transverse mass, negative if the square is.
func (p *Particle) MT() float64 {
	mt2 := p.MT2()
	if mt2 >= 0 {
		return math.Sqrt(mt2)
	}
	return -math.Sqrt(-mt2)
}

// Theta returns the polar angle.
func (p *Particle) Theta() float64 { return p.P.Theta() }

// Phi returns the azimuthal angle.
func (p *Particle) Phi() float64 { return p.P.Phi() }

// Y returns the rapidity.
func (p *Particle) Y() float64 {
	y := math.Log((p.P.T + math.Abs(p.P.Z)) / math.Max(tiny, p.MT()))
	if p.P.Z > 0 {
		return y
	}
	return -y
}

// Eta returns the pseudorapidity.
func (p *Particle) Eta() float64 {
	eta := math.Log((p.P.PAbs() + math.Abs(p.P.Z)) / math.Max(tiny, p.P.PT()))
	if p.P.Z > 0 {
		return eta
	}
	return -eta
}

// VDec returns the decay vertex: production vertex plus tau times p/m.
func (p *Particle) VDec() Vec4 {
	if p.Tau <= 0 || p.M <= 0 {
		return p.VProd
	}
	return p.VProd.Add(p.P.Scale(p.Tau / p.M))
}

// HasVertex reports whether a production vertex has been set.
func (p *Particle) HasVertex() bool {
	return p.VProd != Vec4{}
}

// IsFiniteKinematics reports whether momentum, energy and mass are finite.
func (p *Particle) IsFiniteKinematics() bool {
	return p.P.IsFinite() && finite(p.M)
}

// Bst boosts momentum and production vertex.
func (p *Particle) Bst(betaX, betaY, betaZ, gamma float64) {
	p.P = p.P.Bst(betaX, betaY, betaZ, gamma)
	p.VProd = p.VProd.Bst(betaX, betaY, betaZ, gamma)
}

// M returns the invariant mass of a pair of particles, zero if spacelike.
func M(p1, p2 *Particle) float64 {
	m2 := M2(p1, p2)
	if m2 > 0 {
		return math.Sqrt(m2)
	}
	return 0.
}

// M2 returns the invariant mass squared of a pair of particles.
func M2(p1, p2 *Particle) float64 {
	return p1.P.Add(p2.P).M2Calc()
}
