// Package species provides the particle species metadata consumed by the
// event record and the generation pipeline.
//
// A Service answers lookups by signed species id: static properties such as
// mass, width, charge and colour type, plus Breit-Wigner mass sampling.
// The generator only queries a Service; entries are added during setup.
package species

import "math"

// DecayChannel is one decay mode of a species.
type DecayChannel struct {
	OnMode   int     `yaml:"on_mode" json:"on_mode"`
	BRatio   float64 `yaml:"bratio" json:"bratio"`
	MEMode   int     `yaml:"me_mode" json:"me_mode"`
	Products []int   `yaml:"products" json:"products"`
}

// Multiplicity returns the number of decay products.
func (c DecayChannel) Multiplicity() int {
	return len(c.Products)
}

// Contains reports whether id appears among the products.
func (c DecayChannel) Contains(id int) bool {
	for _, p := range c.Products {
		if p == id {
			return true
		}
	}
	return false
}

// Entry holds the static data of one species. It is stored under the
// absolute value of the id; the antiparticle shares the entry.
type Entry struct {
	ID         int            `yaml:"id"`
	Name       string         `yaml:"name"`
	AntiName   string         `yaml:"anti_name"`
	SpinType   int            `yaml:"spin_type"`
	ChargeType int            `yaml:"charge_type"` // in units of e/3
	ColType    int            `yaml:"col_type"`    // 0 singlet, 1 triplet, -1 antitriplet, 2 octet
	M0         float64        `yaml:"m0"`
	MWidth     float64        `yaml:"m_width"`
	MMin       float64        `yaml:"m_min"`
	MMax       float64        `yaml:"m_max"`
	Tau0       float64        `yaml:"tau0"`
	Channels   []DecayChannel `yaml:"channels"`

	// Breit-Wigner state, prepared by initBW.
	useBW   bool
	atanLow float64
	atanDif float64
}

// HasAnti reports whether a distinct antiparticle exists.
func (e *Entry) HasAnti() bool {
	return e.AntiName != "" && e.AntiName != "void"
}

// NameOf returns the particle or antiparticle name depending on the sign of id.
func (e *Entry) NameOf(id int) string {
	if id < 0 && e.HasAnti() {
		return e.AntiName
	}
	return e.Name
}

// ChargeTypeOf returns three times the charge for the signed id.
func (e *Entry) ChargeTypeOf(id int) int {
	if id < 0 {
		return -e.ChargeType
	}
	return e.ChargeType
}

// Charge returns the electric charge for the signed id, in units of e.
func (e *Entry) Charge(id int) float64 {
	return float64(e.ChargeTypeOf(id)) / 3.
}

// ColTypeOf returns the colour type for the signed id. Octets are self-conjugate.
func (e *Entry) ColTypeOf(id int) int {
	if e.ColType == 2 || id > 0 {
		return e.ColType
	}
	return -e.ColType
}

// CanDecay reports whether the entry has any decay channels.
func (e *Entry) CanDecay() bool {
	return len(e.Channels) > 0
}

// IsLepton reports whether the entry is a charged or neutral lepton.
func (e *Entry) IsLepton() bool { return e.ID > 10 && e.ID < 19 }

// IsQuark reports whether the entry is a quark.
func (e *Entry) IsQuark() bool { return e.ID != 0 && e.ID < 9 }

// IsGluon reports whether the entry is the gluon.
func (e *Entry) IsGluon() bool { return e.ID == 21 }

// IsDiquark reports whether the entry is a diquark.
func (e *Entry) IsDiquark() bool {
	return e.ID > 1000 && e.ID < 10000 && (e.ID/10)%10 == 0
}

// IsHadron reports whether the entry is a meson or baryon.
func (e *Entry) IsHadron() bool {
	if e.ID <= 100 || (e.ID >= 1000000 && e.ID <= 9000000) || e.ID >= 9900000 {
		return false
	}
	if e.ID == 130 || e.ID == 310 {
		return true
	}
	if e.ID%10 == 0 || (e.ID/10)%10 == 0 || (e.ID/100)%10 == 0 {
		return false
	}
	return true
}

// initBW prepares the atan mapping used for Breit-Wigner sampling.
// Narrow or unbounded states always return their nominal mass.
func (e *Entry) initBW() {
	e.useBW = false
	if e.MWidth < narrowMass || e.MMax <= e.MMin {
		return
	}
	e.useBW = true
	e.atanLow = math.Atan(2. * (e.MMin - e.M0) / e.MWidth)
	e.atanDif = math.Atan(2.*(e.MMax-e.M0)/e.MWidth) - e.atanLow
}

// UseBreitWigner reports whether SampleMass draws from a Breit-Wigner.
func (e *Entry) UseBreitWigner() bool {
	return e.useBW
}

// narrowMass is the width below which a state is treated as stable in mass.
const narrowMass = 1e-6

// Properties is the value returned by Service.Lookup.
type Properties struct {
	IsKnown  bool
	Name     string
	Mass     float64
	Width    float64
	MassMin  float64
	MassMax  float64
	Lifetime float64
	Charge   float64
	ColType  int
	SpinType int
	Channels []DecayChannel
}

// Service is the read-only species lookup used during generation.
type Service interface {
	// Entry returns the entry for a signed id, or false when the id is
	// unknown or names an antiparticle the species does not have.
	Entry(id int) (*Entry, bool)

	// Lookup returns the properties of a signed id.
	Lookup(id int) Properties

	// SampleMass draws a mass for id according to its Breit-Wigner,
	// respecting the configured mass window.
	SampleMass(id int) float64
}
