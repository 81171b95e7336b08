package evgen

import (
	"github.com/randalmurphal/evgen/pkg/evgen/config"
	"github.com/randalmurphal/evgen/pkg/evgen/event"
)

// Settings holds the tunable constants of a generator. It is passed in at
// construction; nothing is read from process-wide state.
type Settings struct {
	// PartonLevel enables the parton stage. When false only the hard
	// process is generated.
	PartonLevel bool
	// HadronLevel enables the hadron stage.
	HadronLevel bool
	// CheckEvent enables the validity check of finished events.
	CheckEvent bool

	// NErrList is how many failed checks are reported in detail.
	NErrList int
	// EPTolerance is the tolerated four-momentum deviation as a fraction
	// of the lab energy.
	EPTolerance float64
	// MaxTries bounds the parton/hadron attempts per event.
	MaxTries int
	// StartColTag is the colour tag base of new records.
	StartColTag int

	// IDA and IDB are the beam species.
	IDA, IDB int
	// EA and EB are the beam energies, used when ECM is not positive.
	EA, EB float64
	// ECM is the centre-of-mass energy for collinear, opposite beams.
	ECM float64

	// Seed seeds the random streams of the stages.
	Seed uint64
}

// DefaultSettings returns e+ e- collisions at the Z pole with all stages
// and the validity check enabled.
func DefaultSettings() Settings {
	return Settings{
		PartonLevel: true,
		HadronLevel: true,
		CheckEvent:  true,
		NErrList:    3,
		EPTolerance: 1e-5,
		MaxTries:    10,
		StartColTag: event.DefaultStartColTag,
		IDA:         11,
		IDB:         -11,
		ECM:         91.188,
		Seed:        19780503,
	}
}

// SettingsFromConfig overlays cfg on DefaultSettings. Beam keys are read
// from a "beams" section when present, otherwise from the top level.
//
// Keys: parton_level, hadron_level, check_event, n_err_list, ep_tolerance,
// max_tries, start_col_tag, seed, and beam_a, beam_b, e_a, e_b, e_cm.
func SettingsFromConfig(cfg config.Config) Settings {
	s := DefaultSettings()

	s.PartonLevel = cfg.Bool("parton_level", s.PartonLevel)
	s.HadronLevel = cfg.Bool("hadron_level", s.HadronLevel)
	s.CheckEvent = cfg.Bool("check_event", s.CheckEvent)
	s.NErrList = cfg.Int("n_err_list", s.NErrList)
	s.EPTolerance = cfg.Float("ep_tolerance", s.EPTolerance)
	s.MaxTries = cfg.Int("max_tries", s.MaxTries)
	s.StartColTag = cfg.Int("start_col_tag", s.StartColTag)
	s.Seed = cfg.Uint64("seed", s.Seed)

	beams := cfg
	if cfg.Has("beams") {
		beams = cfg.Sub("beams")
	}
	s.IDA = beams.Int("beam_a", s.IDA)
	s.IDB = beams.Int("beam_b", s.IDB)
	s.EA = beams.Float("e_a", s.EA)
	s.EB = beams.Float("e_b", s.EB)
	s.ECM = beams.Float("e_cm", s.ECM)
	// Explicit beam energies without e_cm select unequal beams.
	if (beams.Has("e_a") || beams.Has("e_b")) && !beams.Has("e_cm") {
		s.ECM = 0
	}

	return s
}

// normalize replaces out-of-range values with defaults.
func (s *Settings) normalize() {
	d := DefaultSettings()
	if s.MaxTries <= 0 {
		s.MaxTries = d.MaxTries
	}
	if s.NErrList < 0 {
		s.NErrList = 0
	}
	if s.EPTolerance <= 0 {
		s.EPTolerance = d.EPTolerance
	}
	if s.StartColTag < 0 {
		s.StartColTag = d.StartColTag
	}
}
