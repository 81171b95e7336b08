package stages

import (
	"github.com/randalmurphal/evgen/pkg/evgen/config"
)

// Set holds one stage of each kind, ready for evgen.New.
type Set struct {
	Process *EEToQQ
	Shower  *Shower
	Hadron  *Hadronizer
}

// FromConfig builds the stages from the "process", "shower" and
// "hadronization" sections of cfg. Missing keys keep their defaults:
//
//	process:
//	  max_flavour: 5
//	shower:
//	  emission_prob: 0.6
//	  max_emissions: 4
//	hadronization:
//	  decays: true
func FromConfig(cfg config.Config) Set {
	proc := cfg.Sub("process")
	shower := cfg.Sub("shower")
	had := cfg.Sub("hadronization")

	return Set{
		Process: NewEEToQQ(
			WithMaxFlavour(proc.Int("max_flavour", 5)),
		),
		Shower: NewShower(
			WithEmissionProb(shower.Float("emission_prob", 0.6)),
			WithMaxEmissions(shower.Int("max_emissions", 4)),
		),
		Hadron: NewHadronizer(
			WithDecays(had.Bool("decays", true)),
		),
	}
}
