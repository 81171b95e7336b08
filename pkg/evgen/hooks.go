package evgen

import "github.com/randalmurphal/evgen/pkg/evgen/event"

// Hooks lets users inspect intermediate records and veto them.
type Hooks interface {
	// VetoProcessLevel is called after the process stage. Returning true
	// aborts the event with ErrProcessVetoed.
	VetoProcessLevel(process *event.Event) bool

	// VetoPartonLevel is called after the parton stage, before any boost.
	// Returning true discards the attempt and retries.
	VetoPartonLevel(ev *event.Event) bool
}

// HookFuncs adapts plain functions to Hooks. Nil fields never veto.
type HookFuncs struct {
	ProcessLevel func(process *event.Event) bool
	PartonLevel  func(ev *event.Event) bool
}

// VetoProcessLevel implements Hooks.
func (h HookFuncs) VetoProcessLevel(process *event.Event) bool {
	return h.ProcessLevel != nil && h.ProcessLevel(process)
}

// VetoPartonLevel implements Hooks.
func (h HookFuncs) VetoPartonLevel(ev *event.Event) bool {
	return h.PartonLevel != nil && h.PartonLevel(ev)
}
