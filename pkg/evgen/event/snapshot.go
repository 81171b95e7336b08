package event

import "encoding/json"

// snapshot is the serialized form of an Event. Species links are not
// stored; they are resolved again from the ids.
type snapshot struct {
	Header      string     `json:"header"`
	StartColTag int        `json:"start_col_tag"`
	MaxColTag   int        `json:"max_col_tag"`
	Particles   []Particle `json:"particles"`
	Junctions   []Junction `json:"junctions,omitempty"`
	MemberSys   []int      `json:"member_sys,omitempty"`
	BeginSys    []int      `json:"begin_sys,omitempty"`
	SizeSys     []int      `json:"size_sys,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Header:      e.header,
		StartColTag: e.startColTag,
		MaxColTag:   e.maxColTag,
		Particles:   e.entries,
		Junctions:   e.junctions,
		MemberSys:   e.memberSys,
		BeginSys:    e.beginSys,
		SizeSys:     e.sizeSys,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The receiver keeps its
// species service, which is used to relink the decoded particles.
func (e *Event) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	e.header = s.Header
	e.startColTag = s.StartColTag
	e.maxColTag = s.MaxColTag
	e.entries = s.Particles
	e.junctions = s.Junctions
	e.memberSys = s.MemberSys
	e.beginSys = s.BeginSys
	e.sizeSys = s.SizeSys
	e.Relink()
	return nil
}
