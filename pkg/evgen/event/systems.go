package event

// Parton systems group the indices belonging to one subcollision. They are
// stored flat: the members of system k are
// memberSys[beginSys[k] : beginSys[k]+sizeSys[k]], and the systems follow
// each other without gaps.

func (e *Event) clearSystems() {
	e.memberSys = e.memberSys[:0]
	e.beginSys = e.beginSys[:0]
	e.sizeSys = e.sizeSys[:0]
}

// NewSystem opens an empty system after the existing ones and returns its index.
func (e *Event) NewSystem() int {
	e.beginSys = append(e.beginSys, len(e.memberSys))
	e.sizeSys = append(e.sizeSys, 0)
	return len(e.sizeSys) - 1
}

// SizeSystems returns the number of systems.
func (e *Event) SizeSystems() int {
	return len(e.sizeSys)
}

// SizeSys returns the number of members of system k.
func (e *Event) SizeSys(k int) int {
	return e.sizeSys[k]
}

// BeginSys returns the offset of system k in the flat member list.
func (e *Event) BeginSys(k int) int {
	return e.beginSys[k]
}

// MemberSys returns member j of system k.
func (e *Event) MemberSys(k, j int) int {
	return e.memberSys[e.beginSys[k]+j]
}

// Members returns a copy of the members of system k.
func (e *Event) Members(k int) []int {
	begin := e.beginSys[k]
	return append([]int(nil), e.memberSys[begin:begin+e.sizeSys[k]]...)
}

// AddToSystem appends particle index i as the newest member of system k.
// Members of later systems move up one slot to make room.
func (e *Event) AddToSystem(k, i int) {
	pos := e.beginSys[k] + e.sizeSys[k]
	e.memberSys = append(e.memberSys, 0)
	copy(e.memberSys[pos+1:], e.memberSys[pos:])
	e.memberSys[pos] = i
	e.sizeSys[k]++
	for k2 := k + 1; k2 < len(e.beginSys); k2++ {
		e.beginSys[k2]++
	}
}

// ReplaceInSystem swaps member iOld of system k for iNew, typically after
// the particle was copied forward. It reports whether iOld was found.
func (e *Event) ReplaceInSystem(k, iOld, iNew int) bool {
	begin := e.beginSys[k]
	for j := begin; j < begin+e.sizeSys[k]; j++ {
		if e.memberSys[j] == iOld {
			e.memberSys[j] = iNew
			return true
		}
	}
	return false
}
