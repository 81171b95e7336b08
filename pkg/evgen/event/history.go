package event

// MotherList returns the mothers of particle i in ascending order.
//
// Status 11 (the event as a whole) has no mothers. A zero or repeated
// second index means a single mother. For status magnitudes 81-89 the two
// indices bound an inclusive range of mothers from a combined
// fragmentation; otherwise they are two separate mothers.
func (e *Event) MotherList(i int) []int {
	p := &e.entries[i]
	m1, m2 := p.Mother1, p.Mother2

	switch {
	case p.StatusAbs() == 11:
		return []int{}
	case m1 == 0 && m2 == 0:
		return []int{0}
	case m2 == 0 || m2 == m1:
		return []int{m1}
	case p.StatusAbs() > 80 && p.StatusAbs() < 90:
		mothers := make([]int, 0, m2-m1+1)
		for j := m1; j <= m2; j++ {
			mothers = append(mothers, j)
		}
		return mothers
	default:
		return []int{min(m1, m2), max(m1, m2)}
	}
}

// DaughterList returns the daughters of particle i.
//
// A range Daughter1..Daughter2 is expanded in ascending order; two separate
// daughters stored with Daughter2 < Daughter1 are returned as
// (Daughter2, Daughter1). Incoming beams (status magnitude 12 or 13) also
// collect every later particle whose Mother1 is i, such as extra initiators
// and remnants appended after the hard process.
func (e *Event) DaughterList(i int) []int {
	p := &e.entries[i]
	d1, d2 := p.Daughter1, p.Daughter2

	var daughters []int
	switch {
	case d1 == 0 && d2 == 0:
		daughters = []int{}
	case d2 == 0 || d2 == d1:
		daughters = []int{d1}
	case d2 > d1:
		daughters = make([]int, 0, d2-d1+1)
		for j := d1; j <= d2; j++ {
			daughters = append(daughters, j)
		}
	default:
		daughters = []int{d2, d1}
	}

	if sa := p.StatusAbs(); sa == 12 || sa == 13 {
		for j := i + 1; j < len(e.entries); j++ {
			if e.entries[j].Mother1 == i && !contains(daughters, j) {
				daughters = append(daughters, j)
			}
		}
	}
	return daughters
}

// TopCopy follows carbon-copy links upwards (single mother, Mother1 ==
// Mother2 > 0) and returns the earliest index of the same particle.
func (e *Event) TopCopy(i int) int {
	iUp := i
	for iUp > 0 {
		p := &e.entries[iUp]
		if p.Mother1 <= 0 || p.Mother2 != p.Mother1 {
			break
		}
		iUp = p.Mother1
	}
	return iUp
}

// BotCopy follows carbon-copy links downwards (single daughter, Daughter1
// == Daughter2 > 0) and returns the latest index of the same particle.
func (e *Event) BotCopy(i int) int {
	iDn := i
	for iDn > 0 {
		p := &e.entries[iDn]
		if p.Daughter1 <= 0 || p.Daughter2 != p.Daughter1 {
			break
		}
		iDn = p.Daughter1
	}
	return iDn
}

// TopCopyID is TopCopy that also passes through shower branchings,
// following the mother with the same species id. It stops when both
// mothers carry the same id or neither matches.
func (e *Event) TopCopyID(i int) int {
	id := e.entries[i].ID
	iUp := i
	for {
		m1, m2 := e.entries[iUp].Mother1, e.entries[iUp].Mother2
		id1, id2 := e.idAt(m1), e.idAt(m2)
		if m2 != m1 && id2 == id1 {
			return iUp
		}
		switch {
		case m1 > 0 && id == id1:
			iUp = m1
		case m2 > 0 && id == id2:
			iUp = m2
		default:
			return iUp
		}
	}
}

// BotCopyID is BotCopy that also passes through shower branchings,
// following the daughter with the same species id. It stops when both
// daughters carry the same id or neither matches.
func (e *Event) BotCopyID(i int) int {
	id := e.entries[i].ID
	iDn := i
	for {
		d1, d2 := e.entries[iDn].Daughter1, e.entries[iDn].Daughter2
		id1, id2 := e.idAt(d1), e.idAt(d2)
		if d2 != d1 && id2 == id1 {
			return iDn
		}
		switch {
		case d1 > 0 && id == id1:
			iDn = d1
		case d2 > 0 && id == id2:
			iDn = d2
		default:
			return iDn
		}
	}
}

// idAt returns the id at a history index, 0 for no link.
func (e *Event) idAt(i int) int {
	if i <= 0 {
		return 0
	}
	return e.entries[i].ID
}

// SisterList returns the other daughters of the mother of particle i.
func (e *Event) SisterList(i int) []int {
	sisters := []int{}
	if e.entries[i].StatusAbs() == 11 {
		return sisters
	}
	for _, d := range e.DaughterList(e.entries[i].Mother1) {
		if d != i {
			sisters = append(sisters, d)
		}
	}
	return sisters
}

// SisterListTopBot returns the live sisters of particle i at the same level
// of evolution: i is traced to its top copy, the other daughters of that
// copy's mother are traced to their bottom copies, and non-final ones are
// dropped. If nothing remains and widenSearch is set, the immediate
// daughters are expanded recursively and all live descendants returned.
func (e *Event) SisterListTopBot(i int, widenSearch bool) []int {
	sisters := []int{}
	if e.entries[i].StatusAbs() == 11 {
		return sisters
	}

	iUp := e.TopCopy(i)
	daughters := e.DaughterList(e.entries[iUp].Mother1)
	for _, d := range daughters {
		if d != iUp {
			sisters = append(sisters, e.BotCopy(d))
		}
	}
	sisters = e.keepFinal(sisters)
	if len(sisters) > 0 || !widenSearch {
		return sisters
	}

	// Widen: walk the whole subtree below the immediate sisters.
	seen := make(map[int]bool)
	var queue []int
	for _, d := range daughters {
		if d != iUp && !seen[d] {
			seen[d] = true
			queue = append(queue, d)
		}
	}
	for j := 0; j < len(queue); j++ {
		for _, d := range e.DaughterList(queue[j]) {
			if !seen[d] {
				seen[d] = true
				queue = append(queue, d)
			}
		}
	}
	return e.keepFinal(queue)
}

// keepFinal filters indices to live particles, preserving order.
func (e *Event) keepFinal(list []int) []int {
	out := list[:0]
	for _, j := range list {
		if e.entries[j].Status > 0 {
			out = append(out, j)
		}
	}
	return out
}

// IsAncestor reports whether iAncestor lies on the mother chain of i.
//
// Single-mother links are followed transparently. Where there are several
// mothers, tracing only continues for fragmentation products (status
// magnitude 81-86). String hadrons are tied only to the string end they
// were produced from, and only when first-rank: status 83 hadrons trace to
// Mother1 if no hadron with the same mothers sits directly before them,
// status 84 hadrons trace to Mother2 if none sits directly after. Other
// fragmentation products follow Mother1. Junction topologies are not
// traced; any other multi-mother particle ends the search.
func (e *Event) IsAncestor(i, iAncestor int) bool {
	iUp := i
	for {
		if iUp == iAncestor {
			return true
		}
		if iUp <= 0 || iUp >= len(e.entries) {
			return false
		}

		p := &e.entries[iUp]
		m1, m2 := p.Mother1, p.Mother2
		if m2 == m1 || m2 == 0 {
			iUp = m1
			continue
		}

		status := p.StatusAbs()
		if status < 81 || status > 86 {
			return false
		}
		switch status {
		case 83:
			if iUp > 1 && e.entries[iUp-1].Mother1 == m1 {
				return false
			}
			iUp = m1
		case 84:
			if iUp+1 < len(e.entries) && e.entries[iUp+1].Mother1 == m1 {
				return false
			}
			iUp = m2
		default:
			iUp = m1
		}
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
