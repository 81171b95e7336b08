package event

// AppendRecord appends the particles of other, starting at index from, to
// the end of e and returns the index offset applied to them. History links
// above from-1 are shifted to the new positions and positive colour tags
// are moved above the tags already in use, so the two records can be built
// independently. Junctions and systems of other are carried along.
//
// Entries of other below from are not copied; particles must reference
// them only through index 0.
func (e *Event) AppendRecord(other *Event, from int) int {
	if from < 1 {
		from = 1
	}
	addHist := len(e.entries) - from
	addCol := e.maxColTag - other.startColTag
	if addCol < 0 {
		addCol = 0
	}

	for i := from; i < len(other.entries); i++ {
		p := other.entries[i]
		p.OffsetHistory(from-1, addHist, from-1, addHist)
		p.OffsetCol(addCol)
		e.Append(p)
	}

	for _, j := range other.junctions {
		for leg := 0; leg < 3; leg++ {
			if j.Col[leg] > 0 {
				j.Col[leg] += addCol
			}
			if j.EndCol[leg] > 0 {
				j.EndCol[leg] += addCol
			}
		}
		e.AppendJunction(j)
	}

	for k := range other.sizeSys {
		kNew := e.NewSystem()
		for j := 0; j < other.sizeSys[k]; j++ {
			i := other.MemberSys(k, j)
			if i >= from {
				i += addHist
			}
			e.AddToSystem(kNew, i)
		}
	}
	return addHist
}
