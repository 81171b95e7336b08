package event

import "sort"

// CheckColours returns the colour tags that are not closed, in ascending
// order. A tag is closed when exactly one colour and one anticolour end
// carry it. Live particles count as they are; incoming partons (status
// -21) count with colour and anticolour exchanged, since they flow into
// the event. Legs of remaining junctions close tags as anticolour ends
// (odd kind) or colour ends (even kind).
func (e *Event) CheckColours() []int {
	cols := make(map[int]int)
	acols := make(map[int]int)

	for i := range e.entries {
		p := &e.entries[i]
		switch {
		case p.Status > 0:
			if p.Col > 0 {
				cols[p.Col]++
			}
			if p.Acol > 0 {
				acols[p.Acol]++
			}
		case p.Status == -21:
			if p.Acol > 0 {
				cols[p.Acol]++
			}
			if p.Col > 0 {
				acols[p.Col]++
			}
		}
	}

	for _, j := range e.junctions {
		if !j.Remains {
			continue
		}
		for leg := 0; leg < 3; leg++ {
			tag := j.EndCol[leg]
			if tag <= 0 {
				continue
			}
			if j.Kind%2 == 1 {
				acols[tag]++
			} else {
				cols[tag]++
			}
		}
	}

	open := []int{}
	for tag, n := range cols {
		if n != 1 || acols[tag] != 1 {
			open = append(open, tag)
		}
	}
	for tag := range acols {
		if _, ok := cols[tag]; !ok {
			open = append(open, tag)
		}
	}
	sort.Ints(open)
	return open
}
