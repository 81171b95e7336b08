package event

// Junction is a three-legged colour singlet, tracked next to the ordinary
// colour lines carried by particles. Kind distinguishes the junction
// topology; Col holds the original leg colours, EndCol the tags at the
// current ends of the legs, and Status a per-leg status code.
type Junction struct {
	Remains bool   `json:"remains"`
	Kind    int    `json:"kind"`
	Col     [3]int `json:"col"`
	EndCol  [3]int `json:"end_col"`
	Status  [3]int `json:"status"`
}

// NewJunction returns a live junction whose leg ends start at the leg colours.
func NewJunction(kind, col0, col1, col2 int) Junction {
	return Junction{
		Remains: true,
		Kind:    kind,
		Col:     [3]int{col0, col1, col2},
		EndCol:  [3]int{col0, col1, col2},
	}
}

// AppendJunction adds j and returns its index.
func (e *Event) AppendJunction(j Junction) int {
	e.junctions = append(e.junctions, j)
	return len(e.junctions) - 1
}

// SizeJunction returns the number of junctions.
func (e *Event) SizeJunction() int {
	return len(e.junctions)
}

// Junction returns a pointer to junction i.
func (e *Event) Junction(i int) *Junction {
	return &e.junctions[i]
}

// Junctions returns the underlying junction slice.
func (e *Event) Junctions() []Junction {
	return e.junctions
}

// EraseJunction removes junction i, shifting later junctions down by one.
func (e *Event) EraseJunction(i int) {
	copy(e.junctions[i:], e.junctions[i+1:])
	e.junctions = e.junctions[:len(e.junctions)-1]
}
