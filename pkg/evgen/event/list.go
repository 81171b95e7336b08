package event

import (
	"fmt"
	"io"
	"strings"
)

// indicesPerLine bounds the index expansion lines of a listing.
const indicesPerLine = 20

// ListOptions selects the optional lines of List.
type ListOptions struct {
	// ScaleAndVertex adds a line with scale, production vertex and lifetime.
	ScaleAndVertex bool
	// MothersAndDaughters adds the expanded mother and daughter lists.
	MothersAndDaughters bool
}

// List writes a fixed-column listing of the record followed by the charge
// and momentum sums of live particles.
func (e *Event) List(w io.Writer, opts ListOptions) error {
	lw := &listWriter{w: w}

	lw.printf("\n --------  Event Listing  %s----------"+
		"------------------------------------------------- \n \n    no    "+
		"    id   name            status     mothers   daughters     colou"+
		"rs      p_x        p_y        p_z         e          m \n", e.header)
	if opts.ScaleAndVertex {
		lw.printf("                                    scale                      " +
			"                   xProd      yProd      zProd      tProd      " +
			" tau\n")
	}

	for i := range e.entries {
		p := &e.entries[i]
		lw.printf("%6d%10d   %-18s%4d%6d%6d%6d%6d%6d%6d%11.3f%11.3f%11.3f%11.3f%11.3f\n",
			i, p.ID, p.NameWithStatus(18), p.Status, p.Mother1, p.Mother2,
			p.Daughter1, p.Daughter2, p.Col, p.Acol,
			p.P.X, p.P.Y, p.P.Z, p.P.T, p.M)

		if opts.ScaleAndVertex {
			lw.printf("                              %11.3f                                    "+
				"%11.3e%11.3e%11.3e%11.3e%11.3e\n",
				p.Scale, p.VProd.X, p.VProd.Y, p.VProd.Z, p.VProd.T, p.Tau)
		}

		if opts.MothersAndDaughters {
			fill := 2
			lw.printf("                mothers:")
			for _, m := range e.MotherList(i) {
				lw.printf(" %d", m)
				if fill++; fill == indicesPerLine {
					lw.printf("\n                ")
					fill = 0
				}
			}
			lw.printf(";   daughters:")
			for _, d := range e.DaughterList(i) {
				lw.printf(" %d", d)
				if fill++; fill == indicesPerLine {
					lw.printf("\n                ")
					fill = 0
				}
			}
			if fill != 0 {
				lw.printf("\n")
			}
		}
	}

	pSum, chargeSum := e.FinalSum()
	lw.printf("                                   Charge sum:%7.3f           Momentum sum:"+
		"%11.3f%11.3f%11.3f%11.3f%11.3f\n",
		chargeSum, pSum.X, pSum.Y, pSum.Z, pSum.T, pSum.MCalc())

	lw.printf("\n --------  End Event Listing  ----------------------------" +
		"-------------------------------------------------------------------\n")
	return lw.err
}

// ListJunctions writes the junction table.
func (e *Event) ListJunctions(w io.Writer) error {
	lw := &listWriter{w: w}

	header := e.header
	if len(header) > 30 {
		header = header[:30]
	}
	lw.printf("\n --------  Junction Listing  %s\n \n    no  kind  col0  col1  col2 "+
		"endc0 endc1 endc2 stat0 stat1 stat2\n", header)

	for i, j := range e.junctions {
		lw.printf("%6d%6d%6d%6d%6d%6d%6d%6d%6d%6d%6d\n", i, j.Kind,
			j.Col[0], j.Col[1], j.Col[2],
			j.EndCol[0], j.EndCol[1], j.EndCol[2],
			j.Status[0], j.Status[1], j.Status[2])
	}
	if len(e.junctions) == 0 {
		lw.printf("    no junctions present \n")
	}

	lw.printf("\n --------  End Junction Listing  --------------------------\n")
	return lw.err
}

// ListSystems writes the members of each parton system, sixteen per line.
func (e *Event) ListSystems(w io.Writer) error {
	lw := &listWriter{w: w}

	lw.printf("\n --------  Systems Listing  %s------------ \n \n    no   members  \n", e.header)
	for k := range e.beginSys {
		lw.printf(" %5d ", k)
		for j := 0; j < e.sizeSys[k]; j++ {
			if j%16 == 0 && j > 0 {
				lw.printf("\n       ")
			}
			lw.printf(" %4d", e.memberSys[e.beginSys[k]+j])
		}
		lw.printf("\n")
	}
	if len(e.beginSys) == 0 {
		lw.printf("    no systems defined \n")
	}

	lw.printf("\n --------  End Systems Listing  %s\n", strings.Repeat("-", 50))
	return lw.err
}

// listWriter keeps the first write error so listings can be written
// without checking every line.
type listWriter struct {
	w   io.Writer
	err error
}

func (lw *listWriter) printf(format string, args ...any) {
	if lw.err != nil {
		return
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
}
