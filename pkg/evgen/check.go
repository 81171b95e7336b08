package evgen

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// chargeTolerance is the largest net charge accepted by the check.
const chargeTolerance = 0.1

// Check validates a finished event record. The incoming beams at indices 1
// and 2 count with negative momentum and charge; live particles count
// positively. The event is unphysical when the summed absolute deviation
// of the four-momentum exceeds epTolerance times the lab energy, the net
// charge exceeds 0.1, or any particle has a null or unknown id or
// non-finite kinematics. Check returns nil or a *CheckError.
func Check(ev *event.Event, epTolerance float64) error {
	var pSum event.Vec4
	var chargeSum float64
	if ev.Size() > 2 {
		b1, b2 := ev.At(1), ev.At(2)
		pSum = b1.P.Add(b2.P).Neg()
		chargeSum = -(b1.Charge() + b2.Charge())
	}
	eLab := math.Abs(pSum.T)

	svc := ev.Species()
	cerr := &CheckError{}
	for i, p := range ev.Particles() {
		if !knownID(svc, p.ID) {
			cerr.UnknownIDLines = append(cerr.UnknownIDLines, i)
		}
		if !p.IsFiniteKinematics() {
			cerr.NonFiniteLines = append(cerr.NonFiniteLines, i)
		}
		if p.IsFinal() {
			pSum = pSum.Add(p.P)
			chargeSum += p.Charge()
		}
	}

	cerr.EPDeviation = math.Abs(pSum.T) + math.Abs(pSum.X) + math.Abs(pSum.Y) + math.Abs(pSum.Z)
	cerr.EPLimit = epTolerance * eLab
	cerr.ChargeSum = chargeSum

	// NaN deviations compare false; the non-finite lines already flag them.
	if len(cerr.UnknownIDLines) == 0 && len(cerr.NonFiniteLines) == 0 &&
		!(cerr.EPDeviation > cerr.EPLimit) && math.Abs(chargeSum) <= chargeTolerance {
		return nil
	}
	return cerr
}

func knownID(svc species.Service, id int) bool {
	if id == 0 || svc == nil {
		return false
	}
	_, ok := svc.Entry(id)
	return ok
}

// writeCheckDiagnostics writes the details of a failed check followed by
// the info and event listings. The report is built first and handed to w in
// a single Write, so reports from generators sharing a synchronized writer
// never interleave.
func writeCheckDiagnostics(w io.Writer, cerr *CheckError, info *Info, ev *event.Event) error {
	var buf bytes.Buffer
	buf.WriteString(" Erroneous event info: \n")
	if len(cerr.UnknownIDLines) > 0 {
		fmt.Fprintf(&buf, " unknown particle codes in lines %s\n", joinInts(cerr.UnknownIDLines))
	}
	if len(cerr.NonFiniteLines) > 0 {
		fmt.Fprintf(&buf, " not-a-number energy/momentum/mass in lines %s\n", joinInts(cerr.NonFiniteLines))
	}
	if cerr.EPDeviation > cerr.EPLimit {
		fmt.Fprintf(&buf, " total energy-momentum non-conservation = %.3e\n", cerr.EPDeviation)
	}
	if math.Abs(cerr.ChargeSum) > chargeTolerance {
		fmt.Fprintf(&buf, " total charge non-conservation = %.2f\n", cerr.ChargeSum)
	}
	// Writes to a bytes.Buffer cannot fail.
	_ = info.List(&buf)
	_ = ev.List(&buf, event.ListOptions{})

	_, err := w.Write(buf.Bytes())
	return err
}

func joinInts(list []int) string {
	s := ""
	for _, v := range list {
		s += fmt.Sprintf("%d ", v)
	}
	return s
}
