package evgen

import (
	"fmt"
	"math"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// cmFrameBeta is the boost below which the lab frame is the CM frame.
const cmFrameBeta = 1e-10

// supportedBeams reports whether the generator can handle idA on idB:
// p p, pbar p (either way round) or a charged lepton on its antilepton.
func supportedBeams(idA, idB int) bool {
	absA, absB := abs(idA), abs(idB)
	if absA == 2212 && absB == 2212 {
		return true
	}
	return (absA == 11 || absA == 13) && idA+idB == 0
}

// setupBeams fills the beam part of info from s. With a positive ECM the
// beams collide head-on in their CM frame; otherwise EA and EB are lab
// energies and the boost from the CM frame to the lab is computed.
func setupBeams(s Settings, svc species.Service, info *Info) error {
	if !supportedBeams(s.IDA, s.IDB) {
		return fmt.Errorf("%w: %d on %d", ErrBeamsNotSupported, s.IDA, s.IDB)
	}

	info.IDA, info.IDB = s.IDA, s.IDB
	info.MA = svc.Lookup(s.IDA).Mass
	info.MB = svc.Lookup(s.IDB).Mass
	info.BetaZ, info.GammaZ = 0, 1
	info.InCMFrame = s.ECM > 0
	info.ECM = s.ECM

	if !info.InCMFrame {
		eA := math.Max(s.EA, info.MA)
		eB := math.Max(s.EB, info.MB)
		pzA := math.Sqrt(eA*eA - info.MA*info.MA)
		pzB := -math.Sqrt(eB*eB - info.MB*info.MB)
		info.ECM = math.Sqrt((eA+eB)*(eA+eB) - (pzA+pzB)*(pzA+pzB))
		info.BetaZ = (pzA + pzB) / (eA + eB)
		if info.ECM > 0 {
			info.GammaZ = (eA + eB) / info.ECM
		}
		if math.Abs(info.BetaZ) < cmFrameBeta {
			info.InCMFrame = true
			info.BetaZ, info.GammaZ = 0, 1
		}
	}

	if info.ECM <= 0 || info.ECM < info.MA+info.MB {
		return fmt.Errorf("%w: eCM %.4f < %.4f", ErrBelowThreshold, info.ECM, info.MA+info.MB)
	}

	// Beam kinematics in the CM frame.
	beamA := cmBeam(info.ECM, info.MA, info.MB, true)
	beamB := cmBeam(info.ECM, info.MA, info.MB, false)
	info.PzA, info.EA = beamA.Z, beamA.T
	info.PzB, info.EB = beamB.Z, beamB.T
	info.InCMFrame = info.BetaZ == 0
	return nil
}

// cmBeam returns the momentum of beam A (forward) or beam B in the CM frame.
func cmBeam(eCM, mA, mB float64, forward bool) event.Vec4 {
	pz := 0.5 * sqrtPos((eCM+mA+mB)*(eCM-mA-mB)*(eCM-mA+mB)*(eCM+mA-mB)) / eCM
	if forward {
		return event.Vec4{Z: pz, T: math.Sqrt(mA*mA + pz*pz)}
	}
	return event.Vec4{Z: -pz, T: math.Sqrt(mB*mB + pz*pz)}
}

func sqrtPos(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
