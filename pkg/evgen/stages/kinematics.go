package stages

import (
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/evgen/pkg/evgen/event"
)

// newRand returns a PCG stream for one stage. Stages get distinct streams
// from the same run seed.
func newRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// pStar returns the momentum of either product in the two-body decay of
// mass m into m1 and m2, zero below threshold.
func pStar(m, m1, m2 float64) float64 {
	lambda := (m*m - (m1+m2)*(m1+m2)) * (m*m - (m1-m2)*(m1-m2))
	if lambda <= 0 || m <= 0 {
		return 0
	}
	return 0.5 * math.Sqrt(lambda) / m
}

// isotropic returns a random unit vector.
func isotropic(rng *rand.Rand) (x, y, z float64) {
	cosTheta := 2*rng.Float64() - 1
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()
	return sinTheta * math.Cos(phi), sinTheta * math.Sin(phi), cosTheta
}

// twoBody decays a particle of momentum p and mass m isotropically into
// masses m1 and m2 and returns the product momenta in the frame of p.
// The products sum to p exactly up to rounding.
func twoBody(rng *rand.Rand, p event.Vec4, m, m1, m2 float64) (event.Vec4, event.Vec4) {
	pAbs := pStar(m, m1, m2)
	x, y, z := isotropic(rng)
	p1 := event.Vec4{X: pAbs * x, Y: pAbs * y, Z: pAbs * z, T: math.Sqrt(m1*m1 + pAbs*pAbs)}
	p2 := event.Vec4{X: -p1.X, Y: -p1.Y, Z: -p1.Z, T: math.Sqrt(m2*m2 + pAbs*pAbs)}
	return p1.BstTo(withMass(p, m)), p2.BstTo(withMass(p, m))
}

// withMass returns p with its energy reset to match mass m, so that boosts
// built from it are consistent.
func withMass(p event.Vec4, m float64) event.Vec4 {
	p.T = math.Sqrt(m*m + p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	return p
}

// toRest boosts v into the rest frame of p.
func toRest(v, p event.Vec4) event.Vec4 {
	m := p.MCalc()
	if p.T <= 0 || m <= 0 {
		return v
	}
	return v.Bst(-p.X/p.T, -p.Y/p.T, -p.Z/p.T, p.T/m)
}

// unit returns the direction of the three-vector part of v.
func unit(v event.Vec4) (x, y, z float64) {
	n := v.PAbs()
	if n == 0 {
		return 0, 0, 1
	}
	return v.X / n, v.Y / n, v.Z / n
}

// rotateAway returns a unit vector at polar angle theta and azimuth phi
// around the axis (nx, ny, nz).
func rotateAway(nx, ny, nz, theta, phi float64) (x, y, z float64) {
	// First perpendicular: cross the axis with the least aligned unit vector.
	var ax, ay, az float64
	switch {
	case math.Abs(nx) <= math.Abs(ny) && math.Abs(nx) <= math.Abs(nz):
		ax = 1
	case math.Abs(ny) <= math.Abs(nz):
		ay = 1
	default:
		az = 1
	}
	e1x, e1y, e1z := ny*az-nz*ay, nz*ax-nx*az, nx*ay-ny*ax
	norm := math.Sqrt(e1x*e1x + e1y*e1y + e1z*e1z)
	e1x, e1y, e1z = e1x/norm, e1y/norm, e1z/norm
	e2x, e2y, e2z := ny*e1z-nz*e1y, nz*e1x-nx*e1z, nx*e1y-ny*e1x

	c, s := math.Cos(theta), math.Sin(theta)
	cp, sp := math.Cos(phi), math.Sin(phi)
	x = c*nx + s*(cp*e1x+sp*e2x)
	y = c*ny + s*(cp*e1y+sp*e2y)
	z = c*nz + s*(cp*e1z+sp*e2z)
	return x, y, z
}

// logUniform draws from [lo, hi] uniformly in the logarithm.
func logUniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo * math.Pow(hi/lo, rng.Float64())
}
