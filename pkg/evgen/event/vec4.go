package event

import "math"

// Vec4 is a four-vector (px, py, pz, e) or a space-time point (x, y, z, t).
type Vec4 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	T float64 `json:"t"`
}

// Add returns v + w.
func (v Vec4) Add(w Vec4) Vec4 {
	return Vec4{v.X + w.X, v.Y + w.Y, v.Z + w.Z, v.T + w.T}
}

// Sub returns v - w.
func (v Vec4) Sub(w Vec4) Vec4 {
	return Vec4{v.X - w.X, v.Y - w.Y, v.Z - w.Z, v.T - w.T}
}

// Scale returns f * v.
func (v Vec4) Scale(f float64) Vec4 {
	return Vec4{f * v.X, f * v.Y, f * v.Z, f * v.T}
}

// Neg returns -v.
func (v Vec4) Neg() Vec4 {
	return Vec4{-v.X, -v.Y, -v.Z, -v.T}
}

// M2Calc returns the invariant mass squared, e^2 - p^2.
func (v Vec4) M2Calc() float64 {
	return v.T*v.T - v.X*v.X - v.Y*v.Y - v.Z*v.Z
}

// MCalc returns the invariant mass, negative if spacelike.
func (v Vec4) MCalc() float64 {
	m2 := v.M2Calc()
	if m2 >= 0 {
		return math.Sqrt(m2)
	}
	return -math.Sqrt(-m2)
}

// PT returns the transverse momentum.
func (v Vec4) PT() float64 {
	return math.Hypot(v.X, v.Y)
}

// PT2 returns the transverse momentum squared.
func (v Vec4) PT2() float64 {
	return v.X*v.X + v.Y*v.Y
}

// PAbs returns the three-momentum magnitude.
func (v Vec4) PAbs() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Theta returns the polar angle.
func (v Vec4) Theta() float64 {
	return math.Atan2(v.PT(), v.Z)
}

// Phi returns the azimuthal angle.
func (v Vec4) Phi() float64 {
	return math.Atan2(v.Y, v.X)
}

// Dot returns the Minkowski product v.w.
func (v Vec4) Dot(w Vec4) float64 {
	return v.T*w.T - v.X*w.X - v.Y*w.Y - v.Z*w.Z
}

// Bst boosts v by velocity (betaX, betaY, betaZ) with the given gamma.
// A non-positive gamma is recomputed from the velocity.
func (v Vec4) Bst(betaX, betaY, betaZ, gamma float64) Vec4 {
	beta2 := betaX*betaX + betaY*betaY + betaZ*betaZ
	if beta2 == 0 {
		return v
	}
	if gamma <= 0 {
		gamma = 1. / math.Sqrt(1.-beta2)
	}
	prod1 := betaX*v.X + betaY*v.Y + betaZ*v.Z
	prod2 := gamma * (gamma*prod1/(1.+gamma) + v.T)
	return Vec4{
		X: v.X + prod2*betaX,
		Y: v.Y + prod2*betaY,
		Z: v.Z + prod2*betaZ,
		T: gamma * (v.T + prod1),
	}
}

// BstTo boosts v from the rest frame of p to the frame where p has its momentum.
func (v Vec4) BstTo(p Vec4) Vec4 {
	if p.T <= 0 {
		return v
	}
	m := p.MCalc()
	if m <= 0 {
		return v
	}
	return v.Bst(p.X/p.T, p.Y/p.T, p.Z/p.T, p.T/m)
}

// IsFinite reports whether all components are finite numbers.
func (v Vec4) IsFinite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z) && finite(v.T)
}

// finite is false for NaN and both infinities. The reflexive comparison
// catches NaN, since every comparison involving NaN is false.
func finite(x float64) bool {
	return math.Abs(x) >= 0 && !math.IsInf(x, 0)
}
