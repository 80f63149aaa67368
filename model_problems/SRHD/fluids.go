package SRHD

import (
	"math"
)

// Conserved variable slots, D = rho*W, S = rho*h*W^2*v, Tau = rho*h*W^2 - p - D
const (
	QD = iota
	QS1
	QS2
	QTau
)

// Primitive variable slots. The velocity slots line up with the momentum
// slots so that an axis number (1 or 2) indexes both.
const (
	PRho = iota
	PV1
	PV2
	PPres
)

// PrimState is one cell's rest density, velocity components and pressure
type PrimState [4]float64

// ConsState is one cell's D, S1, S2, Tau
type ConsState [4]float64

// EOS is the ideal gas law with a constant adiabatic index
type EOS struct {
	Gamma float64
}

func (e EOS) Pressure(rho, eps float64) float64 {
	return (e.Gamma - 1) * rho * eps
}

// Enthalpy is the specific enthalpy h = 1 + eps + p/rho
func (e EOS) Enthalpy(rho, p float64) float64 {
	return 1 + e.Gamma*p/((e.Gamma-1)*rho)
}

// SoundSpeed is the relativistic sound speed from rest density and pressure
func (e EOS) SoundSpeed(rho, p float64) float64 {
	return math.Sqrt(e.Gamma * p / (rho * e.Enthalpy(rho, p)))
}

// SoundSpeedRel is the sound speed written in terms of the conserved
// variables at a known pressure and Lorentz factor
func (e EOS) SoundSpeedRel(p, D, tau, W float64) float64 {
	var (
		eps = SpecificEnergyRel(p, D, tau, W)
	)
	return math.Sqrt((e.Gamma - 1) * e.Gamma * eps / (1 + e.Gamma*eps))
}

// SpecificEnergyRel is the specific internal energy implied by the conserved
// variables at pressure p and Lorentz factor W
func SpecificEnergyRel(p, D, tau, W float64) float64 {
	return (tau + D*(1-W) + (1-W*W)*p) / (D * W)
}

func RestDensityRel(D, W float64) float64 { return D / W }

func LorentzFactor(v1, v2 float64) float64 {
	return 1 / math.Sqrt(1-(v1*v1+v2*v2))
}

func (e EOS) PrimToCons(q PrimState) (u ConsState) {
	var (
		rho, v1, v2, p = q[PRho], q[PV1], q[PV2], q[PPres]
		W              = LorentzFactor(v1, v2)
		h              = e.Enthalpy(rho, p)
		rhohW2         = rho * h * W * W
	)
	u[QD] = rho * W
	u[QS1] = rhohW2 * v1
	u[QS2] = rhohW2 * v2
	u[QTau] = rhohW2 - p - rho*W
	return
}

// Flux is the physical flux of a state along axis dir (1 or 2)
func Flux(q PrimState, u ConsState, dir int) (f ConsState) {
	var (
		vn = q[dir]
		p  = q[PPres]
	)
	f[QD] = u[QD] * vn
	f[QS1] = u[QS1] * vn
	f[QS2] = u[QS2] * vn
	f[dir] += p
	f[QTau] = (u[QTau] + p) * vn
	return
}

// SignalSpeeds returns the slowest and fastest characteristic speeds along
// axis dir, the relativistic sum of the flow and sound speeds including the
// effect of the transverse velocity
func (e EOS) SignalSpeeds(q PrimState, dir int) (lm, lp float64) {
	var (
		vn   = q[dir]
		v2   = q[PV1]*q[PV1] + q[PV2]*q[PV2]
		cs   = e.SoundSpeed(q[PRho], q[PPres])
		cs2  = cs * cs
		den  = 1 - v2*cs2
		root = cs * math.Sqrt((1-v2)*(1-v2*cs2-vn*vn*(1-cs2)))
	)
	lm = (vn*(1-cs2) - root) / den
	lp = (vn*(1-cs2) + root) / den
	return
}

func (q PrimState) Valid() bool {
	v2 := q[PV1]*q[PV1] + q[PV2]*q[PV2]
	return q[PRho] > 0 && q[PPres] > 0 && v2 < 1
}
