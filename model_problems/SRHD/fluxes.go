package SRHD

import (
	"fmt"
	"math"

	"github.com/notargets/gosrhd/types"
	"github.com/notargets/gosrhd/utils"
)

// Eigenvals bound the Riemann fan at an interface
type Eigenvals struct {
	AL, AR float64
}

// CalcEigenvals returns the slowest left going and fastest right going
// signal speeds over both sides of an interface normal to axis dir
func (e EOS) CalcEigenvals(qL, qR PrimState, dir int) (ev Eigenvals) {
	var (
		lmL, lpL = e.SignalSpeeds(qL, dir)
		lmR, lpR = e.SignalSpeeds(qR, dir)
	)
	ev.AL = math.Min(lmL, lmR)
	ev.AR = math.Max(lpL, lpR)
	return
}

func HLLFlux(uL, uR, fL, fR ConsState, ev Eigenvals) (f ConsState) {
	var (
		aL, aR = ev.AL, ev.AR
	)
	switch {
	case aL >= 0:
		return fL
	case aR <= 0:
		return fR
	}
	oodA := 1 / (aR - aL)
	for n := 0; n < 4; n++ {
		f[n] = (aR*fL[n] - aL*fR[n] + aL*aR*(uR[n]-uL[n])) * oodA
	}
	return
}

func hllState(uL, uR, fL, fR ConsState, ev Eigenvals) (u ConsState) {
	var (
		aL, aR = ev.AL, ev.AR
		oodA   = 1 / (aR - aL)
	)
	for n := 0; n < 4; n++ {
		u[n] = (aR*uR[n] - aL*uL[n] + fL[n] - fR[n]) * oodA
	}
	return
}

/*
HLLCFlux adds the contact wave to the HLL fan. The contact speed a* is the
root of

	F^E a*^2 - (E + F^m) a* + m = 0

built from the HLL averaged state and flux, with E = Tau + D the total energy
and m the normal momentum. The star state on the side of the contact holding
the interface comes from the jump conditions across that side's outer wave
and the flux is F_side + a_side*(U*_side - U_side).
*/
func (e EOS) HLLCFlux(qL, qR PrimState, uL, uR, fL, fR ConsState, ev Eigenvals, dir int) (f ConsState, err error) {
	var (
		aL, aR = ev.AL, ev.AR
	)
	switch {
	case aL >= 0:
		return fL, nil
	case aR <= 0:
		return fR, nil
	}
	var (
		uHLL  = hllState(uL, uR, fL, fR, ev)
		fHLL  = HLLFlux(uL, uR, fL, fR, ev)
		aStar float64
	)
	aStar, err = calcIntermedWave(uHLL[QTau]+uHLL[QD], uHLL[dir], fHLL[dir], fHLL[QTau]+fHLL[QD])
	if err != nil {
		return
	}
	f = hllcContactFlux(qL, qR, uL, uR, fL, fR, ev, aStar, fHLL, dir)
	return
}

func hllcContactFlux(qL, qR PrimState, uL, uR, fL, fR ConsState, ev Eigenvals, aStar float64,
	fHLL ConsState, dir int) (f ConsState) {
	if !(aStar > ev.AL && aStar < ev.AR) {
		// The star region has no width, one wave carries the whole jump
		return fHLL
	}
	var (
		a    float64
		q    PrimState
		u, F ConsState
	)
	if aStar >= 0 {
		a, q, u, F = ev.AL, qL, uL, fL
	} else {
		a, q, u, F = ev.AR, qR, uR, fR
	}
	var (
		tdir  = 3 - dir
		vn, p = q[dir], q[PPres]
		E, m  = u[QTau] + u[QD], u[dir]
		pStar = calcIntermedPressure(a, aStar, E, m, vn, p)
		oodA  = 1 / (a - aStar)
		uStar ConsState
		eStar float64
	)
	uStar[QD] = u[QD] * (a - vn) * oodA
	uStar[dir] = (m*(a-vn) + pStar - p) * oodA
	uStar[tdir] = u[tdir] * (a - vn) * oodA
	eStar = (E*(a-vn) + pStar*aStar - p*vn) * oodA
	uStar[QTau] = eStar - uStar[QD]
	for n := 0; n < 4; n++ {
		f[n] = F[n] + a*(uStar[n]-u[n])
	}
	return
}

// calcIntermedWave returns the contact speed from the HLL state energy and
// momentum, using the cancellation free form of the quadratic root
func calcIntermedWave(energy, momentum, fluxMomentum, fluxEnergy float64) (aStar float64, err error) {
	var (
		a    = fluxEnergy
		b    = -(energy + fluxMomentum)
		c    = momentum
		disc = b*b - 4*a*c
	)
	if disc < 0 || !utils.IsFinite(disc) {
		err = fmt.Errorf("%w: contact speed discriminant %g", ErrRiemannDegenerate, disc)
		return
	}
	quad := -0.5 * (b + utils.Sign(b)*math.Sqrt(disc))
	if quad == 0 {
		if c == 0 {
			return 0, nil
		}
		err = fmt.Errorf("%w: contact speed quadratic has no finite root", ErrRiemannDegenerate)
		return
	}
	aStar = c / quad
	return
}

// calcIntermedPressure is the star pressure from the jump conditions across
// an outer wave of speed a bounding a state with energy, normal momentum,
// normal velocity u and pressure p
func calcIntermedPressure(a, aStar, energy, normMom, u, p float64) float64 {
	var (
		A = a*energy - normMom
		B = normMom*(a-u) - p
	)
	return (A*aStar - B) / (1 - a*aStar)
}

// RiemannFlux dispatches to the configured solver
func (e EOS) RiemannFlux(ft types.FluxType, qL, qR PrimState, dir int) (f ConsState, err error) {
	var (
		uL, uR = e.PrimToCons(qL), e.PrimToCons(qR)
		fL, fR = Flux(qL, uL, dir), Flux(qR, uR, dir)
		ev     = e.CalcEigenvals(qL, qR, dir)
	)
	if ft == types.FLUX_HLLC {
		return e.HLLCFlux(qL, qR, uL, uR, fL, fR, ev, dir)
	}
	return HLLFlux(uL, uR, fL, fR, ev), nil
}
