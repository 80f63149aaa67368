package shock_tube

import (
	"fmt"
	"math"
)

// State is a one dimensional primitive state
type State struct {
	Rho, V, P float64
}

/*
RiemannSolution is the exact solution of the one dimensional special
relativistic Riemann problem for an ideal gas without transverse velocity,
after Marti & Muller (J. Fluid Mech. 258, 1994). Each outer wave is a shock
when the star pressure exceeds the pressure ahead of it and a rarefaction
otherwise. The star pressure is found by bisection on the continuity of the
velocity across the contact.

Wave speeds are self similar, x = x0 + speed*t.
*/
type RiemannSolution struct {
	Gamma                 float64
	Left, Right           State
	PStar, VStar          float64
	RhoLStar, RhoRStar    float64
	LeftShock, RightShock bool
	LFront, LBack         float64 // Left wave, equal for a shock
	RBack, RFront         float64 // Right wave, equal for a shock
}

func NewRiemannSolution(left, right State, gamma float64) (rs *RiemannSolution, err error) {
	for _, s := range []State{left, right} {
		if !(s.Rho > 0 && s.P > 0 && math.Abs(s.V) < 1) {
			err = fmt.Errorf("state %+v is not physical", s)
			return
		}
	}
	if !(gamma > 1) {
		err = fmt.Errorf("adiabatic index must be greater than one, have %g", gamma)
		return
	}
	rs = &RiemannSolution{Gamma: gamma, Left: left, Right: right}
	if err = rs.solve(); err != nil {
		return nil, err
	}
	return
}

func (rs *RiemannSolution) enthalpy(rho, p float64) float64 {
	return 1 + rs.Gamma*p/((rs.Gamma-1)*rho)
}

func (rs *RiemannSolution) soundSpeed(rho, p float64) float64 {
	return math.Sqrt(rs.Gamma * p / (rho * rs.enthalpy(rho, p)))
}

// isentrope is the density reached from state a along its adiabat
func (rs *RiemannSolution) isentrope(a State, p float64) float64 {
	return a.Rho * math.Pow(p/a.P, 1/rs.Gamma)
}

// rarefactionVelocity is the flow velocity at pressure p inside a
// rarefaction from state a, sign is +1 for the left wave and -1 for the right
func (rs *RiemannSolution) rarefactionVelocity(a State, p, sign float64) float64 {
	var (
		sg  = math.Sqrt(rs.Gamma - 1)
		ca  = rs.soundSpeed(a.Rho, a.P)
		cb  = rs.soundSpeed(rs.isentrope(a, p), p)
		A   = math.Pow((sg-cb)/(sg+cb)*(sg+ca)/(sg-ca), sign*2/sg)
		opv = (1 + a.V) * A
		omv = 1 - a.V
	)
	return (opv - omv) / (opv + omv)
}

// shock returns the velocity and density behind a shock moving into state a
// that raises the pressure to p, and the shock speed. sign is -1 for the
// left wave and +1 for the right.
func (rs *RiemannSolution) shock(a State, p, sign float64) (vb, rhob, vs float64) {
	var (
		g   = rs.Gamma
		ha  = rs.enthalpy(a.Rho, a.P)
		dp  = p - a.P
		xi  = (g - 1) * (a.P - p) / (g * p)
		qa  = 1 + xi
		qb  = -xi
		qc  = ha*(a.P-p)/a.Rho - ha*ha
		hb  = (-qb + math.Sqrt(qb*qb-4*qa*qc)) / (2 * qa)
		Wa  = 1 / math.Sqrt(1-a.V*a.V)
		rW2 = a.Rho * a.Rho * Wa * Wa
	)
	rhob = g * p / ((g - 1) * (hb - 1))
	j2 := dp / (ha/a.Rho - hb/rhob)
	j := sign * math.Sqrt(j2)
	vs = (rW2*a.V + j*math.Sqrt(j2+rW2*(1-a.V*a.V))) / (rW2 + j2)
	Ws := 1 / math.Sqrt(1-vs*vs)
	vb = (ha*Wa*a.V + Ws*dp/j) / (ha*Wa + dp*(Ws*a.V/j+1/(a.Rho*Wa)))
	return
}

func (rs *RiemannSolution) velocityBehind(a State, p, sign float64) (v float64) {
	if p > a.P*(1+1.e-10) {
		// sign convention of the shock is opposite to the rarefaction
		v, _, _ = rs.shock(a, p, -sign)
		return
	}
	return rs.rarefactionVelocity(a, p, sign)
}

func (rs *RiemannSolution) mismatch(p float64) float64 {
	return rs.velocityBehind(rs.Left, p, 1) - rs.velocityBehind(rs.Right, p, -1)
}

func (rs *RiemannSolution) solve() (err error) {
	var (
		L, R = rs.Left, rs.Right
		lo   = 1.e-12 * math.Min(L.P, R.P)
		hi   = math.Max(L.P, R.P)
	)
	if rs.mismatch(lo) < 0 {
		return fmt.Errorf("riemann problem %+v | %+v opens a vacuum", L, R)
	}
	for rs.mismatch(hi) > 0 {
		lo = hi
		hi *= 2
		if math.IsInf(hi, 0) {
			return fmt.Errorf("unable to bracket the star pressure")
		}
	}
	for iter := 0; iter < 400 && hi-lo > 1.e-15*hi; iter++ {
		mid := math.Sqrt(lo * hi)
		if hi/lo < 4 {
			mid = 0.5 * (lo + hi)
		}
		if rs.mismatch(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	rs.PStar = 0.5 * (lo + hi)
	rs.VStar = 0.5 * (rs.velocityBehind(L, rs.PStar, 1) + rs.velocityBehind(R, rs.PStar, -1))

	// A wave of vanishing strength is sampled as a rarefaction
	if rs.PStar > L.P*(1+1.e-10) {
		rs.LeftShock = true
		_, rs.RhoLStar, rs.LFront = rs.shock(L, rs.PStar, -1)
		rs.LBack = rs.LFront
	} else {
		rs.RhoLStar = rs.isentrope(L, rs.PStar)
		rs.LFront = lambdaMinus(L.V, rs.soundSpeed(L.Rho, L.P))
		rs.LBack = lambdaMinus(rs.VStar, rs.soundSpeed(rs.RhoLStar, rs.PStar))
	}
	if rs.PStar > R.P*(1+1.e-10) {
		rs.RightShock = true
		_, rs.RhoRStar, rs.RFront = rs.shock(R, rs.PStar, 1)
		rs.RBack = rs.RFront
	} else {
		rs.RhoRStar = rs.isentrope(R, rs.PStar)
		rs.RFront = lambdaPlus(R.V, rs.soundSpeed(R.Rho, R.P))
		rs.RBack = lambdaPlus(rs.VStar, rs.soundSpeed(rs.RhoRStar, rs.PStar))
	}
	return
}

func lambdaMinus(v, cs float64) float64 { return (v - cs) / (1 - v*cs) }

func lambdaPlus(v, cs float64) float64 { return (v + cs) / (1 + v*cs) }

// fan returns the state inside a rarefaction where the characteristic
// speed equals xi, sign is +1 for the left wave and -1 for the right
func (rs *RiemannSolution) fan(a State, xi, sign float64) State {
	var (
		lo, hi = rs.PStar, a.P
		s      State
	)
	speed := func(p float64) float64 {
		var (
			v  = rs.rarefactionVelocity(a, p, sign)
			cs = rs.soundSpeed(rs.isentrope(a, p), p)
		)
		if sign > 0 {
			return lambdaMinus(v, cs)
		}
		return lambdaPlus(v, cs)
	}
	// Along the left fan the speed falls as the pressure rises, along the
	// right fan it rises with the pressure
	for iter := 0; iter < 200 && hi-lo > 1.e-14*hi; iter++ {
		mid := 0.5 * (lo + hi)
		if (speed(mid) > xi) == (sign > 0) {
			lo = mid
		} else {
			hi = mid
		}
	}
	s.P = 0.5 * (lo + hi)
	s.Rho = rs.isentrope(a, s.P)
	s.V = rs.rarefactionVelocity(a, s.P, sign)
	return s
}

// Sample returns the state at similarity coordinate xi = (x-x0)/t
func (rs *RiemannSolution) Sample(xi float64) State {
	switch {
	case xi < rs.LFront:
		return rs.Left
	case xi < rs.LBack:
		return rs.fan(rs.Left, xi, 1)
	case xi < rs.VStar:
		return State{Rho: rs.RhoLStar, V: rs.VStar, P: rs.PStar}
	case xi < rs.RBack:
		return State{Rho: rs.RhoRStar, V: rs.VStar, P: rs.PStar}
	case xi < rs.RFront:
		return rs.fan(rs.Right, xi, -1)
	}
	return rs.Right
}

// Profile samples the solution at positions X for a discontinuity initially
// at x0, at time t > 0
func (rs *RiemannSolution) Profile(X []float64, x0, t float64) (Rho, V, P []float64) {
	Rho = make([]float64, len(X))
	V = make([]float64, len(X))
	P = make([]float64, len(X))
	for i, x := range X {
		s := rs.Sample((x - x0) / t)
		Rho[i], V[i], P[i] = s.Rho, s.V, s.P
	}
	return
}

// WavePositions returns the left wave front and back, the contact, and the
// right wave back and front at time t
func (rs *RiemannSolution) WavePositions(x0, t float64) (x [5]float64) {
	for i, s := range []float64{rs.LFront, rs.LBack, rs.VStar, rs.RBack, rs.RFront} {
		x[i] = x0 + s*t
	}
	return
}

func (rs *RiemannSolution) String() string {
	kind := func(shock bool) string {
		if shock {
			return "shock"
		}
		return "rarefaction"
	}
	return fmt.Sprintf("p* = %.6g, v* = %.6g, rho*L = %.6g, rho*R = %.6g, left %s [%.4f,%.4f], right %s [%.4f,%.4f]",
		rs.PStar, rs.VStar, rs.RhoLStar, rs.RhoRStar, kind(rs.LeftShock), rs.LFront, rs.LBack,
		kind(rs.RightShock), rs.RBack, rs.RFront)
}
