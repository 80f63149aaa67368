package SRHD

import (
	"fmt"
	"math"

	"github.com/notargets/gosrhd/utils"
)

// NewtonParams controls the pressure iteration of the primitive recovery
type NewtonParams struct {
	Tolerance float64 // Relative change in pressure at convergence
	MaxIter   int
}

var DefaultNewton = NewtonParams{Tolerance: 1.e-12, MaxIter: 100}

/*
Cons2Prim inverts one conserved state to its primitive state with Newton
iteration on the pressure residual

	f(p) = (gamma-1)*rho(p)*eps(p) - p,    f'(p) = v^2*cs^2 - 1

where v = |S|/(Tau+D+p), W = 1/sqrt(1-v^2), rho = D/W. Iterates are kept above
the lower bound p > |S|-Tau-D, below which the trial velocity is superluminal.
pGuess is normally the pressure this cell had after the previous recovery.

There is no fallback: an iteration that does not converge, goes non finite
or ends at |v| >= 1 returns an error wrapping ErrConvergence.
*/
func (e EOS) Cons2Prim(u ConsState, pGuess float64, np NewtonParams) (q PrimState, W float64, iter int, err error) {
	q, W, iter, err = e.cons2prim(u, pGuess, np, nil)
	return
}

// Cons2PrimTrace repeats a recovery and records every pressure iterate
func (e EOS) Cons2PrimTrace(u ConsState, pGuess float64, np NewtonParams) (trace []float64, err error) {
	_, _, _, err = e.cons2prim(u, pGuess, np, &trace)
	return
}

type residual struct {
	f, df        float64
	v, W, rho    float64
	superluminal bool
}

func (e EOS) residual(D, S, tau, p float64) (r residual) {
	var (
		gm1 = e.Gamma - 1
		v   = S / (tau + D + p)
		v2  = v * v
	)
	if v2 >= 1 {
		r.superluminal = true
		return
	}
	var (
		W2v2 = v2 / (1 - v2)
		W    = math.Sqrt(1 + W2v2)
		rho  = D / W
		// Same as (Tau + D(1-W) + (1-W^2)p)/(DW), without the cancellation at large W
		eps = (tau - D*W2v2/(1+W) - p*W2v2) / (D * W)
		h   = 1 + e.Gamma*p/(gm1*rho)
		cs2 = e.Gamma * p / (h * rho)
	)
	r.f = gm1*rho*eps - p
	r.df = v2*cs2 - 1
	r.v, r.W, r.rho = v, W, rho
	return
}

func (e EOS) cons2prim(u ConsState, pGuess float64, np NewtonParams, trace *[]float64) (q PrimState, W float64, iter int, err error) {
	var (
		D, tau = u[QD], u[QTau]
		S      = math.Hypot(u[QS1], u[QS2])
	)
	if !(D > 0) || !(tau+D >= 0) || !utils.IsFinite(S) || !utils.IsFinite(tau) {
		err = fmt.Errorf("%w: unphysical conserved state", ErrConvergence)
		return
	}
	var (
		pLow = math.Max(S-tau-D, 0)
		p    = pGuess
	)
	if !(p > pLow) || !utils.IsFinite(p) {
		p = math.Max((e.Gamma-1)*math.Abs(tau), pLow*(1+1.e-6)+1.e-12*(tau+D))
	}
	for iter = 1; iter <= np.MaxIter; iter++ {
		if trace != nil {
			*trace = append(*trace, p)
		}
		r := e.residual(D, S, tau, p)
		if r.superluminal {
			err = fmt.Errorf("%w at trial pressure %g", ErrSuperluminal, p)
			return
		}
		if !utils.IsFinite(r.f) || !utils.IsFinite(r.df) || r.df == 0 {
			err = fmt.Errorf("%w: non finite residual at trial pressure %g", ErrConvergence, p)
			return
		}
		var (
			pNew    = p - r.f/r.df
			guarded bool
		)
		if pNew <= pLow {
			// Halve toward the bound, a guarded step never counts as converged
			pNew, guarded = 0.5*(p+pLow), true
		}
		if !guarded && (math.Abs(pNew-p) <= np.Tolerance*pNew+1.e-15*(math.Abs(tau)+D) || r.f == 0) {
			p = pNew
			if trace != nil {
				*trace = append(*trace, p)
			}
			break
		}
		p = pNew
	}
	if iter > np.MaxIter {
		iter = np.MaxIter
		err = fmt.Errorf("%w: no convergence in %d iterations, last pressure %g", ErrConvergence, iter, p)
		return
	}
	var (
		E = tau + D + p
		v = S / E
	)
	if !(v < 1) {
		err = fmt.Errorf("%w: |v| = %g", ErrSuperluminal, v)
		return
	}
	W = 1 / math.Sqrt(1-v*v)
	q = PrimState{D / W, u[QS1] / E, u[QS2] / E, p}
	if !(q[PRho] > 0) || !(p > 0) || !utils.IsFinite(W) {
		err = fmt.Errorf("%w: recovered rho = %g, p = %g, W = %g", ErrConvergence, q[PRho], p, W)
	}
	return
}
