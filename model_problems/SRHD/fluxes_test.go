package SRHD

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gosrhd/types"
)

func TestRiemannFluxConsistency(t *testing.T) {
	e := EOS{Gamma: 4. / 3.}
	{ // Equal states give the physical flux
		for _, q := range []PrimState{{1, 0.3, 0.2, 1}, {0.1, -0.5, 0.1, 0.01}, {5, 0, 0, 2}} {
			for dir := 1; dir <= 2; dir++ {
				fPhys := Flux(q, e.PrimToCons(q), dir)
				for _, ft := range []types.FluxType{types.FLUX_HLL, types.FLUX_HLLC} {
					f, err := e.RiemannFlux(ft, q, q, dir)
					require.NoError(t, err)
					assert.InDeltaSlice(t, fPhys[:], f[:], 1.e-12, "%s flux of %v along x%d", ft, q, dir)
				}
			}
		}
	}
	{ // Supersonic to the right takes the left flux, to the left the right flux
		var (
			qL = PrimState{1, 0.99, 0, 0.01}
			qR = PrimState{0.5, 0.98, 0, 0.02}
		)
		ev := e.CalcEigenvals(qL, qR, 1)
		require.Greater(t, ev.AL, 0.)
		for _, ft := range []types.FluxType{types.FLUX_HLL, types.FLUX_HLLC} {
			f, err := e.RiemannFlux(ft, qL, qR, 1)
			require.NoError(t, err)
			assert.Equal(t, Flux(qL, e.PrimToCons(qL), 1), f)
		}
		qL[PV1], qR[PV1] = -qL[PV1], -qR[PV1]
		ev = e.CalcEigenvals(qR, qL, 1)
		require.Less(t, ev.AR, 0.)
		for _, ft := range []types.FluxType{types.FLUX_HLL, types.FLUX_HLLC} {
			f, err := e.RiemannFlux(ft, qR, qL, 1)
			require.NoError(t, err)
			assert.Equal(t, Flux(qL, e.PrimToCons(qL), 1), f)
		}
	}
}

func TestHLLCContact(t *testing.T) {
	e := EOS{Gamma: 4. / 3.}
	{ // A stationary contact carries no mass under HLLC, HLL diffuses it
		var (
			qL = PrimState{1, 0, 0, 1}
			qR = PrimState{0.1, 0, 0, 1}
		)
		fHLLC, err := e.RiemannFlux(types.FLUX_HLLC, qL, qR, 1)
		require.NoError(t, err)
		fHLL, err := e.RiemannFlux(types.FLUX_HLL, qL, qR, 1)
		require.NoError(t, err)
		assert.InDelta(t, 0, fHLLC[QD], 1.e-14)
		assert.InDelta(t, 1, fHLLC[QS1], 1.e-14)
		assert.InDelta(t, 0, fHLLC[QTau], 1.e-14)
		assert.Greater(t, fHLL[QD], 0.1)
	}
	{ // Both outer waves give the same star pressure
		var (
			qL     = PrimState{1, 0.3, 0, 1}
			qR     = PrimState{0.5, -0.2, 0, 0.3}
			uL, uR = e.PrimToCons(qL), e.PrimToCons(qR)
			fL, fR = Flux(qL, uL, 1), Flux(qR, uR, 1)
			ev     = e.CalcEigenvals(qL, qR, 1)
			uHLL   = hllState(uL, uR, fL, fR, ev)
			fHLL   = HLLFlux(uL, uR, fL, fR, ev)
		)
		aStar, err := calcIntermedWave(uHLL[QTau]+uHLL[QD], uHLL[QS1], fHLL[QS1], fHLL[QTau]+fHLL[QD])
		require.NoError(t, err)
		assert.Greater(t, aStar, ev.AL)
		assert.Less(t, aStar, ev.AR)
		var (
			pL = calcIntermedPressure(ev.AL, aStar, uL[QTau]+uL[QD], uL[QS1], qL[PV1], qL[PPres])
			pR = calcIntermedPressure(ev.AR, aStar, uR[QTau]+uR[QD], uR[QS1], qR[PV1], qR[PPres])
		)
		assert.InDelta(t, pL, pR, 1.e-12)
		assert.InDelta(t, 1.19358, pL, 1.e-4)
	}
	{ // Degenerate contact quadratic
		_, err := calcIntermedWave(0.5, 1, 0.5, 1)
		assert.True(t, errors.Is(err, ErrRiemannDegenerate))
		assert.True(t, errors.Is(err, ErrIntegrity))
	}
	{ // An isolated moving contact is carried exactly, upwind of the contact
		for _, v := range []float64{0.5, -0.5, 0.9} {
			for dir := 1; dir <= 2; dir++ {
				var (
					qL = PrimState{1, 0, 0, 1}
					qR = PrimState{0.5, 0, 0, 1}
				)
				qL[dir], qR[dir] = v, v
				upwind := qL
				if v < 0 {
					upwind = qR
				}
				fUp := Flux(upwind, e.PrimToCons(upwind), dir)
				f, err := e.RiemannFlux(types.FLUX_HLLC, qL, qR, dir)
				require.NoError(t, err)
				assert.InDeltaSlice(t, fUp[:], f[:], 1.e-10, "v = %g along x%d", v, dir)
			}
		}
	}
	{ // A contact on the outer wave falls back to the HLL flux
		var (
			qL     = PrimState{1, 0.2, 0, 1}
			qR     = PrimState{0.5, 0, 0, 0.5}
			uL, uR = e.PrimToCons(qL), e.PrimToCons(qR)
			fL, fR = Flux(qL, uL, 1), Flux(qR, uR, 1)
			ev     = e.CalcEigenvals(qL, qR, 1)
			fHLL   = HLLFlux(uL, uR, fL, fR, ev)
		)
		assert.Equal(t, fHLL, hllcContactFlux(qL, qR, uL, uR, fL, fR, ev, ev.AR, fHLL, 1))
		assert.Equal(t, fHLL, hllcContactFlux(qL, qR, uL, uR, fL, fR, ev, ev.AL, fHLL, 1))
	}
}

func TestLimiter(t *testing.T) {
	assert.Equal(t, 1., Minmod(1, 2, 3))
	assert.Equal(t, -1., Minmod(-3, -1, -2))
	assert.Equal(t, 0., Minmod(1, -2, 3))
	assert.Equal(t, 0., Minmod(0, 2, 3))
	// Smooth linear data keeps its slope
	assert.InDelta(t, 1, LimitedSlope(1, 2, 3, 1.5), 1.e-15)
	// Extrema flatten
	assert.Equal(t, 0., LimitedSlope(1, 2, 1, 2))
	// Theta scales the one sided differences
	assert.InDelta(t, 0.5, LimitedSlope(0, 0.5, 3, 1), 1.e-15)
	assert.InDelta(t, 1, LimitedSlope(0, 0.5, 3, 2), 1.e-15)
}
