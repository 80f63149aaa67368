package SRHD

import (
	"math"

	"github.com/notargets/gosrhd/utils"
)

// Minmod is the three argument minmod, zero unless all arguments agree in
// sign, otherwise the argument of least magnitude
func Minmod(x, y, z float64) float64 {
	var (
		sx, sy, sz = utils.Sign(x), utils.Sign(y), utils.Sign(z)
	)
	return 0.25 * math.Abs(sx+sy) * (sx + sz) * math.Min(math.Abs(x), math.Min(math.Abs(y), math.Abs(z)))
}

// LimitedSlope is the generalized minmod slope with theta in [1,2], theta = 1
// is plain minmod and theta = 2 is the monotonized central limiter
func LimitedSlope(qm, q0, qp, theta float64) float64 {
	return Minmod(theta*(q0-qm), 0.5*(qp-qm), theta*(qp-q0))
}

/*
faceStates returns the left and right states at the face between storage
cells km and kp along an axis with storage stride. First order uses the cell
values. Second order adds half a limited slope on each side, using km-stride
and kp+stride, and falls back to the cell value on any side whose
reconstructed state is not physical.
*/
func (c *SRHD) faceStates(prim [4][]float64, km, kp, stride int) (qL, qR PrimState) {
	for n := 0; n < 4; n++ {
		qL[n], qR[n] = prim[n][km], prim[n][kp]
	}
	if c.Order == 1 {
		return
	}
	var (
		kmm, kpp = km - stride, kp + stride
		rL, rR   PrimState
		theta    = c.PLMTheta
	)
	for n := 0; n < 4; n++ {
		rL[n] = qL[n] + 0.5*LimitedSlope(prim[n][kmm], prim[n][km], prim[n][kp], theta)
		rR[n] = qR[n] - 0.5*LimitedSlope(prim[n][km], prim[n][kp], prim[n][kpp], theta)
	}
	if rL.Valid() {
		qL = rL
	}
	if rR.Valid() {
		qR = rR
	}
	return
}
