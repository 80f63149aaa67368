package SRHD

import (
	"math"

	"github.com/notargets/gosrhd/types"
)

// sourceFactor scales the external sources, full strength for the engine
// duration and then an exponential decay, or off when DecayConstant is zero.
// A non positive EngineDuration leaves the sources on for the whole run.
func (c *SRHD) sourceFactor(t float64) float64 {
	switch {
	case c.EngineDuration <= 0 || t < c.EngineDuration:
		return 1
	case c.DecayConstant > 0:
		return math.Exp(-(t - c.EngineDuration) / c.DecayConstant)
	}
	return 0
}

// geometricSource is the source from the coordinate system for active cell
// (ia, ja). The pressure part uses face area differences so that a uniform
// pressure is in equilibrium to round off.
func (c *SRHD) geometricSource(ia, ja int, q PrimState, u ConsState) (s ConsState) {
	var (
		g = c.Grid
	)
	if g.Geometry != types.Spherical {
		return
	}
	var (
		p   = q[PPres]
		vol = g.Volume(ia, ja)
	)
	s[QS1] = p * (g.Area1(ia+1, ja) - g.Area1(ia, ja)) / vol
	if g.Dims == 1 {
		return
	}
	r := g.X1[ia]
	s[QS1] += u[QS2] * q[PV2] / r
	s[QS2] = p*(g.Area2(ia, ja+1)-g.Area2(ia, ja))/vol - u[QS2]*q[PV1]/r
	return
}
