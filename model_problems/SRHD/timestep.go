package SRHD

import (
	"math"

	"github.com/notargets/gosrhd/utils"
)

// AdaptDT returns CFL times the smallest cell crossing time of the fastest
// signal over the active zone, using the primitives of the last recovery.
// The result is not clipped to the final time.
func (c *SRHD) AdaptDT() (dt float64, err error) {
	var (
		g = c.Grid
	)
	err = c.activePM.Run(func(bn, kMin, kMax int) error {
		var (
			dtMin = math.Inf(1)
			kLim  = -1
		)
		for ka := kMin; ka < kMax; ka++ {
			var (
				ia, ja = g.ActiveIJ(ka)
				k      = g.StorageIndex(ia, ja)
				q      = c.primAt(c.Prim, k)
			)
			lm, lp := c.EOS.SignalSpeeds(q, 1)
			dtc := g.Width1(ia) / math.Max(math.Abs(lm), math.Abs(lp))
			if g.Dims == 2 {
				lm, lp = c.EOS.SignalSpeeds(q, 2)
				dtc = math.Min(dtc, g.Length2(ia, ja)/math.Max(math.Abs(lm), math.Abs(lp)))
			}
			if !(dtc >= dtMin) {
				dtMin, kLim = dtc, k
			}
		}
		c.dtBucket[bn], c.dtCell[bn] = dtMin, kLim
		return nil
	})
	if err != nil {
		return
	}
	var (
		kLim = -1
	)
	dt = math.Inf(1)
	for bn := 0; bn < c.activePM.ParallelDegree; bn++ {
		if c.activePM.GetBucketDimension(bn) == 0 {
			continue
		}
		if !(c.dtBucket[bn] >= dt) {
			dt, kLim = c.dtBucket[bn], c.dtCell[bn]
		}
	}
	dt *= c.CFL
	if !utils.IsFinite(dt) || dt < c.dtFloor() {
		i, j := g.IJ(kLim)
		err = &CellError{Cell: kLim, I: i, J: j, State: c.consAt(c.Q, kLim),
			Err: ErrTimestepUnderflow}
	}
	return
}

func (c *SRHD) dtFloor() float64 {
	return 1.e-14 * math.Max(math.Abs(c.FinalTime), 1)
}
