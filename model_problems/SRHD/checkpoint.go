package SRHD

import (
	"context"
	"fmt"

	"github.com/notargets/gosrhd/types"
)

// Snapshot is the active zone primitive field and its metadata. Fields are
// flattened as i + N[0]*j.
type Snapshot struct {
	Time     float64
	Dt       float64
	Step     int
	Dims     int
	N        [2]int
	Min, Max [2]float64
	Geometry types.Geometry
	Spacing  [2]types.Spacing
	Gamma    float64
	Rho      []float64
	V1, V2   []float64
	P        []float64
}

// Checkpointer persists snapshots, the solver calls it between steps
type Checkpointer interface {
	WriteCheckpoint(ctx context.Context, snap *Snapshot) error
}

// Primitive returns the snapshot fields in primitive slot order
func (s *Snapshot) Primitive() (prim [4][]float64, err error) {
	var (
		n = s.N[0] * s.N[1]
	)
	prim = [4][]float64{s.Rho, s.V1, s.V2, s.P}
	for i := range prim {
		if len(prim[i]) != n {
			err = fmt.Errorf("snapshot field %d has %d values, grid has %d cells", i, len(prim[i]), n)
			return
		}
	}
	return
}

// Snapshot recovers the primitives of the current conserved state and
// copies out the active zone
func (c *SRHD) Snapshot() (snap *Snapshot, err error) {
	if err = c.refreshPrimitives(); err != nil {
		return
	}
	g := c.Grid
	snap = &Snapshot{
		Time:     c.Time,
		Dt:       c.Dt,
		Step:     c.Steps,
		Dims:     g.Dims,
		N:        g.N,
		Min:      g.Min,
		Max:      g.Max,
		Geometry: g.Geometry,
		Spacing:  g.Spacing,
		Gamma:    c.Gamma,
		Rho:      g.ExtractActive(c.Prim[PRho]),
		V1:       g.ExtractActive(c.Prim[PV1]),
		V2:       g.ExtractActive(c.Prim[PV2]),
		P:        g.ExtractActive(c.Prim[PPres]),
	}
	return
}

func (c *SRHD) writeCheckpoint(ctx context.Context) (err error) {
	var snap *Snapshot
	if snap, err = c.Snapshot(); err != nil {
		return
	}
	if err = c.Checkpointer.WriteCheckpoint(ctx, snap); err != nil {
		return fmt.Errorf("writing checkpoint at t = %g: %w", c.Time, err)
	}
	c.lastCheckpoint = c.Time
	return
}
