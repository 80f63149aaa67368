package SRHD

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/types"
	"github.com/notargets/gosrhd/utils"
)

/*
SRHD integrates the special relativistic Euler equations for an ideal gas on
a structured grid with a finite volume scheme: HLL or HLLC interface fluxes,
first order or limited linear reconstruction of the primitives, and
Forward Euler or SSP Runge Kutta time stepping.

Every stage fills the ghost layers, recovers the primitives in every cell,
computes all face fluxes, and then the flux divergence and sources of the
active cells. Each of the three parallel sections finishes before the next
one starts.
*/
type SRHD struct {
	Config
	EOS            EOS
	Grid           *mesh.Grid
	Ghosts         *GhostEnforcer
	Q              [4][]float64 // Conserved D, S1, S2, Tau with ghosts
	Prim           [4][]float64 // Rho, V1, V2, P from the last primitive recovery
	W              []float64    // Lorentz factor from the last primitive recovery
	Sources        [4][]float64 // Optional external sources on the active zone
	Time, Dt       float64
	Steps          int
	Checkpointer   Checkpointer
	ParallelDegree int

	cellPM, activePM *utils.PartitionMap
	facePM           [2]*utils.PartitionMap
	F                [2][4][]float64 // Face fluxes along x1 and x2
	dQ, Q1, Q2       [4][]float64
	dtBucket         []float64
	dtCell           []int
	primFresh        bool
	nextCheckpoint   float64
	lastCheckpoint   float64
}

// NewSRHD seeds the conserved state from an active zone primitive field and
// recovers the primitives everywhere, which also checks the seeding
func NewSRHD(cfg Config, grid *mesh.Grid, prim [4][]float64) (c *SRHD, err error) {
	cfg.setDefaults()
	if err = cfg.Validate(grid); err != nil {
		return
	}
	for n := range prim {
		if len(prim[n]) != grid.ActiveSize() {
			err = fmt.Errorf("%w: primitive field %d has %d values, grid has %d active cells",
				ErrConfig, n, len(prim[n]), grid.ActiveSize())
			return
		}
	}
	c = &SRHD{
		Config:         cfg,
		EOS:            EOS{Gamma: cfg.Gamma},
		Grid:           grid,
		Ghosts:         NewGhostEnforcer(grid, cfg.Boundaries),
		Time:           cfg.StartTime,
		lastCheckpoint: math.Inf(-1),
	}
	var (
		size = grid.Size()
		nf1  = (grid.N[0] + 1) * grid.N[1]
		nf2  = grid.N[0] * (grid.N[1] + 1)
	)
	c.ParallelDegree = utils.SetParallelDegree(cfg.ProcLimit, grid.ActiveSize())
	c.cellPM = utils.NewPartitionMap(c.ParallelDegree, size)
	c.activePM = utils.NewPartitionMap(c.ParallelDegree, grid.ActiveSize())
	c.facePM[0] = utils.NewPartitionMap(c.ParallelDegree, nf1)
	c.facePM[1] = utils.NewPartitionMap(c.ParallelDegree, nf2)
	c.dtBucket = make([]float64, c.ParallelDegree)
	c.dtCell = make([]int, c.ParallelDegree)
	c.W = make([]float64, size)
	for n := 0; n < 4; n++ {
		c.Q[n] = make([]float64, size)
		c.Prim[n] = make([]float64, size)
		c.dQ[n] = make([]float64, size)
		c.Q1[n] = make([]float64, size)
		c.F[0][n] = make([]float64, nf1)
		if grid.Dims == 2 {
			c.F[1][n] = make([]float64, nf2)
		}
		if cfg.TimeIntegrator == types.RK3 {
			c.Q2[n] = make([]float64, size)
		}
	}
	for n := 0; n < 4; n++ {
		grid.InsertActive(prim[n], c.Prim[n])
	}
	for ka := 0; ka < grid.ActiveSize(); ka++ {
		var (
			ia, ja = grid.ActiveIJ(ka)
			k      = grid.StorageIndex(ia, ja)
		)
		if grid.Dims == 1 {
			c.Prim[PV2][k] = 0
		}
		q := c.primAt(c.Prim, k)
		if !q.Valid() {
			err = fmt.Errorf("%w: initial state %v at active cell (%d,%d) is not physical", ErrConfig, q, ia, ja)
			return
		}
		u := c.EOS.PrimToCons(q)
		for n := 0; n < 4; n++ {
			c.Q[n][k] = u[n]
		}
	}
	if err = c.refreshPrimitives(); err != nil {
		return
	}
	c.nextCheckpoint = c.Time + c.CheckpointInterval
	return
}

// SetSources installs external source terms on the active zone, four
// components per cell in conserved slot order
func (c *SRHD) SetSources(src [4][]float64) (err error) {
	for n := range src {
		if len(src[n]) != c.Grid.ActiveSize() {
			return fmt.Errorf("%w: source component %d has %d values, grid has %d active cells",
				ErrConfig, n, len(src[n]), c.Grid.ActiveSize())
		}
	}
	c.Sources = src
	return
}

// Resume continues the step count of a run restarted from the checkpoint
// written at step, Solve then does not write the current state again
func (c *SRHD) Resume(step int) {
	c.Steps = step
	c.lastCheckpoint = c.Time
}

func (c *SRHD) primAt(prim [4][]float64, k int) PrimState {
	return PrimState{prim[0][k], prim[1][k], prim[2][k], prim[3][k]}
}

func (c *SRHD) consAt(Q [4][]float64, k int) ConsState {
	return ConsState{Q[0][k], Q[1][k], Q[2][k], Q[3][k]}
}

func (c *SRHD) refreshPrimitives() (err error) {
	if c.primFresh {
		return
	}
	c.Ghosts.Apply(c.Q)
	if err = c.recoverPrimitives(c.Q); err != nil {
		return
	}
	c.primFresh = true
	return
}

// recoverPrimitives runs cons2prim in every cell, ghosts included, warm
// started from the pressure of the previous recovery
func (c *SRHD) recoverPrimitives(Q [4][]float64) (err error) {
	return c.cellPM.Run(func(bn, kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			var (
				u     = c.consAt(Q, k)
				guess = c.Prim[PPres][k]
			)
			q, W, _, err := c.EOS.Cons2Prim(u, guess, c.Newton)
			if err != nil {
				i, j := c.Grid.IJ(k)
				cerr := &CellError{Cell: k, I: i, J: j, State: u, Err: err}
				cerr.Trace, _ = c.EOS.Cons2PrimTrace(u, guess, c.Newton)
				cerr.Iterations = len(cerr.Trace)
				return cerr
			}
			for n := 0; n < 4; n++ {
				c.Prim[n][k] = q[n]
			}
			c.W[k] = W
		}
		return nil
	})
}

// faceFluxes solves the Riemann problem at every face of the active zone
func (c *SRHD) faceFluxes() (err error) {
	var (
		g   = c.Grid
		nf1 = g.N[0] + 1
	)
	err = c.facePM[0].Run(func(bn, kMin, kMax int) error {
		for f := kMin; f < kMax; f++ {
			var (
				iface, ja = f % nf1, f / nf1
				km        = g.Index(iface+g.Ghosts-1, ja+g.Offset2())
				qL, qR    = c.faceStates(c.Prim, km, km+1, 1)
			)
			flux, err := c.EOS.RiemannFlux(c.Flux, qL, qR, 1)
			if err != nil {
				i, j := g.IJ(km + 1)
				return &CellError{Cell: km + 1, I: i, J: j, Location: AtFace1, Err: err}
			}
			for n := 0; n < 4; n++ {
				c.F[0][n][f] = flux[n]
			}
		}
		return nil
	})
	if err != nil || g.Dims == 1 {
		return
	}
	err = c.facePM[1].Run(func(bn, kMin, kMax int) error {
		for f := kMin; f < kMax; f++ {
			var (
				ia, jface = f % g.N[0], f / g.N[0]
				km        = g.Index(ia+g.Ghosts, jface+g.Ghosts-1)
				qL, qR    = c.faceStates(c.Prim, km, km+g.NX, g.NX)
			)
			flux, err := c.EOS.RiemannFlux(c.Flux, qL, qR, 2)
			if err != nil {
				i, j := g.IJ(km + g.NX)
				return &CellError{Cell: km + g.NX, I: i, J: j, Location: AtFace2, Err: err}
			}
			for n := 0; n < 4; n++ {
				c.F[1][n][f] = flux[n]
			}
		}
		return nil
	})
	return
}

// divergence forms dQ/dt in the active cells from the face fluxes and sources
func (c *SRHD) divergence(Q, dQ [4][]float64, t float64) {
	var (
		g        = c.Grid
		nf1      = g.N[0] + 1
		factor   = c.sourceFactor(t)
		external = c.Sources[0] != nil && factor != 0
	)
	_ = c.activePM.Run(func(bn, kMin, kMax int) error {
		for ka := kMin; ka < kMax; ka++ {
			var (
				ia, ja = g.ActiveIJ(ka)
				k      = g.StorageIndex(ia, ja)
				vol    = g.Volume(ia, ja)
				fm, fp = ia + nf1*ja, ia + 1 + nf1*ja
				am, ap = g.Area1(ia, ja), g.Area1(ia+1, ja)
				s      = c.geometricSource(ia, ja, c.primAt(c.Prim, k), c.consAt(Q, k))
			)
			for n := 0; n < 4; n++ {
				dQ[n][k] = -(ap*c.F[0][n][fp]-am*c.F[0][n][fm])/vol + s[n]
			}
			if g.Dims == 2 {
				var (
					gm, gp = ia + g.N[0]*ja, ia + g.N[0]*(ja+1)
					bm, bp = g.Area2(ia, ja), g.Area2(ia, ja+1)
				)
				for n := 0; n < 4; n++ {
					dQ[n][k] -= (bp*c.F[1][n][gp] - bm*c.F[1][n][gm]) / vol
				}
			}
			if external {
				for n := 0; n < 4; n++ {
					dQ[n][k] += factor * c.Sources[n][ka]
				}
			}
		}
		return nil
	})
}

// rhs evaluates dQ/dt for the state Q at time t, and the adapted time step
// when adapt is set
func (c *SRHD) rhs(Q, dQ [4][]float64, t float64, adapt bool) (dt float64, err error) {
	c.Ghosts.Apply(Q)
	if err = c.recoverPrimitives(Q); err != nil {
		return
	}
	if adapt {
		if dt, err = c.AdaptDT(); err != nil {
			return
		}
	}
	if err = c.faceFluxes(); err != nil {
		return
	}
	c.divergence(Q, dQ, t)
	return
}

// combine sets dst = a*A + b*(B + dt*dQ) on every storage cell, dst may alias
// A or B
func (c *SRHD) combine(dst [4][]float64, a float64, A [4][]float64, b float64, B [4][]float64, dt float64) {
	_ = c.cellPM.Run(func(bn, kMin, kMax int) error {
		for n := 0; n < 4; n++ {
			var (
				d, x = dst[n][kMin:kMax], A[n][kMin:kMax]
				y, s = B[n][kMin:kMax], c.dQ[n][kMin:kMax]
			)
			for k := range d {
				d[k] = a*x[k] + b*(y[k]+dt*s[k])
			}
		}
		return nil
	})
}

// Step advances the solution by one adapted time step. On error the
// conserved state is left as it was before the step.
func (c *SRHD) Step() (err error) {
	var (
		dt float64
		t  = c.Time
	)
	c.primFresh = false
	if dt, err = c.rhs(c.Q, c.dQ, t, true); err != nil {
		return
	}
	if t+dt > c.FinalTime {
		dt = c.FinalTime - t
	}
	switch c.TimeIntegrator {
	case types.RK1:
		c.combine(c.Q, 0, c.Q, 1, c.Q, dt)
	case types.RK2:
		c.combine(c.Q1, 0, c.Q, 1, c.Q, dt)
		if _, err = c.rhs(c.Q1, c.dQ, t+dt, false); err != nil {
			return
		}
		c.combine(c.Q, 0.5, c.Q, 0.5, c.Q1, dt)
	case types.RK3:
		c.combine(c.Q1, 0, c.Q, 1, c.Q, dt)
		if _, err = c.rhs(c.Q1, c.dQ, t+dt, false); err != nil {
			return
		}
		c.combine(c.Q2, 0.75, c.Q, 0.25, c.Q1, dt)
		if _, err = c.rhs(c.Q2, c.dQ, t+0.5*dt, false); err != nil {
			return
		}
		c.combine(c.Q, 1./3., c.Q, 2./3., c.Q2, dt)
	}
	c.Time += dt
	c.Dt = dt
	c.Steps++
	return
}

// CheckIfFinished returns a non empty reason once the run should stop
func (c *SRHD) CheckIfFinished(start time.Time) (reason string) {
	switch {
	case c.Time >= c.FinalTime*(1-1.e-14):
		reason = "reached final time"
	case c.MaxIterations > 0 && c.Steps >= c.MaxIterations:
		reason = fmt.Sprintf("reached step limit %d", c.MaxIterations)
	case c.WallTimeLimit > 0 && time.Since(start) >= c.WallTimeLimit:
		reason = fmt.Sprintf("reached wall time limit %s", c.WallTimeLimit)
	}
	return
}

/*
Solve steps until the final time, the step budget or the wall time budget is
reached, or ctx is done. Budgets and ctx are only looked at between steps.
With a Checkpointer, snapshots are written at the start, whenever the time
passes a multiple of CheckpointInterval, and at the end. A failed step
returns a *StepError and leaves the last written checkpoint as the recovery
point.
*/
func (c *SRHD) Solve(ctx context.Context, out io.Writer) (err error) {
	var (
		start   = time.Now()
		reason  string
		elapsed time.Duration
	)
	c.PrintInitialization(out)
	if c.Checkpointer != nil && c.CheckpointInterval > 0 && c.lastCheckpoint != c.Time {
		if err = c.writeCheckpoint(ctx); err != nil {
			return
		}
	}
	for {
		if reason = c.CheckIfFinished(start); reason != "" {
			break
		}
		if err = ctx.Err(); err != nil {
			reason = "cancelled"
			break
		}
		stepStart := time.Now()
		if err = c.Step(); err != nil {
			return &StepError{Step: c.Steps + 1, Time: c.Time, Err: err}
		}
		elapsed += time.Since(stepStart)
		if c.Steps%c.StepsBeforePlot == 0 || c.Steps == 1 {
			if err = c.PrintUpdate(out); err != nil {
				return &StepError{Step: c.Steps, Time: c.Time, Err: err}
			}
		}
		if c.Checkpointer != nil && c.CheckpointInterval > 0 && c.Time >= c.nextCheckpoint {
			if err = c.writeCheckpoint(ctx); err != nil {
				return
			}
			for c.nextCheckpoint <= c.Time {
				c.nextCheckpoint += c.CheckpointInterval
			}
		}
	}
	if c.Checkpointer != nil && c.lastCheckpoint != c.Time {
		if cerr := c.writeCheckpoint(context.WithoutCancel(ctx)); cerr != nil {
			return cerr
		}
	}
	if perr := c.PrintUpdate(out); perr != nil {
		return &StepError{Step: c.Steps, Time: c.Time, Err: perr}
	}
	c.PrintFinal(out, elapsed, reason)
	return
}

func (c *SRHD) PrintInitialization(out io.Writer) {
	fmt.Fprintf(out, "Solving %s\n", c.Grid)
	fmt.Fprintf(out, "Gamma = %g, CFL = %g, %s flux, order %d, %s, boundaries x1 %s",
		c.Gamma, c.CFL, c.Flux, c.Order, c.TimeIntegrator, c.Boundaries[0])
	if c.Grid.Dims == 2 {
		fmt.Fprintf(out, ", x2 %s", c.Boundaries[1])
	}
	fmt.Fprintf(out, "\nParallel degree = %d\n", c.ParallelDegree)
	fmt.Fprintf(out, "Solving until finaltime = %8.5f\n", c.FinalTime)
	fmt.Fprintf(out, "    iter    time      dt    rho_min    rho_max      W_max\n")
}

// PrintUpdate recovers the primitives of the current state first, after a
// multi stage step the stored ones belong to the last stage
func (c *SRHD) PrintUpdate(out io.Writer) (err error) {
	if err = c.refreshPrimitives(); err != nil {
		return
	}
	var (
		rho = c.Grid.ExtractActive(c.Prim[PRho])
		W   = c.Grid.ExtractActive(c.W)
	)
	fmt.Fprintf(out, "%8d%8.5f%8.5f%11.4e%11.4e%11.4e\n",
		c.Steps, c.Time, c.Dt, floats.Min(rho), floats.Max(rho), floats.Max(W))
	return
}

func (c *SRHD) PrintFinal(out io.Writer, elapsed time.Duration, reason string) {
	var rate float64
	if c.Steps > 0 {
		rate = float64(elapsed.Microseconds()) / float64(c.Grid.ActiveSize()*c.Steps)
	}
	fmt.Fprintf(out, "Finished, %s at t = %g\n", reason, c.Time)
	fmt.Fprintf(out, "Rate of execution = %8.5f us/(cell*iteration) over %d iterations, %s\n",
		rate, c.Steps, utils.GetMemUsage())
}
