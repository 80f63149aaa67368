package SRHD

import (
	"fmt"
	"time"

	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/types"
)

type Config struct {
	Gamma              float64
	CFL                float64
	StartTime          float64
	FinalTime          float64
	Order              int                  // Spatial order, 1 or 2, must match the grid ghost width
	TimeIntegrator     types.TimeIntegrator // Zero picks Forward Euler for order 1 and SSP-RK2 for order 2
	Flux               types.FluxType
	PLMTheta           float64
	Boundaries         [2]types.AxisBoundary
	Newton             NewtonParams
	MaxIterations      int           // Step budget, zero for none
	WallTimeLimit      time.Duration // Zero for none
	EngineDuration     float64
	DecayConstant      float64
	CheckpointInterval float64 // Simulation time between checkpoints, zero writes only the final state
	StepsBeforePlot    int
	ProcLimit          int
}

func DefaultConfig() Config {
	return Config{
		Gamma:           4. / 3.,
		CFL:             0.4,
		FinalTime:       1,
		Order:           1,
		Flux:            types.FLUX_HLL,
		PLMTheta:        1.5,
		Newton:          DefaultNewton,
		StepsBeforePlot: 100,
	}
}

func (cfg *Config) setDefaults() {
	if cfg.TimeIntegrator == 0 {
		cfg.TimeIntegrator = types.RK1
		if cfg.Order == 2 {
			cfg.TimeIntegrator = types.RK2
		}
	}
	if cfg.Newton.MaxIter == 0 {
		cfg.Newton.MaxIter = DefaultNewton.MaxIter
	}
	if cfg.Newton.Tolerance == 0 {
		cfg.Newton.Tolerance = DefaultNewton.Tolerance
	}
	if cfg.PLMTheta == 0 {
		cfg.PLMTheta = 1.5
	}
	if cfg.StepsBeforePlot <= 0 {
		cfg.StepsBeforePlot = 100
	}
}

// Validate checks a configuration against the grid it will run on, every
// returned error wraps ErrConfig
func (cfg Config) Validate(grid *mesh.Grid) (err error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
	}
	switch {
	case !(cfg.Gamma > 1):
		return fail("adiabatic index must be greater than one, have %g", cfg.Gamma)
	case !(cfg.CFL > 0 && cfg.CFL < 1):
		return fail("CFL must lie in (0,1), have %g", cfg.CFL)
	case !(cfg.FinalTime > cfg.StartTime):
		return fail("final time %g is not after start time %g", cfg.FinalTime, cfg.StartTime)
	case cfg.Order != 1 && cfg.Order != 2:
		return fail("order of accuracy must be 1 or 2, have %d", cfg.Order)
	case grid == nil:
		return fail("no grid")
	case grid.Ghosts != cfg.Order:
		return fail("order %d needs ghost width %d, grid has %d", cfg.Order, cfg.Order, grid.Ghosts)
	case grid.Geometry != types.Cartesian && grid.Geometry != types.Spherical:
		return fail("invalid geometry %s", grid.Geometry)
	case cfg.Flux != types.FLUX_HLL && cfg.Flux != types.FLUX_HLLC:
		return fail("invalid flux type %s", cfg.Flux)
	case cfg.TimeIntegrator > types.RK3:
		return fail("invalid time integrator %s", cfg.TimeIntegrator)
	case cfg.Order == 2 && !(cfg.PLMTheta >= 1 && cfg.PLMTheta <= 2):
		return fail("limiter theta must lie in [1,2], have %g", cfg.PLMTheta)
	case !(cfg.Newton.Tolerance > 0) || cfg.Newton.MaxIter < 1:
		return fail("newton tolerance %g and iteration limit %d must be positive",
			cfg.Newton.Tolerance, cfg.Newton.MaxIter)
	case cfg.CheckpointInterval < 0:
		return fail("negative checkpoint interval %g", cfg.CheckpointInterval)
	}
	for n := 0; n < grid.Dims; n++ {
		bc := cfg.Boundaries[n]
		if (bc.Lower == types.Periodic) != (bc.Upper == types.Periodic) {
			return fail("axis x%d is periodic on one side only (%s)", n+1, bc)
		}
		if bc.Lower > types.Periodic || bc.Upper > types.Periodic {
			return fail("axis x%d has an invalid boundary kind (%s)", n+1, bc)
		}
	}
	return
}
