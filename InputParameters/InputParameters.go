package InputParameters

import (
	"fmt"
	"io"
	"time"

	"github.com/ghodss/yaml"

	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/model_problems/SRHD"
	"github.com/notargets/gosrhd/types"
)

// State is a primitive state in the input deck
type State struct {
	Rho float64 `json:"Rho"`
	V1  float64 `json:"V1"`
	V2  float64 `json:"V2"`
	P   float64 `json:"P"`
}

func (s State) fluid() SRHD.FluidState { return SRHD.FluidState{Rho: s.Rho, V1: s.V1, V2: s.V2, P: s.P} }

// Boundaries names the boundary kind on each side of each axis, empty sides
// take the default of the geometry
type Boundaries struct {
	X1Lower string `json:"X1Lower"`
	X1Upper string `json:"X1Upper"`
	X2Lower string `json:"X2Lower"`
	X2Upper string `json:"X2Upper"`
}

// Sources are constant external source rates per unit volume in conserved
// order, switched in time by EngineDuration and DecayConstant
type Sources struct {
	D      float64 `json:"D"`
	S1     float64 `json:"S1"`
	S2     float64 `json:"S2"`
	Tau    float64 `json:"Tau"`
	Radius float64 `json:"Radius"` // Cells within Radius of the origin, all cells when zero
}

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title              string     `json:"Title"`
	Dimensions         int        `json:"Dimensions"`
	Geometry           string     `json:"Geometry"`
	X1Spacing          string     `json:"X1Spacing"`
	X2Spacing          string     `json:"X2Spacing"`
	N1                 int        `json:"N1"`
	N2                 int        `json:"N2"`
	X1Min              float64    `json:"X1Min"`
	X1Max              float64    `json:"X1Max"`
	X2Min              float64    `json:"X2Min"`
	X2Max              float64    `json:"X2Max"`
	Gamma              float64    `json:"Gamma"`
	CFL                float64    `json:"CFL"`
	StartTime          float64    `json:"StartTime"`
	FinalTime          float64    `json:"FinalTime"`
	Order              int        `json:"Order"`
	TimeIntegrator     string     `json:"TimeIntegrator"`
	FluxType           string     `json:"FluxType"`
	PLMTheta           float64    `json:"PLMTheta"`
	Boundaries         Boundaries `json:"Boundaries"`
	Tolerance          float64    `json:"Tolerance"`
	MaxNewtonIter      int        `json:"MaxNewtonIter"`
	MaxIterations      int        `json:"MaxIterations"`
	WallTimeLimit      string     `json:"WallTimeLimit"` // Go duration, "90m"
	EngineDuration     float64    `json:"EngineDuration"`
	DecayConstant      float64    `json:"DecayConstant"`
	Sources            *Sources   `json:"Sources"`
	CheckpointInterval float64    `json:"CheckpointInterval"`
	StepsBeforePlot    int        `json:"StepsBeforePlot"`
	ProcLimit          int        `json:"ProcLimit"`
	InitType           string     `json:"InitType"`
	Left               State      `json:"Left"`      // Riemann
	Right              State      `json:"Right"`     // Riemann
	Interface          *float64   `json:"Interface"` // Riemann, middle of x1 when absent
	Inside             State      `json:"Inside"`    // Blast wave
	Outside            State      `json:"Outside"`   // Blast wave
	Radius             float64    `json:"Radius"`    // Blast wave
	Uniform            State      `json:"Uniform"`
}

// NewInputParameters returns a deck holding the defaults, a parsed file
// overrides what it names
func NewInputParameters() *InputParameters {
	def := SRHD.DefaultConfig()
	return &InputParameters{
		Dimensions:      1,
		N1:              400,
		X1Max:           1,
		X2Max:           1,
		Gamma:           def.Gamma,
		CFL:             def.CFL,
		FinalTime:       def.FinalTime,
		Order:           def.Order,
		PLMTheta:        def.PLMTheta,
		Tolerance:       def.Newton.Tolerance,
		MaxNewtonIter:   def.Newton.MaxIter,
		StepsBeforePlot: def.StepsBeforePlot,
	}
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print(out io.Writer) {
	fmt.Fprintf(out, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(out, "%d\t\t\t= Dimensions\n", ip.Dimensions)
	fmt.Fprintf(out, "[%s]\t\t= Geometry\n", orDefault(ip.Geometry, "cartesian"))
	if ip.Dimensions == 2 {
		fmt.Fprintf(out, "%dx%d\t\t\t= Cells\n", ip.N1, ip.N2)
		fmt.Fprintf(out, "[%g,%g]x[%g,%g]\t= Domain\n", ip.X1Min, ip.X1Max, ip.X2Min, ip.X2Max)
	} else {
		fmt.Fprintf(out, "%d\t\t\t= Cells\n", ip.N1)
		fmt.Fprintf(out, "[%g,%g]\t\t= Domain\n", ip.X1Min, ip.X1Max)
	}
	fmt.Fprintf(out, "%8.5f\t\t= Gamma\n", ip.Gamma)
	fmt.Fprintf(out, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(out, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(out, "[%s]\t\t\t= Flux Type\n", orDefault(ip.FluxType, "hll"))
	fmt.Fprintf(out, "[%d]\t\t\t= Order\n", ip.Order)
	fmt.Fprintf(out, "[%s]\t\t= InitType\n", orDefault(ip.InitType, "riemann"))
	if s := ip.Sources; s != nil {
		fmt.Fprintf(out, "[%g,%g,%g,%g]\t= Sources", s.D, s.S1, s.S2, s.Tau)
		if s.Radius > 0 {
			fmt.Fprintf(out, " within r < %g", s.Radius)
		}
		fmt.Fprintln(out)
	}
	if ip.CheckpointInterval > 0 {
		fmt.Fprintf(out, "%8.5f\t\t= Checkpoint Interval\n", ip.CheckpointInterval)
	}
}

func orDefault(label, def string) string {
	if label == "" {
		return def
	}
	return label
}

// Validate parses every named option, the numerical limits are checked by
// the solver configuration
func (ip *InputParameters) Validate() (err error) {
	_, _, _, err = ip.resolveConfig()
	return
}

func (ip *InputParameters) gridSpec() (spec mesh.GridSpec, err error) {
	spec = mesh.GridSpec{
		Dims:   ip.Dimensions,
		N:      [2]int{ip.N1, ip.N2},
		Min:    [2]float64{ip.X1Min, ip.X2Min},
		Max:    [2]float64{ip.X1Max, ip.X2Max},
		Ghosts: ip.Order,
	}
	if spec.Geometry, err = types.ParseGeometry(ip.Geometry); err != nil {
		return
	}
	if spec.Spacing[0], err = types.ParseSpacing(ip.X1Spacing); err != nil {
		return
	}
	if spec.Spacing[1], err = types.ParseSpacing(ip.X2Spacing); err != nil {
		return
	}
	return
}

func (ip *InputParameters) boundaries(geom types.Geometry) (bcs [2]types.AxisBoundary, err error) {
	var (
		labels = [2][2]string{
			{ip.Boundaries.X1Lower, ip.Boundaries.X1Upper},
			{ip.Boundaries.X2Lower, ip.Boundaries.X2Upper},
		}
		defaults = [2][2]types.BoundaryKind{{types.Outflow, types.Outflow}, {types.Outflow, types.Outflow}}
	)
	if geom == types.Spherical {
		// Symmetry at the origin and on the polar axis
		defaults = [2][2]types.BoundaryKind{{types.Reflecting, types.Outflow}, {types.Reflecting, types.Reflecting}}
	}
	for n := 0; n < 2; n++ {
		kinds := defaults[n]
		for side := 0; side < 2; side++ {
			if labels[n][side] == "" {
				continue
			}
			if kinds[side], err = types.ParseBoundaryKind(labels[n][side]); err != nil {
				return
			}
		}
		bcs[n] = types.AxisBoundary{Lower: kinds[0], Upper: kinds[1]}
	}
	return
}

func (ip *InputParameters) resolveConfig() (cfg SRHD.Config, spec mesh.GridSpec, it types.InitType, err error) {
	if spec, err = ip.gridSpec(); err != nil {
		return
	}
	cfg = SRHD.Config{
		Gamma:              ip.Gamma,
		CFL:                ip.CFL,
		StartTime:          ip.StartTime,
		FinalTime:          ip.FinalTime,
		Order:              ip.Order,
		PLMTheta:           ip.PLMTheta,
		Newton:             SRHD.NewtonParams{Tolerance: ip.Tolerance, MaxIter: ip.MaxNewtonIter},
		MaxIterations:      ip.MaxIterations,
		EngineDuration:     ip.EngineDuration,
		DecayConstant:      ip.DecayConstant,
		CheckpointInterval: ip.CheckpointInterval,
		StepsBeforePlot:    ip.StepsBeforePlot,
		ProcLimit:          ip.ProcLimit,
	}
	if cfg.TimeIntegrator, err = types.ParseTimeIntegrator(ip.TimeIntegrator); err != nil {
		return
	}
	if cfg.Flux, err = types.ParseFluxType(ip.FluxType); err != nil {
		return
	}
	if cfg.Boundaries, err = ip.boundaries(spec.Geometry); err != nil {
		return
	}
	if ip.WallTimeLimit != "" {
		if cfg.WallTimeLimit, err = time.ParseDuration(ip.WallTimeLimit); err != nil {
			err = fmt.Errorf("wall time limit: %w", err)
			return
		}
	}
	if it, err = types.ParseInitType(ip.InitType); err != nil {
		return
	}
	if it == types.INIT_BLASTWAVE && !(ip.Radius > 0) {
		err = fmt.Errorf("blast wave radius must be positive, have %g", ip.Radius)
		return
	}
	if s := ip.Sources; s != nil {
		switch {
		case s.Radius < 0:
			err = fmt.Errorf("source radius can not be negative, have %g", s.Radius)
		case spec.Dims == 1 && s.S2 != 0:
			err = fmt.Errorf("x2 momentum source %g needs a 2D deck", s.S2)
		}
	}
	return
}

// Resolve builds the solver configuration, the grid and the initial active
// zone primitive field described by the deck
func (ip *InputParameters) Resolve() (cfg SRHD.Config, grid *mesh.Grid, prim [4][]float64, err error) {
	var (
		spec mesh.GridSpec
		it   types.InitType
	)
	if cfg, spec, it, err = ip.resolveConfig(); err != nil {
		return
	}
	if grid, err = mesh.NewGrid(spec); err != nil {
		return
	}
	if err = cfg.Validate(grid); err != nil {
		return
	}
	switch it {
	case types.INIT_BLASTWAVE:
		prim = SRHD.InitBlastWave(grid, ip.Inside.fluid(), ip.Outside.fluid(), ip.Radius)
	case types.INIT_UNIFORM:
		prim = SRHD.InitUniform(grid, ip.Uniform.fluid())
	default:
		x0 := 0.5 * (ip.X1Min + ip.X1Max)
		if ip.Interface != nil {
			x0 = *ip.Interface
		}
		prim = SRHD.InitRiemann(grid, ip.Left.fluid(), ip.Right.fluid(), x0)
	}
	return
}

// ResolveSources returns the external source field of the deck on the active
// zone of grid, ok is false when the deck has no Sources block
func (ip *InputParameters) ResolveSources(grid *mesh.Grid) (src [4][]float64, ok bool) {
	s := ip.Sources
	if s == nil {
		return
	}
	rates := [4]float64{s.D, s.S1, s.S2, s.Tau}
	for n := range src {
		src[n] = make([]float64, grid.ActiveSize())
	}
	for ka := 0; ka < grid.ActiveSize(); ka++ {
		ia, ja := grid.ActiveIJ(ka)
		if s.Radius > 0 && SRHD.CellRadius(grid, ia, ja) >= s.Radius {
			continue
		}
		for n := range src {
			src[n][ka] = rates[n]
		}
	}
	return src, true
}
