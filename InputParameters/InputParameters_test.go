package InputParameters

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gosrhd/model_problems/SRHD"
	"github.com/notargets/gosrhd/types"
)

var shockTubeDeck = []byte(`
Title: "Marti Muller Problem 1"
Dimensions: 1
N1: 100
X1Min: 0
X1Max: 1
Gamma: 1.6666666666666667
CFL: 0.5
FinalTime: 0.4
Order: 2
FluxType: hllc
TimeIntegrator: ssprk3
WallTimeLimit: 90m
Interface: 0.4
Left:
  Rho: 10
  P: 13.333333333333334
Right:
  Rho: 1
  P: 1.e-6
`)

var blastDeck = []byte(`
Title: "Spherical Blast"
Geometry: spherical
X1Spacing: log
N1: 64
X1Min: 0.01
X1Max: 1
FinalTime: 0.1
InitType: blastwave
Radius: 0.4
Inside:
  Rho: 1
  P: 1000
Outside:
  Rho: 1
  P: 1
Boundaries:
  X1Upper: reflecting
`)

func TestParseShockTube(t *testing.T) {
	ip := NewInputParameters()
	require.NoError(t, ip.Parse(shockTubeDeck))
	assert.Equal(t, "Marti Muller Problem 1", ip.Title)
	assert.Equal(t, 100, ip.N1)
	require.NotNil(t, ip.Interface)
	assert.Equal(t, 0.4, *ip.Interface)
	// Unnamed entries keep their defaults
	assert.Equal(t, SRHD.DefaultConfig().Newton.MaxIter, ip.MaxNewtonIter)
	require.NoError(t, ip.Validate())

	cfg, grid, prim, err := ip.Resolve()
	require.NoError(t, err)
	assert.Equal(t, types.FLUX_HLLC, cfg.Flux)
	assert.Equal(t, types.RK3, cfg.TimeIntegrator)
	assert.Equal(t, 90*time.Minute, cfg.WallTimeLimit)
	assert.Equal(t, 2, grid.Ghosts)
	assert.Equal(t, [2]types.AxisBoundary{
		{Lower: types.Outflow, Upper: types.Outflow},
		{Lower: types.Outflow, Upper: types.Outflow},
	}, cfg.Boundaries)
	require.Len(t, prim[0], 100)
	// The interface sits at x = 0.4
	assert.Equal(t, 10., prim[0][39])
	assert.Equal(t, 1., prim[0][40])
	assert.Equal(t, 1.e-6, prim[3][99])

	var buf bytes.Buffer
	ip.Print(&buf)
	assert.Contains(t, buf.String(), "= CFL")
	assert.Contains(t, buf.String(), "[hllc]")
}

func TestParseBlastWave(t *testing.T) {
	ip := NewInputParameters()
	require.NoError(t, ip.Parse(blastDeck))
	cfg, grid, prim, err := ip.Resolve()
	require.NoError(t, err)
	assert.Equal(t, types.Spherical, grid.Geometry)
	assert.Equal(t, types.Logarithmic, grid.Spacing[0])
	// The lower radial edge keeps its default, the upper is named in the deck
	assert.Equal(t, types.AxisBoundary{Lower: types.Reflecting, Upper: types.Reflecting}, cfg.Boundaries[0])
	assert.Equal(t, types.AxisBoundary{Lower: types.Reflecting, Upper: types.Reflecting}, cfg.Boundaries[1])
	assert.Equal(t, 1000., prim[3][0])
	assert.Equal(t, 1., prim[3][63])
}

func TestResolveSources(t *testing.T) {
	ip := NewInputParameters()
	require.NoError(t, ip.Parse([]byte(`
N1: 10
InitType: uniform
Uniform: {Rho: 1, P: 1}
EngineDuration: 0.5
Sources:
  D: 0.5
  Tau: 2
  Radius: 0.3
`)))
	_, grid, _, err := ip.Resolve()
	require.NoError(t, err)
	src, ok := ip.ResolveSources(grid)
	require.True(t, ok)
	// Cell centers at 0.05, 0.15 and 0.25 lie inside the radius
	assert.Equal(t, []float64{2, 2, 2, 0, 0, 0, 0, 0, 0, 0}, src[3])
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0, 0, 0, 0, 0, 0, 0}, src[0])
	assert.Equal(t, make([]float64, 10), src[1])

	var buf bytes.Buffer
	ip.Print(&buf)
	assert.Contains(t, buf.String(), "= Sources within r < 0.3")

	// Without a radius every cell gets the rates
	ip.Sources.Radius = 0
	src, _ = ip.ResolveSources(grid)
	assert.Equal(t, 20., floats.Sum(src[3]))

	ip = NewInputParameters()
	require.NoError(t, ip.Parse(shockTubeDeck))
	_, ok = ip.ResolveSources(grid)
	assert.False(t, ok)
}

func TestInputErrors(t *testing.T) {
	for _, deck := range []string{
		"FluxType: roe",
		"Geometry: cylindrical",
		"TimeIntegrator: rk4",
		"WallTimeLimit: forever",
		"InitType: vortex",
		"InitType: blast",
		"Boundaries: {X1Lower: inflow}",
		"Sources: {Tau: 1, Radius: -1}",
		"Sources: {S2: 1}",
	} {
		ip := NewInputParameters()
		require.NoError(t, ip.Parse([]byte(deck)), deck)
		assert.Error(t, ip.Validate(), deck)
	}
	{ // Numerical limits are reported as configuration errors
		ip := NewInputParameters()
		require.NoError(t, ip.Parse([]byte("CFL: 1.5")))
		_, _, _, err := ip.Resolve()
		assert.True(t, errors.Is(err, SRHD.ErrConfig))
	}
	{
		ip := NewInputParameters()
		assert.Error(t, ip.Parse([]byte("N1: [1, 2]")))
	}
}
