package SRHD

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/types"
)

func newTestField(g *mesh.Grid, fill func(k int) float64) (Q [4][]float64) {
	for n := range Q {
		Q[n] = make([]float64, g.Size())
		for k := range Q[n] {
			if !g.IsGhost(k) {
				Q[n][k] = fill(k) + 1000*float64(n)
			}
		}
	}
	return
}

func TestGhostEnforcer1D(t *testing.T) {
	{ // Second order, reflecting: left interior momentum [2, -1] gives ghosts [-2, -2]
		g, err := mesh.NewGrid(mesh.GridSpec{Dims: 1, N: [2]int{4}, Max: [2]float64{1}, Ghosts: 2})
		require.NoError(t, err)
		Q := newTestField(g, func(k int) float64 { return float64(k) })
		Q[QS1][2], Q[QS1][3] = 2, -1
		NewGhostEnforcer(g, [2]types.AxisBoundary{reflecting}).Apply(Q)
		assert.Equal(t, []float64{-2, -2}, Q[QS1][0:2])
		assert.Equal(t, []float64{Q[QD][2], Q[QD][2]}, Q[QD][0:2])
		assert.Equal(t, -Q[QS1][5], Q[QS1][6])
		assert.Equal(t, -Q[QS1][5], Q[QS1][7])
		assert.Equal(t, Q[QTau][5], Q[QTau][7])
	}
	{ // First order, reflecting at the upper edge and outflow at the lower
		g, err := mesh.NewGrid(mesh.GridSpec{Dims: 1, N: [2]int{4}, Max: [2]float64{1}, Ghosts: 1})
		require.NoError(t, err)
		Q := newTestField(g, func(k int) float64 { return float64(k) })
		bc := types.AxisBoundary{Lower: types.Outflow, Upper: types.Reflecting}
		NewGhostEnforcer(g, [2]types.AxisBoundary{bc}).Apply(Q)
		assert.Equal(t, Q[QS1][1], Q[QS1][0])
		assert.Equal(t, -Q[QS1][4], Q[QS1][5])
		assert.Equal(t, Q[QD][4], Q[QD][5])
	}
	{ // First order, reflecting at the lower edge as at a spherical origin
		g, err := mesh.NewGrid(mesh.GridSpec{Dims: 1, N: [2]int{4}, Max: [2]float64{1}, Ghosts: 1})
		require.NoError(t, err)
		Q := newTestField(g, func(k int) float64 { return float64(k) })
		NewGhostEnforcer(g, [2]types.AxisBoundary{radial}).Apply(Q)
		assert.Equal(t, []float64{1, 1, 2, 3, 4, 4}, Q[QD])
		assert.Equal(t, []float64{-1001, 1001, 1002, 1003, 1004, 1004}, Q[QS1])
		assert.Equal(t, Q[QTau][1], Q[QTau][0])
	}
	{ // Outflow copies the nearest interior cell
		g, err := mesh.NewGrid(mesh.GridSpec{Dims: 1, N: [2]int{5}, Max: [2]float64{1}, Ghosts: 2})
		require.NoError(t, err)
		Q := newTestField(g, func(k int) float64 { return float64(k) })
		NewGhostEnforcer(g, [2]types.AxisBoundary{outflow}).Apply(Q)
		assert.Equal(t, []float64{2, 2, 2, 3, 4, 5, 6, 6, 6}, Q[QD])
	}
	{ // Periodic wraps around the active zone
		g, err := mesh.NewGrid(mesh.GridSpec{Dims: 1, N: [2]int{5}, Max: [2]float64{1}, Ghosts: 2})
		require.NoError(t, err)
		Q := newTestField(g, func(k int) float64 { return float64(k) })
		NewGhostEnforcer(g, [2]types.AxisBoundary{periodic}).Apply(Q)
		assert.Equal(t, []float64{5, 6, 2, 3, 4, 5, 6, 2, 3}, Q[QD])
		assert.Equal(t, []float64{1005, 1006, 1002, 1003, 1004, 1005, 1006, 1002, 1003}, Q[QS1])
	}
}

func TestGhostEnforcer2D(t *testing.T) {
	g, err := mesh.NewGrid(mesh.GridSpec{Dims: 2, N: [2]int{4, 6}, Max: [2]float64{1, 1}, Ghosts: 2})
	require.NoError(t, err)
	var (
		nx, ny = g.NX, g.NY
		bcs    = [2]types.AxisBoundary{periodic, reflecting}
	)
	Q := newTestField(g, func(k int) float64 { return float64(k) })
	NewGhostEnforcer(g, bcs).Apply(Q)
	for i := 0; i < nx; i++ {
		// Mirror across the lower and upper x2 edges with S2 negated
		assert.Equal(t, Q[QD][g.Index(i, 3)], Q[QD][g.Index(i, 0)])
		assert.Equal(t, Q[QD][g.Index(i, 2)], Q[QD][g.Index(i, 1)])
		assert.Equal(t, -Q[QS2][g.Index(i, 3)], Q[QS2][g.Index(i, 0)])
		assert.Equal(t, -Q[QS2][g.Index(i, 2)], Q[QS2][g.Index(i, 1)])
		assert.Equal(t, Q[QS1][g.Index(i, 3)], Q[QS1][g.Index(i, 0)])
		assert.Equal(t, Q[QD][g.Index(i, ny-4)], Q[QD][g.Index(i, ny-1)])
		assert.Equal(t, Q[QD][g.Index(i, ny-3)], Q[QD][g.Index(i, ny-2)])
		assert.Equal(t, -Q[QS2][g.Index(i, ny-3)], Q[QS2][g.Index(i, ny-2)])
	}
	for j := 2; j < ny-2; j++ {
		assert.Equal(t, Q[QD][g.Index(nx-4, j)], Q[QD][g.Index(0, j)])
		assert.Equal(t, Q[QD][g.Index(nx-3, j)], Q[QD][g.Index(1, j)])
		assert.Equal(t, Q[QD][g.Index(2, j)], Q[QD][g.Index(nx-2, j)])
		assert.Equal(t, Q[QD][g.Index(3, j)], Q[QD][g.Index(nx-1, j)])
	}
	// Corners come from the x1 ghosts of the mirrored row
	assert.Equal(t, Q[QD][g.Index(nx-4, 3)], Q[QD][g.Index(0, 0)])
	assert.NotZero(t, Q[QD][g.Index(0, 0)])
}

func TestGhostEnforcer2DFirstOrder(t *testing.T) {
	g, err := mesh.NewGrid(mesh.GridSpec{Dims: 2, N: [2]int{4, 4}, Max: [2]float64{1, 1}, Ghosts: 1})
	require.NoError(t, err)
	var (
		nx, ny = g.NX, g.NY
		bcs    = [2]types.AxisBoundary{radial, reflecting}
	)
	Q := newTestField(g, func(k int) float64 { return float64(k) })
	NewGhostEnforcer(g, bcs).Apply(Q)
	for j := 1; j < ny-1; j++ {
		// Reflecting at the lower x1 edge, outflow at the upper
		assert.Equal(t, Q[QD][g.Index(1, j)], Q[QD][g.Index(0, j)])
		assert.Equal(t, -Q[QS1][g.Index(1, j)], Q[QS1][g.Index(0, j)])
		assert.Equal(t, Q[QS2][g.Index(1, j)], Q[QS2][g.Index(0, j)])
		assert.Equal(t, Q[QD][g.Index(nx-2, j)], Q[QD][g.Index(nx-1, j)])
		assert.Equal(t, Q[QS1][g.Index(nx-2, j)], Q[QS1][g.Index(nx-1, j)])
	}
	for i := 0; i < nx; i++ {
		// Row 0 from row 1 and the last row from the one before, S2 negated
		for _, n := range []int{QD, QS1, QTau} {
			assert.Equal(t, Q[n][g.Index(i, 1)], Q[n][g.Index(i, 0)])
			assert.Equal(t, Q[n][g.Index(i, ny-2)], Q[n][g.Index(i, ny-1)])
		}
		assert.Equal(t, -Q[QS2][g.Index(i, 1)], Q[QS2][g.Index(i, 0)])
		assert.Equal(t, -Q[QS2][g.Index(i, ny-2)], Q[QS2][g.Index(i, ny-1)])
	}
	// Both normal momenta change sign in the corner at the origin
	k, kInner := g.Index(0, 0), g.Index(1, 1)
	assert.Equal(t, Q[QD][kInner], Q[QD][k])
	assert.Equal(t, -Q[QS1][kInner], Q[QS1][k])
	assert.Equal(t, -Q[QS2][kInner], Q[QS2][k])
	assert.NotZero(t, Q[QD][k])
}
