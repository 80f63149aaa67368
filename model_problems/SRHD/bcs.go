package SRHD

import (
	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/types"
)

/*
GhostEnforcer fills the ghost layers of a field from the interior.

Along an axis with n storage cells and ghost width g, ghost cell idx copies
from:

	Outflow     the nearest interior cell
	Periodic    idx + (n-2g) below, idx - (n-2g) above
	Reflecting  2D: the mirror image, 2g-1-idx below and 2(n-g)-1-idx above
	            1D: the nearest interior cell

and reflecting ghosts negate the momentum normal to the boundary. With g = 1
the two reflecting maps are the same. The x1 ghosts are filled on every row
first, then the x2 ghosts on every column including the x1 ghost columns.
*/
type GhostEnforcer struct {
	grid   *mesh.Grid
	bcs    [2]types.AxisBoundary
	mirror bool
}

func NewGhostEnforcer(grid *mesh.Grid, bcs [2]types.AxisBoundary) *GhostEnforcer {
	return &GhostEnforcer{
		grid:   grid,
		bcs:    bcs,
		mirror: grid.Dims == 2,
	}
}

// ghostSource returns the storage index along the axis that ghost idx copies
// from and whether the normal component changes sign
func (ge *GhostEnforcer) ghostSource(bc types.AxisBoundary, idx, n int) (src int, flip bool) {
	var (
		g     = ge.grid.Ghosts
		upper = idx >= n-g
		kind  = bc.Lower
	)
	if upper {
		kind = bc.Upper
	}
	switch kind {
	case types.Periodic:
		if upper {
			src = idx - (n - 2*g)
		} else {
			src = idx + (n - 2*g)
		}
	case types.Reflecting:
		flip = true
		switch {
		case ge.mirror && upper:
			src = 2*(n-g) - 1 - idx
		case ge.mirror:
			src = 2*g - 1 - idx
		case upper:
			src = n - g - 1
		default:
			src = g
		}
	default:
		if upper {
			src = n - g - 1
		} else {
			src = g
		}
	}
	return
}

func (ge *GhostEnforcer) ghostIndices(n int) (idx []int) {
	var (
		g = ge.grid.Ghosts
	)
	for d := 0; d < g; d++ {
		idx = append(idx, d, n-1-d)
	}
	return
}

// Apply overwrites the ghost cells of Q in place. Q may hold conserved or
// primitive fields, the momentum and velocity slots share axis numbers.
func (ge *GhostEnforcer) Apply(Q [4][]float64) {
	var (
		g      = ge.grid
		nx, ny = g.NX, g.NY
	)
	for j := 0; j < ny; j++ {
		for _, i := range ge.ghostIndices(nx) {
			src, flip := ge.ghostSource(ge.bcs[0], i, nx)
			copyCell(Q, g.Index(i, j), g.Index(src, j), flip, QS1)
		}
	}
	if g.Dims == 1 {
		return
	}
	for _, j := range ge.ghostIndices(ny) {
		src, flip := ge.ghostSource(ge.bcs[1], j, ny)
		for i := 0; i < nx; i++ {
			copyCell(Q, g.Index(i, j), g.Index(i, src), flip, QS2)
		}
	}
}

func copyCell(Q [4][]float64, dst, src int, flip bool, normal int) {
	for n := 0; n < 4; n++ {
		Q[n][dst] = Q[n][src]
	}
	if flip {
		Q[normal][dst] = -Q[normal][dst]
	}
}
