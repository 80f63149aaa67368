package SRHD

import (
	"math"

	"github.com/notargets/gosrhd/mesh"
	"github.com/notargets/gosrhd/types"
)

// FluidState is a uniform primitive state used to seed problems
type FluidState struct {
	Rho, V1, V2, P float64
}

func (fs FluidState) Prim() PrimState { return PrimState{fs.Rho, fs.V1, fs.V2, fs.P} }

func newActiveField(grid *mesh.Grid) (prim [4][]float64) {
	for n := range prim {
		prim[n] = make([]float64, grid.ActiveSize())
	}
	return
}

func setCell(prim [4][]float64, ka int, fs FluidState) {
	prim[PRho][ka], prim[PV1][ka], prim[PV2][ka], prim[PPres][ka] = fs.Rho, fs.V1, fs.V2, fs.P
}

func InitUniform(grid *mesh.Grid, fs FluidState) (prim [4][]float64) {
	prim = newActiveField(grid)
	for ka := 0; ka < grid.ActiveSize(); ka++ {
		setCell(prim, ka, fs)
	}
	return
}

// InitRiemann places left for x1 < x0 and right elsewhere
func InitRiemann(grid *mesh.Grid, left, right FluidState, x0 float64) (prim [4][]float64) {
	prim = newActiveField(grid)
	for ka := 0; ka < grid.ActiveSize(); ka++ {
		ia, _ := grid.ActiveIJ(ka)
		if grid.X1[ia] < x0 {
			setCell(prim, ka, left)
		} else {
			setCell(prim, ka, right)
		}
	}
	return
}

// CellRadius is the distance of the center of active cell (ia, ja) from the
// origin, the spherical radius or the distance in the Cartesian plane
func CellRadius(grid *mesh.Grid, ia, ja int) float64 {
	if grid.Geometry == types.Cartesian && grid.Dims == 2 {
		return math.Hypot(grid.X1[ia], grid.X2[ja])
	}
	return math.Abs(grid.X1[ia])
}

// InitBlastWave places inside within radius of the origin and outside
// elsewhere
func InitBlastWave(grid *mesh.Grid, inside, outside FluidState, radius float64) (prim [4][]float64) {
	prim = newActiveField(grid)
	for ka := 0; ka < grid.ActiveSize(); ka++ {
		ia, ja := grid.ActiveIJ(ka)
		if CellRadius(grid, ia, ja) < radius {
			setCell(prim, ka, inside)
		} else {
			setCell(prim, ka, outside)
		}
	}
	return
}
