package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gosrhd/types"
	"github.com/notargets/gosrhd/utils"
)

// GridSpec describes a structured grid before it is built
type GridSpec struct {
	Dims     int    // 1 or 2
	N        [2]int // Active cells along x1 and x2, N[1] is ignored in 1D
	Min, Max [2]float64
	Geometry types.Geometry
	Spacing  [2]types.Spacing
	Ghosts   int // Ghost layer width, 1 for first order and 2 for second order
}

/*
Grid is a structured 1D or 2D grid surrounded by ghost layers.

Storage is flattened as k = i + NX*j where i runs over all x1 cells, ghosts
included, and j over all x2 cells. In 1D NY is 1 and j is always 0. Geometric
queries (widths, areas, volumes) take active zone indices, where active cell
(0,0) sits at storage (Ghosts, Ghosts) in 2D and (Ghosts, 0) in 1D.

In spherical geometry x1 is the radius and x2 is the polar angle, the flow is
axisymmetric.
*/
type Grid struct {
	GridSpec
	NX, NY           int       // Storage extent, ghosts included
	X1Faces, X2Faces []float64 // Active zone face coordinates, N+1 entries
	X1, X2           []float64 // Active zone cell centers
}

func NewGrid(spec GridSpec) (g *Grid, err error) {
	if err = spec.validate(); err != nil {
		return
	}
	g = &Grid{GridSpec: spec}
	if spec.Dims == 1 {
		g.N[1] = 1
		g.NX, g.NY = spec.N[0]+2*spec.Ghosts, 1
	} else {
		g.NX, g.NY = spec.N[0]+2*spec.Ghosts, spec.N[1]+2*spec.Ghosts
	}
	g.X1Faces, g.X1 = faces(g.N[0], spec.Min[0], spec.Max[0], spec.Spacing[0])
	if spec.Dims == 2 {
		g.X2Faces, g.X2 = faces(g.N[1], spec.Min[1], spec.Max[1], spec.Spacing[1])
	} else {
		g.X2Faces, g.X2 = []float64{0, 1}, []float64{0.5}
		if spec.Geometry == types.Spherical {
			// 1D spherical integrates over the full polar range
			g.X2Faces, g.X2 = []float64{0, math.Pi}, []float64{0.5 * math.Pi}
		}
	}
	return
}

func (spec GridSpec) validate() (err error) {
	if spec.Dims != 1 && spec.Dims != 2 {
		return fmt.Errorf("grid dimension must be 1 or 2, have %d", spec.Dims)
	}
	if spec.Ghosts != 1 && spec.Ghosts != 2 {
		return fmt.Errorf("ghost layer width must be 1 or 2, have %d", spec.Ghosts)
	}
	for n := 0; n < spec.Dims; n++ {
		if spec.N[n] < spec.Ghosts || spec.N[n] < 2 {
			return fmt.Errorf("axis x%d has %d cells, need at least %d", n+1, spec.N[n], max(2, spec.Ghosts))
		}
		if !(spec.Min[n] < spec.Max[n]) {
			return fmt.Errorf("axis x%d bounds [%g, %g] are not increasing", n+1, spec.Min[n], spec.Max[n])
		}
		if spec.Spacing[n] == types.Logarithmic && spec.Min[n] <= 0 {
			return fmt.Errorf("axis x%d is log spaced and needs a positive lower bound, have %g", n+1, spec.Min[n])
		}
	}
	if spec.Geometry == types.Spherical {
		if spec.Min[0] < 0 {
			return fmt.Errorf("spherical radius can not be negative, have %g", spec.Min[0])
		}
		if spec.Dims == 2 && (spec.Min[1] < 0 || spec.Max[1] > math.Pi*(1+1.e-12)) {
			return fmt.Errorf("polar angle range [%g, %g] must lie within [0, pi]", spec.Min[1], spec.Max[1])
		}
	}
	return
}

func faces(n int, xmin, xmax float64, spacing types.Spacing) (xf, xc []float64) {
	xf = make([]float64, n+1)
	xc = make([]float64, n)
	switch spacing {
	case types.Logarithmic:
		floats.LogSpan(xf, xmin, xmax)
		for i := range xc {
			xc[i] = math.Sqrt(xf[i] * xf[i+1])
		}
	default:
		floats.Span(xf, xmin, xmax)
		for i := range xc {
			xc[i] = 0.5 * (xf[i] + xf[i+1])
		}
	}
	return
}

// Size is the storage length of one field, ghosts included
func (g *Grid) Size() int { return g.NX * g.NY }

// ActiveSize is the number of evolved cells
func (g *Grid) ActiveSize() int { return g.N[0] * g.N[1] }

// Index maps storage coordinates to the flattened storage index
func (g *Grid) Index(i, j int) (k int) {
	if i < 0 || i >= g.NX || j < 0 || j >= g.NY {
		panic(fmt.Errorf("grid index (%d,%d) outside of [0,%d)x[0,%d)", i, j, g.NX, g.NY))
	}
	k = i + g.NX*j
	return
}

// IJ is the inverse of Index
func (g *Grid) IJ(k int) (i, j int) {
	if k < 0 || k >= g.Size() {
		panic(fmt.Errorf("grid index %d outside of [0,%d)", k, g.Size()))
	}
	i, j = k%g.NX, k/g.NX
	return
}

// Offset2 is the storage offset of the first active row, zero in 1D
func (g *Grid) Offset2() int {
	if g.Dims == 1 {
		return 0
	}
	return g.Ghosts
}

// StorageIndex maps active zone coordinates to the flattened storage index
func (g *Grid) StorageIndex(ia, ja int) int {
	if ia < 0 || ia >= g.N[0] || ja < 0 || ja >= g.N[1] {
		panic(fmt.Errorf("active index (%d,%d) outside of [0,%d)x[0,%d)", ia, ja, g.N[0], g.N[1]))
	}
	return g.Index(ia+g.Ghosts, ja+g.Offset2())
}

// ActiveIndex maps active zone coordinates to the flattened active index
// used by snapshots and source arrays
func (g *Grid) ActiveIndex(ia, ja int) int {
	if ia < 0 || ia >= g.N[0] || ja < 0 || ja >= g.N[1] {
		panic(fmt.Errorf("active index (%d,%d) outside of [0,%d)x[0,%d)", ia, ja, g.N[0], g.N[1]))
	}
	return ia + g.N[0]*ja
}

// ActiveIJ is the inverse of ActiveIndex
func (g *Grid) ActiveIJ(ka int) (ia, ja int) {
	if ka < 0 || ka >= g.ActiveSize() {
		panic(fmt.Errorf("active index %d outside of [0,%d)", ka, g.ActiveSize()))
	}
	ia, ja = ka%g.N[0], ka/g.N[0]
	return
}

// IsGhost reports whether storage index k is in a ghost layer
func (g *Grid) IsGhost(k int) bool {
	i, j := g.IJ(k)
	if i < g.Ghosts || i >= g.NX-g.Ghosts {
		return true
	}
	return g.Dims == 2 && (j < g.Ghosts || j >= g.NY-g.Ghosts)
}

func (g *Grid) Width1(ia int) float64 { return g.X1Faces[ia+1] - g.X1Faces[ia] }

func (g *Grid) Width2(ja int) float64 { return g.X2Faces[ja+1] - g.X2Faces[ja] }

// Length2 is the physical length of a cell along x2, r*dtheta in spherical
func (g *Grid) Length2(ia, ja int) float64 {
	if g.Geometry == types.Spherical {
		return g.X1[ia] * g.Width2(ja)
	}
	return g.Width2(ja)
}

// Area1 is the area of the x1 face at the lower side of active cell
// (ia, ja), ia runs over [0, N1]
func (g *Grid) Area1(ia, ja int) float64 {
	var (
		r = g.X1Faces[ia]
	)
	switch {
	case g.Geometry == types.Spherical && g.Dims == 1:
		return r * r
	case g.Geometry == types.Spherical:
		return r * r * (math.Cos(g.X2Faces[ja]) - math.Cos(g.X2Faces[ja+1]))
	case g.Dims == 1:
		return 1
	}
	return g.Width2(ja)
}

// Area2 is the area of the x2 face at the lower side of active cell
// (ia, ja), ja runs over [0, N2]
func (g *Grid) Area2(ia, ja int) float64 {
	if g.Geometry == types.Spherical {
		var (
			rm, rp = g.X1Faces[ia], g.X1Faces[ia+1]
		)
		return math.Sin(g.X2Faces[ja]) * 0.5 * (rp*rp - rm*rm)
	}
	return g.Width1(ia)
}

func (g *Grid) Volume(ia, ja int) float64 {
	var (
		rm, rp = g.X1Faces[ia], g.X1Faces[ia+1]
	)
	switch {
	case g.Geometry == types.Spherical && g.Dims == 1:
		return (utils.POW(rp, 3) - utils.POW(rm, 3)) / 3
	case g.Geometry == types.Spherical:
		return (utils.POW(rp, 3) - utils.POW(rm, 3)) / 3 *
			(math.Cos(g.X2Faces[ja]) - math.Cos(g.X2Faces[ja+1]))
	case g.Dims == 1:
		return g.Width1(ia)
	}
	return g.Width1(ia) * g.Width2(ja)
}

// ExtractActive copies the active zone of a storage field
func (g *Grid) ExtractActive(field []float64) (active []float64) {
	active = make([]float64, g.ActiveSize())
	for ja := 0; ja < g.N[1]; ja++ {
		k0 := g.StorageIndex(0, ja)
		copy(active[ja*g.N[0]:(ja+1)*g.N[0]], field[k0:k0+g.N[0]])
	}
	return
}

// InsertActive writes an active zone field into storage, ghosts untouched
func (g *Grid) InsertActive(active, field []float64) {
	for ja := 0; ja < g.N[1]; ja++ {
		k0 := g.StorageIndex(0, ja)
		copy(field[k0:k0+g.N[0]], active[ja*g.N[0]:(ja+1)*g.N[0]])
	}
}

func (g *Grid) String() string {
	if g.Dims == 1 {
		return fmt.Sprintf("%s 1D grid, %d cells on [%g, %g] (%s), ghost width %d",
			g.Geometry, g.N[0], g.Min[0], g.Max[0], g.Spacing[0], g.Ghosts)
	}
	return fmt.Sprintf("%s 2D grid, %dx%d cells on [%g, %g]x[%g, %g], ghost width %d",
		g.Geometry, g.N[0], g.N[1], g.Min[0], g.Max[0], g.Min[1], g.Max[1], g.Ghosts)
}
