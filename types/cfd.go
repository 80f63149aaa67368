package types

import (
	"fmt"
	"strings"
)

type Geometry uint8

const (
	Cartesian Geometry = iota
	Spherical
)

func (g Geometry) String() string {
	switch g {
	case Cartesian:
		return "Cartesian"
	case Spherical:
		return "Spherical"
	}
	return fmt.Sprintf("Geometry(%d)", uint8(g))
}

func ParseGeometry(label string) (g Geometry, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "cartesian", "planar", "":
		g = Cartesian
	case "spherical", "polar":
		g = Spherical
	default:
		err = fmt.Errorf("unknown geometry %q, must be one of [cartesian, spherical]", label)
	}
	return
}

type Spacing uint8

const (
	Linear Spacing = iota
	Logarithmic
)

func (s Spacing) String() string {
	switch s {
	case Linear:
		return "Linear"
	case Logarithmic:
		return "Logarithmic"
	}
	return fmt.Sprintf("Spacing(%d)", uint8(s))
}

func ParseSpacing(label string) (s Spacing, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "linear", "uniform", "":
		s = Linear
	case "log", "logarithmic", "log-spaced":
		s = Logarithmic
	default:
		err = fmt.Errorf("unknown grid spacing %q, must be one of [linear, log]", label)
	}
	return
}

type BoundaryKind uint8

const (
	Outflow BoundaryKind = iota
	Reflecting
	Periodic
)

func (b BoundaryKind) String() string {
	switch b {
	case Outflow:
		return "Outflow"
	case Reflecting:
		return "Reflecting"
	case Periodic:
		return "Periodic"
	}
	return fmt.Sprintf("BoundaryKind(%d)", uint8(b))
}

func ParseBoundaryKind(label string) (b BoundaryKind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "outflow", "out", "zero-gradient":
		b = Outflow
	case "reflecting", "reflect", "wall":
		b = Reflecting
	case "periodic":
		b = Periodic
	default:
		err = fmt.Errorf("unknown boundary kind %q, must be one of [outflow, reflecting, periodic]", label)
	}
	return
}

// AxisBoundary holds the boundary kinds at the lower and upper edge of one axis
type AxisBoundary struct {
	Lower, Upper BoundaryKind
}

func (ab AxisBoundary) String() string {
	return fmt.Sprintf("%s/%s", ab.Lower, ab.Upper)
}

type FluxType uint8

const (
	FLUX_HLL FluxType = iota
	FLUX_HLLC
)

func (ft FluxType) String() string {
	switch ft {
	case FLUX_HLL:
		return "HLL"
	case FLUX_HLLC:
		return "HLLC"
	}
	return fmt.Sprintf("FluxType(%d)", uint8(ft))
}

func ParseFluxType(label string) (ft FluxType, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "hll", "":
		ft = FLUX_HLL
	case "hllc":
		ft = FLUX_HLLC
	default:
		err = fmt.Errorf("unknown flux type %q, must be one of [hll, hllc]", label)
	}
	return
}

type TimeIntegrator uint8

const (
	RK1 TimeIntegrator = iota + 1 // Forward Euler
	RK2                           // SSP Runge Kutta, two stages
	RK3                           // SSP Runge Kutta, three stages
)

func (ti TimeIntegrator) String() string {
	switch ti {
	case RK1:
		return "Forward Euler"
	case RK2:
		return "SSP-RK2"
	case RK3:
		return "SSP-RK3"
	}
	return fmt.Sprintf("TimeIntegrator(%d)", uint8(ti))
}

// ParseTimeIntegrator returns zero for an empty label, the caller picks the
// integrator from the spatial order in that case
func ParseTimeIntegrator(label string) (ti TimeIntegrator, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "":
	case "rk1", "euler", "forward-euler":
		ti = RK1
	case "rk2", "ssprk2":
		ti = RK2
	case "rk3", "ssprk3":
		ti = RK3
	default:
		err = fmt.Errorf("unknown time integrator %q, must be one of [rk1, rk2, rk3]", label)
	}
	return
}

type InitType uint8

const (
	INIT_RIEMANN InitType = iota
	INIT_BLASTWAVE
	INIT_UNIFORM
)

func (it InitType) String() string {
	switch it {
	case INIT_RIEMANN:
		return "Riemann Problem"
	case INIT_BLASTWAVE:
		return "Blast Wave"
	case INIT_UNIFORM:
		return "Uniform"
	}
	return fmt.Sprintf("InitType(%d)", uint8(it))
}

func ParseInitType(label string) (it InitType, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "riemann", "shocktube", "":
		it = INIT_RIEMANN
	case "blastwave", "blast":
		it = INIT_BLASTWAVE
	case "uniform", "freestream":
		it = INIT_UNIFORM
	default:
		err = fmt.Errorf("unknown init type %q, must be one of [riemann, blastwave, uniform]", label)
	}
	return
}
