package SRHD

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity is the class of every failure that leaves the physical
	// state unusable, a run that returns it can not continue
	ErrIntegrity         = errors.New("simulation integrity violated")
	ErrConvergence       = fmt.Errorf("%w: primitive recovery did not converge", ErrIntegrity)
	ErrSuperluminal      = fmt.Errorf("%w: superluminal velocity", ErrConvergence)
	ErrTimestepUnderflow = fmt.Errorf("%w: timestep underflow", ErrConvergence)
	ErrRiemannDegenerate = fmt.Errorf("%w: degenerate riemann problem", ErrIntegrity)
	ErrConfig            = errors.New("invalid configuration")
)

// Locations reported by CellError
const (
	AtCell = iota
	AtFace1
	AtFace2
)

// CellError identifies the cell, or the face on the lower side of the cell,
// where an integrity failure happened
type CellError struct {
	Cell       int // Storage index
	I, J       int
	Location   int
	Iterations int
	Trace      []float64 // Newton pressure iterates
	State      ConsState
	Err        error
}

func (e *CellError) Error() string {
	var where string
	switch e.Location {
	case AtFace1:
		where = "x1 face of "
	case AtFace2:
		where = "x2 face of "
	}
	msg := fmt.Sprintf("%scell %d (i=%d, j=%d): %v", where, e.Cell, e.I, e.J, e.Err)
	if e.Location == AtCell {
		msg += fmt.Sprintf(", conserved [D,S1,S2,Tau] = %v", e.State)
	}
	if e.Iterations > 0 {
		msg += fmt.Sprintf(", %d iterations, pressure trace %v", e.Iterations, e.Trace)
	}
	return msg
}

func (e *CellError) Unwrap() error { return e.Err }

// StepError adds the step number and simulation time to a fatal failure
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d at t = %.6g: %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
