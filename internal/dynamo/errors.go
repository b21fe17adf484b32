package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates NaN or Inf appeared in a state vector.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDegenerateOrientation indicates the orientation quaternion norm
	// collapsed toward zero; silent renormalization would hide it.
	ErrDegenerateOrientation = errors.New("dynamo: orientation quaternion norm near zero")

	// ErrStepTooSmall indicates the adaptive step fell below the minimum
	// without meeting the error tolerance.
	ErrStepTooSmall = errors.New("dynamo: adaptive step below minimum")

	// ErrDimensionMismatch indicates mismatched state/control dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrBadParameters indicates invalid physical configuration.
	ErrBadParameters = errors.New("dynamo: invalid parameters")
)

// SimError wraps an error with the failing step, time and state so a
// diverged run can be diagnosed. There is no recovery: a failed step
// aborts the run.
type SimError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
