package integrators

import (
	"fmt"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// MinStep is the smallest internal substep Solve will attempt before
// declaring the solve numerically stuck.
const MinStep = 1e-10

// Solve advances x across [t, t+dt] under constant control u, taking as
// many internal substeps as the integrator's error control requires and
// returning only the state at t+dt. Non-adaptive integrators take the
// interval in a single step.
func Solve(integ dynamo.Integrator, dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, tol float64) (dynamo.State, error) {
	adaptive, ok := integ.(dynamo.AdaptiveIntegrator)
	if !ok {
		return integ.Step(dyn, x, u, t, dt), nil
	}

	end := t + dt
	h := dt
	for end-t > 1e-12*dt {
		if h > end-t {
			h = end - t
		}
		if h < MinStep {
			return nil, fmt.Errorf("solving over [%.6f, %.6f]: %w", t, end, dynamo.ErrStepTooSmall)
		}

		next, hNext, err := adaptive.StepAdaptive(dyn, x, u, t, h, tol)
		if err != nil {
			return nil, err
		}
		if hNext < h {
			// Step rejected; retry at the suggested size.
			h = hNext
			continue
		}

		x = next
		t += h
		h = hNext
	}
	return x, nil
}
