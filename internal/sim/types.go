package sim

import "github.com/bobwilson3/skydio-quadrotor/internal/quad"

// Controller turns the current state and trajectory reference into rotor
// commands. Pure functions are expected; stateful controllers (integral
// terms and the like) must own their internal state explicitly.
type Controller interface {
	Step(t float64, x quad.State, ref quad.TrajectoryState) quad.Commands
}

// Trajectory produces the reference the controller tracks.
type Trajectory interface {
	Eval(t float64, x quad.State) quad.TrajectoryState
}

// Metric accumulates a scalar over a run; observed once per macro-step.
type Metric interface {
	Name() string
	Observe(x quad.State, u quad.Commands, t float64)
	Value() float64
	Reset()
}

// Observer is a per-step hook, used by the live view.
type Observer interface {
	OnStep(x quad.State, u quad.Commands, t float64)
}

// Config holds the run settings. Dt is the macro-step at which policies
// are consulted and output recorded; Tolerance bounds the local error of
// the internal adaptive substeps.
type Config struct {
	Dt        float64
	Duration  float64
	Tolerance float64
}

func DefaultConfig() Config {
	return Config{
		Dt:        0.01,
		Duration:  10.0,
		Tolerance: 1e-6,
	}
}

// Result is the ordered, append-only record of a run. States[0] is the
// initial condition at Times[0]=0; Commands[i] was held over the step
// ending at Times[i+1], so it has one fewer entry than States.
type Result struct {
	Times    []float64
	States   []quad.State
	Commands []quad.Commands
	Metrics  map[string]float64

	// QuatDrift is the largest deviation of the orientation norm from 1
	// observed after integration, before renormalization.
	QuatDrift float64
	Steps     int
}
