package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
	"github.com/bobwilson3/skydio-quadrotor/internal/integrators"
	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// Simulator owns the single current state of a run and advances it one
// macro-step at a time: trajectory reference, controller command, rotor
// mixing, ODE solve under zero-order-hold control, quaternion
// renormalization, record. Policies are injected at construction; the
// loop never hard-codes a control law.
//
// A Simulator is not safe for concurrent use; run independent simulations
// through Ensemble instead.
type Simulator struct {
	dyn       *quad.Dynamics
	integ     dynamo.Integrator
	ctrl      Controller
	traj      Trajectory
	metrics   []Metric
	observers []Observer
}

func New(dyn *quad.Dynamics, integ dynamo.Integrator, ctrl Controller, traj Trajectory) *Simulator {
	return &Simulator{
		dyn:   dyn,
		integ: integ,
		ctrl:  ctrl,
		traj:  traj,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Dynamics() *quad.Dynamics { return s.dyn }

// Step advances one macro-step from x at time t and returns the new state,
// the commands that were held across the step, and the orientation norm
// deviation before renormalization.
func (s *Simulator) Step(x quad.State, t float64, cfg Config) (quad.State, quad.Commands, float64, error) {
	ref := s.traj.Eval(t, x)
	u := s.ctrl.Step(t, x, ref)
	if err := validateCommands(u); err != nil {
		return x, u, 0, err
	}

	ctl := s.dyn.ControlInput(u)
	next, err := integrators.Solve(s.integ, s.dyn, x.Pack(), ctl, t, cfg.Dt, cfg.Tolerance)
	if err != nil {
		return x, u, 0, err
	}
	if !next.IsValid() {
		return x, u, 0, dynamo.ErrInvalidState
	}

	nx := quad.Unpack(next)
	drift := math.Abs(1 - normOf(nx))
	q, err := quad.Normalize(nx.Orientation)
	if err != nil {
		return x, u, drift, err
	}
	nx.Orientation = q
	return nx, u, drift, nil
}

// Run simulates from x0 until cfg.Duration. The run is atomic: any failed
// step aborts it with a SimError carrying the failing time and state.
func (s *Simulator) Run(ctx context.Context, x0 quad.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	q0, err := quad.Normalize(x0.Orientation)
	if err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}
	x0.Orientation = q0

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:    make([]float64, 0, steps+1),
		States:   make([]quad.State, 0, steps+1),
		Commands: make([]quad.Commands, 0, steps),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0
	t := 0.0

	result.Times = append(result.Times, t)
	result.States = append(result.States, x)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		nx, u, drift, err := s.Step(x, t, cfg)
		if err != nil {
			return result, &dynamo.SimError{Step: i, Time: t, State: x.Pack(), Wrapped: err}
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		result.QuatDrift = math.Max(result.QuatDrift, drift)

		x = nx
		t += cfg.Dt
		result.Steps++

		result.Times = append(result.Times, t)
		result.States = append(result.States, x)
		result.Commands = append(result.Commands, u)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrBadParameters)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrBadParameters)
	}
	if cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g: %w", cfg.Tolerance, dynamo.ErrBadParameters)
	}
	return nil
}

// validateCommands rejects malformed policy output at the boundary where
// the simulator consumes it, before it can reach the math.
func validateCommands(u quad.Commands) error {
	if len(u) != quad.NumRotors {
		return fmt.Errorf("controller returned %d rotor rates, want %d: %w", len(u), quad.NumRotors, dynamo.ErrDimensionMismatch)
	}
	for i, r := range u {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("rotor %d rate is not finite: %w", i, dynamo.ErrInvalidState)
		}
	}
	return nil
}

func normOf(s quad.State) float64 {
	q := s.Orientation
	return math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
}
