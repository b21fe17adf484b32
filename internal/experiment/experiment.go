package experiment

import (
	"context"
	"fmt"

	"github.com/bobwilson3/skydio-quadrotor/internal/config"
	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
	"github.com/bobwilson3/skydio-quadrotor/internal/sim"
)

// Experiment assembles a complete simulator from a config: vehicle
// parameters, integrator, controller, trajectory and default metrics.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the configured names through the registry and builds the
// simulator. Construction-time validation happens here: bad vehicle
// parameters or unknown names fail before any stepping.
func (e *Experiment) Setup(registry *Registry) error {
	params, err := e.cfg.Parameters()
	if err != nil {
		return err
	}
	integ, err := registry.GetIntegrator(e.cfg.Run.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := registry.GetController(e.cfg.Run.Controller, params, e.cfg.Controller)
	if err != nil {
		return err
	}
	traj, err := registry.GetTrajectory(e.cfg.Run.Trajectory, e.cfg.Trajectory)
	if err != nil {
		return err
	}

	e.simulator = sim.New(quad.NewDynamics(params), integ, ctrl, traj)
	for _, m := range DefaultMetrics() {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.cfg.InitialState(), e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:        e.cfg.Run.Dt,
		Duration:  e.cfg.Run.Duration,
		Tolerance: e.cfg.Run.Tolerance,
	}
}

// Simulator exposes the assembled simulator for attaching observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
