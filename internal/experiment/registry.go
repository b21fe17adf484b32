package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/config"
	"github.com/bobwilson3/skydio-quadrotor/internal/controllers"
	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
	"github.com/bobwilson3/skydio-quadrotor/internal/integrators"
	"github.com/bobwilson3/skydio-quadrotor/internal/metrics"
	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
	"github.com/bobwilson3/skydio-quadrotor/internal/sim"
	"github.com/bobwilson3/skydio-quadrotor/internal/trajectory"
)

// Registry maps the names used on the CLI and in config files to factories
// for integrators, controllers and trajectories.
type Registry struct {
	integrators  map[string]func() dynamo.Integrator
	controllers  map[string]func(p *quad.Parameters, c config.ControllerConfig) sim.Controller
	trajectories map[string]func(c config.TrajectoryConfig) sim.Trajectory
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators:  make(map[string]func() dynamo.Integrator),
		controllers:  make(map[string]func(*quad.Parameters, config.ControllerConfig) sim.Controller),
		trajectories: make(map[string]func(config.TrajectoryConfig) sim.Trajectory),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.controllers["zero"] = func(p *quad.Parameters, c config.ControllerConfig) sim.Controller {
		return controllers.NewZero()
	}
	r.controllers["hover"] = func(p *quad.Parameters, c config.ControllerConfig) sim.Controller {
		return controllers.NewHover(p)
	}
	r.controllers["altitude"] = func(p *quad.Parameters, c config.ControllerConfig) sim.Controller {
		return controllers.NewAltitude(p, c.Kp, c.Ki, c.Kd)
	}

	r.trajectories["hold"] = func(c config.TrajectoryConfig) sim.Trajectory {
		return trajectory.NewHold(r3.Vec{X: c.X, Y: c.Y, Z: c.Z})
	}
	r.trajectories["circle"] = func(c config.TrajectoryConfig) sim.Trajectory {
		return &trajectory.Circle{
			Center: r3.Vec{X: c.X, Y: c.Y, Z: c.Z},
			Radius: c.Radius,
			Period: c.Period,
		}
	}

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, p *quad.Parameters, c config.ControllerConfig) (sim.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s", name)
	}
	return fn(p, c), nil
}

func (r *Registry) GetTrajectory(name string, c config.TrajectoryConfig) (sim.Trajectory, error) {
	fn, ok := r.trajectories[name]
	if !ok {
		return nil, fmt.Errorf("unknown trajectory: %s", name)
	}
	return fn(c), nil
}

// DefaultMetrics are attached to every CLI run.
func DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewControlEffort(),
		metrics.NewExcursion(50.0),
		metrics.NewMaxTilt(),
	}
}
