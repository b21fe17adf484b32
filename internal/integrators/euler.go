package integrators

import "github.com/bobwilson3/skydio-quadrotor/internal/dynamo"

// Euler is the explicit first-order method. Too inaccurate for flight
// dynamics at useful step sizes; kept as the baseline the benchmarks and
// accuracy tests compare against.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}
