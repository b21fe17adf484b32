package integrators

import "github.com/bobwilson3/skydio-quadrotor/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method with a fixed step.
// The stage buffers are reused across calls, so a single instance must not
// be shared between concurrent runs; Ensemble builds one per goroutine.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	stage          dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.stage = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	r.resize(n)

	copy(r.k1, dyn.Derive(x, u, t))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*0.5*r.k1[i]
	}
	copy(r.k2, dyn.Derive(r.stage, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, dyn.Derive(r.stage, u, t+dt*0.5))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*r.k3[i]
	}
	copy(r.k4, dyn.Derive(r.stage, u, t+dt))

	next := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return next
}
