// Package dynamo provides the core primitives for numerical simulation of
// ordinary differential equations:
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical stepping
//
// The quadrotor dynamics in internal/quad implement [System]; the solvers
// in internal/integrators implement [Integrator]. Nothing in this package
// knows about vehicles: it is the contract between the two.
package dynamo
