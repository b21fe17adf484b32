// Package quad models a quadrotor as a rigid body: physical parameters
// with derived rotor coefficients, the kinematic state and its packed
// vector form, quaternion attitude utilities, and the Newton-Euler
// dynamics that implement [dynamo.System].
//
// The model is deliberately minimal: instantaneous rotor response, no
// aerodynamic drag, no ground effect, rigid symmetric mass distribution.
package quad
