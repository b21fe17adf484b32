package controllers

import "github.com/bobwilson3/skydio-quadrotor/internal/quad"

// Zero commands no rotor output; the vehicle is in free fall.
type Zero struct{}

func NewZero() *Zero {
	return &Zero{}
}

func (z *Zero) Step(t float64, x quad.State, ref quad.TrajectoryState) quad.Commands {
	return make(quad.Commands, quad.NumRotors)
}
