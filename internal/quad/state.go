package quad

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// StateDim is the length of the packed state vector.
const StateDim = 13

// State is the vehicle's instantaneous kinematic state. Values are
// replaced wholesale each macro-step, never mutated in place.
//
// Position and Velocity are world-frame; AngularVelocity is body-frame.
// Orientation is the unit quaternion rotating body coordinates into world
// coordinates, stored scalar-first: (w, x, y, z) maps onto
// quat.Number{Real, Imag, Jmag, Kmag}.
type State struct {
	Position        r3.Vec
	Velocity        r3.Vec
	Orientation     quat.Number
	AngularVelocity r3.Vec
}

// Pack flattens the state into the vector the integrators operate on.
// The layout is a contract shared with Unpack and Dynamics.Derive:
//
//	[px py pz  vx vy vz  qw qx qy qz  wx wy wz]
func (s State) Pack() dynamo.State {
	return dynamo.State{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Orientation.Real, s.Orientation.Imag, s.Orientation.Jmag, s.Orientation.Kmag,
		s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
	}
}

// Unpack is the inverse of Pack.
func Unpack(x dynamo.State) State {
	return State{
		Position:        r3.Vec{X: x[0], Y: x[1], Z: x[2]},
		Velocity:        r3.Vec{X: x[3], Y: x[4], Z: x[5]},
		Orientation:     quat.Number{Real: x[6], Imag: x[7], Jmag: x[8], Kmag: x[9]},
		AngularVelocity: r3.Vec{X: x[10], Y: x[11], Z: x[12]},
	}
}

// Commands holds one angular rate (rad/s) per rotor, indexed by the rotor
// layout documented in dynamics.go. Rates are physically nonnegative; the
// thrust model squares them, so sign cannot flip thrust direction.
type Commands []float64

// NumRotors is the expected length of Commands.
const NumRotors = 4

// TrajectoryState is the reference a Trajectory hands the Controller for
// one macro-step: where the vehicle should be, and optionally how fast it
// should be moving and which way it should point.
type TrajectoryState struct {
	Time     float64
	Position r3.Vec
	Velocity r3.Vec
	Yaw      float64
}
