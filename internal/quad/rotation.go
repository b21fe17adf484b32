package quad

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// Rotate applies the active body→world rotation q to a body-frame vector.
// q must be unit norm.
func Rotate(q quat.Number, v r3.Vec) r3.Vec {
	return r3.Rotation(q).Rotate(v)
}

// Compose returns the rotation "first b, then a".
func Compose(a, b quat.Number) quat.Number {
	return quat.Mul(a, b)
}

// OrientationRate returns dq/dt for a body whose orientation is q and whose
// angular velocity w is expressed in the body frame:
//
//	dq/dt = ½ q ⊗ (0, w)
//
// The product uses the current q, so the underlying linear map is rebuilt
// from the orientation at every evaluation. The result is a quaternion
// rate, not a rotation: it is integrated like any other state component
// and only the integrator's final output is renormalized.
func OrientationRate(q quat.Number, w r3.Vec) quat.Number {
	return quat.Scale(0.5, quat.Mul(q, quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z}))
}

// Normalize rescales q to unit norm. A norm near zero is pathological and
// reported as a numerical-instability error rather than hidden.
func Normalize(q quat.Number) (quat.Number, error) {
	n := quat.Abs(q)
	if n < 1e-9 {
		return q, dynamo.ErrDegenerateOrientation
	}
	return quat.Scale(1/n, q), nil
}

// FromEuler builds the body→world quaternion from intrinsic yaw-pitch-roll
// (Z, then Y, then X) angles in radians.
func FromEuler(yaw, pitch, roll float64) quat.Number {
	qz := quat.Number{Real: math.Cos(yaw / 2), Kmag: math.Sin(yaw / 2)}
	qy := quat.Number{Real: math.Cos(pitch / 2), Jmag: math.Sin(pitch / 2)}
	qx := quat.Number{Real: math.Cos(roll / 2), Imag: math.Sin(roll / 2)}
	return quat.Mul(qz, quat.Mul(qy, qx))
}

// ToEuler extracts yaw-pitch-roll from a unit quaternion, inverse of
// FromEuler. Pitch is clamped at the ±π/2 gimbal singularity.
func ToEuler(q quat.Number) (yaw, pitch, roll float64) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	sinp := 2 * (w*y - z*x)
	switch {
	case sinp >= 1:
		pitch = math.Pi / 2
	case sinp <= -1:
		pitch = -math.Pi / 2
	default:
		pitch = math.Asin(sinp)
	}

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	return yaw, pitch, roll
}
