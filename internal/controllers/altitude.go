package controllers

import (
	"math"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// Altitude is a PID loop on vertical position that distributes the
// required collective thrust equally over the four rotors. It does not
// control attitude; it is an illustrative policy for level flight.
// The integral term is owned, mutable state.
type Altitude struct {
	Kp, Ki, Kd float64

	params   *quad.Parameters
	integral float64
	prevT    float64
	first    bool
}

func NewAltitude(p *quad.Parameters, kp, ki, kd float64) *Altitude {
	return &Altitude{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		params: p,
		first:  true,
	}
}

func (a *Altitude) Step(t float64, x quad.State, ref quad.TrajectoryState) quad.Commands {
	err := ref.Position.Z - x.Position.Z
	derr := ref.Velocity.Z - x.Velocity.Z

	if a.first {
		a.first = false
	} else if dt := t - a.prevT; dt > 0 {
		a.integral += err * dt
	}
	a.prevT = t

	p := a.params
	accel := a.Kp*err + a.Ki*a.integral + a.Kd*derr
	thrust := p.Mass * (p.Gravity + accel)
	if thrust < 0 {
		thrust = 0
	}

	rate := math.Sqrt(thrust / (4 * p.KThrust()))
	return quad.Commands{rate, rate, rate, rate}
}
