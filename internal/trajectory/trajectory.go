// Package trajectory provides reference generators consumed by the
// simulator loop. Only the state contract matters to the core; these are
// the minimal shapes used by the presets and experiments.
package trajectory

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// Hold references a fixed point.
type Hold struct {
	Point r3.Vec
	Yaw   float64
}

func NewHold(point r3.Vec) *Hold {
	return &Hold{Point: point}
}

func (h *Hold) Eval(t float64, x quad.State) quad.TrajectoryState {
	return quad.TrajectoryState{Time: t, Position: h.Point, Yaw: h.Yaw}
}

// Line references a point moving at constant velocity from a start.
type Line struct {
	Start    r3.Vec
	Velocity r3.Vec
}

func (l *Line) Eval(t float64, x quad.State) quad.TrajectoryState {
	return quad.TrajectoryState{
		Time:     t,
		Position: r3.Add(l.Start, r3.Scale(t, l.Velocity)),
		Velocity: l.Velocity,
	}
}

// Circle references a point on a horizontal circle at fixed altitude,
// completing one revolution per Period seconds, with yaw tangent to the
// path.
type Circle struct {
	Center r3.Vec
	Radius float64
	Period float64
}

func (c *Circle) Eval(t float64, x quad.State) quad.TrajectoryState {
	w := 2 * math.Pi / c.Period
	sin, cos := math.Sincos(w * t)
	return quad.TrajectoryState{
		Time: t,
		Position: r3.Vec{
			X: c.Center.X + c.Radius*cos,
			Y: c.Center.Y + c.Radius*sin,
			Z: c.Center.Z,
		},
		Velocity: r3.Vec{
			X: -c.Radius * w * sin,
			Y: c.Radius * w * cos,
		},
		Yaw: w*t + math.Pi/2,
	}
}
