package controllers

import "github.com/bobwilson3/skydio-quadrotor/internal/quad"

// Hover commands the open-loop hover rate on all four rotors. Thrust
// exactly cancels gravity and the mixing rows cancel pairwise, so a level
// vehicle at rest stays put; it applies no feedback.
type Hover struct {
	rate float64
}

func NewHover(p *quad.Parameters) *Hover {
	return &Hover{rate: p.HoverRate()}
}

func (h *Hover) Step(t float64, x quad.State, ref quad.TrajectoryState) quad.Commands {
	return quad.Commands{h.rate, h.rate, h.rate, h.rate}
}
