package metrics

import (
	"math"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// ControlEffort reports the mean absolute rotor rate over a run.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x quad.State, u quad.Commands, t float64) {
	for _, r := range u {
		c.sum += math.Abs(r)
	}
	c.samples += len(u)
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
