package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// MaxTilt reports the largest angle (radians) between the body +Z axis and
// world vertical seen over a run.
type MaxTilt struct {
	name string
	max  float64
}

func NewMaxTilt() *MaxTilt {
	return &MaxTilt{name: "max_tilt"}
}

func (m *MaxTilt) Name() string {
	return m.name
}

func (m *MaxTilt) Observe(x quad.State, u quad.Commands, t float64) {
	up := quad.Rotate(x.Orientation, r3.Vec{Z: 1})
	cos := math.Max(-1, math.Min(1, up.Z))
	m.max = math.Max(m.max, math.Acos(cos))
}

func (m *MaxTilt) Value() float64 {
	return m.max
}

func (m *MaxTilt) Reset() {
	m.max = 0
}
