package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

// Excursion reports the fraction of samples whose distance from the origin
// stayed within a bound; 1.0 means the vehicle never left it.
type Excursion struct {
	name       string
	bound      float64
	violations int
	samples    int
}

func NewExcursion(bound float64) *Excursion {
	return &Excursion{name: "excursion", bound: bound}
}

func (e *Excursion) Name() string {
	return e.name
}

func (e *Excursion) Observe(x quad.State, u quad.Commands, t float64) {
	e.samples++
	if r3.Norm(x.Position) > e.bound {
		e.violations++
	}
}

func (e *Excursion) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Excursion) Reset() {
	e.violations = 0
	e.samples = 0
}
