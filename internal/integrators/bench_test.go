package integrators

import (
	"testing"

	"gonum.org/v1/gonum/num/quat"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

func BenchmarkEuler(b *testing.B) {
	integrator := NewEuler()
	dyn := &oscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &oscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	dyn := &oscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkRK4Quadrotor(b *testing.B) {
	integrator := NewRK4()
	dyn := quad.NewDynamics(quad.DefaultParameters())
	r := dyn.Params().HoverRate()
	u := dyn.ControlInput(quad.Commands{r, r, r, r})
	x := quad.State{Orientation: quat.Number{Real: 1}}.Pack()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.001)
	}
}

func BenchmarkRK45Quadrotor(b *testing.B) {
	integrator := NewRK45()
	dyn := quad.NewDynamics(quad.DefaultParameters())
	r := dyn.Params().HoverRate()
	u := dyn.ControlInput(quad.Commands{r, r, r, r})
	x := quad.State{Orientation: quat.Number{Real: 1}}.Pack()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, u, 0, 0.001)
	}
}
