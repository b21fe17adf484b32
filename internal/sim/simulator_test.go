package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/controllers"
	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
	"github.com/bobwilson3/skydio-quadrotor/internal/integrators"
	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
	"github.com/bobwilson3/skydio-quadrotor/internal/trajectory"
)

func levelState() quad.State {
	return quad.State{Orientation: quat.Number{Real: 1}}
}

func hoverSimulator() (*Simulator, *quad.Parameters) {
	p := quad.DefaultParameters()
	s := New(
		quad.NewDynamics(p),
		integrators.NewRK45(),
		controllers.NewHover(p),
		trajectory.NewHold(r3.Vec{}),
	)
	return s, p
}

func TestRunHoverStaysPut(t *testing.T) {
	s, _ := hoverSimulator()
	cfg := Config{Dt: 0.01, Duration: 1.0, Tolerance: 1e-6}

	result, err := s.Run(context.Background(), levelState(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 101 {
		t.Errorf("expected 101 states, got %d", len(result.States))
	}
	if len(result.Times) != 101 {
		t.Errorf("expected 101 times, got %d", len(result.Times))
	}
	if len(result.Commands) != 100 {
		t.Errorf("expected 100 command records, got %d", len(result.Commands))
	}

	final := result.States[len(result.States)-1]
	if r3.Norm(final.Position) > 1e-3 {
		t.Errorf("hover drifted %.6f m from origin", r3.Norm(final.Position))
	}
	if r3.Norm(final.AngularVelocity) > 1e-6 {
		t.Errorf("hover picked up body rates: %.2e rad/s", r3.Norm(final.AngularVelocity))
	}
	if n := quat.Abs(final.Orientation); math.Abs(n-1) > 1e-9 {
		t.Errorf("final orientation norm %.12f, want 1", n)
	}
	if result.QuatDrift > 1e-6 {
		t.Errorf("quaternion drift %.2e exceeds expected bound", result.QuatDrift)
	}
}

func TestRunFreeFall(t *testing.T) {
	p := quad.DefaultParameters()
	s := New(
		quad.NewDynamics(p),
		integrators.NewRK4(),
		controllers.NewZero(),
		trajectory.NewHold(r3.Vec{}),
	)
	cfg := Config{Dt: 0.01, Duration: 1.0, Tolerance: 1e-6}

	result, err := s.Run(context.Background(), levelState(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Constant acceleration integrates exactly under RK4.
	final := result.States[len(result.States)-1]
	want := -0.5 * p.Gravity
	if math.Abs(final.Position.Z-want) > 1e-9 {
		t.Errorf("after 1s of free fall z = %.9f, want %.9f", final.Position.Z, want)
	}
	if math.Abs(final.Velocity.Z+p.Gravity) > 1e-9 {
		t.Errorf("after 1s of free fall vz = %.9f, want %.9f", final.Velocity.Z, -p.Gravity)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	s, _ := hoverSimulator()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0, Tolerance: 1e-6}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0, Tolerance: 1e-6}},
		{"zero duration", Config{Dt: 0.1, Duration: 0, Tolerance: 1e-6}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0, Tolerance: 1e-6}},
		{"zero tolerance", Config{Dt: 0.1, Duration: 1.0, Tolerance: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), levelState(), tt.cfg)
			if !errors.Is(err, dynamo.ErrBadParameters) {
				t.Errorf("expected ErrBadParameters, got %v", err)
			}
		})
	}
}

func TestRunNormalizesInitialOrientation(t *testing.T) {
	s, _ := hoverSimulator()
	cfg := Config{Dt: 0.01, Duration: 0.1, Tolerance: 1e-6}

	x0 := levelState()
	x0.Orientation = quat.Number{Real: 2} // off-unit but valid direction

	result, err := s.Run(context.Background(), x0, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if n := quat.Abs(result.States[0].Orientation); math.Abs(n-1) > 1e-12 {
		t.Errorf("initial orientation not normalized: norm %.12f", n)
	}
}

func TestRunRejectsDegenerateInitialOrientation(t *testing.T) {
	s, _ := hoverSimulator()
	cfg := Config{Dt: 0.01, Duration: 0.1, Tolerance: 1e-6}

	x0 := quad.State{} // zero quaternion
	_, err := s.Run(context.Background(), x0, cfg)
	if !errors.Is(err, dynamo.ErrDegenerateOrientation) {
		t.Errorf("expected ErrDegenerateOrientation, got %v", err)
	}
}

type fixedController struct {
	out quad.Commands
}

func (f *fixedController) Step(t float64, x quad.State, ref quad.TrajectoryState) quad.Commands {
	return f.out
}

func TestRunAbortsOnWrongCommandLength(t *testing.T) {
	p := quad.DefaultParameters()
	s := New(
		quad.NewDynamics(p),
		integrators.NewRK45(),
		&fixedController{out: quad.Commands{1, 2, 3}},
		trajectory.NewHold(r3.Vec{}),
	)
	cfg := Config{Dt: 0.01, Duration: 1.0, Tolerance: 1e-6}

	_, err := s.Run(context.Background(), levelState(), cfg)
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}

	var simErr *dynamo.SimError
	if !errors.As(err, &simErr) {
		t.Fatal("expected a SimError wrapper")
	}
	if simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %d", simErr.Step)
	}
}

func TestRunAbortsOnNaNCommand(t *testing.T) {
	p := quad.DefaultParameters()
	s := New(
		quad.NewDynamics(p),
		integrators.NewRK45(),
		&fixedController{out: quad.Commands{math.NaN(), 0, 0, 0}},
		trajectory.NewHold(r3.Vec{}),
	)
	cfg := Config{Dt: 0.01, Duration: 1.0, Tolerance: 1e-6}

	_, err := s.Run(context.Background(), levelState(), cfg)
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	s, _ := hoverSimulator()
	cfg := Config{Dt: 0.01, Duration: 10.0, Tolerance: 1e-6}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, levelState(), cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                                   { return "count" }
func (c *countingMetric) Observe(x quad.State, u quad.Commands, t float64) { c.count++ }
func (c *countingMetric) Value() float64                                 { return float64(c.count) }
func (c *countingMetric) Reset()                                         { c.count = 0 }

func TestRunObservesMetricsPerStep(t *testing.T) {
	s, _ := hoverSimulator()
	m := &countingMetric{}
	s.AddMetric(m)

	cfg := Config{Dt: 0.01, Duration: 0.5, Tolerance: 1e-6}
	result, err := s.Run(context.Background(), levelState(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if m.count != 50 {
		t.Errorf("expected 50 observations, got %d", m.count)
	}
	if got, ok := result.Metrics["count"]; !ok || got != 50 {
		t.Errorf("expected metric value 50 in result, got %v (present %v)", got, ok)
	}
}

func TestEnsembleIndependentRuns(t *testing.T) {
	build := func() *Simulator {
		s, _ := hoverSimulator()
		return s
	}
	e := NewEnsemble(build)

	initials := make([]quad.State, 4)
	for i := range initials {
		initials[i] = levelState()
		initials[i].Position = r3.Vec{X: float64(i)}
	}

	cfg := Config{Dt: 0.01, Duration: 0.5, Tolerance: 1e-6}
	results, err := e.Run(context.Background(), initials, cfg)
	if err != nil {
		t.Fatalf("ensemble run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		final := r.States[len(r.States)-1]
		if math.Abs(final.Position.X-float64(i)) > 1e-3 {
			t.Errorf("run %d final x = %.6f, want ~%d", i, final.Position.X, i)
		}
	}
}
