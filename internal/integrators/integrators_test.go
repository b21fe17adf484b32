package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// Harmonic oscillator x'' = -x, exact solution (cos t, -sin t) from (1, 0).
type oscillator struct{}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }
func (o *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

// integrate advances the oscillator from t to end in steps of roughly dt,
// adjusted so the interval divides evenly and the final state lands exactly
// at end.
func integrate(integ dynamo.Integrator, x dynamo.State, t, end, dt float64) dynamo.State {
	dyn := &oscillator{}
	n := int(math.Round((end - t) / dt))
	h := (end - t) / float64(n)
	for i := 0; i < n; i++ {
		x = integ.Step(dyn, x, nil, t, h)
		t += h
	}
	return x
}

func TestEulerConverges(t *testing.T) {
	coarse := integrate(NewEuler(), dynamo.State{1, 0}, 0, 1.0, 0.01)
	fine := integrate(NewEuler(), dynamo.State{1, 0}, 0, 1.0, 0.001)

	exact := math.Cos(1.0)
	errCoarse := math.Abs(coarse[0] - exact)
	errFine := math.Abs(fine[0] - exact)

	if errFine >= errCoarse {
		t.Errorf("finer step did not reduce error: %.2e vs %.2e", errFine, errCoarse)
	}
	// First order: tenth of the step, roughly a tenth of the error.
	if errFine > errCoarse/5 {
		t.Errorf("error did not scale first-order: %.2e vs %.2e", errFine, errCoarse)
	}
}

func TestRK4Accuracy(t *testing.T) {
	x := integrate(NewRK4(), dynamo.State{1, 0}, 0, 2*math.Pi, 0.01)

	if math.Abs(x[0]-1) > 1e-8 {
		t.Errorf("after one period expected x=1, got %.10f", x[0])
	}
	if math.Abs(x[1]) > 1e-8 {
		t.Errorf("after one period expected v=0, got %.10f", x[1])
	}
}

func TestRK45FixedStep(t *testing.T) {
	x := integrate(NewRK45(), dynamo.State{1, 0}, 0, 2*math.Pi, 0.01)

	if math.Abs(x[0]-1) > 1e-8 {
		t.Errorf("after one period expected x=1, got %.10f", x[0])
	}
}

func TestRK45AdaptiveAcceptsSmoothStep(t *testing.T) {
	integ := NewRK45()
	dyn := &oscillator{}

	x, hNext, err := integ.StepAdaptive(dyn, dynamo.State{1, 0}, nil, 0, 0.01, 1e-6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hNext < 0.01 {
		t.Errorf("smooth problem at small dt should not be rejected, suggested %.6f", hNext)
	}
	if math.Abs(x[0]-math.Cos(0.01)) > 1e-10 {
		t.Errorf("expected x ~ cos(0.01), got %.12f", x[0])
	}
}

func TestRK45AdaptiveRejectsLargeStep(t *testing.T) {
	integ := NewRK45()
	dyn := &oscillator{}

	// A full period in a single step cannot satisfy the tolerance.
	_, hNext, err := integ.StepAdaptive(dyn, dynamo.State{1, 0}, nil, 0, 2*math.Pi, 1e-9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hNext >= 2*math.Pi {
		t.Errorf("expected rejection (suggestion below attempted step), got %.4f", hNext)
	}
}

func TestSolveAdaptiveCoversInterval(t *testing.T) {
	dyn := &oscillator{}

	// One macro-step across the whole quarter period forces internal
	// substepping; the result must still land at the interval end.
	x, err := Solve(NewRK45(), dyn, dynamo.State{1, 0}, nil, 0, math.Pi/2, 1e-9)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(x[0]) > 1e-6 {
		t.Errorf("expected x ~ 0 at quarter period, got %.8f", x[0])
	}
	if math.Abs(x[1]+1) > 1e-6 {
		t.Errorf("expected v ~ -1 at quarter period, got %.8f", x[1])
	}
}

func TestSolveNonAdaptiveSingleStep(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	direct := integ.Step(dyn, dynamo.State{1, 0}, nil, 0, 0.1)
	solved, err := Solve(NewRK4(), dyn, dynamo.State{1, 0}, nil, 0, 0.1, 1e-6)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	for i := range direct {
		if solved[i] != direct[i] {
			t.Errorf("component %d: solve gave %.12f, direct step gave %.12f", i, solved[i], direct[i])
		}
	}
}

// Derivatives that blow up faster than any step reduction can absorb drive
// the substep below the floor.
type explosive struct{}

func (e *explosive) StateDim() int   { return 1 }
func (e *explosive) ControlDim() int { return 0 }
func (e *explosive) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[0] / (1e-3 - t)}
}

func TestSolveStepUnderflow(t *testing.T) {
	dyn := &explosive{}

	_, err := Solve(NewRK45(), dyn, dynamo.State{1}, nil, 0, 0.01, 1e-12)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, dynamo.ErrStepTooSmall) {
		t.Errorf("expected ErrStepTooSmall, got %v", err)
	}
}
