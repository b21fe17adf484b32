package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	if m.Value() != 0 {
		t.Errorf("empty metric should read 0, got %g", m.Value())
	}

	m.Observe(quad.State{}, quad.Commands{100, 100, 100, 100}, 0)
	m.Observe(quad.State{}, quad.Commands{200, 200, 200, 200}, 0.01)

	if math.Abs(m.Value()-150) > 1e-12 {
		t.Errorf("expected mean rate 150, got %g", m.Value())
	}

	// Magnitude, not sign.
	m.Reset()
	m.Observe(quad.State{}, quad.Commands{-50, 50, -50, 50}, 0)
	if math.Abs(m.Value()-50) > 1e-12 {
		t.Errorf("expected mean |rate| 50, got %g", m.Value())
	}
}

func TestExcursion(t *testing.T) {
	m := NewExcursion(10.0)

	m.Observe(quad.State{Position: r3.Vec{X: 1}}, nil, 0)
	m.Observe(quad.State{Position: r3.Vec{X: 5}}, nil, 0.01)
	m.Observe(quad.State{Position: r3.Vec{X: 15}}, nil, 0.02)
	m.Observe(quad.State{Position: r3.Vec{X: 20}}, nil, 0.03)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected half the samples in bounds, got %g", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Errorf("reset metric should read 1.0, got %g", m.Value())
	}
}

func TestMaxTilt(t *testing.T) {
	m := NewMaxTilt()

	level := quad.State{Orientation: quad.FromEuler(0, 0, 0)}
	m.Observe(level, nil, 0)
	if m.Value() > 1e-12 {
		t.Errorf("level vehicle should read 0 tilt, got %g", m.Value())
	}

	// Pitch tilts the body axis by the pitch angle; yaw does not.
	pitched := quad.State{Orientation: quad.FromEuler(0, 0.3, 0)}
	m.Observe(pitched, nil, 0.01)
	if math.Abs(m.Value()-0.3) > 1e-9 {
		t.Errorf("expected tilt 0.3, got %g", m.Value())
	}

	yawed := quad.State{Orientation: quad.FromEuler(2.0, 0, 0)}
	m.Observe(yawed, nil, 0.02)
	if math.Abs(m.Value()-0.3) > 1e-9 {
		t.Errorf("yaw should not raise the max tilt, got %g", m.Value())
	}

	// The metric keeps the worst excursion.
	rolled := quad.State{Orientation: quad.FromEuler(0, 0, 1.0)}
	m.Observe(rolled, nil, 0.03)
	if math.Abs(m.Value()-1.0) > 1e-9 {
		t.Errorf("expected max tilt 1.0, got %g", m.Value())
	}
}
