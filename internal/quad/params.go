package quad

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// Parameters holds the physical constants of the vehicle. All fields are
// fixed at construction; the derived rotor coefficients are pure functions
// of the base fields and are computed exactly once by NewParameters.
type Parameters struct {
	Mass          float64      // kg
	Inertia       *mat.SymDense // body-frame inertia tensor, kg·m²
	RotorDiameter float64      // m
	ArmLength     float64      // rotor hub to center of mass, m
	ThrustCoeff   float64      // static thrust coefficient C_T
	TorqueCoeff   float64      // static torque coefficient C_Q
	AirDensity    float64      // kg/m³
	Gravity       float64      // m/s²

	kThrust    float64
	kTorque    float64
	inertiaInv *mat.SymDense
}

// NewParameters validates p, computes the derived coefficients and the
// cached inertia inverse, and returns an immutable copy. Invalid physical
// configuration is fatal here, never coerced or checked per step.
func NewParameters(p Parameters) (*Parameters, error) {
	if p.Mass <= 0 {
		return nil, fmt.Errorf("mass must be positive, got %g: %w", p.Mass, dynamo.ErrBadParameters)
	}
	if p.RotorDiameter <= 0 || p.ArmLength <= 0 {
		return nil, fmt.Errorf("rotor diameter and arm length must be positive: %w", dynamo.ErrBadParameters)
	}
	if p.ThrustCoeff <= 0 || p.TorqueCoeff <= 0 {
		return nil, fmt.Errorf("static rotor coefficients must be positive: %w", dynamo.ErrBadParameters)
	}
	if p.AirDensity <= 0 || p.Gravity <= 0 {
		return nil, fmt.Errorf("air density and gravity must be positive: %w", dynamo.ErrBadParameters)
	}
	if p.Inertia == nil || p.Inertia.SymmetricDim() != 3 {
		return nil, fmt.Errorf("inertia tensor must be 3x3: %w", dynamo.ErrBadParameters)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(p.Inertia); !ok {
		return nil, fmt.Errorf("inertia tensor is not positive-definite: %w", dynamo.ErrBadParameters)
	}
	inv := &mat.SymDense{}
	if err := chol.InverseTo(inv); err != nil {
		return nil, fmt.Errorf("inverting inertia tensor: %w", err)
	}

	p.kThrust = p.rotorModel(p.ThrustCoeff)
	p.kTorque = p.rotorModel(p.TorqueCoeff)
	p.inertiaInv = inv
	return &p, nil
}

// rotorModel converts a static rotor coefficient into the scalar mapping
// rotor rate² (rad/s)² to force or torque, per the standard propeller-disk
// scaling law rho * C * D⁴ / (4π²).
func (p *Parameters) rotorModel(coeff float64) float64 {
	d2 := p.RotorDiameter * p.RotorDiameter
	return p.AirDensity * coeff * d2 * d2 / (4 * math.Pi * math.Pi)
}

// KThrust is the rotor thrust coefficient: F = KThrust · rate².
func (p *Parameters) KThrust() float64 { return p.kThrust }

// KTorque is the rotor reaction-torque coefficient: M = KTorque · rate².
func (p *Parameters) KTorque() float64 { return p.kTorque }

// InertiaInv is the cached inverse of the inertia tensor.
func (p *Parameters) InertiaInv() *mat.SymDense { return p.inertiaInv }

// HoverRate is the rotor rate r* at which four equal rotors exactly cancel
// gravity: 4·KThrust·r*² = m·g.
func (p *Parameters) HoverRate() float64 {
	return math.Sqrt(p.Mass * p.Gravity / (4 * p.kThrust))
}

// DefaultParameters describes a 500 g vehicle with 10-inch rotors on
// 17 cm arms, the configuration used by the presets.
func DefaultParameters() *Parameters {
	p, err := NewParameters(Parameters{
		Mass:          0.5,
		Inertia:       mat.NewSymDense(3, []float64{2.32e-3, 0, 0, 0, 2.32e-3, 0, 0, 0, 4.0e-3}),
		RotorDiameter: 0.254,
		ArmLength:     0.17,
		ThrustCoeff:   0.1,
		TorqueCoeff:   0.01,
		AirDensity:    1.225,
		Gravity:       9.81,
	})
	if err != nil {
		panic(err) // defaults are known-valid
	}
	return p
}
