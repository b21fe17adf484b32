package quad

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/bobwilson3/skydio-quadrotor/internal/dynamo"
)

// Dynamics maps rotor-rate commands to net force/torque and evaluates the
// Newton-Euler state derivative. It implements dynamo.System with the
// packed 13-element state and the 4-element control [u1 u2x u2y u2z],
// where u1 is total thrust along body +Z and u2 the body-frame torque.
//
// Rotor layout (plus configuration, fixed; the mixing matrix and any
// renderer must agree on it):
//
//	rotor 0: +X arm, spins clockwise seen from above
//	rotor 1: +Y arm, counter-clockwise
//	rotor 2: −X arm, clockwise
//	rotor 3: −Y arm, counter-clockwise
//
// Clockwise rotors exert a +Z reaction torque on the body, counter-
// clockwise rotors −Z.
type Dynamics struct {
	params *Parameters
	mix    *mat.Dense
}

func NewDynamics(p *Parameters) *Dynamics {
	l := p.ArmLength
	mt := p.kTorque / p.kThrust
	// Rows: total thrust, roll (+X), pitch (+Y), yaw (+Z).
	// Columns follow the rotor indices above: a +Y rotor lifts the +Y arm
	// (positive roll torque L·F), a +X rotor pushes the nose down
	// (negative pitch torque −L·F).
	mix := mat.NewDense(4, 4, []float64{
		1, 1, 1, 1,
		0, l, 0, -l,
		-l, 0, l, 0,
		mt, -mt, mt, -mt,
	})
	return &Dynamics{params: p, mix: mix}
}

func (d *Dynamics) Params() *Parameters { return d.params }

func (d *Dynamics) StateDim() int   { return StateDim }
func (d *Dynamics) ControlDim() int { return 4 }

// RotorThrusts converts rotor rates to per-rotor forces, F = KThrust·rate².
// Squaring makes thrust independent of spin direction; a negative rate is
// treated the same as its magnitude. That is a property of this simplified
// model, not an input check; the simulator validates commands at the
// policy boundary.
func (d *Dynamics) RotorThrusts(c Commands) [NumRotors]float64 {
	var f [NumRotors]float64
	for i, r := range c {
		f[i] = d.params.kThrust * r * r
	}
	return f
}

// Mix folds four rotor forces into total thrust u1 (body +Z) and net
// body-frame torque u2.
func (d *Dynamics) Mix(f [NumRotors]float64) (u1 float64, u2 r3.Vec) {
	var out mat.VecDense
	out.MulVec(d.mix, mat.NewVecDense(NumRotors, f[:]))
	return out.AtVec(0), r3.Vec{X: out.AtVec(1), Y: out.AtVec(2), Z: out.AtVec(3)}
}

// ControlInput packs rotor commands into the control vector held constant
// across one macro-step.
func (d *Dynamics) ControlInput(c Commands) dynamo.Control {
	u1, u2 := d.Mix(d.RotorThrusts(c))
	return dynamo.Control{u1, u2.X, u2.Y, u2.Z}
}

// Derive evaluates the rigid-body equations of motion:
//
//	ṗ = v
//	v̇ = (0,0,−g) + R(q)·(0,0,u1)/m
//	q̇ = ½ q ⊗ (0, ω)
//	ω̇ = I⁻¹ (u2 − ω × Iω)
//
// The thrust vector is rotated from body to world; the torque u2 is not.
// Euler's equation lives in the body frame, where both ω and I are
// expressed, so applying u2 directly is the correct convention here.
func (d *Dynamics) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	s := Unpack(x)
	p := d.params

	u1 := u[0]
	torque := r3.Vec{X: u[1], Y: u[2], Z: u[3]}

	thrust := Rotate(s.Orientation, r3.Vec{Z: u1})
	accel := r3.Add(r3.Scale(1/p.Mass, thrust), r3.Vec{Z: -p.Gravity})

	// Gyroscopic coupling ω × Iω, then ω̇ = I⁻¹(u2 − ω×Iω).
	w := s.AngularVelocity
	var iw mat.VecDense
	iw.MulVec(p.Inertia, mat.NewVecDense(3, []float64{w.X, w.Y, w.Z}))
	gyro := r3.Cross(w, r3.Vec{X: iw.AtVec(0), Y: iw.AtVec(1), Z: iw.AtVec(2)})
	m := r3.Sub(torque, gyro)
	var alpha mat.VecDense
	alpha.MulVec(p.inertiaInv, mat.NewVecDense(3, []float64{m.X, m.Y, m.Z}))

	qdot := OrientationRate(s.Orientation, w)

	return dynamo.State{
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		accel.X, accel.Y, accel.Z,
		qdot.Real, qdot.Imag, qdot.Jmag, qdot.Kmag,
		alpha.AtVec(0), alpha.AtVec(1), alpha.AtVec(2),
	}
}
