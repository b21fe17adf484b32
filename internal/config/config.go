package config

import (
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultTolerance = 1e-6
	DefaultKp        = 8.0
	DefaultKi        = 0.5
	DefaultKd        = 4.0
)

type Config struct {
	Vehicle    VehicleConfig    `yaml:"vehicle"`
	Run        RunConfig        `yaml:"run"`
	InitState  InitStateConfig  `yaml:"init_state"`
	Controller ControllerConfig `yaml:"controller_params"`
	Trajectory TrajectoryConfig `yaml:"trajectory_params"`
}

type VehicleConfig struct {
	Mass          float64    `yaml:"mass"`
	Inertia       [3]float64 `yaml:"inertia"` // diagonal Ixx, Iyy, Izz
	RotorDiameter float64    `yaml:"rotor_diameter"`
	ArmLength     float64    `yaml:"arm_length"`
	ThrustCoeff   float64    `yaml:"thrust_coeff"`
	TorqueCoeff   float64    `yaml:"torque_coeff"`
	AirDensity    float64    `yaml:"air_density"`
	Gravity       float64    `yaml:"gravity"`
}

type RunConfig struct {
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Tolerance  float64 `yaml:"tolerance"`
	Integrator string  `yaml:"integrator"`
	Controller string  `yaml:"controller"`
	Trajectory string  `yaml:"trajectory"`
}

type InitStateConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
	Roll  float64 `yaml:"roll"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	VZ    float64 `yaml:"vz"`
	P     float64 `yaml:"p"` // body rates rad/s
	Q     float64 `yaml:"q"`
	R     float64 `yaml:"r"`
}

type ControllerConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type TrajectoryConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
	Period float64 `yaml:"period"`
}

func DefaultConfig() *Config {
	return &Config{
		Vehicle: VehicleConfig{
			Mass:          0.5,
			Inertia:       [3]float64{2.32e-3, 2.32e-3, 4.0e-3},
			RotorDiameter: 0.254,
			ArmLength:     0.17,
			ThrustCoeff:   0.1,
			TorqueCoeff:   0.01,
			AirDensity:    1.225,
			Gravity:       9.81,
		},
		Run: RunConfig{
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Tolerance:  DefaultTolerance,
			Integrator: "rk45",
			Controller: "hover",
			Trajectory: "hold",
		},
		Controller: ControllerConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Trajectory: TrajectoryConfig{
			Radius: 1.0,
			Period: 10.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Parameters builds validated vehicle parameters from the config.
func (c *Config) Parameters() (*quad.Parameters, error) {
	d := c.Vehicle.Inertia
	return quad.NewParameters(quad.Parameters{
		Mass:          c.Vehicle.Mass,
		Inertia:       mat.NewSymDense(3, []float64{d[0], 0, 0, 0, d[1], 0, 0, 0, d[2]}),
		RotorDiameter: c.Vehicle.RotorDiameter,
		ArmLength:     c.Vehicle.ArmLength,
		ThrustCoeff:   c.Vehicle.ThrustCoeff,
		TorqueCoeff:   c.Vehicle.TorqueCoeff,
		AirDensity:    c.Vehicle.AirDensity,
		Gravity:       c.Vehicle.Gravity,
	})
}

// InitialState builds the starting kinematic state from the config.
func (c *Config) InitialState() quad.State {
	i := c.InitState
	return quad.State{
		Position:        r3.Vec{X: i.X, Y: i.Y, Z: i.Z},
		Velocity:        r3.Vec{X: i.VX, Y: i.VY, Z: i.VZ},
		Orientation:     quad.FromEuler(i.Yaw, i.Pitch, i.Roll),
		AngularVelocity: r3.Vec{X: i.P, Y: i.Q, Z: i.R},
	}
}
