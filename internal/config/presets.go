package config

// Presets are named run configurations on the default vehicle. Each value
// overrides only the run/init/trajectory sections; vehicle parameters come
// from DefaultConfig.
var Presets = map[string]*Config{
	"hover": {
		Run:        RunConfig{Dt: 0.01, Duration: 10.0, Tolerance: 1e-6, Integrator: "rk45", Controller: "hover", Trajectory: "hold"},
		InitState:  InitStateConfig{Z: 1.0},
		Trajectory: TrajectoryConfig{Z: 1.0},
	},
	"drop": {
		Run:       RunConfig{Dt: 0.01, Duration: 2.0, Tolerance: 1e-6, Integrator: "rk45", Controller: "zero", Trajectory: "hold"},
		InitState: InitStateConfig{Z: 10.0},
	},
	"yaw-spin": {
		Run:       RunConfig{Dt: 0.01, Duration: 5.0, Tolerance: 1e-6, Integrator: "rk45", Controller: "hover", Trajectory: "hold"},
		InitState: InitStateConfig{Z: 1.0, R: 1.0},
	},
	"climb": {
		Run:        RunConfig{Dt: 0.01, Duration: 15.0, Tolerance: 1e-6, Integrator: "rk45", Controller: "altitude", Trajectory: "hold"},
		InitState:  InitStateConfig{Z: 0.0},
		Controller: ControllerConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd},
		Trajectory: TrajectoryConfig{Z: 5.0},
	},
	"circle": {
		Run:        RunConfig{Dt: 0.01, Duration: 20.0, Tolerance: 1e-6, Integrator: "rk45", Controller: "altitude", Trajectory: "circle"},
		InitState:  InitStateConfig{X: 1.0, Z: 2.0},
		Controller: ControllerConfig{Kp: DefaultKp, Ki: DefaultKi, Kd: DefaultKd},
		Trajectory: TrajectoryConfig{Z: 2.0, Radius: 1.0, Period: 10.0},
	},
}

// GetPreset returns a full config for the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Run = p.Run
	cfg.InitState = p.InitState
	if p.Controller != (ControllerConfig{}) {
		cfg.Controller = p.Controller
	}
	if p.Trajectory != (TrajectoryConfig{}) {
		cfg.Trajectory = p.Trajectory
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
