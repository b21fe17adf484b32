package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/bobwilson3/skydio-quadrotor/internal/config"
	"github.com/bobwilson3/skydio-quadrotor/internal/experiment"
	"github.com/bobwilson3/skydio-quadrotor/internal/export"
	"github.com/bobwilson3/skydio-quadrotor/internal/storage"
	"github.com/bobwilson3/skydio-quadrotor/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	duration   float64
	tolerance  float64
	integrator string
	controller string
	traj       string

	initX, initY, initZ    float64
	initYaw                float64
	kp, ki, kd             float64
	targetX, targetY       float64
	targetZ                float64
	circleRadius, circlePd float64

	frameRate int
	svgOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quadsim",
		Short: "quadrotor rigid-body simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the trajectory",
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal telemetry",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write ground-track and altitude SVGs",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", ".", "output directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integrators on the hover preset",
		RunE:  benchIntegrators,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportSVGCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "hover", "preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "macro-step (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "solver tolerance")
	cmd.Flags().StringVar(&integrator, "integrator", "rk45", "integrator (euler|rk4|rk45)")
	cmd.Flags().StringVar(&controller, "controller", "", "controller (zero|hover|altitude)")
	cmd.Flags().StringVar(&traj, "trajectory", "", "trajectory (hold|circle)")
	cmd.Flags().Float64Var(&initX, "x", 0, "initial x (m)")
	cmd.Flags().Float64Var(&initY, "y", 0, "initial y (m)")
	cmd.Flags().Float64Var(&initZ, "z", 0, "initial z (m)")
	cmd.Flags().Float64Var(&initYaw, "yaw", 0, "initial yaw (rad)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "altitude kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "altitude ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "altitude kd")
	cmd.Flags().Float64Var(&targetX, "ref-x", 0, "reference x (m)")
	cmd.Flags().Float64Var(&targetY, "ref-y", 0, "reference y (m)")
	cmd.Flags().Float64Var(&targetZ, "ref-z", 0, "reference z (m)")
	cmd.Flags().Float64Var(&circleRadius, "radius", 1.0, "circle radius (m)")
	cmd.Flags().Float64Var(&circlePd, "period", 10.0, "circle period (s)")
}

// buildConfig layers preset, config file and explicit CLI flags, the flags
// winning.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("dt") {
		cfg.Run.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("tol") {
		cfg.Run.Tolerance = tolerance
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Run.Integrator = integrator
	}
	if controller != "" {
		cfg.Run.Controller = controller
	}
	if traj != "" {
		cfg.Run.Trajectory = traj
	}
	if cmd.Flags().Changed("x") {
		cfg.InitState.X = initX
	}
	if cmd.Flags().Changed("y") {
		cfg.InitState.Y = initY
	}
	if cmd.Flags().Changed("z") {
		cfg.InitState.Z = initZ
	}
	if cmd.Flags().Changed("yaw") {
		cfg.InitState.Yaw = initYaw
	}
	if cmd.Flags().Changed("kp") {
		cfg.Controller.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.Controller.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.Controller.Kd = kd
	}
	if cmd.Flags().Changed("ref-x") {
		cfg.Trajectory.X = targetX
	}
	if cmd.Flags().Changed("ref-y") {
		cfg.Trajectory.Y = targetY
	}
	if cmd.Flags().Changed("ref-z") {
		cfg.Trajectory.Z = targetZ
	}
	if cmd.Flags().Changed("radius") {
		cfg.Trajectory.Radius = circleRadius
	}
	if cmd.Flags().Changed("period") {
		cfg.Trajectory.Period = circlePd
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s/%s/%s for %.1fs at dt=%.4fs...\n",
		cfg.Run.Integrator, cfg.Run.Controller, cfg.Run.Trajectory, cfg.Run.Duration, cfg.Run.Dt)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(preset, exp.SimConfig(), cfg.Run.Integrator, cfg.Run.Controller, cfg.Run.Trajectory, result)
	if err != nil {
		return err
	}

	final := result.States[len(result.States)-1]
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(result.States))
	fmt.Printf("final position: %.4f %.4f %.4f m\n", final.Position.X, final.Position.Y, final.Position.Z)
	fmt.Printf("quaternion drift: %.2e\n", result.QuatDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	m := viz.NewModel(exp.Simulator(), cfg.InitialState(), exp.SimConfig(), frameRate)
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tDT\tINTEG\tCTRL\tTRAJ")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Trajectory,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, rows, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(rows))

	// Column 2 is z; 0,1 are x,y (time excluded by LoadTrajectory).
	captions := map[int]string{0: "x (m)", 1: "y (m)", 2: "altitude (m)"}
	for col := 0; col < 3; col++ {
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][col]
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(captions[col]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, rows, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(storage.Columns); err != nil {
		return err
	}
	for i := range rows {
		record := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, v := range rows[i] {
			record = append(record, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	times, rows, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	zs := make([]float64, len(rows))
	for i, row := range rows {
		xs[i], ys[i], zs[i] = row[0], row[1], row[2]
	}

	track := filepath.Join(svgOut, args[0]+"_track.svg")
	if err := os.WriteFile(track, []byte(export.GroundTrackSVG(xs, ys, 600, 600)), 0644); err != nil {
		return err
	}
	alt := filepath.Join(svgOut, args[0]+"_altitude.svg")
	if err := os.WriteFile(alt, []byte(export.AltitudeSVG(times, zs, 800, 300)), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n", track, alt)
	return nil
}

func benchIntegrators(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, name := range []string{"euler", "rk4", "rk45"} {
		for _, step := range []float64{0.001, 0.01} {
			cfg := config.GetPreset("hover")
			cfg.Run.Integrator = name
			cfg.Run.Dt = step
			cfg.Run.Duration = 5.0

			exp := experiment.New(cfg)
			if err := exp.Setup(experiment.NewRegistry()); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%s\t%.4fs\t%d\t%v\t%.0f\n",
				name, step, result.Steps, elapsed, float64(result.Steps)/elapsed.Seconds())
		}
	}
	return w.Flush()
}
