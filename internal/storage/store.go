// Package storage persists simulation runs under a data directory: one
// subdirectory per run holding metadata.json and trajectory.csv. The CSV
// is the record the plot and export commands consume; nothing is ever fed
// back into the core.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bobwilson3/skydio-quadrotor/internal/sim"
)

// Columns is the trajectory.csv header: time, world position, world
// velocity, orientation quaternion (scalar first), body rates, and the
// four rotor-rate commands held over the step ending at that time.
var Columns = []string{
	"t",
	"x", "y", "z",
	"vx", "vy", "vz",
	"qw", "qx", "qy", "qz",
	"p", "q", "r",
	"r0", "r1", "r2", "r3",
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Trajectory string             `json:"trajectory"`
	QuatDrift  float64            `json:"quat_drift"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(name string, cfg sim.Config, integrator, controller, trajectory string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: integrator,
		Controller: controller,
		Trajectory: trajectory,
		QuatDrift:  result.QuatDrift,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(Columns); err != nil {
		return "", err
	}

	for i, x := range result.States {
		row := make([]string, 0, len(Columns))
		row = append(row, formatF(result.Times[i]))
		for _, v := range x.Pack() {
			row = append(row, formatF(v))
		}
		// Commands[i-1] covers the step that ended at Times[i]; the
		// initial sample has no command.
		if i > 0 && i-1 < len(result.Commands) {
			for _, v := range result.Commands[i-1] {
				row = append(row, formatF(v))
			}
		} else {
			for j := 0; j < 4; j++ {
				row = append(row, "0")
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back the stored record as times plus raw rows in
// Columns order (excluding the time column). Rows that are truncated or
// fail to parse are skipped wholesale, so every returned row has exactly
// len(Columns)-1 values and consumers can index columns without checking.
func (s *Store) LoadTrajectory(runID string) ([]float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, [][]float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) != len(Columns) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
			row = append(row, v)
		}
		if len(row) != len(Columns)-1 {
			continue
		}
		times = append(times, t)
		rows = append(rows, row)
	}

	return times, rows, nil
}
