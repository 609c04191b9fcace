package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/peeps/internal/dynamics"
	"github.com/san-kum/peeps/internal/peeps"
)

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
	Kind       string             `json:"kind"`
	Timestamp  time.Time          `json:"timestamp"`
	Config     dynamics.Config    `json:"config"`
	Bodies     []dynamics.Body    `json:"bodies"`
	Frames     int                `json:"frames"`
	ForceScale float64            `json:"force_scale"`
	AccelScale float64            `json:"accel_scale"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a simulation run: its metadata, the initial bodies and one
// CSV row per frame.
func (s *Store) Save(cfg dynamics.Config, bodies []dynamics.Body, result *dynamics.Result) (string, error) {
	if result == nil {
		return "", peeps.Errorf("storage.Save", peeps.ErrMissingCollaborator, "no result")
	}
	now := time.Now()
	base := fmt.Sprintf("%s_%d", result.Interaction, now.Unix())
	runID := base
	for i := 1; exists(filepath.Join(s.baseDir, runID)); i++ {
		runID = fmt.Sprintf("%s_%d", base, i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       result.Interaction,
		Timestamp:  now,
		Config:     cfg,
		Bodies:     bodies,
		Frames:     len(result.Frames),
		ForceScale: result.ForceScale,
		AccelScale: result.AccelScale,
		Metrics:    Metrics(result),
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

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeFrames(w, len(bodies), result.Frames); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// Metrics summarizes a run for listings.
func Metrics(result *dynamics.Result) map[string]float64 {
	m := map[string]float64{"energy_drift": result.EnergyDrift}
	if n := len(result.Frames); n > 0 {
		first, last := result.Frames[0], result.Frames[n-1]
		m["duration"] = last.Time - first.Time
		m["momentum_drift"] = last.Momentum.Sub(first.Momentum).Len()
		m["final_kinetic"] = last.Kinetic
		if len(result.Bodies) > 0 {
			l0 := dynamics.AngularMomentum(at(result.Bodies, first))
			l1 := dynamics.AngularMomentum(at(result.Bodies, last))
			m["angular_momentum_drift"] = l1.Sub(l0).Len()
		}
	}
	return m
}

// at places the bodies at a frame's positions and velocities.
func at(bodies []dynamics.Body, f dynamics.Frame) []dynamics.Body {
	out := make([]dynamics.Body, min(len(bodies), len(f.Positions), len(f.Velocities)))
	for i := range out {
		out[i] = bodies[i]
		out[i].Position = f.Positions[i]
		out[i].Velocity = f.Velocities[i]
	}
	return out
}

func header(n int) []string {
	h := []string{"time"}
	for i := 0; i < n; i++ {
		for _, c := range []string{"x", "y", "z", "vx", "vy", "vz"} {
			h = append(h, fmt.Sprintf("%s%d", c, i))
		}
	}
	return append(h, "kinetic", "potential")
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

func writeFrames(w *csv.Writer, n int, frames []dynamics.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	if err := w.Write(header(n)); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{format(f.Time)}
		for i := 0; i < n; i++ {
			p, v := f.Positions[i], f.Velocities[i]
			row = append(row, format(p[0]), format(p[1]), format(p[2]), format(v[0]), format(v[1]), format(v[2]))
		}
		row = append(row, format(f.Kinetic), format(f.Potential))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadFrames reads back the frames of a saved run. Forces and momentum are
// not stored; momentum is recomputed from the saved masses.
func (s *Store) LoadFrames(runID string) ([]dynamics.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []dynamics.Frame{}, nil
	}

	n := len(meta.Bodies)
	want := 1 + 6*n + 2
	frames := make([]dynamics.Frame, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) != want {
			return nil, fmt.Errorf("states.csv line %d: %d fields, want %d", line+2, len(record), want)
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("states.csv line %d: %w", line+2, err)
			}
		}

		f := dynamics.Frame{
			Time:       vals[0],
			Positions:  make([]mgl64.Vec3, n),
			Velocities: make([]mgl64.Vec3, n),
			Kinetic:    vals[want-2],
			Potential:  vals[want-1],
		}
		for i := 0; i < n; i++ {
			o := 1 + 6*i
			f.Positions[i] = mgl64.Vec3{vals[o], vals[o+1], vals[o+2]}
			f.Velocities[i] = mgl64.Vec3{vals[o+3], vals[o+4], vals[o+5]}
			f.Momentum = f.Momentum.Add(f.Velocities[i].Mul(meta.Bodies[i].Mass))
		}
		frames = append(frames, f)
	}

	return frames, nil
}

// Path returns the directory of a run.
func (s *Store) Path(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
