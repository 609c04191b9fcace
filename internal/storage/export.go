package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/peeps/internal/dynamics"
)

type ExportData struct {
	Kind       string             `json:"kind"`
	FPS        int                `json:"fps"`
	Duration   float64            `json:"duration"`
	Bodies     []dynamics.Body    `json:"bodies"`
	Times      []float64          `json:"times"`
	Positions  [][][3]float64     `json:"positions"`
	Velocities [][][3]float64     `json:"velocities"`
	Metrics    map[string]float64 `json:"metrics"`
}

// NewExportData flattens frames into per-tick arrays.
func NewExportData(meta *RunMetadata, frames []dynamics.Frame) ExportData {
	data := ExportData{
		Kind:       meta.Kind,
		FPS:        meta.Config.FPS,
		Duration:   meta.Config.Duration,
		Bodies:     meta.Bodies,
		Times:      make([]float64, len(frames)),
		Positions:  make([][][3]float64, len(frames)),
		Velocities: make([][][3]float64, len(frames)),
		Metrics:    meta.Metrics,
	}
	for i, f := range frames {
		data.Times[i] = f.Time
		data.Positions[i] = make([][3]float64, len(f.Positions))
		data.Velocities[i] = make([][3]float64, len(f.Velocities))
		for j := range f.Positions {
			data.Positions[i][j] = f.Positions[j]
			data.Velocities[i][j] = f.Velocities[j]
		}
	}
	return data
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []dynamics.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}

// ExportCSV writes frames in the states.csv layout.
func ExportCSV(w io.Writer, meta *RunMetadata, frames []dynamics.Frame) error {
	cw := csv.NewWriter(w)
	if err := writeFrames(cw, len(meta.Bodies), frames); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
