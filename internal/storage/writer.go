// Package storage persists runs as hierarchical run directories:
// groups for phase-space frames, projections, moments, field and wake
// arrays, tracer positions, plus the parameter record and the sidecar
// configuration for reproducibility.
package storage

import (
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/vfpsim/internal/config"
	"github.com/san-kum/vfpsim/internal/engine"
)

// RunInfo is the parameter group of a run directory.
type RunInfo struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	GridSize       int       `json:"grid_size"`
	TotalSteps     int       `json:"total_steps"`
	StepsPerPeriod int       `json:"steps_per_period"`
	SyncPeriod     float64   `json:"sync_period_s"`
	SyncFreq       float64   `json:"sync_freq_hz"`
	Alpha0         float64   `json:"alpha0"`
	BunchLength    float64   `json:"bunch_length_m"`
	EnergySpread   float64   `json:"energy_spread_ev"`
	CSRStrength    float64   `json:"csr_strength"`
	Shielding      float64   `json:"shielding_parameter"`
	ThresholdI     float64   `json:"threshold_current_a"`
	Tracers        int       `json:"tracers"`
}

// RunWriter appends snapshots to a run directory. It implements
// engine.Observer.
type RunWriter struct {
	dir  string
	full bool // store every phase-space frame, not only the last

	moments  *csv.Writer
	csrHist  *csv.Writer
	xproj    *csv.Writer
	yproj    *csv.Writer
	wake     *csv.Writer
	tracers  *csv.Writer
	files    []*os.File
	gridSize int
}

func NewRunWriter(dir string, cfg *config.Config, prm *config.Params,
	nTracers int, full bool) (*RunWriter, error) {
	for _, sub := range []string{"", "phasespace", "projections", "field", "wake", "tracers"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, err
		}
	}

	if err := config.Save(filepath.Join(dir, "config.yaml"), cfg); err != nil {
		return nil, err
	}

	info := RunInfo{
		ID:             filepath.Base(dir),
		Timestamp:      time.Now(),
		GridSize:       cfg.GridSize,
		TotalSteps:     prm.TotalSteps,
		StepsPerPeriod: cfg.Steps,
		SyncPeriod:     prm.TSyncUnscaled,
		SyncFreq:       prm.FSUnscaled,
		Alpha0:         prm.Alpha0,
		BunchLength:    prm.BunchLength,
		EnergySpread:   prm.EnergySpread,
		CSRStrength:    prm.CSRStrength,
		Shielding:      prm.Shield,
		ThresholdI:     prm.ThresholdI,
		Tracers:        nTracers,
	}
	if err := writeJSON(filepath.Join(dir, "info.json"), &info); err != nil {
		return nil, err
	}

	w := &RunWriter{dir: dir, full: full, gridSize: cfg.GridSize}

	open := func(name string, header []string) (*csv.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		w.files = append(w.files, f)
		cw := csv.NewWriter(f)
		if header != nil {
			if err := cw.Write(header); err != nil {
				return nil, err
			}
		}
		return cw, nil
	}

	var err error
	if w.moments, err = open("moments.csv",
		[]string{"step", "time", "integral", "mean_q", "mean_p", "sigma_q", "sigma_p"}); err != nil {
		return nil, err
	}
	if w.csrHist, err = open(filepath.Join("field", "csr_power.csv"),
		[]string{"step", "time", "power"}); err != nil {
		return nil, err
	}
	if w.xproj, err = open(filepath.Join("projections", "x.csv"), nil); err != nil {
		return nil, err
	}
	if w.yproj, err = open(filepath.Join("projections", "y.csv"), nil); err != nil {
		return nil, err
	}
	if w.wake, err = open(filepath.Join("wake", "wake.csv"), nil); err != nil {
		return nil, err
	}
	if w.tracers, err = open(filepath.Join("tracers", "positions.csv"), nil); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RunWriter) OnSnapshot(s *engine.Snapshot) error {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', 9, 64) }

	if err := w.moments.Write([]string{
		strconv.Itoa(s.Step), ff(s.Time), ff(s.Integral),
		ff(s.Mesh.Mean(0)), ff(s.Mesh.Mean(1)), ff(s.SigmaQ), ff(s.SigmaP),
	}); err != nil {
		return err
	}
	if err := w.writeRow(w.xproj, s.Step, s.XProj); err != nil {
		return err
	}
	if err := w.writeRow(w.yproj, s.Step, s.YProj); err != nil {
		return err
	}
	if s.Wake != nil {
		if err := w.writeRow(w.wake, s.Step, s.Wake); err != nil {
			return err
		}
	}
	if err := w.csrHist.Write([]string{
		strconv.Itoa(s.Step), ff(s.Time), ff(s.CSRPower),
	}); err != nil {
		return err
	}
	if len(s.Tracers) > 0 {
		row := make([]string, 0, 1+2*len(s.Tracers))
		row = append(row, strconv.Itoa(s.Step))
		for _, t := range s.Tracers {
			row = append(row, ff(t.Q), ff(t.P))
		}
		if err := w.tracers.Write(row); err != nil {
			return err
		}
	}

	if w.full {
		if err := w.writeFrame(s.Step, s.Mesh.Data()); err != nil {
			return err
		}
	}
	w.flush()
	return nil
}

// WriteFinalFrame stores the last phase-space frame regardless of the
// detail level.
func (w *RunWriter) WriteFinalFrame(step int, data []float64) error {
	return w.writeFrame(step, data)
}

func (w *RunWriter) writeFrame(step int, data []float64) error {
	name := filepath.Join(w.dir, "phasespace", fmt.Sprintf("step_%06d.bin", step))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return binary.Write(f, binary.LittleEndian, data)
}

func (w *RunWriter) writeRow(cw *csv.Writer, step int, values []float64) error {
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.Itoa(step))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', 9, 64))
	}
	return cw.Write(row)
}

func (w *RunWriter) flush() {
	for _, cw := range []*csv.Writer{w.moments, w.csrHist, w.xproj, w.yproj, w.wake, w.tracers} {
		cw.Flush()
	}
}

func (w *RunWriter) Close() error {
	w.flush()
	var firstErr error
	for _, f := range w.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
