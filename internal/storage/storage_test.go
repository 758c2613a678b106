package storage

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/vfpsim/internal/config"
	"github.com/san-kum/vfpsim/internal/engine"
	"github.com/san-kum/vfpsim/internal/grid"
)

func storageMesh(t *testing.T, n int) *grid.PhaseSpace {
	t.Helper()
	ps, err := grid.NewPhaseSpace(n, -6, 6, -6, 6, 1e-12, 1e-3, 1e-3, 600)
	if err != nil {
		t.Fatal(err)
	}
	ps.SeedGaussian(1)
	ps.UpdateXProjection()
	ps.UpdateYProjection()
	return ps
}

func TestPNGRoundTrip(t *testing.T) {
	const n = 32
	mesh := storageMesh(t, n)
	path := filepath.Join(t.TempDir(), "dist.png")

	if err := WritePNG(path, mesh); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	data, err := LoadPNG(path, n)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}

	// stored as 16-bit intensities scaled to the maximum
	maxVal := mesh.Max()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := mesh.At(i, j) / maxVal
			got := data[i*n+j]
			if math.Abs(got-want) > 1.0/65535+1e-9 {
				t.Fatalf("cell (%d,%d): %g vs %g", i, j, got, want)
			}
		}
	}
}

func TestLoadPNGSizeMismatch(t *testing.T) {
	mesh := storageMesh(t, 16)
	path := filepath.Join(t.TempDir(), "dist.png")
	if err := WritePNG(path, mesh); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPNG(path, 32); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestLoadTextBinsParticles(t *testing.T) {
	mesh := storageMesh(t, 16)
	path := filepath.Join(t.TempDir(), "particles.txt")
	// two particles in the same cell, one elsewhere, one outside
	content := "0 0\n0 0\n3 -3\n100 100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := LoadText(path, mesh); err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	mesh.UpdateXProjection()
	if got := mesh.Integral(); math.Abs(got-1) > 1e-9 {
		t.Errorf("binned distribution integral %g, want 1", got)
	}

	qa, pa := mesh.QAxis(), mesh.PAxis()
	center := mesh.At(int(qa.Index(0)+0.5), int(pa.Index(0)+0.5))
	side := mesh.At(int(qa.Index(3)+0.5), int(pa.Index(-3)+0.5))
	if math.Abs(center-2*side) > 1e-9*center {
		t.Errorf("cell weights %g and %g, want 2:1", center, side)
	}
}

func TestRunWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run_1")
	cfg := config.DefaultConfig()
	cfg.GridSize = 16
	cfg.Steps = 8
	cfg.Force = true
	prm, err := cfg.Derive()
	if err != nil {
		t.Fatal(err)
	}

	mesh := storageMesh(t, 16)
	w, err := NewRunWriter(dir, cfg, prm, 1, true)
	if err != nil {
		t.Fatalf("NewRunWriter: %v", err)
	}

	snap := &engine.Snapshot{
		Step:     0,
		Time:     0,
		Mesh:     mesh,
		XProj:    mesh.XProjection(),
		YProj:    mesh.YProjection(),
		Integral: mesh.Integral(),
		SigmaQ:   1,
		SigmaP:   1,
		Wake:     make([]float64, 16),
		CSRPower: 42,
		Tracers:  []grid.Position{{Q: 0.5, P: -0.25}},
	}
	if err := w.OnSnapshot(snap); err != nil {
		t.Fatalf("OnSnapshot: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// sidecar config preserved
	loaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("sidecar config: %v", err)
	}
	if loaded.GridSize != 16 || loaded.Steps != 8 {
		t.Errorf("sidecar config lost values: %+v", loaded)
	}

	// full frame stored and loadable
	data, err := LoadRunFrame(dir, 0, 16)
	if err != nil {
		t.Fatalf("LoadRunFrame: %v", err)
	}
	for i, v := range data {
		if v != mesh.Data()[i] {
			t.Fatalf("frame sample %d: %g vs %g", i, v, mesh.Data()[i])
		}
	}

	// latest-frame lookup
	if _, err := LoadRunFrame(dir, -1, 16); err != nil {
		t.Fatalf("latest frame: %v", err)
	}
	// size check
	if _, err := LoadRunFrame(dir, 0, 32); err == nil {
		t.Error("expected frame size mismatch error")
	}

	// projection series readable
	step, values, err := LoadSeries(filepath.Join(dir, "projections", "x.csv"))
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if step != 0 || len(values) != 16 {
		t.Errorf("series step %d with %d values", step, len(values))
	}

	// CSR history column
	power, err := LoadColumn(filepath.Join(dir, "field", "csr_power.csv"), 2)
	if err != nil {
		t.Fatalf("LoadColumn: %v", err)
	}
	if len(power) != 1 || power[0] != 42 {
		t.Errorf("csr power history %v", power)
	}

	// run listing picks it up
	runs, err := ListRuns(filepath.Dir(dir))
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run_1" || runs[0].GridSize != 16 {
		t.Errorf("run listing %+v", runs)
	}
}

func TestLoadTracersSkipsJunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracers.txt")
	content := "0.5 0.25\n# comment\n1.0 -1.0\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	tr, err := LoadTracers(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr) != 2 {
		t.Fatalf("got %d tracers, want 2", len(tr))
	}
	if tr[1].Q != 1.0 || tr[1].P != -1.0 {
		t.Errorf("tracer parsed wrong: %+v", tr[1])
	}
}
