package maps

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/vfpsim/internal/grid"
)

func TestWakeFunctionMapConvolution(t *testing.T) {
	const n = 32
	in, err := grid.NewPhaseSpace(n, -6, 6, -6, 6, 0, 1e-3, 1e-3, 600)
	if err != nil {
		t.Fatal(err)
	}
	out := in.Clone()

	// constant wake of -1 over the whole tabulated range
	path := filepath.Join(t.TempDir(), "wake.txt")
	if err := os.WriteFile(path, []byte("-20 -1\n20 -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	current, dt, energy, sigmaE := 1e-3, 1e-6, 1.3e9, 4.7e-4
	wfm, err := NewWakeFunctionMap(in, out, path, energy, sigmaE, current, dt,
		grid.OrderCubic, false, nil)
	if err != nil {
		t.Fatalf("NewWakeFunctionMap: %v", err)
	}

	in.SeedGaussian(1)
	in.UpdateXProjection()
	if err := wfm.Update(); err != nil {
		t.Fatal(err)
	}

	// constant wake times unit charge: every column gets the same kick
	dq := in.QAxis().Delta()
	scale := -current * dt / (energy * sigmaE)
	want := scale * -1 * dq / in.PAxis().Delta()
	px := in.XProjection()
	total := 0.0
	for _, v := range px {
		total += v
	}
	want *= total

	for i, off := range wfm.Offset() {
		if math.Abs(off-want) > math.Abs(want)*1e-9+1e-18 {
			t.Fatalf("column %d offset %g, want %g", i, off, want)
		}
	}
}

func TestWakeFileErrors(t *testing.T) {
	dir := t.TempDir()
	in, err := grid.NewPhaseSpace(8, -6, 6, -6, 6, 0, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	out := in.Clone()

	missing := filepath.Join(dir, "missing.txt")
	if _, err := NewWakeFunctionMap(in, out, missing, 1, 1, 1, 1,
		grid.OrderCubic, false, nil); err == nil {
		t.Error("expected error for missing wake file")
	}

	short := filepath.Join(dir, "short.txt")
	os.WriteFile(short, []byte("0 1\n"), 0644)
	if _, err := NewWakeFunctionMap(in, out, short, 1, 1, 1, 1,
		grid.OrderCubic, false, nil); err == nil {
		t.Error("expected error for single-row wake file")
	}

	unsorted := filepath.Join(dir, "unsorted.txt")
	os.WriteFile(unsorted, []byte("1 1\n0 1\n"), 0644)
	if _, err := NewWakeFunctionMap(in, out, unsorted, 1, 1, 1, 1,
		grid.OrderCubic, false, nil); err == nil {
		t.Error("expected error for unsorted wake file")
	}
}
