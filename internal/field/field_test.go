package field

import (
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/impedance"
)

func fieldMesh(t *testing.T, n int) *grid.PhaseSpace {
	t.Helper()
	ps, err := grid.NewPhaseSpace(n, -6, 6, -6, 6, 3.7e-13, 1e-3, 1e-3, 6.1e5)
	if err != nil {
		t.Fatal(err)
	}
	ps.SeedGaussian(1)
	ps.UpdateXProjection()
	return ps
}

func collimator(t *testing.T, n int) *impedance.Impedance {
	t.Helper()
	imp, err := impedance.CollimatorImpedance(n, 1e12, 0.016, 0.004)
	if err != nil {
		t.Fatal(err)
	}
	return imp
}

func TestFieldRequiresEnoughFrequencies(t *testing.T) {
	mesh := fieldMesh(t, 64)
	imp := collimator(t, 32)
	if _, err := New(mesh, imp, 0.01); err == nil {
		t.Error("expected error for undersized impedance grid")
	}
}

func TestSpectrumZeroBinIsTotalCharge(t *testing.T) {
	mesh := fieldMesh(t, 64)
	imp := collimator(t, 128)
	f, err := New(mesh, imp, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	f.Update(mesh.XProjection())

	sum := 0.0
	for _, v := range mesh.XProjection() {
		sum += v
	}
	if got := real(f.Spectrum()[0]); math.Abs(got-sum) > 1e-9 {
		t.Errorf("DC bin %g, want projection sum %g", got, sum)
	}
}

// A resistive (real, positive) impedance must drain energy from the
// bunch: the charge-weighted wake is negative.
func TestWakeSignConvention(t *testing.T) {
	mesh := fieldMesh(t, 64)
	imp := collimator(t, 128)
	f, err := NewWithWake(mesh, imp, 0.01, 1e-3, 1.3e9, 4.7e-4, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	f.Update(mesh.XProjection())
	wake := f.WakePotential()

	var sum float64
	for i, w := range wake {
		sum += mesh.XProjection()[i] * w
	}
	if sum >= 0 {
		t.Errorf("charge-weighted wake = %g, want negative (deceleration)", sum)
	}
}

func TestWakeZeroWithoutCurrent(t *testing.T) {
	mesh := fieldMesh(t, 32)
	imp := collimator(t, 64)
	f, err := New(mesh, imp, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	f.Update(mesh.XProjection())
	for i, w := range f.WakePotential() {
		if w != 0 {
			t.Fatalf("wake[%d] = %g without bunch current", i, w)
		}
	}
}

func TestCSRPowerPositiveAndFiltered(t *testing.T) {
	mesh := fieldMesh(t, 64)
	imp, err := impedance.FreeSpaceCSR(128, 8.7e6, 1e12)
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewWithWake(mesh, imp, 0.01, 1e-3, 1.3e9, 4.7e-4, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	f.Update(mesh.XProjection())

	full := f.UpdateCSR(0)
	if full <= 0 {
		t.Fatalf("CSR power %g, want positive", full)
	}
	filtered := f.UpdateCSR(1e11)
	if filtered >= full {
		t.Errorf("cutoff filter did not reduce power: %g >= %g", filtered, full)
	}
	if filtered <= 0 {
		t.Errorf("filtered power %g, want positive", filtered)
	}
	if f.CSRPower() != filtered {
		t.Errorf("cached power %g, want %g", f.CSRPower(), filtered)
	}
}

// Padding leaves room behind the bunch so the cyclic convolution does
// not wrap the wake onto the head.
func TestPaddingSuppressesWrapAround(t *testing.T) {
	mesh := fieldMesh(t, 64)
	// flat impedance down to DC: the wake of a point charge stays at
	// the charge
	path := filepath.Join(t.TempDir(), "flat.txt")
	if err := os.WriteFile(path, []byte("0 1 0\n1e12 1 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	imp, err := impedance.FromFile(path, 256, 1e12)
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewWithWake(mesh, imp, 0.01, 1e-3, 1.3e9, 4.7e-4, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if f.Padded() != 256 {
		t.Fatalf("padded length %d, want 256", f.Padded())
	}

	// a delta profile: with a constant impedance the wake follows the
	// charge, no leakage into empty cells
	profile := make([]float64, 64)
	profile[10] = 1
	f.Update(profile)
	wake := f.WakePotential()

	peak := math.Abs(wake[10])
	if peak == 0 {
		t.Fatal("no wake at the charge")
	}
	for i, w := range wake {
		if i == 10 {
			continue
		}
		if math.Abs(w) > 1e-6*peak {
			t.Fatalf("wake leaked to cell %d: %g (peak %g)", i, w, peak)
		}
	}
}

func TestSpectrumParseval(t *testing.T) {
	mesh := fieldMesh(t, 64)
	imp := collimator(t, 128)
	f, err := New(mesh, imp, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	f.Update(mesh.XProjection())

	var direct float64
	for _, v := range mesh.XProjection() {
		direct += v * v
	}
	var spectral float64
	for _, z := range f.Spectrum() {
		a := cmplx.Abs(z)
		spectral += a * a
	}
	spectral /= float64(f.Padded())
	if math.Abs(direct-spectral)/direct > 1e-9 {
		t.Errorf("Parseval violated: %g vs %g", direct, spectral)
	}
}
