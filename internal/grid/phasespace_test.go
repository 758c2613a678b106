package grid

import (
	"math"
	"testing"
)

func testMesh(t *testing.T, n int) *PhaseSpace {
	t.Helper()
	ps, err := NewPhaseSpace(n, -6, 6, -6, 6, 1e-9, 1e-3, 1e-3, 600)
	if err != nil {
		t.Fatalf("NewPhaseSpace: %v", err)
	}
	return ps
}

func TestGaussianSeedNormalization(t *testing.T) {
	ps := testMesh(t, 128)
	ps.SeedGaussian(1)
	ps.UpdateXProjection()

	integral := ps.Integral()
	if math.Abs(integral-1) > 1e-6 {
		t.Errorf("Gaussian seed integral = %g, want 1", integral)
	}
}

func TestNormalize(t *testing.T) {
	ps := testMesh(t, 64)
	ps.SeedGaussian(1)
	for i := range ps.Data() {
		ps.Data()[i] *= 3.7
	}
	ps.UpdateXProjection()

	prev := ps.Normalize()
	if math.Abs(prev-3.7) > 1e-6 {
		t.Errorf("pre-normalization integral = %g, want 3.7", prev)
	}
	ps.UpdateXProjection()
	if got := ps.Integral(); math.Abs(got-1) > 1e-9 {
		t.Errorf("post-normalization integral = %g, want 1", got)
	}
}

func TestVarianceOfUnitGaussian(t *testing.T) {
	ps := testMesh(t, 128)
	ps.SeedGaussian(1)
	ps.UpdateXProjection()
	ps.UpdateYProjection()

	if v := ps.Variance(0); math.Abs(v-1) > 1e-3 {
		t.Errorf("sigma_q^2 = %g, want 1", v)
	}
	if v := ps.Variance(1); math.Abs(v-1) > 1e-3 {
		t.Errorf("sigma_p^2 = %g, want 1", v)
	}
	if m := ps.Mean(0); math.Abs(m) > 1e-9 {
		t.Errorf("mean q = %g, want 0", m)
	}
}

func TestProjectionsAgree(t *testing.T) {
	ps := testMesh(t, 32)
	ps.SeedGaussian(0.7)
	ps.UpdateXProjection()
	ps.UpdateYProjection()

	sx := 0.0
	for _, v := range ps.XProjection() {
		sx += v * ps.QAxis().Delta()
	}
	sy := 0.0
	for _, v := range ps.YProjection() {
		sy += v * ps.PAxis().Delta()
	}
	if math.Abs(sx-sy) > 1e-9 {
		t.Errorf("projection integrals disagree: %g vs %g", sx, sy)
	}
}

func TestCreateFromProjections(t *testing.T) {
	ps := testMesh(t, 64)
	ps.SeedGaussian(1)
	ps.UpdateXProjection()
	before := make([]float64, len(ps.XProjection()))
	copy(before, ps.XProjection())

	ps.CreateFromProjections()
	ps.UpdateXProjection()

	for i, v := range ps.XProjection() {
		if math.Abs(v-before[i]) > 1e-6 {
			t.Fatalf("profile changed at %d: %g vs %g", i, v, before[i])
		}
	}
}

func TestSetDataSizeMismatch(t *testing.T) {
	ps := testMesh(t, 16)
	if err := ps.SetData(make([]float64, 17)); err == nil {
		t.Error("expected error for wrong data size")
	}
}

func TestIsFinite(t *testing.T) {
	ps := testMesh(t, 8)
	ps.SeedGaussian(1)
	if !ps.IsFinite() {
		t.Error("Gaussian mesh reported non-finite")
	}
	ps.Set(3, 3, math.NaN())
	if ps.IsFinite() {
		t.Error("NaN not detected")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ps := testMesh(t, 8)
	ps.SeedGaussian(1)
	c := ps.Clone()
	c.Set(0, 0, 42)
	if ps.At(0, 0) == 42 {
		t.Error("clone shares the density buffer")
	}
}
