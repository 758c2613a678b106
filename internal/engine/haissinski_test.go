package engine

import (
	"math"
	"testing"

	"github.com/san-kum/vfpsim/internal/field"
	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/impedance"
	"github.com/san-kum/vfpsim/internal/maps"
)

func haissinskiSetup(t *testing.T, current float64) (*grid.PhaseSpace, WakeKicker) {
	t.Helper()
	m1, err := grid.NewPhaseSpace(64, -6, 6, -6, 6, 1e-12, current, 1e-3, 600)
	if err != nil {
		t.Fatal(err)
	}
	m1.SeedGaussian(1)
	m1.UpdateXProjection()
	m2 := m1.Clone()

	imp, err := impedance.CollimatorImpedance(128, 1e12, 0.016, 0.004)
	if err != nil {
		t.Fatal(err)
	}
	ef, err := field.NewWithWake(m1, imp, 0.01, current, 1.3e9, 4.7e-4, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	wkm, err := maps.NewWakePotentialMap(m1, m2, ef, grid.OrderCubic, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m1, wkm
}

// Without bunch current the wake vanishes and the fixed point is the
// plain Gaussian.
func TestHaissinskiFixedPointWithoutWake(t *testing.T) {
	mesh, wkm := haissinskiSetup(t, 0)

	delta, err := SeedHaissinski(mesh, wkm, 5)
	if err != nil {
		t.Fatalf("SeedHaissinski: %v", err)
	}
	if delta > 1e-4 {
		t.Errorf("residual %g after 5 iterations, want < 1e-4", delta)
	}

	// profile is the normalized Gaussian
	qa := mesh.QAxis()
	norm := 0.0
	for i := 0; i < mesh.NQ(); i++ {
		q := qa.Coord(i)
		norm += math.Exp(-q*q/2) * qa.Delta()
	}
	for i, v := range mesh.XProjection() {
		q := qa.Coord(i)
		want := math.Exp(-q*q/2) / norm
		if math.Abs(v-want) > 1e-6 {
			t.Fatalf("profile[%d] = %g, want %g", i, v, want)
		}
	}
}

func TestHaissinskiConvergesWithWake(t *testing.T) {
	mesh, wkm := haissinskiSetup(t, 1e-3)

	delta, err := SeedHaissinski(mesh, wkm, 50)
	if err != nil {
		t.Fatalf("SeedHaissinski: %v", err)
	}
	if delta > 1e-4 {
		t.Errorf("fixed point not reached: residual %g", delta)
	}

	// charge stays normalized
	mesh.UpdateXProjection()
	if got := mesh.Integral(); math.Abs(got-1) > 1e-6 {
		t.Errorf("integral after seeding = %g, want 1", got)
	}
	if !mesh.IsFinite() {
		t.Error("seeded mesh not finite")
	}
}

func TestHaissinskiNoIterationsIsNoOp(t *testing.T) {
	mesh, wkm := haissinskiSetup(t, 1e-3)
	before := make([]float64, len(mesh.Data()))
	copy(before, mesh.Data())

	if _, err := SeedHaissinski(mesh, wkm, 0); err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if mesh.Data()[i] != before[i] {
			t.Fatal("mesh changed without iterations")
		}
	}
}
