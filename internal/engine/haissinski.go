package engine

import (
	"math"

	"github.com/san-kum/vfpsim/internal/grid"
)

// SeedHaissinski iterates the mesh toward the self-consistent static
// bunch shape under its own wake: the charge profile is replaced by
// exp(-q^2/2 - W(q)), renormalized, and the mesh rebuilt with a unit
// Gaussian energy profile. Returns the largest profile change of the
// last iteration.
func SeedHaissinski(mesh *grid.PhaseSpace, wake WakeKicker, iterations int) (float64, error) {
	if iterations <= 0 || wake == nil {
		return 0, nil
	}
	qa := mesh.QAxis()
	n := mesh.NQ()
	prev := make([]float64, n)
	delta := math.Inf(1)

	mesh.UpdateXProjection()
	for it := 0; it < iterations; it++ {
		if err := wake.Update(); err != nil {
			return delta, err
		}
		w := wake.Force()
		px := mesh.XProjection()
		copy(prev, px)

		charge := 0.0
		for i := 0; i < n; i++ {
			q := qa.Coord(i)
			px[i] = math.Exp(-q*q/2 - w[i])
			charge += px[i] * qa.Delta()
		}
		for i := 0; i < n; i++ {
			px[i] /= charge
		}

		delta = 0
		for i := 0; i < n; i++ {
			if d := math.Abs(px[i] - prev[i]); d > delta {
				delta = d
			}
		}
		mesh.CreateFromProjections()
	}
	return delta, nil
}
