package maps

import (
	"fmt"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/grid"
)

// FPType selects which terms of the Fokker-Planck operator are
// active.
type FPType int

const (
	FPNone FPType = iota
	FPDampingOnly
	FPDiffusionOnly
	FPFull
)

// DerivationType is the stencil width of the momentum-axis
// derivatives.
type DerivationType int

const (
	Derivation3 DerivationType = 3 // second-order differences
	Derivation5 DerivationType = 5 // fourth-order differences
)

// FokkerPlanckMap applies radiation damping and quantum excitation as
// a per-column stencil along p:
//
//	psi <- psi + e1*d/dp(p psi) + D*dp^2*d^2/dp^2 psi
//
// with e1 = 2 dt/t_d and D = e1/(2 dp^2). Rows at the momentum-axis
// boundary are zeroed (absorbing boundary).
type FokkerPlanckMap struct {
	*SourceMap
	fpt FPType
	e1  float64
	d   float64
}

func NewFokkerPlanckMap(in, out *grid.PhaseSpace, fpt FPType, e1 float64,
	der DerivationType, backend compute.Backend) (*FokkerPlanckMap, error) {
	if der != Derivation3 && der != Derivation5 {
		return nil, fmt.Errorf("%w: derivation stencil %d (want 3 or 5)",
			ErrUnstableParameters, der)
	}
	dp := in.PAxis().Delta()
	d := e1 / (2 * dp * dp)
	if fpt == FPDampingOnly {
		d = 0
	}
	eps := e1
	if fpt == FPDiffusionOnly {
		eps = 0
	}
	if eps >= 1 || 2*d >= 1-eps {
		return nil, fmt.Errorf("%w: e1=%g, D=%g (need e1 < 1 and 2D < 1-e1)",
			ErrUnstableParameters, eps, d)
	}
	sm, err := newSourceMap(in, out, int(der), false, backend)
	if err != nil {
		return nil, err
	}
	m := &FokkerPlanckMap{SourceMap: sm, fpt: fpt, e1: eps, d: d}
	m.build(der)
	return m, nil
}

func (m *FokkerPlanckMap) build(der DerivationType) {
	dp := m.in.PAxis().Delta()
	halo := int(der) / 2
	for i := 0; i < m.nq; i++ {
		for j := 0; j < m.np; j++ {
			base := (i*m.np + j) * m.ip
			if j < halo || j >= m.np-halo {
				for s := 0; s < m.ip; s++ {
					m.weights[base+s] = compute.Contribution{}
				}
				continue
			}
			if m.fpt == FPNone {
				m.weights[base] = compute.Contribution{Src: uint32(i*m.np + j), Weight: 1}
				for s := 1; s < m.ip; s++ {
					m.weights[base+s] = compute.Contribution{}
				}
				continue
			}
			// momentum coordinate in grid units
			pt := m.in.PAxis().Coord(j) / dp
			switch der {
			case Derivation3:
				m.weights[base+0] = compute.Contribution{
					Src:    uint32(i*m.np + j - 1),
					Weight: m.d - m.e1*pt/2,
				}
				m.weights[base+1] = compute.Contribution{
					Src:    uint32(i*m.np + j),
					Weight: 1 + m.e1 - 2*m.d,
				}
				m.weights[base+2] = compute.Contribution{
					Src:    uint32(i*m.np + j + 1),
					Weight: m.d + m.e1*pt/2,
				}
			case Derivation5:
				ep := m.e1 * pt
				m.weights[base+0] = compute.Contribution{
					Src:    uint32(i*m.np + j - 2),
					Weight: (ep - m.d) / 12,
				}
				m.weights[base+1] = compute.Contribution{
					Src:    uint32(i*m.np + j - 1),
					Weight: (16*m.d - 8*ep) / 12,
				}
				m.weights[base+2] = compute.Contribution{
					Src:    uint32(i*m.np + j),
					Weight: 1 + m.e1 - 30*m.d/12,
				}
				m.weights[base+3] = compute.Contribution{
					Src:    uint32(i*m.np + j + 1),
					Weight: (16*m.d + 8*ep) / 12,
				}
				m.weights[base+4] = compute.Contribution{
					Src:    uint32(i*m.np + j + 2),
					Weight: (-ep - m.d) / 12,
				}
			}
		}
	}
}

// ApplyTo applies the deterministic damping contraction to tracers;
// the stochastic excitation has no single-particle counterpart on the
// mesh and is omitted.
func (m *FokkerPlanckMap) ApplyTo(tracers []grid.Position) {
	if m.fpt == FPNone || m.fpt == FPDiffusionOnly {
		return
	}
	f := 1 - m.e1
	for k := range tracers {
		tracers[k].P *= f
	}
}
