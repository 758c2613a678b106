package maps

import (
	"math"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/grid"
)

// KickAxis selects the displacement direction of a KickMap.
type KickAxis int

const (
	// KickAlongP displaces along the energy axis by an amount
	// depending on q (RF and wake kicks).
	KickAlongP KickAxis = iota
	// KickAlongQ displaces along the position axis by an amount
	// depending on p (drift).
	KickAlongQ
)

// KickMap shifts every cell of a column (or row) by the same
// fractional number of cells along one axis. The offset array is in
// units of mesh cells, indexed by the perpendicular coordinate.
type KickMap struct {
	*SourceMap
	axis   KickAxis
	order  int
	offset []float64
}

func newKickMap(in, out *grid.PhaseSpace, axis KickAxis, order int,
	clamp bool, backend compute.Backend) (*KickMap, error) {
	np, err := grid.StencilPoints(order)
	if err != nil {
		return nil, err
	}
	sm, err := newSourceMap(in, out, np, clamp, backend)
	if err != nil {
		return nil, err
	}
	perp := in.NQ()
	if axis == KickAlongQ {
		perp = in.NP()
	}
	return &KickMap{
		SourceMap: sm,
		axis:      axis,
		order:     order,
		offset:    make([]float64, perp),
	}, nil
}

// Offset is the per-column (or per-row) displacement in mesh cells.
func (m *KickMap) Offset() []float64 { return m.offset }

// Force is the displacement in physical p units; meaningful for
// kicks along p.
func (m *KickMap) Force() []float64 {
	f := make([]float64, len(m.offset))
	dp := m.in.PAxis().Delta()
	for i, v := range m.offset {
		f[i] = v * dp
	}
	return f
}

// rebuild refreshes the stencil table from the current offsets. A
// positive offset moves density toward larger indices, so each output
// cell gathers from index - offset.
func (m *KickMap) rebuild() {
	np := m.order + 1
	w := make([]float64, np)
	switch m.axis {
	case KickAlongP:
		for i := 0; i < m.nq; i++ {
			off := m.offset[i]
			for j := 0; j < m.np; j++ {
				anchor := grid.LagrangeWeights(w, float64(j)-off, m.order)
				base := (i*m.np + j) * m.ip
				for s := 0; s < np; s++ {
					cj := grid.ClampIndex(anchor+s, m.np)
					m.weights[base+s] = compute.Contribution{
						Src:    uint32(i*m.np + cj),
						Weight: w[s],
					}
				}
			}
		}
	case KickAlongQ:
		for j := 0; j < m.np; j++ {
			off := m.offset[j]
			for i := 0; i < m.nq; i++ {
				anchor := grid.LagrangeWeights(w, float64(i)-off, m.order)
				base := (i*m.np + j) * m.ip
				for s := 0; s < np; s++ {
					ci := grid.ClampIndex(anchor+s, m.nq)
					m.weights[base+s] = compute.Contribution{
						Src:    uint32(ci*m.np + j),
						Weight: w[s],
					}
				}
			}
		}
	}
}

// ApplyTo adds the interpolated displacement to each tracer.
func (m *KickMap) ApplyTo(tracers []grid.Position) {
	switch m.axis {
	case KickAlongP:
		qa := m.in.QAxis()
		dp := m.in.PAxis().Delta()
		for k := range tracers {
			off := interpOffset(m.offset, qa.Index(tracers[k].Q))
			tracers[k].P += off * dp
		}
	case KickAlongQ:
		pa := m.in.PAxis()
		dq := m.in.QAxis().Delta()
		for k := range tracers {
			off := interpOffset(m.offset, pa.Index(tracers[k].P))
			tracers[k].Q += off * dq
		}
	}
}

// interpOffset linearly interpolates the offset array at a fractional
// index, holding the end values beyond the grid.
func interpOffset(offset []float64, x float64) float64 {
	if x <= 0 {
		return offset[0]
	}
	last := float64(len(offset) - 1)
	if x >= last {
		return offset[len(offset)-1]
	}
	i := int(math.Floor(x))
	t := x - float64(i)
	return (1-t)*offset[i] + t*offset[i+1]
}

// RFKickMap is the RF cavity half of the split symplectic integrator:
// a kick along p proportional to q, with the step angle as the
// coupling.
type RFKickMap struct {
	*KickMap
}

func NewRFKickMap(in, out *grid.PhaseSpace, angle float64, order int,
	clamp bool, backend compute.Backend) (*RFKickMap, error) {
	km, err := newKickMap(in, out, KickAlongP, order, clamp, backend)
	if err != nil {
		return nil, err
	}
	dp := in.PAxis().Delta()
	for i := 0; i < in.NQ(); i++ {
		km.offset[i] = -angle * in.QAxis().Coord(i) / dp
	}
	km.rebuild()
	return &RFKickMap{KickMap: km}, nil
}

// DriftMap is the drift half of the split integrator: a displacement
// along q given by the momentum-compaction polynomial in p. The
// coefficient list holds the step angle times alpha_n/alpha_0.
type DriftMap struct {
	*KickMap
}

func NewDriftMap(in, out *grid.PhaseSpace, coeffs [3]float64, order int,
	clamp bool, backend compute.Backend) (*DriftMap, error) {
	km, err := newKickMap(in, out, KickAlongQ, order, clamp, backend)
	if err != nil {
		return nil, err
	}
	dq := in.QAxis().Delta()
	for j := 0; j < in.NP(); j++ {
		p := in.PAxis().Coord(j)
		km.offset[j] = (coeffs[0]*p + coeffs[1]*p*p + coeffs[2]*p*p*p) / dq
	}
	km.rebuild()
	return &DriftMap{KickMap: km}, nil
}
