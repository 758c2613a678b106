package maps

import (
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/grid"
)

// RotationMap is a rigid rotation in normalized (q, p) space; a full
// turn is one synchrotron period. In precomputed mode the stencil
// table is built once; in on-the-fly mode source coordinates are
// recomputed per cell on every Apply, trading time for the w*N^2
// table.
type RotationMap struct {
	*SourceMap
	angle    float64
	cos, sin float64
	order    int
	onTheFly bool
}

func NewRotationMap(in, out *grid.PhaseSpace, angle float64, order int,
	clamp, precompute bool, backend compute.Backend) (*RotationMap, error) {
	np, err := grid.StencilPoints(order)
	if err != nil {
		return nil, err
	}
	if in.NQ() != in.NP() {
		return nil, fmt.Errorf("%w: rotation needs a square mesh, got %dx%d",
			ErrInvalidGeometry, in.NQ(), in.NP())
	}
	ip := np * np
	sm, err := newSourceMap(in, out, ip, clamp, backend)
	if err != nil {
		return nil, err
	}
	rm := &RotationMap{
		SourceMap: sm,
		angle:     angle,
		cos:       math.Cos(angle),
		sin:       math.Sin(angle),
		order:     order,
		onTheFly:  !precompute,
	}
	if precompute {
		rm.buildTable()
	}
	return rm, nil
}

func (m *RotationMap) Angle() float64 { return m.angle }

// sourceIndex maps output cell (i, j) to the fractional grid indices
// of its source coordinate. Coordinates are normalized to [-1, 1] on
// both axes.
func (m *RotationMap) sourceIndex(i, j int) (float64, float64) {
	h := float64(m.nq-1) / 2
	qn := float64(i)/h - 1
	pn := float64(j)/h - 1
	sq := qn*m.cos + pn*m.sin
	sp := -qn*m.sin + pn*m.cos
	return (sq + 1) * h, (sp + 1) * h
}

func (m *RotationMap) buildTable() {
	np := m.order + 1
	wx := make([]float64, np)
	wy := make([]float64, np)
	for i := 0; i < m.nq; i++ {
		for j := 0; j < m.np; j++ {
			xs, ys := m.sourceIndex(i, j)
			ax := grid.LagrangeWeights(wx, xs, m.order)
			ay := grid.LagrangeWeights(wy, ys, m.order)
			base := (i*m.np + j) * m.ip
			s := 0
			for sx := 0; sx < np; sx++ {
				ci := grid.ClampIndex(ax+sx, m.nq)
				for sy := 0; sy < np; sy++ {
					cj := grid.ClampIndex(ay+sy, m.np)
					m.weights[base+s] = compute.Contribution{
						Src:    uint32(ci*m.np + cj),
						Weight: wx[sx] * wy[sy],
					}
					s++
				}
			}
		}
	}
}

func (m *RotationMap) Apply() {
	if !m.onTheFly {
		m.SourceMap.Apply()
		return
	}

	in := m.in.Data()
	out := m.out.Data()
	n := m.nq

	var wg sync.WaitGroup
	rowsPerChunk := 8
	for r0 := 0; r0 < n; r0 += rowsPerChunk {
		r1 := r0 + rowsPerChunk
		if r1 > n {
			r1 = n
		}
		wg.Add(1)
		go func(r0, r1 int) {
			defer wg.Done()
			np := m.order + 1
			wx := make([]float64, np)
			wy := make([]float64, np)
			for i := r0; i < r1; i++ {
				for j := 0; j < m.np; j++ {
					xs, ys := m.sourceIndex(i, j)
					ax := grid.LagrangeWeights(wx, xs, m.order)
					ay := grid.LagrangeWeights(wy, ys, m.order)
					sum := 0.0
					hi := 0.0
					for sx := 0; sx < np; sx++ {
						ci := grid.ClampIndex(ax+sx, m.nq)
						row := in[ci*m.np:]
						for sy := 0; sy < np; sy++ {
							cj := grid.ClampIndex(ay+sy, m.np)
							v := row[cj]
							sum += wx[sx] * wy[sy] * v
							if v > hi {
								hi = v
							}
						}
					}
					if m.clamp {
						if sum < 0 {
							sum = 0
						} else if sum > hi {
							sum = hi
						}
					}
					out[i*m.np+j] = sum
				}
			}
		}(r0, r1)
	}
	wg.Wait()
}

// ApplyTo advances tracers by the forward rotation (the inverse of
// the per-cell gather).
func (m *RotationMap) ApplyTo(tracers []grid.Position) {
	for k := range tracers {
		q, p := tracers[k].Q, tracers[k].P
		tracers[k].Q = q*m.cos - p*m.sin
		tracers[k].P = q*m.sin + p*m.cos
	}
}
