package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Position is a tracer particle in normalized (q, p) coordinates.
type Position struct {
	Q float64
	P float64
}

// PhaseSpace holds the charge density on a fixed 2D grid together with
// its axis rulers, charge scales, and lazily refreshed projections and
// moments. Data is row-major: cell (i, j) of column i along q and row
// j along p lives at data[i*np+j].
type PhaseSpace struct {
	nq, np int
	data   []float64

	qAxis *Ruler
	pAxis *Ruler

	// charge scales carried for unit conversion
	charge       float64 // Q_b [C]
	current      float64 // I_b [A]
	bunchLength  float64 // sigma_0 [m]
	energySpread float64 // absolute dE [eV]

	projX []float64
	projY []float64

	integral float64
	mean     [2]float64
	variance [2]float64
}

func NewPhaseSpace(n int, qmin, qmax, pmin, pmax,
	charge, current, bunchLength, energySpread float64) (*PhaseSpace, error) {
	qAxis, err := NewRuler(n, qmin, qmax)
	if err != nil {
		return nil, fmt.Errorf("q axis: %w", err)
	}
	pAxis, err := NewRuler(n, pmin, pmax)
	if err != nil {
		return nil, fmt.Errorf("p axis: %w", err)
	}
	return &PhaseSpace{
		nq:           n,
		np:           n,
		data:         make([]float64, n*n),
		qAxis:        qAxis,
		pAxis:        pAxis,
		charge:       charge,
		current:      current,
		bunchLength:  bunchLength,
		energySpread: energySpread,
		projX:        make([]float64, n),
		projY:        make([]float64, n),
	}, nil
}

func (ps *PhaseSpace) NQ() int       { return ps.nq }
func (ps *PhaseSpace) NP() int       { return ps.np }
func (ps *PhaseSpace) QAxis() *Ruler { return ps.qAxis }
func (ps *PhaseSpace) PAxis() *Ruler { return ps.pAxis }

func (ps *PhaseSpace) Charge() float64       { return ps.charge }
func (ps *PhaseSpace) Current() float64      { return ps.current }
func (ps *PhaseSpace) BunchLength() float64  { return ps.bunchLength }
func (ps *PhaseSpace) EnergySpread() float64 { return ps.energySpread }

// Data exposes the raw density buffer for transport maps.
func (ps *PhaseSpace) Data() []float64 { return ps.data }

func (ps *PhaseSpace) At(i, j int) float64 {
	return ps.data[i*ps.np+j]
}

func (ps *PhaseSpace) Set(i, j int, v float64) {
	ps.data[i*ps.np+j] = v
}

// SeedGaussian fills the mesh with exp(-(q^2+p^2)/(2 zoom^2))/(2 pi zoom^2).
func (ps *PhaseSpace) SeedGaussian(zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	norm := 1.0 / (2 * math.Pi * zoom * zoom)
	for i := 0; i < ps.nq; i++ {
		q := ps.qAxis.Coord(i)
		for j := 0; j < ps.np; j++ {
			p := ps.pAxis.Coord(j)
			ps.data[i*ps.np+j] = norm * math.Exp(-(q*q+p*p)/(2*zoom*zoom))
		}
	}
}

// UpdateXProjection refreshes the charge profile px[i] = sum_j psi * dp.
func (ps *PhaseSpace) UpdateXProjection() {
	dp := ps.pAxis.Delta()
	for i := 0; i < ps.nq; i++ {
		ps.projX[i] = floats.Sum(ps.data[i*ps.np:(i+1)*ps.np]) * dp
	}
}

// UpdateYProjection refreshes the energy profile py[j] = sum_i psi * dq.
func (ps *PhaseSpace) UpdateYProjection() {
	dq := ps.qAxis.Delta()
	for j := 0; j < ps.np; j++ {
		s := 0.0
		for i := 0; i < ps.nq; i++ {
			s += ps.data[i*ps.np+j]
		}
		ps.projY[j] = s * dq
	}
}

// XProjection returns the cached charge profile. Valid after
// UpdateXProjection.
func (ps *PhaseSpace) XProjection() []float64 { return ps.projX }
func (ps *PhaseSpace) YProjection() []float64 { return ps.projY }

// Integral recomputes the zeroth moment from the X projection and
// caches it.
func (ps *PhaseSpace) Integral() float64 {
	ps.integral = floats.Sum(ps.projX) * ps.qAxis.Delta()
	return ps.integral
}

// CachedIntegral returns the last value computed by Integral or
// Normalize.
func (ps *PhaseSpace) CachedIntegral() float64 { return ps.integral }

// Normalize rescales the density so the integral is 1 and returns the
// previous integral.
func (ps *PhaseSpace) Normalize() float64 {
	prev := ps.Integral()
	if prev != 0 {
		floats.Scale(1/prev, ps.data)
		floats.Scale(1/prev, ps.projX)
	}
	ps.integral = 1
	return prev
}

// Variance computes mean and variance of the projection along the
// given axis (0 = q, 1 = p) and caches both. The corresponding
// projection must be current.
func (ps *PhaseSpace) Variance(axis int) float64 {
	var proj []float64
	var ruler *Ruler
	if axis == 0 {
		proj = ps.projX
		ruler = ps.qAxis
	} else {
		proj = ps.projY
		ruler = ps.pAxis
	}
	var m0, m1 float64
	for i, v := range proj {
		m0 += v
		m1 += v * ruler.Coord(i)
	}
	if m0 == 0 {
		ps.mean[axis] = 0
		ps.variance[axis] = 0
		return 0
	}
	mean := m1 / m0
	var m2 float64
	for i, v := range proj {
		d := ruler.Coord(i) - mean
		m2 += v * d * d
	}
	ps.mean[axis] = mean
	ps.variance[axis] = m2 / m0
	return ps.variance[axis]
}

func (ps *PhaseSpace) Mean(axis int) float64 { return ps.mean[axis] }

// CreateFromProjections rebuilds the density as the current charge
// profile times a unit Gaussian along p.
func (ps *PhaseSpace) CreateFromProjections() {
	norm := 1.0 / math.Sqrt(2*math.Pi)
	for i := 0; i < ps.nq; i++ {
		px := ps.projX[i]
		for j := 0; j < ps.np; j++ {
			p := ps.pAxis.Coord(j)
			ps.data[i*ps.np+j] = px * norm * math.Exp(-p*p/2)
		}
	}
}

// Clone copies the mesh including the density and cached projections.
func (ps *PhaseSpace) Clone() *PhaseSpace {
	c := *ps
	c.data = make([]float64, len(ps.data))
	copy(c.data, ps.data)
	c.projX = make([]float64, len(ps.projX))
	copy(c.projX, ps.projX)
	c.projY = make([]float64, len(ps.projY))
	copy(c.projY, ps.projY)
	return &c
}

// SetData replaces the density buffer contents. The source must match
// the mesh size.
func (ps *PhaseSpace) SetData(data []float64) error {
	if len(data) != len(ps.data) {
		return fmt.Errorf("data size %d does not match mesh %dx%d", len(data), ps.nq, ps.np)
	}
	copy(ps.data, data)
	return nil
}

// Max returns the largest density sample.
func (ps *PhaseSpace) Max() float64 {
	return floats.Max(ps.data)
}

// IsFinite reports whether the density is free of NaN and Inf.
func (ps *PhaseSpace) IsFinite() bool {
	for _, v := range ps.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
