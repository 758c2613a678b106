package maps

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/field"
	"github.com/san-kum/vfpsim/internal/grid"
)

// WakePotentialMap kicks along p by the wake potential the electric
// field derives from the current charge profile and impedance.
// Update refreshes the field from the X projection and rebuilds the
// stencil table.
type WakePotentialMap struct {
	*KickMap
	field *field.ElectricField
}

func NewWakePotentialMap(in, out *grid.PhaseSpace, ef *field.ElectricField,
	order int, clamp bool, backend compute.Backend) (*WakePotentialMap, error) {
	km, err := newKickMap(in, out, KickAlongP, order, clamp, backend)
	if err != nil {
		return nil, err
	}
	return &WakePotentialMap{KickMap: km, field: ef}, nil
}

func (m *WakePotentialMap) Update() error {
	m.field.Update(m.in.XProjection())
	wake := m.field.WakePotential()
	dp := m.in.PAxis().Delta()
	for i := range m.offset {
		m.offset[i] = wake[i] / dp
	}
	m.rebuild()
	return nil
}

// WakeFunctionMap kicks along p by the convolution of the charge
// profile with a tabulated wake function read from file. The table
// holds (position, wake) pairs in normalized q units; it is resampled
// onto the doubled grid so every source-observer distance on the mesh
// is covered.
type WakeFunctionMap struct {
	*KickMap
	wakeFn []float64 // length 2*nq, offset k-nq in cells
	scale  float64
}

func NewWakeFunctionMap(in, out *grid.PhaseSpace, path string,
	beamEnergy, sigmaE, current, dt float64,
	order int, clamp bool, backend compute.Backend) (*WakeFunctionMap, error) {
	km, err := newKickMap(in, out, KickAlongP, order, clamp, backend)
	if err != nil {
		return nil, err
	}
	xs, ys, err := readWakeFile(path)
	if err != nil {
		return nil, err
	}
	n := in.NQ()
	qa := in.QAxis()
	wakeFn := make([]float64, 2*n)
	for k := range wakeFn {
		q := float64(k-n) * qa.Delta()
		wakeFn[k] = interpTable(xs, ys, q)
	}
	return &WakeFunctionMap{
		KickMap: km,
		wakeFn:  wakeFn,
		scale:   -current * dt / (beamEnergy * sigmaE),
	}, nil
}

func (m *WakeFunctionMap) Update() error {
	px := m.in.XProjection()
	dq := m.in.QAxis().Delta()
	dp := m.in.PAxis().Delta()
	n := m.nq
	for i := 0; i < n; i++ {
		sum := 0.0
		for x := 0; x < n; x++ {
			sum += px[x] * m.wakeFn[i-x+n]
		}
		m.offset[i] = m.scale * sum * dq / dp
	}
	m.rebuild()
	return nil
}

func readWakeFile(path string) ([]float64, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var xs, ys []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, nil, fmt.Errorf("%s:%d: want two columns, got %d", path, line, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(xs) < 2 {
		return nil, nil, fmt.Errorf("%s: wake table needs at least 2 rows", path)
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, nil, fmt.Errorf("%s: wake table positions must be ascending", path)
	}
	return xs, ys, nil
}

// interpTable linearly interpolates a sorted table, returning zero
// outside its range (no wake beyond the tabulated reach).
func interpTable(xs, ys []float64, x float64) float64 {
	if x < xs[0] || x > xs[len(xs)-1] {
		return 0
	}
	i := sort.SearchFloat64s(xs, x)
	if i == 0 {
		return ys[0]
	}
	if i >= len(xs) {
		return ys[len(ys)-1]
	}
	t := (x - xs[i-1]) / (xs[i] - xs[i-1])
	return (1-t)*ys[i-1] + t*ys[i]
}
