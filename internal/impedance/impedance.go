// Package impedance provides the coupling impedance models of the
// collective self-force: analytic CSR, wall and collimator spectra
// plus tabulated files, all on a shared uniform frequency grid with
// pointwise composition.
package impedance

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrIncompatible indicates two impedances on different frequency
// grids.
var ErrIncompatible = errors.New("impedance: frequency grids differ")

// Impedance is a complex spectrum Z(f) sampled on [0, fMax] with
// nFreqs points. Immutable after composition.
type Impedance struct {
	z    []complex128
	fMax float64
}

func newImpedance(n int, fMax float64) (*Impedance, error) {
	if n < 2 {
		return nil, fmt.Errorf("impedance needs at least 2 frequency samples, got %d", n)
	}
	if fMax <= 0 {
		return nil, fmt.Errorf("impedance fMax must be positive, got %g", fMax)
	}
	return &Impedance{z: make([]complex128, n), fMax: fMax}, nil
}

func (imp *Impedance) NFreqs() int          { return len(imp.z) }
func (imp *Impedance) FMax() float64        { return imp.fMax }
func (imp *Impedance) DeltaF() float64      { return imp.fMax / float64(len(imp.z)-1) }
func (imp *Impedance) At(k int) complex128  { return imp.z[k] }
func (imp *Impedance) Freq(k int) float64   { return float64(k) * imp.DeltaF() }
func (imp *Impedance) Values() []complex128 { return imp.z }

// Add composes another impedance pointwise. Both spectra must share
// the frequency grid.
func (imp *Impedance) Add(other *Impedance) error {
	if len(imp.z) != len(other.z) || imp.fMax != other.fMax {
		return fmt.Errorf("%w: %d@%g vs %d@%g",
			ErrIncompatible, len(imp.z), imp.fMax, len(other.z), other.fMax)
	}
	for k := range imp.z {
		imp.z[k] += other.z[k]
	}
	return nil
}

// FromFile loads a tabulated impedance of whitespace-separated
// (f, Re Z, Im Z) rows and resamples it onto the uniform grid by
// linear interpolation. Frequencies outside the table contribute
// zero.
func FromFile(path string, n int, fMax float64) (*Impedance, error) {
	imp, err := newImpedance(n, fMax)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fs []float64
	var zs []complex128
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: want three columns, got %d", path, line, len(fields))
		}
		var vals [3]float64
		for c := 0; c < 3; c++ {
			vals[c], err = strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
		}
		fs = append(fs, vals[0])
		zs = append(zs, complex(vals[1], vals[2]))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(fs) < 2 {
		return nil, fmt.Errorf("%s: impedance table needs at least 2 rows", path)
	}
	if !sort.Float64sAreSorted(fs) {
		return nil, fmt.Errorf("%s: impedance table frequencies must be ascending", path)
	}

	for k := range imp.z {
		fk := imp.Freq(k)
		if fk < fs[0] || fk > fs[len(fs)-1] {
			continue
		}
		i := sort.SearchFloat64s(fs, fk)
		if i == 0 {
			imp.z[k] = zs[0]
			continue
		}
		t := (fk - fs[i-1]) / (fs[i] - fs[i-1])
		imp.z[k] = zs[i-1] + complex(t, 0)*(zs[i]-zs[i-1])
	}
	return imp, nil
}
