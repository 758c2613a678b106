// Package field computes the collective electric field: the charge
// spectrum, the induced wake potential and the emitted CSR power.
package field

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/impedance"
)

// ElectricField owns the padded transform buffers tying the charge
// profile to the impedance. The padding suppresses the cyclic
// artefact of the DFT convolution so the wake at the bunch head is
// not contaminated by the tail.
type ElectricField struct {
	nq     int
	padded int
	imp    *impedance.Impedance

	spectrum []complex128 // charge spectrum on the padded grid
	wake     []float64
	csrPower float64

	wakeScaling float64
	csrScaling  float64
}

// New builds a field without bunch current: Update fills the charge
// spectrum, while the wake potential and the CSR power both stay zero.
func New(mesh *grid.PhaseSpace, imp *impedance.Impedance, revolutionPart float64) (*ElectricField, error) {
	return NewWithWake(mesh, imp, revolutionPart, 0, 1, 1, 0)
}

// NewWithWake additionally prepares the wake-potential scaling from
// bunch current, beam energy, relative energy spread and time step.
func NewWithWake(mesh *grid.PhaseSpace, imp *impedance.Impedance,
	revolutionPart, current, beamEnergy, sigmaE, dt float64) (*ElectricField, error) {
	nq := mesh.NQ()
	if imp.NFreqs() < nq {
		return nil, fmt.Errorf("impedance has %d frequency samples, mesh needs at least %d",
			imp.NFreqs(), nq)
	}
	f := &ElectricField{
		nq:       nq,
		padded:   imp.NFreqs(),
		imp:      imp,
		spectrum: make([]complex128, imp.NFreqs()),
		wake:     make([]float64, nq),
	}
	if current != 0 {
		// compound factor turning the convolution into a per-step
		// displacement in normalized p units; the sign makes a
		// resistive impedance drain energy from the bunch
		f.wakeScaling = -current * dt * float64(nq) / (beamEnergy * sigmaE)
	}
	f.csrScaling = revolutionPart * current * current / float64(imp.NFreqs())
	return f, nil
}

func (f *ElectricField) Padded() int { return f.padded }

// Update zero-pads the charge profile and refreshes its spectrum.
func (f *ElectricField) Update(xProjection []float64) {
	buf := make([]complex128, f.padded)
	for i := 0; i < f.nq && i < len(xProjection); i++ {
		buf[i] = complex(xProjection[i], 0)
	}
	copy(f.spectrum, fft.FFT(buf))
}

// Spectrum returns the padded charge spectrum of the last Update.
func (f *ElectricField) Spectrum() []complex128 { return f.spectrum }

// WakePotential computes the per-cell energy displacement induced by
// the current spectrum, in normalized p units per step.
func (f *ElectricField) WakePotential() []float64 {
	buf := make([]complex128, f.padded)
	for k := range buf {
		buf[k] = f.spectrum[k] * f.imp.At(k)
	}
	res := fft.IFFT(buf)
	for i := 0; i < f.nq; i++ {
		f.wake[i] = real(res[i]) * f.wakeScaling
	}
	return f.wake
}

// Wake returns the last computed wake potential.
func (f *ElectricField) Wake() []float64 { return f.wake }

// UpdateCSR recomputes the emitted CSR power with a detector cutoff
// at fc; fc <= 0 disables the high-pass filter.
func (f *ElectricField) UpdateCSR(fc float64) float64 {
	sum := 0.0
	for k := 1; k < f.padded; k++ {
		w := 1.0
		if fc > 0 {
			x := f.imp.Freq(k) / fc
			w = x * x / (1 + x*x)
		}
		a := cmplx.Abs(f.spectrum[k])
		sum += a * a * real(f.imp.At(k)) * w
	}
	f.csrPower = sum * f.csrScaling
	return f.csrPower
}

// CSRPower returns the last value computed by UpdateCSR.
func (f *ElectricField) CSRPower() float64 { return f.csrPower }
