package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/vfpsim/internal/constants"
	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/maps"
)

// ErrParse indicates a malformed or contradictory configuration.
var ErrParse = errors.New("config: invalid parameters")

// Params are the dimensionless engine parameters derived from the
// physical machine description.
type Params struct {
	QMin, QMax float64
	PMin, PMax float64

	F0       float64 // isomagnetic revolution frequency
	FRev     float64
	Isoscale float64 // f_rev/f0, <= 1
	RBend    float64

	FS         float64 // synchrotron frequency, isomagnetic ring
	FSUnscaled float64
	Alpha0     float64
	Alpha1     float64
	Alpha2     float64

	BunchLength  float64 // natural RMS sigma_0 [m]
	EnergySpread float64 // absolute dE [eV]
	Charge       float64 // Q_b [C-equivalent, I_b/f_rev]
	CurrentScal  float64 // I_b/isoscale

	Angle          float64 // per-step rotation [rad]
	Dt             float64
	RevolutionPart float64 // f0*dt
	EpsilonFP      float64 // 2 dt/t_d
	TSyncUnscaled  float64
	TotalSteps     int

	FMax           float64 // impedance grid top frequency
	Shield         float64
	ShieldHalf     float64
	CSRStrength    float64
	ThresholdI     float64
	RotationOffset float64
}

// Derive validates the configuration and converts it into engine
// parameters. The synchrotron frequency and alpha0 are mutually
// exclusive: a negative SyncFreq selects the alpha0 branch, both
// given positive is an error.
func (c *Config) Derive() (*Params, error) {
	if c.GridSize < 2 {
		return nil, fmt.Errorf("%w: grid size %d", ErrParse, c.GridSize)
	}
	if !grid.ValidOrder(c.InterpolationOrder) {
		return nil, fmt.Errorf("%w: interpolation order %d", ErrParse, c.InterpolationOrder)
	}
	if c.Derivation != 3 && c.Derivation != 5 {
		return nil, fmt.Errorf("%w: derivation stencil %d (want 3 or 5)", ErrParse, c.Derivation)
	}
	if c.Steps < 1 {
		return nil, fmt.Errorf("%w: steps per period %d", ErrParse, c.Steps)
	}
	if c.BeamEnergy <= 0 || c.RFVoltage <= 0 || c.HarmonicNumber <= 0 ||
		c.RevolutionFrequency <= 0 || c.EnergySpread <= 0 {
		return nil, fmt.Errorf("%w: machine parameters must be positive", ErrParse)
	}
	if c.SyncFreq > 0 && c.Alpha0 > 0 {
		return nil, fmt.Errorf("%w: sync_freq and alpha0 are mutually exclusive", ErrParse)
	}
	switch c.RotationType {
	case RotationOnTheFly, RotationPrecomputed, RotationSplit:
	default:
		return nil, fmt.Errorf("%w: rotation type %q", ErrParse, c.RotationType)
	}

	p := &Params{
		FRev:         c.RevolutionFrequency,
		Alpha1:       c.Alpha1,
		Alpha2:       c.Alpha2,
		EnergySpread: c.EnergySpread * c.BeamEnergy,
	}

	if c.BendingRadius > 0 {
		p.RBend = c.BendingRadius
		p.F0 = constants.C / (2 * math.Pi * p.RBend)
	} else {
		p.RBend = constants.C / (2 * math.Pi * c.RevolutionFrequency)
		p.F0 = c.RevolutionFrequency
	}
	p.Isoscale = c.RevolutionFrequency / p.F0

	// positive f_s is used directly, negative selects alpha0
	if c.SyncFreq < 0 {
		if c.Alpha0 <= 0 {
			return nil, fmt.Errorf("%w: need either sync_freq > 0 or alpha0 > 0", ErrParse)
		}
		p.Alpha0 = c.Alpha0
		p.FSUnscaled = c.RevolutionFrequency *
			math.Sqrt(c.Alpha0*c.HarmonicNumber*c.RFVoltage/(2*math.Pi*c.BeamEnergy))
	} else {
		p.FSUnscaled = c.SyncFreq
		r := c.SyncFreq / c.RevolutionFrequency
		p.Alpha0 = 2 * math.Pi * c.BeamEnergy / (c.HarmonicNumber * c.RFVoltage) * r * r
	}
	p.FS = p.FSUnscaled / p.Isoscale
	p.TSyncUnscaled = 1 / p.FSUnscaled

	hScaled := p.Isoscale * c.HarmonicNumber
	p.BunchLength = constants.C * p.EnergySpread / hScaled /
		(p.F0 * p.F0) / c.RFVoltage * p.FS
	p.Charge = c.BunchCurrent / c.RevolutionFrequency
	p.CurrentScal = c.BunchCurrent / p.Isoscale

	p.Dt = 1 / (p.FS * float64(c.Steps))
	p.Angle = 2 * math.Pi / float64(c.Steps)
	p.RevolutionPart = p.F0 * p.Dt
	p.TotalSteps = int(float64(c.Steps) * c.Rotations)

	if c.DampingTime > 0 {
		td := p.Isoscale * c.DampingTime
		p.EpsilonFP = 2 / (p.FS * td * float64(c.Steps))
	}

	pqHalf := c.PhaseSpaceSize / 2
	qCenter := -c.ShiftX * c.PhaseSpaceSize / float64(c.GridSize-1)
	pCenter := -c.ShiftY * c.PhaseSpaceSize / float64(c.GridSize-1)
	p.QMin = qCenter - pqHalf
	p.QMax = qCenter + pqHalf
	p.PMin = pCenter - pqHalf
	p.PMax = pCenter + pqHalf

	p.FMax = float64(c.GridSize) * constants.C / (2 * p.QMax * p.BunchLength)

	if c.VacuumGap != 0 {
		if c.VacuumGap > 0 {
			p.Shield = p.BunchLength * math.Sqrt(p.RBend) * math.Pow(c.VacuumGap, -1.5)
			p.ShieldHalf = p.BunchLength * math.Sqrt(p.RBend) * math.Pow(c.VacuumGap/2, -1.5)
		}
		iNorm := constants.IAlfven / constants.ElectronMassEV * 2 * math.Pi *
			math.Pow(p.EnergySpread*p.FS/p.F0, 2) / c.RFVoltage / hScaled *
			math.Cbrt(p.BunchLength/p.RBend)
		p.ThresholdI = iNorm * (0.5 + 0.34*p.Shield)
		p.CSRStrength = p.CurrentScal / iNorm
	}

	p.RotationOffset = math.Tan(p.Angle) * float64(c.GridSize) / 2
	if p.RotationOffset >= 1 && !c.Force {
		return nil, fmt.Errorf("%w: rotation offset %.2f per step (reduce dt or pass --force)",
			maps.ErrUnstableParameters, p.RotationOffset)
	}

	return p, nil
}
