// Package config holds the run configuration and the derivation of
// engine parameters from the physical machine description.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridSize       = 256
	DefaultPhaseSpaceSize = 12.0
	DefaultSteps          = 4000
	DefaultRotations      = 5.0
	DefaultOutStep        = 100
	DefaultPadding        = 2
	DefaultOrder          = 3
)

// Rotation strategies.
const (
	RotationOnTheFly    = "onthefly"
	RotationPrecomputed = "precomputed"
	RotationSplit       = "split"
)

type Config struct {
	// numerics
	GridSize           int     `yaml:"grid_size"`
	PhaseSpaceSize     float64 `yaml:"phase_space_size"` // full width in sigma units
	ShiftX             float64 `yaml:"shift_x"`
	ShiftY             float64 `yaml:"shift_y"`
	Steps              int     `yaml:"steps"` // per synchrotron period
	Rotations          float64 `yaml:"rotations"`
	OutStep            int     `yaml:"outstep"`
	Padding            int     `yaml:"padding"`
	Renormalize        int     `yaml:"renormalize"`
	InterpolationOrder int     `yaml:"interpolation"`
	Clamp              bool    `yaml:"clamp"`
	RotationType       string  `yaml:"rotation_type"`
	Derivation         int     `yaml:"derivation"` // FP stencil width, 3 or 5
	HaissinskiIter     int     `yaml:"haissinski"`
	StartZoom          float64 `yaml:"start_zoom"`

	// physical
	BeamEnergy          float64 `yaml:"energy"`       // [eV]
	SyncFreq            float64 `yaml:"sync_freq"`    // [Hz], negative selects alpha0
	Alpha0              float64 `yaml:"alpha0"`
	Alpha1              float64 `yaml:"alpha1"`
	Alpha2              float64 `yaml:"alpha2"`
	HarmonicNumber      float64 `yaml:"harmonic"`
	RFVoltage           float64 `yaml:"rf_voltage"`   // [V]
	RevolutionFrequency float64 `yaml:"f_rev"`        // [Hz]
	BendingRadius       float64 `yaml:"bend_radius"`  // [m], 0 derives from f_rev
	BunchCurrent        float64 `yaml:"current"`      // [A]
	DampingTime         float64 `yaml:"damping_time"` // [s]
	EnergySpread        float64 `yaml:"energy_spread"`

	// collective
	VacuumGap          float64 `yaml:"gap"` // [m], 0 disables the wake kick
	WallConductivity   float64 `yaml:"wall_conductivity"`
	WallSusceptibility float64 `yaml:"wall_susceptibility"`
	CollimatorRadius   float64 `yaml:"collimator_radius"`
	CutoffFrequency    float64 `yaml:"cutoff_frequency"`
	ImpedanceFile      string  `yaml:"impedance_file"`
	WakeFile           string  `yaml:"wake_file"`

	// io
	SavePhaseSpace bool   `yaml:"save_phase_space"`
	InputFile     string `yaml:"input_file"`
	StartDistStep int    `yaml:"start_dist_step"`
	OutputFile    string `yaml:"output_file"`
	TrackingFile  string `yaml:"tracking_file"`
	Force         bool   `yaml:"force"`
	Verbose       bool   `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:           DefaultGridSize,
		PhaseSpaceSize:     DefaultPhaseSpaceSize,
		Steps:              DefaultSteps,
		Rotations:          DefaultRotations,
		OutStep:            DefaultOutStep,
		Padding:            DefaultPadding,
		InterpolationOrder: DefaultOrder,
		RotationType:       RotationPrecomputed,
		Derivation:         3,
		StartZoom:          1,

		BeamEnergy:          1.3e9,
		SyncFreq:            30.0e3,
		Alpha0:              -1,
		HarmonicNumber:      184,
		RFVoltage:           1.0e6,
		RevolutionFrequency: 2.7159e6,
		BunchCurrent:        1.0e-3,
		DampingTime:         10.0e-3,
		EnergySpread:        4.7e-4,

		VacuumGap: 32e-3,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
