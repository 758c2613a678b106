// Package engine runs the operator-splitting evolution loop over the
// phase-space mesh.
package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vfpsim/internal/field"
	"github.com/san-kum/vfpsim/internal/grid"
	"github.com/san-kum/vfpsim/internal/maps"
)

// WakeKicker is the state-dependent kick: its displacement table
// follows the charge profile.
type WakeKicker interface {
	maps.Map
	Force() []float64
}

// Snapshot is the state handed to observers at every output step.
// Slices are owned by the engine and only valid during the callback.
type Snapshot struct {
	Step     int
	Time     float64 // in synchrotron periods
	Mesh     *grid.PhaseSpace
	XProj    []float64
	YProj    []float64
	Integral float64
	SigmaQ   float64
	SigmaP   float64
	Wake     []float64 // nil without a wake kick
	CSRPower float64
	Tracers  []grid.Position
}

// Observer consumes snapshots. Errors are collected and reported but
// do not stop the run.
type Observer interface {
	OnSnapshot(s *Snapshot) error
}

// Simulator owns the top-level objects for the duration of a run and
// applies the split steps in their fixed order.
type Simulator struct {
	Mesh  *grid.PhaseSpace
	Field *field.ElectricField // nil without collective effects

	// split steps in application order; Wake and Rotation2 may be
	// absent, the others are required
	Wake      maps.Map
	WakeKick  WakeKicker // same map as Wake when state dependent
	Rotation1 maps.Map
	Rotation2 maps.Map
	FP        maps.Map

	Tracers []grid.Position

	StepsPerPeriod int
	OutStep        int
	Renormalize    int
	CutoffFreq     float64

	observers  []Observer
	emitErrors []error
}

func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// EmitErrors returns the non-fatal snapshot-emission errors collected
// during the run.
func (s *Simulator) EmitErrors() []error { return s.emitErrors }

// Run advances the mesh by totalSteps operator-splitting steps,
// emitting snapshots every OutStep steps and a final one after the
// loop. Cancellation is checked between steps only.
func (s *Simulator) Run(ctx context.Context, totalSteps int) error {
	s.Mesh.UpdateXProjection()
	s.Mesh.Integral()
	s.Mesh.UpdateYProjection()
	s.Mesh.Variance(1)

	for i := 0; i < totalSteps; i++ {
		select {
		case <-ctx.Done():
			s.emit(i)
			return ctx.Err()
		default:
		}

		if s.WakeKick != nil {
			if err := s.WakeKick.Update(); err != nil {
				return fmt.Errorf("wake update at step %d: %w", i, err)
			}
		}
		if s.Renormalize > 0 && i%s.Renormalize == 0 {
			s.Mesh.Normalize()
		} else {
			s.Mesh.Integral()
		}
		if v := s.Mesh.CachedIntegral(); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("step %d: %w", i, ErrNumerical)
		}

		if s.OutStep > 0 && i%s.OutStep == 0 {
			s.emit(i)
		}

		if s.Wake != nil {
			s.Wake.Apply()
			s.Wake.ApplyTo(s.Tracers)
		}
		s.Rotation1.Apply()
		s.Rotation1.ApplyTo(s.Tracers)
		if s.Rotation2 != nil {
			s.Rotation2.Apply()
			s.Rotation2.ApplyTo(s.Tracers)
		}
		s.FP.Apply()
		s.FP.ApplyTo(s.Tracers)

		s.Mesh.UpdateXProjection()
	}

	// final snapshot with the same preparation as in-loop ones
	if s.WakeKick != nil {
		if err := s.WakeKick.Update(); err != nil {
			return fmt.Errorf("final wake update: %w", err)
		}
	}
	if s.Renormalize > 0 {
		s.Mesh.Normalize()
	} else {
		s.Mesh.Integral()
	}
	if v := s.Mesh.CachedIntegral(); math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("final state: %w", ErrNumerical)
	}
	s.emit(totalSteps)
	return nil
}

func (s *Simulator) emit(step int) {
	s.Mesh.Variance(0)
	s.Mesh.UpdateYProjection()
	s.Mesh.Variance(1)

	snap := &Snapshot{
		Step:     step,
		Time:     float64(step) / float64(s.StepsPerPeriod),
		Mesh:     s.Mesh,
		XProj:    s.Mesh.XProjection(),
		YProj:    s.Mesh.YProjection(),
		Integral: s.Mesh.CachedIntegral(),
		SigmaQ:   math.Sqrt(s.Mesh.Variance(0)),
		SigmaP:   math.Sqrt(s.Mesh.Variance(1)),
		Tracers:  s.Tracers,
	}
	if s.Field != nil {
		snap.CSRPower = s.Field.UpdateCSR(s.CutoffFreq)
	}
	if s.WakeKick != nil {
		snap.Wake = s.WakeKick.Force()
	}
	for _, o := range s.observers {
		if err := o.OnSnapshot(snap); err != nil {
			s.emitErrors = append(s.emitErrors, fmt.Errorf("snapshot at step %d: %w", step, err))
		}
	}
}
