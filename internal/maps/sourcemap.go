package maps

import (
	"errors"
	"fmt"

	"github.com/san-kum/vfpsim/internal/compute"
	"github.com/san-kum/vfpsim/internal/grid"
)

// Domain errors raised at map construction. Apply itself is
// infallible; everything is validated before the first step.
var (
	// ErrInvalidGeometry indicates mismatched mesh sizes.
	ErrInvalidGeometry = errors.New("maps: mesh geometry mismatch")

	// ErrUnstableParameters indicates coefficients outside the
	// stability region of the scheme.
	ErrUnstableParameters = errors.New("maps: parameters outside stability region")
)

// Map is a linear transport step of the operator splitting. Apply
// moves density from the input to the output mesh, ApplyTo moves
// tracer particles through the same transformation, and Update
// refreshes state-dependent coefficients (a no-op for stationary
// maps).
type Map interface {
	Apply()
	ApplyTo(tracers []grid.Position)
	Update() error
}

// SourceMap holds the precomputed stencil table shared by all
// table-driven transport maps: for each output cell, ip contributions
// of (input index, weight).
type SourceMap struct {
	in, out *grid.PhaseSpace
	nq, np  int
	ip      int
	clamp   bool
	weights []compute.Contribution
	backend compute.Backend
}

func newSourceMap(in, out *grid.PhaseSpace, ip int, clamp bool, backend compute.Backend) (*SourceMap, error) {
	if in.NQ() != out.NQ() || in.NP() != out.NP() {
		return nil, fmt.Errorf("%w: in %dx%d, out %dx%d",
			ErrInvalidGeometry, in.NQ(), in.NP(), out.NQ(), out.NP())
	}
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &SourceMap{
		in:      in,
		out:     out,
		nq:      in.NQ(),
		np:      in.NP(),
		ip:      ip,
		clamp:   clamp,
		weights: make([]compute.Contribution, ip*in.NQ()*in.NP()),
		backend: backend,
	}, nil
}

func (m *SourceMap) In() *grid.PhaseSpace  { return m.in }
func (m *SourceMap) Out() *grid.PhaseSpace { return m.out }

// Apply computes out[k] = sum w_{k,s} * in[idx_{k,s}] for every
// output cell.
func (m *SourceMap) Apply() {
	m.backend.ApplyMap(m.out.Data(), m.in.Data(), m.weights, m.ip, m.clamp)
}

// Update is a no-op for stationary maps.
func (m *SourceMap) Update() error { return nil }

// Weights exposes the stencil table for inspection.
func (m *SourceMap) Weights() []compute.Contribution { return m.weights }

func (m *SourceMap) StencilPoints() int { return m.ip }

// Identity passes the density through unchanged. It stands in for
// disabled operator-splitting steps so the loop structure stays
// uniform.
type Identity struct {
	*SourceMap
}

func NewIdentity(in, out *grid.PhaseSpace, backend compute.Backend) (*Identity, error) {
	sm, err := newSourceMap(in, out, 1, false, backend)
	if err != nil {
		return nil, err
	}
	for k := range sm.weights {
		sm.weights[k] = compute.Contribution{Src: uint32(k), Weight: 1}
	}
	return &Identity{SourceMap: sm}, nil
}

func (m *Identity) ApplyTo(tracers []grid.Position) {}
