// Package maps implements the transport maps of the operator
// splitting: precomputed (source index, weight) stencil tables that
// move density between two phase-space meshes.
//
// Stationary maps (Identity, RotationMap, RFKickMap, DriftMap,
// FokkerPlanckMap) build their table once at construction (RotationMap
// only in precomputed mode; on the fly it recomputes its weights on
// every Apply); the
// wake-dependent kicks rebuild theirs from the current charge profile
// on Update. Apply never fails, all validation happens up front.
//
// Every map also transports tracer particles through the same
// transformation via ApplyTo.
package maps
