// Package compute provides the execution backends for transport-map
// application.
//
// The engine is written against the Backend interface; the per-cell
// gather loop is data parallel and the CPU backend spreads it across
// worker goroutines with a serial path for small meshes. No OpenCL
// implementation is included: the CLBackend stub always reports
// unavailable and delegates to the CPU, and the registry falls back to
// the CPU:
//
//	backend := compute.GetBackend()
//	backend.ApplyMap(out, in, table, ip, clamp)
package compute
