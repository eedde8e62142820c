// Package telemetry groups the observability layers of the Stockade
// runtime.
//
// Subpackages:
//
//   - logging: structured slog logger construction
//   - metrics: Prometheus metrics for checks, mutations, and the store
//   - health: liveness and readiness probes for the operational endpoint
//
// The block runtime treats all of these as optional: a nil collector
// records nothing and a missing health checker simply leaves the probe
// endpoints unmounted.
package telemetry
