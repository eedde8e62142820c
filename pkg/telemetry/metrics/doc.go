// Package metrics provides Prometheus metrics for the block runtime.
//
// The Collector records evaluator checks, rule mutations, wipe resets, and
// the number of active rules. A disabled collector turns every record call
// into a cheap no-op so the evaluator hot path never pays for metrics that
// nobody scrapes.
package metrics
