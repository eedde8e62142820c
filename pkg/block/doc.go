// Package block implements the item restriction core for Stockade.
//
// It owns the rule data model (timed global blocks, wipe-scoped blocks, and
// per-participant blocks keyed by canonical item id), the store that holds
// the rules, the evaluator consulted on every gameplay action, the mutator
// that interprets block/unblock commands, and the wipe lifecycle handler
// that reacts to session resets.
//
// The package is transport-agnostic: chat or console plumbing, the item
// catalog, the participant directory, and authorization are consumed
// through small interfaces and wired in by the host.
package block
