package block

import "time"

// Evaluator answers "is this item blocked for this participant right now".
// It is invoked synchronously on the host's per-action path, so the blocked
// path performs no mutation and no allocation: map lookups and time
// comparisons only.
type Evaluator struct {
	store *Store
}

// NewEvaluator creates an evaluator reading the given store.
func NewEvaluator(store *Store) *Evaluator {
	return &Evaluator{store: store}
}

// IsBlocked reports whether the item is blocked for the participant at now.
//
// Checks run cheapest-first and short-circuit: missing rule, then global
// expiry, then wipe flag, then the per-participant entry. When every check
// misses, the single rule is lazily pruned against now; that cleanup is an
// optimization on the cold path and never changes the outcome of the call
// that triggered it.
func (e *Evaluator) IsBlocked(itemID string, participantID uint64, now time.Time) bool {
	itemID = CanonicalItemID(itemID)
	s := e.store

	s.mu.RLock()
	r, ok := s.rules[itemID]
	if !ok {
		s.mu.RUnlock()
		return false
	}
	if r.GlobalExpiry.After(now) {
		s.mu.RUnlock()
		return true
	}
	if r.WipeFlag {
		s.mu.RUnlock()
		return true
	}
	if exp, ok := r.PlayerExpiry[participantID]; ok && exp.After(now) {
		s.mu.RUnlock()
		return true
	}

	// Not blocked. Anything left in the rule at this point is either an
	// expired timed entry or a restriction for somebody else; only bother
	// taking the write lock when there is something stale to drop.
	stale := !r.GlobalExpiry.IsZero()
	if !stale {
		if exp, ok := r.PlayerExpiry[participantID]; ok && !exp.After(now) {
			stale = true
		}
	}
	s.mu.RUnlock()

	if stale {
		s.pruneOne(itemID, now)
	}
	return false
}
