package block

import (
	"sort"
	"sync"
	"time"
)

// Store owns the rule set: the mapping from canonical item id to Rule.
//
// Store is safe for concurrent use. Writers are serialized by a single
// RWMutex; every mutation replaces the whole rule under the write lock, so
// readers never observe a partially-updated rule. Mutation frequency is low
// (admin commands) while reads happen on the host's per-action path, which
// the lock strategy is tuned for.
type Store struct {
	mu    sync.RWMutex
	rules map[string]*Rule
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{
		rules: make(map[string]*Rule),
	}
}

// Get returns a copy of the rule for an item, or false if none exists.
// No side effects.
func (s *Store) Get(itemID string) (*Rule, bool) {
	itemID = CanonicalItemID(itemID)

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[itemID]
	if !ok {
		return nil, false
	}
	return r.clone(), true
}

// Upsert replaces the rule for an item as a single atomic unit. The rule is
// created lazily if absent; mutate receives a private copy and the result
// becomes visible to readers all at once. If the mutation leaves the rule
// with no restriction it is removed from the set instead.
func (s *Store) Upsert(itemID string, mutate func(*Rule)) {
	itemID = CanonicalItemID(itemID)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := newRule(itemID)
	if cur, ok := s.rules[itemID]; ok {
		next = cur.clone()
	}

	mutate(next)

	if next.empty() {
		delete(s.rules, itemID)
		return
	}
	s.rules[itemID] = next
}

// Remove deletes the rule for an item. No error if absent.
func (s *Store) Remove(itemID string) {
	itemID = CanonicalItemID(itemID)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rules, itemID)
}

// ListActive prunes the set against now and returns copies of every rule
// with at least one restriction still live, sorted by item id for stable
// listings.
func (s *Store) ListActive(now time.Time) []*Rule {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)

	active := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		active = append(active, r.clone())
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].ItemID < active[j].ItemID
	})
	return active
}

// Prune removes every expired timed entry and every rule left with no
// restriction. WipeFlag entries are untouched; only the reset signal clears
// those. Returns the number of rules removed entirely.
func (s *Store) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pruneLocked(now)
}

// pruneLocked prunes every rule. Caller must hold the write lock.
func (s *Store) pruneLocked(now time.Time) int {
	removed := 0
	for id, r := range s.rules {
		r.prune(now)
		if r.empty() {
			delete(s.rules, id)
			removed++
		}
	}
	return removed
}

// pruneOne lazily prunes a single rule, removing it if it becomes empty.
// Invoked from the evaluator's not-blocked path; strictly an optimization,
// the expiry comparisons themselves remain the ground truth.
func (s *Store) pruneOne(itemID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[itemID]
	if !ok {
		return
	}
	r.prune(now)
	if r.empty() {
		delete(s.rules, itemID)
	}
}

// ClearWipeFlags clears the wipe flag on every rule and drops rules left
// with no restriction. Returns the number of flags cleared. Idempotent: a
// second call with no intervening mutation clears nothing.
func (s *Store) ClearWipeFlags() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for id, r := range s.rules {
		if !r.WipeFlag {
			continue
		}
		r.WipeFlag = false
		cleared++
		if r.empty() {
			delete(s.rules, id)
		}
	}
	return cleared
}

// Snapshot returns copies of every rule, including ones whose timed entries
// have expired but not yet been pruned. Used by persistence.
func (s *Store) Snapshot() []*Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// Replace swaps the entire rule set for the given rules, dropping any that
// carry no restriction. Used at startup to install persisted state.
func (s *Store) Replace(rules []*Rule) {
	next := make(map[string]*Rule, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		c := r.clone()
		c.ItemID = CanonicalItemID(c.ItemID)
		if c.PlayerExpiry == nil {
			c.PlayerExpiry = make(map[uint64]time.Time)
		}
		if c.empty() {
			continue
		}
		next[c.ItemID] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = next
}

// Len returns the number of rules currently held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rules)
}
