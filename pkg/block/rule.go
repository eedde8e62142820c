package block

import (
	"strings"
	"time"
)

// Rule holds every active restriction for one canonical item id. A rule
// that carries no restriction is never retained in the store; emptiness is
// checked after every mutation, prune, and listing.
type Rule struct {
	// ItemID is the canonical item identifier. Rule identity; exactly one
	// rule exists per id.
	ItemID string

	// GlobalExpiry, when non-zero, blocks the item for everyone until this
	// instant.
	GlobalExpiry time.Time

	// WipeFlag blocks the item for everyone until the next session reset.
	// It is cleared only by the reset signal, never by time.
	WipeFlag bool

	// PlayerExpiry blocks the item per participant until the mapped
	// instant.
	PlayerExpiry map[uint64]time.Time
}

// CanonicalItemID normalizes an item identifier for use as a rule key.
// Item ids are case-insensitive.
func CanonicalItemID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// newRule creates an empty rule for an item.
func newRule(itemID string) *Rule {
	return &Rule{
		ItemID:       itemID,
		PlayerExpiry: make(map[uint64]time.Time),
	}
}

// clone returns a deep copy. The store hands out clones so callers can
// never mutate a rule another reader is observing.
func (r *Rule) clone() *Rule {
	c := &Rule{
		ItemID:       r.ItemID,
		GlobalExpiry: r.GlobalExpiry,
		WipeFlag:     r.WipeFlag,
		PlayerExpiry: make(map[uint64]time.Time, len(r.PlayerExpiry)),
	}
	for id, exp := range r.PlayerExpiry {
		c.PlayerExpiry[id] = exp
	}
	return c
}

// prune clears the global expiry if it is at or before now and drops every
// per-participant entry at or before now. WipeFlag is untouched. Reports
// whether anything was removed.
func (r *Rule) prune(now time.Time) bool {
	changed := false
	if !r.GlobalExpiry.IsZero() && !r.GlobalExpiry.After(now) {
		r.GlobalExpiry = time.Time{}
		changed = true
	}
	for id, exp := range r.PlayerExpiry {
		if !exp.After(now) {
			delete(r.PlayerExpiry, id)
			changed = true
		}
	}
	return changed
}

// empty reports whether the rule carries no restriction at all. Expired
// fields count as restrictions until pruned; callers prune first.
func (r *Rule) empty() bool {
	return r.GlobalExpiry.IsZero() && !r.WipeFlag && len(r.PlayerExpiry) == 0
}

// Active reports whether at least one restriction is live at now.
func (r *Rule) Active(now time.Time) bool {
	if r.GlobalExpiry.After(now) {
		return true
	}
	if r.WipeFlag {
		return true
	}
	for _, exp := range r.PlayerExpiry {
		if exp.After(now) {
			return true
		}
	}
	return false
}
