package block

import (
	"sort"
	"time"
)

// ParticipantEntry is one per-participant restriction in a listing.
type ParticipantEntry struct {
	// ParticipantID is the restricted participant.
	ParticipantID uint64

	// Remaining is the time left on the restriction at the snapshot
	// instant.
	Remaining time.Duration
}

// Snapshot is one item's entry in a block listing: the canonical id, its
// display label, and the remaining time per active scope.
type Snapshot struct {
	// ItemID is the canonical item id.
	ItemID string

	// DisplayName is the catalog label for the item.
	DisplayName string

	// GlobalRemaining is the time left on the everyone-block. Zero when no
	// timed global block is active.
	GlobalRemaining time.Duration

	// Wipe reports an until-reset block.
	Wipe bool

	// Participants lists active per-participant restrictions, sorted by id.
	Participants []ParticipantEntry
}

// snapshotRule builds a listing entry from an already-pruned rule.
func snapshotRule(r *Rule, items ItemResolver, now time.Time) Snapshot {
	snap := Snapshot{
		ItemID:      r.ItemID,
		DisplayName: r.ItemID,
		Wipe:        r.WipeFlag,
	}
	if items != nil {
		snap.DisplayName = items.DisplayName(r.ItemID)
	}
	if r.GlobalExpiry.After(now) {
		snap.GlobalRemaining = r.GlobalExpiry.Sub(now)
	}
	for id, exp := range r.PlayerExpiry {
		if exp.After(now) {
			snap.Participants = append(snap.Participants, ParticipantEntry{
				ParticipantID: id,
				Remaining:     exp.Sub(now),
			})
		}
	}
	sort.Slice(snap.Participants, func(i, j int) bool {
		return snap.Participants[i].ParticipantID < snap.Participants[j].ParticipantID
	})
	return snap
}
