package storage

import (
	"context"
	"time"
)

// Backend defines the interface for block rule persistence.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Save persists the full rule snapshot, replacing whatever was stored
	// before. Returns error on failure.
	Save(ctx context.Context, records []*RuleRecord) error

	// Load retrieves the persisted rule snapshot. Returns an empty slice
	// when nothing has been saved. Returns error on system failure.
	Load(ctx context.Context) ([]*RuleRecord, error)

	// Close releases any resources held by the backend.
	// The backend should not be used after calling Close.
	Close() error
}

// RuleRecord is the persisted layout for one canonical item id.
type RuleRecord struct {
	// ItemID is the canonical item identifier.
	ItemID string `json:"item_id"`

	// GlobalExpiry is the absolute instant the everyone-block runs until.
	// Zero means no global block.
	GlobalExpiry time.Time `json:"global_expiry,omitempty"`

	// WipeFlag marks an until-reset block.
	WipeFlag bool `json:"wipe_flag,omitempty"`

	// PlayerExpiry maps participant id to the absolute instant their block
	// runs until.
	PlayerExpiry map[uint64]time.Time `json:"player_expiry,omitempty"`

	// SavedAt is when this record was last persisted. Diagnostics only.
	SavedAt time.Time `json:"saved_at"`
}
