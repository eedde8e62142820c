package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage.
// This is the default backend and keeps rules only for the lifetime of the
// process; a restart starts from an empty rule set.
//
// MemoryBackend is thread-safe and supports concurrent access using
// sync.RWMutex.
type MemoryBackend struct {
	// records is the last saved snapshot, keyed by item id.
	records map[string]*RuleRecord

	// mu protects access to records.
	mu sync.RWMutex
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: make(map[string]*RuleRecord),
	}
}

// Save persists the full rule snapshot, replacing the previous one.
func (m *MemoryBackend) Save(ctx context.Context, records []*RuleRecord) error {
	now := time.Now()
	next := make(map[string]*RuleRecord, len(records))
	for _, rec := range records {
		if rec == nil {
			return fmt.Errorf("record cannot be nil")
		}
		if rec.ItemID == "" {
			return fmt.Errorf("item id cannot be empty")
		}
		c := cloneRecord(rec)
		c.SavedAt = now
		next[c.ItemID] = c
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = next
	return nil
}

// Load retrieves the persisted rule snapshot.
func (m *MemoryBackend) Load(ctx context.Context) ([]*RuleRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*RuleRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

// Close releases any resources held by the backend.
func (m *MemoryBackend) Close() error {
	return nil
}

// Size returns the number of stored records.
// This is useful for monitoring and testing.
func (m *MemoryBackend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// cloneRecord deep-copies a record so callers and the backend never share
// the participant map.
func cloneRecord(rec *RuleRecord) *RuleRecord {
	c := &RuleRecord{
		ItemID:       rec.ItemID,
		GlobalExpiry: rec.GlobalExpiry,
		WipeFlag:     rec.WipeFlag,
		SavedAt:      rec.SavedAt,
	}
	if rec.PlayerExpiry != nil {
		c.PlayerExpiry = make(map[uint64]time.Time, len(rec.PlayerExpiry))
		for id, exp := range rec.PlayerExpiry {
			c.PlayerExpiry[id] = exp
		}
	}
	return c
}
