package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockade-hq/stockade/pkg/block"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	expiry := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	if err := j.RecordMutation(ctx, 1, &block.Mutation{
		Op:     "block",
		ItemID: "rifle.ak",
		Scope:  block.Scope{Kind: block.ScopeGlobal},
		Expiry: expiry,
	}); err != nil {
		t.Fatalf("RecordMutation failed: %v", err)
	}
	if err := j.RecordMutation(ctx, 2, &block.Mutation{
		Op:     "clear",
		ItemID: "rifle.ak",
		Scope:  block.Scope{Kind: block.ScopeParticipant, ParticipantID: 42},
	}); err != nil {
		t.Fatalf("RecordMutation failed: %v", err)
	}

	events, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	byOp := make(map[string]Event, len(events))
	for _, e := range events {
		byOp[e.Op] = e
	}

	blocked := byOp["block"]
	if blocked.ActorID != 1 || blocked.ItemID != "rifle.ak" || blocked.Scope != "global" {
		t.Errorf("unexpected block event: %+v", blocked)
	}
	if !blocked.Expiry.Equal(expiry) {
		t.Errorf("expected expiry %v, got %v", expiry, blocked.Expiry)
	}
	if blocked.ID == "" {
		t.Error("expected a generated event id")
	}

	cleared := byOp["clear"]
	if cleared.ActorID != 2 || cleared.Scope != "participant" || cleared.ParticipantID != 42 {
		t.Errorf("unexpected clear event: %+v", cleared)
	}
	if !cleared.Expiry.IsZero() {
		t.Errorf("clears carry no expiry, got %v", cleared.Expiry)
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := j.RecordMutation(ctx, 1, &block.Mutation{
			Op:     "block",
			ItemID: "rifle.ak",
			Scope:  block.Scope{Kind: block.ScopeWipeGlobal},
		}); err != nil {
			t.Fatalf("RecordMutation failed: %v", err)
		}
	}

	events, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestJournal_RejectsNilMutation(t *testing.T) {
	j := newTestJournal(t)

	if err := j.RecordMutation(context.Background(), 1, nil); err == nil {
		t.Error("expected error for nil mutation")
	}
}

func TestJournal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	if err := first.RecordMutation(ctx, 1, &block.Mutation{
		Op:     "block",
		ItemID: "rifle.ak",
		Scope:  block.Scope{Kind: block.ScopeGlobal},
	}); err != nil {
		t.Fatalf("RecordMutation failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("failed to reopen journal: %v", err)
	}
	defer second.Close()

	events, err := second.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent after reopen failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 persisted event, got %d", len(events))
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty journal path")
	}
}
