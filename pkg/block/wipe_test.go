package block

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestWipeHandler_OnWipe(t *testing.T) {
	store := NewStore()
	store.Upsert("rocket.warhead", func(r *Rule) { r.WipeFlag = true })
	store.Upsert("rifle.ak", func(r *Rule) {
		r.WipeFlag = true
		r.GlobalExpiry = testNow.Add(time.Hour)
	})
	store.Upsert("metal.facemask", func(r *Rule) {
		r.PlayerExpiry[42] = testNow.Add(time.Hour)
	})

	h := NewWipeHandler(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if cleared := h.OnWipe(); cleared != 2 {
		t.Errorf("expected 2 flags cleared, got %d", cleared)
	}

	// Timed restrictions survive the reset; the flag-only rule is gone.
	if _, ok := store.Get("rocket.warhead"); ok {
		t.Error("flag-only rule must be removed by the reset")
	}
	if r, ok := store.Get("rifle.ak"); !ok || r.GlobalExpiry.IsZero() {
		t.Error("timed global restriction must survive the reset")
	}
	if _, ok := store.Get("metal.facemask"); !ok {
		t.Error("participant restriction must survive the reset")
	}

	// A reset with nothing wipe-scoped is a no-op.
	if cleared := h.OnWipe(); cleared != 0 {
		t.Errorf("expected idempotent reset, got %d", cleared)
	}
}
