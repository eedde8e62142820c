package block

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"
)

// fakeCatalog resolves a fixed set of item ids and display names.
type fakeCatalog struct {
	names map[string]string // id -> display name
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{names: map[string]string{
		"rifle.ak":       "Assault Rifle",
		"metal.facemask": "Metal Facemask",
		"rocket.warhead": "Rocket Warhead",
	}}
}

func (f *fakeCatalog) Resolve(token string) (string, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	if _, ok := f.names[tok]; ok {
		return tok, nil
	}
	for id, name := range f.names {
		if strings.Contains(strings.ToLower(name), tok) {
			return id, nil
		}
	}
	return "", fmt.Errorf("no such item %q", token)
}

func (f *fakeCatalog) DisplayName(id string) string {
	if name, ok := f.names[id]; ok {
		return name
	}
	return id
}

// fakeRoster resolves numeric tokens and a fixed set of names.
type fakeRoster struct {
	byName map[string]uint64
}

func newFakeRoster() *fakeRoster {
	return &fakeRoster{byName: map[string]uint64{"alice": 42, "bob": 43}}
}

func (f *fakeRoster) Resolve(token string) (uint64, error) {
	if id, err := strconv.ParseUint(token, 10, 64); err == nil {
		return id, nil
	}
	if id, ok := f.byName[strings.ToLower(token)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("no such participant %q", token)
}

func newTestMutator(store *Store) *Mutator {
	return NewMutator(store, newFakeCatalog(), newFakeRoster(), func() time.Time { return testNow })
}

func TestMutator_ApplyGlobalBlock(t *testing.T) {
	store := NewStore()
	m := newTestMutator(store)

	got, err := m.ApplyBlock("rifle.ak", "2h", "global", "")
	if err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}
	if got.Scope.Kind != ScopeGlobal {
		t.Errorf("expected global scope, got %v", got.Scope.Kind)
	}
	if !got.Expiry.Equal(testNow.Add(2 * time.Hour)) {
		t.Errorf("expected expiry %v, got %v", testNow.Add(2*time.Hour), got.Expiry)
	}

	r, ok := store.Get("rifle.ak")
	if !ok {
		t.Fatal("expected rule created")
	}
	if !r.GlobalExpiry.Equal(testNow.Add(2 * time.Hour)) {
		t.Errorf("expected global expiry set, got %v", r.GlobalExpiry)
	}
}

func TestMutator_ApplyGlobalBlockClearsWipeFlag(t *testing.T) {
	store := NewStore()
	store.Upsert("rifle.ak", func(r *Rule) {
		r.WipeFlag = true
		r.PlayerExpiry[42] = testNow.Add(time.Hour)
	})
	m := newTestMutator(store)

	if _, err := m.ApplyBlock("rifle.ak", "2h", "global", ""); err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}

	r, _ := store.Get("rifle.ak")
	if r.WipeFlag {
		t.Error("a timed global block must clear the wipe flag")
	}
	if _, ok := r.PlayerExpiry[42]; !ok {
		t.Error("per-participant entries must be untouched")
	}
}

func TestMutator_ApplyWipeBlock(t *testing.T) {
	store := NewStore()
	store.Upsert("rocket.warhead", func(r *Rule) {
		r.GlobalExpiry = testNow.Add(time.Hour)
	})
	m := newTestMutator(store)

	got, err := m.ApplyBlock("rocket.warhead", "wipe", "global", "")
	if err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}
	// A wipe duration forces the wipe-global scope.
	if got.Scope.Kind != ScopeWipeGlobal {
		t.Errorf("expected wipe scope, got %v", got.Scope.Kind)
	}

	r, _ := store.Get("rocket.warhead")
	if !r.WipeFlag {
		t.Error("expected wipe flag set")
	}
	if !r.GlobalExpiry.IsZero() {
		t.Error("a wipe block must clear the timed global expiry")
	}
}

func TestMutator_ApplyParticipantBlock(t *testing.T) {
	store := NewStore()
	m := newTestMutator(store)

	got, err := m.ApplyBlock("metal.facemask", "1d", "participant", "42")
	if err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}
	if got.Scope.Kind != ScopeParticipant || got.Scope.ParticipantID != 42 {
		t.Errorf("expected participant 42, got %+v", got.Scope)
	}

	r, _ := store.Get("metal.facemask")
	if exp, ok := r.PlayerExpiry[42]; !ok || !exp.Equal(testNow.Add(24*time.Hour)) {
		t.Errorf("expected participant expiry at %v, got %v", testNow.Add(24*time.Hour), exp)
	}
}

func TestMutator_AlternateArgumentOrder(t *testing.T) {
	// (scope=participant, participantToken, duration) must produce the
	// same typed result as (duration, scope, participant).
	a := NewStore()
	b := NewStore()

	got1, err := newTestMutator(a).ApplyBlock("metal.facemask", "1d", "participant", "alice")
	if err != nil {
		t.Fatalf("canonical order failed: %v", err)
	}
	got2, err := newTestMutator(b).ApplyBlock("metal.facemask", "player", "alice", "1d")
	if err != nil {
		t.Fatalf("alternate order failed: %v", err)
	}

	if got1.Scope != got2.Scope || got1.Expiry != got2.Expiry {
		t.Errorf("argument orders disagree: %+v vs %+v", got1, got2)
	}
}

func TestMutator_ParticipantByName(t *testing.T) {
	store := NewStore()
	m := newTestMutator(store)

	got, err := m.ApplyBlock("rifle.ak", "90m", "participant", "Alice")
	if err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}
	if got.Scope.ParticipantID != 42 {
		t.Errorf("expected alice resolved to 42, got %d", got.Scope.ParticipantID)
	}
}

func TestMutator_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		item        string
		duration    string
		scope       string
		participant string
		want        error
	}{
		{"unknown item", "plasma.rifle", "2h", "global", "", ErrItemNotFound},
		{"unparsable duration", "rifle.ak", "soon", "global", "", ErrBadDuration},
		{"zero duration", "rifle.ak", "0", "global", "", ErrBadDuration},
		{"now duration", "rifle.ak", "now", "participant", "42", ErrBadDuration},
		{"unknown scope", "rifle.ak", "2h", "everywhere", "", ErrBadScope},
		{"unknown participant", "rifle.ak", "2h", "participant", "carol", ErrParticipantNotFound},
		{"missing participant", "rifle.ak", "2h", "participant", "", ErrParticipantNotFound},
		{"wipe for participant", "rifle.ak", "wipe", "participant", "42", ErrWipeForParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			m := newTestMutator(store)

			_, err := m.ApplyBlock(tt.item, tt.duration, tt.scope, tt.participant)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			// All-or-nothing: a failed mutation leaves no state behind.
			if store.Len() != 0 {
				t.Errorf("expected no rules after failed mutation, got %d", store.Len())
			}
		})
	}
}

func TestMutator_ClearGlobal(t *testing.T) {
	store := NewStore()
	store.Upsert("rifle.ak", func(r *Rule) {
		r.GlobalExpiry = testNow.Add(time.Hour)
		r.WipeFlag = true
		r.PlayerExpiry[42] = testNow.Add(time.Hour)
	})
	m := newTestMutator(store)

	if _, err := m.ClearBlock("rifle.ak", "all", ""); err != nil {
		t.Fatalf("ClearBlock failed: %v", err)
	}

	r, ok := store.Get("rifle.ak")
	if !ok {
		t.Fatal("rule with a participant entry must survive a global clear")
	}
	if !r.GlobalExpiry.IsZero() || r.WipeFlag {
		t.Error("global clear must drop both the timed expiry and the wipe flag")
	}
	if _, ok := r.PlayerExpiry[42]; !ok {
		t.Error("global clear must leave participant entries untouched")
	}
}

func TestMutator_ClearWipeOnly(t *testing.T) {
	store := NewStore()
	store.Upsert("rifle.ak", func(r *Rule) {
		r.GlobalExpiry = testNow.Add(time.Hour)
		r.WipeFlag = true
	})
	m := newTestMutator(store)

	if _, err := m.ClearBlock("rifle.ak", "wipe", ""); err != nil {
		t.Fatalf("ClearBlock failed: %v", err)
	}

	r, _ := store.Get("rifle.ak")
	if r.WipeFlag {
		t.Error("expected wipe flag cleared")
	}
	if r.GlobalExpiry.IsZero() {
		t.Error("wipe clear must leave the timed expiry untouched")
	}
}

func TestMutator_ClearParticipant(t *testing.T) {
	store := NewStore()
	store.Upsert("metal.facemask", func(r *Rule) {
		r.PlayerExpiry[42] = testNow.Add(time.Hour)
		r.PlayerExpiry[43] = testNow.Add(time.Hour)
	})
	m := newTestMutator(store)

	if _, err := m.ClearBlock("metal.facemask", "participant", "42"); err != nil {
		t.Fatalf("ClearBlock failed: %v", err)
	}

	r, _ := store.Get("metal.facemask")
	if _, ok := r.PlayerExpiry[42]; ok {
		t.Error("expected participant 42 entry removed")
	}
	if _, ok := r.PlayerExpiry[43]; !ok {
		t.Error("other participant entries must survive")
	}
}

func TestMutator_ClearRemovesEmptyRule(t *testing.T) {
	store := NewStore()
	store.Upsert("rocket.warhead", func(r *Rule) { r.WipeFlag = true })
	m := newTestMutator(store)

	if _, err := m.ClearBlock("rocket.warhead", "wipe", ""); err != nil {
		t.Fatalf("ClearBlock failed: %v", err)
	}
	if _, ok := store.Get("rocket.warhead"); ok {
		t.Error("rule left with no restriction must be removed after clearing")
	}
}

func TestMutator_ClearNoActiveRule(t *testing.T) {
	m := newTestMutator(NewStore())

	_, err := m.ClearBlock("rifle.ak", "all", "")
	if !errors.Is(err, ErrNoActiveRule) {
		t.Fatalf("expected ErrNoActiveRule, got %v", err)
	}
}

func TestMutator_ItemResolvedBySubstring(t *testing.T) {
	store := NewStore()
	m := newTestMutator(store)

	got, err := m.ApplyBlock("facemask", "2h", "global", "")
	if err != nil {
		t.Fatalf("ApplyBlock failed: %v", err)
	}
	if got.ItemID != "metal.facemask" {
		t.Errorf("expected substring match to metal.facemask, got %s", got.ItemID)
	}
}
