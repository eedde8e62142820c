package block

import (
	"fmt"
	"time"
)

// Mutator interprets block and unblock commands: it resolves item, scope,
// duration, and participant tokens to typed values, validates the
// combination, and applies the result to the store as one atomic rule
// replacement. Validation failures leave the store untouched.
type Mutator struct {
	store        *Store
	items        ItemResolver
	participants ParticipantResolver
	clock        func() time.Time
}

// NewMutator creates a mutator over the store using the external item and
// participant resolvers. A nil clock defaults to time.Now.
func NewMutator(store *Store, items ItemResolver, participants ParticipantResolver, clock func() time.Time) *Mutator {
	if clock == nil {
		clock = time.Now
	}
	return &Mutator{
		store:        store,
		items:        items,
		participants: participants,
		clock:        clock,
	}
}

// Mutation describes a successfully applied block or clear operation.
type Mutation struct {
	// Op is "block" or "clear".
	Op string

	// ItemID is the canonical item id the operation targeted.
	ItemID string

	// Scope is the typed scope the tokens resolved to.
	Scope Scope

	// Span is the applied span. Zero for wipe-scoped blocks and for clears.
	Span time.Duration

	// Expiry is the absolute instant the block runs until. Zero for
	// wipe-scoped blocks and for clears.
	Expiry time.Time
}

// ApplyBlock resolves and applies a block command.
//
// Two argument orders are accepted and produce identical typed results:
//
//	(durationToken, scopeToken[, participantToken])
//	(scopeToken=participant, participantToken[, durationToken])
//
// A "wipe" duration forces the scope to wipe-global unless the scope is
// participant, which is a hard validation error. Global and participant
// scopes require a strictly positive span; the "0"/"now" instant sentinel
// is rejected here even though the parser accepts it.
func (m *Mutator) ApplyBlock(itemToken, durationToken, scopeToken, participantToken string) (*Mutation, error) {
	itemID, err := m.resolveItem(itemToken)
	if err != nil {
		return nil, err
	}

	// Alternate order: the duration slot holds the participant scope word
	// and the scope slot holds the participant token.
	if isScopeToken(durationToken) {
		if kind, _ := parseScopeToken(durationToken); kind == ScopeParticipant {
			durationToken, scopeToken, participantToken = participantToken, durationToken, scopeToken
		}
	}

	kind, err := parseScopeToken(scopeToken)
	if err != nil {
		return nil, err
	}

	var dur Duration
	if kind != ScopeWipeGlobal {
		dur, err = ParseDuration(durationToken)
		if err != nil {
			return nil, err
		}
		if dur.Kind == DurationWipe {
			if kind == ScopeParticipant {
				return nil, ErrWipeForParticipant
			}
			kind = ScopeWipeGlobal
		}
	}

	scope := Scope{Kind: kind}
	if kind == ScopeParticipant {
		scope.ParticipantID, err = m.resolveParticipant(participantToken)
		if err != nil {
			return nil, err
		}
	}

	if kind != ScopeWipeGlobal && (dur.Kind != DurationSpan || dur.Span <= 0) {
		return nil, fmt.Errorf("%w: duration must be a positive span", ErrBadDuration)
	}

	now := m.clock()
	out := &Mutation{Op: "block", ItemID: itemID, Scope: scope}

	switch kind {
	case ScopeGlobal:
		out.Span = dur.Span
		out.Expiry = now.Add(dur.Span)
		m.store.Upsert(itemID, func(r *Rule) {
			r.GlobalExpiry = out.Expiry
			r.WipeFlag = false
		})
	case ScopeWipeGlobal:
		m.store.Upsert(itemID, func(r *Rule) {
			r.WipeFlag = true
			r.GlobalExpiry = time.Time{}
		})
	case ScopeParticipant:
		out.Span = dur.Span
		out.Expiry = now.Add(dur.Span)
		m.store.Upsert(itemID, func(r *Rule) {
			r.PlayerExpiry[scope.ParticipantID] = out.Expiry
		})
	}

	return out, nil
}

// ClearBlock resolves and applies a clear command.
//
// Scope tokens: "all"/"global" clears the global expiry and the wipe flag,
// "wipe" clears only the wipe flag, "participant" removes only that
// participant's entry. An empty scope token means "all". Fails with
// ErrNoActiveRule when the item has no rule.
func (m *Mutator) ClearBlock(itemToken, scopeToken, participantToken string) (*Mutation, error) {
	itemID, err := m.resolveItem(itemToken)
	if err != nil {
		return nil, err
	}

	kind, err := parseScopeToken(scopeToken)
	if err != nil {
		return nil, err
	}

	scope := Scope{Kind: kind}
	if kind == ScopeParticipant {
		scope.ParticipantID, err = m.resolveParticipant(participantToken)
		if err != nil {
			return nil, err
		}
	}

	if _, ok := m.store.Get(itemID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveRule, itemID)
	}

	m.store.Upsert(itemID, func(r *Rule) {
		switch kind {
		case ScopeGlobal:
			r.GlobalExpiry = time.Time{}
			r.WipeFlag = false
		case ScopeWipeGlobal:
			r.WipeFlag = false
		case ScopeParticipant:
			delete(r.PlayerExpiry, scope.ParticipantID)
		}
	})

	return &Mutation{Op: "clear", ItemID: itemID, Scope: scope}, nil
}

// resolveItem maps an item token to a canonical id via the catalog.
func (m *Mutator) resolveItem(token string) (string, error) {
	id, err := m.items.Resolve(token)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrItemNotFound, token)
	}
	return CanonicalItemID(id), nil
}

// resolveParticipant maps a participant token to its numeric id via the
// directory.
func (m *Mutator) resolveParticipant(token string) (uint64, error) {
	if token == "" {
		return 0, fmt.Errorf("%w: missing participant", ErrParticipantNotFound)
	}
	id, err := m.participants.Resolve(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParticipantNotFound, token)
	}
	return id, nil
}
