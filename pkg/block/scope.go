package block

import (
	"fmt"
	"strings"
)

// ScopeKind identifies the breadth of participants a rule mutation affects.
type ScopeKind int

const (
	// ScopeGlobal blocks an item for everyone for a fixed span.
	ScopeGlobal ScopeKind = iota

	// ScopeParticipant blocks an item for one participant for a fixed span.
	ScopeParticipant

	// ScopeWipeGlobal blocks an item for everyone until the next session
	// reset, independent of the wall clock.
	ScopeWipeGlobal
)

// String returns the canonical scope token.
func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeParticipant:
		return "participant"
	case ScopeWipeGlobal:
		return "wipe"
	default:
		return fmt.Sprintf("scope(%d)", int(k))
	}
}

// Scope is the closed tagged variant produced once by the mutator's parsing
// stage and consumed as a typed value thereafter. ParticipantID is set only
// when Kind is ScopeParticipant.
type Scope struct {
	Kind          ScopeKind
	ParticipantID uint64
}

// parseScopeToken maps a scope token to its kind. An empty token defaults
// to global, which matches the common "/blockitem rifle.ak 2h" invocation.
func parseScopeToken(token string) (ScopeKind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "global", "all", "everyone":
		return ScopeGlobal, nil
	case "participant", "player", "user":
		return ScopeParticipant, nil
	case "wipe":
		return ScopeWipeGlobal, nil
	default:
		return ScopeGlobal, fmt.Errorf("%w: %q", ErrBadScope, token)
	}
}

// isScopeToken reports whether the token names a scope at all. Used to
// disambiguate the two accepted argument orders.
func isScopeToken(token string) bool {
	_, err := parseScopeToken(token)
	return token != "" && err == nil
}
