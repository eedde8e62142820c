package block

import "errors"

// Sentinel errors returned by the mutator and command surface. Callers
// match them with errors.Is; validation failures never leave partial state
// behind.
var (
	// ErrItemNotFound means the item token did not resolve to a catalog id.
	ErrItemNotFound = errors.New("item not found")

	// ErrParticipantNotFound means the participant token did not resolve
	// to an active participant.
	ErrParticipantNotFound = errors.New("participant not found")

	// ErrBadDuration means the duration token was unparsable, or resolved
	// to a non-positive span for a timed scope.
	ErrBadDuration = errors.New("invalid duration")

	// ErrBadScope means the scope token named no known scope.
	ErrBadScope = errors.New("invalid scope")

	// ErrWipeForParticipant means a participant-scoped block was combined
	// with a "wipe" duration. The combination is contradictory and is
	// rejected outright rather than guessed at.
	ErrWipeForParticipant = errors.New("wipe duration cannot target a single participant")

	// ErrNoActiveRule means a clear operation referenced an item with no
	// rule at all.
	ErrNoActiveRule = errors.New("no active rule for item")

	// ErrPermissionDenied means the actor lacks the admin permission for
	// mutation or listing commands.
	ErrPermissionDenied = errors.New("permission denied")
)
