package block

// Permission names consumed by the command surface and the gate. The
// authorization mechanism itself is external; only its boolean answer is
// consumed.
const (
	// PermAdmin gates every mutation and listing command.
	PermAdmin = "block.admin"

	// PermBypass exempts an actor from every block check the gate performs.
	PermBypass = "block.bypass"
)

// ItemResolver resolves human-readable item tokens to canonical item ids.
// Implementations resolve in order: exact canonical id, case-insensitive
// exact display-name match, case-insensitive substring of the display name
// as a last resort.
type ItemResolver interface {
	// Resolve returns the canonical id for a token, or an error when the
	// token matches nothing.
	Resolve(token string) (string, error)

	// DisplayName returns the human-readable label for a canonical id.
	// Unknown ids come back unchanged.
	DisplayName(id string) string
}

// ParticipantResolver resolves participant tokens to stable numeric ids.
// A token is either a literal numeric identifier or an exact
// case-insensitive display-name match of a currently-active participant.
type ParticipantResolver interface {
	Resolve(token string) (uint64, error)
}

// Authorizer answers permission queries for actors issuing commands or
// performing gameplay actions.
type Authorizer interface {
	HasPermission(actorID uint64, permission string) bool
}
