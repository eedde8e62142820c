// Package authz answers permission queries for actors. The permission
// mechanism itself belongs to the host; this package ships a static,
// config-driven grant table for standalone deployments.
package authz

import "sync"

// StaticAuthorizer grants permissions from a fixed table loaded at
// startup. Grants can be adjusted at runtime by the host.
//
// StaticAuthorizer is safe for concurrent use.
type StaticAuthorizer struct {
	mu     sync.RWMutex
	grants map[uint64]map[string]bool
}

// NewStaticAuthorizer creates an authorizer from a grant table mapping
// actor id to permission names.
func NewStaticAuthorizer(grants map[uint64][]string) *StaticAuthorizer {
	a := &StaticAuthorizer{
		grants: make(map[uint64]map[string]bool, len(grants)),
	}
	for actor, perms := range grants {
		set := make(map[string]bool, len(perms))
		for _, p := range perms {
			set[p] = true
		}
		a.grants[actor] = set
	}
	return a
}

// HasPermission reports whether the actor holds the permission.
func (a *StaticAuthorizer) HasPermission(actorID uint64, permission string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.grants[actorID][permission]
}

// Grant adds a permission for an actor.
func (a *StaticAuthorizer) Grant(actorID uint64, permission string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.grants[actorID] == nil {
		a.grants[actorID] = make(map[string]bool)
	}
	a.grants[actorID][permission] = true
}

// Revoke removes a permission from an actor. No-op if absent.
func (a *StaticAuthorizer) Revoke(actorID uint64, permission string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.grants[actorID], permission)
}
