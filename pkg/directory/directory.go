// Package directory tracks the participants of the current session and
// resolves participant tokens to stable numeric ids.
package directory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrNotFound is returned when a token resolves to no active participant.
var ErrNotFound = errors.New("participant not found")

// SessionDirectory is an in-memory roster of currently-active participants.
// The host calls Join and Leave as participants connect and disconnect.
//
// SessionDirectory is safe for concurrent use.
type SessionDirectory struct {
	mu     sync.RWMutex
	byID   map[uint64]string
	byName map[string]uint64
}

// NewSessionDirectory creates an empty roster.
func NewSessionDirectory() *SessionDirectory {
	return &SessionDirectory{
		byID:   make(map[uint64]string),
		byName: make(map[string]uint64),
	}
}

// Join registers a participant. A participant rejoining under a new name
// replaces their previous entry.
func (d *SessionDirectory) Join(id uint64, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.byID[id]; ok {
		delete(d.byName, strings.ToLower(prev))
	}
	d.byID[id] = name
	d.byName[strings.ToLower(name)] = id
}

// Leave removes a participant from the roster. No-op if absent.
func (d *SessionDirectory) Leave(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name, ok := d.byID[id]; ok {
		delete(d.byName, strings.ToLower(name))
		delete(d.byID, id)
	}
}

// Resolve maps a token to a participant id. The token is either a literal
// numeric identifier or an exact case-insensitive match of an active
// participant's display name.
func (d *SessionDirectory) Resolve(token string) (uint64, error) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return 0, fmt.Errorf("%w: empty token", ErrNotFound)
	}

	if id, err := strconv.ParseUint(tok, 10, 64); err == nil {
		return id, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if id, ok := d.byName[strings.ToLower(tok)]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, token)
}

// Name returns the display name for an id, or the empty string when the
// participant is not active.
func (d *SessionDirectory) Name(id uint64) string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.byID[id]
}

// Len returns the number of active participants.
func (d *SessionDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.byID)
}
