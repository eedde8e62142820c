package block

import "log/slog"

// WipeHandler reacts to the host's session-reset signal by clearing every
// wipe-scoped flag in the store. Timed restrictions, global or
// per-participant, are untouched.
type WipeHandler struct {
	store  *Store
	logger *slog.Logger
}

// NewWipeHandler creates a wipe handler over the store.
func NewWipeHandler(store *Store, logger *slog.Logger) *WipeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WipeHandler{
		store:  store,
		logger: logger.With("component", "block.wipe"),
	}
}

// OnWipe clears all wipe flags, dropping rules left with no restriction.
// Idempotent: a second call with no intervening mutation is a no-op.
// Returns the number of flags cleared.
func (h *WipeHandler) OnWipe() int {
	cleared := h.store.ClearWipeFlags()
	if cleared > 0 {
		h.logger.Info("wipe reset applied", "rules_cleared", cleared)
	} else {
		h.logger.Debug("wipe reset applied, no wipe-scoped rules")
	}
	return cleared
}
