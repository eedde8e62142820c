package block

import (
	"time"

	"stockade-hq/stockade/pkg/telemetry/metrics"
)

// Gate is the host-facing check surface. The host invokes one method per
// gameplay action (equip, wear, reload); each performs exactly one
// evaluator call. Actors holding the bypass permission skip evaluation
// entirely.
type Gate struct {
	eval    *Evaluator
	authz   Authorizer
	metrics *metrics.Collector
	clock   func() time.Time
}

// NewGate creates a gate over the evaluator. authz and collector may be
// nil; a nil authorizer grants no bypass, a nil collector records nothing.
// A nil clock defaults to time.Now.
func NewGate(eval *Evaluator, authz Authorizer, collector *metrics.Collector, clock func() time.Time) *Gate {
	if clock == nil {
		clock = time.Now
	}
	return &Gate{
		eval:    eval,
		authz:   authz,
		metrics: collector,
		clock:   clock,
	}
}

// CanEquip reports whether the participant may equip the item right now.
func (g *Gate) CanEquip(participantID uint64, itemID string) bool {
	return g.check("equip", participantID, itemID)
}

// CanWear reports whether the participant may wear the item right now.
func (g *Gate) CanWear(participantID uint64, itemID string) bool {
	return g.check("wear", participantID, itemID)
}

// CanReload reports whether the participant may load the ammunition right
// now.
func (g *Gate) CanReload(participantID uint64, itemID string) bool {
	return g.check("reload", participantID, itemID)
}

func (g *Gate) check(action string, participantID uint64, itemID string) bool {
	if g.authz != nil && g.authz.HasPermission(participantID, PermBypass) {
		return true
	}

	start := g.clock()
	blocked := g.eval.IsBlocked(itemID, participantID, start)
	g.metrics.RecordCheck(action, blocked, g.clock().Sub(start))

	return !blocked
}
