package block

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stockade-hq/stockade/pkg/block/storage"
	"stockade-hq/stockade/pkg/telemetry/metrics"
)

// AuditSink receives successful mutations for journaling. Implementations
// must never fail the mutation: errors are logged and dropped.
type AuditSink interface {
	RecordMutation(ctx context.Context, actorID uint64, m *Mutation) error
}

// ServiceOptions wires a Service together. Store, Items, and Participants
// are required; everything else is optional.
type ServiceOptions struct {
	// Store is the rule store the service owns.
	Store *Store

	// Items resolves item tokens and display names.
	Items ItemResolver

	// Participants resolves participant tokens.
	Participants ParticipantResolver

	// Authz gates commands; nil means every actor is denied admin
	// commands. Hosts that do their own gating can pass AllowAll.
	Authz Authorizer

	// Backend persists the rule set. Nil disables persistence.
	Backend storage.Backend

	// Audit journals successful mutations. Optional.
	Audit AuditSink

	// Metrics records command and store metrics. Optional.
	Metrics *metrics.Collector

	// Logger receives operational logs. Defaults to slog.Default.
	Logger *slog.Logger

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// AllowAll is an Authorizer granting every permission to every actor, for
// hosts that enforce permissions upstream of the command surface.
type AllowAll struct{}

// HasPermission always returns true.
func (AllowAll) HasPermission(uint64, string) bool { return true }

// Service is the transport-agnostic command surface and lifecycle owner:
// it loads the store at startup, applies block/clear/list commands on
// behalf of actors, saves after every successful mutation, and reacts to
// the session-reset signal.
//
// No error from the service ever propagates into the host's control flow
// as anything but a returned value: persistence failures are logged and
// absorbed, validation failures are typed errors with no state change.
type Service struct {
	store   *Store
	mutator *Mutator
	wipe    *WipeHandler
	items   ItemResolver
	authz   Authorizer
	backend storage.Backend
	audit   AuditSink
	metrics *metrics.Collector
	logger  *slog.Logger
	clock   func() time.Time
}

// NewService creates the command surface over the given store and
// collaborators.
func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "block.service")

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		store:   opts.Store,
		mutator: NewMutator(opts.Store, opts.Items, opts.Participants, clock),
		wipe:    NewWipeHandler(opts.Store, logger),
		items:   opts.Items,
		authz:   opts.Authz,
		backend: opts.Backend,
		audit:   opts.Audit,
		metrics: opts.Metrics,
		logger:  logger,
		clock:   clock,
	}
}

// Store returns the rule store the service owns, for wiring the evaluator
// and gate.
func (s *Service) Store() *Store {
	return s.store
}

// Start loads persisted rules into the store and prunes them eagerly.
// A missing or corrupt persisted state is recovered by starting from an
// empty store; the failure is logged as a warning and never fatal.
func (s *Service) Start(ctx context.Context) error {
	if s.backend == nil {
		s.logger.Info("persistence disabled, starting with empty rule set")
		return nil
	}

	records, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load persisted rules, starting empty", "error", err)
		s.store.Replace(nil)
		return nil
	}

	s.store.Replace(recordsToRules(records))
	removed := s.store.Prune(s.clock())
	s.metrics.SetActiveRules(s.store.Len())

	s.logger.Info("rule set loaded",
		"rules", s.store.Len(),
		"pruned_on_load", removed,
	)
	return nil
}

// Stop flushes the rule set. Save failures are logged, never returned as
// fatal.
func (s *Service) Stop(ctx context.Context) error {
	s.save(ctx)
	return nil
}

// SetBlock applies a block command on behalf of an actor.
//
// Both accepted argument orders pass through unchanged; the mutator
// disambiguates them. Returns the applied mutation, or a typed validation
// error with no state change.
func (s *Service) SetBlock(ctx context.Context, actorID uint64, itemToken, durationToken, scopeToken, participantToken string) (*Mutation, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	m, err := s.mutator.ApplyBlock(itemToken, durationToken, scopeToken, participantToken)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, actorID, m)
	return m, nil
}

// ClearBlock applies a clear command on behalf of an actor.
func (s *Service) ClearBlock(ctx context.Context, actorID uint64, itemToken, scopeToken, participantToken string) (*Mutation, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	m, err := s.mutator.ClearBlock(itemToken, scopeToken, participantToken)
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, actorID, m)
	return m, nil
}

// ListBlocks returns a snapshot of every active rule: canonical item,
// display label, and remaining time per scope.
func (s *Service) ListBlocks(ctx context.Context, actorID uint64) ([]Snapshot, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	now := s.clock()
	rules := s.store.ListActive(now)
	s.metrics.SetActiveRules(s.store.Len())

	snaps := make([]Snapshot, 0, len(rules))
	for _, r := range rules {
		snaps = append(snaps, snapshotRule(r, s.items, now))
	}
	return snaps, nil
}

// OnWipe handles the host's session-reset signal: every wipe-scoped flag
// is cleared and the result is flushed.
func (s *Service) OnWipe(ctx context.Context) {
	cleared := s.wipe.OnWipe()
	s.metrics.RecordWipeReset()
	s.metrics.SetActiveRules(s.store.Len())
	if cleared > 0 {
		s.save(ctx)
	}
}

// Maintain prunes the store against the current clock and flushes the
// result. Invoked by the scheduler; correctness never depends on it
// running.
func (s *Service) Maintain(ctx context.Context) error {
	removed := s.store.Prune(s.clock())
	s.metrics.SetActiveRules(s.store.Len())
	if removed > 0 {
		s.logger.Debug("maintenance prune removed rules", "removed", removed)
		s.save(ctx)
	}
	return nil
}

// requireAdmin checks the actor's admin permission.
func (s *Service) requireAdmin(actorID uint64) error {
	if s.authz == nil || !s.authz.HasPermission(actorID, PermAdmin) {
		return fmt.Errorf("%w: actor %d lacks %s", ErrPermissionDenied, actorID, PermAdmin)
	}
	return nil
}

// afterMutation persists, journals, and counts a successful mutation.
func (s *Service) afterMutation(ctx context.Context, actorID uint64, m *Mutation) {
	s.save(ctx)
	s.metrics.RecordMutation(m.Op, m.Scope.Kind.String())
	s.metrics.SetActiveRules(s.store.Len())

	if s.audit != nil {
		if err := s.audit.RecordMutation(ctx, actorID, m); err != nil {
			s.logger.Warn("failed to journal mutation", "error", err)
		}
	}
}

// save flushes the full rule snapshot. Failures are logged as warnings and
// never block subsequent operation.
func (s *Service) save(ctx context.Context) {
	if s.backend == nil {
		return
	}
	if err := s.backend.Save(ctx, rulesToRecords(s.store.Snapshot())); err != nil {
		s.logger.Warn("failed to save rules", "error", err)
	}
}

// rulesToRecords converts store rules into the persisted layout.
func rulesToRecords(rules []*Rule) []*storage.RuleRecord {
	records := make([]*storage.RuleRecord, 0, len(rules))
	for _, r := range rules {
		rec := &storage.RuleRecord{
			ItemID:       r.ItemID,
			GlobalExpiry: r.GlobalExpiry,
			WipeFlag:     r.WipeFlag,
		}
		if len(r.PlayerExpiry) > 0 {
			rec.PlayerExpiry = make(map[uint64]time.Time, len(r.PlayerExpiry))
			for id, exp := range r.PlayerExpiry {
				rec.PlayerExpiry[id] = exp
			}
		}
		records = append(records, rec)
	}
	return records
}

// recordsToRules converts the persisted layout back into store rules.
func recordsToRules(records []*storage.RuleRecord) []*Rule {
	rules := make([]*Rule, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		r := newRule(CanonicalItemID(rec.ItemID))
		r.GlobalExpiry = rec.GlobalExpiry
		r.WipeFlag = rec.WipeFlag
		for id, exp := range rec.PlayerExpiry {
			r.PlayerExpiry[id] = exp
		}
		rules = append(rules, r)
	}
	return rules
}
