// Package audit journals rule mutations to an append-only SQLite table so
// operators can answer "who blocked what, and when" after the fact.
//
// Journal failures never fail the mutation that triggered them; the
// command surface logs and drops them.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"stockade-hq/stockade/pkg/block"
)

// Event is one journaled mutation.
type Event struct {
	// ID is a unique event identifier.
	ID string

	// Time is when the mutation was applied.
	Time time.Time

	// ActorID is who issued the command.
	ActorID uint64

	// Op is "block" or "clear".
	Op string

	// ItemID is the canonical item id targeted.
	ItemID string

	// Scope is the canonical scope token ("global", "participant", "wipe").
	Scope string

	// ParticipantID is the targeted participant for participant-scoped
	// mutations, zero otherwise.
	ParticipantID uint64

	// Expiry is the absolute instant a timed block runs until. Zero for
	// wipe blocks and clears.
	Expiry time.Time
}

// Journal records mutation events to SQLite.
//
// Journal is safe for concurrent use and implements block.AuditSink.
type Journal struct {
	db         *sql.DB
	insertStmt *sql.Stmt
	mu         sync.Mutex
	closeOnce  sync.Once
	clock      func() time.Time
}

// Open creates or opens a journal database at the given path.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS mutation_events (
		id TEXT NOT NULL PRIMARY KEY,
		time INTEGER NOT NULL,
		actor_id INTEGER NOT NULL,
		op TEXT NOT NULL,
		item_id TEXT NOT NULL,
		scope TEXT NOT NULL,
		participant_id INTEGER NOT NULL DEFAULT 0,
		expiry INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_mutation_events_time ON mutation_events(time);
	CREATE INDEX IF NOT EXISTS idx_mutation_events_item ON mutation_events(item_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	insertStmt, err := db.Prepare(`
		INSERT INTO mutation_events (id, time, actor_id, op, item_id, scope, participant_id, expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	return &Journal{
		db:         db,
		insertStmt: insertStmt,
		clock:      time.Now,
	}, nil
}

// RecordMutation journals one applied mutation. Implements block.AuditSink.
func (j *Journal) RecordMutation(ctx context.Context, actorID uint64, m *block.Mutation) error {
	if m == nil {
		return fmt.Errorf("mutation cannot be nil")
	}

	var expiry int64
	if !m.Expiry.IsZero() {
		expiry = m.Expiry.Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.insertStmt.ExecContext(ctx,
		uuid.NewString(),
		j.clock().Unix(),
		int64(actorID),
		m.Op,
		m.ItemID,
		m.Scope.Kind.String(),
		int64(m.Scope.ParticipantID),
		expiry,
	)
	if err != nil {
		return fmt.Errorf("failed to journal mutation: %w", err)
	}
	return nil
}

// Recent returns the most recent events, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, time, actor_id, op, item_id, scope, participant_id, expiry
		FROM mutation_events
		ORDER BY time DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e             Event
			ts            int64
			actorID       int64
			participantID int64
			expiry        int64
		)
		if err := rows.Scan(&e.ID, &ts, &actorID, &e.Op, &e.ItemID, &e.Scope, &participantID, &expiry); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		e.Time = time.Unix(ts, 0)
		e.ActorID = uint64(actorID)
		e.ParticipantID = uint64(participantID)
		if expiry != 0 {
			e.Expiry = time.Unix(expiry, 0)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	return events, nil
}

// Close releases the journal's database handle.
// Close is idempotent and safe to call multiple times.
func (j *Journal) Close() error {
	var closeErr error

	j.closeOnce.Do(func() {
		if j.insertStmt != nil {
			j.insertStmt.Close()
		}
		if j.db != nil {
			closeErr = j.db.Close()
		}
	})

	return closeErr
}
