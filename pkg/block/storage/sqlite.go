package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite for persistence.
// This backend provides durable storage across server restarts and is
// suitable for single-instance deployments.
//
// SQLiteBackend uses a write-ahead log (WAL) for better concurrent
// performance. Saves replace the whole snapshot inside one transaction so
// a crash mid-save never leaves a half-written rule set behind.
type SQLiteBackend struct {
	db        *sql.DB
	dbPath    string
	mu        sync.RWMutex
	closeOnce sync.Once
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite storage backend with default
// settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{
		DBPath:      dbPath,
		BusyTimeout: 5 * time.Second,
	})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom
// configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	// Open database with WAL mode and busy timeout
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:     db,
		dbPath: cfg.DBPath,
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS block_rules (
		item_id TEXT NOT NULL PRIMARY KEY,
		global_expiry INTEGER NOT NULL DEFAULT 0,
		wipe_flag INTEGER NOT NULL DEFAULT 0,
		player_expiry TEXT,
		saved_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_block_rules_saved_at ON block_rules(saved_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save persists the full rule snapshot, replacing the previous one.
func (s *SQLiteBackend) Save(ctx context.Context, records []*RuleRecord) error {
	for _, rec := range records {
		if rec == nil {
			return fmt.Errorf("record cannot be nil")
		}
		if rec.ItemID == "" {
			return fmt.Errorf("item id cannot be empty")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM block_rules`); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	now := time.Now()
	for _, rec := range records {
		var playerJSON []byte
		if len(rec.PlayerExpiry) > 0 {
			playerJSON, err = json.Marshal(rec.PlayerExpiry)
			if err != nil {
				return fmt.Errorf("failed to marshal player expiries: %w", err)
			}
		}

		var globalExpiry int64
		if !rec.GlobalExpiry.IsZero() {
			globalExpiry = rec.GlobalExpiry.Unix()
		}

		wipe := 0
		if rec.WipeFlag {
			wipe = 1
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO block_rules (item_id, global_expiry, wipe_flag, player_expiry, saved_at)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ItemID, globalExpiry, wipe, string(playerJSON), now.Unix())
		if err != nil {
			return fmt.Errorf("failed to save rule %q: %w", rec.ItemID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// Load retrieves the persisted rule snapshot.
func (s *SQLiteBackend) Load(ctx context.Context) ([]*RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, global_expiry, wipe_flag, player_expiry, saved_at
		FROM block_rules
		ORDER BY item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	var records []*RuleRecord
	for rows.Next() {
		var (
			itemID       string
			globalExpiry int64
			wipe         int
			playerJSON   string
			savedAt      int64
		)

		if err := rows.Scan(&itemID, &globalExpiry, &wipe, &playerJSON, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rec := &RuleRecord{
			ItemID:   itemID,
			WipeFlag: wipe != 0,
			SavedAt:  time.Unix(savedAt, 0),
		}
		if globalExpiry != 0 {
			rec.GlobalExpiry = time.Unix(globalExpiry, 0)
		}
		if playerJSON != "" {
			rec.PlayerExpiry = make(map[uint64]time.Time)
			if err := json.Unmarshal([]byte(playerJSON), &rec.PlayerExpiry); err != nil {
				return nil, fmt.Errorf("failed to unmarshal player expiries for %q: %w", itemID, err)
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteBackend) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}
