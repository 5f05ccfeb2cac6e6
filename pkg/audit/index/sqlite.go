// Package index provides an optional SQLite query index over the audit
// journal. The index accelerates filtered queries; it carries no
// integrity guarantees of its own and can always be rebuilt from the
// journal file.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mizan-hq/mizan/pkg/audit"
)

// Config contains configuration for the SQLite index.
type Config struct {
	// Path is the database file path (":memory:" for tests).
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default index configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/audit_index.db",
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// Index is a SQLite-backed secondary index over journal entries.
// It implements audit.Indexer.
type Index struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger
}

// New opens (or creates) the index database and initialises its schema.
func New(config *Config) (*Index, error) {
	if config == nil {
		config = DefaultConfig()
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit index %q: %w", config.Path, err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	idx := &Index{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "audit.index"),
	}

	if err := idx.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	idx.logger.Info("audit index initialized", "path", config.Path, "wal_mode", config.WALMode)
	return idx, nil
}

func (x *Index) initialize() error {
	if x.config.WALMode {
		if _, err := x.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := x.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", x.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := x.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create index schema: %w", err)
	}
	if _, err := x.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	var version int
	if err := x.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("audit index schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}
	return nil
}

// Insert mirrors one journal entry into the index. Re-inserting an
// existing ID is a no-op, which makes Rebuild idempotent.
func (x *Index) Insert(e *audit.Entry) error {
	entryJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry %q: %w", e.ID, err)
	}

	var result, reason string
	var score int
	if e.Output != nil {
		result = string(e.Output.Result)
		reason = e.Output.Reason
		score = e.Output.Score
	}
	var ruleID, ruleName interface{}
	if e.Rule != nil {
		ruleID = e.Rule.ID
		ruleName = e.Rule.Name
	}

	_, err = x.db.Exec(`
		INSERT OR IGNORE INTO audit_entries
			(id, ts, result, reason, score, rule_id, rule_name, previous_hash, hash, entry_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, result, reason, score, ruleID, ruleName, e.PreviousHash, e.Hash, string(entryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %q: %w", e.ID, err)
	}
	return nil
}

// Query returns entries matching the filter, ordered by timestamp.
func (x *Index) Query(ctx context.Context, f audit.Filter) ([]*audit.Entry, error) {
	query := `SELECT entry_json FROM audit_entries WHERE 1=1`
	var args []interface{}
	if f.StartDate != "" {
		query += ` AND ts >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND ts <= ?`
		args = append(args, f.EndDate)
	}
	if f.Result != "" {
		query += ` AND result = ?`
		args = append(args, f.Result)
	}
	query += ` ORDER BY ts ASC`

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit index query failed: %w", err)
	}
	defer rows.Close()

	var out []*audit.Entry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("audit index scan failed: %w", err)
		}
		var e audit.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("corrupt index row: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Count returns the number of indexed entries matching the filter.
func (x *Index) Count(ctx context.Context, f audit.Filter) (int64, error) {
	query := `SELECT COUNT(*) FROM audit_entries WHERE 1=1`
	var args []interface{}
	if f.StartDate != "" {
		query += ` AND ts >= ?`
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		query += ` AND ts <= ?`
		args = append(args, f.EndDate)
	}
	if f.Result != "" {
		query += ` AND result = ?`
		args = append(args, f.Result)
	}

	var n int64
	if err := x.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("audit index count failed: %w", err)
	}
	return n, nil
}

// Rebuild repopulates the index from a journal's on-disk entries.
func (x *Index) Rebuild(ctx context.Context, log *audit.Log) (int, error) {
	entries, err := log.QueryFromDisk(audit.Filter{})
	if err != nil {
		return 0, fmt.Errorf("failed to read journal for rebuild: %w", err)
	}
	inserted := 0
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return inserted, ctx.Err()
		default:
		}
		if err := x.Insert(e); err != nil {
			return inserted, err
		}
		inserted++
	}
	x.logger.Info("audit index rebuilt", "entries", inserted)
	return inserted, nil
}

// Close releases the database handle.
func (x *Index) Close() error {
	return x.db.Close()
}
