package index

// SchemaVersion is the current index schema version.
const SchemaVersion = 1

// Schema contains the SQL statements for the audit index schema. The
// index mirrors the journal for fast filtering; the JSONL file remains
// the source of truth and the only tamper-evident artefact.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_entries (
    id TEXT PRIMARY KEY,
    ts TEXT NOT NULL,

    -- Decision
    result TEXT NOT NULL,
    reason TEXT,
    score INTEGER NOT NULL,

    -- Matched rule snapshot
    rule_id TEXT,
    rule_name TEXT,

    -- Chain metadata
    previous_hash TEXT NOT NULL,
    hash TEXT NOT NULL,

    -- Full entry as written to the journal
    entry_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_ts ON audit_entries(ts);
CREATE INDEX IF NOT EXISTS idx_audit_result ON audit_entries(result);
CREATE INDEX IF NOT EXISTS idx_audit_rule_id ON audit_entries(rule_id);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version (idempotent).
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion reads the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;`
