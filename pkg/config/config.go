package config

import (
	"time"

	"mizan-hq/mizan/pkg/compliance"
)

// Config is the root configuration structure for Mizan. It contains
// all configuration sections for rule loading, the audit journal,
// compliance evaluation, the agent pipeline, and telemetry.
type Config struct {
	// Rules contains configuration for the rule engine including the
	// rule file location and watch mode.
	Rules RulesConfig `yaml:"rules"`

	// Audit contains configuration for the audit journal and its
	// optional SQLite index.
	Audit AuditConfig `yaml:"audit"`

	// Compliance contains configuration for the compliance evaluator.
	Compliance compliance.Config `yaml:"compliance"`

	// Agent contains configuration for the governed pipeline.
	Agent AgentConfig `yaml:"agent"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig contains configuration for rule loading.
type RulesConfig struct {
	// FilePath is the path to the rule file (YAML or JSON).
	// Default: "./rules.yaml"
	FilePath string `yaml:"file_path"`

	// Watch enables automatic reloading when the rule file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DetectConflicts runs pairwise conflict detection after each
	// load and logs the findings.
	// Default: true
	DetectConflicts bool `yaml:"detect_conflicts"`
}

// AuditConfig contains configuration for the audit journal.
type AuditConfig struct {
	// Path is the journal file location. Overridden by the AUDIT_PATH
	// environment variable.
	// Default: "./data/audit.jsonl"
	Path string `yaml:"path"`

	// Preload loads the full journal into memory at startup instead
	// of restoring only the chain pointer.
	// Default: false
	Preload bool `yaml:"preload"`

	// SweepSchedule is a cron expression for scheduled integrity
	// verification. Empty disables the sweeper.
	// Default: "0 3 * * *" (daily at 3 AM)
	SweepSchedule string `yaml:"sweep_schedule"`

	// Index contains the optional SQLite query index configuration.
	Index IndexConfig `yaml:"index"`
}

// IndexConfig contains configuration for the audit SQLite index.
type IndexConfig struct {
	// Enabled controls whether the index is maintained.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the file path for the SQLite database.
	// Default: "data/audit-index.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// AgentConfig contains configuration for the governed pipeline.
type AgentConfig struct {
	// Timeout is the total deadline for one pipeline run, covering
	// the LM call. Zero means no timeout.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "mizan"
	Namespace string `yaml:"namespace"`
}
