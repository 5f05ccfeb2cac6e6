package config

import (
	"time"

	"mizan-hq/mizan/pkg/compliance"
)

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRulesFilePath        = "./rules.yaml"
	DefaultRulesWatch           = false
	DefaultRulesDetectConflicts = true

	// Audit defaults
	DefaultAuditPath         = "./data/audit.jsonl"
	DefaultAuditSweep        = "0 3 * * *"
	DefaultIndexPath         = "data/audit-index.db"
	DefaultIndexMaxOpenConns = 10
	DefaultIndexWALMode      = true
	DefaultIndexBusyTimeout  = 5 * time.Second

	// Agent defaults
	DefaultAgentTimeout = 60 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultMetricsNS      = "mizan"
)

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Rules.FilePath == "" {
		cfg.Rules.FilePath = DefaultRulesFilePath
	}

	if cfg.Audit.Path == "" {
		cfg.Audit.Path = DefaultAuditPath
	}
	if cfg.Audit.SweepSchedule == "" {
		cfg.Audit.SweepSchedule = DefaultAuditSweep
	}
	if cfg.Audit.Index.Path == "" {
		cfg.Audit.Index.Path = DefaultIndexPath
	}
	if cfg.Audit.Index.MaxOpenConns == 0 {
		cfg.Audit.Index.MaxOpenConns = DefaultIndexMaxOpenConns
	}
	if cfg.Audit.Index.BusyTimeout == 0 {
		cfg.Audit.Index.BusyTimeout = DefaultIndexBusyTimeout
		cfg.Audit.Index.WALMode = DefaultIndexWALMode
	}

	if len(cfg.Compliance.Frameworks) == 0 {
		cfg.Compliance.Frameworks = compliance.DefaultConfig().Frameworks
	}
	if cfg.Compliance.Language == "" {
		cfg.Compliance.Language = compliance.LanguageBoth
	}
	if cfg.Compliance.AuditLevel == "" {
		cfg.Compliance.AuditLevel = compliance.AuditFull
	}
	if cfg.Compliance.DataResidency == "" {
		cfg.Compliance.DataResidency = compliance.ResidencyUAE
	}

	if cfg.Agent.Timeout == 0 {
		cfg.Agent.Timeout = DefaultAgentTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
		cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	}
}
