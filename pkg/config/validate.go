package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Rules.FilePath == "" {
		return &ValidationError{Field: "rules.file_path", Message: "must not be empty"}
	}

	if cfg.Audit.Path == "" {
		return &ValidationError{Field: "audit.path", Message: "must not be empty"}
	}
	if cfg.Audit.SweepSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.SweepSchedule); err != nil {
			return &ValidationError{Field: "audit.sweep_schedule", Message: err.Error()}
		}
	}
	if cfg.Audit.Index.Enabled && cfg.Audit.Index.Path == "" {
		return &ValidationError{Field: "audit.index.path", Message: "must not be empty when the index is enabled"}
	}
	if cfg.Audit.Index.MaxOpenConns < 0 {
		return &ValidationError{Field: "audit.index.max_open_conns", Message: "must not be negative"}
	}

	if err := cfg.Compliance.Validate(); err != nil {
		return err
	}

	if cfg.Agent.Timeout < 0 {
		return &ValidationError{Field: "agent.timeout", Message: "must not be negative"}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "telemetry.logging.level", Message: "must be debug, info, warn or error"}
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return &ValidationError{Field: "telemetry.logging.format", Message: "must be json or text"}
	}

	return nil
}
