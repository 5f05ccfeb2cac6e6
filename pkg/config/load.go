package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path, applies default values and validates the result. Environment
// variables are not consulted; use LoadConfigWithEnvOverrides for
// that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention MIZAN_SECTION_FIELD (e.g. MIZAN_RULES_FILE_PATH); the
// bare AUDIT_PATH variable overrides the journal location. Environment
// variables always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// EnvConfig builds a configuration from defaults plus environment
// overrides only, for callers without a configuration file.
func EnvConfig() *Config {
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("MIZAN_RULES_FILE_PATH"); val != "" {
		cfg.Rules.FilePath = val
	}
	if val := os.Getenv("MIZAN_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}

	if val := os.Getenv("AUDIT_PATH"); val != "" {
		cfg.Audit.Path = val
	}
	if val := os.Getenv("MIZAN_AUDIT_PRELOAD"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Preload = b
		}
	}
	if val := os.Getenv("MIZAN_AUDIT_SWEEP_SCHEDULE"); val != "" {
		cfg.Audit.SweepSchedule = val
	}
	if val := os.Getenv("MIZAN_AUDIT_INDEX_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Index.Enabled = b
		}
	}
	if val := os.Getenv("MIZAN_AUDIT_INDEX_PATH"); val != "" {
		cfg.Audit.Index.Path = val
	}

	if val := os.Getenv("MIZAN_AGENT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Agent.Timeout = d
		}
	}

	if val := os.Getenv("MIZAN_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MIZAN_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MIZAN_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
