package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mizan-hq/mizan/pkg/compliance"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rules.FilePath != DefaultRulesFilePath {
		t.Errorf("Rules.FilePath = %q", cfg.Rules.FilePath)
	}
	if cfg.Audit.Path != DefaultAuditPath {
		t.Errorf("Audit.Path = %q", cfg.Audit.Path)
	}
	if cfg.Audit.SweepSchedule != DefaultAuditSweep {
		t.Errorf("Audit.SweepSchedule = %q", cfg.Audit.SweepSchedule)
	}
	if !cfg.Audit.Index.WALMode {
		t.Error("Audit.Index.WALMode = false")
	}
	if cfg.Compliance.Language != compliance.LanguageBoth {
		t.Errorf("Compliance.Language = %q", cfg.Compliance.Language)
	}
	if len(cfg.Compliance.Frameworks) == 0 {
		t.Error("Compliance.Frameworks empty")
	}
	if cfg.Agent.Timeout != DefaultAgentTimeout {
		t.Errorf("Agent.Timeout = %v", cfg.Agent.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %q %q", cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(DefaultConfig()) = %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
rules:
  file_path: /etc/mizan/rules.json
  watch: true
audit:
  path: /var/lib/mizan/audit.jsonl
  sweep_schedule: "@hourly"
compliance:
  frameworks: [PDPL, NESA]
  language: en
  audit_level: basic
agent:
  timeout: 30s
telemetry:
  logging:
    level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Rules.FilePath != "/etc/mizan/rules.json" || !cfg.Rules.Watch {
		t.Errorf("rules = %+v", cfg.Rules)
	}
	if cfg.Audit.Path != "/var/lib/mizan/audit.jsonl" {
		t.Errorf("Audit.Path = %q", cfg.Audit.Path)
	}
	if cfg.Audit.SweepSchedule != "@hourly" {
		t.Errorf("SweepSchedule = %q", cfg.Audit.SweepSchedule)
	}
	if len(cfg.Compliance.Frameworks) != 2 || cfg.Compliance.Frameworks[0] != compliance.FrameworkPDPL {
		t.Errorf("Compliance.Frameworks = %v", cfg.Compliance.Frameworks)
	}
	if cfg.Compliance.AuditLevel != compliance.AuditBasic {
		t.Errorf("Compliance.AuditLevel = %q", cfg.Compliance.AuditLevel)
	}
	if cfg.Agent.Timeout != 30*time.Second {
		t.Errorf("Agent.Timeout = %v", cfg.Agent.Timeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
	// Omitted fields take defaults.
	if cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging format = %q, want default", cfg.Telemetry.Logging.Format)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "rules: ["},
		{"bad schedule", "audit:\n  sweep_schedule: nonsense"},
		{"bad framework", "compliance:\n  frameworks: [GDPR]"},
		{"bad level", "telemetry:\n  logging:\n    level: verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("LoadConfig accepted invalid config")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  file_path: from-file.yaml\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("MIZAN_RULES_FILE_PATH", "from-env.yaml")
	t.Setenv("AUDIT_PATH", "/tmp/env-audit.jsonl")
	t.Setenv("MIZAN_AGENT_TIMEOUT", "5s")
	t.Setenv("MIZAN_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides: %v", err)
	}
	if cfg.Rules.FilePath != "from-env.yaml" {
		t.Errorf("Rules.FilePath = %q, env override lost", cfg.Rules.FilePath)
	}
	if cfg.Audit.Path != "/tmp/env-audit.jsonl" {
		t.Errorf("Audit.Path = %q", cfg.Audit.Path)
	}
	if cfg.Agent.Timeout != 5*time.Second {
		t.Errorf("Agent.Timeout = %v", cfg.Agent.Timeout)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, env override lost")
	}
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("AUDIT_PATH", "/tmp/only-env.jsonl")
	cfg := EnvConfig()
	if cfg.Audit.Path != "/tmp/only-env.jsonl" {
		t.Errorf("Audit.Path = %q", cfg.Audit.Path)
	}
	if cfg.Rules.FilePath != DefaultRulesFilePath {
		t.Errorf("Rules.FilePath = %q, want default", cfg.Rules.FilePath)
	}
}
