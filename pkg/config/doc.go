// Package config defines Mizan's YAML configuration surface: rule
// loading, the audit journal and its index, compliance evaluation,
// the agent pipeline, and telemetry. Values load from a file, take
// defaults for anything omitted, and can be overridden through
// MIZAN_* environment variables (plus AUDIT_PATH for the journal).
package config
