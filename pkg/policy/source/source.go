// Package source provides rule sources for the policy engine: files on
// disk (JSON or YAML) and in-memory sets for tests and embedding.
package source

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mizan-hq/mizan/pkg/policy"
)

// Source provides rules to the engine.
type Source interface {
	// LoadRules loads all rules from the source.
	LoadRules() ([]policy.Rule, error)
}

// FileSource loads rules from a single JSON or YAML file.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based rule source. The format is chosen
// by extension: .yaml/.yml parse as YAML, everything else as JSON.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		logger: slog.Default().With("component", "policy.source"),
	}
}

// Path returns the watched file path.
func (s *FileSource) Path() string { return s.path }

// LoadRules reads and decodes the rule file.
func (s *FileSource) LoadRules() ([]policy.Rule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %q: %w", s.path, err)
	}

	var rules []policy.Rule
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse YAML rules %q: %w", s.path, err)
		}
	default:
		if err := json.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse JSON rules %q: %w", s.path, err)
		}
	}

	s.logger.Info("rules loaded from file", "path", s.path, "rule_count", len(rules))
	return rules, nil
}

// MemorySource serves a fixed rule slice.
type MemorySource struct {
	rules []policy.Rule
}

// NewMemorySource creates an in-memory rule source. The slice is copied.
func NewMemorySource(rules []policy.Rule) *MemorySource {
	cp := make([]policy.Rule, len(rules))
	copy(cp, rules)
	return &MemorySource{rules: cp}
}

// LoadRules returns a copy of the held rules.
func (s *MemorySource) LoadRules() ([]policy.Rule, error) {
	cp := make([]policy.Rule, len(s.rules))
	copy(cp, s.rules)
	return cp, nil
}
