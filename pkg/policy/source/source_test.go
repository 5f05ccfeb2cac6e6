package source

import (
	"os"
	"path/filepath"
	"testing"

	"mizan-hq/mizan/pkg/policy"
)

func writeRules(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestFileSourceJSON(t *testing.T) {
	path := writeRules(t, "rules.json", `[
		{"id": "R1", "name": "High", "condition": "score >= 80", "action": "APPROVED", "priority": 1},
		{"id": "R2", "name": "Low", "condition": "score < 30", "action": "REJECTED", "priority": 2}
	]`)

	rules, err := NewFileSource(path).LoadRules()
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("LoadRules() returned %d rules, want 2", len(rules))
	}
	if rules[0].ID != "R1" || rules[0].Action != policy.ActionApproved {
		t.Errorf("rules[0] = %+v, want id R1 action APPROVED", rules[0])
	}
	if rules[1].Condition != "score < 30" {
		t.Errorf("rules[1].Condition = %q, want %q", rules[1].Condition, "score < 30")
	}
}

func TestFileSourceYAML(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{name: "yaml extension", file: "rules.yaml"},
		{name: "yml extension", file: "rules.yml"},
	}

	const content = `
- id: R1
  name: UAE large investment
  condition: country === "AE" && amount > 500000
  action: APPROVED
  priority: 1
  reason: Approved jurisdiction
`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRules(t, tt.file, content)

			rules, err := NewFileSource(path).LoadRules()
			if err != nil {
				t.Fatalf("LoadRules() error = %v", err)
			}
			if len(rules) != 1 {
				t.Fatalf("LoadRules() returned %d rules, want 1", len(rules))
			}
			if rules[0].Condition != `country === "AE" && amount > 500000` {
				t.Errorf("Condition = %q", rules[0].Condition)
			}
			if rules[0].Priority != 1 {
				t.Errorf("Priority = %d, want 1", rules[0].Priority)
			}
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "malformed JSON", file: "rules.json", content: `[{"id":`},
		{name: "malformed YAML", file: "rules.yaml", content: "- id: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRules(t, tt.file, tt.content)
			if _, err := NewFileSource(path).LoadRules(); err == nil {
				t.Error("LoadRules() should fail")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.json")
		if _, err := NewFileSource(path).LoadRules(); err == nil {
			t.Error("LoadRules() should fail for a missing file")
		}
	})
}

func TestMemorySourceCopies(t *testing.T) {
	original := []policy.Rule{
		{ID: "R1", Condition: "score >= 80", Action: policy.ActionApproved},
	}
	src := NewMemorySource(original)

	original[0].ID = "mutated"

	rules, err := src.LoadRules()
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	if rules[0].ID != "R1" {
		t.Errorf("source should hold a copy; got ID %q", rules[0].ID)
	}

	rules[0].ID = "mutated-again"
	again, _ := src.LoadRules()
	if again[0].ID != "R1" {
		t.Errorf("LoadRules() should return a fresh copy; got ID %q", again[0].ID)
	}
}
