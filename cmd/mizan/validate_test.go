package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mizan-hq/mizan/pkg/cli"
	"mizan-hq/mizan/pkg/policy"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestCheckRule(t *testing.T) {
	badScore := 150

	tests := []struct {
		name     string
		rule     policy.Rule
		problems int
	}{
		{
			name: "valid rule",
			rule: policy.Rule{ID: "R1", Condition: "score >= 80", Action: policy.ActionApproved},
		},
		{
			name:     "missing id",
			rule:     policy.Rule{Condition: "score >= 80", Action: policy.ActionApproved},
			problems: 1,
		},
		{
			name:     "condition does not compile",
			rule:     policy.Rule{ID: "R2", Condition: "score >=", Action: policy.ActionApproved},
			problems: 1,
		},
		{
			name:     "unknown action",
			rule:     policy.Rule{ID: "R3", Condition: "score >= 80", Action: "MAYBE"},
			problems: 1,
		},
		{
			name:     "score out of range",
			rule:     policy.Rule{ID: "R4", Condition: "score >= 80", Action: policy.ActionApproved, Score: &badScore},
			problems: 1,
		},
		{
			name:     "several problems at once",
			rule:     policy.Rule{Condition: "&&", Action: "NOPE"},
			problems: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := checkRule(tt.rule)
			if len(problems) != tt.problems {
				t.Errorf("checkRule() reported %d problems %v, want %d", len(problems), problems, tt.problems)
			}
		})
	}
}

func TestValidateRulesCleanFile(t *testing.T) {
	path := writeTempFile(t, "rules.json", `[
		{"id": "R1", "name": "High", "condition": "score >= 80", "action": "APPROVED", "priority": 1},
		{"id": "R2", "name": "Low", "condition": "score < 30", "action": "REJECTED", "priority": 2}
	]`)

	if err := validateRules(nil, []string{path}); err != nil {
		t.Errorf("validateRules() with clean file returned error: %v", err)
	}
}

func TestValidateRulesInvalidRule(t *testing.T) {
	path := writeTempFile(t, "rules.json", `[
		{"id": "R1", "condition": "score >=", "action": "APPROVED", "priority": 1}
	]`)

	err := validateRules(nil, []string{path})
	if err == nil {
		t.Fatal("validateRules() with a non-compiling condition should return error")
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}

func TestValidateRulesConflict(t *testing.T) {
	path := writeTempFile(t, "rules.json", `[
		{"id": "R1", "condition": "amount > 100", "action": "APPROVED", "priority": 1},
		{"id": "R2", "condition": "amount > 100", "action": "REJECTED", "priority": 2}
	]`)

	err := validateRules(nil, []string{path})
	if err == nil {
		t.Fatal("validateRules() with contradicting rules should return error")
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}

func TestValidateRulesDuplicateIsInformational(t *testing.T) {
	path := writeTempFile(t, "rules.json", `[
		{"id": "R1", "condition": "amount > 100", "action": "APPROVED", "priority": 1},
		{"id": "R2", "condition": "amount > 100", "action": "APPROVED", "priority": 2}
	]`)

	if err := validateRules(nil, []string{path}); err != nil {
		t.Errorf("validateRules() with duplicate rules returned error: %v", err)
	}
}

func TestValidateRulesMalformedFile(t *testing.T) {
	path := writeTempFile(t, "rules.json", `{not json`)

	err := validateRules(nil, []string{path})
	if err == nil {
		t.Fatal("validateRules() with malformed JSON should return error")
	}
	var inputErr *cli.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("error should be an InputError, got %T", err)
	}
	if got := cli.ExitCode(err); got != cli.ExitBadInput {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitBadInput)
	}
}
