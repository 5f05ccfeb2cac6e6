package main

import (
	"errors"
	"path/filepath"
	"testing"

	"mizan-hq/mizan/pkg/cli"
)

const decideTestRules = `[
	{"id": "R1", "name": "High risk", "condition": "risk > 0.8", "action": "REJECTED", "reason": "Too risky", "priority": 1},
	{"id": "R2", "name": "Low risk", "condition": "risk <= 0.8", "action": "APPROVED", "reason": "Acceptable", "priority": 2}
]`

func setupDecideTest(t *testing.T, factsJSON string) (rulesPath, factsPath string) {
	t.Helper()
	t.Setenv("AUDIT_PATH", filepath.Join(t.TempDir(), "audit.jsonl"))
	cfgFile = filepath.Join(t.TempDir(), "no-such-config.yaml")
	decideFlags.format = "text"
	return writeTempFile(t, "rules.json", decideTestRules),
		writeTempFile(t, "facts.json", factsJSON)
}

func TestDecideApproved(t *testing.T) {
	rules, facts := setupDecideTest(t, `{"risk": 0.2}`)

	if err := decide(nil, []string{rules, facts}); err != nil {
		t.Errorf("decide() with approvable facts returned error: %v", err)
	}
}

func TestDecideRejectedExitsFailure(t *testing.T) {
	rules, facts := setupDecideTest(t, `{"risk": 0.9}`)

	err := decide(nil, []string{rules, facts})
	if err == nil {
		t.Fatal("decide() with rejected facts should return error")
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}

func TestDecideMalformedFacts(t *testing.T) {
	rules, facts := setupDecideTest(t, `{"risk": `)

	err := decide(nil, []string{rules, facts})
	if err == nil {
		t.Fatal("decide() with malformed facts should return error")
	}
	var inputErr *cli.InputError
	if !errors.As(err, &inputErr) {
		t.Errorf("error should be an InputError, got %T", err)
	}
	if got := cli.ExitCode(err); got != cli.ExitBadInput {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitBadInput)
	}
}

func TestDecideJSONFormat(t *testing.T) {
	rules, facts := setupDecideTest(t, `{"risk": 0.2}`)
	decideFlags.format = "json"

	if err := decide(nil, []string{rules, facts}); err != nil {
		t.Errorf("decide() with JSON format returned error: %v", err)
	}
}
