package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/cli"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

func seedJournal(t *testing.T, entries int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	log, err := audit.Open(path, audit.Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer log.Close()

	for i := 0; i < entries; i++ {
		decision := &policy.Decision{
			Result: policy.ActionApproved,
			Reason: "ok",
			Score:  85,
		}
		if _, err := log.Append(decision, facts.Map{"i": facts.Number(float64(i))}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return path
}

func TestVerifyJournalIntact(t *testing.T) {
	path := seedJournal(t, 3)

	if err := verifyJournal(nil, []string{path}); err != nil {
		t.Errorf("verifyJournal() on intact journal returned error: %v", err)
	}
}

func TestVerifyJournalEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")

	if err := verifyJournal(nil, []string{path}); err != nil {
		t.Errorf("verifyJournal() on empty journal returned error: %v", err)
	}
}

func TestExportJournal(t *testing.T) {
	path := seedJournal(t, 2)

	if err := exportJournal(nil, []string{path}); err != nil {
		t.Errorf("exportJournal() returned error: %v", err)
	}
}

func TestVerifyJournalTampered(t *testing.T) {
	path := seedJournal(t, 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading journal: %v", err)
	}
	tampered := strings.Replace(string(data), `"reason":"ok"`, `"reason":"no"`, 1)
	if tampered == string(data) {
		t.Fatal("tampering had no effect")
	}
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("writing journal: %v", err)
	}

	err = verifyJournal(nil, []string{path})
	if err == nil {
		t.Fatal("verifyJournal() on tampered journal should return error")
	}
	if got := cli.ExitCode(err); got != cli.ExitFailure {
		t.Errorf("ExitCode() = %d, want %d", got, cli.ExitFailure)
	}
}
