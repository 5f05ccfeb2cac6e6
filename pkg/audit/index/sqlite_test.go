package index

import (
	"context"
	"path/filepath"
	"testing"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "index.db")
	idx, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_InsertAndQuery(t *testing.T) {
	idx := openTestIndex(t)

	log, err := audit.Open(filepath.Join(t.TempDir(), "audit.jsonl"), audit.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()
	log.SetIndexer(idx)

	decisions := []*policy.Decision{
		{Result: policy.ActionApproved, Reason: "fine", Score: 85},
		{Result: policy.ActionRejected, Reason: "blocked", Score: 15},
		{Result: policy.ActionApproved, Reason: "fine too", Score: 85},
	}
	for _, d := range decisions {
		if _, err := log.Append(d, facts.Map{"k": facts.String("v")}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	ctx := context.Background()
	n, err := idx.Count(ctx, audit.Filter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	rows, err := idx.Query(ctx, audit.Filter{Result: "REJECTED"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 1 || rows[0].Output.Reason != "blocked" {
		t.Errorf("Query REJECTED = %+v, want single blocked entry", rows)
	}
}

func TestIndex_InsertIdempotent(t *testing.T) {
	idx := openTestIndex(t)

	entry := &audit.Entry{
		ID:           "dup-1",
		Timestamp:    "2026-01-01T00:00:00.000Z",
		Output:       &policy.Decision{Result: policy.ActionReview, Reason: "r", Score: 50},
		PreviousHash: "0000",
		Hash:         "abcd",
	}
	if err := idx.Insert(entry); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := idx.Insert(entry); err != nil {
		t.Fatalf("second Insert: %v", err)
	}

	n, err := idx.Count(context.Background(), audit.Filter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d after duplicate insert, want 1", n)
	}
}

func TestIndex_Rebuild(t *testing.T) {
	dir := t.TempDir()
	log, err := audit.Open(filepath.Join(dir, "audit.jsonl"), audit.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()
	for i := 0; i < 4; i++ {
		if _, err := log.Append(&policy.Decision{Result: policy.ActionApproved, Reason: "ok", Score: 85}, facts.Map{}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	idx := openTestIndex(t)
	ctx := context.Background()
	inserted, err := idx.Rebuild(ctx, log)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if inserted != 4 {
		t.Errorf("Rebuild inserted %d, want 4", inserted)
	}
	n, err := idx.Count(ctx, audit.Filter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 4 {
		t.Errorf("Count = %d after rebuild, want 4", n)
	}
}
