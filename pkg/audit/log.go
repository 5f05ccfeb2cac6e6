package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"mizan-hq/mizan/pkg/canonical"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// timestampLayout is ISO-8601 UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Indexer receives appended entries for secondary indexing (best
// effort; index failures never affect the journal).
type Indexer interface {
	Insert(e *Entry) error
}

// Options configures journal construction.
type Options struct {
	// Preload loads every journal line into memory. When false (the
	// default), only the last line is read to restore the chain
	// pointer, which keeps restart cost independent of history size.
	Preload bool
}

// Log is the tamper-evident append-only decision journal. Appends are
// serialised by a writer lock across the chain-pointer update and the
// file write; readers of the in-memory state share a read lock.
type Log struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	file     *os.File
	prevHash string
	entries  []*Entry
	degraded bool
	indexer  Indexer
}

// OpenError reports a journal that could not be constructed.
type OpenError struct {
	Path  string
	Cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open audit journal %q: %v", e.Path, e.Cause)
}

func (e *OpenError) Unwrap() error { return e.Cause }

// Open constructs a journal at path. A missing or empty file starts the
// chain at the genesis hash. A malformed journal line aborts with an
// error (fail fast; VerifyFull reports malformed lines found later).
func Open(path string, opts Options) (*Log, error) {
	l := &Log{
		path:     path,
		prevHash: canonical.GenesisHash,
		logger:   slog.Default().With("component", "audit.log"),
	}

	if err := l.restore(opts.Preload); err != nil {
		return nil, &OpenError{Path: path, Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &OpenError{Path: path, Cause: err}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &OpenError{Path: path, Cause: err}
	}
	l.file = f

	return l, nil
}

// restore sets the chain pointer (and, with preload, the in-memory
// list) from the existing journal file.
func (l *Log) restore(preload bool) error {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // genesis
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lineNo++
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("malformed journal line %d: %w", lineNo, err)
		}
		l.prevHash = e.Hash
		if preload {
			entry := e
			l.entries = append(l.entries, &entry)
		}
	}
	return scanner.Err()
}

// Append records a decision in the journal and returns the new entry.
// The entry's Output is a value snapshot of the decision with any
// compliance report stripped; reports attached after append live in
// Entry.Compliance and are never hashed.
//
// A file write failure does not fail the call: the entry stays in the
// in-memory chain, the journal is marked degraded, and the error is
// logged. The chain pointer advances either way so the in-memory chain
// remains linked.
func (l *Log) Append(decision *policy.Decision, input facts.Map) (*Entry, error) {
	id := decision.AuditID
	if id == "" {
		id = uuid.NewString()
	}

	snapshot := *decision
	snapshot.ComplianceReport = nil

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := &Entry{
		ID:           id,
		Timestamp:    time.Now().UTC().Format(timestampLayout),
		Input:        input,
		Output:       &snapshot,
		Rule:         snapshot.MatchedRule,
		PreviousHash: l.prevHash,
	}

	pre, err := canonical.Marshal(entry.preImage())
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalise audit entry: %w", err)
	}
	entry.Hash = canonical.ChainHash(entry.PreviousHash, pre)

	if err := l.writeLine(entry); err != nil {
		l.degraded = true
		l.logger.Error("journal write failed, continuing in memory only",
			"error", err,
			"entry_id", entry.ID,
			"path", l.path,
		)
	}

	l.prevHash = entry.Hash
	l.entries = append(l.entries, entry)

	if l.indexer != nil {
		if err := l.indexer.Insert(entry); err != nil {
			l.logger.Warn("audit index insert failed", "error", err, "entry_id", entry.ID)
		}
	}

	return entry, nil
}

// writeLine appends one entry as a single JSON line and syncs.
func (l *Log) writeLine(entry *Entry) error {
	if l.file == nil {
		return fmt.Errorf("journal file not open")
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return l.file.Sync()
}

// SetIndexer attaches a secondary index fed by Append.
func (l *Log) SetIndexer(idx Indexer) {
	l.mu.Lock()
	l.indexer = idx
	l.mu.Unlock()
}

// Query filters the in-memory entries.
func (l *Log) Query(f Filter) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*Entry
	for _, e := range l.entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// QueryFromDisk parses the journal file on every call and filters it,
// independent of in-memory state.
func (l *Log) QueryFromDisk(f Filter) ([]*Entry, error) {
	entries, _, err := l.readAll()
	if err != nil {
		return nil, err
	}
	var out []*Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// readAll parses every journal line. The second result is the
// zero-based index of a malformed line (-1 when none).
func (l *Log) readAll() ([]*Entry, int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, -1, nil
		}
		return nil, -1, err
	}
	defer f.Close()

	var entries []*Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return entries, len(entries), fmt.Errorf("malformed journal line: %w", err)
		}
		entry := e
		entries = append(entries, &entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, -1, err
	}
	return entries, -1, nil
}

// Verify checks in-memory chain continuity: linkage between consecutive
// entries and each entry's hash recomputation. The chain is anchored at
// the first in-memory entry's previousHash, which is not genesis after
// a restart. This is a continuity check, not the authoritative
// integrity check (that is VerifyFull).
func (l *Log) Verify() bool {
	return l.Diagnose().OK
}

// Diagnose is the companion to Verify, exposing the offending index.
func (l *Log) Diagnose() Diagnostic {
	l.mu.RLock()
	entries := l.entries
	l.mu.RUnlock()

	return verifyChain(entries, "")
}

// VerifyFull parses the journal from disk and verifies every entry from
// the genesis hash. This is the authoritative integrity check; it never
// mutates the journal.
func (l *Log) VerifyFull() bool {
	return l.DiagnoseFull().OK
}

// DiagnoseFull is the companion to VerifyFull.
func (l *Log) DiagnoseFull() Diagnostic {
	entries, badIndex, err := l.readAll()
	if err != nil {
		if badIndex >= 0 {
			return Diagnostic{OK: false, Index: badIndex, Reason: err.Error()}
		}
		return Diagnostic{OK: false, Index: -1, Reason: err.Error()}
	}
	return verifyChain(entries, canonical.GenesisHash)
}

// verifyChain verifies linkage and hash correctness. With anchor empty
// the chain is anchored at the first entry's own previousHash.
func verifyChain(entries []*Entry, anchor string) Diagnostic {
	if len(entries) == 0 {
		return Diagnostic{OK: true, Index: -1}
	}

	prev := anchor
	if prev == "" {
		prev = entries[0].PreviousHash
	}

	for i, e := range entries {
		if e.PreviousHash != prev {
			return Diagnostic{
				OK:     false,
				Index:  i,
				Reason: fmt.Sprintf("chain break: previousHash %q does not match prior hash %q", e.PreviousHash, prev),
			}
		}
		pre, err := canonical.Marshal(e.preImage())
		if err != nil {
			return Diagnostic{OK: false, Index: i, Reason: fmt.Sprintf("cannot canonicalise entry: %v", err)}
		}
		want := canonical.ChainHash(e.PreviousHash, pre)
		if e.Hash != want {
			return Diagnostic{
				OK:     false,
				Index:  i,
				Reason: fmt.Sprintf("hash mismatch: stored %q, recomputed %q", e.Hash, want),
			}
		}
		prev = e.Hash
	}
	return Diagnostic{OK: true, Index: -1}
}

// ExportCSV renders the in-memory entries as CSV with header
// id,timestamp,result,rule,reason,score,hash. The reason column is
// always double-quoted with embedded quotes doubled; commas inside the
// quotes are preserved.
func (l *Log) ExportCSV() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sb []byte
	sb = append(sb, "id,timestamp,result,rule,reason,score,hash\n"...)
	for _, e := range l.entries {
		ruleName := ""
		if e.Rule != nil {
			ruleName = e.Rule.Name
		}
		result, reason, score := "", "", 0
		if e.Output != nil {
			result = string(e.Output.Result)
			reason = e.Output.Reason
			score = e.Output.Score
		}
		sb = append(sb, fmt.Sprintf("%s,%s,%s,%s,%s,%d,%s\n",
			e.ID, e.Timestamp, result, ruleName, quoteCSV(reason), score, e.Hash)...)
	}
	return string(sb)
}

// quoteCSV double-quotes a field, doubling embedded quotes.
func quoteCSV(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"', '"')
			continue
		}
		out = append(out, s[i])
	}
	return string(append(out, '"'))
}

// WriteCSV writes the CSV export to w.
func (l *Log) WriteCSV(w io.Writer) error {
	_, err := io.WriteString(w, l.ExportCSV())
	return err
}

// Size returns the in-memory entry count.
func (l *Log) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns the in-memory entries (shared pointers; callers must
// not mutate).
func (l *Log) Entries() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// PreviousHash returns the current chain pointer (the previousHash the
// next append will use).
func (l *Log) PreviousHash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.prevHash
}

// Degraded reports whether any journal write has failed since Open.
func (l *Log) Degraded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.degraded
}

// Path returns the journal file path.
func (l *Log) Path() string { return l.path }

// Close releases the journal file handle. Appends after Close degrade
// to in-memory only.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
