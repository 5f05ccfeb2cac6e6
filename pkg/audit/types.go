package audit

import (
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// Entry is one link of the hash chain: a persisted decision plus chain
// metadata. Entries are appended once and never mutated, except that
// the compliance layer may attach a report to a just-created entry's
// Compliance field; that field is not part of the hash pre-image and
// is not written to the journal.
type Entry struct {
	// ID is the entry identifier (the decision's audit ID, or a fresh
	// one when the decision carries none).
	ID string `json:"id"`

	// Timestamp is the append time, ISO-8601 UTC with millisecond
	// precision.
	Timestamp string `json:"timestamp"`

	// Input is the facts mapping as seen by the engine.
	Input facts.Map `json:"input"`

	// Output is a value snapshot of the decision, taken before any
	// compliance report is attached to the caller's decision.
	Output *policy.Decision `json:"output"`

	// Rule is the matched rule snapshot, or nil.
	Rule *policy.Rule `json:"rule"`

	// PreviousHash links to the prior entry (64 lowercase hex digits;
	// the genesis value for the first entry ever written).
	PreviousHash string `json:"previousHash"`

	// Hash is SHA256(previousHash || canonical(entry without hash)).
	Hash string `json:"hash"`

	// Compliance optionally holds the compliance report attached after
	// append. Excluded from hashing and from the journal line.
	Compliance interface{} `json:"compliance,omitempty"`
}

// preImage is the exact shape hashed for an entry. Field set and JSON
// names must stay in lockstep with Entry minus Hash and Compliance.
type preImage struct {
	ID           string           `json:"id"`
	Timestamp    string           `json:"timestamp"`
	Input        facts.Map        `json:"input"`
	Output       *policy.Decision `json:"output"`
	Rule         *policy.Rule     `json:"rule"`
	PreviousHash string           `json:"previousHash"`
}

func (e *Entry) preImage() preImage {
	return preImage{
		ID:           e.ID,
		Timestamp:    e.Timestamp,
		Input:        e.Input,
		Output:       e.Output,
		Rule:         e.Rule,
		PreviousHash: e.PreviousHash,
	}
}

// Filter selects entries for Query and QueryFromDisk. Zero-value fields
// do not constrain; set fields combine by conjunction.
type Filter struct {
	// StartDate is the inclusive lower timestamp bound (ISO-8601
	// string comparison).
	StartDate string

	// EndDate is the inclusive upper timestamp bound.
	EndDate string

	// Result filters by decision result (APPROVED, REJECTED, REVIEW).
	Result string
}

// matches reports whether the entry satisfies every set filter field.
func (f Filter) matches(e *Entry) bool {
	if f.StartDate != "" && e.Timestamp < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Timestamp > f.EndDate {
		return false
	}
	if f.Result != "" && (e.Output == nil || string(e.Output.Result) != f.Result) {
		return false
	}
	return true
}

// Diagnostic explains a verification outcome. Index is the zero-based
// position of the offending entry (-1 when OK or when the journal
// cannot be read at all).
type Diagnostic struct {
	OK     bool
	Index  int
	Reason string
}
