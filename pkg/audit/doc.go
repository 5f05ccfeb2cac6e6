// Package audit implements the tamper-evident decision journal: an
// append-only, line-delimited JSON file in which every entry carries
// the SHA-256 of its predecessor, so any deletion, reordering or
// modification of past entries is detectable by recomputing hashes.
//
// The journal is single-writer, multi-reader. Append holds a writer
// lock across the chain-pointer update and the file write; queries and
// verification run concurrently. Verify checks in-memory continuity
// only; VerifyFull re-reads the file from the genesis hash and is the
// authoritative integrity check.
//
// Persistence is a sidecar to the decision, not a gatekeeper: a failed
// file write marks the journal degraded and the pipeline continues
// with the in-memory chain.
package audit
