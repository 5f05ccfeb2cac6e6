// Package policy implements the rule engine: a prioritised set of
// predicate-with-action rules compiled once at load time and evaluated
// against fact mappings to produce decisions.
//
// Rules fail fast: a condition that does not parse rejects the whole
// load. After load, evaluation is read-only and safe for any number of
// concurrent callers; LoadRules swaps the compiled set atomically.
//
// Evaluation walks rules by ascending priority (insertion order breaks
// ties) and returns a Decision for the first rule whose predicate holds.
// When nothing matches, the default REVIEW decision is returned with a
// nil MatchedRule.
package policy
