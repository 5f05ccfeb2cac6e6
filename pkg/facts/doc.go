// Package facts models the input mapping evaluated by rules as a tagged
// variant with value semantics (null, bool, number, string, array,
// object), plus a distinguished undefined value produced by failed path
// lookups.
//
// The variant mirrors the JSON data model: any JSON object round-trips
// through a facts.Map unchanged. Dotted-path lookup ("user.role") walks
// the tree and resolves missing segments to undefined rather than
// failing, which is the property the expression evaluator relies on.
package facts
