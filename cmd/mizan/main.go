// Mizan is a governed-agent runtime: a rule engine, a tamper-evident
// audit journal, and a UAE-focused compliance layer wrapped around
// language-model invocations.
//
// Usage:
//
//	# Validate a rule file and report conflicts
//	mizan validate rules.json
//
//	# Evaluate facts against rules and record the decision
//	mizan decide rules.json facts.json
//
//	# Verify the hash chain of the audit journal
//	mizan verify
//
//	# Export the audit journal as CSV
//	mizan export
//
//	# Show version information
//	mizan version
//
// Exit codes: 0 on success, 1 on policy denial, validation failure, or
// integrity failure, 2 on malformed input.
package main

func main() {
	Execute()
}
