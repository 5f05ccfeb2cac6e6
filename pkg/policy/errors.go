package policy

import "fmt"

// RuleCompileError reports a rule whose condition failed to parse at
// load time.
type RuleCompileError struct {
	RuleID    string
	Condition string
	Cause     error
}

func (e *RuleCompileError) Error() string {
	return fmt.Sprintf("rule %q: condition %q does not compile: %v", e.RuleID, e.Condition, e.Cause)
}

func (e *RuleCompileError) Unwrap() error {
	return e.Cause
}

// ValidationError reports a rule that failed structural validation
// (missing identifier, unknown action, out-of-range score).
type ValidationError struct {
	RuleID string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %q invalid: %v", e.RuleID, e.Errors)
}
