package policy

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mizan-hq/mizan/pkg/expr"
	"mizan-hq/mizan/pkg/facts"
)

// compiledRule pairs a rule snapshot with its compiled predicate.
type compiledRule struct {
	rule Rule
	pred *expr.Predicate
}

// Engine compiles a rule set and evaluates facts against it in priority
// order. Evaluate and DetectConflicts are safe for concurrent use; the
// loaded set is replaced atomically under a write lock, so readers see
// either the old complete set or the new one, never a torn state.
type Engine struct {
	mu     sync.RWMutex
	rules  []compiledRule
	logger *slog.Logger
}

// NewEngine creates an empty rule engine. With no rules loaded, every
// evaluation yields the default REVIEW decision.
func NewEngine() *Engine {
	return &Engine{
		logger: slog.Default().With("component", "policy.engine"),
	}
}

// validateRule checks structural constraints before compilation.
func validateRule(r Rule) error {
	var errs []string
	if r.ID == "" {
		errs = append(errs, "missing id")
	}
	if !r.Action.Valid() {
		errs = append(errs, fmt.Sprintf("unknown action %q", r.Action))
	}
	if r.Score != nil && (*r.Score < 0 || *r.Score > 100) {
		errs = append(errs, fmt.Sprintf("score %d out of range [0,100]", *r.Score))
	}
	if len(errs) > 0 {
		return &ValidationError{RuleID: r.ID, Errors: errs}
	}
	return nil
}

// compileRules validates and compiles every rule, then sorts by
// priority ascending. The stable sort preserves insertion order among
// equal priorities, which is the documented tie-break.
func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, err
		}
		pred, err := expr.Compile(r.Condition)
		if err != nil {
			return nil, &RuleCompileError{RuleID: r.ID, Condition: r.Condition, Cause: err}
		}
		compiled = append(compiled, compiledRule{rule: r, pred: pred})
	}
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].rule.Priority < compiled[j].rule.Priority
	})
	return compiled, nil
}

// LoadRules validates, compiles and installs a rule set, replacing any
// previously loaded set. A single bad rule fails the whole load and
// leaves the previous set in place.
func (e *Engine) LoadRules(rules []Rule) error {
	compiled, err := compileRules(rules)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()

	e.logger.Info("rules loaded", "rule_count", len(compiled))
	return nil
}

// AddRule appends one rule to the loaded set and re-sorts.
func (e *Engine) AddRule(r Rule) error {
	if err := validateRule(r); err != nil {
		return err
	}
	pred, err := expr.Compile(r.Condition)
	if err != nil {
		return &RuleCompileError{RuleID: r.ID, Condition: r.Condition, Cause: err}
	}

	e.mu.Lock()
	next := make([]compiledRule, len(e.rules), len(e.rules)+1)
	copy(next, e.rules)
	next = append(next, compiledRule{rule: r, pred: pred})
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].rule.Priority < next[j].rule.Priority
	})
	e.rules = next
	e.mu.Unlock()

	return nil
}

// Rules returns value copies of the loaded rules in evaluation order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Rule, len(e.rules))
	for i, cr := range e.rules {
		out[i] = cr.rule
	}
	return out
}

// Size returns the number of loaded rules.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}

// Evaluate tests facts against the loaded rules in priority order and
// returns the decision of the first matching rule, or the default
// REVIEW decision when nothing matches. A predicate that fails
// internally evaluates to false and the rule is skipped.
func (e *Engine) Evaluate(m facts.Map) *Decision {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	for _, cr := range rules {
		if !cr.pred.Eval(m) {
			continue
		}
		rule := cr.rule // value snapshot
		score := rule.Action.DefaultScore()
		if rule.Score != nil {
			score = *rule.Score
		}
		return &Decision{
			Result:      rule.Action,
			MatchedRule: &rule,
			Reason:      rule.Reason,
			Score:       score,
			AuditID:     uuid.NewString(),
		}
	}

	return &Decision{
		Result:      ActionReview,
		MatchedRule: nil,
		Reason:      NoMatchReason,
		Score:       DefaultScoreReview,
		AuditID:     uuid.NewString(),
	}
}

// ConflictKind distinguishes contradictions from duplicates.
type ConflictKind string

const (
	// ConflictContradiction marks two rules with the same condition but
	// different actions.
	ConflictContradiction ConflictKind = "contradiction"

	// ConflictDuplicate marks two rules with the same condition and the
	// same action (informational).
	ConflictDuplicate ConflictKind = "duplicate"
)

// Conflict describes a pair of rules whose conditions collide.
type Conflict struct {
	RuleA       Rule
	RuleB       Rule
	Kind        ConflictKind
	Description string
}

// DetectConflicts compares every rule pair. Two rules conflict when
// their condition strings are byte-equal after trimming but their
// actions differ; same condition with the same action is reported as a
// duplicate. O(n²) over rule count, acceptable for hundreds of rules.
func (e *Engine) DetectConflicts() []Conflict {
	e.mu.RLock()
	rules := e.rules
	e.mu.RUnlock()

	var out []Conflict
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			a, b := rules[i].rule, rules[j].rule
			if strings.TrimSpace(a.Condition) != strings.TrimSpace(b.Condition) {
				continue
			}
			if a.Action != b.Action {
				out = append(out, Conflict{
					RuleA: a,
					RuleB: b,
					Kind:  ConflictContradiction,
					Description: fmt.Sprintf("rules %q and %q share condition %q but disagree on action (%s vs %s)",
						a.ID, b.ID, strings.TrimSpace(a.Condition), a.Action, b.Action),
				})
			} else {
				out = append(out, Conflict{
					RuleA: a,
					RuleB: b,
					Kind:  ConflictDuplicate,
					Description: fmt.Sprintf("rules %q and %q duplicate condition %q with action %s",
						a.ID, b.ID, strings.TrimSpace(a.Condition), a.Action),
				})
			}
		}
	}
	return out
}
