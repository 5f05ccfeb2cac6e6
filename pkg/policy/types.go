package policy

// Action is the outcome class a rule assigns when its condition matches.
type Action string

const (
	// ActionApproved allows the request to proceed.
	ActionApproved Action = "APPROVED"

	// ActionRejected blocks the request.
	ActionRejected Action = "REJECTED"

	// ActionReview defers the request to manual review.
	ActionReview Action = "REVIEW"
)

// Valid reports whether the action is one of the closed set.
func (a Action) Valid() bool {
	return a == ActionApproved || a == ActionRejected || a == ActionReview
}

// Default decision scores applied when a rule carries no override.
const (
	DefaultScoreApproved = 85
	DefaultScoreRejected = 15
	DefaultScoreReview   = 50
)

// DefaultScore returns the default decision score for the action.
func (a Action) DefaultScore() int {
	switch a {
	case ActionApproved:
		return DefaultScoreApproved
	case ActionRejected:
		return DefaultScoreRejected
	default:
		return DefaultScoreReview
	}
}

// Rule is a single predicate-with-action policy unit. Rules are
// immutable while loaded; embedding a rule into an audit entry copies
// it by value.
type Rule struct {
	// ID is the stable rule identifier.
	ID string `json:"id"`

	// Name is the human-readable label.
	Name string `json:"name"`

	// Condition is a predicate expression in the restricted grammar.
	// It is stored verbatim, both here and in audit snapshots.
	Condition string `json:"condition"`

	// Action is the decision the rule produces when it matches.
	Action Action `json:"action"`

	// Reason is the human explanation attached to the decision.
	Reason string `json:"reason"`

	// Priority orders evaluation; lower numeric value wins ties.
	Priority int `json:"priority"`

	// Score optionally overrides the default decision score (0-100).
	Score *int `json:"score,omitempty"`
}

// Decision is the outcome of evaluating facts against a rule set.
type Decision struct {
	// Result is the decision class.
	Result Action `json:"result"`

	// MatchedRule is a value snapshot of the matching rule, or nil when
	// no rule matched (Result is then REVIEW).
	MatchedRule *Rule `json:"matchedRule"`

	// Reason explains the decision.
	Reason string `json:"reason"`

	// Score is the decision score in [0, 100].
	Score int `json:"score"`

	// AuditID uniquely identifies the decision for audit purposes.
	AuditID string `json:"auditId"`

	// Confidence optionally carries a model-derived confidence in
	// [0, 1]. The engine never sets it; callers may.
	Confidence *float64 `json:"confidence,omitempty"`

	// ComplianceReport is attached by the compliance layer after the
	// decision is recorded. It is never part of any hash pre-image.
	ComplianceReport interface{} `json:"complianceReport,omitempty"`
}

// NoMatchReason is the reason string of the default REVIEW decision.
const NoMatchReason = "No matching rule found — manual review required"
