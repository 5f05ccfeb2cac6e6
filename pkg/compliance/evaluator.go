package compliance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/canonical"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Evaluator aggregates framework checkers into compliance reports.
type Evaluator struct {
	config   *Config
	checkers map[Framework]Checker
	logger   *slog.Logger
}

// NewEvaluator builds an evaluator for the configured frameworks.
// Frameworks without an implemented checker (ADGM) are accepted and
// contribute no checks.
func NewEvaluator(config *Config) (*Evaluator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{
		config: config,
		checkers: map[Framework]Checker{
			FrameworkPDPL:       NewPDPLChecker(),
			FrameworkAIEthics:   NewEthicsChecker(),
			FrameworkNESA:       NewNESAChecker(),
			FrameworkDubaiAILaw: NewDubaiChecker(),
		},
		logger: slog.Default().With("component", "compliance"),
	}, nil
}

// Config returns the evaluator's configuration.
func (e *Evaluator) Config() *Config { return e.config }

// Evaluate runs every configured framework checker and aggregates the
// results. A checker panic never propagates; it yields a degenerate
// REVIEW_REQUIRED report so the pipeline can continue.
func (e *Evaluator) Evaluate(input facts.Map, decision *policy.Decision, entry *audit.Entry) (report *Report) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("compliance evaluation panicked", "panic", r)
			report = e.degenerateReport(fmt.Sprintf("compliance evaluation failed: %v", r))
		}
	}()

	var checks []Check
	for _, fw := range e.config.Frameworks {
		checker, ok := e.checkers[fw]
		if !ok {
			e.logger.Debug("no checker implemented for framework", "framework", fw)
			continue
		}
		checks = append(checks, checker.Check(input, decision, entry, e.config)...)
	}

	report = e.buildReport(checks)
	e.logger.Debug("compliance evaluated",
		"report_id", report.ReportID,
		"status", report.OverallStatus,
		"score", report.Score,
		"checks", len(report.Checks),
	)
	return report
}

// QuickCheck runs PDPL and AI-Ethics only, collecting NON_COMPLIANT
// items. It is meant for fast pre-flight screening without a report.
func (e *Evaluator) QuickCheck(input facts.Map, decision *policy.Decision) QuickResult {
	var issues []Check
	for _, fw := range []Framework{FrameworkPDPL, FrameworkAIEthics} {
		for _, ch := range e.checkers[fw].Check(input, decision, nil, e.config) {
			if ch.Status == StatusNonCompliant {
				issues = append(issues, ch)
			}
		}
	}
	return QuickResult{Passed: len(issues) == 0, Issues: issues}
}

func (e *Evaluator) buildReport(checks []Check) *Report {
	overall := StatusCompliant
	passed, nonCompliant, reviewRequired := 0, 0, 0
	for _, ch := range checks {
		if ch.Passed {
			passed++
		}
		switch ch.Status {
		case StatusNonCompliant:
			nonCompliant++
		case StatusReviewRequired:
			reviewRequired++
		}
		if ch.Status.rank() > overall.rank() {
			overall = ch.Status
		}
	}

	score := 100
	if total := len(checks); total > 0 {
		// Integer half-up rounding of 100*passed/total.
		score = (200*passed + total) / (2 * total)
	}

	report := &Report{
		ReportID:      uuid.NewString(),
		Timestamp:     time.Now().UTC().Format(timestampLayout),
		OverallStatus: overall,
		Frameworks:    append([]Framework(nil), e.config.Frameworks...),
		Checks:        checks,
		Score:         score,
	}
	report.Summary = fmt.Sprintf("Passed %d/%d checks. Non-compliant: %d. Review-required: %d.",
		passed, len(checks), nonCompliant, reviewRequired)
	report.SummaryAr = fmt.Sprintf("اجتاز %d من %d فحصاً. غير متوافق: %d. يتطلب مراجعة: %d.",
		passed, len(checks), nonCompliant, reviewRequired)
	switch e.config.Language {
	case LanguageEnglish:
		report.SummaryAr = ""
	case LanguageArabic:
		report.Summary = ""
	}

	report.AuditHash = reportHash(report)
	return report
}

// degenerateReport is the ComplianceError surface: zero checks, a
// synthetic summary, REVIEW_REQUIRED overall.
func (e *Evaluator) degenerateReport(summary string) *Report {
	report := &Report{
		ReportID:      uuid.NewString(),
		Timestamp:     time.Now().UTC().Format(timestampLayout),
		OverallStatus: StatusReviewRequired,
		Frameworks:    append([]Framework(nil), e.config.Frameworks...),
		Checks:        []Check{},
		Score:         0,
		Summary:       summary,
		SummaryAr:     summary,
	}
	report.AuditHash = reportHash(report)
	return report
}

// reportHash computes the report's tamper-evidence hash over its
// identifying fields in canonical form.
func reportHash(r *Report) string {
	h, err := canonical.Hash(struct {
		ReportID   string      `json:"reportId"`
		Timestamp  string      `json:"timestamp"`
		Checks     []Check     `json:"checks"`
		Frameworks []Framework `json:"frameworks"`
	}{r.ReportID, r.Timestamp, r.Checks, r.Frameworks})
	if err != nil {
		return ""
	}
	return h
}
