// Package compliance evaluates decisions against UAE regulatory
// frameworks and produces aggregated, bilingual compliance reports.
package compliance

import (
	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// Framework identifies a regulatory framework.
type Framework string

const (
	// FrameworkPDPL is UAE Federal Decree-Law No. 45 of 2021 on the
	// Protection of Personal Data.
	FrameworkPDPL Framework = "PDPL"

	// FrameworkAIEthics is the UAE AI Ethics Principles and Guidelines.
	FrameworkAIEthics Framework = "UAE_AI_ETHICS"

	// FrameworkNESA is the UAE Information Assurance Regulation
	// administered by the national cybersecurity authority.
	FrameworkNESA Framework = "NESA"

	// FrameworkDubaiAILaw is Dubai's AI regulation framework.
	FrameworkDubaiAILaw Framework = "DUBAI_AI_LAW"

	// FrameworkADGM is the ADGM data protection regime. No checker is
	// implemented for it yet; configuring it is accepted and yields
	// zero checks.
	FrameworkADGM Framework = "ADGM"
)

// Valid reports whether f is a known framework tag.
func (f Framework) Valid() bool {
	switch f {
	case FrameworkPDPL, FrameworkAIEthics, FrameworkNESA, FrameworkDubaiAILaw, FrameworkADGM:
		return true
	}
	return false
}

// Status is a single check's compliance outcome.
type Status string

const (
	StatusCompliant      Status = "COMPLIANT"
	StatusNonCompliant   Status = "NON_COMPLIANT"
	StatusReviewRequired Status = "REVIEW_REQUIRED"
)

// rank orders statuses by severity for overall-status derivation.
func (s Status) rank() int {
	switch s {
	case StatusNonCompliant:
		return 2
	case StatusReviewRequired:
		return 1
	default:
		return 0
	}
}

// Check is a single framework control result.
type Check struct {
	Framework     Framework `json:"framework"`
	Article       string    `json:"article"`
	Status        Status    `json:"status"`
	Requirement   string    `json:"requirement"`
	RequirementAr string    `json:"requirementAr"`
	Passed        bool      `json:"passed"`
	Details       string    `json:"details"`
	Remediation   string    `json:"remediation,omitempty"`
	RemediationAr string    `json:"remediationAr,omitempty"`
}

// Report aggregates the checks produced for one decision.
type Report struct {
	ReportID      string      `json:"reportId"`
	Timestamp     string      `json:"timestamp"`
	OverallStatus Status      `json:"overallStatus"`
	Frameworks    []Framework `json:"frameworks"`
	Checks        []Check     `json:"checks"`
	Score         int         `json:"score"`
	Summary       string      `json:"summary"`
	SummaryAr     string      `json:"summaryAr"`
	AuditHash     string      `json:"auditHash"`
}

// Language selects which summary strings the report populates.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageBoth    Language = "both"
)

// AuditLevel controls check depth.
type AuditLevel string

const (
	// AuditBasic lets checkers omit low-severity checks.
	AuditBasic AuditLevel = "basic"

	// AuditFull runs every check.
	AuditFull AuditLevel = "full"
)

// Residency constrains where personal data may be processed.
type Residency string

const (
	ResidencyUAE Residency = "UAE"
	ResidencyAny Residency = "ANY"
)

// Config controls which frameworks run and how reports are rendered.
type Config struct {
	Frameworks    []Framework `yaml:"frameworks" json:"frameworks"`
	Language      Language    `yaml:"language" json:"language"`
	AuditLevel    AuditLevel  `yaml:"audit_level" json:"auditLevel"`
	DataResidency Residency   `yaml:"data_residency" json:"dataResidency"`
}

// DefaultConfig returns a configuration running every implemented
// framework at full depth with bilingual summaries.
func DefaultConfig() *Config {
	return &Config{
		Frameworks:    []Framework{FrameworkPDPL, FrameworkAIEthics, FrameworkNESA, FrameworkDubaiAILaw},
		Language:      LanguageBoth,
		AuditLevel:    AuditFull,
		DataResidency: ResidencyUAE,
	}
}

// Validate checks the configuration for unknown tags.
func (c *Config) Validate() error {
	for _, f := range c.Frameworks {
		if !f.Valid() {
			return &ConfigError{Field: "frameworks", Message: "unknown framework " + string(f)}
		}
	}
	switch c.Language {
	case LanguageEnglish, LanguageArabic, LanguageBoth, "":
	default:
		return &ConfigError{Field: "language", Message: "must be en, ar or both"}
	}
	switch c.AuditLevel {
	case AuditBasic, AuditFull, "":
	default:
		return &ConfigError{Field: "audit_level", Message: "must be basic or full"}
	}
	switch c.DataResidency {
	case ResidencyUAE, ResidencyAny, "":
	default:
		return &ConfigError{Field: "data_residency", Message: "must be UAE or ANY"}
	}
	return nil
}

// Checker evaluates one framework against a decision and its context.
type Checker interface {
	// Framework returns the tag the checker implements.
	Framework() Framework

	// Check produces the framework's control results. entry may be nil
	// when no audit entry exists yet (quick checks).
	Check(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) []Check
}

// QuickResult is the outcome of a fast PDPL + AI-Ethics pass.
type QuickResult struct {
	Passed bool    `json:"passed"`
	Issues []Check `json:"issues"`
}
