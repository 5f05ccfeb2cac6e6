package compliance

import (
	"fmt"
	"strings"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// Reliability and accountability confidence thresholds.
const (
	reliabilityThreshold    = 0.60
	accountabilityThreshold = 0.75
)

// EthicsChecker implements the six UAE AI Ethics Principles.
type EthicsChecker struct {
	pdpl *PDPLChecker
}

// NewEthicsChecker returns an AI-Ethics framework checker.
func NewEthicsChecker() *EthicsChecker {
	return &EthicsChecker{pdpl: NewPDPLChecker()}
}

func (c *EthicsChecker) Framework() Framework { return FrameworkAIEthics }

// confidence derives a confidence value from the decision: the explicit
// confidence when present, otherwise the decision score scaled to 0-1.
func confidence(decision *policy.Decision) float64 {
	if decision == nil {
		return 0
	}
	if decision.Confidence != nil {
		return *decision.Confidence
	}
	return float64(decision.Score) / 100
}

func (c *EthicsChecker) Check(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) []Check {
	s := newScan(input)
	conf := confidence(decision)

	return []Check{
		c.checkInclusiveness(s),
		c.checkReliability(conf),
		c.checkTransparency(s, decision),
		c.checkSecurity(s),
		c.checkAccountability(s, decision, conf),
		c.checkPrivacy(input, decision, entry, config),
	}
}

func (c *EthicsChecker) checkInclusiveness(s *scan) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Inclusiveness",
		Requirement:   "Decisions must not discriminate on protected demographic attributes",
		RequirementAr: "يجب ألا تميّز القرارات على أساس سمات ديموغرافية محمية",
	}
	demo := s.foundDemographics()
	if len(demo) == 0 {
		pass(&ch, "no bias-sensitive attributes detected in input")
		return ch
	}
	flag(&ch, StatusReviewRequired,
		fmt.Sprintf("bias-sensitive attributes present: %s", strings.Join(demo, ", ")),
		"Review the decision for demographic bias before acting on it",
		"راجع القرار للتحقق من التحيز الديموغرافي قبل التصرف بناءً عليه")
	return ch
}

func (c *EthicsChecker) checkReliability(conf float64) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Reliability",
		Requirement:   "Automated decisions require a minimum confidence level",
		RequirementAr: "تتطلب القرارات الآلية حداً أدنى من مستوى الثقة",
	}
	if conf >= reliabilityThreshold {
		pass(&ch, fmt.Sprintf("decision confidence %.2f meets threshold %.2f", conf, reliabilityThreshold))
		return ch
	}
	flag(&ch, StatusReviewRequired,
		fmt.Sprintf("decision confidence %.2f below threshold %.2f", conf, reliabilityThreshold),
		"Route low-confidence decisions to manual review",
		"وجّه القرارات منخفضة الثقة إلى المراجعة اليدوية")
	return ch
}

func (c *EthicsChecker) checkTransparency(s *scan, decision *policy.Decision) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Transparency",
		Requirement:   "Decisions must be traceable and explainable",
		RequirementAr: "يجب أن تكون القرارات قابلة للتتبع والتفسير",
	}
	traceable := decision != nil && decision.AuditID != ""
	explained := s.hasKey("explanation", "explainable") ||
		(decision != nil && len(decision.Reason) > 10)
	if traceable && explained {
		pass(&ch, "decision carries an audit id and an explanation")
		return ch
	}
	flag(&ch, StatusReviewRequired,
		fmt.Sprintf("traceable=%t explained=%t", traceable, explained),
		"Ensure every decision carries an audit id and a substantive reason or explanation",
		"تأكد من أن كل قرار يحمل معرّف تدقيق وسبباً أو تفسيراً جوهرياً")
	return ch
}

func (c *EthicsChecker) checkSecurity(s *scan) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Security",
		Requirement:   "Inputs must not expose credentials or secret material",
		RequirementAr: "يجب ألا تكشف المدخلات عن بيانات اعتماد أو مواد سرية",
	}
	secrets := s.foundSecrets()
	if len(secrets) == 0 {
		pass(&ch, "no credential-like tokens detected")
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("credential-like tokens detected: %s", strings.Join(secrets, ", ")),
		"Strip credentials and secret material from inputs before processing",
		"أزل بيانات الاعتماد والمواد السرية من المدخلات قبل المعالجة")
	return ch
}

func (c *EthicsChecker) checkAccountability(s *scan, decision *policy.Decision, conf float64) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Accountability",
		Requirement:   "High-impact decisions require a human oversight path",
		RequirementAr: "تتطلب القرارات عالية التأثير مساراً للإشراف البشري",
	}
	needsOversight := (decision != nil && decision.Result != policy.ActionApproved) ||
		conf < accountabilityThreshold
	if !needsOversight {
		pass(&ch, "decision approved with sufficient confidence")
		return ch
	}
	if s.hasKey("humanoversight", "humanreview", "humanintheloop", "humaninloop", "oversight") {
		pass(&ch, "human oversight marker present for a reviewable decision")
		return ch
	}
	flag(&ch, StatusReviewRequired,
		"decision requires human oversight but no oversight marker is present",
		"Attach a human oversight or review reference to non-approved and low-confidence decisions",
		"أرفق مرجعاً للإشراف أو المراجعة البشرية بالقرارات غير الموافق عليها ومنخفضة الثقة")
	return ch
}

// checkPrivacy delegates to the PDPL checker and passes only when
// every PDPL check passed, propagating the worst PDPL status.
func (c *EthicsChecker) checkPrivacy(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) Check {
	ch := Check{
		Framework:     FrameworkAIEthics,
		Article:       "Privacy",
		Requirement:   "Personal data handling must satisfy the PDPL",
		RequirementAr: "يجب أن تستوفي معالجة البيانات الشخصية قانون حماية البيانات",
	}
	pdplChecks := c.pdpl.Check(input, decision, entry, config)
	worst := StatusCompliant
	failed := 0
	for _, pc := range pdplChecks {
		if !pc.Passed {
			failed++
			if pc.Status.rank() > worst.rank() {
				worst = pc.Status
			}
		}
	}
	if failed == 0 {
		pass(&ch, fmt.Sprintf("all %d PDPL checks passed", len(pdplChecks)))
		return ch
	}
	flag(&ch, worst,
		fmt.Sprintf("%d of %d PDPL checks failed", failed, len(pdplChecks)),
		"Resolve the failing PDPL checks",
		"عالج فحوصات قانون حماية البيانات غير المستوفاة")
	return ch
}
