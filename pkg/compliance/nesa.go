package compliance

import (
	"fmt"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/canonical"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// NESAChecker implements UAE Information Assurance controls over the
// audit entry and decision.
type NESAChecker struct{}

// NewNESAChecker returns a NESA framework checker.
func NewNESAChecker() *NESAChecker { return &NESAChecker{} }

func (c *NESAChecker) Framework() Framework { return FrameworkNESA }

// Incident severity levels derived from the decision (IR-02).
const (
	incidentCritical = "CRITICAL"
	incidentHigh     = "HIGH"
	incidentMedium   = "MEDIUM"
	incidentLow      = "LOW"
)

// Data classification levels (DS-01).
const (
	classSecret       = "SECRET"
	classConfidential = "CONFIDENTIAL"
	classInternal     = "INTERNAL"
	classPublic       = "PUBLIC"
)

func (c *NESAChecker) Check(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) []Check {
	s := newScan(input)
	class := c.classify(s, len(input) > 0)

	return []Check{
		c.checkAuditIntegrity(entry),
		c.checkIncidentClassification(decision),
		c.checkDataClassification(class),
		c.checkAccessControl(s),
		c.checkCryptography(s, class),
	}
}

// incidentLevel derives the IR-02 severity from the decision.
func incidentLevel(decision *policy.Decision) string {
	if decision == nil {
		return incidentMedium
	}
	switch {
	case decision.Result == policy.ActionRejected && decision.Score <= 20:
		return incidentCritical
	case decision.Result == policy.ActionRejected || decision.Score < 40:
		return incidentHigh
	case decision.Result == policy.ActionReview || decision.Score < 70:
		return incidentMedium
	default:
		return incidentLow
	}
}

// classify derives the DS-01 data classification from the input scan.
func (c *NESAChecker) classify(s *scan, nonEmpty bool) string {
	switch {
	case s.hasSecrets():
		return classSecret
	case s.hasPII():
		return classConfidential
	case nonEmpty:
		return classInternal
	default:
		return classPublic
	}
}

func (c *NESAChecker) checkAuditIntegrity(entry *audit.Entry) Check {
	ch := Check{
		Framework:     FrameworkNESA,
		Article:       "AU-01",
		Requirement:   "Decision records must carry tamper-evident audit hashes",
		RequirementAr: "يجب أن تحمل سجلات القرارات تجزئات تدقيق كاشفة للعبث",
	}
	if entry == nil {
		flag(&ch, StatusReviewRequired, "no audit entry available for this decision",
			"Persist the decision to the audit journal before acting on it",
			"سجّل القرار في دفتر التدقيق قبل التصرف بناءً عليه")
		return ch
	}
	if canonical.IsHex64(entry.Hash) && canonical.IsHex64(entry.PreviousHash) {
		pass(&ch, "audit entry hash and chain pointer are well-formed")
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("malformed audit hashes: hash=%q previousHash=%q", entry.Hash, entry.PreviousHash),
		"Repair the audit journal; hashes must be 64-character lowercase hex",
		"أصلح دفتر التدقيق؛ يجب أن تكون التجزئات ست عشرية من 64 حرفاً")
	return ch
}

// checkIncidentClassification records the derived severity. Only a
// CRITICAL incident blocks; lower levels are informational.
func (c *NESAChecker) checkIncidentClassification(decision *policy.Decision) Check {
	level := incidentLevel(decision)
	ch := Check{
		Framework:     FrameworkNESA,
		Article:       "IR-02",
		Requirement:   "Decision outcomes must be classified by incident severity",
		RequirementAr: "يجب تصنيف نتائج القرارات حسب شدة الحادث",
	}
	if level == incidentCritical {
		flag(&ch, StatusReviewRequired,
			"decision classified as a CRITICAL incident (rejected with very low score)",
			"Escalate CRITICAL incidents through the incident response process",
			"صعّد الحوادث الحرجة عبر عملية الاستجابة للحوادث")
		return ch
	}
	pass(&ch, fmt.Sprintf("incident severity %s", level))
	return ch
}

// checkDataClassification is informational: the class is recorded in
// the evidence but never fails the check.
func (c *NESAChecker) checkDataClassification(class string) Check {
	ch := Check{
		Framework:     FrameworkNESA,
		Article:       "DS-01",
		Requirement:   "Processed data must carry a classification level",
		RequirementAr: "يجب أن تحمل البيانات المعالجة مستوى تصنيف",
	}
	pass(&ch, fmt.Sprintf("data classified as %s", class))
	return ch
}

func (c *NESAChecker) checkAccessControl(s *scan) Check {
	ch := Check{
		Framework:     FrameworkNESA,
		Article:       "AC-01",
		Requirement:   "Requests must carry a role or authentication context",
		RequirementAr: "يجب أن تحمل الطلبات سياق دور أو مصادقة",
	}
	if s.hasKey("role", "auth", "permission", "accesslevel") {
		pass(&ch, "role or authentication marker present")
		return ch
	}
	flag(&ch, StatusReviewRequired, "no role or authentication marker in the request",
		"Attach the requesting principal's role or authentication context",
		"أرفق دور الجهة الطالبة أو سياق مصادقتها")
	return ch
}

// checkCryptography requires an encryption marker for CONFIDENTIAL
// data and fails hard for SECRET data without one.
func (c *NESAChecker) checkCryptography(s *scan, class string) Check {
	ch := Check{
		Framework:     FrameworkNESA,
		Article:       "CR-01",
		Requirement:   "Classified data must be protected with encryption",
		RequirementAr: "يجب حماية البيانات المصنفة بالتشفير",
	}
	if class != classSecret && class != classConfidential {
		pass(&ch, fmt.Sprintf("no encryption requirement for %s data", class))
		return ch
	}
	if s.truthyKey("encrypt") {
		pass(&ch, fmt.Sprintf("%s data with encryption marker present", class))
		return ch
	}
	status := StatusReviewRequired
	if class == classSecret {
		status = StatusNonCompliant
	}
	flag(&ch, status,
		fmt.Sprintf("%s data without an encryption marker", class),
		"Encrypt classified data at rest and in transit and record the encryption reference",
		"شفّر البيانات المصنفة أثناء التخزين والنقل وسجّل مرجع التشفير")
	return ch
}
