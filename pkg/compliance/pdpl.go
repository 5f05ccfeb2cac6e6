package compliance

import (
	"fmt"
	"strings"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// PDPLChecker implements UAE Federal Decree-Law No. 45 of 2021
// (Personal Data Protection Law) controls over the decision input.
type PDPLChecker struct{}

// NewPDPLChecker returns a PDPL framework checker.
func NewPDPLChecker() *PDPLChecker { return &PDPLChecker{} }

func (c *PDPLChecker) Framework() Framework { return FrameworkPDPL }

// Check runs the PDPL articles against the input. At the basic audit
// level the low-severity Art. 3 and Art. 18 checks are omitted.
func (c *PDPLChecker) Check(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) []Check {
	s := newScan(input)
	pii := s.piiTypes()

	var checks []Check

	if config.AuditLevel != AuditBasic {
		checks = append(checks, c.checkDataSubjectRights(s))
	}
	checks = append(checks, c.checkPurpose(s))
	checks = append(checks, c.checkConsent(s, pii))
	checks = append(checks, c.checkMinimisation(pii))
	checks = append(checks, c.checkResidency(s, config))
	checks = append(checks, c.checkSensitiveData(s))
	if config.AuditLevel != AuditBasic {
		checks = append(checks, c.checkBreachReadiness(s))
	}
	return checks
}

func (c *PDPLChecker) checkDataSubjectRights(s *scan) Check {
	ok := s.hasKey("datasubject", "privacynotice", "rightto", "subjectrights")
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 3",
		Requirement:   "Data subject rights must be acknowledged in the processing context",
		RequirementAr: "يجب الإقرار بحقوق صاحب البيانات في سياق المعالجة",
	}
	if ok {
		pass(&ch, "data subject rights marker present")
	} else {
		flag(&ch, StatusReviewRequired, "no data subject rights marker found in input",
			"Attach a privacy notice or data subject rights reference to the request context",
			"أرفق إشعار خصوصية أو مرجعاً لحقوق صاحب البيانات بسياق الطلب")
	}
	return ch
}

func (c *PDPLChecker) checkPurpose(s *scan) Check {
	ok := s.hasKey("purpose", "action", "usecase")
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 4",
		Requirement:   "Personal data must be processed for a specific and explicit purpose",
		RequirementAr: "يجب معالجة البيانات الشخصية لغرض محدد وصريح",
	}
	if ok {
		pass(&ch, "explicit processing purpose declared")
	} else {
		flag(&ch, StatusReviewRequired, "no purpose, action or useCase field present",
			"Declare the processing purpose in the request (purpose, action or useCase field)",
			"صرّح بغرض المعالجة في الطلب")
	}
	return ch
}

func (c *PDPLChecker) checkConsent(s *scan, pii []string) Check {
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 6",
		Requirement:   "Processing of personal data requires the data subject's consent",
		RequirementAr: "تتطلب معالجة البيانات الشخصية موافقة صاحب البيانات",
	}
	if len(pii) == 0 {
		pass(&ch, "no personal data detected")
		return ch
	}
	if s.truthyKey("consent") {
		pass(&ch, fmt.Sprintf("consent marker present for detected PII (%s)", strings.Join(pii, ", ")))
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("personal data detected (%s) without a consent marker", strings.Join(pii, ", ")),
		"Obtain and record the data subject's consent before processing",
		"احصل على موافقة صاحب البيانات وسجّلها قبل المعالجة")
	return ch
}

func (c *PDPLChecker) checkMinimisation(pii []string) Check {
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 10",
		Requirement:   "Data collection must be limited to what the purpose requires",
		RequirementAr: "يجب أن يقتصر جمع البيانات على ما يتطلبه الغرض",
	}
	if len(pii) >= 3 {
		flag(&ch, StatusReviewRequired,
			fmt.Sprintf("%d distinct PII categories detected (%s)", len(pii), strings.Join(pii, ", ")),
			"Review whether all collected identifiers are necessary for the stated purpose",
			"راجع ما إذا كانت جميع المعرّفات المجمعة ضرورية للغرض المعلن")
		return ch
	}
	pass(&ch, fmt.Sprintf("%d PII categories detected", len(pii)))
	return ch
}

func (c *PDPLChecker) checkResidency(s *scan, config *Config) Check {
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 14",
		Requirement:   "Cross-border transfer of personal data requires an adequate destination",
		RequirementAr: "يتطلب نقل البيانات الشخصية عبر الحدود وجهة ذات حماية كافية",
	}
	if config.DataResidency != ResidencyUAE {
		pass(&ch, "no residency constraint configured")
		return ch
	}
	v, present := s.keyValue("residency", "datalocation", "dataregion", "processinglocation")
	if !present {
		pass(&ch, "UAE residency required, no conflicting location declared")
		return ch
	}
	loc := strings.ToLower(v.StringVal())
	if loc == "" || strings.Contains(loc, "uae") || strings.Contains(loc, "emirates") || loc == "ae" {
		pass(&ch, "declared data location is within the UAE")
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("UAE residency required but input declares location %q", v.StringVal()),
		"Process and store the data within the UAE or obtain a transfer authorisation",
		"عالج البيانات وخزّنها داخل الإمارات أو احصل على تصريح نقل")
	return ch
}

func (c *PDPLChecker) checkSensitiveData(s *scan) Check {
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 16",
		Requirement:   "Sensitive personal data requires explicit separate consent",
		RequirementAr: "تتطلب البيانات الشخصية الحساسة موافقة صريحة منفصلة",
	}
	if !s.hasSensitiveData() {
		pass(&ch, "no sensitive data markers detected")
		return ch
	}
	if s.truthyKey("sensitivedataconsent", "explicitconsent", "sensitiveconsent") {
		pass(&ch, "sensitive data present with explicit consent marker")
		return ch
	}
	flag(&ch, StatusNonCompliant,
		"sensitive data markers detected without explicit separate consent",
		"Obtain explicit separate consent for sensitive data categories",
		"احصل على موافقة صريحة منفصلة لفئات البيانات الحساسة")
	return ch
}

func (c *PDPLChecker) checkBreachReadiness(s *scan) Check {
	ok := s.hasKey("dpo", "breachnotification", "breachcontact")
	ch := Check{
		Framework:     FrameworkPDPL,
		Article:       "Art. 18",
		Requirement:   "A breach notification path or DPO contact must be established",
		RequirementAr: "يجب تحديد مسار للإبلاغ عن الاختراقات أو جهة اتصال لمسؤول حماية البيانات",
	}
	if ok {
		pass(&ch, "breach notification or DPO contact marker present")
	} else {
		flag(&ch, StatusReviewRequired, "no DPO contact or breach notification marker found",
			"Record the DPO contact or breach notification procedure for this processing",
			"سجّل جهة اتصال مسؤول حماية البيانات أو إجراء الإبلاغ عن الاختراقات")
	}
	return ch
}

// pass marks a check compliant with the given evidence.
func pass(ch *Check, details string) {
	ch.Status = StatusCompliant
	ch.Passed = true
	ch.Details = details
}

// flag marks a check failed with the given status and remediation.
func flag(ch *Check, status Status, details, remediation, remediationAr string) {
	ch.Status = status
	ch.Passed = false
	ch.Details = details
	ch.Remediation = remediation
	ch.RemediationAr = remediationAr
}
