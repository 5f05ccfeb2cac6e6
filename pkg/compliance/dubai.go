package compliance

import (
	"fmt"
	"strings"

	"mizan-hq/mizan/pkg/audit"
	"mizan-hq/mizan/pkg/facts"
	"mizan-hq/mizan/pkg/policy"
)

// prohibitedUseTokens mark uses barred outright under Art. 3.
var prohibitedUseTokens = []string{
	"deepfake", "social scoring", "social_scoring", "socialscoring",
	"mass surveillance", "mass_surveillance", "masssurveillance",
	"subliminal",
}

// highRiskTokens mark use categories subject to registration and
// human oversight requirements.
var highRiskTokens = []string{
	"health", "medical", "biometric", "credit", "lending", "loan",
	"recruit", "hiring", "law enforcement", "law_enforcement",
	"critical infrastructure", "critical_infrastructure", "education",
}

// DubaiChecker implements Dubai AI Law controls over the input.
type DubaiChecker struct{}

// NewDubaiChecker returns a Dubai-AI-Law framework checker.
func NewDubaiChecker() *DubaiChecker { return &DubaiChecker{} }

func (c *DubaiChecker) Framework() Framework { return FrameworkDubaiAILaw }

func (c *DubaiChecker) Check(input facts.Map, decision *policy.Decision, entry *audit.Entry, config *Config) []Check {
	s := newScan(input)
	highRisk := c.foundHighRisk(s)

	return []Check{
		c.checkProhibitedUses(s),
		c.checkRegistration(s, highRisk),
		c.checkDisclosure(s),
		c.checkHumanOversight(s, highRisk),
		c.checkDataGovernance(s),
	}
}

func (c *DubaiChecker) foundHighRisk(s *scan) []string {
	var found []string
	for _, t := range highRiskTokens {
		if strings.Contains(s.lower, t) {
			found = append(found, t)
		}
	}
	return found
}

func (c *DubaiChecker) checkProhibitedUses(s *scan) Check {
	ch := Check{
		Framework:     FrameworkDubaiAILaw,
		Article:       "Art. 3",
		Requirement:   "AI systems must not serve prohibited uses",
		RequirementAr: "يجب ألا تخدم أنظمة الذكاء الاصطناعي استخدامات محظورة",
	}
	var found []string
	for _, t := range prohibitedUseTokens {
		if strings.Contains(s.lower, t) {
			found = append(found, t)
		}
	}
	if len(found) == 0 {
		pass(&ch, "no prohibited-use indicators detected")
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("prohibited-use indicators detected: %s", strings.Join(found, ", ")),
		"Cease the prohibited use; it cannot be remediated by controls",
		"أوقف الاستخدام المحظور؛ لا يمكن معالجته بالضوابط")
	return ch
}

func (c *DubaiChecker) checkRegistration(s *scan, highRisk []string) Check {
	ch := Check{
		Framework:     FrameworkDubaiAILaw,
		Article:       "Art. 5",
		Requirement:   "High-risk AI systems must be registered with the authority",
		RequirementAr: "يجب تسجيل أنظمة الذكاء الاصطناعي عالية المخاطر لدى الجهة المختصة",
	}
	if len(highRisk) == 0 {
		pass(&ch, "no high-risk category indicators detected")
		return ch
	}
	if s.hasKey("airegistrationid", "conformityid") {
		pass(&ch, fmt.Sprintf("high-risk categories (%s) with registration reference", strings.Join(highRisk, ", ")))
		return ch
	}
	flag(&ch, StatusReviewRequired,
		fmt.Sprintf("high-risk categories (%s) without a registration or conformity reference", strings.Join(highRisk, ", ")),
		"Register the system and attach the aiRegistrationId or conformityId",
		"سجّل النظام وأرفق معرّف التسجيل أو المطابقة")
	return ch
}

func (c *DubaiChecker) checkDisclosure(s *scan) Check {
	ch := Check{
		Framework:     FrameworkDubaiAILaw,
		Article:       "Art. 8",
		Requirement:   "Users must be informed they are interacting with an AI system",
		RequirementAr: "يجب إعلام المستخدمين بأنهم يتفاعلون مع نظام ذكاء اصطناعي",
	}
	if s.truthyKey("aidisclosure", "disclosure", "aigenerated", "disclosed") {
		pass(&ch, "AI disclosure marker present")
		return ch
	}
	flag(&ch, StatusReviewRequired, "no AI disclosure marker set",
		"Disclose AI involvement to the user and record the disclosure",
		"أفصح عن مشاركة الذكاء الاصطناعي للمستخدم وسجّل الإفصاح")
	return ch
}

func (c *DubaiChecker) checkHumanOversight(s *scan, highRisk []string) Check {
	ch := Check{
		Framework:     FrameworkDubaiAILaw,
		Article:       "Art. 10",
		Requirement:   "High-risk AI decisions require a human in the loop",
		RequirementAr: "تتطلب قرارات الذكاء الاصطناعي عالية المخاطر إشرافاً بشرياً",
	}
	if len(highRisk) == 0 {
		pass(&ch, "no high-risk category indicators detected")
		return ch
	}
	if s.hasKey("humanintheloop", "humaninloop", "humanoversight", "humanreview") {
		pass(&ch, fmt.Sprintf("high-risk categories (%s) with human oversight marker", strings.Join(highRisk, ", ")))
		return ch
	}
	flag(&ch, StatusNonCompliant,
		fmt.Sprintf("high-risk categories (%s) without a human-in-the-loop marker", strings.Join(highRisk, ", ")),
		"Insert a human review step before high-risk decisions take effect",
		"أدخل خطوة مراجعة بشرية قبل نفاذ القرارات عالية المخاطر")
	return ch
}

func (c *DubaiChecker) checkDataGovernance(s *scan) Check {
	ch := Check{
		Framework:     FrameworkDubaiAILaw,
		Article:       "Art. 12",
		Requirement:   "AI systems must reference a data governance policy",
		RequirementAr: "يجب أن تشير أنظمة الذكاء الاصطناعي إلى سياسة حوكمة بيانات",
	}
	if s.hasKey("datagovernance", "dataretention", "retentionpolicy", "datapolicy") {
		pass(&ch, "data governance reference present")
		return ch
	}
	flag(&ch, StatusReviewRequired, "no data governance reference in the request",
		"Attach the applicable data governance or retention policy reference",
		"أرفق مرجع سياسة حوكمة البيانات أو الاحتفاظ بها المعمول بها")
	return ch
}
