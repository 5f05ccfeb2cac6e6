package compliance

import (
	"regexp"
	"strings"

	"mizan-hq/mizan/pkg/canonical"
	"mizan-hq/mizan/pkg/facts"
)

// PII patterns relevant to UAE processing. The Emirates ID format is
// 784-YYYY-NNNNNNN-C; mobile numbers use the +971/00971/0 prefixes.
var (
	emailPattern      = regexp.MustCompile(`[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	emiratesIDPattern = regexp.MustCompile(`784-\d{4}-\d{7}-\d`)
	uaePhonePattern   = regexp.MustCompile(`(\+971|00971|0)5\d{8}`)
	passportPattern   = regexp.MustCompile(`\b[a-z]\d{6,8}\b`)
)

// secretTokens are credential-like markers scanned for by the
// AI-Ethics security principle and the NESA data classifier.
var secretTokens = []string{
	"api_key", "apikey", "password", "private_key", "secret", "token=", "-----begin",
}

// sensitiveTokens mark PDPL special-category data.
var sensitiveTokens = []string{
	"health", "medical", "diagnos", "biometric", "genetic", "religio", "criminal",
}

// demographicTokens are bias-sensitive attributes the AI-Ethics
// inclusiveness principle flags for review.
var demographicTokens = []string{
	"gender", "race", "ethnicit", "religio", "nationalit", "disabilit", "tribe",
}

// scan is a one-shot detection pass over an input tree. Checkers share
// a single scan per evaluation so the tree is serialised once.
type scan struct {
	lower string
	keys  []string
	vals  map[string]facts.Value
}

func newScan(m facts.Map) *scan {
	s := &scan{lower: canonical.LowerJSON(m), vals: make(map[string]facts.Value)}
	s.collectKeys("", m)
	return s
}

func (s *scan) collectKeys(prefix string, m facts.Map) {
	for k, v := range m {
		key := strings.ToLower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		s.keys = append(s.keys, key)
		s.vals[key] = v
		if v.Kind() == facts.KindObject {
			s.collectKeys(key, v.ObjectVal())
		}
	}
}

// hasToken reports whether any token appears anywhere in the lowered
// JSON rendering of the input.
func (s *scan) hasToken(tokens ...string) bool {
	for _, t := range tokens {
		if strings.Contains(s.lower, t) {
			return true
		}
	}
	return false
}

// hasKey reports whether any flattened key contains any substring.
func (s *scan) hasKey(subs ...string) bool {
	for _, k := range s.keys {
		for _, sub := range subs {
			if strings.Contains(k, sub) {
				return true
			}
		}
	}
	return false
}

// truthyKey reports whether any key containing a substring holds a
// truthy value.
func (s *scan) truthyKey(subs ...string) bool {
	for _, k := range s.keys {
		for _, sub := range subs {
			if strings.Contains(k, sub) && s.vals[k].Truthy() {
				return true
			}
		}
	}
	return false
}

// keyValue returns the value of the first key containing a substring.
func (s *scan) keyValue(subs ...string) (facts.Value, bool) {
	for _, k := range s.keys {
		for _, sub := range subs {
			if strings.Contains(k, sub) {
				return s.vals[k], true
			}
		}
	}
	return facts.Undefined(), false
}

// piiTypes returns the distinct PII categories detected in the input.
func (s *scan) piiTypes() []string {
	var types []string
	if emailPattern.MatchString(s.lower) {
		types = append(types, "email")
	}
	if emiratesIDPattern.MatchString(s.lower) {
		types = append(types, "emirates_id")
	}
	if uaePhonePattern.MatchString(s.lower) {
		types = append(types, "uae_phone")
	}
	if passportPattern.MatchString(s.lower) {
		types = append(types, "passport")
	}
	return types
}

func (s *scan) hasPII() bool { return len(s.piiTypes()) > 0 }

// foundSecrets returns the credential-like tokens present.
func (s *scan) foundSecrets() []string {
	var found []string
	for _, t := range secretTokens {
		if strings.Contains(s.lower, t) {
			found = append(found, t)
		}
	}
	return found
}

func (s *scan) hasSecrets() bool { return len(s.foundSecrets()) > 0 }

// hasSensitiveData reports whether PDPL special-category markers are
// present in the input.
func (s *scan) hasSensitiveData() bool {
	return s.hasToken(sensitiveTokens...)
}

// foundDemographics returns the bias-sensitive tokens present.
func (s *scan) foundDemographics() []string {
	var found []string
	for _, t := range demographicTokens {
		if strings.Contains(s.lower, t) {
			found = append(found, t)
		}
	}
	return found
}
