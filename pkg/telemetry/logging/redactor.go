package logging

import (
	"log/slog"
	"regexp"
)

// Redaction patterns for identifiers that must never reach log
// output: Emirates IDs, UAE mobile numbers, emails and credentials.
var redactions = []struct {
	regex       *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`784-\d{4}-\d{7}-\d`), "784-****-*******-*"},
	{regexp.MustCompile(`(\+971|00971|0)5\d{8}`), "+9715********"},
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "***@***"},
	{regexp.MustCompile(`(?i)(api[-_]?key|password|secret|token)[=:]\s*\S+`), "$1=***"},
	{regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer ***"},
}

// Redact applies every redaction pattern to s.
func Redact(s string) string {
	for _, r := range redactions {
		s = r.regex.ReplaceAllString(s, r.replacement)
	}
	return s
}

// redactAttr is the slog ReplaceAttr hook applying redaction to
// string attribute values.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(Redact(a.Value.String()))
	}
	return a
}
