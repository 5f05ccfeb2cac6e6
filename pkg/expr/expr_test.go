package expr

import (
	"sync"
	"testing"

	"mizan-hq/mizan/pkg/facts"
)

func testFacts() facts.Map {
	return facts.Map{
		"score":   facts.Number(90),
		"country": facts.String("AE"),
		"amount":  facts.Number(1000000),
		"active":  facts.Bool(true),
		"ratio":   facts.Number(0.5),
		"empty":   facts.String(""),
		"nothing": facts.Null(),
		"user": facts.Object(facts.Map{
			"role": facts.String("admin"),
			"age":  facts.Number(41),
		}),
		"count_str": facts.String("42"),
	}
}

func TestEvaluate(t *testing.T) {
	m := testFacts()

	tests := []struct {
		name string
		expr string
		want bool
	}{
		// Comparisons
		{name: "gt true", expr: "score > 80", want: true},
		{name: "gt false", expr: "score > 95", want: false},
		{name: "ge boundary", expr: "score >= 90", want: true},
		{name: "lt", expr: "ratio < 1", want: true},
		{name: "le", expr: "ratio <= 0.5", want: true},
		{name: "strict eq string", expr: `country === "AE"`, want: true},
		{name: "strict eq single quotes", expr: "country === 'AE'", want: true},
		{name: "strict ne", expr: `country !== "US"`, want: true},
		{name: "strict eq cross-type", expr: `count_str === 42`, want: false},
		{name: "loose eq string-number", expr: "count_str == 42", want: true},
		{name: "loose ne string-number", expr: "count_str != 42", want: false},
		{name: "loose eq bool numeric", expr: "active == 1", want: true},
		{name: "loose eq null", expr: "nothing == null", want: true},
		{name: "loose null vs zero", expr: "nothing == 0", want: false},
		{name: "undefined keyword", expr: "missing == undefined", want: true},

		// Logical connectives
		{name: "and", expr: `country === "AE" && amount > 500000`, want: true},
		{name: "and short-circuit", expr: `country === "US" && amount > 500000`, want: false},
		{name: "or", expr: `country === "US" || score > 80`, want: true},
		{name: "not", expr: "!active", want: false},
		{name: "double not", expr: "!!active", want: true},
		{name: "grouping", expr: `(score > 95 || score < 100) && active`, want: true},
		{name: "precedence or over and", expr: "false && false || true", want: true},

		// Identifiers and truthiness
		{name: "bare truthy fact", expr: "active", want: true},
		{name: "bare falsy fact", expr: "empty", want: false},
		{name: "dotted path", expr: `user.role === "admin"`, want: true},
		{name: "dotted numeric", expr: "user.age >= 41", want: true},
		{name: "missing key falsy", expr: "missing", want: false},
		{name: "missing nested falsy", expr: "user.email", want: false},
		{name: "missing intermediate", expr: "account.owner.id", want: false},
		{name: "missing unequal to value", expr: `missing == "x"`, want: false},

		// Runtime failures collapse to false
		{name: "non-numeric ordering", expr: `country > 5`, want: false},
		{name: "ordering on null", expr: "nothing < 1", want: false},
		{name: "ordering on object", expr: "user > 0", want: false},

		// Literals
		{name: "true literal", expr: "true", want: true},
		{name: "false literal", expr: "false", want: false},
		{name: "null falsy", expr: "null", want: false},
		{name: "decimal literal", expr: "ratio == 0.5", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.expr, m); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "dangling operator", expr: "score >"},
		{name: "single ampersand", expr: "a & b"},
		{name: "single pipe", expr: "a | b"},
		{name: "single equals", expr: "a = 1"},
		{name: "unterminated string", expr: `country === "AE`},
		{name: "unbalanced paren", expr: "(score > 80"},
		{name: "trailing garbage", expr: "score > 80 score"},
		{name: "dangling dot", expr: "user."},
		{name: "bad char", expr: "score # 1"},
		{name: "malformed decimal", expr: "ratio == 1."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.expr); err == nil {
				t.Errorf("Compile(%q) succeeded, want syntax error", tt.expr)
			} else if _, ok := err.(*SyntaxError); !ok {
				t.Errorf("Compile(%q) returned %T, want *SyntaxError", tt.expr, err)
			}
		})
	}
}

func TestEvaluate_SyntaxErrorIsFalse(t *testing.T) {
	if Evaluate("score >", testFacts()) {
		t.Error("Evaluate on malformed expression should return false")
	}
}

func TestPredicate_Deterministic(t *testing.T) {
	p, err := Compile(`country === "AE" && amount > 500000`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := testFacts()
	for i := 0; i < 100; i++ {
		if !p.Eval(m) {
			t.Fatalf("iteration %d: Eval flipped to false", i)
		}
	}
}

func TestPredicate_ConcurrentReuse(t *testing.T) {
	p, err := Compile("score >= 80 && user.age > 18")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := testFacts()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if !p.Eval(m) {
					t.Error("concurrent Eval returned false")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestStringEscapes(t *testing.T) {
	m := facts.Map{
		"quote":   facts.String(`say "hi"`),
		"apos":    facts.String("it's"),
		"bslash":  facts.String(`a\b`),
		"mixed":   facts.String("AE"),
		"literal": facts.String("x"),
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{name: "escaped double quote", expr: `quote === "say \"hi\""`, want: true},
		{name: "escaped single quote", expr: `apos === 'it\'s'`, want: true},
		{name: "escaped backslash", expr: `bslash === "a\\b"`, want: true},
		{name: "single in double", expr: `apos === "it's"`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.expr, m); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}
