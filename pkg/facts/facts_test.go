package facts

import (
	"encoding/json"
	"testing"
)

func TestLookup_DottedPaths(t *testing.T) {
	m := Map{
		"user": Object(Map{
			"role": String("admin"),
			"profile": Object(Map{
				"age": Number(41),
			}),
		}),
		"score": Number(90),
	}

	tests := []struct {
		name string
		path string
		want Value
	}{
		{name: "top-level", path: "score", want: Number(90)},
		{name: "nested", path: "user.role", want: String("admin")},
		{name: "deep nested", path: "user.profile.age", want: Number(41)},
		{name: "missing leaf", path: "user.email", want: Undefined()},
		{name: "missing root", path: "account", want: Undefined()},
		{name: "walk through scalar", path: "score.value", want: Undefined()},
		{name: "walk through missing", path: "account.id.x", want: Undefined()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Lookup(tt.path)
			if !got.StrictEquals(tt.want) || got.Kind() != tt.want.Kind() {
				t.Errorf("Lookup(%q) = %v (%s), want %v (%s)",
					tt.path, got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{name: "undefined", v: Undefined(), want: false},
		{name: "null", v: Null(), want: false},
		{name: "false", v: Bool(false), want: false},
		{name: "true", v: Bool(true), want: true},
		{name: "zero", v: Number(0), want: false},
		{name: "nonzero", v: Number(-1.5), want: true},
		{name: "empty string", v: String(""), want: false},
		{name: "string", v: String("x"), want: true},
		{name: "empty array", v: Array(), want: true},
		{name: "object", v: Object(Map{}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		want   float64
		wantOK bool
	}{
		{name: "number", v: Number(3.5), want: 3.5, wantOK: true},
		{name: "bool true", v: Bool(true), want: 1, wantOK: true},
		{name: "bool false", v: Bool(false), want: 0, wantOK: true},
		{name: "numeric string", v: String("42"), want: 42, wantOK: true},
		{name: "padded numeric string", v: String(" 7 "), want: 7, wantOK: true},
		{name: "non-numeric string", v: String("abc"), wantOK: false},
		{name: "null", v: Null(), wantOK: false},
		{name: "undefined", v: Undefined(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.AsNumber()
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("AsNumber() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestMerge_RightWins(t *testing.T) {
	base := Map{"a": Number(1), "b": String("keep")}
	merged := base.Merge(Map{"a": Number(2), "c": Bool(true)})

	if got := merged.Lookup("a"); !got.StrictEquals(Number(2)) {
		t.Errorf("merged a = %v, want 2", got)
	}
	if got := merged.Lookup("b"); !got.StrictEquals(String("keep")) {
		t.Errorf("merged b = %v, want keep", got)
	}
	if got := merged.Lookup("c"); !got.StrictEquals(Bool(true)) {
		t.Errorf("merged c = %v, want true", got)
	}
	// Original untouched.
	if got := base.Lookup("a"); !got.StrictEquals(Number(1)) {
		t.Errorf("base a mutated: %v", got)
	}
	if _, ok := base["c"]; ok {
		t.Error("base gained a key from merge")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := []byte(`{"country":"AE","amount":1000000,"flags":{"vip":true},"tags":["a","b"],"note":null}`)

	m, err := FromJSON(in)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	if got := m.Lookup("country"); !got.StrictEquals(String("AE")) {
		t.Errorf("country = %v", got)
	}
	if got := m.Lookup("flags.vip"); !got.StrictEquals(Bool(true)) {
		t.Errorf("flags.vip = %v", got)
	}
	if got := m.Lookup("note"); got.Kind() != KindNull {
		t.Errorf("note kind = %s, want null", got.Kind())
	}
	if got := m.Lookup("tags"); got.Kind() != KindArray || len(got.ArrayVal()) != 2 {
		t.Errorf("tags = %v", got)
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := FromJSON(out)
	if err != nil {
		t.Fatalf("FromJSON round-trip: %v", err)
	}
	if !Object(back).StrictEquals(Object(m)) {
		t.Errorf("round trip mismatch: %s", out)
	}
}

func TestStrictEquals_NullishFamily(t *testing.T) {
	if !Undefined().StrictEquals(Null()) {
		t.Error("undefined should equal null")
	}
	if Null().StrictEquals(Number(0)) {
		t.Error("null should not equal 0")
	}
	if Undefined().StrictEquals(String("")) {
		t.Error("undefined should not equal empty string")
	}
}
