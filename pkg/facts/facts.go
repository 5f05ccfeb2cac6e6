package facts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind represents the type of a fact value.
// Facts carry a closed set of JSON-shaped kinds with value semantics;
// there is no automatic coercion at this layer.
type Kind int

const (
	// KindUndefined is the distinguished "missing" value produced by
	// path lookups that walk off the fact tree. It is falsy and unequal
	// to every non-null value.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged variant holding one fact value.
// The zero Value is undefined.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  Map
}

// Map is the facts mapping evaluated by rules: string keys to values.
type Map map[string]Value

// Undefined returns the distinguished undefined value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean fact.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric fact.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string fact.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered sequence of facts.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Object wraps a nested facts mapping.
func Object(m Map) Value { return Value{kind: KindObject, obj: m} }

// Kind reports the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value is the distinguished undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNullish reports whether the value is null or undefined.
func (v Value) IsNullish() bool { return v.kind == KindUndefined || v.kind == KindNull }

// BoolVal returns the boolean payload (false unless KindBool).
func (v Value) BoolVal() bool { return v.b }

// NumberVal returns the numeric payload (0 unless KindNumber).
func (v Value) NumberVal() float64 { return v.n }

// StringVal returns the string payload ("" unless KindString).
func (v Value) StringVal() string { return v.s }

// ArrayVal returns the array payload (nil unless KindArray).
func (v Value) ArrayVal() []Value { return v.arr }

// ObjectVal returns the object payload (nil unless KindObject).
func (v Value) ObjectVal() Map { return v.obj }

// Truthy reports the truthiness of the value: false, 0, "" and the
// nullish values are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

// StrictEquals compares by value and kind with no coercion.
// Undefined and null compare equal to each other and to themselves only.
func (v Value) StrictEquals(o Value) bool {
	if v.IsNullish() || o.IsNullish() {
		return v.IsNullish() && o.IsNullish()
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].StrictEquals(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, vv := range v.obj {
			ov, ok := o.obj[k]
			if !ok || !vv.StrictEquals(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AsNumber attempts numeric coercion: numbers pass through, booleans map
// to 0/1, numeric strings parse. The second result reports success.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Lookup walks a dotted path ("user.role") through the mapping.
// Any missing or non-object intermediate segment yields undefined.
func (m Map) Lookup(path string) Value {
	cur := Object(m)
	for _, seg := range strings.Split(path, ".") {
		if cur.kind != KindObject {
			return Undefined()
		}
		next, ok := cur.obj[seg]
		if !ok {
			return Undefined()
		}
		cur = next
	}
	return cur
}

// Merge returns a shallow merge of m and other; keys in other win.
// Neither input is modified.
func (m Map) Merge(other Map) Map {
	out := make(Map, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the mapping's keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromInterface converts a decoded-JSON value (the shapes produced by
// encoding/json into interface{}) into a Value. Unsupported host types
// return an error.
func FromInterface(x interface{}) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Undefined(), fmt.Errorf("invalid number %q: %w", t.String(), err)
		}
		return Number(n), nil
	case string:
		return String(t), nil
	case []interface{}:
		arr := make([]Value, len(t))
		for i, el := range t {
			v, err := FromInterface(el)
			if err != nil {
				return Undefined(), err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case map[string]interface{}:
		obj := make(Map, len(t))
		for k, el := range t {
			v, err := FromInterface(el)
			if err != nil {
				return Undefined(), err
			}
			obj[k] = v
		}
		return Object(obj), nil
	default:
		return Undefined(), fmt.Errorf("unsupported fact type %T", x)
	}
}

// ToInterface converts a Value back into the encoding/json interface{}
// shapes. Undefined converts to nil (it has no JSON representation).
func (v Value) ToInterface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]interface{}, len(v.arr))
		for i, el := range v.arr {
			out[i] = el.ToInterface()
		}
		return out
	case KindObject:
		return v.obj.ToInterface()
	default:
		return nil
	}
}

// ToInterface converts the mapping into a map[string]interface{}.
func (m Map) ToInterface() map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v.ToInterface()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToInterface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var x interface{}
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	parsed, err := FromInterface(x)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON implements json.Marshaler for the facts mapping.
func (m Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToInterface())
}

// UnmarshalJSON implements json.Unmarshaler for the facts mapping.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*m = v.obj
	return nil
}

// FromJSON parses a JSON object into a facts mapping.
func FromJSON(data []byte) (Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
