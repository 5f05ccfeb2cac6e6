package expr

import (
	"mizan-hq/mizan/pkg/facts"
)

// Predicate is a compiled condition expression. It is stateless and
// safe for concurrent reuse.
type Predicate struct {
	src  string
	root node
}

// Compile parses a condition expression into a reusable Predicate.
// Syntax errors are returned as *SyntaxError so callers can fail fast
// at rule-load time.
func Compile(src string) (*Predicate, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return &Predicate{src: src, root: root}, nil
}

// Source returns the original expression text.
func (p *Predicate) Source() string { return p.src }

// Eval evaluates the predicate against a facts mapping. Evaluation
// never fails: missing keys resolve to undefined, type mismatches
// collapse to false, and an internal panic is swallowed as false.
func (p *Predicate) Eval(m facts.Map) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	return p.root.eval(m).Truthy()
}

// Evaluate is a convenience wrapper: compile and evaluate in one call.
// All errors, including syntax errors, collapse to false.
func Evaluate(src string, m facts.Map) bool {
	p, err := Compile(src)
	if err != nil {
		return false
	}
	return p.Eval(m)
}
