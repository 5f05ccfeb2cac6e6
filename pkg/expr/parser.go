package expr

import (
	"fmt"

	"mizan-hq/mizan/pkg/facts"
)

// node is one node of the parsed expression tree. Trees are immutable
// after parsing; a Predicate may be shared across goroutines.
type node interface {
	eval(m facts.Map) facts.Value
}

// litNode is a literal value (number, string, bool, null).
type litNode struct {
	val facts.Value
}

func (n *litNode) eval(facts.Map) facts.Value { return n.val }

// identNode resolves a dotted fact path.
type identNode struct {
	path string
}

func (n *identNode) eval(m facts.Map) facts.Value { return m.Lookup(n.path) }

// notNode is logical negation on truthiness.
type notNode struct {
	x node
}

func (n *notNode) eval(m facts.Map) facts.Value {
	return facts.Bool(!n.x.eval(m).Truthy())
}

// andNode and orNode short-circuit on truthiness.
type andNode struct{ l, r node }

func (n *andNode) eval(m facts.Map) facts.Value {
	if !n.l.eval(m).Truthy() {
		return facts.Bool(false)
	}
	return facts.Bool(n.r.eval(m).Truthy())
}

type orNode struct{ l, r node }

func (n *orNode) eval(m facts.Map) facts.Value {
	if n.l.eval(m).Truthy() {
		return facts.Bool(true)
	}
	return facts.Bool(n.r.eval(m).Truthy())
}

// cmpNode is a single comparison (the grammar does not chain them).
type cmpNode struct {
	op   tokenKind
	l, r node
}

func (n *cmpNode) eval(m facts.Map) facts.Value {
	lv := n.l.eval(m)
	rv := n.r.eval(m)

	switch n.op {
	case tokSEQ:
		return facts.Bool(lv.StrictEquals(rv))
	case tokSNE:
		return facts.Bool(!lv.StrictEquals(rv))
	case tokEQ:
		return facts.Bool(looseEquals(lv, rv))
	case tokNE:
		return facts.Bool(!looseEquals(lv, rv))
	case tokGT, tokGE, tokLT, tokLE:
		ln, lok := lv.AsNumber()
		rn, rok := rv.AsNumber()
		if !lok || !rok {
			// Non-numeric ordering is false, never an error.
			return facts.Bool(false)
		}
		switch n.op {
		case tokGT:
			return facts.Bool(ln > rn)
		case tokGE:
			return facts.Bool(ln >= rn)
		case tokLT:
			return facts.Bool(ln < rn)
		default:
			return facts.Bool(ln <= rn)
		}
	default:
		return facts.Bool(false)
	}
}

// looseEquals implements the documented coercion table for == and !=:
// nullish equals nullish only; same-kind scalars compare directly;
// mixed numeric/string/boolean operands compare numerically with
// unparseable strings yielding false.
func looseEquals(a, b facts.Value) bool {
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	if a.Kind() == b.Kind() {
		return a.StrictEquals(b)
	}
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if !aok || !bok {
		return false
	}
	return an == bn
}

// parser is a recursive-descent parser over the lexer's token stream.
type parser struct {
	lex *lexer
	cur token
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) expect(kind tokenKind) error {
	if p.cur.kind != kind {
		return &SyntaxError{
			Expr:    p.lex.src,
			Pos:     p.cur.pos,
			Message: fmt.Sprintf("expected %s, found %s", kind, p.cur.kind),
		}
	}
	return p.advance()
}

// parse parses a complete expression and requires EOF afterwards.
func (p *parser) parse() (node, error) {
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &SyntaxError{
			Expr:    p.lex.src,
			Pos:     p.cur.pos,
			Message: fmt.Sprintf("unexpected %s after expression", p.cur.kind),
		}
	}
	return n, nil
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orNode{l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andNode{l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.cur.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{x: x}, nil
	}
	return p.parseCmp()
}

func (p *parser) parseCmp() (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch p.cur.kind {
	case tokGT, tokGE, tokLT, tokLE, tokSEQ, tokEQ, tokSNE, tokNE:
		op := p.cur.kind
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &cmpNode{op: op, l: left, r: right}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokNumber:
		n := &litNode{val: facts.Number(p.cur.num)}
		return n, p.advance()
	case tokString:
		n := &litNode{val: facts.String(p.cur.text)}
		return n, p.advance()
	case tokTrue:
		return &litNode{val: facts.Bool(true)}, p.advance()
	case tokFalse:
		return &litNode{val: facts.Bool(false)}, p.advance()
	case tokNull:
		return &litNode{val: facts.Null()}, p.advance()
	case tokIdent:
		return p.parseIdent()
	default:
		return nil, &SyntaxError{
			Expr:    p.lex.src,
			Pos:     p.cur.pos,
			Message: fmt.Sprintf("expected value or identifier, found %s", p.cur.kind),
		}
	}
}

// parseIdent consumes a dotted identifier path (ident ("." ident)*).
func (p *parser) parseIdent() (node, error) {
	path := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.cur.kind == tokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokIdent && p.cur.kind != tokTrue && p.cur.kind != tokFalse && p.cur.kind != tokNull {
			return nil, &SyntaxError{
				Expr:    p.lex.src,
				Pos:     p.cur.pos,
				Message: fmt.Sprintf("expected identifier after '.', found %s", p.cur.kind),
			}
		}
		// Keywords are plain segments in path position (e.g. "flags.null").
		path += "." + p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &identNode{path: path}, nil
}
