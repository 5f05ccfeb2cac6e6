package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// tokenKind identifies a lexical token class.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent // identifier segment, possibly dotted (resolved in parser)
	tokTrue
	tokFalse
	tokNull // "null" and "undefined"
	tokAnd  // &&
	tokOr   // ||
	tokNot  // !
	tokGT   // >
	tokGE   // >=
	tokLT   // <
	tokLE   // <=
	tokSEQ  // ===
	tokEQ   // ==
	tokSNE  // !==
	tokNE   // !=
	tokLParen
	tokRParen
	tokDot
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokIdent:
		return "identifier"
	case tokTrue:
		return "true"
	case tokFalse:
		return "false"
	case tokNull:
		return "null"
	case tokAnd:
		return "&&"
	case tokOr:
		return "||"
	case tokNot:
		return "!"
	case tokGT:
		return ">"
	case tokGE:
		return ">="
	case tokLT:
		return "<"
	case tokLE:
		return "<="
	case tokSEQ:
		return "==="
	case tokEQ:
		return "=="
	case tokSNE:
		return "!=="
	case tokNE:
		return "!="
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokDot:
		return "."
	default:
		return "unknown"
	}
}

// token is one lexical token with its source position.
type token struct {
	kind tokenKind
	text string  // raw text (decoded for strings)
	num  float64 // parsed value for tokNumber
	pos  int     // byte offset in the expression
}

// lexer splits an expression string into tokens. Whitespace is
// insignificant.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the next token or a *SyntaxError.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == '.':
		l.pos++
		return token{kind: tokDot, text: ".", pos: start}, nil
	case c == '&':
		if l.peekAt(l.pos+1) == '&' {
			l.pos += 2
			return token{kind: tokAnd, text: "&&", pos: start}, nil
		}
		return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: "unexpected '&' (did you mean '&&'?)"}
	case c == '|':
		if l.peekAt(l.pos+1) == '|' {
			l.pos += 2
			return token{kind: tokOr, text: "||", pos: start}, nil
		}
		return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: "unexpected '|' (did you mean '||'?)"}
	case c == '>':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return token{kind: tokGE, text: ">=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokGT, text: ">", pos: start}, nil
	case c == '<':
		if l.peekAt(l.pos+1) == '=' {
			l.pos += 2
			return token{kind: tokLE, text: "<=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokLT, text: "<", pos: start}, nil
	case c == '=':
		if l.peekAt(l.pos+1) == '=' {
			if l.peekAt(l.pos+2) == '=' {
				l.pos += 3
				return token{kind: tokSEQ, text: "===", pos: start}, nil
			}
			l.pos += 2
			return token{kind: tokEQ, text: "==", pos: start}, nil
		}
		return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: "unexpected '=' (assignment is not supported)"}
	case c == '!':
		if l.peekAt(l.pos+1) == '=' {
			if l.peekAt(l.pos+2) == '=' {
				l.pos += 3
				return token{kind: tokSNE, text: "!==", pos: start}, nil
			}
			l.pos += 2
			return token{kind: tokNE, text: "!=", pos: start}, nil
		}
		l.pos++
		return token{kind: tokNot, text: "!", pos: start}, nil
	case c == '"' || c == '\'':
		return l.lexString(c)
	case c >= '0' && c <= '9':
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdent()
	default:
		return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) peekAt(i int) byte {
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

// lexString reads a quoted string literal. Backslash escapes the
// delimiter and the backslash itself.
func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			nxt := l.peekAt(l.pos + 1)
			if nxt == quote || nxt == '\\' {
				sb.WriteByte(nxt)
				l.pos += 2
				continue
			}
			sb.WriteByte(c)
			l.pos++
			continue
		}
		if c == quote {
			l.pos++
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: "unterminated string literal"}
}

// lexNumber reads an integer or decimal literal.
func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		// Require a digit after the point; "1." is malformed.
		if d := l.peekAt(l.pos + 1); d < '0' || d > '9' {
			return token{}, &SyntaxError{Expr: l.src, Pos: l.pos, Message: "malformed number: expected digit after decimal point"}
		}
		l.pos++
		for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, &SyntaxError{Expr: l.src, Pos: start, Message: fmt.Sprintf("malformed number %q", text)}
	}
	return token{kind: tokNumber, text: text, num: n, pos: start}, nil
}

// lexIdent reads an identifier segment and maps keywords.
func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	switch text {
	case "true":
		return token{kind: tokTrue, text: text, pos: start}, nil
	case "false":
		return token{kind: tokFalse, text: text, pos: start}, nil
	case "null", "undefined":
		return token{kind: tokNull, text: text, pos: start}, nil
	default:
		return token{kind: tokIdent, text: text, pos: start}, nil
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
